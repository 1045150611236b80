package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bizoo/KeymapTools/internal/config"
	"github.com/bizoo/KeymapTools/internal/keymap"
	"github.com/bizoo/KeymapTools/internal/model"
	"github.com/bizoo/KeymapTools/internal/report"
	"github.com/bizoo/KeymapTools/internal/tui"
	"github.com/bizoo/KeymapTools/internal/watch"
	"github.com/bizoo/KeymapTools/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "bizoo",
		Repository: "KeymapTools",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/bizoo/KeymapTools/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: keymaps [options]\n\n")
		fmt.Fprintf(os.Stderr, "keymaps scans your editor packages for keymap files and reports\n")
		fmt.Fprintf(os.Stderr, "redeclared key bindings and multi part bindings shadowed by a single chord.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keymaps                      # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  keymaps --report             # Print the shadowing report to stdout\n")
		fmt.Fprintf(os.Stderr, "  keymaps -r -k all -o r.txt   # Save every binding to a file\n")
		fmt.Fprintf(os.Stderr, "  keymaps -r --json            # Output the report as JSON\n")
		fmt.Fprintf(os.Stderr, "  keymaps -r --watch           # Reprint the report when keymaps change\n")
	}

	configFlag := pflag.StringP("config", "c", "", "Path to the TOML config file (default $XDG_CONFIG_HOME/keymaps/config.toml)")
	rootFlag := pflag.StringP("root", "p", "", "Packages directory to scan")
	platformFlag := pflag.String("platform", "", "Platform keymaps to load (linux, osx, windows)")
	ignoreFlag := pflag.StringSliceP("ignore", "i", nil, "Package to ignore (repeatable, case-insensitive)")
	noEditorFlag := pflag.Bool("no-editor-settings", false, "Do not read ignored_packages from the editor preferences")
	reportFlag := pflag.BoolP("report", "r", false, "Print a report (CLI mode)")
	kindFlag := pflag.StringP("kind", "k", "", "Report to generate: all, conflicts, shadowing")
	formatFlag := pflag.StringP("format", "f", "", "Report format: text, list, json")
	jsonFlag := pflag.BoolP("json", "j", false, "Shorthand for --format json")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	jobsFlag := pflag.Int("jobs", 0, "Number of keymap files parsed concurrently")
	watchFlag := pflag.Bool("watch", false, "Regenerate the report whenever a keymap file changes")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode")
	addrFlag := pflag.String("addr", ":8080", "Listen address for Web Mode")
	logLevelFlag := pflag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("keymaps version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	logger, err := newLogger(*logLevelFlag)
	if err != nil {
		fail(err)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fail(err)
	}

	// Flags win over the config file
	if *rootFlag != "" {
		cfg.PackagesPath = *rootFlag
	}
	if *platformFlag != "" {
		cfg.Platform = strings.ToLower(*platformFlag)
	}
	cfg.IgnoredPackages = append(cfg.IgnoredPackages, *ignoreFlag...)
	if *noEditorFlag {
		cfg.UseEditorSettings = false
	}
	if *kindFlag != "" {
		cfg.Report.Kind = *kindFlag
	}
	if *formatFlag != "" {
		cfg.Report.Format = *formatFlag
	}
	if *jsonFlag {
		cfg.Report.Format = string(report.FormatJSON)
	}
	if pflag.Lookup("jobs").Changed {
		cfg.Jobs = *jobsFlag
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	root, err := cfg.Root()
	if err != nil {
		fail(err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fail(fmt.Errorf("packages directory %s not found (set --root or packages_path)", root))
	}

	fsys, scanRoot := filesystemFor(root)
	scan := keymap.NewScanFunc(fsys, scanRoot, cfg.UseEditorSettings,
		keymap.WithPlatform(cfg.Platform),
		keymap.WithJobs(cfg.Jobs),
		keymap.WithIgnored(cfg.IgnoredPackages...),
		keymap.WithLogger(logger),
	)

	kind, _ := report.ParseKind(cfg.Report.Kind)
	format, _ := report.ParseFormat(cfg.Report.Format)

	if *webFlag {
		if err := web.StartServer(*addrFlag, fsys, scan, logger); err != nil {
			fail(err)
		}
		return
	}

	if *reportFlag || *jsonFlag || *outputFlag != "" || *watchFlag {
		runReportMode(scan, kind, format, *outputFlag, *watchFlag, root, cfg.Platform, logger)
		return
	}

	// Default: TUI
	runTuiMode(scan, kind)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// filesystemFor roots an OS filesystem at the volume holding root and
// returns root as a path inside it, so scanned file paths stay absolute.
func filesystemFor(root string) (billy.Filesystem, string) {
	vol := filepath.VolumeName(root)
	return osfs.New(vol + string(filepath.Separator)), strings.TrimPrefix(root, vol)
}

func runReportMode(scan keymap.ScanFunc, kind report.Kind, format report.Format, outputFile string, watchMode bool, root, platform string, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := writeReport(ctx, scan, kind, format, outputFile); err != nil {
		fail(err)
	}
	if !watchMode {
		return
	}

	match := func(name string) bool {
		return model.IsKeymapFile(name, platform) || strings.EqualFold(name, filepath.Base(keymap.PreferencesFile))
	}
	w, err := watch.New(root, match, watch.DefaultDebounce, logger)
	if err != nil {
		fail(fmt.Errorf("watching %s: %w", root, err))
	}
	fmt.Fprintf(os.Stderr, "Watching %d directories for keymap changes (Ctrl+C to stop)\n", len(w.WatchList()))

	err = w.Run(ctx, func(paths []string) {
		logger.Info("keymaps changed", "paths", paths)
		if outputFile == "" {
			fmt.Println()
		}
		if err := writeReport(ctx, scan, kind, format, outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		fail(err)
	}
}

func writeReport(ctx context.Context, scan keymap.ScanFunc, kind report.Kind, format report.Format, outputFile string) error {
	res, err := scan(ctx)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics() {
		fmt.Fprintf(os.Stderr, "%s %s\n", model.IconFailure, d)
	}

	gr, err := report.Generate(kind, res.Collection)
	if err != nil {
		return err
	}

	if outputFile == "" {
		return report.Render(os.Stdout, format, gr, res)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, format, gr, res); err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing report to %s: %w", outputFile, err)
	}
	fmt.Printf("Report saved to %s\n", outputFile)
	return nil
}

func runTuiMode(scan keymap.ScanFunc, kind report.Kind) {
	m := tui.InitialModel(scan, kind)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
