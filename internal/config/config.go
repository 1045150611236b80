// Package config loads the keymaps configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/bizoo/KeymapTools/internal/keymap"
	"github.com/bizoo/KeymapTools/internal/model"
	"github.com/bizoo/KeymapTools/internal/report"
)

// Config holds every setting the CLI, TUI and web modes share.
type Config struct {
	PackagesPath      string   `toml:"packages_path"`
	Platform          string   `toml:"platform"`
	IgnoredPackages   []string `toml:"ignored_packages"`
	UseEditorSettings bool     `toml:"use_editor_settings"`
	Jobs              int      `toml:"jobs"`
	Report            Report   `toml:"report"`
}

// Report holds the defaults for report mode.
type Report struct {
	Kind   string `toml:"kind"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PackagesPath:      DefaultPackagesPath(runtime.GOOS),
		Platform:          keymap.DetectPlatform(runtime.GOOS),
		UseEditorSettings: true,
		Jobs:              runtime.GOMAXPROCS(0),
		Report: Report{
			Kind:   string(report.KindShadowing),
			Format: string(report.FormatText),
		},
	}
}

// DefaultPackagesPath returns where the editor keeps its packages on goos.
func DefaultPackagesPath(goos string) string {
	switch goos {
	case "darwin":
		return "~/Library/Application Support/Sublime Text/Packages"
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Sublime Text", "Packages")
		}
		return "~/AppData/Roaming/Sublime Text/Packages"
	default:
		return "~/.config/sublime-text/Packages"
	}
}

// DefaultPath returns the config file location, honouring XDG_CONFIG_HOME.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "keymaps", "config.toml")
	}
	return model.ExpandTilde("~/.config/keymaps/config.toml")
}

// Load reads path on top of the defaults. When path is empty the default
// location is tried and silently skipped if it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	path = model.ExpandTilde(path)

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings no mode can work with.
func (c Config) Validate() error {
	if !keymap.ValidPlatform(c.Platform) {
		return fmt.Errorf("invalid platform %q (must be linux, osx, or windows)", c.Platform)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("invalid jobs %d (must be at least 1)", c.Jobs)
	}
	if _, err := report.ParseKind(c.Report.Kind); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return err
	}
	return nil
}

// Root returns the packages path with ~ expanded and made absolute.
func (c Config) Root() (string, error) {
	return filepath.Abs(model.ExpandTilde(c.PackagesPath))
}
