package keymap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"

	"github.com/bizoo/KeymapTools/internal/model"
)

// Scanner finds keymap files under a root directory and turns them into a
// filtered collection of normalized bindings.
type Scanner struct {
	fs       billy.Filesystem
	platform string
	jobs     int
	ignored  IgnoreSet
	logger   *slog.Logger
}

// NewScanner creates a Scanner reading from fsys.
func NewScanner(fsys billy.Filesystem, opts ...Option) *Scanner {
	s := defaultScanner()
	s.fs = fsys
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fileResult is the isolated output of one worker.
type fileResult struct {
	batch    model.Batch
	bindings []model.Keybinding
	err      error
}

// Scan walks root and loads every keymap file found.
//
// Files that cannot be read or parsed are skipped and listed in
// ScanResult.Failures; they never abort the scan. The returned error is
// non-nil only when root cannot be walked or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, root string) (model.ScanResult, error) {
	result := model.ScanResult{Root: root, Platform: s.platform}

	files, err := s.FindKeymaps(root)
	if err != nil {
		return result, err
	}
	result.Files = files
	s.logger.Debug("found keymap files", "root", root, "count", len(files))

	results := make([]fileResult, len(files))
	if len(files) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(s.jobs, len(files)))

		for i, path := range files {
			g.Go(func() error {
				// Cancellation is only checked between files.
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results[i] = s.loadFile(path)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return result, fmt.Errorf("scanning %s: %w", root, err)
		}
	}

	// Single writer merge, in file order.
	batches := make([][]model.Keybinding, 0, len(results))
	total := 0
	for i, r := range results {
		if r.err != nil {
			pkg := model.PackageName(files[i])
			s.logger.Warn("skipping keymap file", "path", files[i], "package", pkg, "error", r.err)
			result.Failures = append(result.Failures, model.FileFailure{
				Path:    files[i],
				Package: pkg,
				Err:     r.err,
			})
			continue
		}
		for _, m := range r.batch.Malformed {
			s.logger.Debug("skipping keymap entry", "path", m.Path, "index", m.Index, "reason", m.Reason)
		}
		result.Malformed = append(result.Malformed, r.batch.Malformed...)
		batches = append(batches, r.bindings)
		total += len(r.bindings)
	}

	result.Collection = Aggregate(batches, s.ignored)
	result.Ignored = total - len(result.Collection)
	s.logger.Info("scan complete",
		"files", len(files),
		"bindings", len(result.Collection),
		"ignored", result.Ignored,
		"failures", len(result.Failures),
	)
	return result, nil
}

// loadFile reads, parses and normalizes one file. It touches nothing but
// its own return value.
func (s *Scanner) loadFile(path string) fileResult {
	pkg := model.PackageName(path)

	content, err := util.ReadFile(s.fs, path)
	if err != nil {
		return fileResult{err: fmt.Errorf("reading keymap: %w", err)}
	}

	batch, err := LoadFileBatch(content, pkg)
	if err != nil {
		var perr *model.ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return fileResult{err: err}
	}

	batch.Path = path
	for i := range batch.Malformed {
		batch.Malformed[i].Path = path
	}
	return fileResult{batch: batch, bindings: NormalizeBatch(batch)}
}

// FindKeymaps returns the sorted paths of the keymap files under root that
// apply to the scanner's platform.
func (s *Scanner) FindKeymaps(root string) ([]string, error) {
	var files []string
	err := util.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable directories are skipped like unreadable files.
			s.logger.Warn("skipping path", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && model.IsKeymapFile(info.Name(), s.platform) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
