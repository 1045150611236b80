package keymap

import (
	"context"

	"github.com/go-git/go-billy/v5"

	"github.com/bizoo/KeymapTools/internal/model"
)

// ScanFunc runs a complete scan. The CLI, TUI, web server and watcher all
// hold one and call it whenever they need fresh data.
type ScanFunc func(ctx context.Context) (model.ScanResult, error)

// NewScanFunc returns a ScanFunc over root. When useEditorSettings is set,
// the editor's own ignored_packages list is re-read on every call and added
// to the ignored packages given in opts.
func NewScanFunc(fsys billy.Filesystem, root string, useEditorSettings bool, opts ...Option) ScanFunc {
	return func(ctx context.Context) (model.ScanResult, error) {
		scanOpts := opts
		if useEditorSettings {
			s := NewScanner(fsys, opts...)
			names, err := LoadIgnoredPackages(fsys, root)
			if err != nil {
				// Preferences are optional, a broken file only loses the extra filter.
				s.logger.Warn("ignoring editor preferences", "error", err)
			} else if len(names) > 0 {
				s.logger.Debug("ignored packages from editor preferences", "packages", names)
				scanOpts = append(append([]Option{}, opts...), WithIgnored(names...))
			}
		}
		return NewScanner(fsys, scanOpts...).Scan(ctx, root)
	}
}
