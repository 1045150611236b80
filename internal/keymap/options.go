package keymap

import (
	"io"
	"log/slog"
	"runtime"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithPlatform selects which platform specific keymap files are loaded.
func WithPlatform(platform string) Option {
	return func(s *Scanner) {
		if platform != "" {
			s.platform = platform
		}
	}
}

// WithJobs limits how many files are parsed concurrently.
func WithJobs(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.jobs = n
		}
	}
}

// WithIgnored drops bindings from the named packages (case-insensitive).
func WithIgnored(names ...string) Option {
	return func(s *Scanner) {
		for _, n := range names {
			s.ignored.Add(n)
		}
	}
}

// WithLogger sets the logger used for skipped files and entries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func defaultScanner() *Scanner {
	return &Scanner{
		platform: DetectPlatform(runtime.GOOS),
		jobs:     runtime.GOMAXPROCS(0),
		ignored:  NewIgnoreSet(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
