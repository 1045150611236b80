package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/bizoo/KeymapTools/internal/keymap"
	"github.com/bizoo/KeymapTools/internal/model"
	"github.com/bizoo/KeymapTools/internal/report"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// Server serves the reports over HTTP.
type Server struct {
	fs     billy.Filesystem
	scan   keymap.ScanFunc
	logger *slog.Logger

	mu   sync.RWMutex
	last model.ScanResult
}

// NewServer creates a server that rescans on every report request. Keymap
// sources are read back from fsys.
func NewServer(fsys billy.Filesystem, scan keymap.ScanFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{fs: fsys, scan: scan, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/file", s.handleFile)
	mux.HandleFunc("/api/help", handleHelp)

	return mux
}

// StartServer starts the web server on addr and blocks.
func StartServer(addr string, fsys billy.Filesystem, scan keymap.ScanFunc, logger *slog.Logger) error {
	s := NewServer(fsys, scan, logger)

	url := addr
	if strings.HasPrefix(url, ":") {
		url = "localhost" + url
	}
	fmt.Printf("Starting keymaps web server at http://%s\n", url)
	fmt.Printf("Go to http://%s in your browser.\n", url)

	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kindParam := r.URL.Query().Get("kind")
	if kindParam == "" {
		kindParam = string(report.KindShadowing)
	}
	kind, err := report.ParseKind(kindParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.scan(r.Context())
	if err != nil {
		s.logger.Error("scan failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	gr, err := report.Generate(kind, res.Collection)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := report.RenderJSON(w, gr, res); err != nil {
		s.logger.Warn("writing report", "error", err)
	}
}

// handleFile returns the content of a keymap file. Only files found by the
// last scan are served.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	known := slices.Contains(s.last.Files, path)
	s.mu.RUnlock()
	if !known {
		http.Error(w, "not a scanned keymap file", http.StatusForbidden)
		return
	}

	content, err := util.ReadFile(s.fs, path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(content)
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	// Use the embedded help content
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}
