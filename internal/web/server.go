// Package web serves the screening dashboard and its JSON API.
package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"leapscan/internal/config"
	"leapscan/internal/logger"
	"leapscan/internal/scanner"
	"leapscan/internal/symbols"
	"leapscan/pkg/model"
)

//go:embed static
var staticFiles embed.FS

// scanState tracks the lifecycle of the current or last scan. The browser
// starts a scan with POST /api/scan and polls /api/scan/status.
type scanState struct {
	Status    string    `json:"status"` // idle, running, done, error
	Message   string    `json:"message,omitempty"`
	Scanned   int       `json:"scanned"`
	Total     int       `json:"total"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// ScannerFactory builds a scanner for a request's effective configuration.
// Requests may override the screening criteria, so the server cannot hold a
// single pre-built pipeline.
type ScannerFactory func(cfg *config.Config) *scanner.Scanner

// Server represents the web server
type Server struct {
	config     *config.Config
	newScanner ScannerFactory
	symbols    *symbols.Provider
	srv        *http.Server

	scanMu     sync.RWMutex
	scan       scanState
	scanCancel context.CancelFunc
	lastResult *model.ScanResult
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, factory ScannerFactory, sym *symbols.Provider) *Server {
	return &Server{
		config:     cfg,
		newScanner: factory,
		symbols:    sym,
		scan:       scanState{Status: "idle"},
	}
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/scan/status", s.handleScanStatus)
	mux.HandleFunc("/api/scan/result", s.handleScanResult)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/universes", s.handleUniverses)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static file system: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info(context.Background(), "starting dashboard",
		"url", fmt.Sprintf("http://localhost:%d", port))

	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.scanMu.Lock()
	if s.scanCancel != nil {
		s.scanCancel()
	}
	s.scanMu.Unlock()

	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware adds CORS headers for local development
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
