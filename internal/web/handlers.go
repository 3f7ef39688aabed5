package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"leapscan/internal/export"
	"leapscan/internal/logger"
	"leapscan/internal/scanner"
	"leapscan/internal/symbols"
	"leapscan/pkg/model"
)

// ScanRequest optionally overrides universe and screening criteria for one
// scan. All fields are optional; absent fields keep the configured values.
type ScanRequest struct {
	Universe string                `json:"universe,omitempty"`
	Criteria *model.FilterCriteria `json:"criteria,omitempty"`
}

// UniverseResponse represents available symbol universes
type UniverseResponse struct {
	Universes []UniverseInfo `json:"universes"`
}

// UniverseInfo contains universe details
type UniverseInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var universeNames = map[symbols.Universe]string{
	symbols.UniverseSP500:     "S&P 500",
	symbols.UniverseNasdaq100: "NASDAQ 100",
	symbols.UniverseCombined:  "S&P 500 + NASDAQ 100",
	symbols.UniverseTest:      "Test symbols",
}

// handleScan starts an async scan (POST) - browser polls /api/scan/status
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed - use POST", http.StatusMethodNotAllowed)
		return
	}

	var scanReq ScanRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&scanReq); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	universe := r.URL.Query().Get("universe")
	if universe == "" {
		universe = scanReq.Universe
	}
	if universe == "" {
		universe = s.config.Universe.Segment
	}

	syms, err := s.symbols.Get(symbols.Universe(universe))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := *s.config
	if scanReq.Criteria != nil {
		cfg.Criteria = *scanReq.Criteria
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.scanMu.Lock()
	if s.scan.Status == "running" {
		s.scanMu.Unlock()
		writeJSON(w, map[string]string{"status": "already_running"})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.scanCancel = cancel
	s.scan = scanState{
		Status:    "running",
		Message:   fmt.Sprintf("Scanning %d symbols...", len(syms)),
		Total:     len(syms),
		StartedAt: time.Now(),
	}
	s.scanMu.Unlock()

	go s.runScanAsync(ctx, cancel, s.newScanner(&cfg), universe, syms)

	writeJSON(w, map[string]string{"status": "started"})
}

// runScanAsync runs the scan in background, updating scanState as it goes
func (s *Server) runScanAsync(ctx context.Context, cancel context.CancelFunc, sc *scanner.Scanner, universe string, syms []string) {
	defer cancel()

	sc.SetProgressCallback(func(scanned, total int) {
		s.scanMu.Lock()
		s.scan.Scanned = scanned
		s.scan.Total = total
		s.scan.Message = fmt.Sprintf("Scanning %d/%d symbols...", scanned, total)
		s.scanMu.Unlock()
	})

	result, err := sc.Scan(ctx, universe, syms)

	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	if err != nil {
		logger.Error(ctx, "dashboard scan failed", err, "universe", universe)
		s.scan.Status = "error"
		s.scan.Error = err.Error()
		return
	}

	s.lastResult = result
	s.scan.Status = "done"
	s.scan.Message = fmt.Sprintf("Complete: %d matches in %s",
		len(result.Entries), result.ScanTime.Round(time.Second))
}

// handleScanStatus returns the current scan state
func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.scanMu.RLock()
	state := s.scan
	s.scanMu.RUnlock()

	writeJSON(w, state)
}

// handleScanResult returns the last completed scan result
func (s *Server) handleScanResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.scanMu.RLock()
	result := s.lastResult
	s.scanMu.RUnlock()

	if result == nil {
		http.Error(w, "No scan result available", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// handleExport serves the last scan result as a CSV download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.scanMu.RLock()
	result := s.lastResult
	s.scanMu.RUnlock()

	if result == nil {
		http.Error(w, "No scan result available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=leapscan-%s.csv", result.RunID))
	if err := export.WriteCSV(w, result); err != nil {
		logger.Error(r.Context(), "csv export failed", err)
	}
}

// handleUniverses returns available symbol universes
func (s *Server) handleUniverses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := UniverseResponse{}
	for _, u := range symbols.AvailableUniverses() {
		syms, err := s.symbols.Get(u)
		if err != nil {
			continue
		}
		resp.Universes = append(resp.Universes, UniverseInfo{
			ID:    string(u),
			Name:  universeNames[u],
			Count: len(syms),
		})
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
