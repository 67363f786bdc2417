package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/huxxhu/oxc/internal/state"
	"github.com/huxxhu/oxc/pkg/estree"
)

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// reportPayload is the report response, with the reconciliation time
// alongside the report itself.
type reportPayload struct {
	ReconciledAt time.Time `json:"reconciled_at"`
	*estree.Report
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	report, reconciled, lastErr := s.snapshot()
	if report == nil {
		msg := "no successful reconciliation yet"
		if lastErr != nil {
			msg = lastErr.Error()
		}
		writeError(w, http.StatusServiceUnavailable, msg)
		return
	}
	writeJSON(w, http.StatusOK, reportPayload{ReconciledAt: reconciled, Report: report})
}

// handleReportText serves the rendered report in the same text form the
// file artifact uses.
func (s *Server) handleReportText(w http.ResponseWriter, _ *http.Request) {
	report, _, lastErr := s.snapshot()
	if report == nil {
		msg := "no successful reconciliation yet"
		if lastErr != nil {
			msg = lastErr.Error()
		}
		http.Error(w, msg, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	content := report.Render()
	if content != "" {
		content += "\n"
	}
	_, _ = w.Write([]byte(content))
}

func (s *Server) handleMismatches(w http.ResponseWriter, _ *http.Request) {
	report, _, lastErr := s.snapshot()
	if report == nil {
		msg := "no successful reconciliation yet"
		if lastErr != nil {
			msg = lastErr.Error()
		}
		writeError(w, http.StatusServiceUnavailable, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      report.Len(),
		"mismatches": report.Mismatches,
	})
}

// handleReconcile re-runs reconciliation immediately. Invalid overrides
// are the caller's problem (422); anything else is a server-side failure.
func (s *Server) handleReconcile(w http.ResponseWriter, _ *http.Request) {
	if err := s.reconcile(); err != nil {
		var overrideErr *estree.OverrideError
		if errors.As(err, &overrideErr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, reconciled, _ := s.snapshot()
	writeJSON(w, http.StatusOK, reportPayload{ReconciledAt: reconciled, Report: report})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run history disabled")
		return
	}

	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxRunLimit)
	}

	runs, err := s.store.ListReconcileRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []*state.ReconcileRun{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run history disabled")
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.store.GetReconcileRun(id)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}
