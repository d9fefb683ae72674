package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/middleware/trace"
)

var errTemplatesNotLoaded = errors.New("templates not loaded")

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports whether the server can render pages. A missing export
// backend is reported but does not make the server unready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.svc.ExportEnabled() {
		checks["export"] = "ok"
	} else {
		checks["export"] = "not_configured"
	}

	checks["sessions"] = map[string]any{"active": s.sessions.Len()}
	checks["rate_limiter"] = s.limiter.GetMetrics()
	checks["requests"] = s.tracer.GetMetrics()

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	target := s.svc.DefaultTarget()
	data := struct {
		Count         int
		ExportEnabled bool
		SpreadsheetID string
		SheetName     string
		MaxUploadMB   int64
	}{
		Count:         set.Len(),
		ExportEnabled: s.svc.ExportEnabled(),
		SpreadsheetID: target.SpreadsheetID,
		SheetName:     target.Sheet,
		MaxUploadMB:   s.opts.MaxUploadBytes >> 20,
	}

	html, err := s.render("index.html", data)
	if err != nil {
		s.renderFailed(r.Context(), w, "index.html", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

func (s *Server) renderFailed(ctx context.Context, w http.ResponseWriter, name string, err error) {
	fields := log.NewFields().WithRequestID(trace.GetRequestID(ctx))
	fields["template"] = name
	s.events.LogError(ctx, "Template execution failed", err, log.ComponentTemplate, log.OpRender, fields)
	InternalServerError("Could not render " + name).Write(w)
}
