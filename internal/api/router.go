// Package api exposes the report engine over HTTP: one endpoint to run a
// report, plus health and metrics. Everything else (settings forms, URL
// parsing, navigation) lives with the caller.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rcourtman/dashreport/internal/config"
	"github.com/rcourtman/dashreport/internal/logging"
	"github.com/rcourtman/dashreport/internal/pdfcanvas"
	"github.com/rcourtman/dashreport/internal/report"
	"github.com/rcourtman/dashreport/pkg/grafana"
)

// DashboardSource fetches dashboard definitions. The production source is
// the grafana client.
type DashboardSource interface {
	GetDashboard(ctx context.Context, uid string) (*grafana.Dashboard, error)
}

// Router routes the HTTP API.
type Router struct {
	mux     *http.ServeMux
	cfg     *config.Config
	source  DashboardSource
	backend report.RenderBackend
}

// NewRouter creates the API router around a dashboard source and a render
// backend.
func NewRouter(cfg *config.Config, source DashboardSource, backend report.RenderBackend) *Router {
	r := &Router{
		mux:     http.NewServeMux(),
		cfg:     cfg,
		source:  source,
		backend: backend,
	}
	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.mux.HandleFunc("/api/health", r.handleHealth)
	r.mux.HandleFunc("/api/reports", r.handleReports)
	r.mux.Handle("/metrics", promhttp.Handler())
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// reportRequest is the POST /api/reports payload. Variables holds manual
// template-variable overrides in any of the accepted value shapes.
type reportRequest struct {
	DashboardUID string         `json:"dashboardUid"`
	From         string         `json:"from"`
	To           string         `json:"to"`
	Variables    map[string]any `json:"variables"`

	// Optional layout overrides applied on top of the configured settings.
	PanelsPerPage *int    `json:"panelsPerPage"`
	Orientation   *string `json:"orientation"`
	ShowTitles    *bool   `json:"showTitles"`
}

func (r *Router) handleReports(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body reportRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if body.DashboardUID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": report.ErrMissingDashboard.Error()})
		return
	}

	ctx, requestID := logging.WithRequestID(req.Context(), req.Header.Get("X-Request-Id"))
	logger := log.With().Str("requestId", requestID).Str("dashboard", body.DashboardUID).Logger()

	dash, err := r.source.GetDashboard(ctx, body.DashboardUID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch dashboard")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	manual := make(report.VariableValueMap, len(body.Variables))
	for name, raw := range body.Variables {
		if entries := report.NormalizeEntries(raw, nil); len(entries) > 0 {
			manual[name] = entries
		}
	}

	settings := r.requestSettings(body)

	gen := &report.Generator{
		Backend:     instrumentedBackend{next: r.backend},
		Settings:    settings,
		NewCanvas:   pdfcanvas.New,
		OutputDir:   r.cfg.OutputDir,
		Concurrency: r.cfg.Concurrency,
		Progress: func(msg string) {
			logger.Info().Msg(msg)
		},
	}

	outcome, err := gen.Generate(ctx, dash.Input(manual, body.From, body.To))
	if err != nil {
		reportsFailed.Inc()
		logger.Error().Err(err).Msg("Report generation failed")
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, report.ErrEmptyPanelSet):
			status = http.StatusUnprocessableEntity
		default:
			var renderErr *report.RenderError
			if errors.As(err, &renderErr) {
				status = http.StatusBadGateway
			}
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	if outcome.Cancelled {
		reportsCancelled.Inc()
		logger.Info().Msg("Report run cancelled by client")
		// The client is usually gone at this point; best effort.
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
		return
	}

	reportsGenerated.Inc()
	logger.Info().Str("file", outcome.FileName).Int("pages", outcome.Pages).Int("panels", outcome.Panels).Msg("Report generated")
	writeJSON(w, http.StatusOK, map[string]any{
		"fileName": outcome.FileName,
		"pages":    outcome.Pages,
		"panels":   outcome.Panels,
	})
}

// requestSettings clones the configured layout settings and applies the
// per-request overrides.
func (r *Router) requestSettings(body reportRequest) *report.Settings {
	s := *r.cfg.Layout
	if body.PanelsPerPage != nil && *body.PanelsPerPage > 0 {
		s.PanelsPerPage = *body.PanelsPerPage
	}
	if body.Orientation != nil {
		if *body.Orientation == "L" || *body.Orientation == "landscape" {
			s.Orientation = "L"
		} else {
			s.Orientation = "P"
		}
	}
	if body.ShowTitles != nil {
		s.ShowTitles = *body.ShowTitles
	}
	return &s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to encode response")
	}
}
