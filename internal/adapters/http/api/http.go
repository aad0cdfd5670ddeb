// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/eqbar/internal/adapters/render"
	"github.com/okian/eqbar/internal/domain/barplot"
)

// Renderer is the slice of the chart service the handlers depend on.
type Renderer interface {
	RenderTo(ctx context.Context, w io.Writer, samples []barplot.Sample, format render.Format) (int64, error)
	Samples() []barplot.Sample
}

// Server wires HTTP routes for the chart API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	chartHandler  *ChartHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(renderer Renderer, statsProvider StatsProvider, maxSamples int) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		chartHandler:  NewChartHandler(renderer, maxSamples),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", route(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", route(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/chart.png", route(s.chartHandler.HandleGet(render.PNG), "chart_png"))
	mux.HandleFunc("/chart.svg", route(s.chartHandler.HandleGet(render.SVG), "chart_svg"))
	mux.HandleFunc("/chart", route(s.chartHandler.HandlePost, "chart"))
}

func route(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFromContext(r.Context())})
}
