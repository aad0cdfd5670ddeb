package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/eqbar/internal/adapters/render"
	"github.com/okian/eqbar/internal/domain/barplot"
)

// maxRequestBytes bounds POST /chart bodies.
const maxRequestBytes = 1 << 20

type chartRequest struct {
	Samples []barplot.Sample `json:"samples"`
}

// ChartHandler renders charts on request.
type ChartHandler struct {
	renderer   Renderer
	maxSamples int
}

// NewChartHandler creates a chart handler accepting at most maxSamples bars.
func NewChartHandler(renderer Renderer, maxSamples int) *ChartHandler {
	return &ChartHandler{renderer: renderer, maxSamples: maxSamples}
}

// HandleGet serves the configured samples in format.
func (h *ChartHandler) HandleGet(format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		h.serve(w, r, h.renderer.Samples(), format)
	}
}

// HandlePost handles POST /chart?format=png|svg with a JSON sample list.
func (h *ChartHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	var req chartRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit))
			return
		}
		writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if h.maxSamples > 0 && len(req.Samples) > h.maxSamples {
		writeError(w, r, http.StatusRequestEntityTooLarge, "too_many_samples",
			fmt.Errorf("%w: %d > %d", ErrTooManySamples, len(req.Samples), h.maxSamples))
		return
	}
	h.serve(w, r, req.Samples, format)
}

// serve renders into memory first so a failure can still become a clean
// error response.
func (h *ChartHandler) serve(w http.ResponseWriter, r *http.Request, samples []barplot.Sample, format render.Format) {
	var buf bytes.Buffer
	if _, err := h.renderer.RenderTo(r.Context(), &buf, samples, format); err != nil {
		if errors.Is(err, barplot.ErrNoSamples) || errors.Is(err, barplot.ErrInvalidSample) {
			writeError(w, r, http.StatusBadRequest, "invalid_samples", err)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "render_failed", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}
