// Package service renders equivariance bar charts: it turns samples into a
// plot, encodes it, stores it and reports on the way.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/okian/eqbar/internal/adapters/render"
	"github.com/okian/eqbar/internal/adapters/storage"
	"github.com/okian/eqbar/internal/domain/barplot"
	"github.com/okian/eqbar/pkg/logger"
	"github.com/okian/eqbar/pkg/metrics"
)

// Error kinds reported to metrics.
const (
	kindRender = "render"
	kindIO     = "io"
)

// Result describes a stored chart.
type Result struct {
	Path     string
	Bytes    int64
	Plot     barplot.Plot
	Duration time.Duration
}

// Service renders charts with a fixed look: figure, format, text and colors.
type Service struct {
	figure  barplot.Figure
	format  render.Format
	opts    barplot.Options
	samples []barplot.Sample

	stdout io.Writer
	logger logger.Logger

	mu       sync.Mutex
	renders  int64
	failures int64
	lastPath string
	lastSize int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStdout sets where the confirmation line is printed.
func WithStdout(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.stdout = w
		}
	}
}

// WithFigure sets the canvas geometry.
func WithFigure(f barplot.Figure) Option {
	return func(s *Service) {
		s.figure = f
	}
}

// WithFormat sets the image format used by Render.
func WithFormat(f render.Format) Option {
	return func(s *Service) {
		if f != "" {
			s.format = f
		}
	}
}

// WithTitle sets the chart title, without the count suffix.
func WithTitle(title string) Option {
	return func(s *Service) {
		if title != "" {
			s.opts.Title = title
		}
	}
}

// WithTitleCount pins the n= suffix. Zero derives it from the samples.
func WithTitleCount(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.opts.TitleCount = n
		}
	}
}

// WithYLabel sets the value axis label.
func WithYLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.opts.YLabel = label
		}
	}
}

// WithPalette sets the bar colors.
func WithPalette(p barplot.Palette) Option {
	return func(s *Service) {
		if len(p) > 0 {
			s.opts.Palette = p
		}
	}
}

// WithSamples sets the samples served by Samples.
func WithSamples(samples []barplot.Sample) Option {
	return func(s *Service) {
		if len(samples) > 0 {
			s.samples = append([]barplot.Sample(nil), samples...)
		}
	}
}

// New constructs a Service that reproduces the micro-test chart unless
// options say otherwise.
func New(opts ...Option) *Service {
	s := &Service{
		figure:  barplot.DefaultFigure(),
		format:  render.PNG,
		opts:    barplot.DefaultOptions(),
		samples: barplot.DefaultSamples(),
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("chart")
	}
	return s
}

// Samples returns a copy of the configured samples.
func (s *Service) Samples() []barplot.Sample {
	return append([]barplot.Sample(nil), s.samples...)
}

// Format returns the format used by Render.
func (s *Service) Format() render.Format {
	return s.format
}

// Render draws samples and stores the image at outputPath, then prints
// "Saved <outputPath>". Nothing is written when samples are invalid, and a
// failed write leaves no partial file.
func (s *Service) Render(ctx context.Context, samples []barplot.Sample, outputPath string) (Result, error) {
	start := time.Now()

	plot, err := s.build(samples)
	if err != nil {
		return Result{}, s.fail(ctx, kindRender, outputPath, err)
	}

	n, err := storage.WriteFile(outputPath, func(w io.Writer) error {
		if err := render.Encode(w, plot, s.figure, s.format); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRender) {
			return Result{}, s.fail(ctx, kindRender, outputPath, err)
		}
		return Result{}, s.fail(ctx, kindIO, outputPath, fmt.Errorf("%w: %w", ErrIO, err))
	}

	elapsed := time.Since(start)
	s.succeed(s.format, plot, n, elapsed, outputPath)
	s.logger.Info(ctx, "chart saved",
		logger.String("path", outputPath),
		logger.String("format", string(s.format)),
		logger.String("size", humanize.Bytes(uint64(n))),
		logger.Int("bars", len(plot.Bars)),
		logger.Duration("elapsed", elapsed),
	)

	if _, err := fmt.Fprintf(s.stdout, "Saved %s\n", outputPath); err != nil {
		return Result{}, fmt.Errorf("%w: confirmation: %w", ErrIO, err)
	}
	return Result{Path: outputPath, Bytes: n, Plot: plot, Duration: elapsed}, nil
}

// RenderTo draws samples in format and writes the image to w.
func (s *Service) RenderTo(ctx context.Context, w io.Writer, samples []barplot.Sample, format render.Format) (int64, error) {
	start := time.Now()

	plot, err := s.build(samples)
	if err != nil {
		return 0, s.fail(ctx, kindRender, "", err)
	}

	cw := &countingWriter{w: w}
	if err := render.Encode(cw, plot, s.figure, format); err != nil {
		return 0, s.fail(ctx, kindRender, "", fmt.Errorf("%w: %w", ErrRender, err))
	}

	elapsed := time.Since(start)
	s.succeed(format, plot, cw.n, elapsed, "")

	s.logger.Debug(ctx, "chart streamed",
		logger.String("format", string(format)),
		logger.Int64("bytes", cw.n),
		logger.Duration("elapsed", elapsed),
	)
	return cw.n, nil
}

// GetStats returns render counters for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.figure.Pixels()
	return map[string]interface{}{
		"renders":   s.renders,
		"failures":  s.failures,
		"lastPath":  s.lastPath,
		"lastBytes": s.lastSize,
		"format":    string(s.format),
		"width":     w,
		"height":    h,
		"dpi":       s.figure.DPI,
	}
}

func (s *Service) build(samples []barplot.Sample) (barplot.Plot, error) {
	plot, err := barplot.Build(samples, s.opts)
	if err != nil {
		return barplot.Plot{}, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return plot, nil
}

func (s *Service) succeed(format render.Format, plot barplot.Plot, n int64, elapsed time.Duration, path string) {
	metrics.RecordRender(string(format), float64(elapsed.Microseconds())/1e3)
	metrics.UpdateLastChart(n, len(plot.Bars), plot.YMax)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
	s.lastSize = n
	if path != "" {
		s.lastPath = path
	}
}

func (s *Service) fail(ctx context.Context, kind, path string, err error) error {
	metrics.RecordRenderError(kind)
	s.mu.Lock()
	s.failures++
	s.mu.Unlock()

	fields := []logger.Field{logger.String("kind", kind), logger.Error(err)}
	if path != "" {
		fields = append(fields, logger.String("path", path))
	}
	s.logger.Error(ctx, "chart render failed", fields...)
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
