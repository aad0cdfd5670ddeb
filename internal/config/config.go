// Package config defines process configuration and its defaults.
//
// Conventions:
// - Defaults come from New and reproduce the micro-test chart exactly.
// - Load layers a YAML file and environment variables on top.
// - Validation errors wrap ErrInvalidConfig; loading errors wrap ErrLoadConfig.
package config

import (
	"github.com/okian/eqbar/internal/domain/barplot"
)

// DefaultOutputPath is where the zero-argument command writes the chart.
const DefaultOutputPath = "docs/figs/equivariance_bar.png"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects "text" or "json" log lines.
	LogFormat string `koanf:"log_format"`

	// OutputPath is the file the render command writes.
	OutputPath string `koanf:"output_path"`

	// Format is the image encoding: png or svg.
	Format string `koanf:"format"`

	// Title is the chart title without the "(n=...)" suffix.
	Title string `koanf:"title"`

	// TitleCount pins the n= suffix; 0 derives it from the sample count.
	TitleCount int `koanf:"title_count"`

	// YLabel labels the value axis.
	YLabel string `koanf:"y_label"`

	// WidthIn, HeightIn and DPI set the canvas size.
	WidthIn  float64 `koanf:"width_in"`
	HeightIn float64 `koanf:"height_in"`
	DPI      float64 `koanf:"dpi"`

	// Palette lists "#rrggbb" bar colors, reused cyclically.
	Palette []string `koanf:"palette"`

	// Samples are the bars in display order.
	Samples []barplot.Sample `koanf:"samples"`

	// Addr configures the HTTP listen address of the serve command.
	Addr string `koanf:"addr"`

	// MaxSamples caps the bars accepted by POST /chart.
	MaxSamples int `koanf:"max_samples"`

	// MetricsTextfile, when set, receives a Prometheus dump after each render command.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New returns a Config holding the defaults.
func New() *Config {
	fig := barplot.DefaultFigure()
	return &Config{
		LogLevel:   "info",
		LogFormat:  "text",
		OutputPath: DefaultOutputPath,
		Format:     "png",
		Title:      barplot.DefaultTitle,
		YLabel:     barplot.DefaultYLabel,
		WidthIn:    fig.WidthIn,
		HeightIn:   fig.HeightIn,
		DPI:        fig.DPI,
		Palette:    append([]string(nil), barplot.DefaultPalette...),
		Samples:    barplot.DefaultSamples(),
		Addr:       ":9080",
		MaxSamples: 64,
	}
}

// Figure returns the configured canvas geometry.
func (c *Config) Figure() barplot.Figure {
	return barplot.Figure{WidthIn: c.WidthIn, HeightIn: c.HeightIn, DPI: c.DPI}
}
