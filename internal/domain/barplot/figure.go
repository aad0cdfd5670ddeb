package barplot

import (
	"fmt"
	"math"
)

// Default figure geometry: 4x3 inches at 150 DPI.
const (
	DefaultWidthIn  = 4.0
	DefaultHeightIn = 3.0
	DefaultDPI      = 150.0

	pointsPerInch = 72.0
)

// Figure is the physical canvas size.
type Figure struct {
	WidthIn  float64
	HeightIn float64
	DPI      float64
}

// DefaultFigure returns the 600x450 pixel canvas.
func DefaultFigure() Figure {
	return Figure{WidthIn: DefaultWidthIn, HeightIn: DefaultHeightIn, DPI: DefaultDPI}
}

// Validate rejects non-positive or non-finite dimensions.
func (f Figure) Validate() error {
	dims := []struct {
		name  string
		value float64
	}{
		{"width", f.WidthIn},
		{"height", f.HeightIn},
		{"dpi", f.DPI},
	}
	for _, d := range dims {
		if !(d.value > 0) || math.IsInf(d.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidFigure, d.name, d.value)
		}
	}
	return nil
}

// Pixels returns the raster size.
func (f Figure) Pixels() (width, height int) {
	return int(math.Round(f.WidthIn * f.DPI)), int(math.Round(f.HeightIn * f.DPI))
}

// PointsToPixels converts a typographic size to device pixels.
func (f Figure) PointsToPixels(pt float64) int {
	return int(math.Round(pt * f.DPI / pointsPerInch))
}
