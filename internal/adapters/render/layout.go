package render

import (
	"fmt"
	"math"

	"github.com/okian/eqbar/internal/domain/barplot"
	chart "github.com/wcharczuk/go-chart/v2"
)

// Type sizes in points and spacing in points, scaled by the figure DPI.
const (
	titlePt      = 12.0
	labelPt      = 10.0
	tickPt       = 10.0
	annotationPt = 10.0

	padPt     = 6.0
	gapPt     = 3.5
	tickLenPt = 3.5

	barFill = 0.8
)

// measureFunc reports the pixel extent of text at a point size.
type measureFunc func(text string, sizePt float64) (width, height int)

// layout places the plot area so that every label fits on the canvas.
type layout struct {
	width, height int
	plot          chart.Box
	pad           int
	gap           int
	tickLen       int
	tickLabelW    int
	slot          float64
}

func computeLayout(p barplot.Plot, fig barplot.Figure, measure measureFunc) (layout, error) {
	w, h := fig.Pixels()
	l := layout{
		width:   w,
		height:  h,
		pad:     fig.PointsToPixels(padPt),
		gap:     fig.PointsToPixels(gapPt),
		tickLen: fig.PointsToPixels(tickLenPt),
	}

	_, titleH := measure(p.Title, titlePt)
	_, yLabelH := measure(p.YLabel, labelPt)
	for _, t := range p.Ticks {
		if tw, _ := measure(t.Label, tickPt); tw > l.tickLabelW {
			l.tickLabelW = tw
		}
	}
	var xLabelH int
	for _, b := range p.Bars {
		if _, bh := measure(b.Label, tickPt); bh > xLabelH {
			xLabelH = bh
		}
	}

	l.plot = chart.Box{
		Top:    l.pad + titleH + 2*l.gap,
		Left:   l.pad + yLabelH + l.gap + l.tickLabelW + l.gap + l.tickLen,
		Right:  w - l.pad,
		Bottom: h - l.pad - xLabelH - l.gap - l.tickLen,
	}

	if empty(l.plot) {
		return layout{}, tooSmall(w, h)
	}

	// Outer bar labels are centered under their bars and may overhang.
	if n := len(p.Bars); n > 0 {
		l.slot = float64(l.plot.Width()) / float64(n)
		firstW, _ := measure(p.Bars[0].Label, tickPt)
		if edge := l.plot.Left + int(l.slot/2) - firstW/2; edge < l.pad {
			l.plot.Left += l.pad - edge
		}
		lastW, _ := measure(p.Bars[n-1].Label, tickPt)
		if edge := l.plot.Right - int(l.slot/2) + lastW/2; edge > w-l.pad {
			l.plot.Right -= edge - (w - l.pad)
		}
		l.slot = float64(l.plot.Width()) / float64(n)
	}

	if empty(l.plot) {
		return layout{}, tooSmall(w, h)
	}
	return l, nil
}

// empty compares raw edges; chart.Box.Width and Height are absolute values
// and hide an inverted box.
func empty(b chart.Box) bool {
	return b.Right <= b.Left || b.Bottom <= b.Top
}

func tooSmall(w, h int) error {
	return fmt.Errorf("%w: %dx%d px leaves no plot area", ErrCanvasTooSmall, w, h)
}

// barCenter is the x pixel of bar i's center.
func (l layout) barCenter(i int) int {
	return l.plot.Left + int(math.Round(l.slot*(float64(i)+0.5)))
}

// barHalfWidth is half of a bar's drawn width.
func (l layout) barHalfWidth() int {
	return int(math.Round(l.slot * barFill / 2))
}

// y maps a data value onto the plot, clamped to the plot area.
func (l layout) y(v, yMax float64) int {
	frac := v / yMax
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return l.plot.Bottom - int(math.Round(frac*float64(l.plot.Height())))
}
