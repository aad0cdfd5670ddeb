// Package render rasterizes a barplot.Plot through go-chart's PNG and SVG
// renderers.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/okian/eqbar/internal/domain/barplot"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Stroke widths in pixels.
const (
	frameStrokeWidth = 1.0
	tickStrokeWidth  = 1.0
)

// yLabelRotation turns the y label so it reads bottom to top.
var yLabelRotation = 3 * math.Pi / 2 //nolint:gochecknoglobals // constant angle

// Encode draws p on a canvas of fig's size and writes it to w in format.
func Encode(w io.Writer, p barplot.Plot, fig barplot.Figure, format Format) error {
	if err := fig.Validate(); err != nil {
		return err
	}
	if !(p.YMax > 0) || math.IsInf(p.YMax, 0) {
		return fmt.Errorf("%w: y axis max must be positive and finite, got %g", ErrCanvasTooSmall, p.YMax)
	}
	provider, err := format.provider()
	if err != nil {
		return err
	}

	width, height := fig.Pixels()
	r, err := provider(width, height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	r.SetDPI(fig.DPI)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("%w: load font: %w", ErrBackend, err)
	}
	r.SetFont(font)

	lay, err := computeLayout(p, fig, measureWith(r))
	if err != nil {
		return err
	}

	c := canvas{r: r, lay: lay, plot: p}
	c.background()
	c.bars()
	c.frame()
	c.yAxis()
	c.xAxis()
	c.title()
	c.annotations()

	if err := r.Save(w); err != nil {
		return fmt.Errorf("%w: save: %w", ErrBackend, err)
	}
	return nil
}

func measureWith(r chart.Renderer) measureFunc {
	return func(text string, sizePt float64) (int, int) {
		r.SetFontSize(sizePt)
		b := r.MeasureText(text)
		return b.Width(), b.Height()
	}
}

// canvas issues draw calls for one plot.
type canvas struct {
	r    chart.Renderer
	lay  layout
	plot barplot.Plot
}

func (c canvas) background() {
	c.fillRect(chart.Box{Top: 0, Left: 0, Right: c.lay.width, Bottom: c.lay.height}, drawing.ColorWhite)
}

func (c canvas) bars() {
	half := c.lay.barHalfWidth()
	for i, b := range c.plot.Bars {
		cx := c.lay.barCenter(i)
		top := c.lay.y(b.Value, c.plot.YMax)
		if top >= c.lay.plot.Bottom {
			continue
		}
		c.fillRect(chart.Box{Top: top, Left: cx - half, Right: cx + half, Bottom: c.lay.plot.Bottom}, hexColor(b.Color))
	}
}

func (c canvas) frame() {
	p := c.lay.plot
	c.r.SetStrokeColor(drawing.ColorBlack)
	c.r.SetStrokeWidth(frameStrokeWidth)
	c.r.MoveTo(p.Left, p.Top)
	c.r.LineTo(p.Right, p.Top)
	c.r.LineTo(p.Right, p.Bottom)
	c.r.LineTo(p.Left, p.Bottom)
	c.r.LineTo(p.Left, p.Top)
	c.r.Stroke()
}

func (c canvas) yAxis() {
	p := c.lay.plot
	labelRight := p.Left - c.lay.tickLen - c.lay.gap
	for _, t := range c.plot.Ticks {
		y := c.lay.y(t.Value, c.plot.YMax)
		c.line(p.Left-c.lay.tickLen, y, p.Left, y)

		c.r.SetFontSize(tickPt)
		tb := c.r.MeasureText(t.Label)
		c.text(t.Label, tickPt, labelRight-tb.Width(), y+tb.Height()/2)
	}

	c.r.SetFontSize(labelPt)
	lb := c.r.MeasureText(c.plot.YLabel)
	x := labelRight - c.lay.tickLabelW - c.lay.gap
	y := p.Top + p.Height()/2 + lb.Width()/2
	c.r.SetTextRotation(yLabelRotation)
	c.text(c.plot.YLabel, labelPt, x, y)
	c.r.ClearTextRotation()
}

func (c canvas) xAxis() {
	p := c.lay.plot
	for i, b := range c.plot.Bars {
		cx := c.lay.barCenter(i)
		c.line(cx, p.Bottom, cx, p.Bottom+c.lay.tickLen)

		c.r.SetFontSize(tickPt)
		tb := c.r.MeasureText(b.Label)
		c.text(b.Label, tickPt, cx-tb.Width()/2, p.Bottom+c.lay.tickLen+c.lay.gap+tb.Height())
	}
}

func (c canvas) title() {
	p := c.lay.plot
	c.r.SetFontSize(titlePt)
	tb := c.r.MeasureText(c.plot.Title)
	c.text(c.plot.Title, titlePt, p.Left+p.Width()/2-tb.Width()/2, p.Top-c.lay.gap)
}

func (c canvas) annotations() {
	for i, b := range c.plot.Bars {
		c.r.SetFontSize(annotationPt)
		tb := c.r.MeasureText(b.Annotation)
		c.text(b.Annotation, annotationPt, c.lay.barCenter(i)-tb.Width()/2, c.lay.y(b.AnnotationY, c.plot.YMax))
	}
}

func (c canvas) fillRect(b chart.Box, color drawing.Color) {
	c.r.SetFillColor(color)
	c.r.MoveTo(b.Left, b.Top)
	c.r.LineTo(b.Right, b.Top)
	c.r.LineTo(b.Right, b.Bottom)
	c.r.LineTo(b.Left, b.Bottom)
	c.r.Close()
	c.r.Fill()
}

func (c canvas) line(x0, y0, x1, y1 int) {
	c.r.SetStrokeColor(drawing.ColorBlack)
	c.r.SetStrokeWidth(tickStrokeWidth)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y1)
	c.r.Stroke()
}

// text draws body with its baseline at y.
func (c canvas) text(body string, sizePt float64, x, y int) {
	c.r.SetFontSize(sizePt)
	c.r.SetFontColor(drawing.ColorBlack)
	c.r.Text(body, x, y)
}

// hexColor expects a color already normalized by barplot.NewPalette.
func hexColor(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}
