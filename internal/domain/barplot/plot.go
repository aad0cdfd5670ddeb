package barplot

import "fmt"

// Default chart text.
const (
	DefaultTitle  = "Micro-test: equivariance"
	DefaultYLabel = "Equivariance error"
)

// Bar is one fully resolved bar.
type Bar struct {
	Label      string
	Value      float64
	Color      string
	Annotation string
	// AnnotationY is the baseline of the value label, in data units.
	AnnotationY float64
}

// Plot is a renderer-independent description of the chart.
type Plot struct {
	Title  string
	YLabel string
	YMax   float64
	Ticks  []Tick
	Bars   []Bar
}

// Options controls the text and colors of a Plot.
type Options struct {
	Title  string
	YLabel string
	// TitleCount pins the "n=" suffix. Zero derives it from the sample count.
	TitleCount int
	Palette    Palette
}

// DefaultOptions reproduces the original micro-test chart.
func DefaultOptions() Options {
	return Options{Title: DefaultTitle, YLabel: DefaultYLabel, Palette: DefaultPalette}
}

// Title appends the sample count to a chart title.
func Title(base string, count int) string {
	return fmt.Sprintf("%s (n=%d)", base, count)
}

// Build validates samples and computes the plot.
func Build(samples []Sample, opts Options) (Plot, error) {
	if err := Validate(samples); err != nil {
		return Plot{}, err
	}

	count := opts.TitleCount
	if count <= 0 {
		count = len(samples)
	}

	yMax := AxisMax(samples)
	offset := AnnotationOffset(samples)

	bars := make([]Bar, len(samples))
	for i, s := range samples {
		bars[i] = Bar{
			Label:       s.Label,
			Value:       s.Value,
			Color:       opts.Palette.At(i),
			Annotation:  FormatValue(s.Value),
			AnnotationY: s.Value + offset,
		}
	}

	return Plot{
		Title:  Title(opts.Title, count),
		YLabel: opts.YLabel,
		YMax:   yMax,
		Ticks:  Ticks(yMax),
		Bars:   bars,
	}, nil
}
