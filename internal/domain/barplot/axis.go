package barplot

import (
	"math"
	"strconv"
)

// Axis scaling constants.
const (
	headroomFactor = 1.5
	zeroAxisMax    = 0.05

	annotationFactor     = 0.03
	zeroAnnotationOffset = 0.01

	targetTickIntervals = 5
	stepEpsilon         = 1e-9
)

// AxisMax is the upper y bound: 1.5x the largest value, or 0.05 when every
// value is zero so the axis never collapses.
func AxisMax(samples []Sample) float64 {
	m := MaxValue(samples)
	if m > 0 {
		return m * headroomFactor
	}
	return zeroAxisMax
}

// AnnotationOffset is the gap between a bar top and its value label, in data
// units: 3% of the largest value, or 0.01 when every value is zero.
func AnnotationOffset(samples []Sample) float64 {
	m := MaxValue(samples)
	if m > 0 {
		return m * annotationFactor
	}
	return zeroAnnotationOffset
}

// FormatValue renders v in scientific notation with two mantissa decimals
// and a lowercase exponent marker, e.g. 4.44e-02.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'e', 2, 64)
}

// Tick is a labelled y-axis mark.
type Tick struct {
	Value float64
	Label string
}

// Ticks returns evenly spaced marks from 0 up to and including max, using a
// step of 1, 2, 2.5 or 5 times a power of ten.
func Ticks(max float64) []Tick {
	if !(max > 0) || math.IsInf(max, 0) {
		return []Tick{{Value: 0, Label: "0"}}
	}

	step, decimals := niceStep(max / targetTickIntervals)

	n := int(math.Floor(max/step + 1e-9))
	ticks := make([]Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		// Multiply instead of accumulating to keep labels free of drift.
		v := float64(i) * step
		ticks = append(ticks, Tick{Value: v, Label: strconv.FormatFloat(v, 'f', decimals, 64)})
	}
	return ticks
}

// niceStep rounds raw up to the next friendly step and reports how many
// decimals a label needs to show it exactly.
func niceStep(raw float64) (float64, int) {
	exp := math.Floor(math.Log10(raw))
	mag := math.Pow(10, exp)
	norm := raw/mag - stepEpsilon

	var mult float64
	switch {
	case norm <= 1:
		mult = 1
	case norm <= 2:
		mult = 2
	case norm <= 2.5:
		mult = 2.5
	case norm <= 5:
		mult = 5
	default:
		mult = 10
	}

	decimals := int(-exp)
	if mult == 10 {
		decimals--
	}
	if mult == 2.5 {
		decimals++
	}
	if decimals < 0 {
		decimals = 0
	}
	return mult * mag, decimals
}
