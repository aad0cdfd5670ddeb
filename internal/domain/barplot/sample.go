// Package barplot computes everything a bar chart needs before any pixel is
// drawn: axis bounds, tick marks, value annotations, titles and colors.
//
// Nothing in this package touches a renderer or the filesystem, so every
// number that ends up on the chart can be checked in isolation.
package barplot

import (
	"fmt"
	"math"
	"strings"
)

// Sample is one bar: a label and a non-negative error magnitude.
type Sample struct {
	Label string  `json:"label" koanf:"label"`
	Value float64 `json:"value" koanf:"value"`
}

// DefaultSamples returns the micro-test outcome in display order:
// baseline, after break, after repair.
func DefaultSamples() []Sample {
	return []Sample{
		{Label: "Baseline", Value: 0.0},
		{Label: "After break", Value: 4.444e-02},
		{Label: "After repair", Value: 0.0},
	}
}

// Validate reports the first sample that cannot be plotted.
func Validate(samples []Sample) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	for i, s := range samples {
		if strings.TrimSpace(s.Label) == "" {
			return fmt.Errorf("%w: sample %d has an empty label", ErrInvalidSample, i)
		}
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return fmt.Errorf("%w: sample %q is not finite", ErrInvalidSample, s.Label)
		}
		if s.Value < 0 {
			return fmt.Errorf("%w: sample %q is negative (%g)", ErrInvalidSample, s.Label, s.Value)
		}
		if math.IsInf(s.Value*headroomFactor, 0) {
			return fmt.Errorf("%w: sample %q is too large (%g)", ErrInvalidSample, s.Label, s.Value)
		}
	}
	return nil
}

// MaxValue returns the largest sample value, or 0 for an empty slice.
func MaxValue(samples []Sample) float64 {
	var m float64
	for _, s := range samples {
		if s.Value > m {
			m = s.Value
		}
	}
	return m
}
