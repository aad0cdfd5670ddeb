package barplot

import (
	"fmt"
	"strings"
)

// DefaultPalette colors bars by position: green, red, blue.
var DefaultPalette = Palette{"#4caf50", "#f44336", "#2196f3"} //nolint:gochecknoglobals // read-only default

// Palette is an ordered list of "#rrggbb" colors assigned to bars by
// position. Positions past the end wrap around.
type Palette []string

// NewPalette normalizes and validates colors. An empty input yields the
// default palette.
func NewPalette(colors []string) (Palette, error) {
	if len(colors) == 0 {
		return append(Palette(nil), DefaultPalette...), nil
	}
	p := make(Palette, 0, len(colors))
	for _, c := range colors {
		norm, err := normalizeHex(c)
		if err != nil {
			return nil, err
		}
		p = append(p, norm)
	}
	return p, nil
}

// At returns the color for bar i.
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return DefaultPalette.At(i)
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

func normalizeHex(c string) (string, error) {
	s := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	if len(s) != 6 {
		return "", fmt.Errorf("%w: %q must be #rrggbb", ErrInvalidColor, c)
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", fmt.Errorf("%w: %q must be #rrggbb", ErrInvalidColor, c)
		}
	}
	return "#" + s, nil
}
