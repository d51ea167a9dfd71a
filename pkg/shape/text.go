package shape

import (
	"strings"

	"github.com/orreryworks/orrery/pkg/geometry"
)

// Measurer estimates the rendered extent of label text. The real
// font-based measurement lives in the export backend; the layout engine
// only needs a monotone width function, so tests and the default engine
// use a fixed per-rune estimate.
type Measurer interface {
	Measure(text string) geometry.Size
}

// CharMeasurer estimates text extents from fixed per-rune metrics.
// Multi-line text measures as the widest line times the line count.
type CharMeasurer struct {
	RuneWidth  float64
	LineHeight float64
}

// Measure returns the estimated extent of text.
func (m CharMeasurer) Measure(text string) geometry.Size {
	if text == "" {
		return geometry.Size{}
	}
	var widest int
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if n := len([]rune(line)); n > widest {
			widest = n
		}
	}
	return geometry.Size{
		Width:  float64(widest) * m.RuneWidth,
		Height: float64(len(lines)) * m.LineHeight,
	}
}
