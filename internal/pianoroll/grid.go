package pianoroll

import "math"

// Quantization selects the grid granularity used for snapping.
type Quantization int

const (
	QuantizeNone Quantization = iota
	QuantizeBar
	QuantizeHalf
	QuantizeQuarter
	QuantizeEighth
	QuantizeSixteenth
	QuantizeThirtySecond
	QuantizeTriplet
	QuantizeDotted
)

// QuantizationNames lists values for UI dropdowns, in declaration order.
var QuantizationNames = []string{
	"None", "Bar", "1/2", "1/4", "1/8", "1/16", "1/32", "Triplet", "Dotted",
}

func (q Quantization) String() string {
	if q < 0 || int(q) >= len(QuantizationNames) {
		return "1/16"
	}
	return QuantizationNames[q]
}

// ParseQuantization maps a UI name back to its value. Unknown names fall back
// to sixteenth notes.
func ParseQuantization(name string) Quantization {
	for i, n := range QuantizationNames {
		if n == name {
			return Quantization(i)
		}
	}
	return QuantizeSixteenth
}

// GridConfig is the quantization policy for the roll.
type GridConfig struct {
	Snap         bool
	Quantization Quantization
	ShowGrid     bool
}

// NewGridConfig returns the default grid: snapping to sixteenth notes.
func NewGridConfig() GridConfig {
	return GridConfig{
		Snap:         true,
		Quantization: QuantizeSixteenth,
		ShowGrid:     true,
	}
}

// SnapValue returns the grid granularity in beats, or 0 when snapping is
// disabled or the quantization is None.
func (g GridConfig) SnapValue() float64 {
	if !g.Snap {
		return 0
	}
	switch g.Quantization {
	case QuantizeNone:
		return 0
	case QuantizeBar:
		return 4.0
	case QuantizeHalf:
		return 2.0
	case QuantizeQuarter:
		return 1.0
	case QuantizeEighth:
		return 0.5
	case QuantizeSixteenth:
		return 0.25
	case QuantizeThirtySecond:
		return 0.125
	case QuantizeTriplet:
		return 1.0 / 3.0
	case QuantizeDotted:
		return 1.5
	default:
		return 0.25
	}
}

// SnapBeat rounds a beat position to the nearest grid multiple. Rounding to
// nearest (not floor) decides which side of a boundary a dragged note sticks
// to. When the snap value is 0 the input passes through unchanged.
func (g GridConfig) SnapBeat(beat float64) float64 {
	snap := g.SnapValue()
	if snap == 0 {
		return beat
	}
	return math.Round(beat/snap) * snap
}
