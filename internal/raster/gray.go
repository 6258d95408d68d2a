package raster

import "math"

// Grayscale selects how a brightness value is derived from R, G and B.
//
// Two formulas coexist in the pipeline: the unweighted mean used by the
// regular threshold path, and ITU-R BT.601 luma used by laser mode and the
// pre-invert masks. They disagree on saturated colors, so callers name the one
// they want instead of inlining the math.
type Grayscale int

const (
	// GrayMean is (R+G+B)/3. It is the default strategy.
	GrayMean Grayscale = iota

	// GrayLuma is 0.299*R + 0.587*G + 0.114*B.
	GrayLuma
)

// String returns the strategy name used in logs and tool output.
func (g Grayscale) String() string {
	switch g {
	case GrayMean:
		return "mean"
	case GrayLuma:
		return "luma"
	default:
		return "unknown"
	}
}

// Value returns the brightness of (r,g,b) in the range 0-255.
func (g Grayscale) Value(r, gr, b uint8) float64 {
	if g == GrayLuma {
		return Luma(r, gr, b)
	}
	return Mean(r, gr, b)
}

// Mean returns the unweighted average of the three channels.
func Mean(r, g, b uint8) float64 {
	return (float64(r) + float64(g) + float64(b)) / 3
}

// Luma returns the BT.601 weighted brightness.
func Luma(r, g, b uint8) float64 {
	return float64(r)*0.299 + float64(g)*0.587 + float64(b)*0.114
}

// ClampByte rounds v half-to-even and clamps it into 0-255, the way a
// browser stores a float into a clamped byte array.
func ClampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
