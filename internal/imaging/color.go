package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSVColor represents a color in HSV space.
//
// The layer detector classifies map colors by hue band plus minimum
// saturation and value, so samples report the same coordinates.
type HSVColor struct {
	H float64 `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S float64 `json:"s"` // Saturation: 0-1 (0=gray, 1=vivid)
	V float64 `json:"v"` // Value: 0-1 (0=black, 1=full brightness)
}

// ColorResult contains a pixel's color in several representations, plus the
// brightness values the thresholding filters compare against.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#rrggbb" (no alpha)
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSV  HSVColor  `json:"hsv"`  // HSV representation

	// Mean is the unweighted (R+G+B)/3 brightness used by Threshold.
	Mean float64 `json:"mean"`

	// Luma is the 0.299/0.587/0.114 brightness used in laser mode.
	Luma float64 `json:"luma"`
}

// ToColorful converts 8-bit RGB samples to a colorful.Color.
func ToColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// HSV returns the HSV coordinates of 8-bit RGB samples.
func HSV(r, g, b uint8) HSVColor {
	h, s, v := ToColorful(r, g, b).Hsv()
	return HSVColor{H: h, S: s, V: v}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - r: The raster to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the raster.
func SampleColor(r *raster.Raster, x, y int) (*ColorResult, error) {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := r.At(x, y)
	return &ColorResult{
		Hex:  ToColorful(c.R, c.G, c.B).Hex(),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSV:  HSV(c.R, c.G, c.B),
		Mean: raster.Mean(c.R, c.G, c.B),
		Luma: raster.Luma(c.R, c.G, c.B),
	}, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    `json:"x"`               // X coordinate (0-based)
	Y     int    `json:"y"`               // Y coordinate (0-based)
	Label string `json:"label,omitempty"` // Optional label, e.g. "lake" or "highway"
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// SampleColorsMulti extracts colors at multiple pixel coordinates in a
// single call. Results are in input order; any out-of-bounds point fails
// the whole call.
func SampleColorsMulti(r *raster.Raster, points []LabeledPoint) ([]LabeledColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		c, err := SampleColor(r, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *c,
		})
	}

	return results, nil
}

// ColorFrequency represents a color and its occurrence frequency.
type ColorFrequency struct {
	Hex        string    `json:"hex"`        // Quantized color "#rrggbb"
	Percentage float64   `json:"percentage"` // Share of pixels (0-100)
	RGBA       RGBAColor `json:"rgba"`       // Quantized components, alpha 255
	Luma       float64   `json:"luma"`       // Luma of the quantized color
}

// DominantColors returns the count most common colors of r, or of region
// when it is non-nil.
//
// Colors are quantized to 16 levels per channel so near-identical tile
// colors group together:
//
//	quantized = (original / 16) * 16
//
// Reporting the luma of each group makes it easy to pick a threshold that
// separates, say, the road band from the background.
func DominantColors(r *raster.Raster, count int, region *image.Rectangle) ([]ColorFrequency, error) {
	bounds := image.Rect(0, 0, r.Width, r.Height)
	if region != nil {
		if !region.In(bounds) || region.Empty() {
			return nil, fmt.Errorf("region %v outside image bounds %v", *region, bounds)
		}
		bounds = *region
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	type rgb struct{ r, g, b uint8 }
	counts := make(map[rgb]int)
	total := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := r.Offset(x, y)
			k := rgb{r.Pix[i] / 16 * 16, r.Pix[i+1] / 16 * 16, r.Pix[i+2] / 16 * 16}
			counts[k]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for k, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        ToColorful(k.r, k.g, k.b).Hex(),
			Percentage: float64(n) / float64(total) * 100,
			RGBA:       RGBAColor{R: k.r, G: k.g, B: k.b, A: 255},
			Luma:       math.Round(raster.Luma(k.r, k.g, k.b)*100) / 100,
		})
	}

	// Ties break on hex so results are stable across map iteration order.
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return colors, nil
}
