package filter

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Named is a single filter that can be selected by name, for previews and
// for callers that want one transform outside the fixed pipeline order.
type Named struct {
	// Name is the selector, e.g. "threshold" or "force_black_text".
	Name string `json:"name"`

	// Description is a one-line summary for tool listings.
	Description string `json:"description"`

	// Param names the numeric parameter, or is empty when the filter takes none.
	Param string `json:"param,omitempty"`

	// Default is used when the caller supplies no parameter.
	Default float64 `json:"default,omitempty"`

	// Min and Max bound the parameter.
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`

	// Integer rejects parameters with a fractional part.
	Integer bool `json:"integer,omitempty"`

	apply func(r *raster.Raster, param float64)
}

// Apply validates param and runs the filter on r in place.
func (n Named) Apply(r *raster.Raster, param float64) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if n.Param != "" {
		if math.IsNaN(param) || param < n.Min || param > n.Max {
			return fmt.Errorf("%w: %s %v outside %v-%v", raster.ErrInvalidInput, n.Param, param, n.Min, n.Max)
		}
		if n.Integer && param != math.Trunc(param) {
			return fmt.Errorf("%w: %s must be a whole number, got %v", raster.ErrInvalidInput, n.Param, param)
		}
	}
	n.apply(r, param)
	return nil
}

var registry = map[string]Named{}

func register(n Named) {
	registry[n.Name] = n
}

func init() {
	register(Named{
		Name: "threshold", Description: "Binarize on mean brightness (R+G+B)/3",
		Param: "threshold", Default: 128, Min: 0, Max: 255, Integer: true,
		apply: func(r *raster.Raster, p float64) { Threshold(r, int(p), raster.GrayMean) },
	})
	register(Named{
		Name: "threshold_luma", Description: "Binarize on BT.601 luma",
		Param: "threshold", Default: 128, Min: 0, Max: 255, Integer: true,
		apply: func(r *raster.Raster, p float64) { Threshold(r, int(p), raster.GrayLuma) },
	})
	register(Named{
		Name: "laser_threshold", Description: "Laser-mode binarization at luma 220",
		apply: func(r *raster.Raster, _ float64) { LaserThreshold(r) },
	})
	register(Named{
		Name: "invert", Description: "Invert color channels",
		apply: func(r *raster.Raster, _ float64) { Invert(r) },
	})
	register(Named{
		Name: "force_black_text", Description: "Paint dark source pixels (brightness < 180) black",
		apply: func(r *raster.Raster, _ float64) { ForceBlackText(r) },
	})
	register(Named{
		Name: "black_text_halo", Description: "Draw black pixels as glyphs on white boxes",
		Param: "padding", Default: TextPadding, Min: 0, Max: 16, Integer: true,
		apply: func(r *raster.Raster, p float64) { BoxHalo(r, Capture(r, BlackPredicate), int(p)) },
	})
	register(Named{
		Name: "force_black_roads", Description: "Paint highway yellow/orange and road gray black",
		apply: func(r *raster.Raster, _ float64) { ForceBlackRoads(r) },
	})
	register(Named{
		Name: "force_white_water", Description: "Paint blue-dominant pixels white",
		apply: func(r *raster.Raster, _ float64) { ForceWhiteWater(r) },
	})
	register(Named{
		Name: "edge_detect", Description: "Sobel edges as black lines on white",
		apply: func(r *raster.Raster, _ float64) { EdgeDetect(r) },
	})
	register(Named{
		Name: "canny_edges", Description: "Canny edges (hysteresis 50/150) as black lines on white",
		apply: func(r *raster.Raster, _ float64) {
			edges := Canny(r, CannyLow, CannyHigh)
			r.Fill(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			edges.Paint(r, raster.Black)
		},
	})
	register(Named{
		Name: "dilate", Description: "Thicken black features, fractional amounts dithered",
		Param: "amount", Default: 2, Min: 0, Max: 5,
		apply: func(r *raster.Raster, p float64) { Dilate(r, p) },
	})
	register(Named{
		Name: "remove_dashed_lines", Description: "Remove small sparse black components such as ferry routes",
		apply: func(r *raster.Raster, _ float64) { RemoveDashedLines(r) },
	})
	register(Named{
		Name: "warp", Description: "Envelope (barrel) warp for curved engraving surfaces",
		Param: "level", Default: 2, Min: 0, Max: MaxWarpLevel, Integer: true,
		apply: func(r *raster.Raster, p float64) { Warp(r, int(p)) },
	})
}

// Lookup returns the filter registered under name.
func Lookup(name string) (Named, bool) {
	n, ok := registry[name]
	return n, ok
}

// List returns all registered filters sorted by name.
func List() []Named {
	out := make([]Named, 0, len(registry))
	for _, n := range registry {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
