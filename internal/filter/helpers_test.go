package filter

import (
	"image/color"
	"testing"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

var (
	opaqueWhite = color.NRGBA{255, 255, 255, 255}
	opaqueBlack = color.NRGBA{0, 0, 0, 255}
)

// createRaster creates a raster filled with a single color.
func createRaster(t *testing.T, width, height int, c color.NRGBA) *raster.Raster {
	t.Helper()
	r, err := raster.New(width, height)
	if err != nil {
		t.Fatalf("raster.New(%d, %d) failed: %v", width, height, err)
	}
	r.Fill(c)
	return r
}

// createPatternRaster creates a deterministic multi-valued raster.
func createPatternRaster(t *testing.T, width, height int) *raster.Raster {
	t.Helper()
	r := createRaster(t, width, height, opaqueWhite)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.Set(x, y, color.NRGBA{
				R: uint8((x*37 + y*91) % 256),
				G: uint8((x*53 + y*17) % 256),
				B: uint8((x*11 + y*71) % 256),
				A: uint8(200 + (x+y)%56),
			})
		}
	}
	return r
}

// fillRect paints the rectangle [x1,x2)×[y1,y2) with c.
func fillRect(r *raster.Raster, x1, y1, x2, y2 int, c color.NRGBA) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			r.Set(x, y, c)
		}
	}
}

// blackSet returns the set of black pixel positions.
func blackSet(r *raster.Raster) map[[2]int]bool {
	set := make(map[[2]int]bool)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if r.Pix[r.Offset(x, y)] == 0 {
				set[[2]int{x, y}] = true
			}
		}
	}
	return set
}

func countBlack(r *raster.Raster) int {
	return len(blackSet(r))
}
