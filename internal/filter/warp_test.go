package filter

import (
	"image/color"
	"testing"
)

func TestWarp_LevelZeroIsNoop(t *testing.T) {
	r := createPatternRaster(t, 9, 7)
	orig := r.Clone()

	Warp(r, 0)

	if !r.Equal(orig) {
		t.Error("level 0 modified the raster")
	}
}

func TestWarp_OutOfBoundsIsOpaqueWhite(t *testing.T) {
	transparent := color.NRGBA{0, 0, 0, 0}
	r := createRaster(t, 2, 2, transparent)

	Warp(r, 4)

	// (0,0) samples near the origin; every other pixel lands on the last
	// row or column, outside the interpolation footprint.
	if got := r.At(0, 0); got != transparent {
		t.Errorf("(0,0): got %v, want interpolated transparent", got)
	}
	for _, p := range [][2]int{{1, 0}, {0, 1}, {1, 1}} {
		if got := r.At(p[0], p[1]); got != opaqueWhite {
			t.Errorf("(%d,%d): got %v, want opaque white", p[0], p[1], got)
		}
	}
}

func TestWarp_FillMatchesSourceMapping(t *testing.T) {
	for level := 1; level <= MaxWarpLevel; level++ {
		transparent := color.NRGBA{0, 0, 0, 0}
		r := createRaster(t, 17, 11, transparent)

		Warp(r, level)

		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				sx, sy, inside := WarpSource(r.Width, r.Height, level, x, y)
				got := r.At(x, y)
				outside := sx < 0 || sx >= float64(r.Width) || sy < 0 || sy >= float64(r.Height)
				if outside && inside {
					t.Fatalf("level %d (%d,%d): source (%v,%v) outside raster but reported inside", level, x, y, sx, sy)
				}
				if !inside && got != opaqueWhite {
					t.Fatalf("level %d (%d,%d): got %v, want opaque white", level, x, y, got)
				}
				if inside && got != transparent {
					t.Fatalf("level %d (%d,%d): got %v, want interpolated transparent", level, x, y, got)
				}
			}
		}
	}
}

func TestWarp_UniformInteriorPreserved(t *testing.T) {
	c := color.NRGBA{50, 100, 150, 255}
	r := createRaster(t, 20, 20, c)

	Warp(r, 2)

	if got := r.At(10, 10); got != c {
		t.Errorf("center: got %v, want %v", got, c)
	}
	if got := r.At(3, 15); got != c {
		t.Errorf("(3,15): got %v, want %v", got, c)
	}
}

func TestWarp_PullsTowardCenter(t *testing.T) {
	// A vertical black line at x=2 on a 41-wide raster moves outward in the
	// destination: barrel distortion samples closer to the center.
	r := createRaster(t, 41, 41, opaqueWhite)
	fillRect(r, 2, 0, 3, 41, opaqueBlack)

	Warp(r, 4)

	if got := r.At(2, 20); got == opaqueBlack {
		t.Error("line did not move at the horizontal midline")
	}
	_, _, inside := WarpSource(41, 41, 4, 1, 20)
	if !inside {
		t.Fatal("expected (1,20) to sample inside the raster")
	}
	if got := r.At(1, 20); got.R >= 255 {
		t.Errorf("(1,20): got %v, want darkened by the moved line", got)
	}
}

func TestWarp_Deterministic(t *testing.T) {
	base := createPatternRaster(t, 33, 21)
	a := base.Clone()
	b := base.Clone()

	Warp(a, 3)
	Warp(b, 3)

	if !a.Equal(b) {
		t.Error("two warps of the same raster differ")
	}
}
