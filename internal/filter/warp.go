package filter

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// MaxWarpLevel is the strongest supported envelope warp.
const MaxWarpLevel = 4

// Warp applies barrel distortion that pre-compensates for the curvature of
// the engraving surface. level is a percent-like strength, normally 1 to 4;
// level <= 0 leaves the raster unchanged.
//
// The mapping is backward: for each destination pixel the normalized offset
// (nx, ny) from the image center is scaled by
//
//	1 + strength*(nx² + ny²),  strength = -level*0.01
//
// to find the source position, which is sampled with bilinear interpolation
// across all four channels. When the 2×2 source footprint does not lie fully
// inside the raster the destination pixel is opaque white.
func Warp(r *raster.Raster, level int) {
	if level <= 0 {
		return
	}

	w, h := r.Width, r.Height
	src := r.Pix
	dst := make([]uint8, len(src))

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				sx, sy, inside := WarpSource(w, h, level, x, y)

				d := (y*w + x) * 4
				if !inside {
					dst[d] = 255
					dst[d+1] = 255
					dst[d+2] = 255
					dst[d+3] = 255
					continue
				}

				x0, y0 := int(sx), int(sy)
				fx, fy := sx-float64(x0), sy-float64(y0)
				i00 := (y0*w + x0) * 4
				i10 := i00 + 4
				i01 := i00 + w*4
				i11 := i01 + 4

				for c := 0; c < 4; c++ {
					v0 := float64(src[i00+c])*(1-fx) + float64(src[i10+c])*fx
					v1 := float64(src[i01+c])*(1-fx) + float64(src[i11+c])*fx
					dst[d+c] = raster.ClampByte(v0*(1-fy) + v1*fy)
				}
			}
		}
	})

	copy(r.Pix, dst)
}

// WarpSource returns the source coordinate Warp samples for destination
// pixel (x,y) and whether that coordinate falls inside the interpolation
// footprint.
func WarpSource(width, height, level, x, y int) (sx, sy float64, inside bool) {
	cx, cy := float64(width)/2, float64(height)/2
	strength := -float64(level) * 0.01
	nx := (float64(x) - cx) / cx
	ny := (float64(y) - cy) / cy
	factor := 1 + strength*(nx*nx+ny*ny)
	sx = cx + nx*cx*factor
	sy = cy + ny*cy*factor
	inside = sx >= 0 && sx < float64(width-1) && sy >= 0 && sy < float64(height-1)
	return sx, sy, inside
}
