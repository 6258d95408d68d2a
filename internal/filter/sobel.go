package filter

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// EdgeMagnitude is the Sobel gradient magnitude above which a pixel counts
// as an edge.
const EdgeMagnitude = 50

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// EdgeDetect replaces each interior pixel with a binary edge decision.
//
// The 3×3 Sobel operators are convolved against the mean brightness
// (R+G+B)/3 of each neighbor, and magnitude = sqrt(Gx² + Gy²). Pixels with
// magnitude above EdgeMagnitude become black, all others white. The result
// is a line drawing, not a gradient image.
//
// # Boundary Policy
//
// The outermost row and column on every side are never computed and keep
// whatever the input held. Rasters narrower or shorter than 3 pixels are
// left unchanged.
func EdgeDetect(r *raster.Raster) {
	w, h := r.Width, r.Height
	if w < 3 || h < 3 {
		return
	}

	// Brightness plane is the frozen snapshot; r.Pix is only written.
	gray := make([]float64, w*h)
	for p := range gray {
		i := p * 4
		gray[p] = raster.Mean(r.Pix[i], r.Pix[i+1], r.Pix[i+2])
	}

	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				var gx, gy float64
				for ky := -1; ky <= 1; ky++ {
					row := (y + ky) * w
					for kx := -1; kx <= 1; kx++ {
						g := gray[row+x+kx]
						gx += g * sobelX[ky+1][kx+1]
						gy += g * sobelY[ky+1][kx+1]
					}
				}

				v := raster.White
				if math.Sqrt(gx*gx+gy*gy) > EdgeMagnitude {
					v = raster.Black
				}
				r.SetGray((y*w+x)*4, v)
			}
		}
	})
}
