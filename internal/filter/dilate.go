package filter

import (
	"math"
	"sync/atomic"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Dilate thickens black foreground by amount pixels.
//
// The integer part of amount is applied as that many synchronous dilation
// passes: on each pass every interior pixel with a black pixel anywhere in
// its 3×3 neighborhood (read from the snapshot taken before the pass)
// becomes black. A fractional remainder f is applied as one more pass whose
// newly blackened pixels are kept only where DitherLevel(x, y) < f.
//
// The dither is position-based, so the same input and amount always produce
// the same output, and a larger amount never yields fewer black pixels.
// The outermost border of the raster is never changed. amount <= 0 is a
// no-op. Passes stop early once one leaves the raster unchanged, so the
// cost is bounded by the raster size rather than by amount.
func Dilate(r *raster.Raster, amount float64) {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return
	}
	if r.Width < 3 || r.Height < 3 {
		return
	}

	// max(w,h) passes reach every interior pixel from any black seed.
	limit := r.Width
	if r.Height > limit {
		limit = r.Height
	}
	full, frac := limit, 0.0
	if amount < float64(limit) {
		full = int(math.Floor(amount))
		frac = amount - float64(full)
	}

	snapshot := make([]uint8, len(r.Pix))
	for pass := 0; pass < full; pass++ {
		copy(snapshot, r.Pix)
		if !dilatePass(r.Pix, snapshot, r.Width, r.Height) {
			break
		}
	}

	if frac <= 0 {
		return
	}

	next := make([]uint8, len(r.Pix))
	copy(next, r.Pix)
	dilatePass(next, r.Pix, r.Width, r.Height)

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := r.Offset(x, y)
			if r.Pix[i] == raster.White && next[i] == raster.Black && DitherLevel(x, y) < frac {
				r.SetGray(i, raster.Black)
			}
		}
	}
}

// DitherLevel returns the ordered 2×2 dither threshold for (x,y): 0, 0.25,
// 0.5 or 0.75.
func DitherLevel(x, y int) float64 {
	return float64(x%2+(y%2)*2) / 4
}

// dilatePass blackens every interior pixel of dst whose 3×3 neighborhood in
// src contains a black pixel. It reports whether any pixel of dst changed.
func dilatePass(dst, src []uint8, w, h int) bool {
	var changed atomic.Bool
	parallel.Line(h-2, func(start, end int) {
		lineChanged := false
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				if hasBlackNeighbor(src, w, x, y) {
					i := (y*w + x) * 4
					if dst[i] != raster.Black || dst[i+1] != raster.Black || dst[i+2] != raster.Black {
						lineChanged = true
					}
					dst[i] = raster.Black
					dst[i+1] = raster.Black
					dst[i+2] = raster.Black
				}
			}
		}
		if lineChanged {
			changed.Store(true)
		}
	})
	return changed.Load()
}

func hasBlackNeighbor(src []uint8, w, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		row := (y + dy) * w
		for dx := -1; dx <= 1; dx++ {
			if src[(row+x+dx)*4] == raster.Black {
				return true
			}
		}
	}
	return false
}
