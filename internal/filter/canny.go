package filter

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Hysteresis thresholds used for the road layer.
const (
	CannyLow  = 50
	CannyHigh = 150
)

// Canny marks the edges of r found by Canny edge detection.
//
// # Algorithm
//
//  1. Grayscale: BT.601 luma, 0-255.
//
//  2. Gradient: the 3×3 Sobel operators, magnitude = sqrt(Gx² + Gy²) and
//     direction = atan2(Gy, Gx).
//
//  3. Non-maximum suppression: a pixel survives only if it is a local
//     maximum along its gradient direction, quantized to 0°, 45°, 90° or
//     135°. Ties go to the pixel on the lower side, so a step between two
//     flat regions yields a line one pixel wide.
//
//  4. Hysteresis: survivors at or above high are strong edges. Survivors at
//     or above low are kept only when 8-connected, directly or through other
//     kept pixels, to a strong edge.
//
// No smoothing is applied first. The outermost border is never marked.
func Canny(r *raster.Raster, low, high float64) *Mask {
	w, h := r.Width, r.Height
	m := NewMask(w, h)
	if w < 3 || h < 3 {
		return m
	}

	gray := make([]float64, w*h)
	for p := range gray {
		i := p * 4
		gray[p] = raster.Luma(r.Pix[i], r.Pix[i+1], r.Pix[i+2])
	}

	magnitude := make([]float64, w*h)
	direction := make([]float64, w*h)
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
				magnitude[y*w+x] = math.Sqrt(gx*gx + gy*gy)
				direction[y*w+x] = math.Atan2(gy, gx)
			}
		}
	})

	suppressed := make([]float64, w*h)
	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				p := y*w + x
				mag := magnitude[p]
				if mag < low {
					continue
				}
				// before is the neighbor on the lower side of the gradient line.
				var before, after float64
				switch angle := direction[p]; {
				case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
					before, after = magnitude[p-1], magnitude[p+1]
				case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
					before, after = magnitude[p-w-1], magnitude[p+w+1]
				case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
					before, after = magnitude[p-w], magnitude[p+w]
				default:
					before, after = magnitude[p-w+1], magnitude[p+w-1]
				}
				if mag > before && mag >= after {
					suppressed[p] = mag
				}
			}
		}
	})

	var stack []int
	for p, v := range suppressed {
		if v >= high {
			m.bits[p] = true
			stack = append(stack, p)
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p%w, p/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 1 || ny < 1 || nx >= w-1 || ny >= h-1 {
					continue
				}
				q := ny*w + nx
				if !m.bits[q] && suppressed[q] >= low {
					m.bits[q] = true
					stack = append(stack, q)
				}
			}
		}
	}
	return m
}
