package filter

import (
	"image"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Dashed-line removal policy. A component is removed when it is
//
//	small and sparse:      pixels < SparseMaxPixels && density < SparseMaxDensity
//	or elongated and thin: pixels < ElongatedMaxPixels && aspect > ElongatedMinAspect && density < ElongatedMaxDensity
const (
	SparseMaxPixels     = 100
	SparseMaxDensity    = 0.3
	ElongatedMaxPixels  = 500
	ElongatedMinAspect  = 10
	ElongatedMaxDensity = 0.4
)

// Component is a maximal 8-connected set of black pixels.
type Component struct {
	// Bounds is the bounding box, Min inclusive and Max exclusive.
	Bounds image.Rectangle

	// Pixels is the number of pixels in the component.
	Pixels int

	// members holds the pixel indices (y*width+x) of the component.
	members []int
}

// Density is the fraction of the bounding box covered by the component.
func (c Component) Density() float64 {
	return float64(c.Pixels) / float64(c.Bounds.Dx()*c.Bounds.Dy())
}

// AspectRatio is max(w,h) / (min(w,h)+1) of the bounding box.
func (c Component) AspectRatio() float64 {
	w, h := c.Bounds.Dx(), c.Bounds.Dy()
	long, short := w, h
	if short > long {
		long, short = short, long
	}
	return float64(long) / float64(short+1)
}

// Points returns the component's pixel positions in discovery order.
func (c Component) Points(width int) []image.Point {
	pts := make([]image.Point, len(c.members))
	for i, p := range c.members {
		pts[i] = image.Pt(p%width, p/width)
	}
	return pts
}

// Dashed reports whether the component matches the dashed-line removal
// policy.
func (c Component) Dashed() bool {
	d := c.Density()
	if c.Pixels < SparseMaxPixels && d < SparseMaxDensity {
		return true
	}
	return c.Pixels < ElongatedMaxPixels && c.AspectRatio() > ElongatedMinAspect && d < ElongatedMaxDensity
}

// Components enumerates the 8-connected components of black (R == 0)
// pixels in scan order of their first pixel.
func Components(r *raster.Raster) []Component {
	w, h := r.Width, r.Height
	visited := make([]bool, w*h)
	components := make([]Component, 0)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			if visited[p] || r.Pix[p*4] != raster.Black {
				continue
			}
			components = append(components, floodFill(r, visited, x, y))
		}
	}
	return components
}

// RemoveDashedLines repaints white every black component that matches the
// dashed-line policy and returns how many components were removed. Solid
// roads and coastlines are dense or large and survive.
func RemoveDashedLines(r *raster.Raster) int {
	// Components are found on the unmodified raster before anything is
	// repainted, so removal order cannot affect classification.
	removed := 0
	for _, c := range Components(r) {
		if !c.Dashed() {
			continue
		}
		for _, p := range c.members {
			r.SetGray(p*4, raster.White)
		}
		removed++
	}
	return removed
}

// floodFill collects the component containing (startX, startY).
//
// Uses an explicit stack rather than recursion so large components cannot
// overflow the goroutine stack. Connectivity is 8-connected.
func floodFill(r *raster.Raster, visited []bool, startX, startY int) Component {
	w, h := r.Width, r.Height
	minX, minY, maxX, maxY := startX, startY, startX, startY
	members := make([]int, 0, 16)

	stack := []image.Point{{X: startX, Y: startY}}
	visited[startY*w+startX] = true

	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		members = append(members, pt.Y*w+pt.X)

		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := pt.X+dx, pt.Y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				np := ny*w + nx
				if visited[np] || r.Pix[np*4] != raster.Black {
					continue
				}
				visited[np] = true
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}

	return Component{
		Bounds:  image.Rect(minX, minY, maxX+1, maxY+1),
		Pixels:  len(members),
		members: members,
	}
}
