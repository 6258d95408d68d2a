package layers

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"

	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Building detection parameters.
const (
	// BuildingBlockRadius is the radius of the Gaussian local-mean window, 11×11.
	BuildingBlockRadius = 5

	// BuildingOffset is how far below its local mean a pixel must be to
	// count as outline.
	BuildingOffset = 2

	// Filled area bounds, in pixels, exclusive.
	BuildingMinArea = 100
	BuildingMaxArea = 10000

	// BuildingMinExtent is the minimum fraction of the bounding box a
	// filled outline must cover to count as a building footprint.
	BuildingMinExtent = 0.85
)

// DetectBuildings marks closed, roughly rectangular footprints.
//
// Algorithm:
//  1. Adaptive threshold: pixels darker than their 11×11 Gaussian mean by more
//     than BuildingOffset become outline pixels
//  2. Group outline pixels into 8-connected components
//  3. Fill each component's enclosed holes
//  4. Keep components whose filled area is within the bounds and whose
//     extent (filled area / bounding box area) is at least BuildingMinExtent
//
// Extent rejects lines, curves and round shapes: a filled disk covers
// about 0.79 of its box, a diagonal line a few percent.
func DetectBuildings(r *raster.Raster) *filter.Mask {
	outline := adaptiveOutline(r)
	m := filter.NewMask(r.Width, r.Height)

	for _, c := range filter.Components(outline) {
		if c.Bounds.Dx()*c.Bounds.Dy() <= BuildingMinArea {
			continue
		}
		filled := fillComponent(c, r.Width)
		area := len(filled)
		if area <= BuildingMinArea || area >= BuildingMaxArea {
			continue
		}
		extent := float64(area) / float64(c.Bounds.Dx()*c.Bounds.Dy())
		if extent < BuildingMinExtent {
			continue
		}
		for _, p := range filled {
			m.Set(p.X, p.Y, true)
		}
	}
	return m
}

// adaptiveOutline returns a binary raster, black where a pixel is darker
// than its Gaussian-weighted local mean by more than BuildingOffset.
func adaptiveOutline(r *raster.Raster) *raster.Raster {
	gray := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := r.Offset(x, y)
			gray.SetGray(x, y, color.Gray{Y: raster.ClampByte(raster.Mean(r.Pix[i], r.Pix[i+1], r.Pix[i+2]))})
		}
	}
	local := blur.Gaussian(gray, BuildingBlockRadius)

	out := &raster.Raster{Width: r.Width, Height: r.Height, Pix: make([]uint8, len(r.Pix))}
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			v := int(gray.GrayAt(x, y).Y)
			mean := int(local.Pix[local.PixOffset(x, y)])
			i := out.Offset(x, y)
			if v < mean-BuildingOffset {
				out.SetGray(i, raster.Black)
			} else {
				out.SetGray(i, raster.White)
			}
			out.Pix[i+3] = 255
		}
	}
	return out
}

// fillComponent returns the component's pixels plus every pixel it
// encloses. The bounding box is padded by one so the outside flood fill can
// reach around the component.
func fillComponent(c filter.Component, width int) []image.Point {
	box := c.Bounds.Inset(-1)
	bw, bh := box.Dx(), box.Dy()
	wall := make([]bool, bw*bh)
	for _, p := range c.Points(width) {
		wall[(p.Y-box.Min.Y)*bw+(p.X-box.Min.X)] = true
	}

	outside := make([]bool, bw*bh)
	outside[0] = true
	stack := []image.Point{{X: 0, Y: 0}}
	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4]image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			n := pt.Add(d)
			if n.X < 0 || n.X >= bw || n.Y < 0 || n.Y >= bh {
				continue
			}
			i := n.Y*bw + n.X
			if wall[i] || outside[i] {
				continue
			}
			outside[i] = true
			stack = append(stack, n)
		}
	}

	filled := make([]image.Point, 0, c.Pixels)
	for y := 0; y < bh; y++ {
		for x := 0; x < bw; x++ {
			if !outside[y*bw+x] {
				filled = append(filled, image.Pt(box.Min.X+x, box.Min.Y+y))
			}
		}
	}
	return filled
}
