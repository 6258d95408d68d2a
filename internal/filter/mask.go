package filter

import (
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// TextPadding is the width in pixels of the white halo drawn around text.
const TextPadding = 3

// Predicate classifies a pixel by its color samples.
type Predicate func(r, g, b uint8) bool

// Mask marks a set of pixel positions of a raster.
//
// A mask is the first half of a capture-then-restore step: it is computed
// over a predicate before some transform runs, and after the transform the
// marked pixels are overwritten with a fixed value via Paint.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// NewMask returns an empty mask of the given size.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, bits: make([]bool, width*height)}
}

// Capture marks every pixel of r for which pred holds.
func Capture(r *raster.Raster, pred Predicate) *Mask {
	m := NewMask(r.Width, r.Height)
	pix := r.Pix
	for p := range m.bits {
		i := p * 4
		m.bits[p] = pred(pix[i], pix[i+1], pix[i+2])
	}
	return m
}

// At reports whether (x,y) is marked.
func (m *Mask) At(x, y int) bool {
	return m.bits[y*m.Width+x]
}

// Set marks or clears (x,y).
func (m *Mask) Set(x, y int, v bool) {
	m.bits[y*m.Width+x] = v
}

// Count returns the number of marked pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Or marks every pixel marked in o. The masks must be the same size.
func (m *Mask) Or(o *Mask) {
	for p, b := range o.bits {
		if b {
			m.bits[p] = true
		}
	}
}

// Not returns the complement of m.
func (m *Mask) Not() *Mask {
	out := NewMask(m.Width, m.Height)
	for p, b := range m.bits {
		out.bits[p] = !b
	}
	return out
}

// Dilate returns a new mask in which every marked pixel also marks the
// (2*padding+1)² box around it, clipped to the mask bounds.
func (m *Mask) Dilate(padding int) *Mask {
	out := NewMask(m.Width, m.Height)
	if padding <= 0 {
		copy(out.bits, m.bits)
		return out
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.bits[y*m.Width+x] {
				continue
			}
			y0, y1 := clamp(y-padding, 0, m.Height-1), clamp(y+padding, 0, m.Height-1)
			x0, x1 := clamp(x-padding, 0, m.Width-1), clamp(x+padding, 0, m.Width-1)
			for ny := y0; ny <= y1; ny++ {
				row := out.bits[ny*m.Width : (ny+1)*m.Width]
				for nx := x0; nx <= x1; nx++ {
					row[nx] = true
				}
			}
		}
	}
	return out
}

// Paint writes v into the color channels of every marked pixel of r.
func (m *Mask) Paint(r *raster.Raster, v uint8) {
	for p, b := range m.bits {
		if b {
			r.SetGray(p*4, v)
		}
	}
}

// Raster renders the mask as an opaque raster, white where marked.
func (m *Mask) Raster() *raster.Raster {
	r := &raster.Raster{Width: m.Width, Height: m.Height, Pix: make([]uint8, m.Width*m.Height*4)}
	for p, b := range m.bits {
		i := p * 4
		if b {
			r.SetGray(i, raster.White)
		}
		r.Pix[i+3] = 255
	}
	return r
}

// BoxHalo draws text as black glyphs on white boxes: the text mask grown by
// padding is painted white, then the text mask itself is painted black.
func BoxHalo(r *raster.Raster, text *Mask, padding int) {
	text.Dilate(padding).Paint(r, raster.White)
	text.Paint(r, raster.Black)
}

// TextPredicate marks dark-to-medium pixels (luma below 220) as text.
func TextPredicate(r, g, b uint8) bool {
	return raster.Luma(r, g, b) < 220
}

// RoadPredicate marks the light gray band (luma strictly between 200 and
// 245) that streets occupy on light map styles.
func RoadPredicate(r, g, b uint8) bool {
	l := raster.Luma(r, g, b)
	return l > 200 && l < 245
}

// WaterPredicate marks very light pixels (luma above 240).
func WaterPredicate(r, g, b uint8) bool {
	return raster.Luma(r, g, b) > 240
}

// BlackPredicate marks pure black pixels.
func BlackPredicate(r, g, b uint8) bool {
	return r == 0 && g == 0 && b == 0
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
