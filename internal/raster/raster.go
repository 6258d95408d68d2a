package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrInvalidInput is returned for malformed rasters and out-of-domain
// settings. It is fatal to the call but leaves every input untouched.
var ErrInvalidInput = errors.New("invalid input")

// Channel values of a binarized pixel.
const (
	Black uint8 = 0
	White uint8 = 255
)

// Raster is a width×height buffer of RGBA samples in row-major order.
type Raster struct {
	// Width is the raster width in pixels.
	Width int

	// Height is the raster height in pixels.
	Height int

	// Pix holds the samples, four bytes (R, G, B, A) per pixel.
	Pix []uint8
}

// New allocates a zeroed (transparent black) raster.
func New(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raster dimensions %dx%d must be positive", ErrInvalidInput, width, height)
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// FromPix wraps an existing sample buffer without copying it.
//
// The buffer must hold exactly width*height*4 bytes.
func FromPix(width, height int, pix []uint8) (*Raster, error) {
	r := &Raster{Width: width, Height: height, Pix: pix}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate reports whether the raster satisfies the buffer invariant.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidInput)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: raster dimensions %dx%d must be positive", ErrInvalidInput, r.Width, r.Height)
	}
	if want := r.Width * r.Height * 4; len(r.Pix) != want {
		return fmt.Errorf("%w: buffer holds %d bytes, %dx%d raster needs %d",
			ErrInvalidInput, len(r.Pix), r.Width, r.Height, want)
	}
	return nil
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// Offset returns the index of the R sample of pixel (x,y).
func (r *Raster) Offset(x, y int) int {
	return (y*r.Width + x) * 4
}

// Len returns the number of pixels.
func (r *Raster) Len() int {
	return r.Width * r.Height
}

// At returns the color of pixel (x,y). No bounds checking is performed.
func (r *Raster) At(x, y int) color.NRGBA {
	i := r.Offset(x, y)
	return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}

// Set stores c at pixel (x,y). No bounds checking is performed.
func (r *Raster) Set(x, y int, c color.NRGBA) {
	i := r.Offset(x, y)
	r.Pix[i] = c.R
	r.Pix[i+1] = c.G
	r.Pix[i+2] = c.B
	r.Pix[i+3] = c.A
}

// SetGray writes v into the R, G and B samples at byte offset i, leaving alpha alone.
func (r *Raster) SetGray(i int, v uint8) {
	r.Pix[i] = v
	r.Pix[i+1] = v
	r.Pix[i+2] = v
}

// Fill paints every pixel with c.
func (r *Raster) Fill(c color.NRGBA) {
	for i := 0; i < len(r.Pix); i += 4 {
		r.Pix[i] = c.R
		r.Pix[i+1] = c.G
		r.Pix[i+2] = c.B
		r.Pix[i+3] = c.A
	}
}

// Equal reports whether two rasters have the same dimensions and samples.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height || len(r.Pix) != len(o.Pix) {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// FromImage converts any decoded image into a new raster.
//
// The conversion goes through a non-premultiplied NRGBA copy, so the samples
// match what a browser canvas reports for the same image.
func FromImage(img image.Image) (*Raster, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image bounds %v are empty", ErrInvalidInput, b)
	}
	nrgba := imaging.Clone(img)
	return FromPix(nrgba.Rect.Dx(), nrgba.Rect.Dy(), nrgba.Pix)
}

// Image exposes the raster as an *image.NRGBA that shares its buffer.
func (r *Raster) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}
