package layers

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Tint is a layer mask drawn in a color at some opacity.
type Tint struct {
	Mask  *filter.Mask
	Color color.NRGBA
	Alpha float64 // 0-1
}

// DefaultColors are the preview colors per layer.
var DefaultColors = map[Kind]color.NRGBA{
	Water:     {R: 30, G: 110, B: 230, A: 255},
	Parks:     {R: 40, G: 170, B: 60, A: 255},
	Roads:     {R: 230, G: 140, B: 20, A: 255},
	Buildings: {R: 150, G: 60, B: 170, A: 255},
	Land:      {R: 200, G: 180, B: 140, A: 255},
	Text:      {R: 220, G: 30, B: 30, A: 255},
}

// Overlay draws each tint over a copy of base, in order, and returns the
// copy. Base is not modified.
func Overlay(base *raster.Raster, tints ...Tint) (*raster.Raster, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	out := base.Clone()
	dst := out.Image()
	bounds := dst.Bounds()

	for _, t := range tints {
		if t.Mask == nil || t.Mask.Width != base.Width || t.Mask.Height != base.Height {
			return nil, fmt.Errorf("%w: layer mask does not match %dx%d raster", raster.ErrInvalidInput, base.Width, base.Height)
		}
		if t.Alpha < 0 || t.Alpha > 1 {
			return nil, fmt.Errorf("%w: alpha %v outside 0-1", raster.ErrInvalidInput, t.Alpha)
		}
		draw.DrawMask(dst, bounds, image.NewUniform(t.Color), image.Point{}, alphaMask(t.Mask, t.Alpha), image.Point{}, draw.Over)
	}
	return out, nil
}

func alphaMask(m *filter.Mask, alpha float64) *image.Alpha {
	a := raster.ClampByte(alpha * 255)
	img := image.NewAlpha(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				img.SetAlpha(x, y, color.Alpha{A: a})
			}
		}
	}
	return img
}
