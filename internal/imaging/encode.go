package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// ImageResult contains an encoded PNG.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Encode renders r, optionally cropped to region and scaled, as a base64 PNG.
//
// A nil region selects the whole raster. Scaling uses nearest-neighbor
// sampling so binarized output stays pure black and white; a scale of 1 or
// less than or equal to zero leaves the size unchanged.
func Encode(r *raster.Raster, region *image.Rectangle, scale float64) (*ImageResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var img image.Image = r.Image()
	if region != nil {
		bounds := img.Bounds()
		if !region.In(bounds) {
			return nil, fmt.Errorf("crop region %v outside image bounds %v", *region, bounds)
		}
		if region.Empty() {
			return nil, fmt.Errorf("invalid crop region %v: x1 must be < x2, y1 must be < y2", *region)
		}
		img = imaging.Crop(img, *region)
	}

	if scale != 1.0 && scale > 0 {
		b := img.Bounds()
		newWidth := int(float64(b.Dx()) * scale)
		newHeight := int(float64(b.Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %v collapses %dx%d image", scale, b.Dx(), b.Dy())
		}
		img = imaging.Resize(img, newWidth, newHeight, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes r to path as a PNG file.
func SavePNG(r *raster.Raster, path string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := imgio.Save(path, r.Image(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// RegionNames lists the names NamedRegion accepts.
func RegionNames() []string {
	return []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"}
}

// NamedRegion returns the rectangle of a named part of a width×height image.
//
// Names: top-left, top-right, bottom-left, bottom-right, top-half,
// bottom-half, left-half, right-half and center (the middle 50%).
func NamedRegion(width, height int, name string) (image.Rectangle, error) {
	midX := width / 2
	midY := height / 2

	switch name {
	case "top-left":
		return image.Rect(0, 0, midX, midY), nil
	case "top-right":
		return image.Rect(midX, 0, width, midY), nil
	case "bottom-left":
		return image.Rect(0, midY, midX, height), nil
	case "bottom-right":
		return image.Rect(midX, midY, width, height), nil
	case "top-half":
		return image.Rect(0, 0, width, midY), nil
	case "bottom-half":
		return image.Rect(0, midY, width, height), nil
	case "left-half":
		return image.Rect(0, 0, midX, height), nil
	case "right-half":
		return image.Rect(midX, 0, width, height), nil
	case "center":
		qW := width / 4
		qH := height / 4
		return image.Rect(qW, qH, width-qW, height-qH), nil
	default:
		return image.Rectangle{}, fmt.Errorf("%w: unknown region %q", raster.ErrInvalidInput, name)
	}
}
