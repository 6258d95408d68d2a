package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Word is one recognized word with its location and confidence.
type Word struct {
	// Text is the recognized word.
	Text string `json:"text"`

	// Confidence is Tesseract's confidence score, 0-100.
	Confidence float64 `json:"confidence"`

	// Bounds is the word's box in raster coordinates.
	Bounds image.Rectangle `json:"bounds"`
}

// Result contains the text found on a map raster.
type Result struct {
	// FullText is all recognized text with original spacing and newlines.
	FullText string `json:"full_text"`

	// Words holds the words at or above the confidence floor.
	Words []Word `json:"words"`
}

// Options controls a recognition run.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "deu". The
	// matching traineddata must be installed.
	Language string

	// MinConfidence drops words scoring below it (0-100).
	MinConfidence float64

	// Region limits recognition to part of the raster. Nil means the whole
	// raster. Word bounds are always reported in full-raster coordinates.
	Region *image.Rectangle
}

// Recognize runs Tesseract over r and returns the words it finds.
//
// The raster is handed to Tesseract as an in-memory PNG, so no temporary
// files are involved.
//
// # Errors
//
//   - ErrInvalidInput for a malformed raster or a region outside it
//   - Tesseract initialization failures, e.g. missing language data
func Recognize(r *raster.Raster, opts Options) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	var img image.Image = r.Image()
	var offset image.Point
	if opts.Region != nil {
		region := *opts.Region
		if region.Empty() || !region.In(img.Bounds()) {
			return nil, fmt.Errorf("%w: region %v outside raster %v", raster.ErrInvalidInput, region, img.Bounds())
		}
		img = imaging.Crop(img, region)
		offset = region.Min
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return &Result{FullText: text, Words: []Word{}}, nil
	}

	return &Result{
		FullText: text,
		Words:    filterWords(boxes, opts.MinConfidence, offset),
	}, nil
}

// filterWords converts Tesseract boxes to words, dropping blanks and those
// under minConfidence, and shifts them by offset.
func filterWords(boxes []gosseract.BoundingBox, minConfidence float64, offset image.Point) []Word {
	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" || box.Confidence < minConfidence {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Confidence: box.Confidence,
			Bounds:     box.Box.Add(offset),
		})
	}
	return words
}

// TextMask marks the boxes of words on a width×height mask, each grown by
// padding pixels and clipped to the mask.
func TextMask(words []Word, width, height, padding int) *filter.Mask {
	m := filter.NewMask(width, height)
	bounds := image.Rect(0, 0, width, height)
	for _, w := range words {
		box := w.Bounds.Inset(-padding).Intersect(bounds)
		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// Version returns the linked Tesseract version.
func Version() string {
	return gosseract.Version()
}
