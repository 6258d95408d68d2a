package layers

import (
	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/ocr"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// DetectText marks the boxes of recognized words, grown by padding. The OCR
// result is returned alongside so callers can report the words.
func DetectText(r *raster.Raster, opts ocr.Options, padding int) (*filter.Mask, *ocr.Result, error) {
	result, err := ocr.Recognize(r, opts)
	if err != nil {
		return nil, nil, err
	}
	return ocr.TextMask(result.Words, r.Width, r.Height, padding), result, nil
}
