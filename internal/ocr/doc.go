// Package ocr finds map labels with Tesseract.
//
// Recognize wraps the Tesseract OCR engine (via gosseract/v2) and returns
// word boxes in raster coordinates. TextMask turns those boxes into a
// filter.Mask, which is how the text layer is built.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The language is configurable ("eng", "deu", "fra", ...); map labels in
// other scripts need the matching traineddata.
//
// # Performance Considerations
//
// OCR is far slower than the pixel filters. Restrict it with
// Options.Region when only part of the map matters.
package ocr
