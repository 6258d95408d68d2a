// Package imaging moves map images in and out of the pipeline.
//
// Sources are decoded (PNG, JPEG, GIF, WebP, with EXIF orientation applied),
// fitted into the configured size cap with Lanczos filtering, and converted
// to a raster.Raster. Results are encoded back to PNG, either as base64 for
// the MCP client or as a file on disk.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner. For regions, Min is inclusive and Max is exclusive.
//
// # Thread Safety
//
// SourceCache is safe for concurrent use. Cached rasters are shared between
// callers and must not be modified; take a Clone before running filters.
//
// # Color Representation
//
// Samples report hex, RGBA, HSV (via go-colorful) and both grayscale values
// the thresholding filters use, so a caller can see why a pixel ends up black
// or white.
package imaging
