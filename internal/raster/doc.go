// Package raster provides the in-memory pixel buffer the line-art pipeline
// operates on.
//
// A Raster is a row-major array of 8-bit, non-premultiplied RGBA samples with
// an explicit width and height. The invariant
//
//	len(Pix) == Width*Height*4
//
// holds for every Raster handed out by this package. Filters either mutate a
// Raster in place (pixel-wise filters) or read a frozen snapshot and write
// into a separate buffer before copying back (neighborhood filters).
//
// # Coordinate System
//
// Pixel (0,0) is the top-left corner. X increases rightward, Y increases
// downward. The byte offset of pixel (x,y) is (y*Width+x)*4, and the four
// bytes that follow are R, G, B, A in that order.
//
// # Ownership
//
// A Raster is not safe for concurrent mutation. Callers that want to keep an
// original around for re-processing take a Clone before running anything
// destructive on it.
package raster
