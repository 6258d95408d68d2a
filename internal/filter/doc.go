// Package filter implements the raster transforms that turn a rendered map
// tile into engraving line art.
//
// Filters fall into two families with different mutation contracts:
//
//   - Pixel-wise filters (Threshold, LaserThreshold, Invert, the Force*
//     color heuristics, Mask.Paint, BoxHalo) rewrite each pixel from its own
//     value only and mutate the raster in place.
//
//   - Neighborhood filters (EdgeDetect, Dilate, RemoveDashedLines, Warp)
//     read a frozen snapshot of the raster taken at the start of each pass,
//     write into a separate buffer, and copy the result back. Rows of one
//     pass may be processed concurrently because no pass reads its own
//     output.
//
// Every filter leaves the alpha channel untouched except Warp, which
// resamples all four channels.
//
// # Foreground Convention
//
// Black (R == 0) is foreground. Dilation, connected-component analysis and
// dashed-line removal all test the R sample only, so they assume the raster
// was binarized beforehand.
//
// # Policy Constants
//
// The numeric cutoffs in this package (text padding, Sobel magnitude,
// component size and density limits) are empirically chosen. They are part
// of the observable contract and are exported so callers and tests can refer
// to them by name.
package filter
