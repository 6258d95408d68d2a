// Package layers splits a color map into semantic layers.
//
// Each detector returns a filter.Mask over the source raster. The rules are
// fixed color and shape heuristics tuned for common web map styles:
//
//	water      hue 180-260°, S ≥ 0.2, V ≥ 0.2, then close and open
//	parks      hue 70-170°, S ≥ 0.16, V ≥ 0.16, then close and open
//	roads      hue 30-70°, S ≥ 0.4, V ≥ 0.4, plus Canny edges (50/150)
//	buildings  closed outlines from an adaptive threshold, filled, with
//	           rectangular extent
//	land       everything the other layers leave
//	text       OCR word boxes
//
// Detectors run on the unprocessed source. They are not part of the line-art
// pipeline; a mask can be rendered with Mask.Raster (white = member) or
// drawn over the source with Overlay.
package layers
