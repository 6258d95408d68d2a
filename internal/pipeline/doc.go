// Package pipeline turns a map raster into engraving-ready line art.
//
// Process runs a fixed sequence of filters selected by a Settings value:
//
//  1. capture text, road and water masks (laser mode with invert only)
//  2. threshold: laser luma at 220, otherwise mean brightness at Threshold
//  3. invert, then restore the captured masks
//  4. black text on white boxes (BlackText without Invert)
//  5. thicken by ThickenAmount
//  6. remove dashed ferry lines
//  7. envelope warp
//  8. Sobel edges (never in laser mode)
//  9. thicken by CoastlineAmount
//
// Skipped stages leave the raster untouched, and Process always works on a
// copy of its input.
//
// Settings round-trips through a flat string map (Map, SettingsFromMap)
// and through JSON using the same camelCase keys.
package pipeline
