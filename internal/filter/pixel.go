package filter

import (
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

const (
	// LaserCutoff is the fixed luma threshold of laser mode. Anything darker
	// becomes black.
	LaserCutoff = 220

	// DarkTextCutoff is the mean brightness below which ForceBlackText
	// treats a pixel as text.
	DarkTextCutoff = 180
)

// Threshold binarizes r in place: a pixel becomes pure white when its
// brightness under gray is strictly greater than threshold, and pure black
// otherwise. Alpha is unchanged.
//
// Applying Threshold twice with the same arguments yields the same raster
// as applying it once.
func Threshold(r *raster.Raster, threshold int, gray raster.Grayscale) {
	t := float64(threshold)
	pix := r.Pix
	for i := 0; i < len(pix); i += 4 {
		v := raster.Black
		if gray.Value(pix[i], pix[i+1], pix[i+2]) > t {
			v = raster.White
		}
		r.SetGray(i, v)
	}
}

// LaserThreshold is the laser-mode binarization. Each pixel is reduced to
// its luma, rounded to a byte, and then compared against LaserCutoff:
// darker pixels become black, the rest white.
func LaserThreshold(r *raster.Raster) {
	pix := r.Pix
	for i := 0; i < len(pix); i += 4 {
		g := raster.ClampByte(raster.Luma(pix[i], pix[i+1], pix[i+2]))
		v := raster.White
		if g < LaserCutoff {
			v = raster.Black
		}
		r.SetGray(i, v)
	}
}

// Invert replaces every color channel c with 255-c. Alpha is unchanged.
func Invert(r *raster.Raster) {
	pix := r.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 255 - pix[i]
		pix[i+1] = 255 - pix[i+1]
		pix[i+2] = 255 - pix[i+2]
	}
}

// ForceBlackText paints every pixel whose mean brightness is below
// DarkTextCutoff pure black. Text and fine linework on rendered tiles are
// dark before thresholding.
//
// This is the source-color variant. The halo variant used by the pipeline
// is BoxHalo.
func ForceBlackText(r *raster.Raster) {
	paintWhere(r, isDarkText, raster.Black)
}

// ForceBlackRoads paints highway yellow/orange and neutral road gray black.
func ForceBlackRoads(r *raster.Raster) {
	paintWhere(r, IsRoadColor, raster.Black)
}

// ForceWhiteWater paints blue-dominant pixels white.
func ForceWhiteWater(r *raster.Raster) {
	paintWhere(r, IsWaterColor, raster.White)
}

// IsRoadColor reports whether (r,g,b) looks like a road: high red and green
// with low blue (highways), or a near-neutral gray below 200.
func IsRoadColor(r, g, b uint8) bool {
	if r > 200 && g > 150 && b < 100 {
		return true
	}
	return absDiff(r, g) < 30 && absDiff(g, b) < 30 && r < 200
}

// IsWaterColor reports whether blue exceeds both other channels by more than
// 20 and is itself above 150.
func IsWaterColor(r, g, b uint8) bool {
	bi := int(b)
	return bi > int(r)+20 && bi > int(g)+20 && bi > 150
}

func isDarkText(r, g, b uint8) bool {
	return raster.Mean(r, g, b) < DarkTextCutoff
}

func paintWhere(r *raster.Raster, pred Predicate, v uint8) {
	pix := r.Pix
	for i := 0; i < len(pix); i += 4 {
		if pred(pix[i], pix[i+1], pix[i+2]) {
			r.SetGray(i, v)
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a) - int(b)
	}
	return int(b) - int(a)
}
