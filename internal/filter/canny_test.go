package filter

import (
	"image/color"
	"testing"
)

func TestCanny_StepIsOnePixelWide(t *testing.T) {
	r := createRaster(t, 20, 12, opaqueWhite)
	fillRect(r, 10, 0, 20, 12, opaqueBlack)

	m := Canny(r, CannyLow, CannyHigh)

	for y := 1; y < 11; y++ {
		if !m.At(9, y) {
			t.Errorf("step edge missing at (9,%d)", y)
		}
		if m.At(10, y) {
			t.Errorf("edge at (10,%d) is not thinned", y)
		}
	}
	if got := m.Count(); got != 10 {
		t.Errorf("Count: got %d, want 10", got)
	}
}

func TestCanny_LowContrastRejected(t *testing.T) {
	r := createRaster(t, 20, 12, opaqueWhite)
	fillRect(r, 10, 0, 20, 12, color.NRGBA{235, 235, 235, 255})

	// The same step passes the plain Sobel magnitude rule.
	sobel := r.Clone()
	EdgeDetect(sobel)
	if countBlack(sobel) == 0 {
		t.Fatal("low-contrast step produced no Sobel edge")
	}

	if got := Canny(r, CannyLow, CannyHigh).Count(); got != 0 {
		t.Errorf("Canny marked %d pixels, want 0", got)
	}
}

func TestCanny_WeakEdgeFollowsStrong(t *testing.T) {
	// A horizontal edge whose contrast fades from 60 at the left to 2 at
	// the right: strong up to x=11, weak up to x=23.
	r := createRaster(t, 30, 12, opaqueWhite)
	for x := 0; x < 30; x++ {
		v := uint8(195 + 2*x)
		fillRect(r, x, 6, x+1, 12, color.NRGBA{v, v, v, 255})
	}

	m := Canny(r, CannyLow, CannyHigh)

	if !m.At(5, 6) {
		t.Error("strong edge missing")
	}
	if !m.At(20, 6) {
		t.Error("weak edge connected to a strong one was dropped")
	}
	if m.At(27, 6) {
		t.Error("edge below the low threshold kept")
	}
	if m.At(5, 5) || m.At(5, 7) {
		t.Error("edge is not thinned to one row")
	}

	alone := createRaster(t, 30, 12, opaqueWhite)
	fillRect(alone, 0, 6, 30, 12, color.NRGBA{235, 235, 235, 255})
	if got := Canny(alone, CannyLow, CannyHigh).Count(); got != 0 {
		t.Errorf("isolated weak edge kept: %d pixels", got)
	}
}

func TestCanny_SmallRaster(t *testing.T) {
	r := createRaster(t, 2, 2, opaqueBlack)
	if got := Canny(r, CannyLow, CannyHigh).Count(); got != 0 {
		t.Errorf("got %d marked pixels, want 0", got)
	}
}
