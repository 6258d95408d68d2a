package layers

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

var (
	paper    = color.NRGBA{255, 255, 255, 255}
	lakeBlue = color.NRGBA{170, 210, 240, 255}
	parkLeaf = color.NRGBA{200, 230, 180, 255}
	highway  = color.NRGBA{250, 210, 80, 255}
	roofGray = color.NRGBA{120, 120, 120, 255}
)

func createRaster(t *testing.T, width, height int, c color.NRGBA) *raster.Raster {
	t.Helper()
	r, err := raster.New(width, height)
	if err != nil {
		t.Fatalf("raster.New(%d, %d) failed: %v", width, height, err)
	}
	r.Fill(c)
	return r
}

func fillRect(r *raster.Raster, x1, y1, x2, y2 int, c color.NRGBA) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			r.Set(x, y, c)
		}
	}
}

// createLakeMap draws a lake with a one-pixel label hole and a stray blue
// speck on white paper.
func createLakeMap(t *testing.T) *raster.Raster {
	t.Helper()
	r := createRaster(t, 50, 50, paper)
	fillRect(r, 10, 10, 35, 35, lakeBlue)
	r.Set(22, 22, paper)
	r.Set(44, 5, lakeBlue)
	return r
}

func TestBandContains(t *testing.T) {
	tests := []struct {
		name string
		band Band
		c    color.NRGBA
		want bool
	}{
		{"lake in water", WaterBand, lakeBlue, true},
		{"paper not water", WaterBand, paper, false},
		{"park in parks", ParkBand, parkLeaf, true},
		{"lake not parks", ParkBand, lakeBlue, false},
		{"highway in highway", HighwayBand, highway, true},
		{"pale yellow too unsaturated", HighwayBand, color.NRGBA{250, 245, 220, 255}, false},
		{"black not water", WaterBand, color.NRGBA{0, 0, 0, 255}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.band.Contains(tt.c.R, tt.c.G, tt.c.B); got != tt.want {
				t.Errorf("Contains(%v): got %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestDetectWater(t *testing.T) {
	m := DetectWater(createLakeMap(t))

	if !m.At(20, 20) || !m.At(30, 15) {
		t.Error("lake interior not marked")
	}
	if !m.At(22, 22) {
		t.Error("label hole inside the lake was not closed")
	}
	if m.At(44, 5) {
		t.Error("isolated speck survived the opening")
	}
	if m.At(3, 3) || m.At(45, 45) {
		t.Error("paper marked as water")
	}
}

func TestDetectParks(t *testing.T) {
	r := createRaster(t, 40, 40, paper)
	fillRect(r, 5, 5, 25, 25, parkLeaf)
	fillRect(r, 28, 28, 38, 38, lakeBlue)

	m := DetectParks(r)
	if !m.At(15, 15) {
		t.Error("park interior not marked")
	}
	if m.At(33, 33) || m.At(2, 35) {
		t.Error("non-park area marked")
	}
}

func TestDetectRoads(t *testing.T) {
	r := createRaster(t, 40, 40, paper)
	fillRect(r, 5, 18, 35, 22, highway)

	m := DetectRoads(r)
	if !m.At(20, 19) || !m.At(20, 20) {
		t.Error("highway not marked")
	}
	if !m.At(20, 17) {
		t.Error("highway edge not marked")
	}
	if m.At(20, 5) || m.At(2, 35) {
		t.Error("blank paper marked as road")
	}
}

func TestDetectRoads_IgnoresFaintOutlines(t *testing.T) {
	r := createRaster(t, 40, 40, paper)
	fillRect(r, 10, 10, 30, 30, color.NRGBA{235, 235, 235, 255})

	sobel := r.Clone()
	filter.EdgeDetect(sobel)
	if sobel.At(9, 20) != (color.NRGBA{0, 0, 0, 255}) {
		t.Fatal("faint outline is not a Sobel edge")
	}

	if got := DetectRoads(r).Count(); got != 0 {
		t.Errorf("faint outline marked as road: %d pixels", got)
	}
}

func TestDetectBuildings(t *testing.T) {
	r := createRaster(t, 60, 60, paper)
	fillRect(r, 10, 10, 30, 30, roofGray)
	// A round tank is not a building.
	for y := -8; y <= 8; y++ {
		for x := -8; x <= 8; x++ {
			if x*x+y*y <= 64 {
				r.Set(45+x, 45+y, roofGray)
			}
		}
	}
	// A thin line has too little area.
	for x := 2; x < 58; x++ {
		r.Set(x, 57, color.NRGBA{40, 40, 40, 255})
	}

	m := DetectBuildings(r)

	if !m.At(10, 10) || !m.At(20, 20) || !m.At(29, 29) {
		t.Error("building footprint not filled")
	}
	if m.At(9, 20) || m.At(30, 20) {
		t.Error("paper next to the building marked")
	}
	if m.At(45, 45) {
		t.Error("round shape accepted as a building")
	}
	if m.At(20, 57) {
		t.Error("line accepted as a building")
	}
	if got := m.Count(); got != 400 {
		t.Errorf("Count: got %d, want 400", got)
	}
}

func TestAdaptiveOutline_GaussianWeights(t *testing.T) {
	r := createRaster(t, 40, 40, paper)
	fillRect(r, 20, 0, 40, 40, color.NRGBA{215, 215, 215, 255})

	out := adaptiveOutline(r)
	black := func(x, y int) bool { return out.Pix[out.Offset(x, y)] == raster.Black }

	if !black(20, 20) || !black(23, 20) {
		t.Error("pixels near the step not marked")
	}
	// Paper five columns away carries too little weight to reach the offset.
	if black(24, 20) {
		t.Error("(24,20) marked, local mean is not Gaussian weighted")
	}
	if black(10, 20) || black(35, 20) {
		t.Error("flat areas marked")
	}
}

func TestDetectLand(t *testing.T) {
	r := createLakeMap(t)
	land := DetectLand(r)

	if land.At(20, 20) {
		t.Error("lake marked as land")
	}
	if !land.At(3, 3) || !land.At(45, 45) {
		t.Error("open paper not marked as land")
	}
}

func TestDetect(t *testing.T) {
	r := createLakeMap(t)

	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			m, err := Detect(r, k)
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if m.Width != r.Width || m.Height != r.Height {
				t.Errorf("mask size %dx%d, want %dx%d", m.Width, m.Height, r.Width, r.Height)
			}
		})
	}

	if _, err := Detect(r, Text); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("text via Detect: got %v, want ErrInvalidInput", err)
	}
	if _, err := Detect(r, Kind("rivers")); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("unknown kind: got %v, want ErrInvalidInput", err)
	}
	if _, err := Detect(&raster.Raster{Width: 2, Height: 2}, Water); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("malformed raster: got %v, want ErrInvalidInput", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"water", "parks", "roads", "buildings", "land", "text"} {
		if k, err := ParseKind(name); err != nil || string(k) != name {
			t.Errorf("ParseKind(%q) = %q, %v", name, k, err)
		}
	}
	if _, err := ParseKind("Water"); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("ParseKind is case sensitive: got %v", err)
	}
}

func TestCloseOpen(t *testing.T) {
	m := filter.NewMask(30, 30)
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			m.Set(x, y, true)
		}
	}
	m.Set(10, 10, false)
	m.Set(24, 24, true)

	closed := Close(m, MorphRadius)
	if !closed.At(10, 10) {
		t.Error("Close left the hole open")
	}
	opened := Open(closed, MorphRadius)
	if opened.At(24, 24) {
		t.Error("Open kept the isolated pixel")
	}
	if !opened.At(10, 10) || !opened.At(8, 12) {
		t.Error("Open removed the square interior")
	}
}

func TestOverlay(t *testing.T) {
	base := createRaster(t, 4, 4, paper)
	m := filter.NewMask(4, 4)
	m.Set(1, 1, true)

	out, err := Overlay(base, Tint{Mask: m, Color: color.NRGBA{0, 0, 255, 255}, Alpha: 0.5})
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	got := out.At(1, 1)
	if got.R < 120 || got.R > 135 || got.B != 255 || got.A != 255 {
		t.Errorf("tinted pixel: got %v, want about (128,128,255,255)", got)
	}
	if out.At(2, 2) != paper {
		t.Errorf("untinted pixel: got %v, want paper", out.At(2, 2))
	}
	if base.At(1, 1) != paper {
		t.Error("Overlay modified its base")
	}
}

func TestOverlay_Errors(t *testing.T) {
	base := createRaster(t, 4, 4, paper)

	if _, err := Overlay(base, Tint{Mask: filter.NewMask(3, 4), Alpha: 1}); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("size mismatch: got %v, want ErrInvalidInput", err)
	}
	if _, err := Overlay(base, Tint{Mask: filter.NewMask(4, 4), Alpha: 1.5}); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("alpha out of range: got %v, want ErrInvalidInput", err)
	}
}
