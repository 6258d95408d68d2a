package layers

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/imaging"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Kind names a map layer.
type Kind string

// Detectable layers. Text is found by OCR and has its own entry point,
// DetectText.
const (
	Water     Kind = "water"
	Parks     Kind = "parks"
	Roads     Kind = "roads"
	Buildings Kind = "buildings"
	Land      Kind = "land"
	Text      Kind = "text"
)

// MorphRadius is the structuring element radius for close and open.
const MorphRadius = 2

// Band is a hue interval in degrees plus saturation and value floors.
type Band struct {
	HueMin, HueMax float64
	MinSat, MinVal float64
}

// Contains reports whether the 8-bit color falls inside the band.
func (b Band) Contains(r, g, bl uint8) bool {
	hsv := imaging.HSV(r, g, bl)
	return hsv.H >= b.HueMin && hsv.H <= b.HueMax && hsv.S >= b.MinSat && hsv.V >= b.MinVal
}

// Color bands of the common web map styles.
var (
	WaterBand   = Band{HueMin: 180, HueMax: 260, MinSat: 0.2, MinVal: 0.2}
	ParkBand    = Band{HueMin: 70, HueMax: 170, MinSat: 0.16, MinVal: 0.16}
	HighwayBand = Band{HueMin: 30, HueMax: 70, MinSat: 0.4, MinVal: 0.4}
)

// Kinds lists the layers Detect understands, in detection order.
func Kinds() []Kind {
	return []Kind{Water, Parks, Roads, Buildings, Land}
}

// ParseKind maps a layer name to its Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if k == Text {
		return k, nil
	}
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown layer %q", raster.ErrInvalidInput, name)
}

// Detect returns the mask of one color or shape layer of r.
func Detect(r *raster.Raster, kind Kind) (*filter.Mask, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	switch kind {
	case Water:
		return DetectWater(r), nil
	case Parks:
		return DetectParks(r), nil
	case Roads:
		return DetectRoads(r), nil
	case Buildings:
		return DetectBuildings(r), nil
	case Land:
		return DetectLand(r), nil
	case Text:
		return nil, fmt.Errorf("%w: text layer needs OCR, use DetectText", raster.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: unknown layer %q", raster.ErrInvalidInput, kind)
	}
}

// DetectWater marks blue areas, closed then opened to fill label gaps and
// drop isolated specks.
func DetectWater(r *raster.Raster) *filter.Mask {
	return Open(Close(captureBand(r, WaterBand), MorphRadius), MorphRadius)
}

// DetectParks marks green areas, cleaned up the same way as water.
func DetectParks(r *raster.Raster) *filter.Mask {
	return Open(Close(captureBand(r, ParkBand), MorphRadius), MorphRadius)
}

// DetectRoads marks yellow and orange highways plus the Canny edges of the
// map, which pick up the outlined white streets.
func DetectRoads(r *raster.Raster) *filter.Mask {
	m := captureBand(r, HighwayBand)
	m.Or(filter.Canny(r, filter.CannyLow, filter.CannyHigh))
	return m
}

// DetectLand marks everything no other layer claims.
func DetectLand(r *raster.Raster) *filter.Mask {
	union := DetectWater(r)
	union.Or(DetectParks(r))
	union.Or(DetectRoads(r))
	union.Or(DetectBuildings(r))
	return union.Not()
}

func captureBand(r *raster.Raster, b Band) *filter.Mask {
	return filter.Capture(r, b.Contains)
}

// Close is dilation followed by erosion with a disk of the given radius.
func Close(m *filter.Mask, radius float64) *filter.Mask {
	return fromImage(effect.Erode(effect.Dilate(toImage(m), radius), radius))
}

// Open is erosion followed by dilation with a disk of the given radius.
func Open(m *filter.Mask, radius float64) *filter.Mask {
	return fromImage(effect.Dilate(effect.Erode(toImage(m), radius), radius))
}

func toImage(m *filter.Mask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: raster.White})
			}
		}
	}
	return img
}

func fromImage(img *image.RGBA) *filter.Mask {
	b := img.Bounds()
	m := filter.NewMask(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)] >= 128 {
				m.Set(x, y, true)
			}
		}
	}
	return m
}
