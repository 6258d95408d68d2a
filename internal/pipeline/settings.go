package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Settings selects and parameterizes the pipeline stages.
//
// Settings is a value type. A snapshot stored in a history is never changed;
// edits produce a new value.
type Settings struct {
	// Threshold is the binarization cutoff, 0-255. Ignored in laser mode.
	Threshold int `json:"threshold"`

	// EdgeDetection replaces the raster with its Sobel edges. Laser mode
	// suppresses it.
	EdgeDetection bool `json:"edgeDetection"`

	// Invert swaps black and white after thresholding.
	Invert bool `json:"invert"`

	// LaserMode binarizes on luma at a fixed cutoff for engraving.
	LaserMode bool `json:"laserMode"`

	// BlackText keeps text legible as black glyphs on white boxes.
	BlackText bool `json:"blackText"`

	// BlackRoads restores light-gray roads to black after a laser invert.
	BlackRoads bool `json:"blackRoads"`

	// WhiteWater restores near-white water to white after a laser invert.
	WhiteWater bool `json:"whiteWater"`

	// ThickenText enables the first dilation stage.
	ThickenText bool `json:"thickenText"`

	// ThickenAmount is the first dilation amount, 0-5, fractional allowed.
	ThickenAmount float64 `json:"thickenAmount"`

	// ThickenCoastlines enables the final dilation stage.
	ThickenCoastlines bool `json:"thickenCoastlines"`

	// CoastlineAmount is the number of final dilation passes.
	CoastlineAmount int `json:"coastlineAmount"`

	// RemoveFerryLines removes dashed route overlays.
	RemoveFerryLines bool `json:"removeFerryLines"`

	// WarpLevel is the envelope warp strength, 0-4. Zero disables it.
	WarpLevel int `json:"warpLevel"`
}

// Settings keys, shared by the flat map form and the JSON form.
const (
	KeyThreshold         = "threshold"
	KeyEdgeDetection     = "edgeDetection"
	KeyInvert            = "invert"
	KeyLaserMode         = "laserMode"
	KeyBlackText         = "blackText"
	KeyBlackRoads        = "blackRoads"
	KeyWhiteWater        = "whiteWater"
	KeyThickenText       = "thickenText"
	KeyThickenAmount     = "thickenAmount"
	KeyThickenCoastlines = "thickenCoastlines"
	KeyCoastlineAmount   = "coastlineAmount"
	KeyRemoveFerryLines  = "removeFerryLines"
	KeyWarpLevel         = "warpLevel"
)

// MaxThickenAmount bounds ThickenAmount.
const MaxThickenAmount = 5

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		Threshold:       128,
		ThickenAmount:   2,
		CoastlineAmount: 2,
	}
}

// Validate reports the first out-of-domain field as ErrInvalidInput.
func (s Settings) Validate() error {
	if s.Threshold < 0 || s.Threshold > 255 {
		return fmt.Errorf("%w: threshold %d outside 0-255", raster.ErrInvalidInput, s.Threshold)
	}
	if math.IsNaN(s.ThickenAmount) || s.ThickenAmount < 0 || s.ThickenAmount > MaxThickenAmount {
		return fmt.Errorf("%w: thickenAmount %v outside 0-%d", raster.ErrInvalidInput, s.ThickenAmount, MaxThickenAmount)
	}
	if s.CoastlineAmount < 0 {
		return fmt.Errorf("%w: coastlineAmount %d is negative", raster.ErrInvalidInput, s.CoastlineAmount)
	}
	if s.WarpLevel < 0 || s.WarpLevel > filter.MaxWarpLevel {
		return fmt.Errorf("%w: warpLevel %d outside 0-%d", raster.ErrInvalidInput, s.WarpLevel, filter.MaxWarpLevel)
	}
	return nil
}

// Map serializes s to a flat key/value record. SettingsFromMap reverses it
// exactly.
func (s Settings) Map() map[string]string {
	return map[string]string{
		KeyThreshold:         strconv.Itoa(s.Threshold),
		KeyEdgeDetection:     strconv.FormatBool(s.EdgeDetection),
		KeyInvert:            strconv.FormatBool(s.Invert),
		KeyLaserMode:         strconv.FormatBool(s.LaserMode),
		KeyBlackText:         strconv.FormatBool(s.BlackText),
		KeyBlackRoads:        strconv.FormatBool(s.BlackRoads),
		KeyWhiteWater:        strconv.FormatBool(s.WhiteWater),
		KeyThickenText:       strconv.FormatBool(s.ThickenText),
		KeyThickenAmount:     strconv.FormatFloat(s.ThickenAmount, 'g', -1, 64),
		KeyThickenCoastlines: strconv.FormatBool(s.ThickenCoastlines),
		KeyCoastlineAmount:   strconv.Itoa(s.CoastlineAmount),
		KeyRemoveFerryLines:  strconv.FormatBool(s.RemoveFerryLines),
		KeyWarpLevel:         strconv.Itoa(s.WarpLevel),
	}
}

// Keys returns every settings key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsFromMap applies the entries of m on top of base. Keys absent from
// m keep their base values. Unknown keys, unparsable values and a result
// that fails Validate are ErrInvalidInput; base is never modified.
func SettingsFromMap(m map[string]string, base Settings) (Settings, error) {
	s := base
	for _, k := range sortedKeys(m) {
		set, ok := fields[k]
		if !ok {
			return base, fmt.Errorf("%w: unknown setting %q", raster.ErrInvalidInput, k)
		}
		if err := set(&s, m[k]); err != nil {
			return base, fmt.Errorf("%w: setting %s=%q: %v", raster.ErrInvalidInput, k, m[k], err)
		}
	}
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var fields = map[string]func(s *Settings, v string) error{
	KeyThreshold:         intField(func(s *Settings) *int { return &s.Threshold }),
	KeyEdgeDetection:     boolField(func(s *Settings) *bool { return &s.EdgeDetection }),
	KeyInvert:            boolField(func(s *Settings) *bool { return &s.Invert }),
	KeyLaserMode:         boolField(func(s *Settings) *bool { return &s.LaserMode }),
	KeyBlackText:         boolField(func(s *Settings) *bool { return &s.BlackText }),
	KeyBlackRoads:        boolField(func(s *Settings) *bool { return &s.BlackRoads }),
	KeyWhiteWater:        boolField(func(s *Settings) *bool { return &s.WhiteWater }),
	KeyThickenText:       boolField(func(s *Settings) *bool { return &s.ThickenText }),
	KeyThickenAmount:     floatField(func(s *Settings) *float64 { return &s.ThickenAmount }),
	KeyThickenCoastlines: boolField(func(s *Settings) *bool { return &s.ThickenCoastlines }),
	KeyCoastlineAmount:   intField(func(s *Settings) *int { return &s.CoastlineAmount }),
	KeyRemoveFerryLines:  boolField(func(s *Settings) *bool { return &s.RemoveFerryLines }),
	KeyWarpLevel:         intField(func(s *Settings) *int { return &s.WarpLevel }),
}

func intField(field func(*Settings) *int) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(s) = n
		return nil
	}
}

func boolField(field func(*Settings) *bool) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(s) = b
		return nil
	}
}

func floatField(field func(*Settings) *float64) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(s) = f
		return nil
	}
}
