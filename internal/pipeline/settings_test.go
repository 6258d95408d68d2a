package pipeline

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	if s.Threshold != 128 || s.ThickenAmount != 2 || s.CoastlineAmount != 2 {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Settings)
		wantErr bool
	}{
		{"threshold 0", func(s *Settings) { s.Threshold = 0 }, false},
		{"threshold 255", func(s *Settings) { s.Threshold = 255 }, false},
		{"threshold -1", func(s *Settings) { s.Threshold = -1 }, true},
		{"threshold 256", func(s *Settings) { s.Threshold = 256 }, true},
		{"thicken 4.75", func(s *Settings) { s.ThickenAmount = 4.75 }, false},
		{"thicken 5.01", func(s *Settings) { s.ThickenAmount = 5.01 }, true},
		{"thicken negative", func(s *Settings) { s.ThickenAmount = -0.5 }, true},
		{"thicken NaN", func(s *Settings) { s.ThickenAmount = math.NaN() }, true},
		{"thicken Inf", func(s *Settings) { s.ThickenAmount = math.Inf(1) }, true},
		{"coastline large", func(s *Settings) { s.CoastlineAmount = 12 }, false},
		{"coastline negative", func(s *Settings) { s.CoastlineAmount = -1 }, true},
		{"warp 4", func(s *Settings) { s.WarpLevel = 4 }, false},
		{"warp 5", func(s *Settings) { s.WarpLevel = 5 }, true},
		{"warp negative", func(s *Settings) { s.WarpLevel = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.edit(&s)
			err := s.Validate()
			if tt.wantErr && !errors.Is(err, raster.ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSettingsMap_RoundTrip(t *testing.T) {
	tests := []Settings{
		DefaultSettings(),
		{},
		{
			Threshold:         201,
			EdgeDetection:     true,
			Invert:            true,
			LaserMode:         true,
			BlackText:         true,
			BlackRoads:        true,
			WhiteWater:        true,
			ThickenText:       true,
			ThickenAmount:     0.1 + 0.2,
			ThickenCoastlines: true,
			CoastlineAmount:   7,
			RemoveFerryLines:  true,
			WarpLevel:         3,
		},
		{ThickenAmount: 1.0 / 3.0, Threshold: 1},
	}

	for _, want := range tests {
		m := want.Map()
		if len(m) != len(Keys()) {
			t.Errorf("Map has %d keys, want %d", len(m), len(Keys()))
		}
		got, err := SettingsFromMap(m, Settings{Threshold: 77})
		if err != nil {
			t.Fatalf("SettingsFromMap(%v): %v", m, err)
		}
		if got != want {
			t.Errorf("round trip: got %+v, want %+v", got, want)
		}
	}
}

func TestSettingsFromMap_Partial(t *testing.T) {
	base := DefaultSettings()
	got, err := SettingsFromMap(map[string]string{
		KeyInvert:        "true",
		KeyThickenAmount: "1.25",
	}, base)
	if err != nil {
		t.Fatalf("SettingsFromMap: %v", err)
	}

	want := base
	want.Invert = true
	want.ThickenAmount = 1.25
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if base != DefaultSettings() {
		t.Error("base was modified")
	}
}

func TestSettingsFromMap_Errors(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]string
	}{
		{"unknown key", map[string]string{"contrast": "5"}},
		{"bad int", map[string]string{KeyThreshold: "high"}},
		{"bad bool", map[string]string{KeyInvert: "yes please"}},
		{"bad float", map[string]string{KeyThickenAmount: "1,5"}},
		{"out of domain", map[string]string{KeyThreshold: "999"}},
		{"fractional int", map[string]string{KeyCoastlineAmount: "1.5"}},
	}

	base := DefaultSettings()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SettingsFromMap(tt.m, base)
			if !errors.Is(err, raster.ErrInvalidInput) {
				t.Fatalf("got %v, want ErrInvalidInput", err)
			}
			if got != base {
				t.Errorf("on error got %+v, want base returned", got)
			}
		})
	}
}

func TestSettingsJSON_KeysMatchMap(t *testing.T) {
	data, err := json.Marshal(DefaultSettings())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	var jsonKeys []string
	for k := range obj {
		jsonKeys = append(jsonKeys, k)
	}
	sort.Strings(jsonKeys)

	if !reflect.DeepEqual(jsonKeys, Keys()) {
		t.Errorf("JSON keys %v differ from map keys %v", jsonKeys, Keys())
	}
}
