package filter

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"threshold", "invert", "dilate", "warp", "remove_dashed_lines"} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found", name)
		}
	}
	if _, ok := Lookup("sharpen"); ok {
		t.Error("Lookup of an unregistered name succeeded")
	}
}

func TestList_Sorted(t *testing.T) {
	list := List()
	if len(list) != len(registry) {
		t.Fatalf("List: got %d filters, want %d", len(list), len(registry))
	}
	if !sort.SliceIsSorted(list, func(i, j int) bool { return list[i].Name < list[j].Name }) {
		t.Error("List is not sorted by name")
	}
}

func TestNamedApply_Invert(t *testing.T) {
	n, _ := Lookup("invert")
	r := createRaster(t, 2, 2, opaqueWhite)

	if err := n.Apply(r, 0); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := countBlack(r); got != 4 {
		t.Errorf("black pixels: got %d, want 4", got)
	}
}

func TestNamedApply_ParamRange(t *testing.T) {
	tests := []struct {
		name    string
		param   float64
		wantErr bool
	}{
		{"threshold", 0, false},
		{"threshold", 255, false},
		{"threshold", 256, true},
		{"threshold", -1, true},
		{"dilate", 5, false},
		{"dilate", 5.5, true},
		{"dilate", math.NaN(), true},
		{"warp", 4, false},
		{"warp", 5, true},
		{"warp", 2.9, true},
		{"threshold", 127.9, true},
		{"threshold_luma", 0.5, true},
		{"black_text_halo", 2.5, true},
		{"black_text_halo", 2, false},
		// Dilate takes fractional amounts.
		{"dilate", 1.5, false},
		// Parameterless filters ignore the value.
		{"invert", 999, false},
	}

	for _, tt := range tests {
		n, ok := Lookup(tt.name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", tt.name)
		}
		r := createRaster(t, 4, 4, opaqueWhite)
		err := n.Apply(r, tt.param)
		if tt.wantErr {
			if !errors.Is(err, raster.ErrInvalidInput) {
				t.Errorf("%s(%v): got %v, want ErrInvalidInput", tt.name, tt.param, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s(%v): unexpected error %v", tt.name, tt.param, err)
		}
	}
}

func TestNamedApply_InvalidRaster(t *testing.T) {
	n, _ := Lookup("invert")
	bad := &raster.Raster{Width: 2, Height: 2, Pix: make([]uint8, 3)}

	if err := n.Apply(bad, 0); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestNamedApply_CannyEdges(t *testing.T) {
	n, ok := Lookup("canny_edges")
	if !ok {
		t.Fatal("canny_edges not registered")
	}
	r := createRaster(t, 20, 12, opaqueWhite)
	fillRect(r, 10, 0, 20, 12, opaqueBlack)

	if err := n.Apply(r, 0); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := countBlack(r); got != 10 {
		t.Errorf("black pixels: got %d, want 10", got)
	}
	if !blackSet(r)[[2]int{9, 5}] {
		t.Error("edge pixel (9,5) not drawn")
	}
}
