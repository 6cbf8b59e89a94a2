package render

import (
	"image/color"
	"testing"

	"mad-puzzle/internal/core"
	"mad-puzzle/internal/rules"
)

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1e90ff")
	if err != nil || c != (color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 255}) {
		t.Fatalf("got %+v, %v", c, err)
	}
	for _, bad := range []string{"", "#123", "zzzzzz"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestShade(t *testing.T) {
	base := color.RGBA{R: 200, G: 100, B: 0, A: 255}
	if Shade(base, 4, 4) != base {
		t.Fatal("max level should use the full color")
	}
	low := Shade(base, 1, 4)
	if low.R != 110 || low.G != 55 || low.A != 255 {
		t.Fatalf("unexpected low shade %+v", low)
	}
	if Shade(base, 1, 1) != base {
		t.Fatal("single-level types should not be shaded")
	}
	if Shade(base, 99, 4) != base {
		t.Fatal("levels above max should clamp")
	}
}

func TestFillRGBA(t *testing.T) {
	reg := rules.NewRegistry([]rules.TileType{
		{ID: 0, Name: "Red", Color: "#ff0000", MaxLevel: 1},
		{ID: 1, Name: "Plain", MaxLevel: 1},
	})
	p := NewPalette(reg)
	cells := []core.Slot{core.Empty(), core.NewSlot(0, 1), core.NewSlot(1, 1), core.NewSlot(7, 1)}
	buf := make([]byte, 4*len(cells))
	FillRGBA(buf, cells, p)

	pixel := func(i int) color.RGBA {
		return color.RGBA{R: buf[i*4], G: buf[i*4+1], B: buf[i*4+2], A: buf[i*4+3]}
	}
	if pixel(0) != Background || pixel(3) != Background {
		t.Fatal("empty and unknown cells should use the background")
	}
	if pixel(1) != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("unexpected catalog color %+v", pixel(1))
	}
	if pixel(2) != fallback[1] {
		t.Fatalf("expected fallback color, got %+v", pixel(2))
	}
}
