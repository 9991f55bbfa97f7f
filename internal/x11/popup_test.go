package x11

import "testing"

func TestMenuDimensionsHonorsMinimumWidth(t *testing.T) {
	w, h := menuDimensions([]string{"Close"})
	if w != menuMinWidth {
		t.Fatalf("expected min width %d, got %d", menuMinWidth, w)
	}
	if h != menuLineHeight+2*menuPaddingY {
		t.Fatalf("unexpected height %d", h)
	}

	long := "Close this gadget and forget it"
	w, _ = menuDimensions([]string{long})
	if w != len(long)*menuCharWidth+2*menuPaddingX {
		t.Fatalf("unexpected width %d for long label", w)
	}
}

func TestMenuDimensionsCountsRunesNotBytes(t *testing.T) {
	wide, _ := menuDimensions([]string{"閉じる閉じる閉じる閉じる閉じる"})
	if wide != 15*menuCharWidth+2*menuPaddingX {
		t.Fatalf("unexpected width %d", wide)
	}
}

func TestMenuIndexAt(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"top padding", 10, 0, -1},
		{"first item", 10, menuPaddingY + 1, 0},
		{"second item", 10, menuPaddingY + menuLineHeight + 1, 1},
		{"below items", 10, menuPaddingY + 2*menuLineHeight + 1, -1},
		{"left of popup", -1, 10, -1},
		{"right of popup", 100, 10, -1},
	}
	for _, tt := range tests {
		if got := menuIndexAt(tt.x, tt.y, 100, 2); got != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestClampMenuOriginOpensTowardsScreenInterior(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, Width: 800, Height: 600}

	if x, y := clampMenuOrigin(100, 100, bounds, 96, 28); x != 100 || y != 100 {
		t.Fatalf("menu that fits should open at the pointer, got (%d,%d)", x, y)
	}
	if x, y := clampMenuOrigin(790, 590, bounds, 96, 28); x != 694 || y != 562 {
		t.Fatalf("expected menu flipped up and left, got (%d,%d)", x, y)
	}
}

func TestClampMenuOriginClampsOversizedMenuToBoundsOrigin(t *testing.T) {
	bounds := Rect{X: 100, Y: 200, Width: 140, Height: 90}
	x, y := clampMenuOrigin(120, 210, bounds, 260, 160)

	if x != bounds.X || y != bounds.Y {
		t.Fatalf("expected oversized menu to clamp to bounds origin (%d,%d), got (%d,%d)", bounds.X, bounds.Y, x, y)
	}
}

func TestToChar2b(t *testing.T) {
	got := toChar2b("Aé終😀")
	if len(got) != 3 {
		t.Fatalf("expected astral rune dropped, got %d chars", len(got))
	}
	if got[0].Byte1 != 0 || got[0].Byte2 != 'A' {
		t.Fatalf("unexpected encoding for A: %+v", got[0])
	}
	if got[2].Byte1 != 0x7d || got[2].Byte2 != 0x42 {
		t.Fatalf("unexpected encoding for 終: %+v", got[2])
	}
}

func TestClampCoordAndSize(t *testing.T) {
	if clampCoord(32000) != 32000 || clampCoord(40000) != 32767 || clampCoord(-40000) != -32768 {
		t.Fatalf("coordinate clamping broken")
	}
	if clampSize(0) != 1 || clampSize(-5) != 1 || clampSize(70000) != 65535 || clampSize(320) != 320 {
		t.Fatalf("size clamping broken")
	}
}

func TestPremultiply(t *testing.T) {
	if got := Premultiply(0xFF336699); got != 0xFF336699 {
		t.Fatalf("opaque pixel changed: %#x", got)
	}
	if got := Premultiply(0x00FFFFFF); got != 0 {
		t.Fatalf("transparent pixel must be zero, got %#x", got)
	}
	if got := Premultiply(0x80FF0000); got != 0x80800000 {
		t.Fatalf("unexpected half alpha red %#x", got)
	}
}
