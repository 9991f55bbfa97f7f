//go:build linux

package platform

import (
	"testing"

	"github.com/1broseidon/tinygadget/internal/x11"
)

func TestModifiersFromStateUsesResolvedMasks(t *testing.T) {
	masks := x11.ModifierMasks{Control: 0x4, Shift: 0x1, Alt: 0x8, Super: 0x40}

	tests := []struct {
		state uint16
		want  Modifier
	}{
		{0, 0},
		{0x4, ModControl},
		{0x4 | 0x1, ModControl | ModShift},
		{0x8, ModAlt},
		{0x40, ModSuper},
		// CapsLock and NumLock bits are ignored.
		{0x2 | 0x10 | 0x4, ModControl},
	}
	for _, tt := range tests {
		if got := modifiersFromState(tt.state, masks); got != tt.want {
			t.Fatalf("state %#x: expected %v, got %v", tt.state, tt.want, got)
		}
	}
}

func TestModifiersFromStateIgnoresUnmappedModifiers(t *testing.T) {
	masks := x11.ModifierMasks{Control: 0x4}
	if got := modifiersFromState(0xff, masks); got != ModControl {
		t.Fatalf("expected only control, got %v", got)
	}
}

func TestWheelDeltaZoomsInOnWheelUp(t *testing.T) {
	if wheelDelta(buttonWheelUp) <= 0 {
		t.Fatalf("wheel up must produce a positive delta")
	}
	if wheelDelta(buttonWheelDown) >= 0 {
		t.Fatalf("wheel down must produce a negative delta")
	}
	if wheelDelta(buttonPrimary) != 0 {
		t.Fatalf("non-wheel button must produce no delta")
	}
}

func TestDisplayFromOutput(t *testing.T) {
	d := displayFromOutput(x11.Output{
		ID:     2,
		Name:   "HDMI-1",
		Bounds: x11.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440},
		Usable: x11.Rect{X: 1920, Y: 32, Width: 2560, Height: 1408},
	})
	if d.ID != 2 || d.Name != "HDMI-1" {
		t.Fatalf("unexpected identity %+v", d)
	}
	if d.Bounds != (Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}) {
		t.Fatalf("unexpected bounds %+v", d.Bounds)
	}
	if d.Usable != (Rect{X: 1920, Y: 32, Width: 2560, Height: 1408}) {
		t.Fatalf("unexpected usable area %+v", d.Usable)
	}
	if !containsPoint(d.Bounds, 1920, 0) || containsPoint(d.Bounds, 4480, 10) {
		t.Fatalf("containsPoint edges wrong")
	}
}
