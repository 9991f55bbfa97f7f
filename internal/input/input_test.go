package input

import (
	"math"
	"testing"

	"github.com/1broseidon/tinygadget/internal/platform"
	"github.com/1broseidon/tinygadget/internal/platform/platformtest"
)

const tolerance = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b))
}

func TestZoomPreservesCenter(t *testing.T) {
	starts := []platform.Bounds{
		{X: 0, Y: 0, Width: 320, Height: 200},
		{X: -150, Y: 75.5, Width: 999, Height: 512},
		{X: 1000, Y: 2000, Width: 128, Height: 640},
	}
	factors := []float64{1.1, 0.9, 2, 1, 1.75}

	for _, start := range starts {
		for _, f := range factors {
			got := Zoom(start, f)
			if start.Width*f < MinWidth || start.Height*f < MinHeight {
				continue
			}
			cx, cy := start.Center()
			gx, gy := got.Center()
			if !near(cx, gx) || !near(cy, gy) {
				t.Fatalf("zoom(%+v, %v) moved center (%v,%v) -> (%v,%v)", start, f, cx, cy, gx, gy)
			}
			if !near(got.Width, start.Width*f) || !near(got.Height, start.Height*f) {
				t.Fatalf("zoom(%+v, %v) = %+v, want size scaled by factor", start, f, got)
			}
		}
	}
}

func TestZoomEnforcesFloor(t *testing.T) {
	tests := []struct {
		name   string
		start  platform.Bounds
		factor float64
		wantW  float64
		wantH  float64
	}{
		{"width below floor", platform.Bounds{Width: 130, Height: 400}, 0.9, 128, 360},
		{"height below floor", platform.Bounds{Width: 400, Height: 130}, 0.9, 360, 128},
		{"both below floor", platform.Bounds{Width: 100, Height: 100}, 0.5, 128, 128},
		{"zero factor", platform.Bounds{Width: 500, Height: 500}, 0, 128, 128},
		{"negative factor", platform.Bounds{Width: 500, Height: 500}, -3, 128, 128},
		{"nan factor", platform.Bounds{Width: 500, Height: 500}, math.NaN(), 128, 128},
	}
	for _, tt := range tests {
		got := Zoom(tt.start, tt.factor)
		if !near(got.Width, tt.wantW) || !near(got.Height, tt.wantH) {
			t.Fatalf("%s: got %vx%v, want %vx%v", tt.name, got.Width, got.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestZoomHasNoUpperBound(t *testing.T) {
	got := Zoom(platform.Bounds{Width: 10000, Height: 8000}, 3)
	if !near(got.Width, 30000) || !near(got.Height, 24000) {
		t.Fatalf("expected unbounded growth, got %vx%v", got.Width, got.Height)
	}
}

func TestZoomIgnoresInfiniteFactor(t *testing.T) {
	start := platform.Bounds{X: 5, Y: 6, Width: 300, Height: 200}
	if got := Zoom(start, math.Inf(1)); got != start {
		t.Fatalf("expected bounds unchanged, got %+v", got)
	}
}

func TestDragMovesWindowByPressOffset(t *testing.T) {
	win := platformtest.NewWindow()
	_ = win.SetBounds(platform.Bounds{X: 0, Y: 0, Width: 320, Height: 200})
	surface := platformtest.NewSurface()
	New(win, 0, nil).Bind(surface)

	surface.Press(10, 10, 10, 10)
	surface.Drag(12, 12, 210, 110)

	b := win.Bounds()
	if b.X != 200 || b.Y != 100 {
		t.Fatalf("expected window at (200,100), got (%v,%v)", b.X, b.Y)
	}
	if b.Width != 320 || b.Height != 200 {
		t.Fatalf("drag must not resize, got %vx%v", b.Width, b.Height)
	}
}

func TestDragWithoutPressIsIgnored(t *testing.T) {
	win := platformtest.NewWindow()
	_ = win.SetBounds(platform.Bounds{X: 40, Y: 50, Width: 320, Height: 200})
	surface := platformtest.NewSurface()
	New(win, 0, nil).Bind(surface)

	surface.Drag(0, 0, 500, 500)
	surface.Press(5, 5, 45, 55)
	surface.Release(45, 55)
	surface.Drag(0, 0, 600, 600)

	if b := win.Bounds(); b.X != 40 || b.Y != 50 {
		t.Fatalf("window moved without an active press: %+v", b)
	}
}

func TestDragAllowsOffscreenPositions(t *testing.T) {
	win := platformtest.NewWindow()
	surface := platformtest.NewSurface()
	New(win, 0, nil).Bind(surface)

	surface.Press(100, 80, 100, 80)
	surface.Drag(0, 0, 20, 10)

	if b := win.Bounds(); b.X != -80 || b.Y != -70 {
		t.Fatalf("expected unclamped (-80,-70), got (%v,%v)", b.X, b.Y)
	}
}

func TestScrollWithModifierZoomsAroundCenter(t *testing.T) {
	win := platformtest.NewWindow()
	_ = win.SetBounds(platform.Bounds{X: 100, Y: 100, Width: 200, Height: 200})
	surface := platformtest.NewSurface()
	New(win, 0, nil).Bind(surface)

	surface.Scroll(1, platform.ModControl)

	b := win.Bounds()
	if !near(b.Width, 220) || !near(b.Height, 220) {
		t.Fatalf("expected 220x220, got %vx%v", b.Width, b.Height)
	}
	if cx, cy := b.Center(); !near(cx, 200) || !near(cy, 200) {
		t.Fatalf("center moved to (%v,%v)", cx, cy)
	}

	surface.Scroll(-1, platform.ModControl|platform.ModShift)
	if b := win.Bounds(); !near(b.Width, 198) {
		t.Fatalf("expected zoom out to 198, got %v", b.Width)
	}
}

func TestScrollWithoutModifierIsIgnored(t *testing.T) {
	win := platformtest.NewWindow()
	start := platform.Bounds{X: 0, Y: 0, Width: 200, Height: 200}
	_ = win.SetBounds(start)
	surface := platformtest.NewSurface()
	New(win, platform.ModAlt, nil).Bind(surface)

	surface.Scroll(1, platform.ModControl)
	if win.Bounds() != start {
		t.Fatalf("scroll without the zoom modifier resized the window")
	}
	surface.Scroll(1, platform.ModAlt)
	if b := win.Bounds(); !near(b.Width, 220) {
		t.Fatalf("expected alt+wheel to zoom, got %v", b.Width)
	}
}

func TestPinchUsesReportedFactor(t *testing.T) {
	win := platformtest.NewWindow()
	_ = win.SetBounds(platform.Bounds{X: 0, Y: 0, Width: 400, Height: 300})
	surface := platformtest.NewSurface()
	New(win, 0, nil).Bind(surface)

	surface.Zoom(0.5)
	if b := win.Bounds(); b.Width != 200 || b.Height != 150 || b.X != 100 || b.Y != 75 {
		t.Fatalf("unexpected bounds after pinch: %+v", b)
	}
}

func TestCancelledBindingStopsBehaviors(t *testing.T) {
	win := platformtest.NewWindow()
	surface := platformtest.NewSurface()
	subs := New(win, 0, nil).Bind(surface)

	platform.CancelAll(subs)
	if surface.Listeners() != 0 {
		t.Fatalf("expected all listeners removed, %d remain", surface.Listeners())
	}
}
