package style

import (
	"errors"
	"testing"

	"github.com/1broseidon/tinygadget/internal/platform"
	"github.com/1broseidon/tinygadget/internal/platform/platformtest"
)

func TestVisibleStylesWindowInPlace(t *testing.T) {
	win := platformtest.NewWindow()
	surface := platformtest.NewSurface()
	win.SetSurface(surface)

	got, err := ForMode(ModeVisible).Apply(win)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != platform.Window(win) {
		t.Fatalf("visible strategy must return the same window")
	}
	if win.Style() != platform.StyleTransparent {
		t.Fatalf("expected transparent style, got %s", win.Style())
	}
	if !surface.Transparent {
		t.Fatalf("expected surface fill to be transparent")
	}
	if win.Visibility() != platform.Hidden {
		t.Fatalf("visible strategy must not show the window, got %s", win.Visibility())
	}
}

func TestTaskbarHiddenBuildsCarrierAndSecondary(t *testing.T) {
	primary := platformtest.NewWindow()

	got, err := ForMode(ModeTaskbarHidden).Apply(primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondary, ok := got.(*platformtest.Window)
	if !ok || secondary == primary {
		t.Fatalf("expected a new secondary window, got %#v", got)
	}

	if primary.Style() != platform.StyleUtility {
		t.Fatalf("carrier style = %s, want utility", primary.Style())
	}
	if primary.Opacity() != 0 {
		t.Fatalf("carrier opacity = %v, want 0", primary.Opacity())
	}
	b := primary.Bounds()
	if b.Width != 0 || b.Height != 0 || b.X != OffscreenX {
		t.Fatalf("carrier bounds = %+v, want 0x0 at x=%d", b, OffscreenX)
	}
	if primary.Visibility() != platform.Showing {
		t.Fatalf("carrier must be shown, got %s", primary.Visibility())
	}

	if secondary.Owner() != primary {
		t.Fatalf("secondary must be owned by the carrier")
	}
	if secondary.Style() != platform.StyleTransparent {
		t.Fatalf("secondary style = %s, want transparent", secondary.Style())
	}
	if secondary.Visibility() != platform.Hidden {
		t.Fatalf("secondary is shown by the application, got %s", secondary.Visibility())
	}
}

func TestTaskbarHiddenClosingSecondaryClosesCarrier(t *testing.T) {
	primary := platformtest.NewWindow()
	got, err := ApplyTaskSwitcherHidden(primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondary := got.(*platformtest.Window)
	if err := secondary.Show(); err != nil {
		t.Fatalf("show: %v", err)
	}

	if err := secondary.RequestClose(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if primary.Visibility() != platform.Closed {
		t.Fatalf("carrier should follow secondary to closed, got %s", primary.Visibility())
	}
}

func TestTaskbarHiddenClosingCarrierClosesSecondary(t *testing.T) {
	primary := platformtest.NewWindow()
	got, err := ApplyTaskSwitcherHidden(primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondary := got.(*platformtest.Window)

	if err := primary.RequestClose(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if secondary.Visibility() != platform.Closed {
		t.Fatalf("secondary should follow carrier to closed, got %s", secondary.Visibility())
	}
}

func TestTaskbarHiddenClosesSecondaryWhenStylingFails(t *testing.T) {
	primary := platformtest.NewWindow()
	styleErr := errors.New("no compositor")
	var secondary *platformtest.Window
	primary.OnNewOwned = func(child *platformtest.Window) {
		child.StyleErr = styleErr
		secondary = child
	}

	if _, err := ApplyTaskSwitcherHidden(primary); !errors.Is(err, styleErr) {
		t.Fatalf("expected style error, got %v", err)
	}
	if secondary == nil || secondary.Visibility() != platform.Closed {
		t.Fatalf("secondary must be closed after a failed attach")
	}
	if primary.Visibility() == platform.Closed {
		t.Fatalf("carrier belongs to the caller and must stay open")
	}
}

func TestTaskbarHiddenClosesSecondaryWhenCarrierCannotShow(t *testing.T) {
	primary := platformtest.NewWindow()
	showErr := errors.New("unmappable")
	primary.ShowErr = showErr

	if _, err := ApplyTaskSwitcherHidden(primary); !errors.Is(err, showErr) {
		t.Fatalf("expected show error, got %v", err)
	}
	owned := primary.Owned()
	if len(owned) != 1 || owned[0].Visibility() != platform.Closed {
		t.Fatalf("secondary must be closed after a failed attach")
	}
	if primary.Visibility() == platform.Closed {
		t.Fatalf("carrier must not follow a secondary that never attached")
	}
}

func TestModeString(t *testing.T) {
	if ModeVisible.String() != "visible" || ModeTaskbarHidden.String() != "taskbar-hidden" {
		t.Fatalf("unexpected mode names: %s, %s", ModeVisible, ModeTaskbarHidden)
	}
}
