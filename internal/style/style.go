// Package style configures the chrome of gadget windows.
package style

import (
	"fmt"

	"github.com/1broseidon/tinygadget/internal/platform"
)

// OffscreenX is where the invisible carrier window is parked. It stays inside
// the 16-bit coordinate range X11 accepts.
const OffscreenX = 32000

// Mode selects how the gadget window is presented to the OS.
type Mode int

const (
	// ModeVisible styles the given window itself; it stays listed in the
	// task switcher.
	ModeVisible Mode = iota
	// ModeTaskbarHidden turns the given window into an invisible carrier and
	// presents content in a secondary window it owns.
	ModeTaskbarHidden
)

func (m Mode) String() string {
	switch m {
	case ModeVisible:
		return "visible"
	case ModeTaskbarHidden:
		return "taskbar-hidden"
	default:
		return "unknown"
	}
}

// Strategy styles a window and returns the window that carries content.
type Strategy interface {
	Apply(window platform.Window) (platform.Window, error)
}

// ForMode returns the strategy for m. Unknown modes fall back to ModeVisible.
func ForMode(m Mode) Strategy {
	if m == ModeTaskbarHidden {
		return TaskbarHidden{}
	}
	return Visible{}
}

// Visible styles the window in place.
type Visible struct{}

func (Visible) Apply(window platform.Window) (platform.Window, error) {
	if err := ApplyTransparentBorderless(window); err != nil {
		return nil, err
	}
	return window, nil
}

// TaskbarHidden hides the window behind an invisible carrier.
type TaskbarHidden struct{}

func (TaskbarHidden) Apply(window platform.Window) (platform.Window, error) {
	return ApplyTaskSwitcherHidden(window)
}

// ApplyTransparentBorderless removes OS decorations and makes the background
// transparent, so only content drawn on the surface is visible.
func ApplyTransparentBorderless(window platform.Window) error {
	if err := window.SetStyle(platform.StyleTransparent); err != nil {
		return fmt.Errorf("failed to set transparent style: %w", err)
	}
	if s := window.Surface(); s != nil {
		if err := s.SetTransparentFill(); err != nil {
			return fmt.Errorf("failed to clear surface fill: %w", err)
		}
	}
	return nil
}

// ApplyTaskSwitcherHidden turns primary into an invisible, zero-sized,
// off-screen carrier, creates a transparent secondary window owned by it and
// shows the carrier. The returned secondary is the window to put content in.
// The carrier stays invisible for the rest of the session, and closing either
// window closes the other. On failure the secondary is closed again.
func ApplyTaskSwitcherHidden(primary platform.Window) (platform.Window, error) {
	if err := primary.SetStyle(platform.StyleUtility); err != nil {
		return nil, fmt.Errorf("failed to set carrier style: %w", err)
	}
	if err := primary.SetOpacity(0); err != nil {
		return nil, fmt.Errorf("failed to set carrier opacity: %w", err)
	}
	if err := primary.SetBounds(platform.Bounds{X: OffscreenX, Y: primary.Bounds().Y}); err != nil {
		return nil, fmt.Errorf("failed to park carrier: %w", err)
	}

	secondary, err := primary.NewOwnedWindow()
	if err != nil {
		return nil, fmt.Errorf("failed to create gadget window: %w", err)
	}
	if err := ApplyTransparentBorderless(secondary); err != nil {
		_ = secondary.RequestClose()
		return nil, err
	}
	if err := primary.Show(); err != nil {
		_ = secondary.RequestClose()
		return nil, fmt.Errorf("failed to show carrier: %w", err)
	}
	bindLifetime(primary, secondary)
	return secondary, nil
}

func bindLifetime(a, b platform.Window) {
	follow := func(other platform.Window) func(platform.VisibilityChange) {
		return func(c platform.VisibilityChange) {
			if c.New == platform.Closed && other.Visibility() != platform.Closed {
				_ = other.RequestClose()
			}
		}
	}
	a.OnVisibilityChange(follow(b))
	b.OnVisibilityChange(follow(a))
}
