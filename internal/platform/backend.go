package platform

import "errors"

// ErrClosed is returned by operations on a window that has already closed.
var ErrClosed = errors.New("window is closed")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Intersects reports whether r and o share a non-empty area.
func (r Rect) Intersects(o Rect) bool {
	return r.Width > 0 && r.Height > 0 && o.Width > 0 && o.Height > 0 &&
		r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Bounds is a window's position and size in logical units.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Rect truncates b toward zero.
func (b Bounds) Rect() Rect {
	return Rect{X: int(b.X), Y: int(b.Y), Width: int(b.Width), Height: int(b.Height)}
}

// Center returns the visual center of b.
func (b Bounds) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// StyleMode is the chrome style of a top-level window.
type StyleMode int

const (
	StyleNormal      StyleMode = iota // OS decorations, opaque background.
	StyleTransparent                  // No decorations, transparent background.
	StyleUtility                      // Minimal decorations, tool window.
)

func (s StyleMode) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleTransparent:
		return "transparent"
	case StyleUtility:
		return "utility"
	default:
		return "unknown"
	}
}

// Visibility is the lifecycle state of a window.
type Visibility int

const (
	Hidden Visibility = iota
	Showing
	Closed
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Showing:
		return "showing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Modifier is a set of keyboard modifiers held during an input event.
type Modifier uint8

const (
	ModControl Modifier = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// Has reports whether all modifiers in want are held.
func (m Modifier) Has(want Modifier) bool {
	return want != 0 && m&want == want
}

// PointerEvent is a press, drag or release on a surface. Scene coordinates
// are relative to the surface origin, screen coordinates to the root.
type PointerEvent struct {
	SceneX    float64
	SceneY    float64
	ScreenX   float64
	ScreenY   float64
	Modifiers Modifier
}

// ScrollEvent is a wheel step. Positive DeltaY scrolls up (away from the user).
type ScrollEvent struct {
	DeltaY    float64
	ScreenX   float64
	ScreenY   float64
	Modifiers Modifier
}

// ZoomEvent is a pinch/magnification gesture step.
type ZoomEvent struct {
	Factor float64
}

// ContextMenuEvent is a secondary activation (right click, long press).
type ContextMenuEvent struct {
	ScreenX float64
	ScreenY float64
}

// SurfaceChange is emitted when a window's surface is attached or replaced.
// Either side may be nil.
type SurfaceChange struct {
	Old Surface
	New Surface
}

// VisibilityChange is emitted on every visibility transition.
type VisibilityChange struct {
	Old Visibility
	New Visibility
}

// MenuItem is a single popup menu entry.
type MenuItem struct {
	Label  string
	Action func()
}

// Surface is the drawable content area of a window and the source of its
// pointer input.
type Surface interface {
	SetTransparentFill() error
	OnPress(fn func(PointerEvent)) Subscription
	OnDrag(fn func(PointerEvent)) Subscription
	OnRelease(fn func(PointerEvent)) Subscription
	OnScroll(fn func(ScrollEvent)) Subscription
	OnZoom(fn func(ZoomEvent)) Subscription
	OnContextMenu(fn func(ContextMenuEvent)) Subscription
}

// Window abstracts the top-level window operations the gadget engine needs.
type Window interface {
	ID() WindowID
	SetStyle(style StyleMode) error
	SetOpacity(opacity float64) error
	Bounds() Bounds
	SetBounds(b Bounds) error
	SetPosition(x, y float64) error
	Visibility() Visibility
	Show() error
	// RequestClose asks the window to close through the same path as a
	// window-manager close request, so close interceptors still run.
	RequestClose() error
	// Surface returns the current surface, or nil if none is attached.
	Surface() Surface
	OnSurfaceChange(fn func(SurfaceChange)) Subscription
	OnVisibilityChange(fn func(VisibilityChange)) Subscription
	// NewOwnedWindow creates a hidden window owned by this one.
	NewOwnedWindow() (Window, error)
	ShowMenu(items []MenuItem, screenX, screenY float64) error
}

// Screens enumerates the displays currently available.
type Screens interface {
	Displays() ([]Display, error)
}
