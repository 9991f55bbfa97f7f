// Package platformtest provides an in-memory host window system for tests.
package platformtest

import (
	"github.com/1broseidon/tinygadget/internal/platform"
)

// ShownMenu records a ShowMenu call.
type ShownMenu struct {
	Items   []platform.MenuItem
	ScreenX float64
	ScreenY float64
}

// Window is a fake platform.Window. All state is exported through accessors
// so tests can assert on what the engine did.
type Window struct {
	id         platform.WindowID
	bounds     platform.Bounds
	style      platform.StyleMode
	opacity    float64
	visibility platform.Visibility
	surface    *Surface
	owner      *Window
	owned      []*Window

	surfaceChanged    platform.Signal[platform.SurfaceChange]
	visibilityChanged platform.Signal[platform.VisibilityChange]

	interceptor func() bool

	Menus         []ShownMenu
	CloseRequests int
	BoundsCalls   int

	// StyleErr and ShowErr, when set, are returned by SetStyle and Show.
	StyleErr error
	ShowErr  error
	// OnNewOwned runs for every window created through NewOwnedWindow.
	OnNewOwned func(child *Window)
}

var nextID platform.WindowID

// NewWindow returns a hidden window with normal style and no surface.
func NewWindow() *Window {
	nextID++
	return &Window{id: nextID, opacity: 1}
}

var _ platform.Window = (*Window)(nil)

func (w *Window) ID() platform.WindowID { return w.id }

func (w *Window) SetStyle(style platform.StyleMode) error {
	if w.visibility == platform.Closed {
		return platform.ErrClosed
	}
	if w.StyleErr != nil {
		return w.StyleErr
	}
	w.style = style
	return nil
}

// Style returns the last style set.
func (w *Window) Style() platform.StyleMode { return w.style }

func (w *Window) SetOpacity(opacity float64) error {
	w.opacity = opacity
	return nil
}

// Opacity returns the last opacity set.
func (w *Window) Opacity() float64 { return w.opacity }

func (w *Window) Bounds() platform.Bounds { return w.bounds }

func (w *Window) SetBounds(b platform.Bounds) error {
	if w.visibility == platform.Closed {
		return platform.ErrClosed
	}
	w.BoundsCalls++
	w.bounds = b
	return nil
}

func (w *Window) SetPosition(x, y float64) error {
	if w.visibility == platform.Closed {
		return platform.ErrClosed
	}
	w.bounds.X = x
	w.bounds.Y = y
	return nil
}

func (w *Window) Visibility() platform.Visibility { return w.visibility }

func (w *Window) Show() error {
	if w.visibility == platform.Closed {
		return platform.ErrClosed
	}
	if w.ShowErr != nil {
		return w.ShowErr
	}
	w.setVisibility(platform.Showing)
	return nil
}

// Hide moves a showing window to hidden, as a minimize or unmap would.
func (w *Window) Hide() {
	if w.visibility == platform.Showing {
		w.setVisibility(platform.Hidden)
	}
}

// SetCloseInterceptor installs fn to run on every close request. Returning
// false vetoes the close.
func (w *Window) SetCloseInterceptor(fn func() bool) {
	w.interceptor = fn
}

func (w *Window) RequestClose() error {
	if w.visibility == platform.Closed {
		return platform.ErrClosed
	}
	w.CloseRequests++
	if w.interceptor != nil && !w.interceptor() {
		return nil
	}
	w.close()
	return nil
}

func (w *Window) close() {
	w.setVisibility(platform.Closed)
	for _, child := range w.owned {
		if child.visibility != platform.Closed {
			child.close()
		}
	}
}

func (w *Window) setVisibility(v platform.Visibility) {
	if v == w.visibility {
		return
	}
	old := w.visibility
	w.visibility = v
	w.visibilityChanged.Emit(platform.VisibilityChange{Old: old, New: v})
}

func (w *Window) Surface() platform.Surface {
	if w.surface == nil {
		return nil
	}
	return w.surface
}

// SetSurface attaches s, replacing the current surface. Passing the current
// surface again emits nothing.
func (w *Window) SetSurface(s *Surface) {
	if s == w.surface {
		return
	}
	change := platform.SurfaceChange{}
	if w.surface != nil {
		change.Old = w.surface
	}
	if s != nil {
		change.New = s
	}
	w.surface = s
	w.surfaceChanged.Emit(change)
}

func (w *Window) OnSurfaceChange(fn func(platform.SurfaceChange)) platform.Subscription {
	return w.surfaceChanged.Subscribe(fn)
}

func (w *Window) OnVisibilityChange(fn func(platform.VisibilityChange)) platform.Subscription {
	return w.visibilityChanged.Subscribe(fn)
}

// VisibilityListeners returns the number of live visibility handlers.
func (w *Window) VisibilityListeners() int { return w.visibilityChanged.Len() }

func (w *Window) NewOwnedWindow() (platform.Window, error) {
	if w.visibility == platform.Closed {
		return nil, platform.ErrClosed
	}
	child := NewWindow()
	child.owner = w
	w.owned = append(w.owned, child)
	if w.OnNewOwned != nil {
		w.OnNewOwned(child)
	}
	return child, nil
}

// Owner returns the window that owns w, or nil.
func (w *Window) Owner() *Window { return w.owner }

// Owned returns the windows created through NewOwnedWindow.
func (w *Window) Owned() []*Window { return w.owned }

func (w *Window) ShowMenu(items []platform.MenuItem, screenX, screenY float64) error {
	w.Menus = append(w.Menus, ShownMenu{Items: items, ScreenX: screenX, ScreenY: screenY})
	return nil
}

// Surface is a fake platform.Surface whose events are injected by tests.
type Surface struct {
	Transparent bool

	pressed     platform.Signal[platform.PointerEvent]
	dragged     platform.Signal[platform.PointerEvent]
	released    platform.Signal[platform.PointerEvent]
	scrolled    platform.Signal[platform.ScrollEvent]
	zoomed      platform.Signal[platform.ZoomEvent]
	contextMenu platform.Signal[platform.ContextMenuEvent]
}

// NewSurface returns a surface with no listeners.
func NewSurface() *Surface { return &Surface{} }

var _ platform.Surface = (*Surface)(nil)

func (s *Surface) SetTransparentFill() error {
	s.Transparent = true
	return nil
}

func (s *Surface) OnPress(fn func(platform.PointerEvent)) platform.Subscription {
	return s.pressed.Subscribe(fn)
}

func (s *Surface) OnDrag(fn func(platform.PointerEvent)) platform.Subscription {
	return s.dragged.Subscribe(fn)
}

func (s *Surface) OnRelease(fn func(platform.PointerEvent)) platform.Subscription {
	return s.released.Subscribe(fn)
}

func (s *Surface) OnScroll(fn func(platform.ScrollEvent)) platform.Subscription {
	return s.scrolled.Subscribe(fn)
}

func (s *Surface) OnZoom(fn func(platform.ZoomEvent)) platform.Subscription {
	return s.zoomed.Subscribe(fn)
}

func (s *Surface) OnContextMenu(fn func(platform.ContextMenuEvent)) platform.Subscription {
	return s.contextMenu.Subscribe(fn)
}

// Listeners returns the total number of live handlers across all events.
func (s *Surface) Listeners() int {
	return s.pressed.Len() + s.dragged.Len() + s.released.Len() +
		s.scrolled.Len() + s.zoomed.Len() + s.contextMenu.Len()
}

// Press injects a primary-button press.
func (s *Surface) Press(sceneX, sceneY, screenX, screenY float64) {
	s.pressed.Emit(platform.PointerEvent{SceneX: sceneX, SceneY: sceneY, ScreenX: screenX, ScreenY: screenY})
}

// Drag injects a pointer motion with the primary button held.
func (s *Surface) Drag(sceneX, sceneY, screenX, screenY float64) {
	s.dragged.Emit(platform.PointerEvent{SceneX: sceneX, SceneY: sceneY, ScreenX: screenX, ScreenY: screenY})
}

// Release injects a primary-button release.
func (s *Surface) Release(screenX, screenY float64) {
	s.released.Emit(platform.PointerEvent{ScreenX: screenX, ScreenY: screenY})
}

// Scroll injects a wheel step.
func (s *Surface) Scroll(deltaY float64, mods platform.Modifier) {
	s.scrolled.Emit(platform.ScrollEvent{DeltaY: deltaY, Modifiers: mods})
}

// Zoom injects a pinch gesture step.
func (s *Surface) Zoom(factor float64) {
	s.zoomed.Emit(platform.ZoomEvent{Factor: factor})
}

// ContextMenu injects a secondary activation.
func (s *Surface) ContextMenu(screenX, screenY float64) {
	s.contextMenu.Emit(platform.ContextMenuEvent{ScreenX: screenX, ScreenY: screenY})
}

// Screens is a fixed display list.
type Screens struct {
	List []platform.Display
	Err  error
}

func (s *Screens) Displays() ([]platform.Display, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]platform.Display(nil), s.List...), nil
}

// SingleDisplay returns a Screens with one display at the origin.
func SingleDisplay(width, height int) *Screens {
	r := platform.Rect{Width: width, Height: height}
	return &Screens{List: []platform.Display{{ID: 0, Name: "fake-0", Bounds: r, Usable: r}}}
}
