//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/1broseidon/tinygadget/internal/logging"
	"github.com/1broseidon/tinygadget/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
)

// LinuxBackend hosts gadget windows on an X11 display. All of its methods,
// and every callback it runs, belong to the goroutine that calls EventLoop.
type LinuxBackend struct {
	conn   *x11.Connection
	logger *slog.Logger

	open  int
	popup *x11.Popup
}

var _ Screens = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	return &LinuxBackend{conn: conn, logger: logging.Ensure(logger).With("component", "x11")}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	b := NewLinuxBackend(conn, logger)
	if !conn.HasARGB() {
		b.logger.Warn("no 32-bit visual, gadget windows will not be transparent")
	}
	return b, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop runs the X11 event loop until Quit is called or the last window
// closes.
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	outputs, err := conn.Outputs()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(outputs))
	for _, o := range outputs {
		displays = append(displays, displayFromOutput(o))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// NewWindow creates a hidden top-level window with the given title. It has
// no surface until NewSurface is called.
func (b *LinuxBackend) NewWindow(title string) (*LinuxWindow, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	wid, err := conn.CreateTopLevel(x11.Rect{Width: 1, Height: 1})
	if err != nil {
		return nil, err
	}
	if err := conn.SetTitle(wid, title); err != nil {
		conn.Destroy(wid)
		return nil, fmt.Errorf("failed to set window title: %w", err)
	}
	if err := conn.EnableDeleteProtocol(wid); err != nil {
		conn.Destroy(wid)
		return nil, fmt.Errorf("failed to enable WM_DELETE_WINDOW: %w", err)
	}

	w := &LinuxWindow{
		backend: b,
		id:      wid,
		title:   title,
		bounds:  Bounds{Width: 1, Height: 1},
		logger:  b.logger.With("window", uint32(wid)),
	}
	w.listen()
	b.open++
	return w, nil
}

func (b *LinuxBackend) windowClosed() {
	b.open--
	if b.open <= 0 {
		b.logger.Debug("last window closed, leaving event loop")
		b.Quit()
	}
}

func (b *LinuxBackend) showPopup(items []MenuItem, screenX, screenY float64) error {
	if b.popup != nil {
		b.popup.Close()
		b.popup = nil
	}
	if len(items) == 0 {
		return nil
	}

	x, y := int(screenX), int(screenY)
	var bounds x11.Rect
	if displays, err := b.Displays(); err == nil {
		for _, d := range displays {
			if containsPoint(d.Bounds, x, y) {
				bounds = x11.Rect{X: d.Usable.X, Y: d.Usable.Y, Width: d.Usable.Width, Height: d.Usable.Height}
				break
			}
		}
	}

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	popup, err := b.conn.ShowPopup(labels, x, y, bounds, func(index int) {
		b.popup = nil
		if action := items[index].Action; action != nil {
			action()
		}
	})
	if err != nil {
		return fmt.Errorf("failed to show menu: %w", err)
	}
	b.popup = popup
	return nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// LinuxWindow is an X11 top-level window.
type LinuxWindow struct {
	backend *LinuxBackend
	id      xproto.Window
	title   string
	logger  *slog.Logger

	bounds     Bounds
	style      StyleMode
	visibility Visibility
	sticky     bool
	surface    *LinuxSurface
	owner      *LinuxWindow
	owned      []*LinuxWindow

	interceptor func() bool

	surfaceChanged    Signal[SurfaceChange]
	visibilityChanged Signal[VisibilityChange]
}

var _ Window = (*LinuxWindow)(nil)

func (w *LinuxWindow) ID() WindowID { return WindowID(w.id) }

func (w *LinuxWindow) conn() *x11.Connection { return w.backend.conn }

func (w *LinuxWindow) SetStyle(style StyleMode) error {
	if w.visibility == Closed {
		return ErrClosed
	}
	conn := w.conn()
	var err error
	switch style {
	case StyleNormal:
		err = conn.SetWindowType(w.id, "_NET_WM_WINDOW_TYPE_NORMAL")
	case StyleTransparent:
		if err = conn.SetUndecorated(w.id); err == nil {
			err = conn.SetWindowType(w.id, "_NET_WM_WINDOW_TYPE_NORMAL")
		}
	case StyleUtility:
		if err = conn.SetUndecorated(w.id); err == nil {
			err = conn.SetWindowType(w.id, "_NET_WM_WINDOW_TYPE_UTILITY")
		}
	default:
		return fmt.Errorf("unknown style %s", style)
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s style: %w", style, err)
	}
	w.style = style
	return w.applyState()
}

// applyState writes the initial _NET_WM_STATE. Utility windows and windows
// with an owner stay out of the taskbar and pager.
func (w *LinuxWindow) applyState() error {
	var states []string
	if w.style == StyleUtility || w.owner != nil {
		states = append(states, "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER")
	}
	if w.sticky {
		states = append(states, "_NET_WM_STATE_STICKY")
	}
	return w.conn().SetInitialState(w.id, states...)
}

// SetSticky shows the window on every virtual desktop.
func (w *LinuxWindow) SetSticky(sticky bool) error {
	if w.visibility == Closed {
		return ErrClosed
	}
	w.sticky = sticky
	if err := w.applyState(); err != nil {
		return err
	}
	if !sticky {
		return nil
	}
	return w.conn().MakeSticky(w.id, w.visibility == Showing)
}

func (w *LinuxWindow) SetOpacity(opacity float64) error {
	if w.visibility == Closed {
		return ErrClosed
	}
	return w.conn().SetOpacity(w.id, opacity)
}

func (w *LinuxWindow) Bounds() Bounds { return w.bounds }

func (w *LinuxWindow) SetBounds(b Bounds) error {
	if w.visibility == Closed {
		return ErrClosed
	}
	r := b.Rect()
	if err := w.conn().MoveResizeWindow(w.id, r.X, r.Y, r.Width, r.Height); err != nil {
		return err
	}
	w.bounds = b
	w.resizeSurface()
	return nil
}

func (w *LinuxWindow) SetPosition(x, y float64) error {
	b := w.bounds
	b.X, b.Y = x, y
	return w.SetBounds(b)
}

func (w *LinuxWindow) Visibility() Visibility { return w.visibility }

func (w *LinuxWindow) Show() error {
	if w.visibility == Closed {
		return ErrClosed
	}
	if w.sticky {
		if err := w.conn().MakeSticky(w.id, false); err != nil {
			w.logger.Warn("failed to make window sticky", "error", err)
		}
	}
	w.conn().Map(w.id)
	return nil
}

// SetCloseInterceptor installs fn to run on every close request. Returning
// false vetoes the close.
func (w *LinuxWindow) SetCloseInterceptor(fn func() bool) {
	w.interceptor = fn
}

func (w *LinuxWindow) RequestClose() error {
	if w.visibility == Closed {
		return ErrClosed
	}
	return w.conn().RequestClose(w.id)
}

// Closer returns a function that sends a close request from any goroutine.
// It reads no window state; the request is handled on the event goroutine
// like a window manager close, so interceptors and listeners still run.
func (w *LinuxWindow) Closer() func() error {
	conn, id := w.conn(), w.id
	return func() error {
		return conn.RequestClose(id)
	}
}

func (w *LinuxWindow) Surface() Surface {
	if w.surface == nil {
		return nil
	}
	return w.surface
}

// NewSurface creates a content surface covering the window and makes it the
// window's current surface. The previous surface is destroyed.
func (w *LinuxWindow) NewSurface() (*LinuxSurface, error) {
	if w.visibility == Closed {
		return nil, ErrClosed
	}
	r := w.bounds.Rect()
	sid, err := w.conn().CreateSurface(w.id, r.Width, r.Height)
	if err != nil {
		return nil, err
	}
	s := &LinuxSurface{window: w, id: sid}
	s.listen()
	w.conn().Map(sid)

	old := w.surface
	w.surface = s
	change := SurfaceChange{New: s}
	if old != nil {
		change.Old = old
	}
	w.surfaceChanged.Emit(change)
	if old != nil {
		old.destroy()
	}
	return s, nil
}

func (w *LinuxWindow) OnSurfaceChange(fn func(SurfaceChange)) Subscription {
	return w.surfaceChanged.Subscribe(fn)
}

func (w *LinuxWindow) OnVisibilityChange(fn func(VisibilityChange)) Subscription {
	return w.visibilityChanged.Subscribe(fn)
}

func (w *LinuxWindow) NewOwnedWindow() (Window, error) {
	if w.visibility == Closed {
		return nil, ErrClosed
	}
	child, err := w.backend.NewWindow(w.title)
	if err != nil {
		return nil, err
	}
	if err := w.conn().SetTransientFor(child.id, w.id); err != nil {
		child.close()
		return nil, fmt.Errorf("failed to set owner: %w", err)
	}
	child.owner = w
	w.owned = append(w.owned, child)
	return child, nil
}

func (w *LinuxWindow) ShowMenu(items []MenuItem, screenX, screenY float64) error {
	if w.visibility == Closed {
		return ErrClosed
	}
	return w.backend.showPopup(items, screenX, screenY)
}

func (w *LinuxWindow) listen() {
	xu := w.backend.conn.XUtil

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		w.refreshBounds()
	}).Connect(xu, w.id)
	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		w.setVisibility(Showing)
	}).Connect(xu, w.id)
	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		w.setVisibility(Hidden)
	}).Connect(xu, w.id)
	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if icccm.IsDeleteProtocol(xu, ev) {
			w.handleDeleteRequest()
		}
	}).Connect(xu, w.id)
	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		if ev.Window == w.id && w.visibility != Closed {
			w.logger.Warn("window destroyed externally")
			w.finish(false)
		}
	}).Connect(xu, w.id)
}

// refreshBounds reads the real geometry after the window manager has
// placed or resized the window. Reparenting makes ConfigureNotify
// coordinates parent-relative, so they are not used directly.
func (w *LinuxWindow) refreshBounds() {
	if w.visibility == Closed {
		return
	}
	r, err := w.conn().WindowRect(w.id)
	if err != nil {
		return
	}
	w.bounds = Bounds{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
	w.resizeSurface()
}

func (w *LinuxWindow) resizeSurface() {
	if w.surface == nil {
		return
	}
	r := w.bounds.Rect()
	w.conn().ResizeChild(w.surface.id, r.Width, r.Height)
}

func (w *LinuxWindow) handleDeleteRequest() {
	if w.visibility == Closed {
		return
	}
	if w.interceptor != nil && !w.interceptor() {
		w.logger.Debug("close vetoed")
		return
	}
	w.finish(true)
}

// finish moves the window to Closed, closes owned windows, and releases X
// resources. Listeners see Closed while the geometry is still readable.
func (w *LinuxWindow) finish(destroy bool) {
	if w.visibility == Closed {
		return
	}
	w.setVisibility(Closed)
	for _, child := range w.owned {
		child.close()
	}
	if w.surface != nil {
		w.surface.destroy()
		w.surface = nil
	}
	if destroy {
		w.conn().Destroy(w.id)
	} else {
		xevent.Detach(w.backend.conn.XUtil, w.id)
	}
	w.backend.windowClosed()
}

func (w *LinuxWindow) close() {
	w.finish(true)
}

func (w *LinuxWindow) setVisibility(v Visibility) {
	if v == w.visibility || w.visibility == Closed {
		return
	}
	old := w.visibility
	w.visibility = v
	w.logger.Debug("visibility changed", "from", old.String(), "to", v.String())
	w.visibilityChanged.Emit(VisibilityChange{Old: old, New: v})
}

// LinuxSurface is a child window that carries content and receives pointer
// input for its LinuxWindow.
type LinuxSurface struct {
	window *LinuxWindow
	id     xproto.Window

	pressed     Signal[PointerEvent]
	dragged     Signal[PointerEvent]
	released    Signal[PointerEvent]
	scrolled    Signal[ScrollEvent]
	zoomed      Signal[ZoomEvent]
	contextMenu Signal[ContextMenuEvent]
}

var _ Surface = (*LinuxSurface)(nil)

// X button numbers.
const (
	buttonPrimary   = 1
	buttonSecondary = 3
	buttonWheelUp   = 4
	buttonWheelDown = 5
)

const wheelStepPerTick = 1

func (s *LinuxSurface) SetTransparentFill() error {
	conn := s.window.conn()
	if !conn.HasARGB() {
		return fmt.Errorf("x11: no ARGB visual for transparent fill")
	}
	conn.SetBackground(s.id, 0)
	return nil
}

// Fill paints the surface with a straight-alpha ARGB color.
func (s *LinuxSurface) Fill(argb uint32) {
	conn := s.window.conn()
	if !conn.HasARGB() {
		argb |= 0xFF000000
	}
	conn.SetBackground(s.id, x11.Premultiply(argb))
}

func (s *LinuxSurface) OnPress(fn func(PointerEvent)) Subscription {
	return s.pressed.Subscribe(fn)
}

func (s *LinuxSurface) OnDrag(fn func(PointerEvent)) Subscription {
	return s.dragged.Subscribe(fn)
}

func (s *LinuxSurface) OnRelease(fn func(PointerEvent)) Subscription {
	return s.released.Subscribe(fn)
}

func (s *LinuxSurface) OnScroll(fn func(ScrollEvent)) Subscription {
	return s.scrolled.Subscribe(fn)
}

// OnZoom never fires on X11: the core protocol has no touchpad gestures.
func (s *LinuxSurface) OnZoom(fn func(ZoomEvent)) Subscription {
	return s.zoomed.Subscribe(fn)
}

func (s *LinuxSurface) OnContextMenu(fn func(ContextMenuEvent)) Subscription {
	return s.contextMenu.Subscribe(fn)
}

func (s *LinuxSurface) listen() {
	xu := s.window.backend.conn.XUtil
	masks := s.window.backend.conn.Modifiers()

	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		mods := modifiersFromState(ev.State, masks)
		switch ev.Detail {
		case buttonPrimary:
			s.pressed.Emit(pointerEvent(ev.EventX, ev.EventY, ev.RootX, ev.RootY, mods))
		case buttonSecondary:
			s.contextMenu.Emit(ContextMenuEvent{ScreenX: float64(ev.RootX), ScreenY: float64(ev.RootY)})
		case buttonWheelUp, buttonWheelDown:
			s.scrolled.Emit(ScrollEvent{
				DeltaY:    wheelDelta(ev.Detail),
				ScreenX:   float64(ev.RootX),
				ScreenY:   float64(ev.RootY),
				Modifiers: mods,
			})
		}
	}).Connect(xu, s.id)
	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		s.dragged.Emit(pointerEvent(ev.EventX, ev.EventY, ev.RootX, ev.RootY, modifiersFromState(ev.State, masks)))
	}).Connect(xu, s.id)
	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if ev.Detail == buttonPrimary {
			s.released.Emit(pointerEvent(ev.EventX, ev.EventY, ev.RootX, ev.RootY, modifiersFromState(ev.State, masks)))
		}
	}).Connect(xu, s.id)
}

func (s *LinuxSurface) destroy() {
	s.window.conn().Destroy(s.id)
}

func pointerEvent(eventX, eventY, rootX, rootY int16, mods Modifier) PointerEvent {
	return PointerEvent{
		SceneX:    float64(eventX),
		SceneY:    float64(eventY),
		ScreenX:   float64(rootX),
		ScreenY:   float64(rootY),
		Modifiers: mods,
	}
}

// wheelDelta maps wheel buttons to a vertical delta, positive away from the
// user.
func wheelDelta(button xproto.Button) float64 {
	switch button {
	case buttonWheelUp:
		return wheelStepPerTick
	case buttonWheelDown:
		return -wheelStepPerTick
	}
	return 0
}

func modifiersFromState(state uint16, masks x11.ModifierMasks) Modifier {
	var mods Modifier
	if masks.Control != 0 && state&masks.Control != 0 {
		mods |= ModControl
	}
	if masks.Shift != 0 && state&masks.Shift != 0 {
		mods |= ModShift
	}
	if masks.Alt != 0 && state&masks.Alt != 0 {
		mods |= ModAlt
	}
	if masks.Super != 0 && state&masks.Super != 0 {
		mods |= ModSuper
	}
	return mods
}

func displayFromOutput(o x11.Output) Display {
	return Display{
		ID:     o.ID,
		Name:   o.Name,
		Bounds: rectFromX11(o.Bounds),
		Usable: rectFromX11(o.Usable),
	}
}

func rectFromX11(r x11.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func containsPoint(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
