package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Rect is a window rectangle in root coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

const (
	topLevelEvents = xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange
	surfaceEvents  = xproto.EventMaskExposure | xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease | xproto.EventMaskButton1Motion
)

// CreateTopLevel creates an unmapped top-level window. It uses the ARGB
// visual when available so content can be transparent.
func (c *Connection) CreateTopLevel(r Rect) (xproto.Window, error) {
	return c.createWindow(c.Root, r, topLevelEvents)
}

// CreateSurface creates a child window covering parent that receives pointer
// input.
func (c *Connection) CreateSurface(parent xproto.Window, width, height int) (xproto.Window, error) {
	return c.createWindow(parent, Rect{Width: width, Height: height}, surfaceEvents)
}

func (c *Connection) createWindow(parent xproto.Window, r Rect, events uint32) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	x, y := clampCoord(r.X), clampCoord(r.Y)
	w, h := clampSize(r.Width), clampSize(r.Height)

	if c.HasARGB() {
		// A depth that differs from the parent needs an explicit border
		// pixel and colormap. Values follow mask bit order.
		err = xproto.CreateWindowChecked(
			conn, 32, wid, parent,
			x, y, w, h, 0,
			xproto.WindowClassInputOutput,
			c.argbVisual,
			xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask|xproto.CwColormap,
			[]uint32{0, 0, events, uint32(c.argbColormap)},
		).Check()
	} else {
		err = xproto.CreateWindowChecked(
			conn, screen.RootDepth, wid, parent,
			x, y, w, h, 0,
			xproto.WindowClassInputOutput,
			screen.RootVisual,
			xproto.CwBackPixel|xproto.CwEventMask,
			[]uint32{screen.BlackPixel, events},
		).Check()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}
	return wid, nil
}

// SetTitle sets both the EWMH and ICCCM window names and the WM_CLASS.
func (c *Connection) SetTitle(windowID xproto.Window, title string) error {
	if err := ewmh.WmNameSet(c.XUtil, windowID, title); err != nil {
		return err
	}
	if err := icccm.WmNameSet(c.XUtil, windowID, title); err != nil {
		return err
	}
	return icccm.WmClassSet(c.XUtil, windowID, &icccm.WmClass{Instance: "tinygadget", Class: "Tinygadget"})
}

// EnableDeleteProtocol opts the window into WM_DELETE_WINDOW so close
// requests arrive as client messages instead of killing the connection.
func (c *Connection) EnableDeleteProtocol(windowID xproto.Window) error {
	return icccm.WmProtocolsSet(c.XUtil, windowID, []string{"WM_DELETE_WINDOW"})
}

// SetUndecorated asks the window manager to draw no frame or title bar.
func (c *Connection) SetUndecorated(windowID xproto.Window) error {
	return motif.WmHintsSet(c.XUtil, windowID, &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	})
}

// SetWindowType replaces _NET_WM_WINDOW_TYPE.
func (c *Connection) SetWindowType(windowID xproto.Window, types ...string) error {
	return ewmh.WmWindowTypeSet(c.XUtil, windowID, types)
}

// SetInitialState replaces _NET_WM_STATE. Only honored before the window
// is mapped.
func (c *Connection) SetInitialState(windowID xproto.Window, states ...string) error {
	return ewmh.WmStateSet(c.XUtil, windowID, states)
}

// SetTransientFor marks windowID as owned by owner.
func (c *Connection) SetTransientFor(windowID, owner xproto.Window) error {
	return icccm.WmTransientForSet(c.XUtil, windowID, owner)
}

// SetOpacity sets _NET_WM_WINDOW_OPACITY, clamped to [0,1].
func (c *Connection) SetOpacity(windowID xproto.Window, opacity float64) error {
	if math.IsNaN(opacity) {
		opacity = 1
	}
	opacity = math.Max(0, math.Min(1, opacity))
	return ewmh.WmWindowOpacitySet(c.XUtil, windowID, opacity)
}

// SetBackground sets the background pixel and repaints it. For ARGB windows
// the pixel is premultiplied alpha.
func (c *Connection) SetBackground(windowID xproto.Window, pixel uint32) {
	conn := c.XUtil.Conn()
	xproto.ChangeWindowAttributes(conn, windowID, xproto.CwBackPixel, []uint32{pixel})
	xproto.ClearArea(conn, false, windowID, 0, 0, 0, 0)
}

// Map shows the window.
func (c *Connection) Map(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Map()
}

// Destroy destroys the window and detaches its event handlers.
func (c *Connection) Destroy(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Destroy()
}

// MoveResizeWindow moves and resizes a window, clamping to protocol limits.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	x, y = int(clampCoord(x)), int(clampCoord(y))
	width, height = int(clampSize(width)), int(clampSize(height))

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// ResizeChild resizes a child window without involving the window manager.
func (c *Connection) ResizeChild(windowID xproto.Window, width, height int) {
	xproto.ConfigureWindow(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(clampSize(width)), uint32(clampSize(height))},
	)
}

// WindowRect returns the window's rectangle in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Rect{}, err
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// RequestClose sends WM_DELETE_WINDOW to the window itself, as a window
// manager close button would.
func (c *Connection) RequestClose(windowID xproto.Window) error {
	conn := c.XUtil.Conn()

	deleteReply, err := xproto.InternAtom(conn, false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return err
	}
	protocolsReply, err := xproto.InternAtom(conn, false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocolsReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteReply.Atom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		conn,
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// clampCoord keeps a coordinate inside the protocol's INT16 range.
func clampCoord(v int) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// clampSize keeps a dimension inside [1, CARD16]. X has no zero-sized windows.
func clampSize(v int) uint16 {
	if v < 1 {
		return 1
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

// Premultiply converts a straight-alpha ARGB color to the premultiplied form
// compositors expect in 32-bit visuals.
func Premultiply(argb uint32) uint32 {
	a := argb >> 24
	r := (argb >> 16 & 0xff) * a / 0xff
	g := (argb >> 8 & 0xff) * a / 0xff
	b := (argb & 0xff) * a / 0xff
	return a<<24 | r<<16 | g<<8 | b
}
