package x11

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

var errNoFont = errors.New("x11: no usable core font")

// Popup colors
const (
	ColorMenuText      = 0xf5f7fa
	ColorMenuBg        = 0x1f2933
	ColorMenuHighlight = 0x3498db
)

const (
	menuPaddingX   = 12
	menuPaddingY   = 4
	menuLineHeight = 20
	menuCharWidth  = 7
	menuMinWidth   = 96
)

// fontNames are tried in order. The first covers Unicode so localized labels
// render; the rest are the classic core fonts every server ships.
var fontNames = []string{
	"-misc-fixed-medium-r-normal--13-120-75-75-c-70-iso10646-1",
	"fixed",
	"9x15",
	"6x13",
}

// Popup is an override-redirect menu window. It grabs the pointer while
// open so a click anywhere else dismisses it.
type Popup struct {
	conn   *Connection
	window xproto.Window
	gc     xproto.Gcontext
	font   xproto.Font

	labels   []string
	width    int
	selected int
	onChoose func(index int)
	open     bool
}

// ShowPopup opens a menu with labels at the root position (x, y), clamped to
// bounds. onChoose runs with the chosen index after the popup is gone, or
// not at all if the menu is dismissed.
func (c *Connection) ShowPopup(labels []string, x, y int, bounds Rect, onChoose func(index int)) (*Popup, error) {
	p := &Popup{conn: c, labels: labels, selected: -1, onChoose: onChoose}
	if err := p.create(); err != nil {
		p.destroy()
		return nil, err
	}

	width, height := menuDimensions(labels)
	p.width = width
	x, y = clampMenuOrigin(x, y, bounds, width, height)

	conn := c.XUtil.Conn()
	xproto.ConfigureWindow(
		conn,
		p.window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(x),
			uint32(y),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove,
		},
	)

	xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			p.draw()
		}
	}).Connect(c.XUtil, p.window)
	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		p.highlight(p.indexAt(int(ev.EventX), int(ev.EventY)))
	}).Connect(c.XUtil, p.window)
	// Owner events are off, so coordinates are relative to the popup even
	// when the pointer is outside it. The release of the button that opened
	// the menu lands on the popup edge and selects nothing.
	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if index := p.indexAt(int(ev.EventX), int(ev.EventY)); index >= 0 {
			p.choose(index)
		}
	}).Connect(c.XUtil, p.window)
	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		x, y := int(ev.EventX), int(ev.EventY)
		if x < 0 || y < 0 || x >= width || y >= height {
			p.dismiss()
		}
	}).Connect(c.XUtil, p.window)

	xproto.MapWindow(conn, p.window)
	p.open = true

	// Without the grab the menu still works but outside clicks do not
	// dismiss it.
	xproto.GrabPointer(
		conn, false, p.window,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, xproto.TimeCurrentTime,
	)
	return p, nil
}

// Close dismisses the popup without choosing anything.
func (p *Popup) Close() {
	p.dismiss()
}

func (p *Popup) choose(index int) {
	onChoose := p.onChoose
	p.dismiss()
	if index >= 0 && onChoose != nil {
		onChoose(index)
	}
}

func (p *Popup) dismiss() {
	if !p.open {
		return
	}
	p.open = false
	xproto.UngrabPointer(p.conn.XUtil.Conn(), xproto.TimeCurrentTime)
	p.destroy()
}

func (p *Popup) create() error {
	conn := p.conn.XUtil.Conn()
	screen := p.conn.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return err
	}
	// Value list order follows the bit positions of the mask (low to high).
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		p.conn.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{
			ColorMenuBg,
			1,
			xproto.EventMaskExposure | xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion,
		},
	).Check()
	if err != nil {
		return err
	}
	p.window = wid

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return err
	}
	opened := false
	for _, name := range fontNames {
		if xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		return errNoFont
	}
	p.font = font

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return err
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(p.window),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{ColorMenuText, ColorMenuBg, uint32(font), 0},
	).Check()
	if err != nil {
		return err
	}
	p.gc = gc
	return nil
}

func (p *Popup) destroy() {
	conn := p.conn.XUtil.Conn()
	if p.gc != 0 {
		xproto.FreeGC(conn, p.gc)
	}
	if p.font != 0 {
		xproto.CloseFont(conn, p.font)
	}
	if p.window != 0 {
		xevent.Detach(p.conn.XUtil, p.window)
		xproto.DestroyWindow(conn, p.window)
	}
	p.window, p.gc, p.font = 0, 0, 0
}

func (p *Popup) highlight(index int) {
	if index == p.selected {
		return
	}
	p.selected = index
	p.draw()
}

func (p *Popup) draw() {
	if p.window == 0 {
		return
	}
	conn := p.conn.XUtil.Conn()
	xproto.ClearArea(conn, false, p.window, 0, 0, 0, 0)

	for i, label := range p.labels {
		top := menuPaddingY + i*menuLineHeight
		fg, bg := uint32(ColorMenuText), uint32(ColorMenuBg)
		if i == p.selected {
			bg = ColorMenuHighlight
			xproto.ChangeGC(conn, p.gc, xproto.GcForeground, []uint32{bg})
			xproto.PolyFillRectangle(conn, xproto.Drawable(p.window), p.gc, []xproto.Rectangle{{
				X: 0, Y: int16(top), Width: uint16(p.width), Height: menuLineHeight,
			}})
		}
		xproto.ChangeGC(conn, p.gc, xproto.GcForeground|xproto.GcBackground, []uint32{fg, bg})

		chars := toChar2b(label)
		xproto.ImageText16(
			conn,
			byte(len(chars)),
			xproto.Drawable(p.window),
			p.gc,
			int16(menuPaddingX),
			int16(top+menuLineHeight-6),
			chars,
		)
	}
}

func (p *Popup) indexAt(x, y int) int {
	return menuIndexAt(x, y, p.width, len(p.labels))
}

// toChar2b converts s to big-endian UCS-2 for ImageText16, dropping runes
// outside the BMP and truncating to the request limit.
func toChar2b(s string) []xproto.Char2b {
	out := make([]xproto.Char2b, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			continue
		}
		out = append(out, xproto.Char2b{Byte1: byte(r >> 8), Byte2: byte(r)})
		if len(out) == 255 {
			break
		}
	}
	return out
}

func menuDimensions(labels []string) (width, height int) {
	maxChars := 0
	for _, label := range labels {
		if n := len([]rune(label)); n > maxChars {
			maxChars = n
		}
	}
	width = maxChars*menuCharWidth + 2*menuPaddingX
	if width < menuMinWidth {
		width = menuMinWidth
	}
	height = len(labels)*menuLineHeight + 2*menuPaddingY
	return width, height
}

// menuIndexAt maps a point in popup coordinates to an item, or -1.
func menuIndexAt(x, y, width, count int) int {
	if x < 0 || x >= width || y < menuPaddingY {
		return -1
	}
	index := (y - menuPaddingY) / menuLineHeight
	if index >= count {
		return -1
	}
	return index
}

// clampMenuOrigin keeps a width x height menu opened at (x, y) inside bounds.
// Menus that do not fit open up or left of the pointer, like toolkit menus.
func clampMenuOrigin(x, y int, bounds Rect, width, height int) (int, int) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return x, y
	}
	if x+width > bounds.X+bounds.Width {
		x -= width
	}
	if y+height > bounds.Y+bounds.Height {
		y -= height
	}
	if x < bounds.X {
		x = bounds.X
	}
	if y < bounds.Y {
		y = bounds.Y
	}
	return x, y
}
