package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// Visual used for windows with a per-pixel alpha channel. Zero when the
	// server offers no 32-bit TrueColor visual.
	argbVisual   xproto.Visualid
	argbColormap xproto.Colormap

	mods ModifierMasks
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Keyboard mapping is needed to resolve which ModN bits carry Alt and Super.
	keybind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	c.mods = resolveModifierMasks(xu)
	if err := c.initARGB(); err != nil {
		// Windows fall back to the root visual and lose transparency.
		c.argbVisual = 0
	}
	return c, nil
}

// HasARGB reports whether windows can be created with an alpha channel.
func (c *Connection) HasARGB() bool {
	return c.argbVisual != 0
}

// Modifiers returns the resolved modifier masks for this server.
func (c *Connection) Modifiers() ModifierMasks {
	return c.mods
}

func (c *Connection) initARGB() error {
	screen := c.XUtil.Screen()
	var visual xproto.Visualid
	for _, depth := range screen.AllowedDepths {
		if depth.Depth != 32 {
			continue
		}
		for _, v := range depth.Visuals {
			if v.Class == xproto.VisualClassTrueColor {
				visual = v.VisualId
				break
			}
		}
		if visual != 0 {
			break
		}
	}
	if visual == 0 {
		return fmt.Errorf("no 32-bit TrueColor visual")
	}

	cmap, err := xproto.NewColormapId(c.XUtil.Conn())
	if err != nil {
		return err
	}
	err = xproto.CreateColormapChecked(c.XUtil.Conn(), xproto.ColormapAllocNone, cmap, c.Root, visual).Check()
	if err != nil {
		return fmt.Errorf("failed to create ARGB colormap: %w", err)
	}
	c.argbVisual = visual
	c.argbColormap = cmap
	return nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit makes EventLoop return after the current event.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
