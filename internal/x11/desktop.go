package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// AllDesktops is the _NET_WM_DESKTOP value for windows shown on every
// virtual desktop.
const AllDesktops = 0xFFFFFFFF

// SetWindowDesktop moves a mapped window to the specified virtual desktop.
// Sends a _NET_WM_DESKTOP client message to the root window as EWMH requires.
// We build the message manually because the xgbutil ewmh.WmDesktopReq
// helper panics on this library version (uint vs int type assertion).
func (c *Connection) SetWindowDesktop(windowID xproto.Window, desktop uint32) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_WM_DESKTOP")), "_NET_WM_DESKTOP").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_WM_DESKTOP: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{desktop, sourceIndication, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// MakeSticky shows a window on every desktop. Before mapping, the property
// is written directly; afterwards the window manager must be asked.
func (c *Connection) MakeSticky(windowID xproto.Window, mapped bool) error {
	if mapped {
		return c.SetWindowDesktop(windowID, AllDesktops)
	}
	return ewmh.WmDesktopSet(c.XUtil, windowID, AllDesktops)
}
