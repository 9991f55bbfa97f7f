package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Output is an active randr CRTC. Usable is Bounds minus the edges reserved
// by dock windows, or Bounds itself when no dock overlaps it.
type Output struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Outputs lists the active outputs with their usable areas. Dock struts are
// read once per call and applied to every output.
func (c *Connection) Outputs() ([]Output, error) {
	outputs, err := c.activeOutputs()
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return outputs, nil
	}

	root, struts := c.dockStruts()
	for i := range outputs {
		outputs[i].Usable = usableArea(outputs[i].Bounds, root, struts)
	}
	return outputs, nil
}

func (c *Connection) activeOutputs() ([]Output, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var outputs []Output
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)}
		outputs = append(outputs, Output{ID: i, Name: name, Bounds: bounds, Usable: bounds})
	}
	return outputs, nil
}

// dockStruts returns the root rectangle and the partial struts of every dock
// window. Failures leave the usable area equal to the output bounds.
func (c *Connection) dockStruts() (Rect, []ewmh.WmStrutPartial) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Rect{}, nil
	}
	root := Rect{Width: int(geom.Width), Height: int(geom.Height)}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return root, nil
	}

	var struts []ewmh.WmStrutPartial
	for _, id := range clients {
		if !c.isDock(id) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, id); err == nil {
			struts = append(struts, *sp)
			continue
		}
		// Older docks only set _NET_WM_STRUT.
		if s, err := ewmh.WmStrutGet(c.XUtil, id); err == nil {
			struts = append(struts, fullStrut(s, root))
		}
	}
	return root, struts
}

func (c *Connection) isDock(id xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, id)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// fullStrut widens a plain strut to span the whole root edge.
func fullStrut(s *ewmh.WmStrut, root Rect) ewmh.WmStrutPartial {
	lastX, lastY := uint(max(root.Width-1, 0)), uint(max(root.Height-1, 0))
	return ewmh.WmStrutPartial{
		Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
		LeftEndY: lastY, RightEndY: lastY,
		TopEndX: lastX, BottomEndX: lastX,
	}
}

type insets struct {
	left, right, top, bottom int
}

func (a insets) widest(b insets) insets {
	return insets{
		left:   max(a.left, b.left),
		right:  max(a.right, b.right),
		top:    max(a.top, b.top),
		bottom: max(a.bottom, b.bottom),
	}
}

// reserved is how far sp cuts into each edge of bounds. Struts are in root
// coordinates, so a panel on one output leaves its neighbours alone.
func reserved(bounds, root Rect, sp ewmh.WmStrutPartial) insets {
	var in insets
	if sp.Top > 0 {
		band := Rect{X: int(sp.TopStartX), Y: 0, Width: span(sp.TopStartX, sp.TopEndX), Height: int(sp.Top)}
		in.top = bounds.Intersect(band).Height
	}
	if sp.Bottom > 0 {
		band := Rect{X: int(sp.BottomStartX), Y: root.Height - int(sp.Bottom), Width: span(sp.BottomStartX, sp.BottomEndX), Height: int(sp.Bottom)}
		in.bottom = bounds.Intersect(band).Height
	}
	if sp.Left > 0 {
		band := Rect{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: span(sp.LeftStartY, sp.LeftEndY)}
		in.left = bounds.Intersect(band).Width
	}
	if sp.Right > 0 {
		band := Rect{X: root.Width - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: span(sp.RightStartY, sp.RightEndY)}
		in.right = bounds.Intersect(band).Width
	}
	return in
}

// span converts an inclusive [start, end] strut range to a length.
func span(start, end uint) int {
	return int(end) - int(start) + 1
}

// usableArea shrinks bounds by the widest strut on each edge. The result is
// never smaller than 1x1.
func usableArea(bounds, root Rect, struts []ewmh.WmStrutPartial) Rect {
	var in insets
	for _, sp := range struts {
		in = in.widest(reserved(bounds, root, sp))
	}
	return Rect{
		X:      bounds.X + in.left,
		Y:      bounds.Y + in.top,
		Width:  max(bounds.Width-in.left-in.right, 1),
		Height: max(bounds.Height-in.top-in.bottom, 1),
	}
}
