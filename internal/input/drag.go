package input

import "github.com/1broseidon/tinygadget/internal/platform"

// DragSession tracks the pointer offset inside the window between a press
// and the drags that follow it. Each press overwrites the previous origin.
type DragSession struct {
	originX  float64
	originY  float64
	dragging bool
}

// Press records the surface-local pointer position as the drag origin.
func (d *DragSession) Press(ev platform.PointerEvent) {
	d.originX = ev.SceneX
	d.originY = ev.SceneY
	d.dragging = true
}

// Drag returns the window position that keeps the origin under the pointer.
// ok is false when no press is in progress.
func (d *DragSession) Drag(ev platform.PointerEvent) (x, y float64, ok bool) {
	if !d.dragging {
		return 0, 0, false
	}
	return ev.ScreenX - d.originX, ev.ScreenY - d.originY, true
}

// Release ends the drag.
func (d *DragSession) Release() {
	d.dragging = false
}

