// Package input turns surface pointer, wheel and pinch events into window
// moves and resizes.
package input

import (
	"log/slog"

	"github.com/1broseidon/tinygadget/internal/logging"
	"github.com/1broseidon/tinygadget/internal/platform"
)

// Behaviors moves a window by dragging its surface and resizes it with
// modifier+wheel or pinch gestures.
type Behaviors struct {
	window       platform.Window
	zoomModifier platform.Modifier
	drag         DragSession
	logger       *slog.Logger
}

// New returns behaviors acting on window. A zero zoomModifier means Control.
func New(window platform.Window, zoomModifier platform.Modifier, logger *slog.Logger) *Behaviors {
	if zoomModifier == 0 {
		zoomModifier = platform.ModControl
	}
	return &Behaviors{
		window:       window,
		zoomModifier: zoomModifier,
		logger:       logging.Ensure(logger),
	}
}

// Bind subscribes to s and returns the subscriptions; cancelling them
// detaches the behaviors from s.
func (b *Behaviors) Bind(s platform.Surface) []platform.Subscription {
	return []platform.Subscription{
		s.OnPress(b.drag.Press),
		s.OnDrag(b.onDrag),
		s.OnRelease(func(platform.PointerEvent) { b.drag.Release() }),
		s.OnScroll(b.onScroll),
		s.OnZoom(func(ev platform.ZoomEvent) { b.Zoom(ev.Factor) }),
	}
}

func (b *Behaviors) onDrag(ev platform.PointerEvent) {
	x, y, ok := b.drag.Drag(ev)
	if !ok {
		return
	}
	if err := b.window.SetPosition(x, y); err != nil {
		b.logger.Warn("failed to move window", "x", x, "y", y, "error", err)
	}
}

func (b *Behaviors) onScroll(ev platform.ScrollEvent) {
	if !ev.Modifiers.Has(b.zoomModifier) {
		return
	}
	b.Zoom(ScrollFactor(ev.DeltaY))
}

// Zoom resizes the window by factor around its center.
func (b *Behaviors) Zoom(factor float64) {
	next := Zoom(b.window.Bounds(), factor)
	if err := b.window.SetBounds(next); err != nil {
		b.logger.Warn("failed to resize window", "factor", factor, "error", err)
		return
	}
	b.logger.Debug("window zoomed", "factor", factor, "width", next.Width, "height", next.Height)
}
