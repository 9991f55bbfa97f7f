// Package gadget attaches desktop-gadget behaviors to a host window: a
// borderless transparent style, drag-to-move, modifier+wheel and pinch
// resizing, a close context menu, and optional geometry persistence.
//
// All methods and callbacks run on the host's event-dispatch goroutine.
package gadget

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tinygadget/internal/geometry"
	"github.com/1broseidon/tinygadget/internal/input"
	"github.com/1broseidon/tinygadget/internal/logging"
	"github.com/1broseidon/tinygadget/internal/menu"
	"github.com/1broseidon/tinygadget/internal/platform"
	"github.com/1broseidon/tinygadget/internal/prefs"
	"github.com/1broseidon/tinygadget/internal/style"
)

var (
	// ErrNilWindow is returned when Attach is given no window.
	ErrNilWindow = errors.New("gadget: window is nil")
	// ErrNoScreens is returned when persistence is requested without a way
	// to enumerate displays.
	ErrNoScreens = errors.New("gadget: persistence requires screens")
)

// Options configures Attach.
type Options struct {
	// Mode selects the visible or task-switcher-hidden presentation.
	Mode style.Mode
	// Store enables geometry persistence when non-nil.
	Store prefs.Store
	// Screens validates restored geometry. Required when Store is set.
	Screens platform.Screens
	// ZoomModifier must be held for wheel zoom. Zero means Control.
	ZoomModifier platform.Modifier
	// CloseLabel is the context menu label. Empty means "Close".
	CloseLabel string
	Logger     *slog.Logger
}

// Gadget is a window with gadget behaviors attached.
type Gadget struct {
	window  platform.Window
	logger  *slog.Logger
	input   *input.Behaviors
	menu    *menu.CloseMenu
	persist *persistence

	surface   platform.Surface
	binding   []platform.Subscription
	lifecycle []platform.Subscription
	binds     int
}

// Attach styles window according to opts.Mode and attaches the behaviors to
// its current surface, or to the first surface it gets. In
// style.ModeTaskbarHidden the behaviors go to a new secondary window; use
// Window to get it.
func Attach(window platform.Window, opts Options) (*Gadget, error) {
	if window == nil {
		return nil, ErrNilWindow
	}
	if opts.Store != nil && opts.Screens == nil {
		return nil, ErrNoScreens
	}
	logger := logging.Ensure(opts.Logger).With("component", "gadget", "mode", opts.Mode.String())

	target, err := style.ForMode(opts.Mode).Apply(window)
	if err != nil {
		return nil, fmt.Errorf("failed to style window: %w", err)
	}

	g := &Gadget{
		window: target,
		logger: logger,
		input:  input.New(target, opts.ZoomModifier, logger),
		menu:   menu.New(target, opts.CloseLabel, logger),
	}
	if opts.Store != nil {
		g.persist = &persistence{
			window:  target,
			store:   opts.Store,
			screens: opts.Screens,
			logger:  logger,
		}
	}

	g.lifecycle = append(g.lifecycle, target.OnSurfaceChange(g.onSurfaceChange))
	if s := target.Surface(); s != nil {
		if err := g.bind(s); err != nil {
			g.Detach()
			return nil, err
		}
	} else {
		logger.Debug("no surface yet, deferring behavior attachment")
	}
	return g, nil
}

// Window returns the window that carries content.
func (g *Gadget) Window() platform.Window {
	return g.window
}

// Surface returns the surface the behaviors are bound to, or nil.
func (g *Gadget) Surface() platform.Surface {
	return g.surface
}

// Detach removes every behavior and lifecycle hook. The window keeps its
// style.
func (g *Gadget) Detach() {
	platform.CancelAll(g.binding)
	platform.CancelAll(g.lifecycle)
	g.binding = nil
	g.lifecycle = nil
	g.surface = nil
	if g.persist != nil {
		g.persist.stop()
	}
}

func (g *Gadget) onSurfaceChange(c platform.SurfaceChange) {
	if c.New == nil {
		g.unbind()
		return
	}
	if c.New == g.surface {
		return
	}
	if err := g.bind(c.New); err != nil {
		g.logger.Error("failed to attach behaviors to new surface", "error", err)
	}
}

func (g *Gadget) unbind() {
	platform.CancelAll(g.binding)
	g.binding = nil
	g.surface = nil
}

func (g *Gadget) bind(s platform.Surface) error {
	g.unbind()
	if err := s.SetTransparentFill(); err != nil {
		g.logger.Warn("failed to clear surface fill", "error", err)
	}
	g.binding = append(g.input.Bind(s), g.menu.Bind(s)...)
	g.surface = s
	g.binds++
	g.logger.Debug("behaviors attached", "surface_binds", g.binds)

	if g.binds == 1 && g.persist != nil {
		return g.persist.start()
	}
	return nil
}

// persistence restores geometry once and saves it when the window closes.
type persistence struct {
	window  platform.Window
	store   prefs.Store
	screens platform.Screens
	logger  *slog.Logger

	sub   platform.Subscription
	saved bool
}

func (p *persistence) start() error {
	p.sub = p.window.OnVisibilityChange(p.onVisibilityChange)
	r, err := geometry.Restore(p.window, p.store, p.screens)
	if err != nil {
		return fmt.Errorf("failed to restore geometry: %w", err)
	}
	p.logger.Info("geometry restored", "x", r.X, "y", r.Y, "width", r.Width, "height", r.Height)
	return nil
}

func (p *persistence) stop() {
	if p.sub != nil {
		p.sub.Cancel()
		p.sub = nil
	}
}

func (p *persistence) onVisibilityChange(c platform.VisibilityChange) {
	if p.saved || c.Old != platform.Showing || c.New != platform.Closed {
		return
	}
	p.saved = true
	r, err := geometry.Save(p.window, p.store)
	if err != nil {
		p.logger.Error("failed to save geometry", "error", err)
		return
	}
	p.logger.Info("geometry saved", "x", r.X, "y", r.Y, "width", r.Width, "height", r.Height)
}
