// Package menu binds the gadget's context menu.
package menu

import (
	"log/slog"

	"github.com/1broseidon/tinygadget/internal/logging"
	"github.com/1broseidon/tinygadget/internal/platform"
)

// DefaultCloseLabel is used when no localized label is configured.
const DefaultCloseLabel = "Close"

// CloseMenu shows a single "Close" item at the pointer on secondary
// activation. Choosing it asks the window to close through the normal
// close-request path.
type CloseMenu struct {
	window platform.Window
	label  string
	logger *slog.Logger
}

// New returns a close menu for window. An empty label means DefaultCloseLabel.
func New(window platform.Window, label string, logger *slog.Logger) *CloseMenu {
	if label == "" {
		label = DefaultCloseLabel
	}
	return &CloseMenu{window: window, label: label, logger: logging.Ensure(logger)}
}

// Items returns the menu entries.
func (m *CloseMenu) Items() []platform.MenuItem {
	return []platform.MenuItem{{Label: m.label, Action: m.requestClose}}
}

// Bind subscribes to secondary activation on s.
func (m *CloseMenu) Bind(s platform.Surface) []platform.Subscription {
	return []platform.Subscription{
		s.OnContextMenu(func(ev platform.ContextMenuEvent) {
			if err := m.window.ShowMenu(m.Items(), ev.ScreenX, ev.ScreenY); err != nil {
				m.logger.Warn("failed to show context menu", "error", err)
			}
		}),
	}
}

func (m *CloseMenu) requestClose() {
	m.logger.Debug("close requested from context menu", "window", m.window.ID())
	if err := m.window.RequestClose(); err != nil {
		m.logger.Warn("close request failed", "error", err)
	}
}
