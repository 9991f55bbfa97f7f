// Package geometry saves and restores a window's position and size.
package geometry

import (
	"fmt"

	"github.com/1broseidon/tinygadget/internal/platform"
	"github.com/1broseidon/tinygadget/internal/prefs"
)

// Keys under which a record is stored.
const (
	KeyX      = "stageX"
	KeyY      = "stageY"
	KeyWidth  = "stageWidth"
	KeyHeight = "stageHeight"
)

// Default is the placement used on first run and when a saved record no
// longer lands on any display.
var Default = Record{X: 0, Y: 0, Width: 320, Height: 200}

// Record is a persisted window geometry in whole units.
type Record struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RecordOf truncates b to whole units.
func RecordOf(b platform.Bounds) Record {
	r := b.Rect()
	return Record{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Bounds converts r for use with platform.Window.
func (r Record) Bounds() platform.Bounds {
	return platform.Bounds{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

// Rect converts r to screen coordinates.
func (r Record) Rect() platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Load reads a record, defaulting each missing field individually.
func Load(store prefs.Store) (Record, error) {
	var r Record
	fields := []struct {
		key string
		def int
		dst *int
	}{
		{KeyX, Default.X, &r.X},
		{KeyY, Default.Y, &r.Y},
		{KeyWidth, Default.Width, &r.Width},
		{KeyHeight, Default.Height, &r.Height},
	}
	for _, f := range fields {
		v, err := store.GetInt(f.key, f.def)
		if err != nil {
			return Record{}, fmt.Errorf("failed to load %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return r, nil
}

// Store writes r.
func Store(store prefs.Store, r Record) error {
	for _, kv := range []struct {
		key string
		v   int
	}{
		{KeyX, r.X},
		{KeyY, r.Y},
		{KeyWidth, r.Width},
		{KeyHeight, r.Height},
	} {
		if err := store.PutInt(kv.key, kv.v); err != nil {
			return fmt.Errorf("failed to save %s: %w", kv.key, err)
		}
	}
	return nil
}

// Save writes the window's current geometry.
func Save(window platform.Window, store prefs.Store) (Record, error) {
	r := RecordOf(window.Bounds())
	return r, Store(store, r)
}

// OnAnyDisplay reports whether r overlaps at least one display.
func OnAnyDisplay(r Record, displays []platform.Display) bool {
	rect := r.Rect()
	for _, d := range displays {
		if rect.Intersects(d.Bounds) {
			return true
		}
	}
	return false
}

// Resolve loads a record and replaces it with Default when no display
// overlaps it.
func Resolve(store prefs.Store, screens platform.Screens) (Record, error) {
	r, err := Load(store)
	if err != nil {
		return Record{}, err
	}
	displays, err := screens.Displays()
	if err != nil {
		return Record{}, fmt.Errorf("failed to list displays: %w", err)
	}
	if !OnAnyDisplay(r, displays) {
		return Default, nil
	}
	return r, nil
}

// Restore applies the resolved record to window, including on first run.
func Restore(window platform.Window, store prefs.Store, screens platform.Screens) (Record, error) {
	r, err := Resolve(store, screens)
	if err != nil {
		return Record{}, err
	}
	if err := window.SetBounds(r.Bounds()); err != nil {
		return Record{}, fmt.Errorf("failed to apply geometry: %w", err)
	}
	return r, nil
}
