package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tinygadget/internal/logging"
	"github.com/1broseidon/tinygadget/internal/platform"
	"github.com/1broseidon/tinygadget/internal/prefs"
	"github.com/1broseidon/tinygadget/internal/style"
)

// StoreKind selects the preference backend.
type StoreKind string

const (
	StoreFile   StoreKind = "file"   // One YAML file per namespace.
	StoreSQLite StoreKind = "sqlite" // Shared SQLite database.
)

// Config is the gadget configuration.
type Config struct {
	// Namespace keys stored geometry. Two gadgets sharing a namespace share
	// a geometry record.
	Namespace     string    `yaml:"namespace"`
	Title         string    `yaml:"title"`
	TaskbarHidden bool      `yaml:"taskbar_hidden"`
	Persist       bool      `yaml:"persist"`
	Store         StoreKind `yaml:"store"`
	ZoomModifier  string    `yaml:"zoom_modifier"`
	CloseLabel    string    `yaml:"close_label"`
	Sticky        bool      `yaml:"sticky"`
	LogLevel      string    `yaml:"log_level"`
	// Background is the demo surface color as #AARRGGBB or #RRGGBB.
	Background string `yaml:"background"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Namespace:    "tinygadget",
		Title:        "tinygadget",
		Persist:      true,
		Store:        StoreFile,
		ZoomModifier: "control",
		CloseLabel:   "Close",
		LogLevel:     "info",
		Background:   "#c01f2933",
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if err := prefs.ValidateNamespace(c.Namespace); err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("store: must be %q or %q, got %q", StoreFile, StoreSQLite, c.Store)
	}
	if _, err := ParseModifier(c.ZoomModifier); err != nil {
		return fmt.Errorf("zoom_modifier: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	return nil
}

// Mode returns the presentation mode for the gadget window.
func (c *Config) Mode() style.Mode {
	if c.TaskbarHidden {
		return style.ModeTaskbarHidden
	}
	return style.ModeVisible
}

// Modifier returns the parsed zoom modifier. Call Validate first.
func (c *Config) Modifier() platform.Modifier {
	m, _ := ParseModifier(c.ZoomModifier)
	return m
}

// ParseModifier maps a modifier name to a platform.Modifier.
func ParseModifier(name string) (platform.Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "control", "ctrl":
		return platform.ModControl, nil
	case "shift":
		return platform.ModShift, nil
	case "alt":
		return platform.ModAlt, nil
	case "super", "meta":
		return platform.ModSuper, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", name)
}

// ParseColor parses #AARRGGBB or #RRGGBB into a straight-alpha ARGB value.
// Six-digit colors are opaque.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("expected #RRGGBB or #AARRGGBB, got %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}
