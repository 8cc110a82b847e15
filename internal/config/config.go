// Package config holds the daemon configuration: split-screen geometry
// constants, the dock policy, the fallback display and the connection to
// the task-lifecycle manager. Configuration is YAML, decoded strictly so
// typos fail loudly instead of silently defaulting.
package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/1broseidon/stackwm/internal/dock"
	"github.com/1broseidon/stackwm/internal/geometry"
)

// InsetsConfig is the stable-inset block for the natural orientation.
type InsetsConfig struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Insets converts the block to geometry insets.
func (c InsetsConfig) Insets() geometry.Insets {
	return geometry.Insets{Top: c.Top, Bottom: c.Bottom, Left: c.Left, Right: c.Right}
}

// DisplayConfig is the fallback display geometry used when no live
// display backend is available.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the effective daemon configuration.
type Config struct {
	// DividerWidth is the split divider thickness in pixels.
	DividerWidth int `yaml:"divider_width"`

	// MinimizeThickness is the strip a fully minimized side-docked stack
	// keeps visible.
	MinimizeThickness int `yaml:"minimize_thickness"`

	// SnapFractions lists the allowed fractional divider positions in
	// addition to the half split, which is always available.
	SnapFractions []float64 `yaml:"snap_fractions"`

	// DockedCreateTopOrLeft selects which side of the divider a newly
	// created docked stack occupies.
	DockedCreateTopOrLeft bool `yaml:"docked_create_top_or_left"`

	// DisallowedSides lists display edges the docked stack may not rest
	// on ("top", "bottom", "left", "right").
	DisallowedSides []string `yaml:"disallowed_dock_sides"`

	// StableInsets are the system decor insets in the natural
	// orientation.
	StableInsets InsetsConfig `yaml:"stable_insets"`

	// Display is the fallback logical display size.
	Display DisplayConfig `yaml:"display"`

	// ManagerSocket is the unix socket of the task-lifecycle manager.
	// Empty disables remote delivery; notifications are logged and
	// dropped.
	ManagerSocket string `yaml:"manager_socket"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DividerWidth:          20,
		MinimizeThickness:     80,
		SnapFractions:         []float64{0.5},
		DockedCreateTopOrLeft: true,
		Display:               DisplayConfig{Width: 1920, Height: 1080},
		LogLevel:              "info",
	}
}

// DisallowedDockSides parses the configured side names. Validate has
// already rejected unknown names.
func (c *Config) DisallowedDockSides() []dock.Side {
	out := make([]dock.Side, 0, len(c.DisallowedSides))
	for _, name := range c.DisallowedSides {
		if side := dock.ParseSide(name); side != dock.SideInvalid {
			out = append(out, side)
		}
	}
	return out
}

// SlogLevel maps the configured log level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidationError describes a rejected configuration value with the YAML
// path that holds it.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Message)
}

// Validate checks the configuration for values the engine cannot work
// with. The first offending field is reported.
func (c *Config) Validate() error {
	if c.DividerWidth <= 0 {
		return &ValidationError{Path: "divider_width", Message: "must be positive"}
	}
	if c.MinimizeThickness <= 0 {
		return &ValidationError{Path: "minimize_thickness", Message: "must be positive"}
	}
	for i, f := range c.SnapFractions {
		if f <= 0 || f >= 1 {
			return &ValidationError{
				Path:    fmt.Sprintf("snap_fractions[%d]", i),
				Message: fmt.Sprintf("fraction %v outside (0, 1)", f),
			}
		}
	}
	if !sort.Float64sAreSorted(c.SnapFractions) {
		return &ValidationError{Path: "snap_fractions", Message: "must be sorted ascending"}
	}
	for i, name := range c.DisallowedSides {
		if dock.ParseSide(name) == dock.SideInvalid {
			return &ValidationError{
				Path:    fmt.Sprintf("disallowed_dock_sides[%d]", i),
				Message: fmt.Sprintf("unknown side %q", name),
			}
		}
	}
	if len(c.DisallowedSides) >= 4 {
		return &ValidationError{Path: "disallowed_dock_sides", Message: "cannot disallow every side"}
	}
	if in := c.StableInsets; in.Top < 0 || in.Bottom < 0 || in.Left < 0 || in.Right < 0 {
		return &ValidationError{Path: "stable_insets", Message: "insets cannot be negative"}
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return &ValidationError{Path: "display", Message: "width and height must be positive"}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Path:    "log_level",
			Message: fmt.Sprintf("unknown level %q (debug, info, warn, error)", c.LogLevel),
		}
	}
	return nil
}
