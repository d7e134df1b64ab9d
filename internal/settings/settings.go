package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// UI-enforced ranges for the highlighter bar
const (
	MinWidth  = 10
	MaxWidth  = 10000
	MinHeight = 2
	MaxHeight = 1000
	MinAlpha  = 0.05
	MaxAlpha  = 1.0

	DefaultAbortKey = "esc"
)

// Color is an opaque RGB color; transparency lives in Settings.Alpha
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Settings holds the highlighter bar preferences
type Settings struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Alpha    float64 `json:"alpha"`
	Color    Color   `json:"color"`
	AbortKey string  `json:"abort_key"`
}

// Default returns the built-in preferences used when nothing is persisted
func Default() Settings {
	return Settings{
		Width:    800,
		Height:   30,
		Alpha:    0.3,
		Color:    Color{R: 255, G: 255, B: 0},
		AbortKey: DefaultAbortKey,
	}
}

// Normalized clamps every field into its valid range and canonicalizes the
// abort key. Values coming from the settings surface or from disk always pass
// through here before use.
func (s Settings) Normalized() Settings {
	if s.Width < MinWidth {
		s.Width = MinWidth
	}
	if s.Width > MaxWidth {
		s.Width = MaxWidth
	}
	if s.Height < MinHeight {
		s.Height = MinHeight
	}
	if s.Height > MaxHeight {
		s.Height = MaxHeight
	}
	if s.Alpha < MinAlpha {
		s.Alpha = MinAlpha
	}
	if s.Alpha > MaxAlpha {
		s.Alpha = MaxAlpha
	}
	key := strings.ToLower(strings.TrimSpace(s.AbortKey))
	if key == "" {
		key = DefaultAbortKey
	}
	s.AbortKey = key
	return s
}

// ParseHexColor parses a "#rrggbb" string
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("color %q is not in #rrggbb form", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q is not in #rrggbb form: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex renders the color as "#rrggbb"
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA renders the color as a CSS rgba() value with the given fill opacity
func (c Color) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, alpha)
}
