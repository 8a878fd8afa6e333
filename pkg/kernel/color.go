package kernel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB value (0xRRGGBB).
//
// In JSON a Color is written as a number. It can be read from a number or
// from a "#rgb" / "#rrggbb" string.
type Color uint32

// Common colors.
const (
	Black Color = 0x000000
	White Color = 0xffffff
	Red   Color = 0xff0000
)

// RGB returns the channels in the range [0, 1].
func (c Color) RGB() (r, g, b float64) {
	return float64(c>>16&0xff) / 255, float64(c>>8&0xff) / 255, float64(c&0xff) / 255
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

func (c Color) String() string { return c.Hex() }

// ParseColor parses "#rgb", "#rrggbb", "0xrrggbb" or a decimal integer.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color(v), nil
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil || v > 0xffffff {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		return Color(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v > 0xffffff {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	return Color(v), nil
}

// ColorFromValue converts a decoded JSON value (float64 or string) to a Color.
func ColorFromValue(v any) (Color, error) {
	switch x := v.(type) {
	case float64:
		if x < 0 || x > 0xffffff || x != float64(uint32(x)) {
			return 0, fmt.Errorf("invalid color %v", x)
		}
		return Color(uint32(x)), nil
	case int:
		if x < 0 || x > 0xffffff {
			return 0, fmt.Errorf("invalid color %d", x)
		}
		return Color(x), nil
	case int64:
		if x < 0 || x > 0xffffff {
			return 0, fmt.Errorf("invalid color %d", x)
		}
		return Color(x), nil
	case Color:
		return x, nil
	case string:
		return ParseColor(x)
	}
	return 0, fmt.Errorf("invalid color %v (%T)", v, v)
}

// MarshalJSON writes the color as a number.
func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(c), 10)), nil
}

// UnmarshalJSON accepts a number or a hex string.
func (c *Color) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ColorFromValue(v)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
