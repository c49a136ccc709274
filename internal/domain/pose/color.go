package pose

import (
	"fmt"
	"regexp"
)

// Role is the per-frame player label assigned by horizontal position.
type Role int

// Player roles. Left is role 0.
const (
	Left Role = iota
	Right
)

func (r Role) String() string {
	switch r {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Color is a CSS hex color as understood by the renderers, e.g. "#ff0000".
// The zero value means "renderer default".
type Color string

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Valid reports whether c is a #rrggbb color.
func (c Color) Valid() bool { return hexColor.MatchString(string(c)) }

// Palette holds one display color per role.
type Palette [2]Color

// For returns the color assigned to role r.
func (p Palette) For(r Role) Color {
	if r == Right {
		return p[1]
	}
	return p[0]
}

// ParsePalette builds a Palette from exactly two #rrggbb strings.
func ParsePalette(colors []string) (Palette, error) {
	if len(colors) != len(Palette{}) {
		return Palette{}, fmt.Errorf("palette needs 2 colors, got %d", len(colors))
	}
	var p Palette
	for i, c := range colors {
		if !Color(c).Valid() {
			return Palette{}, fmt.Errorf("invalid palette color %q", c)
		}
		p[i] = Color(c)
	}
	return p, nil
}
