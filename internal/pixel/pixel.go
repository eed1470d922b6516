// Package pixel defines the RGB color value streamed to LED controllers and
// the channel orders used to put it on the wire.
package pixel

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Pixel is a single RGB color. The zero value is Dark.
type Pixel struct {
	R, G, B uint8
}

// Named colors
var (
	Dark   = Pixel{0, 0, 0}
	Red    = Pixel{255, 0, 0}
	Yellow = Pixel{255, 255, 0}
	Green  = Pixel{0, 255, 0}
	Blue   = Pixel{0, 0, 255}
)

// New returns a pixel with the given channel values.
func New(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

// FromHue returns the fully saturated, full value color for a hue angle in
// degrees. Angles outside [0,360) wrap.
func FromHue(deg float64) Pixel {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	r, g, b := colorful.Hsv(deg, 1, 1).RGB255()
	return Pixel{R: r, G: g, B: b}
}

// Scale multiplies every channel by f, truncating toward zero. f is clamped
// to [0,1].
func (p Pixel) Scale(f float64) Pixel {
	if f <= 0 {
		return Dark
	}
	if f >= 1 {
		return p
	}
	return Pixel{
		R: uint8(float64(p.R) * f),
		G: uint8(float64(p.G) * f),
		B: uint8(float64(p.B) * f),
	}
}

// Floor raises every channel below min up to min.
func (p Pixel) Floor(min uint8) Pixel {
	return Pixel{R: max(p.R, min), G: max(p.G, min), B: max(p.B, min)}
}

// Hex returns the color as #rrggbb.
func (p Pixel) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.R, p.G, p.B)
}

var names = map[string]Pixel{
	"dark":   Dark,
	"off":    Dark,
	"black":  Dark,
	"red":    Red,
	"yellow": Yellow,
	"green":  Green,
	"blue":   Blue,
	"white":  {255, 255, 255},
}

// Parse accepts a color name (red, green, blue, yellow, white, dark/off) or a
// "#rrggbb" hex string. The leading # is optional.
func Parse(s string) (Pixel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := names[s]; ok {
		return p, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil || (len(s) != 4 && len(s) != 7) {
		return Dark, fmt.Errorf("invalid color %q: want a name or #rrggbb", s)
	}
	r, g, b := c.RGB255()
	return Pixel{R: r, G: g, B: b}, nil
}

// Fill returns n copies of p.
func Fill(p Pixel, n int) []Pixel {
	if n <= 0 {
		return []Pixel{}
	}
	out := make([]Pixel, n)
	for i := range out {
		out[i] = p
	}
	return out
}
