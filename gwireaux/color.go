package gwireaux

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
	"golang.org/x/image/colornames"
)

// Hue rotation follows Esme Lamb's (@dedelala) color work, Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

// ParseColor parses a CSS style color: "#rgb", "#rrggbb" or a CSS color name such as "crimson".
// The result has components in the range [0,1].
func ParseColor(s string) (ms3.Vec, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[strings.ToLower(s)]
		if !ok {
			return ms3.Vec{}, fmt.Errorf("unknown color %q", s)
		}
		return colorToVec(c), nil
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return ms3.Vec{}, fmt.Errorf("invalid hex color %q", s)
	}
	c, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ms3.Vec{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return unpackRGB(uint32(c)), nil
}

// HexColor formats a color with components in [0,1] as "#rrggbb". Components are clamped.
func HexColor(c ms3.Vec) string {
	return fmt.Sprintf("#%06x", packRGB(c))
}

// RGBA converts a color with components in [0,1] to an opaque [color.RGBA].
func RGBA(c ms3.Vec) color.RGBA {
	v := packRGB(c)
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// HueShift rotates the hue of c by delta turns, preserving saturation and value.
func HueShift(c ms3.Vec, delta float32) ms3.Vec {
	hsv := toHSV(c)
	hsv.X = math.Mod(hsv.X+delta, 1)
	if hsv.X < 0 {
		hsv.X += 1
	}
	return fromHSV(hsv)
}

func colorToVec(c color.Color) ms3.Vec {
	r0, g0, b0, _ := c.RGBA()
	return ms3.Vec{X: float32(r0>>8) / math.MaxUint8, Y: float32(g0>>8) / math.MaxUint8, Z: float32(b0>>8) / math.MaxUint8}
}

// unpackRGB splits a 0xRRGGBB value into components in [0,1].
func unpackRGB(c uint32) ms3.Vec {
	const scale = 1.0 / math.MaxUint8
	return ms3.Vec{
		X: scale * float32(uint8(c>>16)),
		Y: scale * float32(uint8(c>>8)),
		Z: scale * float32(uint8(c)),
	}
}

// packRGB quantizes a color with components in [0,1] to 0xRRGGBB. Components are clamped.
func packRGB(c ms3.Vec) (packed uint32) {
	for _, v := range [3]float32{c.X, c.Y, c.Z} {
		packed = packed<<8 | uint32(math.Round(ms1.Clamp(v, 0, 1)*math.MaxUint8))
	}
	return packed
}

// toHSV returns hue, saturation and value of c packed as X, Y and Z, all in [0,1].
func toHSV(c ms3.Vec) (hsv ms3.Vec) {
	hi := max(c.X, c.Y, c.Z)
	chroma := hi - min(c.X, c.Y, c.Z)
	hsv.Z = hi
	if hi > 0 {
		hsv.Y = chroma / hi
	}
	if chroma == 0 {
		return hsv // Gray, hue undefined.
	}
	var sector float32
	switch hi {
	case c.X:
		sector = (c.Y - c.Z) / chroma
	case c.Y:
		sector = 2 + (c.Z-c.X)/chroma
	default:
		sector = 4 + (c.X-c.Y)/chroma
	}
	hsv.X = math.Mod(sector/6+1, 1)
	return hsv
}

// fromHSV is the inverse of toHSV.
func fromHSV(hsv ms3.Vec) ms3.Vec {
	h, s, v := hsv.X*6, hsv.Y, hsv.Z
	channel := func(n float32) float32 {
		k := math.Mod(n+h, 6)
		return v - v*s*ms1.Clamp(min(k, 4-k), 0, 1)
	}
	return ms3.Vec{X: channel(5), Y: channel(3), Z: channel(1)}
}
