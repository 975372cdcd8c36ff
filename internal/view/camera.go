package view

import (
	"image/color"
	"strconv"
	"strings"
)

// camera maps world coordinates to the screen, centred on a point and
// clamped to the map bounds.
type camera struct {
	x, y          float64 // top-left in world units
	width, height float64 // viewport
}

func (c *camera) follow(tx, ty, mapW, mapH float64) {
	c.x = clampAxis(tx-c.width/2, mapW-c.width)
	c.y = clampAxis(ty-c.height/2, mapH-c.height)
}

// clampAxis keeps the viewport inside the map; a map smaller than the
// viewport is centred.
func clampAxis(v, max float64) float64 {
	if max < 0 {
		return max / 2
	}
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func (c *camera) toScreen(wx, wy float64) (float32, float32) {
	return float32(wx - c.x), float32(wy - c.y)
}

func (c *camera) toWorld(sx, sy int) (float64, float64) {
	return float64(sx) + c.x, float64(sy) + c.y
}

// parseHexColor decodes "#rrggbb". Anything else yields the fallback.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}
