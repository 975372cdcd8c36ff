package view

import (
	"image/color"

	"ashgrove/internal/fx"
	"ashgrove/internal/mathutil"
	"ashgrove/internal/status"
)

var (
	colorBackground = color.RGBA{12, 14, 12, 255}
	colorFloor      = color.RGBA{52, 78, 44, 255}
	colorUnknown    = color.RGBA{255, 0, 255, 255}
	colorPlayer     = color.RGBA{230, 220, 180, 255}
	colorDodge      = color.RGBA{230, 220, 180, 110}
	colorSwing      = color.RGBA{255, 255, 255, 90}
	colorBag        = color.RGBA{214, 170, 60, 255}
	colorWindup     = color.RGBA{240, 60, 40, 200}
	colorEnraged    = color.RGBA{255, 40, 20, 255}
	colorHealthBack = color.RGBA{40, 0, 0, 200}
	colorHealth     = color.RGBA{200, 40, 40, 255}
	colorStamina    = color.RGBA{60, 180, 80, 255}
	colorUltimate   = color.RGBA{120, 120, 255, 255}
	colorPanel      = color.RGBA{0, 0, 0, 160}
	colorHurtFlash  = color.RGBA{160, 0, 0, 70}
)

// tileColors keys on legend tile names.
var tileColors = map[string]color.RGBA{
	"grass":      colorFloor,
	"dirt":       {92, 72, 50, 255},
	"tree":       {22, 48, 24, 255},
	"cave_wall":  {46, 40, 38, 255},
	"wall":       {60, 60, 66, 255},
	"crate":      {130, 92, 48, 255},
	"bog":        {62, 76, 40, 255},
	"brambles":   {90, 70, 40, 255},
	"embers":     {150, 60, 20, 255},
	"venom_pool": {90, 40, 110, 255},
}

// TileColor returns the map colour of a legend tile name.
func TileColor(name string) color.RGBA {
	if c, ok := tileColors[name]; ok {
		return c
	}
	return colorUnknown
}

func textColor(tag fx.Tag) color.RGBA {
	switch tag {
	case fx.TagCrit:
		return color.RGBA{255, 210, 40, 255}
	case fx.TagHeal:
		return color.RGBA{90, 230, 110, 255}
	case fx.TagHurt:
		return color.RGBA{255, 80, 80, 255}
	case fx.TagStatus:
		return color.RGBA{190, 140, 255, 255}
	case fx.TagLoot:
		return colorBag
	case fx.TagInfo:
		return color.RGBA{160, 200, 255, 255}
	default:
		return color.RGBA{255, 255, 255, 255}
	}
}

func statusColor(k status.Kind) color.RGBA {
	switch k {
	case status.Bleed:
		return color.RGBA{200, 20, 30, 255}
	case status.Burn:
		return color.RGBA{255, 130, 30, 255}
	case status.Freeze:
		return color.RGBA{120, 200, 255, 255}
	case status.Poison:
		return color.RGBA{110, 200, 60, 255}
	case status.Venom:
		return color.RGBA{170, 60, 200, 255}
	}
	return colorUnknown
}

// fade scales a premultiplied colour by the remaining fraction of a text's
// life.
func fade(c color.RGBA, life, maxLife float64) color.RGBA {
	if maxLife <= 0 {
		return c
	}
	f := mathutil.Clamp(life/maxLife, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: uint8(float64(c.A) * f),
	}
}
