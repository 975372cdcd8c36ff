package view

import (
	"image/color"
	"math"
	"testing"

	"ashgrove/internal/config"
	"ashgrove/internal/fx"
	"ashgrove/internal/sim"
	"ashgrove/internal/zone"
)

func TestCameraClampsToMap(t *testing.T) {
	c := camera{width: 320, height: 240}

	c.follow(100, 100, 1000, 800)
	if c.x != 0 || c.y != 0 {
		t.Errorf("Expected camera pinned to the top-left, got (%v, %v)", c.x, c.y)
	}

	c.follow(990, 790, 1000, 800)
	if c.x != 680 || c.y != 560 {
		t.Errorf("Expected camera pinned to the bottom-right, got (%v, %v)", c.x, c.y)
	}

	c.follow(500, 400, 1000, 800)
	if c.x != 340 || c.y != 280 {
		t.Errorf("Expected camera centred, got (%v, %v)", c.x, c.y)
	}

	// Maps smaller than the viewport are centred.
	c.follow(50, 50, 160, 120)
	if c.x != -80 || c.y != -60 {
		t.Errorf("Expected small map centred, got (%v, %v)", c.x, c.y)
	}

	wx, wy := c.toWorld(10, 20)
	sx, sy := c.toScreen(wx, wy)
	if sx != 10 || sy != 20 {
		t.Errorf("Screen/world conversion should round trip, got (%v, %v)", sx, sy)
	}
}

func TestParseHexColor(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 4}
	if got := parseHexColor("#8a8f99", fallback); got != (color.RGBA{0x8a, 0x8f, 0x99, 0xff}) {
		t.Errorf("Unexpected colour %v", got)
	}
	for _, bad := range []string{"", "#fff", "#zzzzzz", "12345678"} {
		if got := parseHexColor(bad, fallback); got != fallback {
			t.Errorf("Expected fallback for %q, got %v", bad, got)
		}
	}
}

func TestFadeScalesPremultiplied(t *testing.T) {
	got := fade(color.RGBA{200, 100, 50, 255}, 15, 30)
	if got.A != 127 || got.R != 100 {
		t.Errorf("Expected half intensity, got %v", got)
	}
	if got := fade(textColor(fx.TagCrit), 0, 30); got.A != 0 {
		t.Errorf("Expired text should be transparent, got %v", got)
	}
}

func TestShippedTilesHaveColours(t *testing.T) {
	zones := zone.MustLoad("../../assets/zones.yaml")
	for _, key := range zones.Keys() {
		def, _ := zones.Get(key)
		grid, err := def.BuildGrid()
		if err != nil {
			t.Fatalf("BuildGrid(%s) failed: %v", key, err)
		}
		w, h := grid.Size()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if name := grid.TileName(x, y); TileColor(name) == colorUnknown {
					t.Errorf("Zone %s tile %q has no colour", key, name)
				}
			}
		}
	}
}

func TestNextWeaponCycles(t *testing.T) {
	cfg := config.Defaults()
	inv := map[string]int{"frost_bow": 1, "ember_axe": 1, "potion": 3}

	if got := nextWeapon(cfg, "iron_sword", inv); got != "ember_axe" {
		t.Errorf("Expected ember_axe after iron_sword, got %s", got)
	}
	if got := nextWeapon(cfg, "frost_bow", inv); got != "iron_sword" {
		t.Errorf("Expected iron_sword after frost_bow, got %s", got)
	}
	if got := nextWeapon(cfg, "iron_sword", map[string]int{"frost_bow": 1}); got != "frost_bow" {
		t.Errorf("Expected frost_bow, got %s", got)
	}
	if got := nextWeapon(cfg, "iron_sword", nil); got != "iron_sword" {
		t.Errorf("Only the equipped weapon should cycle to itself, got %s", got)
	}
}

func TestBuildInputAimsAtCursor(t *testing.T) {
	g := &Game{cam: camera{x: 100, y: 50, width: 320, height: 240}}
	g.snap = sim.Snapshot{Player: sim.PlayerView{X: 200, Y: 150, Aim: 1}}

	in := g.buildInput(inputState{right: true, up: true, cursorX: 100, cursorY: 200, slot: 2, attack: true})
	if in.MoveX != 1 || in.MoveY != -1 {
		t.Errorf("Unexpected move (%v, %v)", in.MoveX, in.MoveY)
	}
	if math.Abs(in.Aim-math.Pi/2) > 1e-9 {
		t.Errorf("Expected aim straight down, got %v", in.Aim)
	}
	if in.UseSlot != 2 || !in.Attack {
		t.Errorf("Unexpected actions %+v", in)
	}

	// Cursor exactly on the player keeps the previous aim.
	in = g.buildInput(inputState{cursorX: 100, cursorY: 100})
	if in.Aim != 1 {
		t.Errorf("Expected previous aim kept, got %v", in.Aim)
	}
}
