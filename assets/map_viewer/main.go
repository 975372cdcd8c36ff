package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sort"

	"ashgrove/internal/enemy"
	"ashgrove/internal/terrain"
	"ashgrove/internal/view"
	"ashgrove/internal/zone"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
)

type zoneInfo struct {
	Def  *zone.Definition
	Grid *terrain.Grid
	Err  error
}

type viewer struct {
	zones       []zoneInfo
	zoneIndex   int
	legendLines []string
	archetypes  *enemy.Table
	showLegend  bool
}

func main() {
	ensureRuntimeCWD()

	zones := zone.MustLoad("assets/zones.yaml")
	archetypes := enemy.MustLoadArchetypes("assets/archetypes.yaml")
	if err := zones.CheckArchetypes(func(key string) bool {
		_, err := archetypes.ByKey(key)
		return err == nil
	}); err != nil {
		log.Printf("Warning: %v", err)
	}

	v := &viewer{
		zones:       loadZones(zones),
		legendLines: buildLegendLines(zones, archetypes),
		archetypes:  archetypes,
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Ashgrove Zone Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func loadZones(cfg *zone.Config) []zoneInfo {
	var out []zoneInfo
	for _, key := range cfg.Keys() {
		def, err := cfg.Get(key)
		info := zoneInfo{Def: def, Err: err}
		if err == nil {
			info.Grid, info.Err = def.BuildGrid()
		}
		out = append(out, info)
	}
	return out
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.showLegend = !v.showLegend
	}
	if len(v.zones) == 0 {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		v.zoneIndex = (v.zoneIndex + 1) % len(v.zones)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.zoneIndex = (v.zoneIndex + len(v.zones) - 1) % len(v.zones)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})
	if len(v.zones) == 0 {
		ebitenutil.DebugPrintAt(screen, "no zones loaded", 16, 16)
		return
	}

	z := v.zones[v.zoneIndex]
	if z.Err != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zone failed to load: %v", z.Err), 16, 16)
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	padding := 16
	mapW := screenW - sidebarWidth - padding*3
	mapH := screenH - padding*2

	v.drawZone(screen, z, padding, padding, mapW, mapH)
	v.drawSidebar(screen, z, padding*2+mapW, padding, sidebarWidth, mapH)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (v *viewer) drawZone(screen *ebiten.Image, z zoneInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})

	cols, rows := z.Grid.Size()
	tileSize := min(w/cols, (h-40)/rows)
	if tileSize < 2 {
		tileSize = 2
	}
	originX := x + (w-cols*tileSize)/2
	originY := y + 40 + (h-40-rows*tileSize)/2

	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			c := view.TileColor(z.Grid.TileName(tx, ty))
			vector.DrawFilledRect(screen, float32(originX+tx*tileSize), float32(originY+ty*tileSize),
				float32(tileSize), float32(tileSize), c, false)
		}
	}

	sx, sy := z.Def.Start(1)
	drawTileMarker(screen, originX, originY, tileSize, int(sx), int(sy), color.RGBA{50, 200, 255, 255})
	for _, exit := range z.Def.Exits {
		drawTileMarker(screen, originX, originY, tileSize, exit.X, exit.Y, color.RGBA{255, 220, 0, 255})
		drawTileLetter(screen, originX, originY, tileSize, exit.X, exit.Y, ">")
	}
	for _, spawn := range z.Def.Spawns {
		clr := color.RGBA{230, 80, 80, 255}
		if a, err := v.archetypes.ByKey(spawn.Archetype); err == nil && a.Boss {
			clr = color.RGBA{255, 40, 160, 255}
		}
		drawTileMarker(screen, originX, originY, tileSize, spawn.X, spawn.Y, clr)
		if spawn.Count > 1 {
			drawTileLetter(screen, originX, originY, tileSize, spawn.X, spawn.Y, fmt.Sprintf("%d", spawn.Count))
		}
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%s)", z.Def.Name, z.Def.Key), x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch zones, Tab for legend, Esc to quit", x+12, y+24)
}

func (v *viewer) drawSidebar(screen *ebiten.Image, z zoneInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	row := y + 12
	lines := v.legendLines
	if !v.showLegend {
		cols, rows := z.Grid.Size()
		lines = []string{
			fmt.Sprintf("Tiles: %dx%d", cols, rows),
			fmt.Sprintf("Spawn groups: %d", len(z.Def.Spawns)),
			fmt.Sprintf("Exits: %d", len(z.Def.Exits)),
			"",
			"Cyan: start  Yellow: exits",
			"Red: spawns  Pink: bosses",
		}
		for _, spawn := range z.Def.Spawns {
			n := max(spawn.Count, 1)
			lines = append(lines, fmt.Sprintf("  %s x%d at %d,%d", spawn.Archetype, n, spawn.X, spawn.Y))
		}
		for _, exit := range z.Def.Exits {
			lines = append(lines, fmt.Sprintf("  exit %d,%d -> %s", exit.X, exit.Y, exit.To))
		}
	}
	for _, line := range lines {
		if row > y+h-14 {
			break
		}
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 14
	}
}

func buildLegendLines(cfg *zone.Config, archetypes *enemy.Table) []string {
	lines := []string{"Shared legend (letter -> tile)", "------------------------------"}
	letters := make([]string, 0, len(cfg.Legend))
	for letter := range cfg.Legend {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	for _, letter := range letters {
		def := cfg.Legend[letter]
		extra := ""
		switch {
		case def.Hazard != nil:
			extra = fmt.Sprintf(" hazard %d", def.Hazard.Damage)
			if def.Hazard.Status != "" {
				extra += " " + def.Hazard.Status
			}
		case def.Destructible:
			extra = " breakable"
		case def.Solid:
			extra = " solid"
		}
		lines = append(lines, fmt.Sprintf("%s -> %s%s", letter, def.Name, extra))
	}

	lines = append(lines, "", "Archetypes", "----------")
	for _, key := range archetypes.Keys() {
		a, _ := archetypes.ByKey(key)
		lines = append(lines, fmt.Sprintf("%d %s (%s) hp %d", a.ID, key, a.Name, a.MaxHealth))
	}
	return lines
}

func drawTileMarker(screen *ebiten.Image, originX, originY, tileSize, tx, ty int, clr color.RGBA) {
	cx := float32(originX + tx*tileSize + tileSize/2)
	cy := float32(originY + ty*tileSize + tileSize/2)
	vector.DrawFilledCircle(screen, cx, cy, float32(tileSize)*0.35, clr, true)
}

func drawTileLetter(screen *ebiten.Image, originX, originY, tileSize, tx, ty int, letter string) {
	if tileSize < 6 {
		return
	}
	ebitenutil.DebugPrintAt(screen, letter, originX+tx*tileSize+2, originY+ty*tileSize+1)
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("assets/zones.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = os.Chdir(filepath.Dir(exe))
}
