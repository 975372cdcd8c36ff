package view

import (
	"image/color"
	"math"

	"ashgrove/internal/combat"
	"ashgrove/internal/sim"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Draw renders the last snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	tile := g.cfg.Sim.TileSize
	cols, rows := g.world.Grid().Size()
	g.cam.follow(g.snap.Player.X, g.snap.Player.Y, float64(cols)*tile, float64(rows)*tile)

	g.drawTiles(screen, tile, cols, rows)
	g.drawBags(screen)
	for i := range g.snap.Enemies {
		g.drawEnemy(screen, &g.snap.Enemies[i])
	}
	g.drawPlayer(screen)
	g.drawProjectiles(screen)
	g.drawTexts(screen)

	if g.hurtFlash > 0 {
		vector.DrawFilledRect(screen, 0, 0, float32(g.cam.width), float32(g.cam.height), colorHurtFlash, false)
	}
	g.drawHUD(screen)
}

func (g *Game) drawTiles(screen *ebiten.Image, tile float64, cols, rows int) {
	grid := g.world.Grid()
	x0 := int(math.Floor(g.cam.x / tile))
	y0 := int(math.Floor(g.cam.y / tile))
	x1 := int(math.Ceil((g.cam.x + g.cam.width) / tile))
	y1 := int(math.Ceil((g.cam.y + g.cam.height) / tile))
	for ty := max(y0, 0); ty < min(y1, rows); ty++ {
		for tx := max(x0, 0); tx < min(x1, cols); tx++ {
			sx, sy := g.cam.toScreen(float64(tx)*tile, float64(ty)*tile)
			c := TileColor(grid.TileName(tx, ty))
			vector.DrawFilledRect(screen, sx, sy, float32(tile), float32(tile), c, false)
			if grid.IsDestructible(tx, ty) {
				vector.StrokeRect(screen, sx+4, sy+4, float32(tile)-8, float32(tile)-8, 2, colorBag, false)
			}
		}
	}
}

func (g *Game) drawBags(screen *ebiten.Image) {
	for _, b := range g.snap.Bags {
		sx, sy := g.cam.toScreen(b.X, b.Y)
		vector.DrawFilledRect(screen, sx-5, sy-5, 10, 10, colorBag, false)
	}
}

func (g *Game) drawEnemy(screen *ebiten.Image, e *sim.EnemyView) {
	sx, sy := g.cam.toScreen(e.X, e.Y)
	w, h := float32(e.W), float32(e.H)
	body := parseHexColor(e.Color, colorUnknown)
	vector.DrawFilledRect(screen, sx-w/2, sy-h/2, w, h, body, false)
	if e.Enraged {
		vector.StrokeRect(screen, sx-w/2-2, sy-h/2-2, w+4, h+4, 2, colorEnraged, false)
	}

	if e.Windup {
		wx, wy := g.cam.toScreen(e.WindupX, e.WindupY)
		radius := float32(e.WindupRadius)
		if radius <= 0 {
			radius = w
		}
		vector.StrokeCircle(screen, wx, wy, radius, 1, colorWindup, true)
		vector.StrokeCircle(screen, wx, wy, radius*float32(e.WindupProgress), 2, colorWindup, true)
	}

	// Health bar and status pips.
	barY := sy - h/2 - 6
	vector.DrawFilledRect(screen, sx-w/2, barY, w, 3, colorHealthBack, false)
	vector.DrawFilledRect(screen, sx-w/2, barY, w*float32(e.Health), 3, colorHealth, false)
	for i, k := range e.Statuses {
		vector.DrawFilledCircle(screen, sx-w/2+3+float32(i)*6, barY-4, 2, statusColor(k), true)
	}
	if e.Boss {
		drawCentered(screen, e.Name, int(sx), int(barY)-8, body)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	p := &g.snap.Player
	sx, sy := g.cam.toScreen(p.X, p.Y)
	w, h := float32(p.W), float32(p.H)
	body := colorPlayer
	if p.Dodging {
		body = colorDodge
	}
	vector.DrawFilledRect(screen, sx-w/2, sy-h/2, w, h, body, false)

	reach := w
	if def, ok := g.cfg.GetWeapon(p.Weapon); ok && !def.Ranged {
		reach = float32(def.Range)
	}
	ax := sx + reach*float32(math.Cos(p.Aim))
	ay := sy + reach*float32(math.Sin(p.Aim))
	if p.Swinging {
		vector.StrokeLine(screen, sx, sy, ax, ay, 3, colorSwing, true)
	} else {
		vector.StrokeLine(screen, sx, sy, sx+(ax-sx)*0.3, sy+(ay-sy)*0.3, 1, colorSwing, true)
	}
	for i, eff := range p.Statuses {
		vector.DrawFilledCircle(screen, sx-w/2+3+float32(i)*6, sy-h/2-5, 2, statusColor(eff.Kind), true)
	}
}

func (g *Game) drawProjectiles(screen *ebiten.Image) {
	for _, proj := range g.snap.Projectiles {
		sx, sy := g.cam.toScreen(proj.X, proj.Y)
		c := colorPlayer
		if proj.Owner == combat.SideEnemy {
			c = colorWindup
		}
		vector.DrawFilledCircle(screen, sx, sy, 3, c, true)
		tx := sx - float32(proj.VX)
		ty := sy - float32(proj.VY)
		vector.StrokeLine(screen, sx, sy, tx, ty, 1, c, true)
	}
}

func (g *Game) drawTexts(screen *ebiten.Image) {
	for _, t := range g.snap.Texts {
		sx, sy := g.cam.toScreen(t.X, t.Y)
		drawCentered(screen, t.Value, int(sx), int(sy), fade(textColor(t.Tag), t.Life, t.MaxLife))
	}
}

func drawCentered(screen *ebiten.Image, s string, x, y int, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Round()
	ebitext.Draw(screen, s, face, x-width/2, y, c)
}
