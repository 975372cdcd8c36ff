package view

import (
	"fmt"
	"image/color"

	"ashgrove/internal/mathutil"
	"ashgrove/internal/quests"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	hudX      = 10
	hudY      = 10
	barWidth  = 160
	barHeight = 8
)

func drawBar(screen *ebiten.Image, x, y int, fraction float64, fill color.Color) {
	fraction = mathutil.Clamp(fraction, 0, 1)
	vector.DrawFilledRect(screen, float32(x), float32(y), barWidth, barHeight, colorHealthBack, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(barWidth*fraction), barHeight, fill, false)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	p := &g.snap.Player
	vector.DrawFilledRect(screen, hudX-4, hudY-4, barWidth+180, 92, colorPanel, false)

	drawBar(screen, hudX, hudY, ratio(float64(p.HP), float64(p.MaxHP)), colorHealth)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HP %d/%d", p.HP, p.MaxHP), hudX+barWidth+8, hudY-4)
	drawBar(screen, hudX, hudY+14, ratio(p.Stamina, p.MaxStamina), colorStamina)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ST %.0f", p.Stamina), hudX+barWidth+8, hudY+10)
	drawBar(screen, hudX, hudY+28, p.Ultimate, colorUltimate)
	ebitenutil.DebugPrintAt(screen, "ULT", hudX+barWidth+8, hudY+24)

	weapon := p.Weapon
	if def, ok := g.cfg.GetWeapon(p.Weapon); ok {
		weapon = def.Name
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Lv %d  XP %d/%d  Gold %d", p.Level, p.XP, p.XPToNext, p.Gold), hudX, hudY+40)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  %s", weapon, g.slotLine()), hudX, hudY+56)
	if g.snap.Combo > 1 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Combo x%d", g.snap.Combo), hudX+barWidth+60, hudY+24)
	}

	m := g.monitor.GetCurrentMetrics()
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s  tick %.2fms avg %.2fms  %d foes", g.snap.Zone,
			float64(m.LastTick.Microseconds())/1000, float64(m.AverageTick.Microseconds())/1000, m.Enemies),
		hudX, int(g.cam.height)-20)

	if g.showQuests {
		g.drawQuests(screen)
	}
	if g.messageTimer > 0 && g.message != "" {
		ebitenutil.DebugPrintAt(screen, g.message, int(g.cam.width)/2-len(g.message)*3, int(g.cam.height)-48)
	}
	if g.snap.PlayerDead {
		vector.DrawFilledRect(screen, 0, 0, float32(g.cam.width), float32(g.cam.height), colorPanel, false)
		msg := "You have fallen. Press ENTER to rise."
		ebitenutil.DebugPrintAt(screen, msg, int(g.cam.width)/2-len(msg)*3, int(g.cam.height)/2)
	}
}

func (g *Game) slotLine() string {
	p := g.world.Player()
	line := ""
	for i, key := range p.ConsumableSlots() {
		name := key
		if def, ok := g.cfg.Consumables[key]; ok {
			name = def.Name
		}
		line += fmt.Sprintf("[%d] %s x%d  ", i+1, name, p.Inventory[key])
	}
	return line
}

func (g *Game) drawQuests(screen *ebiten.Image) {
	if g.quests == nil {
		return
	}
	qs := g.quests.Quests()
	if len(qs) == 0 {
		return
	}
	x := int(g.cam.width) - 300
	y := hudY
	vector.DrawFilledRect(screen, float32(x-6), float32(y-4), 296, float32(16*len(qs)+24), colorPanel, false)
	ebitenutil.DebugPrintAt(screen, "Quests (Q hide, C claim)", x, y)
	for i := range qs {
		q := &qs[i]
		y += 16
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %s", q.Definition.Name, q.GetProgressString()), x, y)
		if q.Status == quests.QuestStatusCompleted && !q.RewardsClaimed {
			ebitenutil.DebugPrintAt(screen, "!", x-10, y)
		}
	}
}

func ratio(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}
