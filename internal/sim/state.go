package sim

import (
	"fmt"

	"ashgrove/internal/mathutil"

	"go.uber.org/zap"
)

// SaveState is the flat snapshot handed to the persistence collaborator.
type SaveState struct {
	ID      string         `msgpack:"id"`
	Zone    string         `msgpack:"zone"`
	Player  PlayerState    `msgpack:"player"`
	Markers map[string]int `msgpack:"markers,omitempty"`
}

// PlayerState is the persisted part of the player.
type PlayerState struct {
	X         float64        `msgpack:"x"`
	Y         float64        `msgpack:"y"`
	HP        int            `msgpack:"hp"`
	Stamina   float64        `msgpack:"stamina"`
	Level     int            `msgpack:"level"`
	XP        int            `msgpack:"xp"`
	Gold      int            `msgpack:"gold"`
	Weapon    string         `msgpack:"weapon"`
	Skills    map[string]int `msgpack:"skills"`
	Inventory map[string]int `msgpack:"inventory"`
	Ultimate  int            `msgpack:"ultimate"`
}

// Export captures the current state. The save id is left for the
// persistence layer to stamp.
func (w *World) Export() SaveState {
	p := w.player
	s := SaveState{
		Zone: w.zoneKey,
		Player: PlayerState{
			X:         p.X,
			Y:         p.Y,
			HP:        p.HP,
			Stamina:   p.Stamina,
			Level:     p.Level,
			XP:        p.XP,
			Gold:      p.Gold,
			Weapon:    p.WeaponKey,
			Skills:    p.Skills.Levels(),
			Inventory: make(map[string]int, len(p.Inventory)),
			Ultimate:  p.UltimateMeter,
		},
	}
	for k, n := range p.Inventory {
		s.Player.Inventory[k] = n
	}
	if m, ok := w.hook.(MarkerStore); ok {
		s.Markers = m.Markers()
	}
	return s
}

// Restore replaces the live state with a saved one. The zone is re-entered,
// so the roster respawns from its table.
func (w *World) Restore(s SaveState) error {
	if err := w.EnterZone(s.Zone); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	ps := s.Player
	p := w.player

	p.Level = mathutil.IntMax(1, ps.Level)
	p.XP = mathutil.IntMax(0, ps.XP)
	p.Gold = mathutil.IntMax(0, ps.Gold)
	p.Skills.Replace(ps.Skills)
	p.RefreshStats()
	p.Revive(mathutil.IntClamp(ps.HP, 1, p.MaxHP))
	p.Stamina = mathutil.Clamp(ps.Stamina, 0, p.MaxStamina)
	p.UltimateMeter = mathutil.IntMax(0, ps.Ultimate)

	p.Inventory = make(map[string]int, len(ps.Inventory))
	for k, n := range ps.Inventory {
		if n > 0 {
			p.Inventory[k] = n
		}
	}
	if def, ok := w.cfg.GetWeapon(ps.Weapon); ok {
		p.Equip(ps.Weapon, *def)
	}

	if mathutil.Finite(ps.X) && mathutil.Finite(ps.Y) {
		old := [2]float64{p.X, p.Y}
		p.X, p.Y = ps.X, ps.Y
		if w.res.Blocked(playerBox(p)) {
			p.X, p.Y = old[0], old[1]
		}
	}
	w.playerDead = false

	if m, ok := w.hook.(MarkerStore); ok && s.Markers != nil {
		m.RestoreMarkers(s.Markers)
	}
	w.log.Info("state restored",
		zap.String("zone", s.Zone),
		zap.Int("level", p.Level),
		zap.Int("hp", p.HP))
	return nil
}
