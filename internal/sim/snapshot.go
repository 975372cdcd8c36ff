package sim

import (
	"ashgrove/internal/actor"
	"ashgrove/internal/combat"
	"ashgrove/internal/fx"
	"ashgrove/internal/loot"
	"ashgrove/internal/status"
)

// Snapshot is the read-only state published after every tick. Slices are
// freshly allocated and safe to keep.
type Snapshot struct {
	Tick uint64
	Zone string

	Player      PlayerView
	Enemies     []EnemyView
	Projectiles []combat.Projectile
	Bags        []Bag

	Texts    []fx.Text
	Cues     []string
	Declined []Declined

	PlayerDead     bool
	Combo          int
	ComboRemaining float64
}

// PlayerView is the renderer's view of the player.
type PlayerView struct {
	ID         uint64
	X, Y, W, H float64
	Facing     actor.Direction
	Aim        float64

	HP, MaxHP           int
	Stamina, MaxStamina float64
	Statuses            []status.Effect

	Dodging       bool
	Swinging      bool
	SwingProgress float64
	Sprinting     bool

	Level, XP, XPToNext int
	Gold                int
	Weapon              string
	Ultimate            float64 // meter fill 0..1
	Buffed              bool
}

// EnemyView is the renderer's view of one enemy.
type EnemyView struct {
	ID         uint64
	Archetype  string
	Name       string
	Color      string
	X, Y, W, H float64
	Facing     actor.Direction
	State      string
	Health     float64 // fraction of max
	Statuses   []status.Kind

	Windup         bool
	WindupKind     string
	WindupProgress float64
	WindupX        float64
	WindupY        float64
	WindupRadius   float64

	Boss    bool
	Enraged bool
}

// Bag is a dropped loot bag waiting to be picked up.
type Bag struct {
	ID   uint64
	X, Y float64
	Drop loot.Drop
}

// Declined is an action refused for lack of a resource.
type Declined struct {
	Action string
	Reason string
}
