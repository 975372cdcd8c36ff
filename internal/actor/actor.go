package actor

import (
	"math"

	"ashgrove/internal/mathutil"
	"ashgrove/internal/status"
)

// Direction is the 4-way facing derived from an aim angle.
type Direction int

const (
	East Direction = iota
	South
	West
	North
)

func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	case North:
		return "north"
	}
	return "unknown"
}

// FacingFromAngle maps an angle in radians (screen space, +Y down) to a
// 4-way facing. Ties on the diagonals resolve clockwise.
func FacingFromAngle(angle float64) Direction {
	a := mathutil.WrapAngle(angle)
	switch {
	case a >= -math.Pi/4 && a < math.Pi/4:
		return East
	case a >= math.Pi/4 && a < 3*math.Pi/4:
		return South
	case a >= -3*math.Pi/4 && a < -math.Pi/4:
		return North
	default:
		return West
	}
}

// Actor is the state shared by the player and enemies.
type Actor struct {
	ID     uint64
	X, Y   float64 // centre, world units
	W, H   float64
	Facing Direction

	HP    int
	MaxHP int
	dead  bool

	KnockX, KnockY float64
	Effects        status.List
	HazardCooldown float64 // ticks until a hazard tile may hurt again
}

// New creates a live actor at full health.
func New(id uint64, x, y, w, h float64, maxHP int) Actor {
	if maxHP < 1 {
		maxHP = 1
	}
	return Actor{ID: id, X: x, Y: y, W: w, H: h, HP: maxHP, MaxHP: maxHP}
}

// Alive reports whether the actor has not died.
func (a *Actor) Alive() bool {
	return !a.dead
}

// Damage subtracts n health. It returns the amount actually removed and
// reports died=true only on the call that takes the actor from alive to dead.
func (a *Actor) Damage(n int) (dealt int, died bool) {
	if a.dead || n <= 0 {
		return 0, false
	}
	before := a.HP
	a.HP = mathutil.IntClamp(a.HP-n, 0, a.MaxHP)
	dealt = before - a.HP
	if a.HP <= 0 {
		a.dead = true
		return dealt, true
	}
	return dealt, false
}

// Heal restores health up to MaxHP and returns the amount restored.
func (a *Actor) Heal(n int) int {
	if a.dead || n <= 0 {
		return 0
	}
	before := a.HP
	a.HP = mathutil.IntClamp(a.HP+n, 0, a.MaxHP)
	return a.HP - before
}

// SetMaxHP changes the health cap, keeping HP inside it.
func (a *Actor) SetMaxHP(max int) {
	if max < 1 {
		max = 1
	}
	a.MaxHP = max
	a.HP = mathutil.IntClamp(a.HP, 0, a.MaxHP)
}

// Revive brings a dead actor back at the given health.
func (a *Actor) Revive(hp int) {
	a.dead = false
	a.HP = mathutil.IntClamp(hp, 1, a.MaxHP)
	a.KnockX, a.KnockY = 0, 0
	a.Effects.Clear()
}

// HealthFraction is HP/MaxHP in [0,1].
func (a *Actor) HealthFraction() float64 {
	if a.MaxHP <= 0 {
		return 0
	}
	return mathutil.Clamp(float64(a.HP)/float64(a.MaxHP), 0, 1)
}

// Push adds a knockback impulse. Non-finite components are discarded.
func (a *Actor) Push(vx, vy float64) {
	if !mathutil.Finite(vx) || !mathutil.Finite(vy) {
		return
	}
	a.KnockX += vx
	a.KnockY += vy
}

// KnockbackMagnitude is the length of the current knockback vector.
func (a *Actor) KnockbackMagnitude() float64 {
	return math.Hypot(a.KnockX, a.KnockY)
}

// DistanceTo returns the centre distance to a point.
func (a *Actor) DistanceTo(x, y float64) float64 {
	return mathutil.Distance(a.X, a.Y, x, y)
}

// IDSource hands out monotonically increasing identities.
type IDSource struct {
	last uint64
}

func (s *IDSource) Next() uint64 {
	s.last++
	return s.last
}

// Last returns the most recently issued id.
func (s *IDSource) Last() uint64 {
	return s.last
}

// Advance moves the source past id so restored ids are never reissued.
func (s *IDSource) Advance(id uint64) {
	if id > s.last {
		s.last = id
	}
}
