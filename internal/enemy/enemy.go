package enemy

import (
	"math"
	"math/rand"

	"ashgrove/internal/actor"
	"ashgrove/internal/config"
	"ashgrove/internal/mathutil"
	"ashgrove/internal/status"
)

// Windup is a committed special attack. The target point is captured when
// the windup starts and never changes afterwards.
type Windup struct {
	Active    bool
	Special   int // index into Archetype.Specials
	Kind      SpecialKind
	StartedAt float64 // simulation time in ticks
	Duration  float64
	Remaining float64
	TargetX   float64
	TargetY   float64
}

// Progress is the elapsed fraction of the windup, for renderers.
func (w Windup) Progress() float64 {
	if !w.Active || w.Duration <= 0 {
		return 0
	}
	return mathutil.Clamp(1-w.Remaining/w.Duration, 0, 1)
}

type Enemy struct {
	actor.Actor
	Arch *Archetype

	State      State
	StateTimer float64

	HomeX, HomeY float64 // patrol anchor
	PatrolAngle  float64
	PatrolRadius float64

	AggroTimer       float64
	AttackCooldown   float64
	TeleportCooldown float64
	SpecialCooldowns []float64
	Windup           Windup

	Enraged        bool
	SpeedBuff      float64
	SpeedBuffTimer float64

	regenAcc float64
}

// New creates an enemy at its home anchor.
func New(id uint64, arch *Archetype, x, y float64, ai config.AIConfig, rng *rand.Rand) *Enemy {
	radius := arch.PatrolRadius
	if radius <= 0 {
		radius = ai.PatrolRadius
	}
	e := &Enemy{
		Actor:            actor.New(id, x, y, arch.Width, arch.Height, arch.MaxHealth),
		Arch:             arch,
		State:            StatePatrol,
		HomeX:            x,
		HomeY:            y,
		PatrolAngle:      rng.Float64() * 2 * math.Pi,
		PatrolRadius:     radius,
		SpecialCooldowns: make([]float64, len(arch.Specials)),
	}
	return e
}

func (e *Enemy) setState(s State) {
	if e.State == s {
		return
	}
	e.State = s
	e.StateTimer = 0
}

// Provoke is called when the enemy is struck. It refreshes the aggro timer
// and pulls a patrolling or returning enemy into the chase.
func (e *Enemy) Provoke(grace float64) {
	if !e.Alive() {
		return
	}
	e.AggroTimer = math.Max(e.AggroTimer, grace)
	if e.State == StatePatrol || e.State == StateReturning {
		e.setState(StateChase)
	}
}

// Engaged reports whether the enemy is fighting.
func (e *Enemy) Engaged() bool {
	return e.State == StateChase || e.State == StateWindup || e.State == StateStunned
}

// CheckEnrage latches the enrage flag the first time a boss drops below the
// threshold. It reports true only on that transition.
func (e *Enemy) CheckEnrage(threshold float64) bool {
	if e.Enraged || !e.Arch.Boss || !e.Alive() {
		return false
	}
	if e.HealthFraction() < threshold {
		e.Enraged = true
		return true
	}
	return false
}

// CancelWindup drops a pending special without firing it.
func (e *Enemy) CancelWindup() {
	e.Windup = Windup{}
	if e.State == StateWindup {
		e.setState(StateChase)
	}
}

// speed is the per-tick movement speed before dt scaling.
func (e *Enemy) speed(boss config.BossConfig) float64 {
	s := e.Arch.Speed
	if e.Effects.Has(status.Freeze) {
		s *= 0.5
	}
	if e.Enraged && boss.EnrageSpeedMultiplier > 0 {
		s *= boss.EnrageSpeedMultiplier
	}
	if e.SpeedBuffTimer > 0 && e.SpeedBuff > 0 {
		s *= e.SpeedBuff
	}
	return s
}

// DistanceFromHome is the distance to the patrol anchor.
func (e *Enemy) DistanceFromHome() float64 {
	return e.DistanceTo(e.HomeX, e.HomeY)
}
