package combat

import (
	"math"

	"ashgrove/internal/config"
)

// Side is the owner of a projectile.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// Projectile is an in-flight shot.
type Projectile struct {
	ID     uint64
	X, Y   float64
	VX, VY float64
	Life   float64 // remaining ticks
	Damage int
	Owner  Side
	Source uint64
	Tag    string // renderer hint
	Procs  []config.ProcDefinition
}

// Angle is the direction of travel.
func (p Projectile) Angle() float64 {
	return math.Atan2(p.VY, p.VX)
}

func (p Projectile) speed() float64 {
	return math.Hypot(p.VX, p.VY)
}
