package kinematics

import (
	"math"

	"ashgrove/internal/actor"
	"ashgrove/internal/collision"
	"ashgrove/internal/mathutil"
)

// Box returns the collision box of an actor at its current position.
func Box(a *actor.Actor) collision.BoundingBox {
	return collision.NewBoundingBox(a.X, a.Y, a.W, a.H)
}

// ClampDirection limits a direction vector to unit length. Shorter vectors
// are kept so analog input can walk slowly; a full diagonal becomes 1/√2 per
// axis.
func ClampDirection(x, y float64) (float64, float64) {
	x, y = mathutil.Sanitize(x), mathutil.Sanitize(y)
	l := math.Hypot(x, y)
	if l <= 1 {
		return x, y
	}
	return x / l, y / l
}

// Walk moves an actor by dir×distance with axis-separated collision.
func Walk(a *actor.Actor, r *collision.Resolver, dirX, dirY, distance float64) (hitX, hitY bool) {
	dirX, dirY = ClampDirection(dirX, dirY)
	distance = mathutil.Sanitize(distance)
	if distance <= 0 || (dirX == 0 && dirY == 0) {
		return false, false
	}
	a.X, a.Y, hitX, hitY = r.Move(Box(a), dirX*distance, dirY*distance)
	return hitX, hitY
}

// WalkToward steps an actor toward a point, never overshooting it. It
// returns the remaining distance.
func WalkToward(a *actor.Actor, r *collision.Resolver, tx, ty, distance float64) float64 {
	dist := a.DistanceTo(tx, ty)
	if dist <= 1e-9 {
		return 0
	}
	if distance > dist {
		distance = dist
	}
	Walk(a, r, (tx-a.X)/dist, (ty-a.Y)/dist, distance)
	return a.DistanceTo(tx, ty)
}

// StepKnockback applies one tick of knockback. The blocked axis loses its
// velocity, the rest decays by decay^dt and snaps to zero below eps.
func StepKnockback(a *actor.Actor, r *collision.Resolver, dt, decay, eps float64) {
	if !mathutil.Finite(a.KnockX) || !mathutil.Finite(a.KnockY) {
		a.KnockX, a.KnockY = 0, 0
		return
	}
	if a.KnockX == 0 && a.KnockY == 0 {
		return
	}
	var hitX, hitY bool
	a.X, a.Y, hitX, hitY = r.Move(Box(a), a.KnockX*dt, a.KnockY*dt)
	if hitX {
		a.KnockX = 0
	}
	if hitY {
		a.KnockY = 0
	}
	decay = mathutil.Clamp(decay, 0, 1)
	f := math.Pow(decay, dt)
	a.KnockX *= f
	a.KnockY *= f
	if a.KnockbackMagnitude() < eps {
		a.KnockX, a.KnockY = 0, 0
	}
}

// Dodge is a fixed-duration constant-velocity burst.
type Dodge struct {
	Active     bool
	Remaining  float64
	DirX, DirY float64
}

// Start begins a burst in the given direction. A degenerate direction is
// rejected.
func (d *Dodge) Start(dirX, dirY, duration float64) bool {
	nx, ny, ok := mathutil.Normalize(dirX, dirY)
	if !ok || duration <= 0 {
		return false
	}
	d.Active = true
	d.Remaining = duration
	d.DirX, d.DirY = nx, ny
	return true
}

// Step moves the actor along the captured direction. A blocked axis is
// zeroed for the rest of the burst.
func (d *Dodge) Step(a *actor.Actor, r *collision.Resolver, speed, dt float64) {
	if !d.Active {
		return
	}
	step := dt
	if step > d.Remaining {
		step = d.Remaining
	}
	var hitX, hitY bool
	a.X, a.Y, hitX, hitY = r.Move(Box(a), d.DirX*speed*step, d.DirY*speed*step)
	if hitX {
		d.DirX = 0
	}
	if hitY {
		d.DirY = 0
	}
	d.Remaining -= dt
	if d.Remaining <= 0 {
		d.Cancel()
	}
}

func (d *Dodge) Cancel() {
	*d = Dodge{}
}
