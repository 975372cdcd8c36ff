package enemy

import (
	"math"

	"ashgrove/internal/collision"
	"ashgrove/internal/kinematics"
)

const (
	minionSpacing  = 20.0
	minionAttempts = 8
)

// executeSpecial fires the committed windup exactly once, using the point
// captured when it started.
func (e *Enemy) executeSpecial(ctx *Context) []Intent {
	w := e.Windup
	e.Windup = Windup{}
	e.setState(StateChase)
	if w.Special < 0 || w.Special >= len(e.Arch.Specials) {
		return nil
	}
	sp := e.Arch.Specials[w.Special]
	damage := sp.Damage
	if damage <= 0 {
		damage = e.Arch.Damage
	}

	switch w.Kind {
	case SpecialLunge, SpecialPounce:
		e.dash(ctx, w.TargetX, w.TargetY, sp.Range)
		radius := sp.Radius
		if radius <= 0 {
			radius = e.Arch.AttackRange
		}
		return []Intent{{
			Kind:      IntentStrike,
			Special:   w.Kind,
			Source:    e.ID,
			X:         e.X,
			Y:         e.Y,
			Radius:    radius,
			Damage:    damage,
			Knockback: sp.Knockback,
		}}

	case SpecialSlam:
		return []Intent{{
			Kind:      IntentArea,
			Special:   w.Kind,
			Source:    e.ID,
			X:         w.TargetX,
			Y:         w.TargetY,
			Radius:    sp.Radius,
			Damage:    damage,
			Knockback: sp.Knockback,
		}}

	case SpecialVolley:
		speed := sp.Speed
		if speed <= 0 {
			speed = e.Arch.ProjectileSpeed
		}
		return []Intent{{
			Kind:    IntentVolley,
			Special: w.Kind,
			Source:  e.ID,
			X:       e.X,
			Y:       e.Y,
			Angle:   math.Atan2(w.TargetY-e.Y, w.TargetX-e.X),
			Count:   sp.Count,
			Spread:  sp.Spread,
			Speed:   speed,
			Damage:  damage,
		}}

	case SpecialBuff:
		e.SpeedBuff = sp.Speed
		e.SpeedBuffTimer = sp.Duration
		return []Intent{{Kind: IntentBuff, Special: w.Kind, Source: e.ID, X: e.X, Y: e.Y}}

	case SpecialSummon:
		points := e.placeMinions(ctx, sp.Count)
		if len(points) == 0 {
			return nil
		}
		return []Intent{{
			Kind:    IntentSummon,
			Special: w.Kind,
			Source:  e.ID,
			X:       e.X,
			Y:       e.Y,
			Minion:  sp.Minion,
			Count:   len(points),
			Points:  points,
		}}
	}
	return nil
}

// dash moves toward a point in half-tile steps so a long lunge cannot pass
// through a thin wall. It stops at the first blocked step.
func (e *Enemy) dash(ctx *Context, tx, ty, reach float64) {
	stepLen := ctx.Resolver.TileSize() / 2
	for reach > 1e-9 {
		dist := e.DistanceTo(tx, ty)
		if dist <= 1e-9 {
			return
		}
		step := math.Min(stepLen, math.Min(reach, dist))
		hitX, hitY := kinematics.Walk(&e.Actor, ctx.Resolver, (tx-e.X)/dist, (ty-e.Y)/dist, step)
		if hitX && hitY {
			return
		}
		reach -= step
	}
}

// placeMinions picks up to count free spots around the boss, away from walls
// and from enemies already standing there.
func (e *Enemy) placeMinions(ctx *Context, count int) []Point {
	spread := ctx.Boss.MinionSpread
	if spread <= 0 {
		spread = 64
	}
	var points []Point
	var nearby []*Enemy
	for i := 0; i < count; i++ {
		for attempt := 0; attempt < minionAttempts; attempt++ {
			angle := ctx.Rng.Float64() * 2 * math.Pi
			r := spread * (0.5 + 0.5*ctx.Rng.Float64())
			x, y := e.X+math.Cos(angle)*r, e.Y+math.Sin(angle)*r
			if ctx.Resolver.Blocked(collision.NewBoundingBox(x, y, minionSpacing, minionSpacing)) {
				continue
			}
			if ctx.Neighbors != nil {
				nearby = ctx.Neighbors.Near(x, y, minionSpacing, nearby[:0])
				if len(nearby) > 0 {
					continue
				}
			}
			if crowded(points, x, y) {
				continue
			}
			points = append(points, Point{X: x, Y: y})
			break
		}
	}
	return points
}

func crowded(points []Point, x, y float64) bool {
	for _, p := range points {
		if math.Hypot(p.X-x, p.Y-y) < minionSpacing {
			return true
		}
	}
	return false
}
