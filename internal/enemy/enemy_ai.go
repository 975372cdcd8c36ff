package enemy

import (
	"math"
	"math/rand"

	"ashgrove/internal/collision"
	"ashgrove/internal/config"
	"ashgrove/internal/kinematics"
	"ashgrove/internal/mathutil"
	"ashgrove/internal/status"
)

// Target is the view of the player the AI reacts to.
type Target struct {
	X, Y               float64
	HeadingX, HeadingY float64 // current movement direction, zero when standing
	Alive              bool
}

// Neighborhood answers spatial queries over the live roster.
type Neighborhood interface {
	Near(x, y, radius float64, dst []*Enemy) []*Enemy
}

// Context is everything Think reads besides the enemy itself.
type Context struct {
	Resolver  *collision.Resolver
	Rng       *rand.Rand
	AI        config.AIConfig
	Boss      config.BossConfig
	Combat    config.CombatConfig
	Target    Target
	Neighbors Neighborhood
	Now       float64 // simulation time in ticks
}

// Think advances the enemy by one tick and returns the actions it wants
// resolved. A single dispatch on State drives every transition.
func (e *Enemy) Think(ctx *Context, dt float64) []Intent {
	if !e.Alive() {
		return nil
	}
	var intents []Intent

	e.StateTimer += dt
	e.tickTimers(dt)
	if e.CheckEnrage(ctx.Boss.EnrageThreshold) {
		intents = append(intents, Intent{Kind: IntentEnrage, Source: e.ID, X: e.X, Y: e.Y})
	}

	// A windup is a commitment and holds its ground: knockback is absorbed.
	if e.Windup.Active {
		e.KnockX, e.KnockY = 0, 0
		e.Windup.Remaining -= dt
		if e.Windup.Remaining <= 0 {
			intents = append(intents, e.executeSpecial(ctx)...)
		}
		return intents
	}

	kinematics.StepKnockback(&e.Actor, ctx.Resolver, dt, ctx.Combat.KnockbackDecay, ctx.Combat.KnockbackEpsilon)
	if e.KnockbackMagnitude() > ctx.Combat.StunThreshold {
		e.setState(StateStunned)
		return intents
	}
	if e.State == StateStunned {
		if ctx.Target.Alive {
			e.setState(StateChase)
		} else {
			e.setState(StateReturning)
		}
	}

	switch e.State {
	case StatePatrol:
		e.updatePatrol(ctx, dt)
	case StateChase:
		intents = append(intents, e.updateChase(ctx, dt)...)
	case StateReturning:
		e.updateReturning(ctx, dt)
	}
	return intents
}

func (e *Enemy) tickTimers(dt float64) {
	e.AggroTimer = math.Max(0, e.AggroTimer-dt)
	e.AttackCooldown = math.Max(0, e.AttackCooldown-dt)
	e.TeleportCooldown = math.Max(0, e.TeleportCooldown-dt)
	for i := range e.SpecialCooldowns {
		e.SpecialCooldowns[i] = math.Max(0, e.SpecialCooldowns[i]-dt)
	}
	if e.SpeedBuffTimer > 0 {
		e.SpeedBuffTimer -= dt
		if e.SpeedBuffTimer <= 0 {
			e.SpeedBuffTimer = 0
			e.SpeedBuff = 0
		}
	}
}

func (e *Enemy) distanceToTarget(ctx *Context) float64 {
	return e.DistanceTo(ctx.Target.X, ctx.Target.Y)
}

// updatePatrol orbits the home anchor until the player comes into range.
func (e *Enemy) updatePatrol(ctx *Context, dt float64) {
	if ctx.Target.Alive && e.distanceToTarget(ctx) <= e.Arch.AggroRange {
		e.aggro(ctx)
		return
	}
	e.PatrolAngle = mathutil.WrapAngle(e.PatrolAngle + ctx.AI.PatrolAngularSpeed*dt)
	px := e.HomeX + math.Cos(e.PatrolAngle)*e.PatrolRadius
	py := e.HomeY + math.Sin(e.PatrolAngle)*e.PatrolRadius
	kinematics.WalkToward(&e.Actor, ctx.Resolver, px, py, e.speed(ctx.Boss)*ctx.AI.PatrolSpeedMultiplier*dt)
}

// aggro starts a chase and alerts pack members nearby.
func (e *Enemy) aggro(ctx *Context) {
	e.AggroTimer = ctx.AI.AggroGrace
	e.setState(StateChase)
	if e.Arch.PackRadius <= 0 || ctx.Neighbors == nil {
		return
	}
	for _, ally := range ctx.Neighbors.Near(e.X, e.Y, e.Arch.PackRadius, nil) {
		if ally == e || ally.State != StatePatrol {
			continue
		}
		ally.AggroTimer = ctx.AI.AggroGrace
		ally.setState(StateChase)
	}
}

func (e *Enemy) updateChase(ctx *Context, dt float64) []Intent {
	if !ctx.Target.Alive {
		e.setState(StateReturning)
		return nil
	}
	if mathutil.Distance(e.HomeX, e.HomeY, ctx.Target.X, ctx.Target.Y) > ctx.AI.LeashDistance {
		e.AggroTimer = 0
		e.setState(StateReturning)
		return nil
	}
	dist := e.distanceToTarget(ctx)
	if dist <= e.Arch.AggroRange {
		e.AggroTimer = ctx.AI.AggroGrace
	} else if e.AggroTimer <= 0 {
		e.setState(StateReturning)
		return nil
	}

	if in, ok := e.tryTeleport(ctx, dt, dist); ok {
		return []Intent{in}
	}
	if e.tryStartSpecial(ctx, dt, dist) {
		return nil
	}

	step := e.speed(ctx.Boss) * dt
	dx, dy := (ctx.Target.X-e.X)/math.Max(dist, 1e-9), (ctx.Target.Y-e.Y)/math.Max(dist, 1e-9)

	if e.Arch.Ranged {
		switch {
		case dist < e.Arch.MinRange:
			kinematics.Walk(&e.Actor, ctx.Resolver, -dx, -dy, step)
		case dist > e.Arch.PreferredRange:
			kinematics.Walk(&e.Actor, ctx.Resolver, dx, dy, step)
		}
		if dist <= e.Arch.AttackRange && e.AttackCooldown <= 0 && ctx.Resolver.LineOfSight(e.X, e.Y, ctx.Target.X, ctx.Target.Y) {
			e.AttackCooldown = e.attackCooldown(ctx)
			return []Intent{{
				Kind:   IntentShot,
				Source: e.ID,
				X:      e.X,
				Y:      e.Y,
				Angle:  math.Atan2(ctx.Target.Y-e.Y, ctx.Target.X-e.X),
				Damage: e.Arch.Damage,
				Speed:  e.Arch.ProjectileSpeed,
			}}
		}
		return nil
	}

	if dist > e.Arch.AttackRange*0.8 {
		kinematics.Walk(&e.Actor, ctx.Resolver, dx, dy, step)
	}
	if dist <= e.Arch.AttackRange && e.AttackCooldown <= 0 {
		e.AttackCooldown = e.attackCooldown(ctx)
		return []Intent{{
			Kind:      IntentMelee,
			Source:    e.ID,
			X:         e.X,
			Y:         e.Y,
			Damage:    e.Arch.Damage,
			Knockback: e.Arch.Push,
		}}
	}
	return nil
}

func (e *Enemy) attackCooldown(ctx *Context) float64 {
	cd := ctx.AI.AttackCooldown
	if e.Enraged && ctx.Boss.EnrageCooldownMultiplier > 0 {
		cd *= ctx.Boss.EnrageCooldownMultiplier
	}
	return cd
}

// updateReturning walks home slowly, regenerating on the way. Only being
// struck pulls the enemy back into the fight.
func (e *Enemy) updateReturning(ctx *Context, dt float64) {
	step := e.speed(ctx.Boss) * ctx.AI.ReturnSpeedMultiplier * dt
	left := kinematics.WalkToward(&e.Actor, ctx.Resolver, e.HomeX, e.HomeY, step)

	if !e.Effects.Has(status.Poison) && e.HP < e.MaxHP {
		e.regenAcc += ctx.AI.ReturnRegenPerTick * dt
		if whole := int(e.regenAcc); whole > 0 {
			e.Heal(whole)
			e.regenAcc -= float64(whole)
		}
	}

	if left <= ctx.AI.HomeArriveDistance {
		e.regenAcc = 0
		e.PatrolAngle = math.Atan2(e.Y-e.HomeY, e.X-e.HomeX)
		e.setState(StatePatrol)
	}
}

// tryTeleport relocates a teleport-capable enemy behind the player's
// heading when it sits in its mid-distance band.
func (e *Enemy) tryTeleport(ctx *Context, dt, dist float64) (Intent, bool) {
	if !e.Arch.Teleport || e.TeleportCooldown > 0 {
		return Intent{}, false
	}
	if dist < e.Arch.TeleportMin || dist > e.Arch.TeleportMax {
		return Intent{}, false
	}
	if ctx.Rng.Float64() >= ctx.AI.TeleportChance*dt {
		return Intent{}, false
	}

	hx, hy, ok := mathutil.Normalize(ctx.Target.HeadingX, ctx.Target.HeadingY)
	if !ok {
		// standing still: treat the player as facing us and land on the far side
		hx, hy, ok = mathutil.Normalize(e.X-ctx.Target.X, e.Y-ctx.Target.Y)
		if !ok {
			return Intent{}, false
		}
	}
	destX := ctx.Target.X - hx*ctx.AI.TeleportBehind
	destY := ctx.Target.Y - hy*ctx.AI.TeleportBehind
	if ctx.Resolver.Blocked(collision.NewBoundingBox(destX, destY, e.W, e.H)) {
		return Intent{}, false
	}

	fromX, fromY := e.X, e.Y
	e.X, e.Y = destX, destY
	e.KnockX, e.KnockY = 0, 0
	e.TeleportCooldown = ctx.AI.TeleportCooldown
	e.AttackCooldown = ctx.AI.TeleportAttackGrant
	return Intent{Kind: IntentTeleport, Source: e.ID, X: fromX, Y: fromY, Points: []Point{{X: destX, Y: destY}}}, true
}

// tryStartSpecial rolls for a special attack and begins its windup.
func (e *Enemy) tryStartSpecial(ctx *Context, dt, dist float64) bool {
	if len(e.Arch.Specials) == 0 {
		return false
	}
	var eligible [8]int
	candidates := eligible[:0]
	total := 0.0
	for i, sp := range e.Arch.Specials {
		if e.SpecialCooldowns[i] > 0 {
			continue
		}
		if sp.Kind.targetsPlayer() && dist > sp.Range {
			continue
		}
		candidates = append(candidates, i)
		total += sp.Weight
	}
	if len(candidates) == 0 {
		return false
	}

	chance := ctx.AI.SpecialChance * dt
	if e.Enraged && ctx.Boss.EnrageChanceMultiplier > 0 {
		chance *= ctx.Boss.EnrageChanceMultiplier
	}
	if ctx.Rng.Float64() >= chance {
		return false
	}

	pick := candidates[len(candidates)-1]
	roll := ctx.Rng.Float64() * total
	for _, i := range candidates {
		roll -= e.Arch.Specials[i].Weight
		if roll < 0 {
			pick = i
			break
		}
	}
	e.startWindup(ctx, pick)
	return true
}

func (e *Enemy) startWindup(ctx *Context, index int) {
	sp := e.Arch.Specials[index]
	tx, ty := e.X, e.Y
	if sp.Kind.targetsPlayer() {
		tx, ty = ctx.Target.X, ctx.Target.Y
	}
	e.Windup = Windup{
		Active:    true,
		Special:   index,
		Kind:      sp.Kind,
		StartedAt: ctx.Now,
		Duration:  sp.Windup,
		Remaining: sp.Windup,
		TargetX:   tx,
		TargetY:   ty,
	}
	cd := sp.Cooldown
	if e.Enraged && ctx.Boss.EnrageCooldownMultiplier > 0 {
		cd *= ctx.Boss.EnrageCooldownMultiplier
	}
	e.SpecialCooldowns[index] = cd
	e.setState(StateWindup)
}
