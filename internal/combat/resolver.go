package combat

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"ashgrove/internal/actor"
	"ashgrove/internal/collision"
	"ashgrove/internal/config"
	"ashgrove/internal/enemy"
	"ashgrove/internal/fx"
	"ashgrove/internal/mathutil"
	"ashgrove/internal/player"
	"ashgrove/internal/status"
	"ashgrove/internal/terrain"
)

// Sink receives everything combat produces besides direct damage and
// knockback. The simulation world implements it.
type Sink interface {
	Text(x, y float64, value string, tag fx.Tag)
	Cue(name string)
	Killed(e *enemy.Enemy, xp int)
	StatusApplied(targetID uint64, kind status.Kind, onPlayer bool)
	Summon(minion string, points []enemy.Point)
	Destroyed(tileX, tileY int, x, y float64)
	Enraged(e *enemy.Enemy)
	PlayerDied()
}

// Resolver is the only place where one entity changes another's health or
// knockback.
type Resolver struct {
	cfg  config.CombatConfig
	ai   config.AIConfig
	boss config.BossConfig

	rng      *rand.Rand
	sink     Sink
	terrain  *collision.Resolver
	ids      *actor.IDSource
	halfArc  float64
	lifetime float64

	projectiles []Projectile
	Combo       Combo
}

// NewResolver builds a resolver from the loaded configuration.
func NewResolver(cfg *config.Config, rng *rand.Rand, sink Sink, res *collision.Resolver, ids *actor.IDSource) *Resolver {
	return &Resolver{
		cfg:      cfg.Combat,
		ai:       cfg.AI,
		boss:     cfg.Boss,
		rng:      rng,
		sink:     sink,
		terrain:  res,
		ids:      ids,
		halfArc:  cfg.Combat.MeleeHalfAngleDeg * math.Pi / 180,
		lifetime: cfg.Combat.ProjectileLifetime,
		Combo: Combo{
			Timeout: cfg.Combat.ComboTimeout,
			Step:    cfg.Combat.ComboStep,
			Cap:     cfg.Combat.ComboCap,
		},
	}
}

// Projectiles returns a copy of the in-flight projectiles.
func (r *Resolver) Projectiles() []Projectile {
	out := make([]Projectile, len(r.projectiles))
	copy(out, r.projectiles)
	return out
}

// ProjectileCount is the number of projectiles in flight.
func (r *Resolver) ProjectileCount() int {
	return len(r.projectiles)
}

// ClearProjectiles drops every projectile, used on zone transitions.
func (r *Resolver) ClearProjectiles() {
	r.projectiles = r.projectiles[:0]
}

// PlayerDamage applies the outgoing damage formula:
// floor(base × (1 + skill damage)), then crit, then the active buff.
func (r *Resolver) PlayerDamage(p *player.Player, base int) (int, bool) {
	b := p.Skills.Bonus()
	d := math.Floor(float64(base) * (1 + b.DamageMult))
	crit := false
	if b.CritChance > 0 && r.rng.Float64() < b.CritChance {
		d *= r.cfg.CritMultiplier + b.CritMult
		crit = true
	}
	if p.BuffTimer > 0 && p.DamageBuff > 0 {
		d *= 1 + p.DamageBuff
	}
	return mathutil.IntMax(1, int(math.Floor(d))), crit
}

// InArc reports whether a point lies inside the forward melee arc.
func (r *Resolver) InArc(p *player.Player, x, y float64) bool {
	dx, dy := x-p.X, y-p.Y
	if math.Hypot(dx, dy) < 1e-6 {
		return true
	}
	return mathutil.AngleDiff(math.Atan2(dy, dx), p.Aim) <= r.halfArc
}

// PlayerMelee resolves the connect frame of a melee swing against every
// live enemy in range and inside the arc. It returns the number of hits.
func (r *Resolver) PlayerMelee(p *player.Player, enemies []*enemy.Enemy) int {
	if !p.Alive() {
		return 0
	}
	hits := 0
	reach := p.Weapon.Range
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		radius := math.Max(e.W, e.H) / 2
		if p.DistanceTo(e.X, e.Y)-radius > reach || !r.InArc(p, e.X, e.Y) {
			continue
		}
		r.hitEnemy(p, e, p.Weapon.Damage, p.X, p.Y, p.Weapon.Procs)
		hits++
	}
	r.breakInFront(p, reach)
	if hits == 0 {
		r.sink.Cue(fx.CueSwing)
	}
	return hits
}

// breakInFront clears a destructible tile at the tip of the swing.
func (r *Resolver) breakInFront(p *player.Player, reach float64) {
	d, ok := r.terrain.Terrain().(terrain.Destructible)
	if !ok {
		return
	}
	x := p.X + math.Cos(p.Aim)*reach*0.75
	y := p.Y + math.Sin(p.Aim)*reach*0.75
	tx, ty := r.terrain.TileAt(x, y)
	if d.IsDestructible(tx, ty) && d.Clear(tx, ty) {
		r.sink.Cue(fx.CueBreak)
		r.sink.Destroyed(tx, ty, x, y)
	}
}

// hitEnemy applies one player hit: damage formula, life steal, knockback,
// aggro, status procs and the boss phase check.
func (r *Resolver) hitEnemy(p *player.Player, e *enemy.Enemy, base int, fromX, fromY float64, procs []config.ProcDefinition) {
	if !e.Alive() {
		return
	}
	dmg, crit := r.PlayerDamage(p, base)
	dealt, died := e.Damage(dmg)
	p.MarkCombat()
	p.AddUltimateCharge(dealt)

	tag, cue := fx.TagDamage, fx.CueHit
	if crit {
		tag, cue = fx.TagCrit, fx.CueCrit
	}
	r.sink.Text(e.X, e.Y-e.H/2, strconv.Itoa(dealt), tag)
	r.sink.Cue(cue)

	if p.BuffTimer > 0 && p.LifeSteal > 0 && dealt > 0 {
		if healed := p.Heal(mathutil.IntMax(1, int(float64(dealt)*p.LifeSteal))); healed > 0 {
			r.sink.Text(p.X, p.Y-p.H/2, "+"+strconv.Itoa(healed), fx.TagHeal)
		}
	}

	if died {
		r.kill(p, e)
		return
	}

	nx, ny, ok := mathutil.Normalize(e.X-fromX, e.Y-fromY)
	if !ok {
		nx, ny = math.Cos(p.Aim), math.Sin(p.Aim)
	}
	force := e.Arch.Knockback * (1 + p.Skills.Bonus().KnockbackBonus)
	e.Push(nx*force, ny*force)
	e.Provoke(r.ai.AggroGrace)

	for _, proc := range procs {
		if proc.Chance <= 0 || r.rng.Float64() >= proc.Chance {
			continue
		}
		kind, err := status.ParseKind(proc.Status)
		if err != nil {
			continue
		}
		e.Effects.Apply(status.Effect{Kind: kind, Remaining: proc.Duration, TickDamage: proc.TickDamage})
		r.sink.StatusApplied(e.ID, kind, false)
		r.sink.Text(e.X, e.Y-e.H, strings.ToUpper(kind.String()), fx.TagStatus)
	}

	r.checkEnrage(e)
}

func (r *Resolver) checkEnrage(e *enemy.Enemy) {
	if e.CheckEnrage(r.boss.EnrageThreshold) {
		r.announceEnrage(e)
	}
}

func (r *Resolver) announceEnrage(e *enemy.Enemy) {
	r.sink.Cue(fx.CueEnrage)
	r.sink.Text(e.X, e.Y-e.H, "ENRAGED", fx.TagInfo)
	r.sink.Enraged(e)
}

// kill handles the death edge of an enemy: combo, experience, feedback.
func (r *Resolver) kill(p *player.Player, e *enemy.Enemy) {
	e.CancelWindup()
	mult := r.Combo.Kill()
	xp := int(math.Floor(float64(e.Arch.XP) * mult))
	r.sink.Cue(fx.CueKill)
	if r.Combo.Count > 1 {
		r.sink.Text(e.X, e.Y-e.H, "x"+strconv.Itoa(r.Combo.Count), fx.TagInfo)
	}
	if levels := p.GainXP(xp); levels > 0 {
		r.sink.Cue(fx.CueLevelUp)
		r.sink.Text(p.X, p.Y-p.H, "LEVEL "+strconv.Itoa(p.Level), fx.TagInfo)
	}
	r.sink.Killed(e, xp)
}

// DamageEnemy applies non-player damage (status pulses, hazards) to an
// enemy. A kill still counts for the combo and experience.
func (r *Resolver) DamageEnemy(p *player.Player, e *enemy.Enemy, amount int, tag fx.Tag) {
	if !e.Alive() || amount <= 0 {
		return
	}
	dealt, died := e.Damage(amount)
	r.sink.Text(e.X, e.Y-e.H/2, strconv.Itoa(dealt), tag)
	if died {
		r.kill(p, e)
		return
	}
	r.checkEnrage(e)
}

// DamagePlayer applies non-enemy damage (status pulses, hazards). Damage
// reduction and dodging do not apply.
func (r *Resolver) DamagePlayer(p *player.Player, amount int, tag fx.Tag) {
	if !p.Alive() || amount <= 0 {
		return
	}
	dealt, died := p.Damage(amount)
	p.MarkCombat()
	r.sink.Text(p.X, p.Y-p.H/2, "-"+strconv.Itoa(dealt), tag)
	if died {
		r.playerDied()
	}
}

func (r *Resolver) playerDied() {
	r.sink.Cue(fx.CueDeath)
	r.sink.PlayerDied()
}

// hitPlayer applies an enemy hit to the player.
func (r *Resolver) hitPlayer(p *player.Player, src *enemy.Enemy, base int, fromX, fromY, push float64) {
	if !p.Alive() {
		return
	}
	dealt, died, evaded := p.TakeHit(base, r.rng)
	if evaded {
		r.sink.Text(p.X, p.Y-p.H/2, "dodge", fx.TagInfo)
		r.sink.Cue(fx.CueDodge)
		return
	}
	r.sink.Text(p.X, p.Y-p.H/2, "-"+strconv.Itoa(dealt), fx.TagHurt)
	r.sink.Cue(fx.CueHurt)
	if died {
		r.playerDied()
		return
	}

	if push <= 0 {
		push = r.cfg.PlayerKnockback
	}
	if nx, ny, ok := mathutil.Normalize(p.X-fromX, p.Y-fromY); ok {
		p.PushBack(nx*push, ny*push)
	}

	if src == nil {
		return
	}
	if kind, proc, ok := src.Arch.OnHitStatus(); ok && proc.Chance > 0 && r.rng.Float64() < proc.Chance {
		p.Effects.Apply(status.Effect{Kind: kind, Remaining: proc.Duration, TickDamage: proc.TickDamage})
		r.sink.StatusApplied(p.ID, kind, true)
		r.sink.Text(p.X, p.Y-p.H, strings.ToUpper(kind.String()), fx.TagStatus)
	}
}

// ResolveIntent carries out one enemy intent. Intents from dead or
// despawned enemies are skipped.
func (r *Resolver) ResolveIntent(in enemy.Intent, src *enemy.Enemy, p *player.Player) {
	if src == nil || !src.Alive() {
		return
	}
	reach := p.W / 2

	switch in.Kind {
	case enemy.IntentMelee:
		if p.DistanceTo(src.X, src.Y) <= src.Arch.AttackRange+reach {
			r.hitPlayer(p, src, in.Damage, src.X, src.Y, in.Knockback)
		}

	case enemy.IntentStrike:
		cue := fx.CueLunge
		if in.Special == enemy.SpecialPounce {
			cue = fx.CuePounce
		}
		r.sink.Cue(cue)
		if p.DistanceTo(in.X, in.Y) <= in.Radius+reach {
			r.hitPlayer(p, src, in.Damage, in.X, in.Y, in.Knockback)
		}

	case enemy.IntentArea:
		r.sink.Cue(fx.CueSlam)
		if p.DistanceTo(in.X, in.Y) <= in.Radius+reach {
			r.hitPlayer(p, src, in.Damage, in.X, in.Y, in.Knockback)
		}

	case enemy.IntentShot:
		r.spawn(in.X, in.Y, in.Angle, in.Speed, in.Damage, SideEnemy, src.ID, "bolt", nil)

	case enemy.IntentVolley:
		n := mathutil.IntMax(1, in.Count)
		for i := 0; i < n; i++ {
			angle := in.Angle
			if n > 1 {
				angle += in.Spread * (float64(i)/float64(n-1) - 0.5)
			}
			r.spawn(in.X, in.Y, angle, in.Speed, in.Damage, SideEnemy, src.ID, "spine", nil)
		}
		r.sink.Cue(fx.CueShoot)

	case enemy.IntentSummon:
		r.sink.Cue(fx.CueSummon)
		r.sink.Summon(in.Minion, in.Points)

	case enemy.IntentBuff:
		r.sink.Cue(fx.CueRoar)
		r.sink.Text(src.X, src.Y-src.H, "FRENZY", fx.TagInfo)

	case enemy.IntentTeleport:
		r.sink.Cue(fx.CueTeleport)

	case enemy.IntentEnrage:
		r.announceEnrage(src)
	}
}

// SpawnPlayerProjectile fires the equipped ranged weapon along the aim.
func (r *Resolver) SpawnPlayerProjectile(p *player.Player) {
	if !p.Alive() {
		return
	}
	r.spawn(p.X, p.Y, p.Aim, p.Weapon.ProjectileSpeed, p.Weapon.Damage, SidePlayer, p.ID, "arrow", p.Weapon.Procs)
	r.sink.Cue(fx.CueShoot)
}

func (r *Resolver) spawn(x, y, angle, speed float64, damage int, owner Side, source uint64, tag string, procs []config.ProcDefinition) {
	if !mathutil.Finite(angle) || speed <= 0 {
		return
	}
	r.projectiles = append(r.projectiles, Projectile{
		ID:     r.ids.Next(),
		X:      x,
		Y:      y,
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		Life:   r.lifetime,
		Damage: damage,
		Owner:  owner,
		Source: source,
		Tag:    tag,
		Procs:  procs,
	})
}

// AdvanceProjectiles moves every projectile by velocity×dt in sub-steps no
// longer than the hit radius, resolving walls, destructibles and targets.
func (r *Resolver) AdvanceProjectiles(p *player.Player, enemies []*enemy.Enemy, dt float64) {
	destructible, _ := r.terrain.Terrain().(terrain.Destructible)
	radius := r.cfg.ProjectileRadius
	kept := r.projectiles[:0]
	for _, proj := range r.projectiles {
		if r.advance(&proj, p, enemies, dt, radius, destructible) {
			kept = append(kept, proj)
		}
	}
	r.projectiles = kept
}

// advance reports whether the projectile survives the tick.
func (r *Resolver) advance(proj *Projectile, p *player.Player, enemies []*enemy.Enemy, dt, radius float64, d terrain.Destructible) bool {
	travel := proj.speed() * dt
	steps := 1
	if radius > 0 && travel > radius {
		steps = int(math.Ceil(travel / radius))
	}
	sub := dt / float64(steps)
	for i := 0; i < steps; i++ {
		proj.X += proj.VX * sub
		proj.Y += proj.VY * sub

		tx, ty := r.terrain.TileAt(proj.X, proj.Y)
		if d != nil && d.IsDestructible(tx, ty) {
			if d.Clear(tx, ty) {
				r.sink.Cue(fx.CueBreak)
				r.sink.Destroyed(tx, ty, proj.X, proj.Y)
			}
			return false
		}
		if r.terrain.Terrain() != nil && r.terrain.Terrain().IsSolid(tx, ty) {
			return false
		}

		if proj.Owner == SidePlayer {
			for _, e := range enemies {
				if !e.Alive() || e.DistanceTo(proj.X, proj.Y) > radius+math.Max(e.W, e.H)/2 {
					continue
				}
				r.hitEnemy(p, e, proj.Damage, proj.X-proj.VX, proj.Y-proj.VY, proj.Procs)
				return false
			}
		} else if p.Alive() && !p.Immune() && p.DistanceTo(proj.X, proj.Y) <= radius+p.W/2 {
			// a dodging player is passed through, not struck
			r.hitPlayer(p, findEnemy(enemies, proj.Source), proj.Damage, proj.X-proj.VX, proj.Y-proj.VY, 0)
			return false
		}
	}
	proj.Life -= dt
	return proj.Life > 0
}

func findEnemy(enemies []*enemy.Enemy, id uint64) *enemy.Enemy {
	for _, e := range enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}
