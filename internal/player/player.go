package player

import (
	"math"
	"math/rand"

	"ashgrove/internal/actor"
	"ashgrove/internal/collision"
	"ashgrove/internal/config"
	"ashgrove/internal/kinematics"
	"ashgrove/internal/mathutil"
	"ashgrove/internal/status"
)

// Result is the outcome of a discrete action request.
type Result int

const (
	OK Result = iota
	Busy
	NoStamina
	NotCharged
	Empty
)

// Declined reports whether the result should be surfaced as a declined
// action rather than silently ignored.
func (r Result) Declined() bool {
	return r == NoStamina || r == NotCharged || r == Empty
}

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Busy:
		return "busy"
	case NoStamina:
		return "stamina"
	case NotCharged:
		return "charge"
	case Empty:
		return "empty"
	}
	return "unknown"
}

// Controls is the continuous part of one tick of input.
type Controls struct {
	MoveX, MoveY float64
	Sprint       bool
	Aim          float64
}

// Player is the controllable actor.
type Player struct {
	actor.Actor

	cfg         config.PlayerConfig
	consumables map[string]config.ConsumableDefinition

	Stamina    float64
	MaxStamina float64
	Aim        float64
	Dodge      kinematics.Dodge
	Sprinting  bool

	WeaponKey string
	Weapon    config.WeaponDefinition
	Skills    *Skills

	Level     int
	XP        int
	Gold      int
	Inventory map[string]int

	sinceCombat    float64
	regenAcc       float64
	swing          float64 // remaining ticks of the current attack
	swingConnected bool
	attackCooldown float64

	DamageBuff      float64 // extra outgoing damage fraction while BuffTimer > 0
	LifeSteal       float64
	BuffTimer       float64
	UltimateMeter   int
	TotalDamageDone int
}

// New creates a player at full health with the configured starting kit.
func New(id uint64, x, y float64, cfg *config.Config) *Player {
	pc := cfg.Player
	p := &Player{
		Actor:       actor.New(id, x, y, pc.Width, pc.Height, pc.MaxHealth),
		cfg:         pc,
		consumables: cfg.Consumables,
		Stamina:     pc.MaxStamina,
		MaxStamina:  pc.MaxStamina,
		Skills:      NewSkills(cfg.Skills),
		Level:       1,
		Inventory:   make(map[string]int, len(pc.StartingItems)),
		sinceCombat: pc.CombatDelay,
	}
	for item, n := range pc.StartingItems {
		p.Inventory[item] = n
	}
	if w, ok := cfg.GetWeapon(pc.StartingWeapon); ok {
		p.Equip(pc.StartingWeapon, *w)
	}
	return p
}

// Equip swaps the active weapon.
func (p *Player) Equip(key string, def config.WeaponDefinition) {
	p.WeaponKey = key
	p.Weapon = def
}

// SetSkill changes a skill level and refreshes derived stats.
func (p *Player) SetSkill(key string, level int) bool {
	if !p.Skills.Set(key, level) {
		return false
	}
	p.RefreshStats()
	return true
}

// RefreshStats recomputes max health from level and skills.
func (p *Player) RefreshStats() {
	b := p.Skills.Bonus()
	p.SetMaxHP(p.cfg.MaxHealth + (p.Level-1)*p.cfg.LevelHealth + b.MaxHealth)
}

// Immune reports whether incoming damage is ignored this tick.
func (p *Player) Immune() bool {
	return p.Dodge.Active
}

// MarkCombat resets the out-of-combat regen delay.
func (p *Player) MarkCombat() {
	p.sinceCombat = 0
	p.regenAcc = 0
}

// InCombat reports whether passive regen is still delayed.
func (p *Player) InCombat() bool {
	return p.sinceCombat < p.cfg.CombatDelay
}

// MoveSpeed is the per-tick walking speed before dt scaling.
func (p *Player) MoveSpeed(sprint bool) float64 {
	speed := p.cfg.Speed * (1 + p.Skills.Bonus().SpeedMult)
	if sprint {
		speed *= p.cfg.SprintMultiplier
	}
	if p.Effects.Has(status.Freeze) {
		speed *= 0.5
	}
	return speed
}

// Update advances timers, movement, stamina and regen for one tick.
func (p *Player) Update(ctl Controls, res *collision.Resolver, dt float64) {
	if !p.Alive() {
		return
	}
	p.sinceCombat += dt
	p.attackCooldown = math.Max(0, p.attackCooldown-dt)
	if p.BuffTimer > 0 {
		p.BuffTimer -= dt
		if p.BuffTimer <= 0 {
			p.BuffTimer = 0
			p.DamageBuff = 0
			p.LifeSteal = 0
		}
	}

	p.Aim = mathutil.WrapAngle(ctl.Aim)
	p.Facing = actor.FacingFromAngle(p.Aim)

	moveX, moveY := kinematics.ClampDirection(ctl.MoveX, ctl.MoveY)
	moving := moveX != 0 || moveY != 0
	p.Sprinting = false

	if p.Dodge.Active {
		p.Dodge.Step(&p.Actor, res, p.cfg.DodgeSpeed, dt)
	} else if moving {
		sprint := ctl.Sprint && p.Stamina >= p.cfg.SprintCost*dt
		if sprint {
			p.Stamina -= p.cfg.SprintCost * dt
			p.Sprinting = true
		}
		kinematics.Walk(&p.Actor, res, moveX, moveY, p.MoveSpeed(sprint)*dt)
	}

	if !p.Sprinting && !p.Dodge.Active && p.swing <= 0 {
		p.Stamina = mathutil.Clamp(p.Stamina+p.cfg.StaminaRegen*dt, 0, p.MaxStamina)
	}

	p.regenerate(dt)
}

func (p *Player) regenerate(dt float64) {
	if p.InCombat() || p.Effects.Has(status.Poison) || p.HP >= p.MaxHP {
		p.regenAcc = 0
		return
	}
	p.regenAcc += p.cfg.RegenPerTick * (1 + p.Skills.Bonus().RegenMult) * dt
	if whole := int(p.regenAcc); whole > 0 {
		p.Heal(whole)
		p.regenAcc -= float64(whole)
	}
}

// TryAttack starts a weapon swing.
func (p *Player) TryAttack() Result {
	if !p.Alive() || p.swing > 0 || p.attackCooldown > 0 || p.Dodge.Active {
		return Busy
	}
	if p.Stamina < p.Weapon.StaminaCost {
		return NoStamina
	}
	p.Stamina -= p.Weapon.StaminaCost
	p.swing = p.cfg.AttackDuration
	p.swingConnected = false
	p.attackCooldown = p.Weapon.Cooldown
	p.MarkCombat()
	return OK
}

// Swinging reports whether an attack animation is in progress.
func (p *Player) Swinging() bool {
	return p.swing > 0
}

// SwingProgress is the elapsed fraction of the current swing.
func (p *Player) SwingProgress() float64 {
	if p.cfg.AttackDuration <= 0 || p.swing <= 0 {
		return 0
	}
	return mathutil.Clamp(1-p.swing/p.cfg.AttackDuration, 0, 1)
}

// AdvanceSwing moves the swing forward and reports true exactly once, on
// the tick the weapon connects.
func (p *Player) AdvanceSwing(dt float64) bool {
	if p.swing <= 0 {
		return false
	}
	p.swing -= dt
	if p.swingConnected {
		return false
	}
	if p.cfg.AttackDuration-p.swing >= p.cfg.AttackConnect || p.swing <= 0 {
		p.swingConnected = true
		return true
	}
	return false
}

// TryDodge starts a dodge burst along the movement direction, or the aim
// direction when standing still.
func (p *Player) TryDodge(moveX, moveY float64) Result {
	if !p.Alive() || p.Dodge.Active {
		return Busy
	}
	if p.Stamina < p.cfg.DodgeCost {
		return NoStamina
	}
	dx, dy := moveX, moveY
	if _, _, ok := mathutil.Normalize(dx, dy); !ok {
		dx, dy = math.Cos(p.Aim), math.Sin(p.Aim)
	}
	if !p.Dodge.Start(dx, dy, p.cfg.DodgeDuration) {
		return Busy
	}
	p.Stamina -= p.cfg.DodgeCost
	return OK
}

// AddUltimateCharge feeds damage dealt into the ultimate meter.
func (p *Player) AddUltimateCharge(damage int) {
	if damage <= 0 {
		return
	}
	p.TotalDamageDone += damage
	if p.BuffTimer > 0 {
		return
	}
	p.UltimateMeter = mathutil.IntMin(p.UltimateMeter+damage, p.cfg.UltimateCharge)
}

// UltimateReady reports a full meter.
func (p *Player) UltimateReady() bool {
	return p.cfg.UltimateCharge > 0 && p.UltimateMeter >= p.cfg.UltimateCharge
}

// TryUltimate spends a full meter for a damage and life-steal buff.
func (p *Player) TryUltimate() Result {
	if !p.Alive() || p.BuffTimer > 0 {
		return Busy
	}
	if !p.UltimateReady() {
		return NotCharged
	}
	p.UltimateMeter = 0
	p.DamageBuff = p.cfg.UltimateDamage - 1
	p.LifeSteal = p.cfg.UltimateSteal
	p.BuffTimer = p.cfg.UltimateDuration
	return OK
}

// UseConsumable consumes the item bound to a slot.
func (p *Player) UseConsumable(slot int) (string, Result) {
	if !p.Alive() || slot < 0 || slot >= len(p.cfg.ConsumableSlots) {
		return "", Busy
	}
	key := p.cfg.ConsumableSlots[slot]
	if p.Inventory[key] <= 0 {
		return key, Empty
	}
	def, ok := p.consumables[key]
	if !ok {
		return key, Busy
	}
	p.Inventory[key]--
	if def.Heal > 0 {
		p.Heal(def.Heal)
	}
	if def.Stamina > 0 {
		p.Stamina = mathutil.Clamp(p.Stamina+def.Stamina, 0, p.MaxStamina)
	}
	for _, name := range def.Cures {
		if kind, err := status.ParseKind(name); err == nil {
			p.Effects.Remove(kind)
		}
	}
	return key, OK
}

// IncomingDamage is the amount a hit of base damage deals after damage
// reduction and armor. Never less than 1.
func (p *Player) IncomingDamage(base int) int {
	dr := p.Skills.Bonus().DamageReduction
	return mathutil.IntMax(1, int(math.Floor(float64(base)*(1-dr)))-p.cfg.Armor)
}

// TakeHit applies an enemy hit. Dodging makes the player immune, and the
// dodge-chance skill may evade the hit entirely.
func (p *Player) TakeHit(base int, rng *rand.Rand) (dealt int, died, evaded bool) {
	if !p.Alive() || base <= 0 {
		return 0, false, false
	}
	if p.Immune() {
		return 0, false, true
	}
	p.MarkCombat()
	if chance := p.Skills.Bonus().DodgeChance; chance > 0 && rng.Float64() < chance {
		return 0, false, true
	}
	dealt, died = p.Damage(p.IncomingDamage(base))
	return dealt, died, false
}

// PushBack applies knockback scaled by knockback resistance.
func (p *Player) PushBack(vx, vy float64) {
	if p.Immune() {
		return
	}
	f := 1 - p.Skills.Bonus().KnockbackResist
	p.Push(vx*f, vy*f)
}

// GainXP adds experience and returns the number of levels gained.
func (p *Player) GainXP(xp int) int {
	if xp <= 0 || p.cfg.XPPerLevel <= 0 {
		return 0
	}
	p.XP += xp
	gained := 0
	for p.XP >= p.Level*p.cfg.XPPerLevel {
		p.XP -= p.Level * p.cfg.XPPerLevel
		p.Level++
		gained++
	}
	if gained > 0 {
		p.RefreshStats()
		p.Heal(gained * p.cfg.LevelHealth)
	}
	return gained
}

// XPToNext is the experience needed for the next level.
func (p *Player) XPToNext() int {
	return p.Level * p.cfg.XPPerLevel
}

// PickupRadius is the auto-pickup distance for loot bags.
func (p *Player) PickupRadius() float64 {
	return p.cfg.PickupRadius
}

// ConsumableSlots returns the item key bound to each slot.
func (p *Player) ConsumableSlots() []string {
	return p.cfg.ConsumableSlots
}
