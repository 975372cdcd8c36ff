// Package sim glues the simulation components into one per-tick update.
package sim

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"ashgrove/internal/actor"
	"ashgrove/internal/clock"
	"ashgrove/internal/collision"
	"ashgrove/internal/combat"
	"ashgrove/internal/config"
	"ashgrove/internal/enemy"
	"ashgrove/internal/fx"
	"ashgrove/internal/kinematics"
	"ashgrove/internal/loot"
	"ashgrove/internal/player"
	"ashgrove/internal/spatial"
	"ashgrove/internal/status"
	"ashgrove/internal/terrain"
	"ashgrove/internal/zone"

	"go.uber.org/zap"
)

// ProgressHook receives fire-and-forget progress events.
type ProgressHook interface {
	OnKill(archetypeID int)
	OnStatus(kind status.Kind, onPlayer bool)
	OnLoot(archetypeID int, drop loot.Drop)
}

// MarkerStore is implemented by hooks whose progress is persisted with the
// save state.
type MarkerStore interface {
	Markers() map[string]int
	RestoreMarkers(map[string]int)
}

type nopHook struct{}

func (nopHook) OnKill(int)                 {}
func (nopHook) OnStatus(status.Kind, bool) {}
func (nopHook) OnLoot(int, loot.Drop)      {}

// Assets are the loaded data tables the world is built from.
type Assets struct {
	Archetypes *enemy.Table
	Loot       *loot.Config
	Zones      *zone.Config
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithRand injects the random source used by every probabilistic path.
func WithRand(r *rand.Rand) Option {
	return func(w *World) {
		if r != nil {
			w.rng = r
		}
	}
}

// WithProgressHook registers the quest/progress collaborator.
func WithProgressHook(h ProgressHook) Option {
	return func(w *World) {
		w.SetProgressHook(h)
	}
}

type pendingSpawn struct {
	arch *enemy.Archetype
	x, y float64
}

// World owns every simulated entity. It is not safe for concurrent use; one
// Tick runs to completion before the next.
type World struct {
	cfg    *config.Config
	assets Assets
	log    *zap.Logger
	rng    *rand.Rand
	hook   ProgressHook

	ids     actor.IDSource
	player  *player.Player
	enemies []*enemy.Enemy
	bags    []Bag
	pending []pendingSpawn
	killed  []*enemy.Enemy

	zoneKey string
	zoneDef *zone.Definition
	grid    *terrain.Grid
	res     *collision.Resolver
	index   *spatial.Grid
	scratch []spatial.Entry

	combat *combat.Resolver
	loot   *loot.Generator
	texts  *fx.TextPool
	cues   fx.CueQueue

	tick       uint64
	now        float64
	dotEvery   time.Duration
	declined   []Declined
	playerDead bool
}

// New builds a world and enters the configured start zone.
func New(cfg *config.Config, assets Assets, opts ...Option) (*World, error) {
	if assets.Archetypes == nil || assets.Zones == nil {
		return nil, fmt.Errorf("world needs archetypes and zones")
	}
	w := &World{
		cfg:      cfg,
		assets:   assets,
		log:      zap.NewNop(),
		rng:      rand.New(rand.NewSource(seed(cfg))),
		hook:     nopHook{},
		res:      collision.NewResolver(nil, cfg.Sim.TileSize),
		index:    spatial.New(cfg.Sim.CellSize),
		loot:     loot.NewGenerator(),
		texts:    fx.NewTextPool(cfg.Sim.TextPoolSize, cfg.Sim.TextLifetime),
		dotEvery: cfg.DOTInterval(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.bindLoot(); err != nil {
		return nil, err
	}
	if err := assets.Zones.CheckArchetypes(func(key string) bool {
		_, err := assets.Archetypes.ByKey(key)
		return err == nil
	}); err != nil {
		return nil, err
	}

	w.player = player.New(w.ids.Next(), 0, 0, cfg)
	w.combat = combat.NewResolver(cfg, w.rng, worldSink{w}, w.res, &w.ids)

	if err := w.EnterZone(cfg.Sim.StartZone); err != nil {
		return nil, err
	}
	return w, nil
}

func seed(cfg *config.Config) int64 {
	if cfg.Sim.Seed != 0 {
		return cfg.Sim.Seed
	}
	return time.Now().UnixNano()
}

// bindLoot registers each archetype's loot table under its integer id.
func (w *World) bindLoot() error {
	for _, key := range w.assets.Archetypes.Keys() {
		arch, _ := w.assets.Archetypes.ByKey(key)
		if arch.Loot == "" {
			continue
		}
		if w.assets.Loot == nil {
			return fmt.Errorf("archetype %q names loot table %q but no loot tables are loaded", key, arch.Loot)
		}
		t, ok := w.assets.Loot.Tables[arch.Loot]
		if !ok {
			return fmt.Errorf("archetype %q names unknown loot table %q", key, arch.Loot)
		}
		w.loot.Register(arch.ID, t)
	}
	return nil
}

// SetProgressHook replaces the progress collaborator. nil disables it.
func (w *World) SetProgressHook(h ProgressHook) {
	if h == nil {
		h = nopHook{}
	}
	w.hook = h
}

// EnterZone discards the roster, projectiles and bags, builds a fresh grid
// and spawns the zone's table. Pending windups die with their enemies.
func (w *World) EnterZone(key string) error {
	def, err := w.assets.Zones.Get(key)
	if err != nil {
		return err
	}
	grid, err := def.BuildGrid()
	if err != nil {
		return fmt.Errorf("zone %q: %w", key, err)
	}

	w.zoneKey = key
	w.zoneDef = def
	w.grid = grid
	w.res.SetTerrain(grid)
	w.enemies = w.enemies[:0]
	w.bags = w.bags[:0]
	w.pending = w.pending[:0]
	w.killed = w.killed[:0]
	w.combat.ClearProjectiles()
	w.combat.Combo.Reset()

	p := w.player
	p.X, p.Y = def.Start(w.cfg.Sim.TileSize)
	p.KnockX, p.KnockY = 0, 0
	p.Dodge.Cancel()

	for _, s := range def.Spawns {
		arch, err := w.assets.Archetypes.ByKey(s.Archetype)
		if err != nil {
			return fmt.Errorf("zone %q: %w", key, err)
		}
		centre := s
		centre.Count, centre.Spread = 1, 0
		fallback := centre.Positions(w.cfg.Sim.TileSize)[0]
		for _, pt := range s.Positions(w.cfg.Sim.TileSize) {
			x, y := pt.X, pt.Y
			if w.res.Blocked(collision.NewBoundingBox(x, y, arch.Width, arch.Height)) {
				x, y = fallback.X, fallback.Y
			}
			w.addEnemy(arch, x, y)
		}
	}

	w.log.Info("entered zone",
		zap.String("zone", key),
		zap.String("name", def.Name),
		zap.Int("enemies", len(w.enemies)))
	return nil
}

func (w *World) addEnemy(arch *enemy.Archetype, x, y float64) *enemy.Enemy {
	e := enemy.New(w.ids.Next(), arch, x, y, w.cfg.AI, w.rng)
	w.enemies = append(w.enemies, e)
	return e
}

// Respawn revives a dead player at the zone start.
func (w *World) Respawn() {
	if !w.playerDead {
		return
	}
	if err := w.EnterZone(w.zoneKey); err != nil {
		w.log.Error("respawn failed", zap.Error(err))
		return
	}
	w.player.Revive(w.player.MaxHP)
	w.player.Stamina = w.player.MaxStamina
	w.playerDead = false
}

// Near implements enemy.Neighborhood over the spatial index built this tick.
func (w *World) Near(x, y, radius float64, dst []*enemy.Enemy) []*enemy.Enemy {
	w.scratch = w.index.Query(x, y, radius, w.scratch[:0])
	for _, en := range w.scratch {
		if en.Index < len(w.enemies) {
			if e := w.enemies[en.Index]; e.ID == en.ID && e.Alive() {
				dst = append(dst, e)
			}
		}
	}
	return dst
}

func (w *World) rebuildIndex() {
	w.index.Reset()
	for i, e := range w.enemies {
		if e.Alive() {
			w.index.Insert(spatial.Entry{ID: e.ID, Index: i, X: e.X, Y: e.Y})
		}
	}
}

// Tick advances the simulation by one step in a fixed order: player input
// and kinematics, spatial index, AI, combat, status, hazards, deaths and
// loot, then the snapshot.
func (w *World) Tick(step clock.Step, in Input) Snapshot {
	p := w.player
	in = SanitizeInput(in, len(p.ConsumableSlots()))
	dt := step.DT
	if dt < 0 {
		dt = 0
	}
	w.tick++
	w.now += dt
	w.declined = w.declined[:0]
	level := p.Level

	if p.Alive() {
		w.playerActions(in)
		p.Update(player.Controls{MoveX: in.MoveX, MoveY: in.MoveY, Sprint: in.Sprint, Aim: in.Aim}, w.res, dt)
		kinematics.StepKnockback(&p.Actor, w.res, dt, w.cfg.Combat.KnockbackDecay, w.cfg.Combat.KnockbackEpsilon)
	}

	w.rebuildIndex()
	w.updateEnemies(in, dt)

	if p.AdvanceSwing(dt) {
		if p.Weapon.Ranged {
			w.combat.SpawnPlayerProjectile(p)
		} else {
			w.combat.PlayerMelee(p, w.enemies)
		}
	}
	w.combat.AdvanceProjectiles(p, w.enemies, dt)

	w.advanceStatus(step)
	w.applyHazards(dt)
	w.processDeaths()
	w.collectBags()
	w.combat.Combo.Advance(dt)

	if p.Level > level {
		w.log.Info("player levelled up", zap.Int("level", p.Level))
	}
	w.checkExit()
	w.texts.Advance(dt)
	return w.snapshot()
}

func (w *World) playerActions(in Input) {
	p := w.player
	if in.Dodge {
		if r := p.TryDodge(in.MoveX, in.MoveY); r == player.OK {
			w.cues.Push(fx.CueDodge)
		} else {
			w.decline("dodge", r)
		}
	}
	if in.Attack {
		w.decline("attack", p.TryAttack())
	}
	if in.Ultimate {
		if r := p.TryUltimate(); r == player.OK {
			w.cues.Push(fx.CueUltimate)
			w.texts.Spawn(p.X, p.Y-p.H, "UNLEASHED", fx.TagInfo)
		} else {
			w.decline("ultimate", r)
		}
	}
	if in.UseSlot > 0 {
		key, r := p.UseConsumable(in.UseSlot - 1)
		if r == player.OK {
			w.cues.Push(fx.CueDrink)
			if def, ok := w.cfg.Consumables[key]; ok {
				w.texts.Spawn(p.X, p.Y-p.H, def.Name, fx.TagHeal)
			}
		} else {
			w.decline("consumable", r)
		}
	}
}

func (w *World) decline(action string, r player.Result) {
	if !r.Declined() {
		return
	}
	w.declined = append(w.declined, Declined{Action: action, Reason: r.String()})
	w.cues.Push(fx.CueDeclined)
}

func (w *World) updateEnemies(in Input, dt float64) {
	p := w.player
	ctx := &enemy.Context{
		Resolver: w.res,
		Rng:      w.rng,
		AI:       w.cfg.AI,
		Boss:     w.cfg.Boss,
		Combat:   w.cfg.Combat,
		Target: enemy.Target{
			X:        p.X,
			Y:        p.Y,
			HeadingX: in.MoveX,
			HeadingY: in.MoveY,
			Alive:    p.Alive(),
		},
		Neighbors: w,
		Now:       w.now,
	}
	for _, e := range w.enemies {
		for _, intent := range e.Think(ctx, dt) {
			w.combat.ResolveIntent(intent, e, p)
		}
	}
	// Summoned minions join after the pass so the index stays consistent.
	for _, s := range w.pending {
		e := w.addEnemy(s.arch, s.x, s.y)
		e.Provoke(w.cfg.AI.AggroGrace)
	}
	w.pending = w.pending[:0]
}

func (w *World) advanceStatus(step clock.Step) {
	p := w.player
	if p.Alive() {
		if dmg := p.Effects.Advance(step.DT, step.Elapsed, w.dotEvery); dmg > 0 {
			w.combat.DamagePlayer(p, dmg, fx.TagStatus)
		}
	}
	for _, e := range w.enemies {
		if !e.Alive() {
			continue
		}
		if dmg := e.Effects.Advance(step.DT, step.Elapsed, w.dotEvery); dmg > 0 {
			w.combat.DamageEnemy(p, e, dmg, fx.TagStatus)
		}
	}
}

// applyHazards hurts every actor standing on a hazard tile, at most once per
// hazard cooldown.
func (w *World) applyHazards(dt float64) {
	p := w.player
	if p.Alive() {
		if h, ok := w.hazardUnder(&p.Actor, dt); ok {
			w.combat.DamagePlayer(p, h.Damage, hazardTag(h, fx.TagHurt))
			w.afflict(&p.Actor, h, true)
		}
	}
	for _, e := range w.enemies {
		if !e.Alive() {
			continue
		}
		if h, ok := w.hazardUnder(&e.Actor, dt); ok {
			w.combat.DamageEnemy(p, e, h.Damage, hazardTag(h, fx.TagDamage))
			w.afflict(&e.Actor, h, false)
		}
	}
}

// hazardTag shows elemental hazard damage in the status colour.
func hazardTag(h terrain.Hazard, plain fx.Tag) fx.Tag {
	if h.Elemental() {
		return fx.TagStatus
	}
	return plain
}

func (w *World) hazardUnder(a *actor.Actor, dt float64) (terrain.Hazard, bool) {
	if a.HazardCooldown > 0 {
		a.HazardCooldown -= dt
		return terrain.Hazard{}, false
	}
	tx, ty := w.res.TileAt(a.X, a.Y)
	h, ok := w.grid.HazardAt(tx, ty)
	if !ok {
		return terrain.Hazard{}, false
	}
	a.HazardCooldown = w.cfg.Combat.HazardCooldown
	return h, true
}

func (w *World) afflict(a *actor.Actor, h terrain.Hazard, onPlayer bool) {
	if h.Status == 0 || !a.Alive() {
		return
	}
	a.Effects.Apply(status.Effect{Kind: h.Status, Remaining: h.StatusDuration, TickDamage: h.StatusTickDamage})
	w.hook.OnStatus(h.Status, onPlayer)
}

// processDeaths rolls loot for every enemy killed this tick and drops the
// dead from the roster.
func (w *World) processDeaths() {
	for _, e := range w.killed {
		drop := w.loot.Roll(e.Arch.ID, w.rng)
		if !drop.Empty() {
			w.dropBag(e.X, e.Y, drop)
			w.hook.OnLoot(e.Arch.ID, drop)
		}
		w.hook.OnKill(e.Arch.ID)
	}
	w.killed = w.killed[:0]

	alive := w.enemies[:0]
	for _, e := range w.enemies {
		if e.Alive() {
			alive = append(alive, e)
		}
	}
	for i := len(alive); i < len(w.enemies); i++ {
		w.enemies[i] = nil
	}
	w.enemies = alive
}

func (w *World) dropBag(x, y float64, drop loot.Drop) {
	w.bags = append(w.bags, Bag{ID: w.ids.Next(), X: x, Y: y, Drop: drop})
}

func (w *World) collectBags() {
	p := w.player
	if !p.Alive() || len(w.bags) == 0 {
		return
	}
	kept := w.bags[:0]
	for _, b := range w.bags {
		if p.DistanceTo(b.X, b.Y) > p.PickupRadius() {
			kept = append(kept, b)
			continue
		}
		p.Gold += b.Drop.Gold
		if b.Drop.Gold > 0 {
			w.texts.Spawn(b.X, b.Y, "+"+strconv.Itoa(b.Drop.Gold)+"g", fx.TagLoot)
		}
		for _, key := range b.Drop.ItemKeys() {
			p.Inventory[key] += b.Drop.Items[key]
			w.texts.Spawn(b.X, b.Y-8, w.itemName(key), fx.TagLoot)
		}
		w.cues.Push(fx.CuePickup)
	}
	w.bags = kept
}

func (w *World) itemName(key string) string {
	if def, ok := w.cfg.Consumables[key]; ok {
		return def.Name
	}
	if def, ok := w.cfg.GetWeapon(key); ok {
		return def.Name
	}
	return key
}

// Equip switches to a weapon the player carries.
func (w *World) Equip(key string) bool {
	p := w.player
	if p.Inventory[key] <= 0 && p.WeaponKey != key {
		return false
	}
	def, ok := w.cfg.GetWeapon(key)
	if !ok || p.Swinging() {
		return false
	}
	if p.WeaponKey != "" && p.WeaponKey != key {
		p.Inventory[p.WeaponKey]++
		p.Inventory[key]--
		if p.Inventory[key] <= 0 {
			delete(p.Inventory, key)
		}
	}
	p.Equip(key, *def)
	return true
}

// Grant adds reward gold and experience outside the tick, such as a quest
// payout. It returns the number of levels gained.
func (w *World) Grant(gold, xp int) int {
	p := w.player
	if gold > 0 {
		p.Gold += gold
	}
	levels := 0
	if xp > 0 {
		levels = p.GainXP(xp)
	}
	if levels > 0 {
		w.log.Info("level up", zap.Int("level", p.Level), zap.String("source", "reward"))
	}
	if gold > 0 {
		w.texts.Spawn(p.X, p.Y-p.H, "+"+strconv.Itoa(gold)+"g", fx.TagLoot)
	}
	return levels
}

func (w *World) checkExit() {
	p := w.player
	if !p.Alive() {
		return
	}
	tx, ty := w.res.TileAt(p.X, p.Y)
	exit, ok := w.zoneDef.ExitAt(tx, ty)
	if !ok {
		return
	}
	if err := w.EnterZone(exit.To); err != nil {
		w.log.Error("zone transition failed", zap.String("to", exit.To), zap.Error(err))
	}
}

func playerBox(p *player.Player) collision.BoundingBox {
	return kinematics.Box(&p.Actor)
}

// Player returns the live player. Callers outside the tick loop must treat
// it as read-only.
func (w *World) Player() *player.Player {
	return w.player
}

// Enemies returns the live roster.
func (w *World) Enemies() []*enemy.Enemy {
	return w.enemies
}

// Grid returns the terrain of the current zone.
func (w *World) Grid() *terrain.Grid {
	return w.grid
}

// Zone returns the key of the current zone.
func (w *World) Zone() string {
	return w.zoneKey
}

func (w *World) Config() *config.Config {
	return w.cfg
}

func (w *World) snapshot() Snapshot {
	p := w.player
	s := Snapshot{
		Tick:           w.tick,
		Zone:           w.zoneKey,
		Player:         w.playerView(),
		Enemies:        make([]EnemyView, 0, len(w.enemies)),
		Projectiles:    w.combat.Projectiles(),
		Bags:           append([]Bag(nil), w.bags...),
		Texts:          w.texts.Active(nil),
		Cues:           w.cues.Drain(nil),
		Declined:       append([]Declined(nil), w.declined...),
		PlayerDead:     w.playerDead || !p.Alive(),
		Combo:          w.combat.Combo.Count,
		ComboRemaining: w.combat.Combo.Remaining(),
	}
	for _, e := range w.enemies {
		s.Enemies = append(s.Enemies, enemyView(e))
	}
	sort.Slice(s.Enemies, func(i, j int) bool { return s.Enemies[i].ID < s.Enemies[j].ID })
	return s
}

func (w *World) playerView() PlayerView {
	p := w.player
	ult := 0.0
	if w.cfg.Player.UltimateCharge > 0 {
		ult = float64(p.UltimateMeter) / float64(w.cfg.Player.UltimateCharge)
	}
	return PlayerView{
		ID:            p.ID,
		X:             p.X,
		Y:             p.Y,
		W:             p.W,
		H:             p.H,
		Facing:        p.Facing,
		Aim:           p.Aim,
		HP:            p.HP,
		MaxHP:         p.MaxHP,
		Stamina:       p.Stamina,
		MaxStamina:    p.MaxStamina,
		Statuses:      p.Effects.Effects(),
		Dodging:       p.Dodge.Active,
		Swinging:      p.Swinging(),
		SwingProgress: p.SwingProgress(),
		Sprinting:     p.Sprinting,
		Level:         p.Level,
		XP:            p.XP,
		XPToNext:      p.XPToNext(),
		Gold:          p.Gold,
		Weapon:        p.WeaponKey,
		Ultimate:      ult,
		Buffed:        p.BuffTimer > 0,
	}
}

func enemyView(e *enemy.Enemy) EnemyView {
	v := EnemyView{
		ID:        e.ID,
		Archetype: e.Arch.Key,
		Name:      e.Arch.Name,
		Color:     e.Arch.Color,
		X:         e.X,
		Y:         e.Y,
		W:         e.W,
		H:         e.H,
		Facing:    e.Facing,
		State:     e.State.String(),
		Health:    e.HealthFraction(),
		Statuses:  e.Effects.Kinds(),
		Boss:      e.Arch.Boss,
		Enraged:   e.Enraged,
	}
	if e.Windup.Active {
		v.Windup = true
		v.WindupKind = e.Windup.Kind.String()
		v.WindupProgress = e.Windup.Progress()
		v.WindupX, v.WindupY = e.Windup.TargetX, e.Windup.TargetY
		if sp := e.Windup.Special; sp >= 0 && sp < len(e.Arch.Specials) {
			v.WindupRadius = e.Arch.Specials[sp].Radius
		}
	}
	return v
}

// worldSink routes combat side effects into the world.
type worldSink struct {
	w *World
}

func (s worldSink) Text(x, y float64, value string, tag fx.Tag) {
	s.w.texts.Spawn(x, y, value, tag)
}

func (s worldSink) Cue(name string) {
	s.w.cues.Push(name)
}

func (s worldSink) Killed(e *enemy.Enemy, xp int) {
	s.w.killed = append(s.w.killed, e)
	s.w.log.Debug("enemy killed",
		zap.String("archetype", e.Arch.Key),
		zap.Uint64("id", e.ID),
		zap.Int("xp", xp))
}

func (s worldSink) StatusApplied(targetID uint64, kind status.Kind, onPlayer bool) {
	s.w.hook.OnStatus(kind, onPlayer)
}

func (s worldSink) Summon(minion string, points []enemy.Point) {
	arch, err := s.w.assets.Archetypes.ByKey(minion)
	if err != nil {
		s.w.log.Warn("summon of unknown archetype", zap.String("minion", minion))
		return
	}
	for _, pt := range points {
		s.w.pending = append(s.w.pending, pendingSpawn{arch: arch, x: pt.X, y: pt.Y})
	}
}

func (s worldSink) Destroyed(tileX, tileY int, x, y float64) {
	w := s.w
	c := w.cfg.Combat
	if c.DestructibleChance <= 0 || w.rng.Float64() >= c.DestructibleChance {
		return
	}
	lo, hi := c.DestructibleGold[0], c.DestructibleGold[1]
	if hi < lo {
		hi = lo
	}
	drop := loot.Drop{Gold: lo + w.rng.Intn(hi-lo+1)}
	if drop.Empty() {
		return
	}
	ts := w.cfg.Sim.TileSize
	w.dropBag((float64(tileX)+0.5)*ts, (float64(tileY)+0.5)*ts, drop)
	w.hook.OnLoot(0, drop)
}

func (s worldSink) Enraged(e *enemy.Enemy) {
	s.w.log.Info("boss enraged",
		zap.String("archetype", e.Arch.Key),
		zap.Int("hp", e.HP),
		zap.Int("max_hp", e.MaxHP))
}

func (s worldSink) PlayerDied() {
	s.w.playerDead = true
	s.w.log.Info("player died",
		zap.String("zone", s.w.zoneKey),
		zap.Int("level", s.w.player.Level))
}
