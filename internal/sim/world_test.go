package sim

import (
	"math"
	"math/rand"
	"testing"

	"ashgrove/internal/clock"
	"ashgrove/internal/config"
	"ashgrove/internal/enemy"
	"ashgrove/internal/fx"
	"ashgrove/internal/loot"
	"ashgrove/internal/status"
	"ashgrove/internal/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arenaArchetypes = `
archetypes:
  dummy:
    id: 1
    name: Dummy
    max_health: 5
    damage: 0
    speed: 0
    width: 20
    xp: 10
    loot: dummy
    aggro_range: 0
    attack_range: 0
`

const arenaZones = `
legend:
  ".": {name: grass}
  "#": {name: wall, solid: true}
  "~":
    name: bog
    hazard: {damage: 3, damage_type: nature, status: poison, status_duration: 200}
zones:
  arena:
    name: Arena
    map:
      - "############"
      - "#..........#"
      - "#..@.......#"
      - "#..........#"
      - "#~.........#"
      - "#..........#"
      - "############"
    spawns:
      - {archetype: dummy, x: 4, y: 2}
    exits:
      - {x: 10, y: 5, to: annex}
  annex:
    name: Annex
    map:
      - "#####"
      - "#.@.#"
      - "#####"
    spawns:
      - {archetype: dummy, x: 1, y: 1, count: 2}
`

type recordingHook struct {
	kills    []int
	statuses []status.Kind
	drops    []loot.Drop
	markers  map[string]int
}

func (h *recordingHook) OnKill(id int)                            { h.kills = append(h.kills, id) }
func (h *recordingHook) OnStatus(kind status.Kind, onPlayer bool) { h.statuses = append(h.statuses, kind) }
func (h *recordingHook) OnLoot(id int, drop loot.Drop)            { h.drops = append(h.drops, drop) }
func (h *recordingHook) Markers() map[string]int                  { return h.markers }
func (h *recordingHook) RestoreMarkers(m map[string]int)          { h.markers = m }

func newArena(t *testing.T, tweak func(*config.Config)) (*World, *recordingHook) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Sim.StartZone = "arena"
	if tweak != nil {
		tweak(cfg)
	}
	table, err := enemy.ParseArchetypes([]byte(arenaArchetypes))
	require.NoError(t, err)
	zones, err := zone.Parse([]byte(arenaZones))
	require.NoError(t, err)
	lootCfg := &loot.Config{Tables: map[string]loot.Table{
		"dummy": {Entries: []loot.Entry{{Kind: loot.KindCurrency, Chance: 1, Min: 3, Max: 3}}},
	}}

	hook := &recordingHook{}
	w, err := New(cfg, Assets{Archetypes: table, Loot: lootCfg, Zones: zones},
		WithRand(rand.New(rand.NewSource(7))),
		WithProgressHook(hook))
	require.NoError(t, err)
	return w, hook
}

func step(w *World) clock.Step {
	return clock.FixedStep(1, w.Config().NominalInterval())
}

func TestSanitizeInput(t *testing.T) {
	in := SanitizeInput(Input{MoveX: math.NaN(), MoveY: 1, Aim: math.Inf(1), UseSlot: 9}, 3)
	assert.Equal(t, 0.0, in.MoveX)
	assert.Equal(t, 1.0, in.MoveY)
	assert.Equal(t, 0.0, in.Aim)
	assert.Equal(t, 0, in.UseSlot)

	in = SanitizeInput(Input{MoveX: 3, MoveY: 4, Aim: 4*math.Pi + 0.5, UseSlot: 2}, 3)
	assert.InDelta(t, 0.6, in.MoveX, 1e-9)
	assert.InDelta(t, 0.8, in.MoveY, 1e-9)
	assert.InDelta(t, 0.5, in.Aim, 1e-9)
	assert.Equal(t, 2, in.UseSlot)
}

func TestShippedWorldRunsWithinInvariants(t *testing.T) {
	cfg := config.Defaults()
	cfg.Sim.Seed = 42
	w, err := New(cfg, shipped)
	require.NoError(t, err)
	assert.Equal(t, "glade", w.Zone())

	snap := w.Tick(step(w), Input{})
	assert.Len(t, snap.Enemies, 9)

	for i := 0; i < 600; i++ {
		snap = w.Tick(step(w), Input{Aim: float64(i) * 0.05})
		require.GreaterOrEqual(t, snap.Player.HP, 0)
		require.LessOrEqual(t, snap.Player.HP, snap.Player.MaxHP)
		for _, e := range w.Enemies() {
			require.GreaterOrEqual(t, e.HP, 0)
			require.LessOrEqual(t, e.HP, e.MaxHP)
			require.False(t, math.IsNaN(e.X) || math.IsNaN(e.Y))
		}
	}
}

func TestUnknownLootTableRejected(t *testing.T) {
	table, err := enemy.ParseArchetypes([]byte(arenaArchetypes))
	require.NoError(t, err)
	zones, err := zone.Parse([]byte(arenaZones))
	require.NoError(t, err)
	cfg := config.Defaults()
	cfg.Sim.StartZone = "arena"
	_, err = New(cfg, Assets{Archetypes: table, Loot: &loot.Config{}, Zones: zones})
	assert.ErrorContains(t, err, "unknown loot table")
}

func TestDeclinedAttackWithoutStamina(t *testing.T) {
	w, _ := newArena(t, nil)
	w.Player().Stamina = 0

	snap := w.Tick(step(w), Input{Attack: true})
	assert.Contains(t, snap.Declined, Declined{Action: "attack", Reason: "stamina"})
	assert.Contains(t, snap.Cues, fx.CueDeclined)
	assert.False(t, snap.Player.Swinging)
}

func TestMeleeKillDropsBagAndReportsProgress(t *testing.T) {
	w, hook := newArena(t, nil)
	require.Len(t, w.Enemies(), 1)
	target := w.Enemies()[0]

	w.Tick(step(w), Input{Attack: true})
	for i := 0; i < 20 && len(hook.kills) == 0; i++ {
		w.Tick(step(w), Input{})
	}
	require.Equal(t, []int{1}, hook.kills)
	require.Len(t, hook.drops, 1)
	assert.Equal(t, 3, hook.drops[0].Gold)
	assert.Empty(t, w.Enemies(), "dead enemies leave the roster")
	assert.Equal(t, 10, w.Player().XP)

	snap := w.Tick(step(w), Input{})
	require.Len(t, snap.Bags, 1)
	assert.InDelta(t, target.X, snap.Bags[0].X, 1e-9)

	w.Player().X = target.X - 4
	snap = w.Tick(step(w), Input{})
	assert.Empty(t, snap.Bags)
	assert.Equal(t, 3, w.Player().Gold)
	assert.Contains(t, snap.Cues, fx.CuePickup)
}

func TestHazardDamageRespectsCooldown(t *testing.T) {
	w, hook := newArena(t, nil)
	p := w.Player()
	p.X, p.Y = 48, 144

	snap := w.Tick(step(w), Input{})
	assert.Equal(t, p.MaxHP-3, p.HP)
	assert.True(t, p.Effects.Has(status.Poison))
	var tag fx.Tag = -1
	for _, tx := range snap.Texts {
		if tx.Value == "-3" {
			tag = tx.Tag
		}
	}
	assert.Equal(t, fx.TagStatus, tag, "nature hazard damage uses the status colour")
	assert.Contains(t, hook.statuses, status.Poison)

	for i := 0; i < 50; i++ {
		w.Tick(step(w), Input{})
	}
	assert.Equal(t, p.MaxHP-6, p.HP, "one more hazard hit after the cooldown")
}

func TestStatusDamageIsFrameRateIndependent(t *testing.T) {
	run := func(dt float64, ticks int) int {
		w, _ := newArena(t, nil)
		p := w.Player()
		p.Effects.Apply(status.Effect{Kind: status.Bleed, Remaining: 600, TickDamage: 2})
		s := clock.FixedStep(dt, w.Config().NominalInterval())
		for i := 0; i < ticks; i++ {
			w.Tick(s, Input{})
		}
		return p.HP
	}
	slow := run(3, 40)
	fast := run(1, 120)
	assert.Equal(t, fast, slow)
	assert.Equal(t, 100-6, fast, "three 500ms pulses in two seconds")
}

func TestZoneExitReplacesRoster(t *testing.T) {
	w, _ := newArena(t, nil)
	p := w.Player()
	p.X, p.Y = 10*32+16, 5*32+16

	snap := w.Tick(step(w), Input{})
	assert.Equal(t, "annex", snap.Zone)
	assert.Len(t, w.Enemies(), 2)
	assert.Equal(t, 80.0, p.X)
	assert.Equal(t, 48.0, p.Y)
	assert.Empty(t, snap.Projectiles)
}

func TestSummonedMinionsJoinAfterThePass(t *testing.T) {
	w, _ := newArena(t, nil)
	worldSink{w}.Summon("dummy", []enemy.Point{{X: 240, Y: 112}, {X: 272, Y: 112}})

	snap := w.Tick(step(w), Input{})
	require.Len(t, snap.Enemies, 3)
	chasing := 0
	for _, e := range snap.Enemies {
		if e.State == enemy.StateChase.String() {
			chasing++
		}
	}
	assert.Equal(t, 2, chasing)
}

func TestDestructibleDropsSmallLoot(t *testing.T) {
	w, hook := newArena(t, func(c *config.Config) {
		c.Combat.DestructibleChance = 1
		c.Combat.DestructibleGold = [2]int{2, 2}
	})
	worldSink{w}.Destroyed(5, 3, 0, 0)

	snap := w.Tick(step(w), Input{})
	require.Len(t, snap.Bags, 1)
	assert.Equal(t, 2, snap.Bags[0].Drop.Gold)
	assert.Equal(t, 5*32+16.0, snap.Bags[0].X)
	require.Len(t, hook.drops, 1)
}

func TestPlayerDeathAndRespawn(t *testing.T) {
	w, _ := newArena(t, nil)
	p := w.Player()
	p.HP = 2
	p.X, p.Y = 48, 144

	snap := w.Tick(step(w), Input{})
	require.True(t, snap.PlayerDead)
	assert.Contains(t, snap.Cues, fx.CueDeath)

	w.Tick(step(w), Input{MoveX: 1})
	assert.Equal(t, 48.0, p.X, "dead players do not move")

	w.Respawn()
	snap = w.Tick(step(w), Input{})
	assert.False(t, snap.PlayerDead)
	assert.Equal(t, p.MaxHP, p.HP)
	assert.Equal(t, 0, p.Effects.Len())
}

func TestExportRestoreRoundTrip(t *testing.T) {
	w, hook := newArena(t, nil)
	p := w.Player()
	p.Gold = 77
	p.Level = 3
	p.XP = 5
	p.SetSkill("might", 2)
	p.Inventory["potion"] = 5
	p.HP = 50
	hook.markers = map[string]int{"wolf_hunt": 2}

	saved := w.Export()
	assert.Equal(t, "arena", saved.Zone)
	assert.Equal(t, map[string]int{"wolf_hunt": 2}, saved.Markers)

	w2, hook2 := newArena(t, nil)
	require.NoError(t, w2.Restore(saved))
	q := w2.Player()
	assert.Equal(t, 77, q.Gold)
	assert.Equal(t, 3, q.Level)
	assert.Equal(t, 5, q.XP)
	assert.Equal(t, 2, q.Skills.Level("might"))
	assert.Equal(t, 5, q.Inventory["potion"])
	assert.Equal(t, 50, q.HP)
	assert.Equal(t, 120, q.MaxHP)
	assert.Equal(t, saved.Markers, hook2.markers)

	saved.Zone = "nowhere"
	assert.Error(t, w2.Restore(saved))
}

func TestNearMatchesRoster(t *testing.T) {
	w, _ := newArena(t, nil)
	worldSink{w}.Summon("dummy", []enemy.Point{{X: 300, Y: 150}})
	w.Tick(step(w), Input{})
	w.rebuildIndex()

	near := w.Near(144, 80, 40, nil)
	require.Len(t, near, 1)
	assert.Equal(t, w.Enemies()[0].ID, near[0].ID)
	assert.Len(t, w.Near(144, 80, 1000, nil), 2)
}

func TestGrantRewards(t *testing.T) {
	w, _ := newArena(t, nil)
	p := w.Player()

	levels := w.Grant(25, 130)
	assert.Equal(t, 1, levels)
	assert.Equal(t, 25, p.Gold)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 30, p.XP)

	assert.Equal(t, 0, w.Grant(0, 0))
	assert.Equal(t, 25, p.Gold)
}
