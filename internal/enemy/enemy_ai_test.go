package enemy

import (
	"math"
	"math/rand"
	"testing"

	"ashgrove/internal/collision"
	"ashgrove/internal/config"
	"ashgrove/internal/terrain"
)

// openGround is a walled 50x50 tile field
type openGround struct{}

func (openGround) IsSolid(tileX, tileY int) bool {
	return tileX < 0 || tileY < 0 || tileX >= 50 || tileY >= 50
}

func (openGround) HazardAt(int, int) (terrain.Hazard, bool) {
	return terrain.Hazard{}, false
}

type mockNeighbors struct {
	roster []*Enemy
}

func (m *mockNeighbors) Near(x, y, radius float64, dst []*Enemy) []*Enemy {
	for _, e := range m.roster {
		if math.Hypot(e.X-x, e.Y-y) <= radius {
			dst = append(dst, e)
		}
	}
	return dst
}

func newContext(target Target) *Context {
	cfg := config.Defaults()
	ai := cfg.AI
	ai.SpecialChance = 0
	ai.TeleportChance = 0
	return &Context{
		Resolver: collision.NewResolver(openGround{}, 32),
		Rng:      rand.New(rand.NewSource(3)),
		AI:       ai,
		Boss:     cfg.Boss,
		Combat:   cfg.Combat,
		Target:   target,
	}
}

func spawn(t *testing.T, key string, x, y float64, ctx *Context) *Enemy {
	t.Helper()
	arch, err := testTable.ByKey(key)
	if err != nil {
		t.Fatalf("missing archetype: %v", err)
	}
	return New(1, arch, x, y, ctx.AI, ctx.Rng)
}

// frozenCopy returns an archetype that cannot walk, so distances stay put.
func frozenCopy(t *testing.T, key string) *Archetype {
	t.Helper()
	arch, err := testTable.ByKey(key)
	if err != nil {
		t.Fatalf("missing archetype: %v", err)
	}
	cp := *arch
	cp.Speed = 0
	return &cp
}

func countKind(intents []Intent, kind IntentKind) int {
	n := 0
	for _, in := range intents {
		if in.Kind == kind {
			n++
		}
	}
	return n
}

func TestPatrolStaysNearHome(t *testing.T) {
	ctx := newContext(Target{X: 1500, Y: 1500, Alive: true})
	e := spawn(t, "wolf", 400, 400, ctx)
	for i := 0; i < 2000; i++ {
		e.Think(ctx, 1)
		if e.State != StatePatrol {
			t.Fatalf("expected patrol, got %v", e.State)
		}
		if e.DistanceFromHome() > e.PatrolRadius+e.Arch.Speed+1e-6 {
			t.Fatalf("patrol wandered %.2f from home", e.DistanceFromHome())
		}
	}
}

func TestAggroOnEnteringRange(t *testing.T) {
	ctx := newContext(Target{X: 500, Y: 400, Alive: true})
	e := spawn(t, "wolf", 400, 400, ctx)
	e.Think(ctx, 1)
	if e.State != StateChase {
		t.Fatalf("expected chase, got %v", e.State)
	}
	if e.AggroTimer != ctx.AI.AggroGrace {
		t.Errorf("expected aggro timer %v, got %v", ctx.AI.AggroGrace, e.AggroTimer)
	}
}

func TestAggroGraceSustainsChase(t *testing.T) {
	ctx := newContext(Target{X: 650, Y: 400, Alive: true})
	e := New(1, frozenCopy(t, "wolf"), 400, 400, ctx.AI, ctx.Rng)
	e.Provoke(ctx.AI.AggroGrace)

	for i := 0; i < int(ctx.AI.AggroGrace)-1; i++ {
		e.Think(ctx, 1)
	}
	if e.State != StateChase {
		t.Fatalf("expected chase inside grace window, got %v", e.State)
	}
	e.Think(ctx, 1)
	if e.State != StateReturning {
		t.Errorf("expected return once grace expired, got %v", e.State)
	}
}

func TestLeashForcesReturn(t *testing.T) {
	leash := config.Defaults().AI.LeashDistance
	ctx := newContext(Target{X: 400 + leash + 10, Y: 400, Alive: true})
	e := New(1, frozenCopy(t, "wolf"), 400, 400, ctx.AI, ctx.Rng)
	e.Provoke(10000)
	e.Think(ctx, 1)
	if e.State != StateReturning {
		t.Errorf("expected leash to force return, got %v", e.State)
	}
}

func TestReturningRegeneratesAndArrives(t *testing.T) {
	ctx := newContext(Target{Alive: false})
	e := spawn(t, "wolf", 400, 400, ctx)
	e.X = 500
	e.Damage(10)
	e.setState(StateReturning)

	for i := 0; i < 500 && e.State == StateReturning; i++ {
		e.Think(ctx, 1)
	}
	if e.State != StatePatrol {
		t.Fatalf("expected patrol once home, got %v", e.State)
	}
	if e.DistanceFromHome() > ctx.AI.HomeArriveDistance {
		t.Errorf("expected to be home, %.2f away", e.DistanceFromHome())
	}
	if e.HP <= 20 || e.HP > e.MaxHP {
		t.Errorf("expected regen on the way home, HP %d", e.HP)
	}
}

func TestReturningReaggroesOnlyWhenStruck(t *testing.T) {
	ctx := newContext(Target{X: 400, Y: 430, Alive: true})
	e := spawn(t, "wolf", 400, 400, ctx)
	e.X = 400
	e.Y = 450
	e.HomeY = 200
	e.setState(StateReturning)
	e.Think(ctx, 1)
	if e.State != StateReturning {
		t.Fatalf("expected to keep returning with player nearby, got %v", e.State)
	}
	e.Provoke(ctx.AI.AggroGrace)
	if e.State != StateChase {
		t.Errorf("expected strike to re-aggro, got %v", e.State)
	}
}

func TestWindupUsesCapturedPoint(t *testing.T) {
	ctx := newContext(Target{X: 460, Y: 400, Alive: true})
	ctx.AI.SpecialChance = 1
	e := New(1, frozenCopy(t, "stone_brute"), 400, 400, ctx.AI, ctx.Rng)
	e.Provoke(ctx.AI.AggroGrace)

	e.Think(ctx, 1)
	if e.State != StateWindup || !e.Windup.Active {
		t.Fatalf("expected windup to start, got %v", e.State)
	}
	if e.Windup.TargetX != 460 || e.Windup.TargetY != 400 {
		t.Fatalf("unexpected captured point %v,%v", e.Windup.TargetX, e.Windup.TargetY)
	}

	// the player runs away during the windup
	ctx.Target.X, ctx.Target.Y = 520, 470
	var fired []Intent
	for i := 0; i < int(e.Windup.Duration)+10; i++ {
		fired = append(fired, e.Think(ctx, 1)...)
	}
	if countKind(fired, IntentArea) != 1 {
		t.Fatalf("expected exactly one slam, got %d", countKind(fired, IntentArea))
	}
	for _, in := range fired {
		if in.Kind == IntentArea && (in.X != 460 || in.Y != 400) {
			t.Errorf("slam resolved at live position %v,%v instead of captured point", in.X, in.Y)
		}
	}
}

func TestLungeStrikesAtCapturedPoint(t *testing.T) {
	ctx := newContext(Target{X: 480, Y: 400, Alive: true})
	ctx.AI.SpecialChance = 1
	e := spawn(t, "wolf", 400, 400, ctx)
	e.Provoke(ctx.AI.AggroGrace)
	e.Think(ctx, 1)
	if e.Windup.Kind != SpecialLunge {
		t.Fatalf("expected lunge windup, got %v", e.Windup.Kind)
	}
	ctx.Target.X, ctx.Target.Y = 400, 520

	var strike *Intent
	for i := 0; i < 60 && strike == nil; i++ {
		for _, in := range e.Think(ctx, 1) {
			if in.Kind == IntentStrike {
				in := in
				strike = &in
			}
		}
	}
	if strike == nil {
		t.Fatalf("lunge never fired")
	}
	if math.Abs(strike.X-480) > 1e-6 || math.Abs(strike.Y-400) > 1e-6 {
		t.Errorf("expected strike at captured point (480,400), got (%v,%v)", strike.X, strike.Y)
	}
}

func TestKnockbackStunsAndRecovers(t *testing.T) {
	ctx := newContext(Target{X: 500, Y: 400, Alive: true})
	e := New(1, frozenCopy(t, "wolf"), 400, 400, ctx.AI, ctx.Rng)
	e.Provoke(ctx.AI.AggroGrace)
	e.Push(10, 0)
	e.Think(ctx, 1)
	if e.State != StateStunned {
		t.Fatalf("expected stun while knocked back, got %v", e.State)
	}
	for i := 0; i < 60; i++ {
		e.Think(ctx, 1)
	}
	if e.State != StateChase {
		t.Errorf("expected chase after knockback decays, got %v", e.State)
	}
}

func TestKnockbackDoesNotCancelWindup(t *testing.T) {
	ctx := newContext(Target{X: 460, Y: 400, Alive: true})
	ctx.AI.SpecialChance = 1
	e := New(1, frozenCopy(t, "stone_brute"), 400, 400, ctx.AI, ctx.Rng)
	e.Provoke(ctx.AI.AggroGrace)
	e.Think(ctx, 1)
	e.Push(12, 0)
	e.Think(ctx, 1)
	if e.State != StateWindup || !e.Windup.Active {
		t.Errorf("expected windup to stay committed, got %v", e.State)
	}
	if e.X != 400 || e.Y != 400 {
		t.Errorf("winding up enemy was displaced to (%.2f, %.2f)", e.X, e.Y)
	}
	if e.KnockbackMagnitude() != 0 {
		t.Errorf("expected knockback absorbed during windup, got %v", e.KnockbackMagnitude())
	}
}

func TestRangedBacksAway(t *testing.T) {
	ctx := newContext(Target{X: 450, Y: 400, Alive: true})
	e := spawn(t, "goblin_archer", 400, 400, ctx)
	e.Provoke(ctx.AI.AggroGrace)
	intents := e.Think(ctx, 1)
	if e.X >= 400 {
		t.Errorf("expected archer to back away, x=%v", e.X)
	}
	if countKind(intents, IntentShot) != 1 {
		t.Errorf("expected a shot, got %+v", intents)
	}
}

func TestTeleportBehindHeading(t *testing.T) {
	ctx := newContext(Target{X: 540, Y: 400, HeadingX: 0, HeadingY: 1, Alive: true})
	ctx.AI.TeleportChance = 1
	e := spawn(t, "shade", 400, 400, ctx)
	e.Provoke(ctx.AI.AggroGrace)
	intents := e.Think(ctx, 1)
	if countKind(intents, IntentTeleport) != 1 {
		t.Fatalf("expected teleport, got %+v", intents)
	}
	if e.X != 540 || e.Y != 400-ctx.AI.TeleportBehind {
		t.Errorf("expected to land behind heading, got (%v,%v)", e.X, e.Y)
	}
	if e.AttackCooldown != ctx.AI.TeleportAttackGrant || e.TeleportCooldown != ctx.AI.TeleportCooldown {
		t.Errorf("unexpected cooldowns attack=%v teleport=%v", e.AttackCooldown, e.TeleportCooldown)
	}
}

func TestTeleportRejectsSolidDestination(t *testing.T) {
	ctx := newContext(Target{X: 100, Y: 20, HeadingX: 0, HeadingY: 1, Alive: true})
	ctx.AI.TeleportChance = 1
	e := spawn(t, "shade", 100, 160, ctx)
	e.Provoke(ctx.AI.AggroGrace)
	intents := e.Think(ctx, 1)
	if countKind(intents, IntentTeleport) != 0 {
		t.Errorf("expected teleport into the wall to be rejected")
	}
}

func TestPackAlert(t *testing.T) {
	ctx := newContext(Target{X: 500, Y: 400, Alive: true})
	a := spawn(t, "wolf", 400, 400, ctx)
	b := spawn(t, "wolf", 300, 420, ctx)
	b.ID = 2
	ctx.Neighbors = &mockNeighbors{roster: []*Enemy{a, b}}
	a.Think(ctx, 1)
	if b.State != StateChase {
		t.Errorf("expected pack member to be alerted, got %v", b.State)
	}
}
