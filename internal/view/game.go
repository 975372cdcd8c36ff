// Package view drives the simulation from an ebiten window and draws its
// snapshots.
package view

import (
	"fmt"
	"math"
	"sort"
	"time"

	"ashgrove/internal/clock"
	"ashgrove/internal/config"
	"ashgrove/internal/fx"
	"ashgrove/internal/quests"
	"ashgrove/internal/savestate"
	"ashgrove/internal/sim"
	"ashgrove/internal/telemetry"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

const (
	quickSlot     = 1
	messageTicks  = 150
	reportEvery   = 5 * time.Second
	hurtFlashTick = 8
)

// Game implements ebiten.Game on top of a sim.World.
type Game struct {
	cfg     *config.Config
	world   *sim.World
	quests  *quests.Tracker
	clock   *clock.Clock
	monitor *telemetry.TickMonitor
	log     *zap.Logger

	snap sim.Snapshot
	cam  camera

	message      string
	messageTimer int
	hurtFlash    int
	showQuests   bool
	lastReport   time.Time
}

// NewGame wires a world to the window. tracker may be nil.
func NewGame(cfg *config.Config, world *sim.World, tracker *quests.Tracker, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		cfg:        cfg,
		world:      world,
		quests:     tracker,
		clock:      clock.New(cfg.NominalInterval(), cfg.Sim.MaxStepMultiplier, nil),
		monitor:    telemetry.NewTickMonitor(cfg.NominalInterval()),
		log:        logger,
		cam:        camera{width: float64(cfg.Display.ScreenWidth), height: float64(cfg.Display.ScreenHeight)},
		showQuests: true,
		lastReport: time.Now(),
	}
	return g
}

// Monitor exposes the tick monitor.
func (g *Game) Monitor() *telemetry.TickMonitor {
	return g.monitor
}

// Update advances the simulation by one wall-clock step.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleMetaKeys()

	in := g.buildInput(readInputState())
	step := g.clock.Tick()

	timer := g.monitor.StartTick()
	g.snap = g.world.Tick(step, in)
	timer.EndTick()
	g.monitor.UpdateLoad(len(g.snap.Enemies), len(g.snap.Projectiles), len(g.snap.Texts))

	g.consumeCues()
	if g.messageTimer > 0 {
		g.messageTimer--
	}
	if time.Since(g.lastReport) >= reportEvery {
		g.monitor.Report(g.log)
		g.lastReport = time.Now()
	}
	return nil
}

// Layout keeps a fixed logical resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Display.ScreenWidth, g.cfg.Display.ScreenHeight
}

func (g *Game) handleMetaKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.save(quickSlot)
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		g.load(quickSlot)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		if g.snap.PlayerDead {
			g.world.Respawn()
			g.say("You rise again")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		g.showQuests = !g.showQuests
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.claimQuests()
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.cycleWeapon()
	}
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageTimer = messageTicks
}

func (g *Game) save(slot int) {
	path := savestate.SlotPath(slot)
	s, err := savestate.SaveFile(path, g.world.Export())
	if err != nil {
		g.log.Error("save failed", zap.String("path", path), zap.Error(err))
		g.say("Save failed")
		return
	}
	g.log.Info("game saved", zap.String("path", path), zap.String("id", s.ID))
	g.say(fmt.Sprintf("Saved to slot %d", slot))
}

func (g *Game) load(slot int) {
	path := savestate.SlotPath(slot)
	s, err := savestate.LoadFile(path)
	if err == nil {
		err = g.world.Restore(s)
	}
	if err != nil {
		g.log.Error("load failed", zap.String("path", path), zap.Error(err))
		g.say("Load failed")
		return
	}
	g.say(fmt.Sprintf("Loaded slot %d", slot))
}

func (g *Game) claimQuests() {
	if g.quests == nil {
		return
	}
	ids := g.quests.Claimable()
	if len(ids) == 0 {
		g.say("No rewards to claim")
		return
	}
	for _, id := range ids {
		rewards, err := g.quests.ClaimRewards(id)
		if err != nil {
			g.log.Warn("claim failed", zap.String("quest", id), zap.Error(err))
			continue
		}
		g.world.Grant(rewards.Gold, rewards.Experience)
		g.log.Info("quest rewards claimed", zap.String("quest", id),
			zap.Int("gold", rewards.Gold), zap.Int("xp", rewards.Experience))
	}
	g.say(fmt.Sprintf("Claimed %d quest reward(s)", len(ids)))
}

// cycleWeapon equips the next carried weapon in key order.
func (g *Game) cycleWeapon() {
	p := g.world.Player()
	key := nextWeapon(g.cfg, p.WeaponKey, p.Inventory)
	if key == "" || key == p.WeaponKey {
		return
	}
	if g.world.Equip(key) {
		if def, ok := g.cfg.GetWeapon(key); ok {
			g.say("Equipped " + def.Name)
		}
	}
}

func nextWeapon(cfg *config.Config, current string, inventory map[string]int) string {
	var carried []string
	for key := range cfg.Weapons {
		if key == current || inventory[key] > 0 {
			carried = append(carried, key)
		}
	}
	if len(carried) == 0 {
		return ""
	}
	sort.Strings(carried)
	for i, key := range carried {
		if key == current {
			return carried[(i+1)%len(carried)]
		}
	}
	return carried[0]
}

func (g *Game) consumeCues() {
	for _, cue := range g.snap.Cues {
		if cue == fx.CueHurt {
			g.hurtFlash = hurtFlashTick
		}
	}
	if g.hurtFlash > 0 {
		g.hurtFlash--
	}
	for _, d := range g.snap.Declined {
		g.say(fmt.Sprintf("Cannot %s: %s", d.Action, d.Reason))
	}
}

// inputState is the raw device state for one frame.
type inputState struct {
	up, down, left, right bool
	sprint                bool
	attack, dodge, ult    bool
	slot                  int
	cursorX, cursorY      int
}

func readInputState() inputState {
	s := inputState{
		up:     ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		down:   ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		left:   ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		right:  ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		sprint: ebiten.IsKeyPressed(ebiten.KeyShift),
		attack: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		dodge:  inpututil.IsKeyJustPressed(ebiten.KeySpace),
		ult:    inpututil.IsKeyJustPressed(ebiten.KeyR),
	}
	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if inpututil.IsKeyJustPressed(key) {
			s.slot = i + 1
		}
	}
	s.cursorX, s.cursorY = ebiten.CursorPosition()
	return s
}

// buildInput turns device state into a simulation input, aiming from the
// player's last known position toward the cursor.
func (g *Game) buildInput(s inputState) sim.Input {
	in := sim.Input{
		Sprint:   s.sprint,
		Attack:   s.attack,
		Dodge:    s.dodge,
		Ultimate: s.ult,
		UseSlot:  s.slot,
		Aim:      g.snap.Player.Aim,
	}
	if s.left {
		in.MoveX--
	}
	if s.right {
		in.MoveX++
	}
	if s.up {
		in.MoveY--
	}
	if s.down {
		in.MoveY++
	}
	wx, wy := g.cam.toWorld(s.cursorX, s.cursorY)
	dx, dy := wx-g.snap.Player.X, wy-g.snap.Player.Y
	if dx != 0 || dy != 0 {
		in.Aim = math.Atan2(dy, dx)
	}
	return in
}

// Run opens the window and blocks until it closes.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.cfg.Display.ScreenWidth, g.cfg.Display.ScreenHeight)
	ebiten.SetWindowTitle(g.cfg.Display.WindowTitle)
	if g.cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(g.cfg.GetTPS())
	return ebiten.RunGame(g)
}
