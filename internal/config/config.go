package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all simulation tuning values
type Config struct {
	Display     DisplayConfig                   `yaml:"display"`
	Sim         SimConfig                       `yaml:"sim"`
	Player      PlayerConfig                    `yaml:"player"`
	Combat      CombatConfig                    `yaml:"combat"`
	AI          AIConfig                        `yaml:"ai"`
	Boss        BossConfig                      `yaml:"boss"`
	Skills      map[string]SkillDefinition      `yaml:"skills"`
	Weapons     map[string]WeaponDefinition     `yaml:"weapons"`
	Consumables map[string]ConsumableDefinition `yaml:"consumables"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

type SimConfig struct {
	TickRate          int     `yaml:"tick_rate"`           // nominal ticks per second
	MaxStepMultiplier float64 `yaml:"max_step_multiplier"` // dt cap after a stall
	DOTIntervalMs     int     `yaml:"dot_interval_ms"`     // wall-clock cadence of damage over time
	TileSize          float64 `yaml:"tile_size"`
	CellSize          float64 `yaml:"cell_size"` // spatial index bucket size
	TextPoolSize      int     `yaml:"text_pool_size"`
	TextLifetime      float64 `yaml:"text_lifetime"` // ticks
	StartZone         string  `yaml:"start_zone"`
	Seed              int64   `yaml:"seed"` // 0 = time based
}

type PlayerConfig struct {
	MaxHealth        int            `yaml:"max_health"`
	MaxStamina       float64        `yaml:"max_stamina"`
	Speed            float64        `yaml:"speed"`               // world units per tick
	SprintMultiplier float64        `yaml:"sprint_multiplier"`
	SprintCost       float64        `yaml:"sprint_cost"`         // stamina per tick
	StaminaRegen     float64        `yaml:"stamina_regen"`
	Armor            int            `yaml:"armor"`
	Width            float64        `yaml:"width"`
	Height           float64        `yaml:"height"`
	CombatDelay      float64        `yaml:"combat_delay"`        // ticks without combat before regen starts
	RegenPerTick     float64        `yaml:"regen_per_tick"`      // health per tick while idle
	DodgeDuration    float64        `yaml:"dodge_duration"`
	DodgeSpeed       float64        `yaml:"dodge_speed"`
	DodgeCost        float64        `yaml:"dodge_cost"`
	AttackDuration   float64        `yaml:"attack_duration"`     // swing length in ticks
	AttackConnect    float64        `yaml:"attack_connect"`      // ticks into the swing where the hit lands
	UltimateCharge   int            `yaml:"ultimate_charge"`     // damage dealt needed to fill the meter
	UltimateDuration float64        `yaml:"ultimate_duration"`
	UltimateDamage   float64        `yaml:"ultimate_damage"`     // damage multiplier while active
	UltimateSteal    float64        `yaml:"ultimate_life_steal"` // fraction of damage healed
	XPPerLevel       int            `yaml:"xp_per_level"`
	LevelHealth      int            `yaml:"level_health"`        // max health gained per level
	StartingWeapon   string         `yaml:"starting_weapon"`
	ConsumableSlots  []string       `yaml:"consumable_slots"`
	StartingItems    map[string]int `yaml:"starting_items"`
	PickupRadius     float64        `yaml:"pickup_radius"`
}

type CombatConfig struct {
	MeleeHalfAngleDeg  float64 `yaml:"melee_half_angle_deg"`
	CritMultiplier     float64 `yaml:"crit_multiplier"`
	ProjectileRadius   float64 `yaml:"projectile_radius"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"`
	KnockbackDecay     float64 `yaml:"knockback_decay"` // per nominal tick
	KnockbackEpsilon   float64 `yaml:"knockback_epsilon"`
	StunThreshold      float64 `yaml:"stun_threshold"`
	PlayerKnockback    float64 `yaml:"player_knockback"` // impulse applied to the player by enemy hits
	ComboTimeout       float64 `yaml:"combo_timeout"`
	ComboStep          float64 `yaml:"combo_step"`
	ComboCap           float64 `yaml:"combo_cap"`
	HazardCooldown     float64 `yaml:"hazard_cooldown"`
	DestructibleChance float64 `yaml:"destructible_loot_chance"`
	DestructibleGold   [2]int  `yaml:"destructible_gold"`
}

type AIConfig struct {
	AggroGrace            float64 `yaml:"aggro_grace"` // ticks of pursuit after losing range
	LeashDistance         float64 `yaml:"leash_distance"`
	PatrolRadius          float64 `yaml:"patrol_radius"`
	PatrolAngularSpeed    float64 `yaml:"patrol_angular_speed"` // radians per tick
	PatrolSpeedMultiplier float64 `yaml:"patrol_speed_multiplier"`
	ReturnSpeedMultiplier float64 `yaml:"return_speed_multiplier"`
	ReturnRegenPerTick    float64 `yaml:"return_regen_per_tick"`
	HomeArriveDistance    float64 `yaml:"home_arrive_distance"`
	SpecialChance         float64 `yaml:"special_chance"` // per tick while eligible
	AttackCooldown        float64 `yaml:"attack_cooldown"`
	TeleportChance        float64 `yaml:"teleport_chance"`
	TeleportCooldown      float64 `yaml:"teleport_cooldown"`
	TeleportBehind        float64 `yaml:"teleport_behind"`
	TeleportAttackGrant   float64 `yaml:"teleport_attack_grant"`
}

type BossConfig struct {
	EnrageThreshold          float64 `yaml:"enrage_threshold"` // health fraction
	EnrageChanceMultiplier   float64 `yaml:"enrage_chance_multiplier"`
	EnrageCooldownMultiplier float64 `yaml:"enrage_cooldown_multiplier"`
	EnrageSpeedMultiplier    float64 `yaml:"enrage_speed_multiplier"`
	MinionSpread             float64 `yaml:"minion_spread"`
}

// SkillDefinition describes how much each level of a skill contributes.
type SkillDefinition struct {
	Name     string           `yaml:"name"`
	MaxLevel int              `yaml:"max_level"`
	PerLevel SkillBonusValues `yaml:"per_level"`
}

type SkillBonusValues struct {
	Damage          float64 `yaml:"damage"`
	CritChance      float64 `yaml:"crit_chance"`
	CritMultiplier  float64 `yaml:"crit_multiplier"`
	DodgeChance     float64 `yaml:"dodge_chance"`
	DamageReduction float64 `yaml:"damage_reduction"`
	KnockbackResist float64 `yaml:"knockback_resist"`
	MaxHealth       int     `yaml:"max_health"`
	Speed           float64 `yaml:"speed"`
	Regen           float64 `yaml:"regen"`
	Knockback       float64 `yaml:"knockback"`
}

type WeaponDefinition struct {
	Name            string           `yaml:"name"`
	Damage          int              `yaml:"damage"`
	StaminaCost     float64          `yaml:"stamina_cost"`
	Range           float64          `yaml:"range"`
	Cooldown        float64          `yaml:"cooldown"`
	Ranged          bool             `yaml:"ranged"`
	ProjectileSpeed float64          `yaml:"projectile_speed"`
	Procs           []ProcDefinition `yaml:"procs"`
}

// ProcDefinition is a weapon on-hit status roll.
type ProcDefinition struct {
	Status     string  `yaml:"status"`
	Chance     float64 `yaml:"chance"`
	Duration   float64 `yaml:"duration"`
	TickDamage int     `yaml:"tick_damage"`
}

type ConsumableDefinition struct {
	Name    string   `yaml:"name"`
	Heal    int      `yaml:"heal"`
	Stamina float64  `yaml:"stamina"`
	Cures   []string `yaml:"cures"`
}

// LoadConfig decodes a YAML file on top of Defaults, so the file only has to
// name the values it changes.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig is LoadConfig for in-memory YAML.
func ParseConfig(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Validate checks cross references between sections.
func (c *Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Sim.CellSize <= 0 || c.Sim.TileSize <= 0 {
		return fmt.Errorf("sim.cell_size and sim.tile_size must be positive")
	}
	cb := c.Combat
	if cb.KnockbackDecay < 0 || cb.KnockbackDecay >= 1 {
		return fmt.Errorf("combat.knockback_decay must be in [0,1), got %v", cb.KnockbackDecay)
	}
	if cb.KnockbackEpsilon <= 0 {
		return fmt.Errorf("combat.knockback_epsilon must be positive, got %v", cb.KnockbackEpsilon)
	}
	if cb.ComboTimeout <= 0 {
		return fmt.Errorf("combat.combo_timeout must be positive, got %v", cb.ComboTimeout)
	}
	if cb.MeleeHalfAngleDeg <= 0 || cb.MeleeHalfAngleDeg > 180 {
		return fmt.Errorf("combat.melee_half_angle_deg must be in (0,180], got %v", cb.MeleeHalfAngleDeg)
	}
	if cb.DestructibleGold[0] < 0 {
		return fmt.Errorf("combat.destructible_gold minimum must not be negative, got %d", cb.DestructibleGold[0])
	}
	if _, ok := c.Weapons[c.Player.StartingWeapon]; !ok {
		return fmt.Errorf("player.starting_weapon %q is not defined in weapons", c.Player.StartingWeapon)
	}
	for _, slot := range c.Player.ConsumableSlots {
		if _, ok := c.Consumables[slot]; !ok {
			return fmt.Errorf("consumable slot %q is not defined in consumables", slot)
		}
	}
	return nil
}

// GetTPS returns the nominal tick rate.
func (c *Config) GetTPS() int {
	if c.Sim.TickRate <= 0 {
		return 60
	}
	return c.Sim.TickRate
}

// NominalInterval is the duration of one nominal tick.
func (c *Config) NominalInterval() time.Duration {
	return time.Second / time.Duration(c.GetTPS())
}

// DOTInterval is the wall-clock cadence of damage-over-time pulses.
func (c *Config) DOTInterval() time.Duration {
	if c.Sim.DOTIntervalMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Sim.DOTIntervalMs) * time.Millisecond
}

// GetWeapon returns a weapon definition by key.
func (c *Config) GetWeapon(key string) (*WeaponDefinition, bool) {
	def, ok := c.Weapons[key]
	if !ok {
		return nil, false
	}
	return &def, true
}

// GetSkill returns a skill definition by key.
func (c *Config) GetSkill(key string) (*SkillDefinition, bool) {
	def, ok := c.Skills[key]
	if !ok {
		return nil, false
	}
	return &def, true
}

// SkillKeys returns all skill keys sorted.
func (c *Config) SkillKeys() []string {
	keys := make([]string, 0, len(c.Skills))
	for k := range c.Skills {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
