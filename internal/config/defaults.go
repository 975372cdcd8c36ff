package config

// Defaults returns the built-in tuning. Distances are world units (tile_size
// per tile); durations are nominal ticks unless named otherwise.
func Defaults() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  960,
			ScreenHeight: 640,
			WindowTitle:  "Ashgrove",
			Resizable:    true,
		},
		Sim: SimConfig{
			TickRate:          60,
			MaxStepMultiplier: 3,
			DOTIntervalMs:     500,
			TileSize:          32,
			CellSize:          128,
			TextPoolSize:      64,
			TextLifetime:      45,
			StartZone:         "glade",
		},
		Player: PlayerConfig{
			MaxHealth:        100,
			MaxStamina:       100,
			Speed:            2.2,
			SprintMultiplier: 1.6,
			SprintCost:       0.6,
			StaminaRegen:     0.45,
			Armor:            0,
			Width:            20,
			Height:           20,
			CombatDelay:      180,
			RegenPerTick:     0.05,
			DodgeDuration:    12,
			DodgeSpeed:       6,
			DodgeCost:        25,
			AttackDuration:   18,
			AttackConnect:    8,
			UltimateCharge:   250,
			UltimateDuration: 480,
			UltimateDamage:   1.5,
			UltimateSteal:    0.2,
			XPPerLevel:       100,
			LevelHealth:      10,
			StartingWeapon:   "iron_sword",
			ConsumableSlots:  []string{"potion", "tonic", "antidote"},
			StartingItems:    map[string]int{"potion": 2, "tonic": 1, "antidote": 1},
			PickupRadius:     24,
		},
		Combat: CombatConfig{
			MeleeHalfAngleDeg:  75,
			CritMultiplier:     1.5,
			ProjectileRadius:   14,
			ProjectileLifetime: 120,
			KnockbackDecay:     0.82,
			KnockbackEpsilon:   0.05,
			StunThreshold:      1.0,
			PlayerKnockback:    5,
			ComboTimeout:       180,
			ComboStep:          0.1,
			ComboCap:           2.0,
			HazardCooldown:     45,
			DestructibleChance: 0.35,
			DestructibleGold:   [2]int{1, 4},
		},
		AI: AIConfig{
			AggroGrace:            120,
			LeashDistance:         384,
			PatrolRadius:          48,
			PatrolAngularSpeed:    0.01,
			PatrolSpeedMultiplier: 0.4,
			ReturnSpeedMultiplier: 0.6,
			ReturnRegenPerTick:    0.1,
			HomeArriveDistance:    6,
			SpecialChance:         0.01,
			AttackCooldown:        50,
			TeleportChance:        0.008,
			TeleportCooldown:      300,
			TeleportBehind:        48,
			TeleportAttackGrant:   30,
		},
		Boss: BossConfig{
			EnrageThreshold:          0.3,
			EnrageChanceMultiplier:   1.75,
			EnrageCooldownMultiplier: 0.6,
			EnrageSpeedMultiplier:    1.25,
			MinionSpread:             64,
		},
		Skills: map[string]SkillDefinition{
			"might":     {Name: "Might", MaxLevel: 5, PerLevel: SkillBonusValues{Damage: 0.08}},
			"precision": {Name: "Precision", MaxLevel: 5, PerLevel: SkillBonusValues{CritChance: 0.04, CritMultiplier: 0.1}},
			"agility":   {Name: "Agility", MaxLevel: 5, PerLevel: SkillBonusValues{DodgeChance: 0.03, Speed: 0.05}},
			"fortitude": {Name: "Fortitude", MaxLevel: 5, PerLevel: SkillBonusValues{DamageReduction: 0.05, MaxHealth: 10, KnockbackResist: 0.08}},
			"vitality":  {Name: "Vitality", MaxLevel: 5, PerLevel: SkillBonusValues{Regen: 0.2}},
			"brute":     {Name: "Brute", MaxLevel: 3, PerLevel: SkillBonusValues{Knockback: 0.15}},
		},
		Weapons: map[string]WeaponDefinition{
			"iron_sword": {Name: "Iron Sword", Damage: 10, StaminaCost: 12, Range: 44, Cooldown: 22},
			"serrated_blade": {Name: "Serrated Blade", Damage: 8, StaminaCost: 10, Range: 40, Cooldown: 18, Procs: []ProcDefinition{
				{Status: "bleed", Chance: 0.3, Duration: 150, TickDamage: 2},
			}},
			"ember_axe": {Name: "Ember Axe", Damage: 14, StaminaCost: 18, Range: 46, Cooldown: 30, Procs: []ProcDefinition{
				{Status: "burn", Chance: 0.25, Duration: 120, TickDamage: 3},
			}},
			"frost_bow": {Name: "Frost Bow", Damage: 7, StaminaCost: 8, Range: 320, Cooldown: 26, Ranged: true, ProjectileSpeed: 7, Procs: []ProcDefinition{
				{Status: "freeze", Chance: 0.2, Duration: 90},
			}},
			"fang_dagger": {Name: "Fang Dagger", Damage: 6, StaminaCost: 6, Range: 34, Cooldown: 12, Procs: []ProcDefinition{
				{Status: "venom", Chance: 0.35, Duration: 180, TickDamage: 2},
				{Status: "poison", Chance: 0.35, Duration: 240},
			}},
		},
		Consumables: map[string]ConsumableDefinition{
			"potion":   {Name: "Healing Potion", Heal: 40},
			"tonic":    {Name: "Stamina Tonic", Stamina: 60},
			"antidote": {Name: "Antidote", Cures: []string{"poison", "venom"}},
		},
	}
}
