package player

import (
	"sort"

	"ashgrove/internal/config"
	"ashgrove/internal/mathutil"
)

// Bonus is the aggregate of every learned skill.
type Bonus struct {
	DamageMult      float64 // added to 1 when scaling outgoing damage
	CritChance      float64
	CritMult        float64 // added to the base crit multiplier
	DodgeChance     float64
	DamageReduction float64
	KnockbackResist float64
	MaxHealth       int
	SpeedMult       float64
	RegenMult       float64
	KnockbackBonus  float64
}

const (
	maxDodgeChance     = 0.75
	maxDamageReduction = 0.9
)

// Skills holds learned skill levels. The aggregate bonus is recomputed only
// after a mutation marks it dirty.
type Skills struct {
	defs       map[string]config.SkillDefinition
	levels     map[string]int
	dirty      bool
	cached     Bonus
	recomputes int
}

func NewSkills(defs map[string]config.SkillDefinition) *Skills {
	return &Skills{defs: defs, levels: make(map[string]int), dirty: true}
}

// Set changes a skill level, clamped to [0, MaxLevel]. Unknown skills are
// rejected.
func (s *Skills) Set(key string, level int) bool {
	def, ok := s.defs[key]
	if !ok {
		return false
	}
	if def.MaxLevel > 0 {
		level = mathutil.IntClamp(level, 0, def.MaxLevel)
	} else if level < 0 {
		level = 0
	}
	if s.levels[key] == level {
		return true
	}
	if level == 0 {
		delete(s.levels, key)
	} else {
		s.levels[key] = level
	}
	s.dirty = true
	return true
}

func (s *Skills) Level(key string) int {
	return s.levels[key]
}

// Levels returns a copy of all non-zero skill levels.
func (s *Skills) Levels() map[string]int {
	out := make(map[string]int, len(s.levels))
	for k, v := range s.levels {
		out[k] = v
	}
	return out
}

// Replace swaps the whole skill set, used on restore.
func (s *Skills) Replace(levels map[string]int) {
	s.levels = make(map[string]int, len(levels))
	s.dirty = true
	for k, v := range levels {
		s.Set(k, v)
	}
}

// Bonus returns the cached aggregate, recomputing it if the set changed.
func (s *Skills) Bonus() Bonus {
	if !s.dirty {
		return s.cached
	}
	keys := make([]string, 0, len(s.levels))
	for k := range s.levels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b Bonus
	for _, k := range keys {
		lvl := float64(s.levels[k])
		per := s.defs[k].PerLevel
		b.DamageMult += per.Damage * lvl
		b.CritChance += per.CritChance * lvl
		b.CritMult += per.CritMultiplier * lvl
		b.DodgeChance += per.DodgeChance * lvl
		b.DamageReduction += per.DamageReduction * lvl
		b.KnockbackResist += per.KnockbackResist * lvl
		b.MaxHealth += per.MaxHealth * s.levels[k]
		b.SpeedMult += per.Speed * lvl
		b.RegenMult += per.Regen * lvl
		b.KnockbackBonus += per.Knockback * lvl
	}
	b.CritChance = mathutil.Clamp(b.CritChance, 0, 1)
	b.DodgeChance = mathutil.Clamp(b.DodgeChance, 0, maxDodgeChance)
	b.DamageReduction = mathutil.Clamp(b.DamageReduction, 0, maxDamageReduction)
	b.KnockbackResist = mathutil.Clamp(b.KnockbackResist, 0, 1)

	s.cached = b
	s.dirty = false
	s.recomputes++
	return b
}
