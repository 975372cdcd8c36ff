package enemy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"ashgrove/internal/status"

	"gopkg.in/yaml.v3"
)

// Archetype holds the configuration for an enemy type from YAML
type Archetype struct {
	Key  string `yaml:"-"`
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`

	MaxHealth int     `yaml:"max_health"`
	Damage    int     `yaml:"damage"`
	Speed     float64 `yaml:"speed"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Knockback float64 `yaml:"knockback"` // impulse received when struck
	Push      float64 `yaml:"push"`      // impulse given to the player, 0 = combat default
	XP        int     `yaml:"xp"`
	Loot      string  `yaml:"loot"`
	Color     string  `yaml:"color"` // renderer hint

	AggroRange   float64 `yaml:"aggro_range"`
	AttackRange  float64 `yaml:"attack_range"`
	PatrolRadius float64 `yaml:"patrol_radius"` // 0 = ai default
	PackRadius   float64 `yaml:"pack_radius"`   // allies inside are alerted on aggro

	Ranged          bool    `yaml:"ranged"`
	MinRange        float64 `yaml:"min_range"`
	PreferredRange  float64 `yaml:"preferred_range"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`

	Teleport    bool       `yaml:"teleport"`
	TeleportMin float64    `yaml:"teleport_min"`
	TeleportMax float64    `yaml:"teleport_max"`
	Boss        bool       `yaml:"boss"`
	OnHit       *OnHitProc `yaml:"on_hit,omitempty"`

	Specials []SpecialDefinition `yaml:"specials"`

	onHitKind status.Kind
}

// OnHitProc is a status an enemy may apply when its attacks land.
type OnHitProc struct {
	Status     string  `yaml:"status"`
	Chance     float64 `yaml:"chance"`
	Duration   float64 `yaml:"duration"`
	TickDamage int     `yaml:"tick_damage"`
}

// SpecialDefinition is one special attack of an archetype. Each special has
// its own windup, cooldown and weight.
type SpecialDefinition struct {
	Type      string  `yaml:"kind"`
	Weight    float64 `yaml:"weight"`
	Windup    float64 `yaml:"windup"`
	Cooldown  float64 `yaml:"cooldown"`
	Range     float64 `yaml:"range"` // trigger distance and lunge reach
	Radius    float64 `yaml:"radius"`
	Damage    int     `yaml:"damage"`
	Knockback float64 `yaml:"knockback"`
	Count     int     `yaml:"count"`
	Spread    float64 `yaml:"spread"` // radians
	Speed     float64 `yaml:"speed"`
	Duration  float64 `yaml:"duration"` // buff length
	Minion    string  `yaml:"minion"`

	Kind SpecialKind `yaml:"-"`
}

// OnHitStatus returns the parsed on-hit status kind.
func (a *Archetype) OnHitStatus() (status.Kind, *OnHitProc, bool) {
	if a.OnHit == nil || a.onHitKind == 0 {
		return 0, nil, false
	}
	return a.onHitKind, a.OnHit, true
}

// ArchetypeConfig is the on-disk layout of archetypes.yaml.
type ArchetypeConfig struct {
	Archetypes map[string]Archetype `yaml:"archetypes"`
}

// Table indexes archetypes by integer id and YAML key.
type Table struct {
	byID  map[int]*Archetype
	byKey map[string]*Archetype
	keys  []string
}

// LoadArchetypes loads archetype configuration from a YAML file
func LoadArchetypes(filename string) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read archetype file: %w", err)
	}
	return ParseArchetypes(data)
}

// MustLoadArchetypes loads archetypes and panics on error
func MustLoadArchetypes(filename string) *Table {
	table, err := LoadArchetypes(filename)
	if err != nil {
		panic("Failed to load archetypes: " + err.Error())
	}
	return table
}

// ParseArchetypes decodes and validates archetype YAML.
func ParseArchetypes(data []byte) (*Table, error) {
	var cfg ArchetypeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse archetype YAML: %w", err)
	}
	return NewTable(cfg.Archetypes)
}

// NewTable validates archetypes and builds the lookup table.
func NewTable(archetypes map[string]Archetype) (*Table, error) {
	t := &Table{
		byID:  make(map[int]*Archetype, len(archetypes)),
		byKey: make(map[string]*Archetype, len(archetypes)),
	}
	var problems []string
	for key, def := range archetypes {
		a := def
		a.Key = key
		a.Specials = append([]SpecialDefinition(nil), def.Specials...)
		if a.ID <= 0 {
			problems = append(problems, fmt.Sprintf("archetype %q needs a positive id", key))
		} else if other, dup := t.byID[a.ID]; dup {
			problems = append(problems, fmt.Sprintf("archetypes %q and %q share id %d", other.Key, key, a.ID))
		}
		if a.MaxHealth <= 0 {
			problems = append(problems, fmt.Sprintf("archetype %q needs positive max_health", key))
		}
		if a.Width <= 0 {
			a.Width = 20
		}
		if a.Height <= 0 {
			a.Height = a.Width
		}
		if a.OnHit != nil {
			kind, err := status.ParseKind(a.OnHit.Status)
			if err != nil {
				problems = append(problems, fmt.Sprintf("archetype %q on_hit: %v", key, err))
			}
			a.onHitKind = kind
		}
		for i := range a.Specials {
			sp := &a.Specials[i]
			kind, ok := specialNames[strings.ToLower(sp.Type)]
			if !ok {
				problems = append(problems, fmt.Sprintf("archetype %q special %d: unknown kind %q", key, i, sp.Type))
				continue
			}
			sp.Kind = kind
			if kind.BossOnly() && !a.Boss {
				problems = append(problems, fmt.Sprintf("archetype %q: %s is a boss-only special", key, sp.Type))
			}
			if sp.Weight <= 0 {
				sp.Weight = 1
			}
			if sp.Windup < 0 || sp.Cooldown < 0 {
				problems = append(problems, fmt.Sprintf("archetype %q special %s: negative timing", key, sp.Type))
			}
			if kind == SpecialVolley && sp.Count <= 0 {
				sp.Count = 1
			}
		}
		t.byID[a.ID] = &a
		t.byKey[key] = &a
		t.keys = append(t.keys, key)
	}
	for key, a := range t.byKey {
		for _, sp := range a.Specials {
			if sp.Kind != SpecialSummon {
				continue
			}
			if _, ok := t.byKey[sp.Minion]; !ok {
				problems = append(problems, fmt.Sprintf("archetype %q summons unknown minion %q", key, sp.Minion))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("archetype configuration errors:\n%s", strings.Join(problems, "\n"))
	}
	sort.Strings(t.keys)
	return t, nil
}

// ByID returns an archetype by integer id
func (t *Table) ByID(id int) (*Archetype, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// ByKey returns an archetype by YAML key
func (t *Table) ByKey(key string) (*Archetype, error) {
	a, ok := t.byKey[key]
	if !ok {
		return nil, fmt.Errorf("archetype with key '%s' not found", key)
	}
	return a, nil
}

// Keys returns all archetype keys sorted
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}
