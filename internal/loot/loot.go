package loot

import (
	"fmt"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	KindCurrency = "currency"
	KindItem     = "item"
)

// Entry is one independently rolled line of a loot table.
type Entry struct {
	Kind   string  `yaml:"kind"`
	Item   string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	Min    int     `yaml:"min"` // currency range
	Max    int     `yaml:"max"`
	Count  int     `yaml:"count"` // item count, default 1
}

type Table struct {
	Entries []Entry `yaml:"entries"`
}

// Config is the on-disk layout of loot.yaml.
type Config struct {
	Tables map[string]Table `yaml:"tables"`
}

// Drop is the outcome of one roll.
type Drop struct {
	Gold  int
	Items map[string]int
}

func (d Drop) Empty() bool {
	return d.Gold <= 0 && len(d.Items) == 0
}

// ItemKeys returns the dropped item keys sorted.
func (d Drop) ItemKeys() []string {
	keys := make([]string, 0, len(d.Items))
	for k := range d.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge adds another drop into this one.
func (d *Drop) Merge(o Drop) {
	d.Gold += o.Gold
	for k, n := range o.Items {
		if d.Items == nil {
			d.Items = make(map[string]int)
		}
		d.Items[k] += n
	}
}

// LoadTables loads loot tables from a YAML file
func LoadTables(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read loot file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse loot YAML: %w", err)
	}
	for name, t := range cfg.Tables {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("loot table %q: %w", name, err)
		}
	}
	return &cfg, nil
}

// MustLoadTables loads loot tables and panics on error
func MustLoadTables(filename string) *Config {
	cfg, err := LoadTables(filename)
	if err != nil {
		panic("Failed to load loot tables: " + err.Error())
	}
	return cfg
}

// Validate checks chances and ranges.
func (t Table) Validate() error {
	for i, e := range t.Entries {
		if e.Chance < 0 || e.Chance > 1 {
			return fmt.Errorf("entry %d: chance %v outside [0,1]", i, e.Chance)
		}
		switch e.Kind {
		case KindCurrency:
			if e.Min < 0 || e.Max < e.Min {
				return fmt.Errorf("entry %d: invalid currency range [%d,%d]", i, e.Min, e.Max)
			}
		case KindItem:
			if e.Item == "" {
				return fmt.Errorf("entry %d: item entry without item", i)
			}
			if e.Count < 0 {
				return fmt.Errorf("entry %d: negative count", i)
			}
		default:
			return fmt.Errorf("entry %d: unknown kind %q", i, e.Kind)
		}
	}
	return nil
}

// RollTable rolls every entry independently.
func RollTable(t Table, rng *rand.Rand) Drop {
	var d Drop
	for _, e := range t.Entries {
		if e.Chance <= 0 || rng.Float64() >= e.Chance {
			continue
		}
		switch e.Kind {
		case KindCurrency:
			amount := e.Min
			if e.Max > e.Min {
				amount += rng.Intn(e.Max - e.Min + 1)
			}
			d.Gold += amount
		case KindItem:
			n := e.Count
			if n <= 0 {
				n = 1
			}
			if d.Items == nil {
				d.Items = make(map[string]int)
			}
			d.Items[e.Item] += n
		}
	}
	return d
}

// Generator maps archetype ids to their loot tables. It holds no roll state.
type Generator struct {
	tables map[int]Table
}

func NewGenerator() *Generator {
	return &Generator{tables: make(map[int]Table)}
}

// Register binds a table to an archetype id.
func (g *Generator) Register(archetypeID int, t Table) {
	g.tables[archetypeID] = t
}

// Roll rolls the table registered for an archetype. Unregistered ids drop
// nothing.
func (g *Generator) Roll(archetypeID int, rng *rand.Rand) Drop {
	t, ok := g.tables[archetypeID]
	if !ok {
		return Drop{}
	}
	return RollTable(t, rng)
}

// Has reports whether an archetype has a table.
func (g *Generator) Has(archetypeID int) bool {
	_, ok := g.tables[archetypeID]
	return ok
}
