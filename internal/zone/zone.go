package zone

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"ashgrove/internal/terrain"

	"gopkg.in/yaml.v3"
)

// StartMarker marks the player start in map rows. The cell itself is floor.
const StartMarker = '@'

// Spawn places Count members of an archetype around a tile.
type Spawn struct {
	Archetype string  `yaml:"archetype"`
	X         int     `yaml:"x"`
	Y         int     `yaml:"y"`
	Count     int     `yaml:"count"`
	Spread    float64 `yaml:"spread"` // ring radius in world units for groups
}

// Point is a world-space position.
type Point struct {
	X, Y float64
}

// Positions returns the world positions of every member of the group,
// evenly spaced on a ring around the tile centre.
func (s Spawn) Positions(tileSize float64) []Point {
	n := s.Count
	if n <= 0 {
		n = 1
	}
	cx := (float64(s.X) + 0.5) * tileSize
	cy := (float64(s.Y) + 0.5) * tileSize
	if n == 1 || s.Spread <= 0 {
		pts := make([]Point, n)
		for i := range pts {
			pts[i] = Point{cx, cy}
		}
		return pts
	}
	pts := make([]Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{cx + math.Cos(a)*s.Spread, cy + math.Sin(a)*s.Spread}
	}
	return pts
}

// Exit moves the player to another zone when stepped on.
type Exit struct {
	X  int    `yaml:"x"`
	Y  int    `yaml:"y"`
	To string `yaml:"to"`
}

// Definition is one zone from zones.yaml.
type Definition struct {
	Key    string                            `yaml:"-"`
	Name   string                            `yaml:"name"`
	Floor  string                            `yaml:"floor"` // letter under the start marker
	Rows   []string                          `yaml:"map"`
	Legend map[string]terrain.TileDefinition `yaml:"legend"`
	Spawns []Spawn                           `yaml:"spawns"`
	Exits  []Exit                            `yaml:"exits"`

	startX, startY int
}

// Config is the on-disk layout of zones.yaml. The shared legend applies to
// every zone; a zone legend entry with the same letter overrides it.
type Config struct {
	Legend map[string]terrain.TileDefinition `yaml:"legend"`
	Zones  map[string]*Definition            `yaml:"zones"`
}

// Load loads zone definitions from a YAML file
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}
	return Parse(data)
}

// MustLoad loads zones and panics on error
func MustLoad(filename string) *Config {
	cfg, err := Load(filename)
	if err != nil {
		panic(fmt.Sprintf("Failed to load zones: %v", err))
	}
	return cfg
}

// Parse decodes and validates zones.yaml content.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse zones: %w", err)
	}
	if len(cfg.Zones) == 0 {
		return nil, fmt.Errorf("zones file defines no zones")
	}
	for key, def := range cfg.Zones {
		if def == nil {
			return nil, fmt.Errorf("zone %q is empty", key)
		}
		def.Key = key
		if err := def.prepare(cfg.Legend); err != nil {
			return nil, fmt.Errorf("zone %q: %w", key, err)
		}
	}
	for key, def := range cfg.Zones {
		for _, exit := range def.Exits {
			if _, ok := cfg.Zones[exit.To]; !ok {
				return nil, fmt.Errorf("zone %q exit leads to unknown zone %q", key, exit.To)
			}
		}
	}
	return &cfg, nil
}

func (d *Definition) prepare(shared map[string]terrain.TileDefinition) error {
	legend := make(map[string]terrain.TileDefinition, len(shared)+len(d.Legend))
	for k, v := range shared {
		legend[k] = v
	}
	for k, v := range d.Legend {
		legend[k] = v
	}
	d.Legend = legend

	if d.Floor == "" {
		d.Floor = "."
	}
	if _, ok := d.Legend[d.Floor]; !ok {
		return fmt.Errorf("floor letter %q is not in the legend", d.Floor)
	}

	found := false
	rows := make([]string, len(d.Rows))
	for y, row := range d.Rows {
		if x := strings.IndexByte(row, StartMarker); x >= 0 {
			if found {
				return fmt.Errorf("map has more than one start marker")
			}
			found = true
			d.startX, d.startY = x, y
			row = row[:x] + d.Floor + row[x+1:]
		}
		rows[y] = row
	}
	if !found {
		return fmt.Errorf("map has no start marker %q", string(StartMarker))
	}
	d.Rows = rows

	// Build once to surface legend and width errors at load time.
	if _, err := terrain.NewGrid(d.Rows, d.Legend); err != nil {
		return err
	}
	for i, s := range d.Spawns {
		if s.Archetype == "" {
			return fmt.Errorf("spawn %d has no archetype", i)
		}
	}
	return nil
}

// BuildGrid returns a fresh terrain grid. Each call starts with every
// destructible intact.
func (d *Definition) BuildGrid() (*terrain.Grid, error) {
	return terrain.NewGrid(d.Rows, d.Legend)
}

// Start returns the player start in world units.
func (d *Definition) Start(tileSize float64) (x, y float64) {
	return (float64(d.startX) + 0.5) * tileSize, (float64(d.startY) + 0.5) * tileSize
}

// ExitAt returns the exit on a tile, if any.
func (d *Definition) ExitAt(tileX, tileY int) (Exit, bool) {
	for _, e := range d.Exits {
		if e.X == tileX && e.Y == tileY {
			return e, true
		}
	}
	return Exit{}, false
}

// CheckArchetypes reports spawn entries naming archetypes that do not exist.
func (c *Config) CheckArchetypes(known func(key string) bool) error {
	var problems []string
	for key, def := range c.Zones {
		for _, s := range def.Spawns {
			if !known(s.Archetype) {
				problems = append(problems, fmt.Sprintf("zone %q spawns unknown archetype %q", key, s.Archetype))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("zone spawn errors:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

// Get returns a zone by key.
func (c *Config) Get(key string) (*Definition, error) {
	d, ok := c.Zones[key]
	if !ok {
		return nil, fmt.Errorf("unknown zone %q", key)
	}
	return d, nil
}

// Keys returns the zone keys in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.Zones))
	for k := range c.Zones {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
