package terrain

import (
	"fmt"

	"ashgrove/internal/status"
)

// Query is the terrain view the simulation consumes. Implementations must be
// O(1) and side-effect free.
type Query interface {
	IsSolid(tileX, tileY int) bool
	HazardAt(tileX, tileY int) (Hazard, bool)
}

// Destructible is implemented by terrain with breakable features.
type Destructible interface {
	IsDestructible(tileX, tileY int) bool
	Clear(tileX, tileY int) bool
}

// Hazard describes damage applied to an entity occupying a tile.
type Hazard struct {
	Damage           int
	DamageType       string
	Status           status.Kind // zero when the hazard applies no status
	StatusDuration   float64
	StatusTickDamage int
}

// Elemental reports whether the hazard deals non-physical damage.
func (h Hazard) Elemental() bool {
	return h.DamageType != "" && h.DamageType != "physical"
}

// TileDefinition is one legend entry of a zone map.
type TileDefinition struct {
	Name         string            `yaml:"name"`
	Solid        bool              `yaml:"solid"`
	Destructible bool              `yaml:"destructible"`
	ClearsTo     string            `yaml:"clears_to"` // legend letter left behind once destroyed
	Hazard       *HazardDefinition `yaml:"hazard,omitempty"`
}

type HazardDefinition struct {
	Damage           int     `yaml:"damage"`
	DamageType       string  `yaml:"damage_type"`
	Status           string  `yaml:"status"`
	StatusDuration   float64 `yaml:"status_duration"`
	StatusTickDamage int     `yaml:"status_tick_damage"`
}

func (d *HazardDefinition) resolve() (Hazard, error) {
	h := Hazard{
		Damage:           d.Damage,
		DamageType:       d.DamageType,
		StatusDuration:   d.StatusDuration,
		StatusTickDamage: d.StatusTickDamage,
	}
	if d.Status != "" {
		kind, err := status.ParseKind(d.Status)
		if err != nil {
			return Hazard{}, err
		}
		h.Status = kind
	}
	return h, nil
}

type tile struct {
	name         string
	letter       byte
	solid        bool
	destructible bool
	clearsTo     byte
	hazard       *Hazard
}

// Grid is a letter-map terrain. Tiles outside the map are solid.
type Grid struct {
	width, height int
	cells         []byte
	legend        map[byte]*tile
}

// NewGrid builds a grid from map rows and a single-letter legend. Every row
// must have the same width and every letter must be in the legend.
func NewGrid(rows []string, legend map[string]TileDefinition) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("map contains no rows")
	}
	g := &Grid{
		width:  len(rows[0]),
		height: len(rows),
		legend: make(map[byte]*tile, len(legend)),
	}
	for key, def := range legend {
		if len(key) != 1 {
			return nil, fmt.Errorf("legend key %q must be a single letter", key)
		}
		t := &tile{
			name:         def.Name,
			letter:       key[0],
			solid:        def.Solid,
			destructible: def.Destructible,
		}
		if def.ClearsTo != "" {
			t.clearsTo = def.ClearsTo[0]
		}
		if def.Hazard != nil {
			h, err := def.Hazard.resolve()
			if err != nil {
				return nil, fmt.Errorf("legend %q: %w", key, err)
			}
			t.hazard = &h
		}
		g.legend[key[0]] = t
	}
	for _, t := range g.legend {
		if t.destructible {
			if _, ok := g.legend[t.clearsTo]; !ok {
				return nil, fmt.Errorf("destructible tile %q clears to unknown letter %q", t.name, string(t.clearsTo))
			}
		}
	}

	g.cells = make([]byte, 0, g.width*g.height)
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("row %d has width %d, expected %d", y, len(row), g.width)
		}
		for x := 0; x < len(row); x++ {
			if _, ok := g.legend[row[x]]; !ok {
				return nil, fmt.Errorf("unknown tile letter %q at %d,%d", string(row[x]), x, y)
			}
		}
		g.cells = append(g.cells, row...)
	}
	return g, nil
}

func (g *Grid) at(tileX, tileY int) *tile {
	if tileX < 0 || tileY < 0 || tileX >= g.width || tileY >= g.height {
		return nil
	}
	return g.legend[g.cells[tileY*g.width+tileX]]
}

// IsSolid reports whether the tile blocks movement. Intact destructibles block.
func (g *Grid) IsSolid(tileX, tileY int) bool {
	t := g.at(tileX, tileY)
	return t == nil || t.solid || t.destructible
}

// HazardAt returns the hazard occupying a tile.
func (g *Grid) HazardAt(tileX, tileY int) (Hazard, bool) {
	t := g.at(tileX, tileY)
	if t == nil || t.hazard == nil {
		return Hazard{}, false
	}
	return *t.hazard, true
}

// IsDestructible reports whether the tile is an intact breakable feature.
func (g *Grid) IsDestructible(tileX, tileY int) bool {
	t := g.at(tileX, tileY)
	return t != nil && t.destructible
}

// Clear destroys a breakable feature, reporting whether anything changed.
func (g *Grid) Clear(tileX, tileY int) bool {
	t := g.at(tileX, tileY)
	if t == nil || !t.destructible {
		return false
	}
	g.cells[tileY*g.width+tileX] = t.clearsTo
	return true
}

// TileName returns the legend name at a tile, for renderers.
func (g *Grid) TileName(tileX, tileY int) string {
	if t := g.at(tileX, tileY); t != nil {
		return t.name
	}
	return ""
}

// Size returns the map dimensions in tiles.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}
