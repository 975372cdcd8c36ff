package collision

import (
	"math"

	"ashgrove/internal/mathutil"
	"ashgrove/internal/terrain"
)

// Resolver tests boxes against terrain solidity.
type Resolver struct {
	terrain  terrain.Query
	tileSize float64
}

// NewResolver creates a resolver for the given terrain
func NewResolver(q terrain.Query, tileSize float64) *Resolver {
	if tileSize <= 0 {
		tileSize = 32
	}
	return &Resolver{terrain: q, tileSize: tileSize}
}

// SetTerrain swaps the terrain (used on zone transitions)
func (r *Resolver) SetTerrain(q terrain.Query) {
	r.terrain = q
}

func (r *Resolver) Terrain() terrain.Query {
	return r.terrain
}

func (r *Resolver) TileSize() float64 {
	return r.tileSize
}

// TileAt converts a world point into tile coordinates
func (r *Resolver) TileAt(x, y float64) (int, int) {
	return int(math.Floor(x / r.tileSize)), int(math.Floor(y / r.tileSize))
}

// Blocked reports whether any tile covered by the box is solid.
func (r *Resolver) Blocked(box BoundingBox) bool {
	if r.terrain == nil {
		return false
	}
	if !mathutil.Finite(box.X) || !mathutil.Finite(box.Y) {
		return true
	}
	startX, startY, endX, endY := box.TileSpan(r.tileSize)
	for tileY := startY; tileY <= endY; tileY++ {
		for tileX := startX; tileX <= endX; tileX++ {
			if r.terrain.IsSolid(tileX, tileY) {
				return true
			}
		}
	}
	return false
}

// Move attempts dx then dy independently, committing each axis only when the
// box at the candidate position is clear. It returns the new centre and which
// axes were blocked.
func (r *Resolver) Move(box BoundingBox, dx, dy float64) (x, y float64, hitX, hitY bool) {
	dx = mathutil.Sanitize(dx)
	dy = mathutil.Sanitize(dy)
	if dx != 0 {
		if candidate := box.Moved(dx, 0); !r.Blocked(candidate) {
			box = candidate
		} else {
			hitX = true
		}
	}
	if dy != 0 {
		if candidate := box.Moved(0, dy); !r.Blocked(candidate) {
			box = candidate
		} else {
			hitY = true
		}
	}
	return box.X, box.Y, hitX, hitY
}

// LineOfSight samples the segment between two points and reports whether no
// solid tile lies on it.
func (r *Resolver) LineOfSight(x1, y1, x2, y2 float64) bool {
	if r.terrain == nil {
		return true
	}
	dist := mathutil.Distance(x1, y1, x2, y2)
	steps := int(math.Ceil(dist / (r.tileSize / 4)))
	if steps < 1 {
		steps = 1
	}
	dx := (x2 - x1) / float64(steps)
	dy := (y2 - y1) / float64(steps)
	for i := 0; i <= steps; i++ {
		tileX, tileY := r.TileAt(x1+dx*float64(i), y1+dy*float64(i))
		if r.terrain.IsSolid(tileX, tileY) {
			return false
		}
	}
	return true
}
