package spatial

import "math"

// Grid is a uniform bucket grid rebuilt from scratch every tick.
// Accessed only from the simulation loop, no locks.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]Entry
	count    int
}

type cellKey struct {
	cx, cy int
}

// Entry is one indexed entity. Index is the caller's slot (roster index).
type Entry struct {
	ID    uint64
	Index int
	X, Y  float64
}

func New(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 128
	}
	return &Grid{cellSize: cellSize, cells: make(map[cellKey][]Entry)}
}

func (g *Grid) toCell(v float64) int {
	return int(math.Floor(v / g.cellSize))
}

// Reset empties every bucket, keeping allocated capacity.
func (g *Grid) Reset() {
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = bucket[:0]
	}
	g.count = 0
}

// Insert places an entity. Non-finite positions are skipped.
func (g *Grid) Insert(e Entry) {
	if math.IsNaN(e.X) || math.IsNaN(e.Y) || math.IsInf(e.X, 0) || math.IsInf(e.Y, 0) {
		return
	}
	k := cellKey{g.toCell(e.X), g.toCell(e.Y)}
	g.cells[k] = append(g.cells[k], e)
	g.count++
}

func (g *Grid) Len() int {
	return g.count
}

// Query appends every entry within radius of (x, y) to dst. It scans the
// ceil(radius/cellSize) ring around the point's cell and filters by true
// distance, so the result set equals a brute-force scan.
func (g *Grid) Query(x, y, radius float64, dst []Entry) []Entry {
	if radius < 0 || math.IsNaN(radius) {
		return dst
	}
	ring := int(math.Ceil(radius / g.cellSize))
	cx, cy := g.toCell(x), g.toCell(y)
	r2 := radius * radius
	for dy := -ring; dy <= ring; dy++ {
		for dx := -ring; dx <= ring; dx++ {
			for _, e := range g.cells[cellKey{cx + dx, cy + dy}] {
				ex, ey := e.X-x, e.Y-y
				if ex*ex+ey*ey <= r2 {
					dst = append(dst, e)
				}
			}
		}
	}
	return dst
}

// BruteForce is the reference linear scan Query must agree with.
func BruteForce(entries []Entry, x, y, radius float64) []Entry {
	var out []Entry
	r2 := radius * radius
	for _, e := range entries {
		ex, ey := e.X-x, e.Y-y
		if ex*ex+ey*ey <= r2 {
			out = append(out, e)
		}
	}
	return out
}
