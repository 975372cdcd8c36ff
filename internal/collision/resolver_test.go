package collision

import (
	"math"
	"testing"

	"ashgrove/internal/terrain"
)

// mockTerrain implements terrain.Query for testing
type mockTerrain struct {
	width, height int
	solid         map[[2]int]bool
}

func newMockTerrain(width, height int) *mockTerrain {
	return &mockTerrain{width: width, height: height, solid: make(map[[2]int]bool)}
}

func (m *mockTerrain) IsSolid(tileX, tileY int) bool {
	if tileX < 0 || tileY < 0 || tileX >= m.width || tileY >= m.height {
		return true
	}
	return m.solid[[2]int{tileX, tileY}]
}

func (m *mockTerrain) HazardAt(tileX, tileY int) (terrain.Hazard, bool) {
	return terrain.Hazard{}, false
}

func (m *mockTerrain) setSolid(tileX, tileY int) {
	m.solid[[2]int{tileX, tileY}] = true
}

func TestBlockedChecksEveryCoveredTile(t *testing.T) {
	m := newMockTerrain(10, 10)
	m.setSolid(2, 1)
	r := NewResolver(m, 32)

	// 40 wide box spanning tiles 1..2 horizontally on row 1
	box := NewBoundingBox(64, 48, 40, 10)
	if !r.Blocked(box) {
		t.Errorf("expected box overlapping solid tile to be blocked")
	}
	if r.Blocked(NewBoundingBox(40, 48, 10, 10)) {
		t.Errorf("expected box inside tile 1 to be clear")
	}
}

func TestBlockedEdgeFlushIsClear(t *testing.T) {
	m := newMockTerrain(10, 10)
	m.setSolid(2, 1)
	r := NewResolver(m, 32)

	// max X edge lies exactly on x=64, the left edge of the solid tile
	if r.Blocked(NewBoundingBox(54, 48, 20, 10)) {
		t.Errorf("expected flush box not to cover the neighbouring tile")
	}
}

func TestMoveSlidesAlongWall(t *testing.T) {
	m := newMockTerrain(10, 10)
	for y := 0; y < 10; y++ {
		m.setSolid(3, y) // vertical wall at tile column 3
	}
	r := NewResolver(m, 32)

	box := NewBoundingBox(80, 80, 20, 20)
	x, y, hitX, hitY := r.Move(box, 10, 5)
	if !hitX || hitY {
		t.Fatalf("expected X blocked and Y free, got hitX=%v hitY=%v", hitX, hitY)
	}
	if x != 80 || y != 85 {
		t.Errorf("expected slide to (80,85), got (%v,%v)", x, y)
	}
}

func TestMoveRejectsNaN(t *testing.T) {
	r := NewResolver(newMockTerrain(10, 10), 32)
	x, y, _, _ := r.Move(NewBoundingBox(80, 80, 20, 20), math.NaN(), math.Inf(1))
	if x != 80 || y != 80 {
		t.Errorf("expected no movement for non-finite deltas, got (%v,%v)", x, y)
	}
}

func TestOutOfBoundsIsBlocked(t *testing.T) {
	r := NewResolver(newMockTerrain(4, 4), 32)
	if !r.Blocked(NewBoundingBox(-5, 16, 10, 10)) {
		t.Errorf("expected negative coordinates to be blocked")
	}
}

func TestLineOfSight(t *testing.T) {
	m := newMockTerrain(10, 10)
	m.setSolid(4, 2)
	r := NewResolver(m, 32)

	if r.LineOfSight(16, 80, 300, 80) {
		t.Errorf("expected wall to block sight along row 2")
	}
	if !r.LineOfSight(16, 16, 300, 16) {
		t.Errorf("expected clear sight along row 0")
	}
}

func TestTileSpan(t *testing.T) {
	sx, sy, ex, ey := NewBoundingBox(32, 32, 20, 20).TileSpan(32)
	if sx != 0 || sy != 0 || ex != 1 || ey != 1 {
		t.Errorf("unexpected span %d,%d..%d,%d", sx, sy, ex, ey)
	}
}
