package collision

import (
	"math"
)

// BoundingBox is an axis-aligned rectangle positioned by its centre
type BoundingBox struct {
	X      float64 // Center X coordinate
	Y      float64 // Center Y coordinate
	Width  float64
	Height float64
}

// NewBoundingBox creates a box centered at the given position
func NewBoundingBox(x, y, width, height float64) BoundingBox {
	return BoundingBox{X: x, Y: y, Width: width, Height: height}
}

// GetBounds returns the min/max coordinates of the bounding box
func (bb BoundingBox) GetBounds() (minX, minY, maxX, maxY float64) {
	halfWidth := bb.Width / 2
	halfHeight := bb.Height / 2
	return bb.X - halfWidth, bb.Y - halfHeight, bb.X + halfWidth, bb.Y + halfHeight
}

// Intersects checks if this bounding box overlaps another
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	minX1, minY1, maxX1, maxY1 := bb.GetBounds()
	minX2, minY2, maxX2, maxY2 := other.GetBounds()
	return !(maxX1 < minX2 || maxX2 < minX1 || maxY1 < minY2 || maxY2 < minY1)
}

// Contains checks if a point is inside the bounding box
func (bb BoundingBox) Contains(x, y float64) bool {
	minX, minY, maxX, maxY := bb.GetBounds()
	return x >= minX && x <= maxX && y >= minY && y <= maxY
}

// Moved returns a copy offset by dx, dy
func (bb BoundingBox) Moved(dx, dy float64) BoundingBox {
	bb.X += dx
	bb.Y += dy
	return bb
}

// TileSpan returns the inclusive tile range the box covers. A box whose edge
// lies exactly on a tile boundary does not cover the next tile.
func (bb BoundingBox) TileSpan(tileSize float64) (startX, startY, endX, endY int) {
	minX, minY, maxX, maxY := bb.GetBounds()
	const edge = 1e-6
	startX = int(math.Floor(minX / tileSize))
	startY = int(math.Floor(minY / tileSize))
	endX = int(math.Floor((maxX - edge) / tileSize))
	endY = int(math.Floor((maxY - edge) / tileSize))
	if endX < startX {
		endX = startX
	}
	if endY < startY {
		endY = startY
	}
	return startX, startY, endX, endY
}
