package game

import (
	"math"
)

// SpatialGrid provides O(1) average case lookup for nearby ships using a
// sparse grid hash per region. Regions are unbounded, so cells live in a
// map rather than a fixed array.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]ObjectID
}

type cellKey struct {
	region *Region
	x, y, z int64
}

// GridCellSize is the size of each grid cell in meters.
// It covers the widest collision avoidance lookahead.
const GridCellSize = 12000.0

// NewSpatialGrid creates an empty grid
func NewSpatialGrid() *SpatialGrid {
	return &SpatialGrid{
		cellSize: GridCellSize,
		cells:    make(map[cellKey][]ObjectID),
	}
}

// Clear resets the grid for a new frame
func (g *SpatialGrid) Clear() {
	for k, v := range g.cells {
		g.cells[k] = v[:0] // Reuse underlying array
	}
}

func (g *SpatialGrid) key(r *Region, p Vec3) cellKey {
	return cellKey{
		region: r,
		x:      int64(math.Floor(p.X / g.cellSize)),
		y:      int64(math.Floor(p.Y / g.cellSize)),
		z:      int64(math.Floor(p.Z / g.cellSize)),
	}
}

// Insert adds a ship to the grid
func (g *SpatialGrid) Insert(id ObjectID, r *Region, p Vec3) {
	k := g.key(r, p)
	g.cells[k] = append(g.cells[k], id)
}

// GetNearby returns ship IDs that might be within one cell of the given
// position. The caller must still perform exact distance checks.
func (g *SpatialGrid) GetNearby(r *Region, p Vec3) []ObjectID {
	return g.GetWithin(r, p, g.cellSize)
}

// GetWithin returns ship IDs in every cell that may hold a point within
// radius of p. The caller must still perform exact distance checks.
func (g *SpatialGrid) GetWithin(r *Region, p Vec3, radius float64) []ObjectID {
	c := g.key(r, p)
	n := int64(math.Ceil(radius / g.cellSize))
	if n < 1 {
		n = 1
	}
	var result []ObjectID
	for dx := -n; dx <= n; dx++ {
		for dy := -n; dy <= n; dy++ {
			for dz := -n; dz <= n; dz++ {
				k := cellKey{region: r, x: c.x + dx, y: c.y + dy, z: c.z + dz}
				result = append(result, g.cells[k]...)
			}
		}
	}
	return result
}

// IndexShips populates the grid with every ship that is not docked
func (g *SpatialGrid) IndexShips(ships []*Ship) {
	g.Clear()
	for _, s := range ships {
		if s.Phase != PhaseDocked {
			g.Insert(s.ID, s.Region, s.Loc)
		}
	}
}
