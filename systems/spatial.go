// Package systems provides the simulation rules applied to ECS components.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	X, Y   float32 // Indexed position
	DistSq float32 // Squared distance from the query origin
}

type gridEntry struct {
	e    ecs.Entity
	x, y float32
}

// cellRef locates an entity inside the grid for O(1) removal.
type cellRef struct {
	cell int
	slot int
}

// SpatialGrid is a uniform grid over a bounded rectangle with incremental
// insert, update and remove keyed by entity. Positions outside the bounds
// are stored in the nearest border cell, and queries clamp the same way, so
// radius queries never miss an indexed entity.
type SpatialGrid struct {
	cellSize   float32
	minX, minY float32
	cols       int
	rows       int
	cells      [][]gridEntry
	where      map[ecs.Entity]cellRef
}

// NewSpatialGrid creates a spatial grid covering [minX,maxX]x[minY,maxY].
func NewSpatialGrid(minX, minY, maxX, maxY, cellSize float32) *SpatialGrid {
	cols := int((maxX-minX)/cellSize) + 1
	rows := int((maxY-minY)/cellSize) + 1

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		minX:     minX,
		minY:     minY,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		where:    make(map[ecs.Entity]cellRef),
	}
}

// Len returns the number of indexed entities.
func (g *SpatialGrid) Len() int {
	return len(g.where)
}

// Contains reports whether e is indexed.
func (g *SpatialGrid) Contains(e ecs.Entity) bool {
	_, ok := g.where[e]
	return ok
}

// Insert adds an entity at the given position. Inserting an entity that is
// already indexed moves it instead.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	if _, ok := g.where[e]; ok {
		g.Update(e, x, y)
		return
	}
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, x: x, y: y})
	g.where[e] = cellRef{cell: idx, slot: len(g.cells[idx]) - 1}
}

// Update records a new position for e. The entity only changes buckets when
// it crosses a cell boundary. Unknown entities are inserted.
func (g *SpatialGrid) Update(e ecs.Entity, x, y float32) {
	ref, ok := g.where[e]
	if !ok {
		g.Insert(e, x, y)
		return
	}
	idx := g.cellIndex(x, y)
	if idx == ref.cell {
		g.cells[idx][ref.slot].x = x
		g.cells[idx][ref.slot].y = y
		return
	}
	g.removeAt(ref)
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, x: x, y: y})
	g.where[e] = cellRef{cell: idx, slot: len(g.cells[idx]) - 1}
}

// Remove drops e from the grid. Returns false if it was not indexed.
func (g *SpatialGrid) Remove(e ecs.Entity) bool {
	ref, ok := g.where[e]
	if !ok {
		return false
	}
	g.removeAt(ref)
	delete(g.where, e)
	return true
}

// removeAt swap-removes the entry at ref and fixes the moved entry's slot.
func (g *SpatialGrid) removeAt(ref cellRef) {
	cell := g.cells[ref.cell]
	last := len(cell) - 1
	if ref.slot != last {
		moved := cell[last]
		cell[ref.slot] = moved
		g.where[moved.e] = cellRef{cell: ref.cell, slot: ref.slot}
	}
	g.cells[ref.cell] = cell[:last]
}

// CandidatesInto appends every entity in the cells overlapping the query
// circle. The result may include entities beyond radius; callers filter by
// exact distance.
func (g *SpatialGrid) CandidatesInto(dst []ecs.Entity, x, y, radius float32) []ecs.Entity {
	c0, r0, c1, r1 := g.cellRange(x, y, radius)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, en := range g.cells[row*g.cols+col] {
				dst = append(dst, en.e)
			}
		}
	}
	return dst
}

// QueryRadiusInto appends the entities within radius of (x,y), excluding
// exclude, and returns the updated slice. Reuse dst across calls to avoid
// allocations. Order is unspecified.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude ecs.Entity) []Neighbor {
	if radius < 0 || len(g.where) == 0 {
		return dst
	}
	radiusSq := radius * radius
	c0, r0, c1, r1 := g.cellRange(x, y, radius)

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, en := range g.cells[row*g.cols+col] {
				if en.e == exclude {
					continue
				}
				dx := en.x - x
				dy := en.y - y
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: en.e, X: en.x, Y: en.y, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// QueryRadius returns all entities within radius of the given position.
func (g *SpatialGrid) QueryRadius(x, y, radius float32) []ecs.Entity {
	neighbors := g.QueryRadiusInto(nil, x, y, radius, ecs.Entity{})
	result := make([]ecs.Entity, len(neighbors))
	for i, n := range neighbors {
		result[i] = n.E
	}
	return result
}

// Nearest returns the closest entity within radius for which accept returns
// true. accept may be nil.
func (g *SpatialGrid) Nearest(x, y, radius float32, accept func(ecs.Entity) bool) (Neighbor, bool) {
	var best Neighbor
	found := false
	radiusSq := radius * radius
	c0, r0, c1, r1 := g.cellRange(x, y, radius)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, en := range g.cells[row*g.cols+col] {
				dx := en.x - x
				dy := en.y - y
				distSq := dx*dx + dy*dy
				if distSq > radiusSq || (found && distSq >= best.DistSq) {
					continue
				}
				if accept != nil && !accept(en.e) {
					continue
				}
				best = Neighbor{E: en.e, X: en.x, Y: en.y, DistSq: distSq}
				found = true
			}
		}
	}
	return best, found
}

// cellRange returns the clamped inclusive cell span covering the circle.
func (g *SpatialGrid) cellRange(x, y, radius float32) (c0, r0, c1, r1 int) {
	c0, r0 = g.cellCoords(x-radius, y-radius)
	c1, r1 = g.cellCoords(x+radius, y+radius)
	return c0, r0, c1, r1
}

// cellCoords returns the clamped column and row for a world position.
func (g *SpatialGrid) cellCoords(x, y float32) (int, int) {
	col := int(math.Floor(float64((x - g.minX) / g.cellSize)))
	row := int(math.Floor(float64((y - g.minY) / g.cellSize)))

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}
