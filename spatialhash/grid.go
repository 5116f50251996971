// Package spatialhash is a uniform-cell spatial hash for broad-phase box queries.
package spatialhash

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
)

// CellKey is the integer coordinate of a grid cell.
type CellKey struct {
	X, Y, Z int32
}

// Grid maps cells to the items whose boxes touch them. There is no removal; rebuild instead.
// A Grid is not safe for concurrent mutation, but concurrent Query calls are fine once it is
// built.
type Grid[T comparable] struct {
	cellSize float64
	inv      float64
	cells    map[CellKey][]T
	items    map[T]struct{}
	// oversized holds items spanning more than maxAddCells cells; they are box-tested on
	// every query instead of being rasterized.
	oversized []boxed[T]
}

type boxed[T comparable] struct {
	item T
	box  spatialmath.AABB
}

// NewGrid returns an empty grid. cellSize must be positive and finite.
func NewGrid[T comparable](cellSize float64) (*Grid[T], error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, errors.Errorf("cell size must be positive and finite, got %v", cellSize)
	}
	return &Grid[T]{
		cellSize: cellSize,
		inv:      1 / cellSize,
		cells:    map[CellKey][]T{},
		items:    map[T]struct{}{},
	}, nil
}

// CellSize returns the cell edge length.
func (g *Grid[T]) CellSize() float64 { return g.cellSize }

// Len returns the number of occupied cells.
func (g *Grid[T]) Len() int { return len(g.cells) }

// Items returns every item that was added, in no particular order.
func (g *Grid[T]) Items() []T {
	out := make([]T, 0, len(g.items))
	for it := range g.items {
		out = append(out, it)
	}
	return out
}

func (g *Grid[T]) coord(v float64) int32 {
	c := math.Floor(v * g.inv)
	switch {
	case c <= math.MinInt32:
		return math.MinInt32
	case c >= math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(c)
	}
}

// CellOf returns the cell containing p.
func (g *Grid[T]) CellOf(p r3.Vector) CellKey {
	return CellKey{X: g.coord(p.X), Y: g.coord(p.Y), Z: g.coord(p.Z)}
}

func (g *Grid[T]) cellRange(box spatialmath.AABB) (lo, hi CellKey) {
	return g.CellOf(box.Min), g.CellOf(box.Max)
}

func rangeVolume(lo, hi CellKey) float64 {
	return (float64(hi.X) - float64(lo.X) + 1) *
		(float64(hi.Y) - float64(lo.Y) + 1) *
		(float64(hi.Z) - float64(lo.Z) + 1)
}

func inRange(k, lo, hi CellKey) bool {
	return k.X >= lo.X && k.X <= hi.X && k.Y >= lo.Y && k.Y <= hi.Y && k.Z >= lo.Z && k.Z <= hi.Z
}

// Add inserts item into every cell its box touches. Boxes that are empty or not finite are
// ignored and Add returns false.
func (g *Grid[T]) Add(item T, box spatialmath.AABB) bool {
	if box.IsEmpty() || !box.IsFinite() {
		return false
	}
	lo, hi := g.cellRange(box)
	g.items[item] = struct{}{}
	if rangeVolume(lo, hi) > maxAddCells {
		g.oversized = append(g.oversized, boxed[T]{item: item, box: box})
		return true
	}
	for x := lo.X; ; x++ {
		for y := lo.Y; ; y++ {
			for z := lo.Z; ; z++ {
				k := CellKey{x, y, z}
				g.cells[k] = append(g.cells[k], item)
				if z == hi.Z {
					break
				}
			}
			if y == hi.Y {
				break
			}
		}
		if x == hi.X {
			break
		}
	}
	return true
}

// maxAddCells bounds the cells a single item may occupy.
const maxAddCells = 1 << 22

// Query returns the set of items in every cell that box touches. When the box spans more
// cells than are occupied, the occupied cells are scanned instead.
func (g *Grid[T]) Query(box spatialmath.AABB) map[T]struct{} {
	out := map[T]struct{}{}
	if box.IsEmpty() || hasNaN(box) {
		return out
	}
	for _, o := range g.oversized {
		if o.box.Intersects(box) {
			out[o.item] = struct{}{}
		}
	}
	lo, hi := g.cellRange(box)
	if rangeVolume(lo, hi) > float64(len(g.cells)) {
		for k, items := range g.cells {
			if inRange(k, lo, hi) {
				for _, it := range items {
					out[it] = struct{}{}
				}
			}
		}
		return out
	}
	for x := lo.X; ; x++ {
		for y := lo.Y; ; y++ {
			for z := lo.Z; ; z++ {
				for _, it := range g.cells[CellKey{x, y, z}] {
					out[it] = struct{}{}
				}
				if z == hi.Z {
					break
				}
			}
			if y == hi.Y {
				break
			}
		}
		if x == hi.X {
			break
		}
	}
	return out
}

func hasNaN(b spatialmath.AABB) bool {
	for _, v := range [6]float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Clear removes every item.
func (g *Grid[T]) Clear() {
	g.cells = map[CellKey][]T{}
	g.items = map[T]struct{}{}
	g.oversized = nil
}
