// Package particle implements the 4x4x4 (or 4x4, or 4 in lower ranks)
// sort-bin lattice used to migrate particles that cross a block's
// boundary.
package particle

import "math"

// LatticeSize is the number of lattice cells along each modeled axis.
// The interior {1,2}^rank tile is the block itself; the surrounding
// shell represents the neighbor-sized tiles particles migrate into.
const LatticeSize = 4

// Cell is one coordinate in the 4x4x4 lattice.
type Cell [3]int

// Interior reports whether c is one of the block's own interior cells
// ({1,2} on every modeled axis).
func (c Cell) Interior(rank int) bool {
	for axis := 0; axis < rank; axis++ {
		if c[axis] != 1 && c[axis] != 2 {
			return false
		}
	}
	return true
}

// IndexOfFloat computes the lattice cell a floating-point position
// falls into, given the block's center and half-width along each
// modeled axis: floor((pos-center)/halfWidth + 2).
func IndexOfFloat(rank int, pos, center, halfWidth [3]float64) Cell {
	var c Cell
	for axis := 0; axis < 3; axis++ {
		if axis >= rank {
			c[axis] = 1
			continue
		}
		v := (pos[axis]-center[axis])/halfWidth[axis] + 2
		c[axis] = int(math.Floor(v))
	}
	return c
}

// IndexOfInt returns the lattice cell directly from an integer
// position already expressed in lattice coordinates.
func IndexOfInt(rank int, pos [3]int32) Cell {
	var c Cell
	for axis := 0; axis < 3; axis++ {
		if axis >= rank {
			c[axis] = 1
			continue
		}
		c[axis] = int(pos[axis])
	}
	return c
}

// Range is the half-open lattice-cell range [Lo,Hi) one neighbor owns.
type Range struct {
	Lo, Hi Cell
}

// Contains reports whether cell falls within r on every modeled axis.
func (r Range) Contains(rank int, cell Cell) bool {
	for axis := 0; axis < rank; axis++ {
		if cell[axis] < r.Lo[axis] || cell[axis] >= r.Hi[axis] {
			return false
		}
	}
	return true
}
