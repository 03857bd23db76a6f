package particle

import (
	"github.com/sarchlab/meshrefresh/box"
	"github.com/sarchlab/meshrefresh/geom"
)

// NeighborRange computes the lattice Range a single neighbor owns, on
// a mesh of the given rank, reached across face at relative level
// relLevel. When relLevel is box.Finer, child selects which of the
// several same-sized finer neighbors along that face this range
// belongs to.
func NeighborRange(rank int, face geom.Face, relLevel box.RelativeLevel, child geom.Child) Range {
	var r Range
	for axis := 0; axis < 3; axis++ {
		if axis >= rank {
			r.Lo[axis], r.Hi[axis] = 0, LatticeSize
			continue
		}
		switch {
		case face[axis] < 0:
			r.Lo[axis], r.Hi[axis] = 0, 1
		case face[axis] > 0:
			r.Lo[axis], r.Hi[axis] = LatticeSize-1, LatticeSize
		default:
			switch relLevel {
			case box.Finer:
				if child[axis] == 0 {
					r.Lo[axis], r.Hi[axis] = 1, 2
				} else {
					r.Lo[axis], r.Hi[axis] = 2, 3
				}
			default:
				r.Lo[axis], r.Hi[axis] = 1, 3
			}
		}
	}
	return r
}
