package box

import "github.com/sarchlab/meshrefresh/geom"

// ReceiveRegion computes the half-open region, in the receiver's own
// local cell-index frame, that an incoming same-level or prolonged
// region of the given shape occupies in the receiver's ghost zone
// across face (the direction from receiver toward the sender it
// arrived from). These two transfer directions always span the
// receiver's full tangential extent, so no Child vector is needed;
// the restrict direction, where the sender's child selects a
// tangential half of the receiver's face, computes its placement at
// the dispatch layer instead.
func ReceiveRegion(rank int, n3, g3 [3]int, face geom.Face, accumulate bool, shape [3]int) (lo, hi [3]int, err error) {
	for axis := 0; axis < 3; axis++ {
		if axis >= rank {
			lo[axis], hi[axis] = 0, 1
			continue
		}
		n, g := n3[axis], g3[axis]
		switch {
		case face[axis] < 0:
			hi[axis] = g
			lo[axis] = hi[axis] - shape[axis]
		case face[axis] > 0:
			lo[axis] = n + g
			hi[axis] = lo[axis] + shape[axis]
		default:
			if accumulate {
				lo[axis], hi[axis] = 0, n+2*g
			} else {
				lo[axis], hi[axis] = g, g+n
			}
		}
	}
	return lo, hi, nil
}
