package geom

import "fmt"

// Child identifies which of the 2^rank children of a parent block a
// block is. Each component is 0 or 1.
type Child [3]uint8

// Valid reports whether c is legal for a mesh of the given rank
// (components beyond rank must be 0).
func (c Child) Valid(rank int) error {
	for i, v := range c {
		if v > 1 {
			return fmt.Errorf("geom: child component %d out of range {0,1}: %d", i, v)
		}
		if i >= rank && v != 0 {
			return fmt.Errorf("geom: child component %d set beyond mesh rank %d", i, rank)
		}
	}
	return nil
}

// AllChildren enumerates the 2^rank child vectors of a parent block,
// in a fixed deterministic order.
func AllChildren(rank int) []Child {
	var children []Child
	hi := [3]uint8{0, 0, 0}
	for axis := 0; axis < rank; axis++ {
		hi[axis] = 1
	}
	for x := uint8(0); x <= hi[0]; x++ {
		for y := uint8(0); y <= hi[1]; y++ {
			for z := uint8(0); z <= hi[2]; z++ {
				children = append(children, Child{x, y, z})
			}
		}
	}
	return children
}

// FaceChild returns the child vector obtained by fixing the axes where
// face is nonzero to the side face points to (0 for -1, 1 for +1) and
// sweeping the tangential axes according to a sub-index in [0, 2^t)
// where t is the number of tangential (zero) axes. This enumerates the
// fine children that touch one coarse face.
func FaceChild(face Face, sub int) Child {
	var c Child
	bit := 0
	for axis := 0; axis < 3; axis++ {
		switch face[axis] {
		case -1:
			c[axis] = 0
		case 1:
			c[axis] = 1
		default:
			c[axis] = uint8((sub >> bit) & 1)
			bit++
		}
	}
	return c
}

// NumFaceChildren returns 2^t, the number of fine children touching
// one coarse face of a mesh with the given rank, where t is the number
// of tangential (zero) axes in face.
func NumFaceChildren(rank int, face Face) int {
	t := 0
	for axis := 0; axis < rank; axis++ {
		if face[axis] == 0 {
			t++
		}
	}
	return 1 << uint(t)
}
