// Package geom defines the geometric primitives used to address blocks
// and neighbors in the octree mesh: Index, Face, and Child vectors.
package geom

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Face is a direction vector toward a neighbor. Each component is in
// {-1, 0, +1} and at least one component is nonzero.
type Face [3]int8

// Zero is the degenerate (non-)direction; never a valid Face value.
var Zero = Face{0, 0, 0}

// Rank returns how many of the three components are nonzero: 1 for a
// face-neighbor, 2 for an edge-neighbor, 3 for a corner-neighbor. This
// is the face "codimension" referred to by RefreshSpec.MinFaceRank,
// expressed as rank-minus-codimension, i.e. Codim() below is what
// MinFaceRank compares against.
func (f Face) Rank() int {
	n := 0
	for _, c := range f {
		if c != 0 {
			n++
		}
	}
	return n
}

// Codim returns the face codimension used by RefreshSpec.MinFaceRank:
// 0 for a corner, 1 for an edge, 2 for a face-neighbor (3-rank mesh).
// For a mesh of rank r this is r - Rank().
func (f Face) Codim(rank int) int {
	return rank - f.Rank()
}

// Valid reports whether f is a legal, non-degenerate face vector for a
// mesh of the given rank (components beyond rank must be zero).
func (f Face) Valid(rank int) error {
	if rank < 1 || rank > 3 {
		return fmt.Errorf("geom: invalid rank %d", rank)
	}
	nonzero := false
	for i, c := range f {
		if c < -1 || c > 1 {
			return fmt.Errorf("geom: face component %d out of range {-1,0,1}: %d", i, c)
		}
		if i >= rank && c != 0 {
			return fmt.Errorf("geom: face component %d set beyond mesh rank %d", i, rank)
		}
		if c != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		return fmt.Errorf("geom: face vector must not be all zero")
	}
	return nil
}

// Opposite returns the face pointing the opposite direction, i.e. how
// the neighbor sees this block.
func (f Face) Opposite() Face {
	return Face{-f[0], -f[1], -f[2]}
}

var axisNames = [3][2]string{
	{"West", "East"},
	{"South", "North"},
	{"Down", "Up"},
}

// Name renders a composite, human-readable direction name such as
// "East" or "East-North-Up" in title case.
func (f Face) Name() string {
	var parts []string
	for axis, c := range f {
		switch c {
		case -1:
			parts = append(parts, axisNames[axis][0])
		case 1:
			parts = append(parts, axisNames[axis][1])
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return titleCaser.String(strings.Join(parts, "-"))
}

// AllFaces enumerates all 3^rank - 1 non-zero face vectors for a mesh
// of the given rank, in a fixed deterministic order (z varying
// fastest).
func AllFaces(rank int) []Face {
	var faces []Face
	lo, hi := [3]int8{0, 0, 0}, [3]int8{0, 0, 0}
	for axis := 0; axis < 3; axis++ {
		if axis < rank {
			lo[axis], hi[axis] = -1, 1
		}
	}
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				f := Face{x, y, z}
				if f != Zero {
					faces = append(faces, f)
				}
			}
		}
	}
	return faces
}
