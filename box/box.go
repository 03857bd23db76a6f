// Package box computes the half-open send-region intersection between
// a sender block, a receiver block, and (for padded coarse/fine
// interfaces) auxiliary "extra" blocks.
package box

import (
	"fmt"

	"github.com/sarchlab/meshrefresh/geom"
)

// RelativeLevel describes a neighbor's level relative to the sender:
// Coarser means the neighbor (receiver or extra) is one level coarser
// than the sender, Finer one level finer, Same the same level.
type RelativeLevel int8

const (
	Coarser RelativeLevel = -1
	Same    RelativeLevel = 0
	Finer   RelativeLevel = 1
)

// Participant is one side of a Box: the neighbor's level relative to
// the sender, the face vector toward it, and (when relevant) the
// Child vector locating the finer side within its coarser parent.
type Participant struct {
	RelLevel RelativeLevel
	Face     geom.Face
	Child    geom.Child
}

// Box computes, in the sender's local cell-index frame, the half-open
// send region [lo, hi) for one participant pairing.
type Box struct {
	Rank       int
	N3         [3]int // sender interior cell counts
	G3         [3]int // sender ghost depths
	Padding    int     // extra cells added on every axis (prolong stencil footprint)
	Accumulate bool    // whether this transfer accumulates (extends tangential ghosts)
	GhostAxis  [3]bool // per-axis "include ghost cells on this tangential axis" option

	send    Participant
	hasSend bool

	lo, hi   [3]int
	computed bool
}

// New creates a Box for a sender block of the given rank, interior
// size n3, and ghost depth g3.
func New(rank int, n3, g3 [3]int) *Box {
	return &Box{Rank: rank, N3: n3, G3: g3}
}

// SetSend configures the send/receive participant pairing: face is the
// direction from sender toward the neighbor, relLevel is the
// neighbor's level relative to sender, and child (when relLevel ==
// Finer) is which fine child of the sender's face the receiver is, or
// (when relLevel == Coarser) which child of the coarser receiver the
// sender occupies.
func (b *Box) SetSend(p Participant) error {
	if err := p.Face.Valid(b.Rank); err != nil {
		return fmt.Errorf("box: %w", err)
	}
	if err := p.Child.Valid(b.Rank); err != nil {
		return fmt.Errorf("box: %w", err)
	}
	b.send = p
	b.hasSend = true
	b.computed = false
	return nil
}

// ComputeRegion computes the half-open send range under the
// coarse/fine tie-break rules: same-level neighbors get the interior face slab
// (extended on tangential axes per the accumulation policy);
// coarse-to-fine transfers send the coarse sender's half block under
// the receiver's child index; fine-to-coarse transfers send the full
// fine interior.
func (b *Box) ComputeRegion() error {
	if !b.hasSend {
		return fmt.Errorf("box: send participant not set")
	}

	for axis := 0; axis < 3; axis++ {
		if axis >= b.Rank {
			b.lo[axis], b.hi[axis] = 0, 1
			continue
		}

		n, g := b.N3[axis], b.G3[axis]
		f := b.send.Face[axis]

		var lo, hi int
		switch {
		case f != 0:
			lo, hi = b.normalAxisRange(axis, n, g, f)
		default:
			lo, hi = b.tangentialAxisRange(axis, n, g)
		}

		lo -= b.Padding
		hi += b.Padding

		full := n + 2*g
		if lo < 0 {
			lo = 0
		}
		if hi > full {
			hi = full
		}
		if lo >= hi {
			return fmt.Errorf("box: degenerate region on axis %d: [%d,%d)", axis, lo, hi)
		}
		b.lo[axis], b.hi[axis] = lo, hi
	}

	b.computed = true
	return nil
}

func (b *Box) normalAxisRange(axis, n, g int, f int8) (int, int) {
	switch b.send.RelLevel {
	case Same:
		if f < 0 {
			return g, g + g
		}
		return n, n + g

	case Finer:
		// Coarse sender, fine receiver: the receiver's prolongation
		// doubles every axis, so g fine ghost layers need only g/2
		// coarse layers off the near face (this is why an odd ghost
		// depth with a non-padded prolong is fatal).
		if f < 0 {
			return g, g + g/2
		}
		return g + n - g/2, g + n

	case Coarser:
		// Fine sender, coarse receiver: ship the full fine interior;
		// the receiver's restriction + this block's Child vector
		// determine where it lands on the coarse side.
		return g, g + n

	default:
		return g, g + n
	}
}

func (b *Box) tangentialAxisRange(axis, n, g int) (int, int) {
	switch b.send.RelLevel {
	case Finer:
		half := n / 2
		if b.send.Child[axis] == 0 {
			return g, g + half
		}
		return g + half, g + n

	default:
		if b.Accumulate || b.GhostAxis[axis] {
			return 0, n + 2*g
		}
		return g, g + n
	}
}

// Limits returns the computed half-open [lo, hi) region, in the
// sender's local cell-index frame (cell 0 is the first ghost cell on
// the low side).
func (b *Box) Limits() (lo, hi [3]int, err error) {
	if !b.computed {
		return [3]int{}, [3]int{}, fmt.Errorf("box: ComputeRegion not called")
	}
	return b.lo, b.hi, nil
}

// Shape returns hi-lo per axis, i.e. the cell counts of the computed
// region.
func (b *Box) Shape() [3]int {
	var s [3]int
	for i := 0; i < 3; i++ {
		s[i] = b.hi[i] - b.lo[i]
	}
	return s
}
