package particle

import "github.com/sarchlab/meshrefresh/store"

// Slot is one neighbor's lattice range plus the periodic shift
// (±(domain_upper-domain_lower) per wrapped axis) applied to a
// particle's position when it migrates into that neighbor.
type Slot struct {
	ID            int
	Range         Range
	PeriodicShift [3]float64
}

// Plan is the outcome of classifying one batch's particles: for each
// slot ID, the indices (into the original batch) that must scatter to
// that neighbor.
type Plan map[int][]int

// Classify computes, for every particle in batch, which slot (if any)
// it migrates to, applying the slot's periodic shift to the particle's
// stored position in place before it is scattered (so that Scatter
// ships the already-corrected position). Particles landing in the
// block's own interior {1,2}^rank lattice cells are left untouched and
// do not appear in the returned Plan.
func Classify(rank int, pt *store.ParticleType, batch *store.ParticleBatch, center, halfWidth [3]float64, slots []Slot) (Plan, error) {
	positions, err := ExtractPositions(rank, pt, batch)
	if err != nil {
		return nil, err
	}

	plan := make(Plan)
	for i, pos := range positions {
		cell := IndexOfFloat(rank, pos, center, halfWidth)
		if cell.Interior(rank) {
			continue
		}

		matched := false
		for _, s := range slots {
			if !s.Range.Contains(rank, cell) {
				continue
			}
			matched = true
			for axis := 0; axis < rank; axis++ {
				if s.PeriodicShift[axis] != 0 {
					ShiftPosition(pt, batch, axis, i, s.PeriodicShift[axis])
				}
			}
			plan[s.ID] = append(plan[s.ID], i)
			break
		}
		if !matched {
			return nil, &LatticeError{Cell: cell}
		}
	}
	return plan, nil
}

// CheckWithinDomain verifies pos lies within [lo,hi) on every modeled
// axis, returning a *DomainError naming the first violating axis
// otherwise.
func CheckWithinDomain(rank int, pos, lo, hi [3]float64) error {
	for axis := 0; axis < rank; axis++ {
		if pos[axis] < lo[axis] || pos[axis] >= hi[axis] {
			return &DomainError{Axis: axis}
		}
	}
	return nil
}
