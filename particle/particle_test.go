package particle_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarchlab/meshrefresh/box"
	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/particle"
	"github.com/sarchlab/meshrefresh/store"
)

func floatBuf(vals ...float64) []byte {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func TestNeighborRangeFaceAndTangential(t *testing.T) {
	r := particle.NeighborRange(3, geom.Face{1, 0, 0}, box.Same, geom.Child{})
	require.Equal(t, particle.Cell{3, 1, 1}, r.Lo)
	require.Equal(t, particle.Cell{4, 3, 3}, r.Hi)
}

func TestNeighborRangeFinerSplitsTangentialHalf(t *testing.T) {
	r0 := particle.NeighborRange(3, geom.Face{1, 0, 0}, box.Finer, geom.Child{0, 0, 0})
	require.Equal(t, particle.Cell{3, 1, 1}, r0.Lo)
	require.Equal(t, particle.Cell{4, 2, 2}, r0.Hi)

	r1 := particle.NeighborRange(3, geom.Face{1, 0, 0}, box.Finer, geom.Child{0, 1, 1})
	require.Equal(t, particle.Cell{3, 2, 2}, r1.Lo)
	require.Equal(t, particle.Cell{4, 3, 3}, r1.Hi)
}

// Classifying a batch never loses or duplicates particles: every
// index appears in exactly the interior (untouched) or exactly one
// slot's plan.
func TestClassifyConservesParticleCount(t *testing.T) {
	pt := &store.ParticleType{
		PositionAttrs: [3]int{0, 1, 2},
		PositionPrec:  store.PrecisionDouble,
	}
	batch := &store.ParticleBatch{
		Count: 3,
		Attributes: map[int][]byte{
			0: floatBuf(0.0, 0.9, 0.5),
			1: floatBuf(0.0, 0.0, 0.0),
			2: floatBuf(0.0, 0.0, 0.0),
		},
	}
	center := [3]float64{0, 0, 0}
	halfWidth := [3]float64{0.5, 0.5, 0.5}

	slots := []particle.Slot{
		{ID: 1, Range: particle.NeighborRange(3, geom.Face{1, 0, 0}, box.Same, geom.Child{})},
		{ID: 2, Range: particle.NeighborRange(3, geom.Face{-1, 0, 0}, box.Same, geom.Child{})},
		{ID: 3, Range: particle.NeighborRange(3, geom.Face{0, 1, 0}, box.Same, geom.Child{})},
		{ID: 4, Range: particle.NeighborRange(3, geom.Face{0, -1, 0}, box.Same, geom.Child{})},
		{ID: 5, Range: particle.NeighborRange(3, geom.Face{0, 0, 1}, box.Same, geom.Child{})},
		{ID: 6, Range: particle.NeighborRange(3, geom.Face{0, 0, -1}, box.Same, geom.Child{})},
	}

	plan, err := particle.Classify(3, pt, batch, center, halfWidth, slots)
	require.NoError(t, err)

	total := 0
	for _, idxs := range plan {
		total += len(idxs)
	}
	// particle 0 at origin stays interior; particle 1 at x=0.9 leaves
	// toward +x; particle 2 at x=0.5 is exactly on the boundary cell
	// edge and also leaves toward +x.
	require.Equal(t, 2, total)
	require.Contains(t, plan[1], 1)
}

// A particle crossing a periodic +x boundary has its position
// wrapped back into [0,1) via the slot's periodic shift.
func TestPeriodicShiftWrapsPosition(t *testing.T) {
	pt := &store.ParticleType{
		PositionAttrs: [3]int{0, 1, 2},
		PositionPrec:  store.PrecisionDouble,
	}
	batch := &store.ParticleBatch{
		Count: 1,
		Attributes: map[int][]byte{
			0: floatBuf(1.01),
			1: floatBuf(0.5),
			2: floatBuf(0.5),
		},
	}
	center := [3]float64{0.5, 0.5, 0.5}
	halfWidth := [3]float64{0.5, 0.5, 0.5}

	slots := []particle.Slot{
		{
			ID:            1,
			Range:         particle.NeighborRange(3, geom.Face{1, 0, 0}, box.Same, geom.Child{}),
			PeriodicShift: [3]float64{-1.0, 0, 0},
		},
	}

	plan, err := particle.Classify(3, pt, batch, center, halfWidth, slots)
	require.NoError(t, err)
	require.Equal(t, []int{0}, plan[1])

	got, err := particle.ExtractPositions(3, pt, batch)
	require.NoError(t, err)
	require.InDelta(t, 0.01, got[0][0], 1e-9)
}

func TestClassifyRejectsUnmatchedCell(t *testing.T) {
	pt := &store.ParticleType{
		PositionAttrs: [3]int{0, 1, 2},
		PositionPrec:  store.PrecisionDouble,
	}
	batch := &store.ParticleBatch{
		Count: 1,
		Attributes: map[int][]byte{
			0: floatBuf(1.01),
			1: floatBuf(0.0),
			2: floatBuf(0.0),
		},
	}
	_, err := particle.Classify(3, pt, batch, [3]float64{0.5, 0.5, 0.5}, [3]float64{0.5, 0.5, 0.5}, nil)
	require.Error(t, err)
	var latticeErr *particle.LatticeError
	require.ErrorAs(t, err, &latticeErr)
}

func TestCheckWithinDomain(t *testing.T) {
	require.NoError(t, particle.CheckWithinDomain(3, [3]float64{0.5, 0.5, 0.5}, [3]float64{0, 0, 0}, [3]float64{1, 1, 1}))
	require.Error(t, particle.CheckWithinDomain(3, [3]float64{1.5, 0.5, 0.5}, [3]float64{0, 0, 0}, [3]float64{1, 1, 1}))
}
