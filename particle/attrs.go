package particle

import (
	"encoding/binary"
	"math"

	"github.com/sarchlab/meshrefresh/store"
)

func attrElemSize(prec store.Precision) (int, error) {
	switch prec {
	case store.PrecisionSingle, store.PrecisionDouble:
		n, err := prec.Bytes()
		if err != nil {
			return 0, &PrecisionError{Reason: err.Error()}
		}
		return n, nil
	default:
		return 0, &PrecisionError{Reason: "position attribute precision must be single or double"}
	}
}

func readAttr(prec store.Precision, buf []byte, index int) float64 {
	es, _ := attrElemSize(prec)
	off := index * es
	if prec == store.PrecisionSingle {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
}

func writeAttr(prec store.Precision, buf []byte, index int, v float64) {
	es, _ := attrElemSize(prec)
	off := index * es
	if prec == store.PrecisionSingle {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
		return
	}
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
}

// ExtractPositions reads every particle's position in batch, using
// pt's position attribute indices and precision.
func ExtractPositions(rank int, pt *store.ParticleType, batch *store.ParticleBatch) ([][3]float64, error) {
	if _, err := attrElemSize(pt.PositionPrec); err != nil {
		return nil, err
	}
	positions := make([][3]float64, batch.Count)
	for axis := 0; axis < rank; axis++ {
		attrID := pt.PositionAttrs[axis]
		buf := batch.Attributes[attrID]
		for i := 0; i < batch.Count; i++ {
			positions[i][axis] = readAttr(pt.PositionPrec, buf, i)
		}
	}
	return positions, nil
}

// ShiftPosition adds delta to particle index i's position attribute on
// axis, in place within batch.
func ShiftPosition(pt *store.ParticleType, batch *store.ParticleBatch, axis, index int, delta float64) {
	attrID := pt.PositionAttrs[axis]
	buf := batch.Attributes[attrID]
	v := readAttr(pt.PositionPrec, buf, index)
	writeAttr(pt.PositionPrec, buf, index, v+delta)
}
