package fieldface_test

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sarchlab/meshrefresh/store"
)

func precBytes(prec store.Precision) (int, error) {
	n, err := prec.Bytes()
	if err != nil {
		return 0, fmt.Errorf("fieldface_test: %w", err)
	}
	return n, nil
}

func readFloat(prec store.Precision, buf []byte, off int) float64 {
	switch prec {
	case store.PrecisionSingle:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
	}
}

func writeFloat(prec store.Precision, buf []byte, off int, v float64) {
	switch prec {
	case store.PrecisionSingle:
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
	default:
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
		if prec == store.PrecisionQuadruple {
			for i := 8; i < 16; i++ {
				buf[off+i] = 0
			}
		}
	}
}
