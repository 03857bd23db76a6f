package fieldface

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sarchlab/meshrefresh/store"
)

// elemSize returns the validated per-element byte width for prec,
// returning a PrecisionError (not store's bare error) so callers at
// the codec boundary get the typed unsupported-precision condition.
func elemSize(prec store.Precision) (int, error) {
	n, err := prec.Bytes()
	if err != nil {
		return 0, &PrecisionError{Reason: err.Error()}
	}
	return n, nil
}

// getFloat reads one element at byte offset off in a precision-
// dispatched buffer. Quadruple precision is represented as a 16-byte
// element whose low 8 bytes are a float64 and whose high 8 bytes are
// reserved (always zero); this module does not claim true 128-bit
// arithmetic, only the 16-byte wire/storage width.
func getFloat(prec store.Precision, buf []byte, off int) float64 {
	switch prec {
	case store.PrecisionSingle:
		bits := binary.LittleEndian.Uint32(buf[off:])
		return float64(math.Float32frombits(bits))
	case store.PrecisionDouble, store.PrecisionQuadruple:
		bits := binary.LittleEndian.Uint64(buf[off:])
		return math.Float64frombits(bits)
	default:
		panic(fmt.Sprintf("fieldface: unknown precision %d", prec))
	}
}

func setFloat(prec store.Precision, buf []byte, off int, v float64) {
	switch prec {
	case store.PrecisionSingle:
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
	case store.PrecisionDouble:
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
	case store.PrecisionQuadruple:
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
		for i := 8; i < 16; i++ {
			buf[off+i] = 0
		}
	default:
		panic(fmt.Sprintf("fieldface: unknown precision %d", prec))
	}
}
