// Package flux implements face-flux coarsening and accumulation at
// resolution jumps.
package flux

import (
	"fmt"

	"github.com/sarchlab/meshrefresh/box"
	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
)

// Coarsen averages one fine sender's whole face-flux array down by a
// factor of 2 on every tangential axis. The sender's array already
// covers exactly the portion of the coarse neighbor's face that its
// child index occupies; placing the coarsened result at the right
// offset within the coarse receiver's face array is the caller's
// concern (mirroring fieldface's Box-driven placement), not this
// function's.
func Coarsen(tangentialDims [2]int, rank int, values []float64) ([]float64, error) {
	tx, ty := tangentialDims[0], tangentialDims[1]
	if rank < 3 {
		ty = 1
	}
	if tx <= 0 || tx%2 != 0 || (ty > 1 && ty%2 != 0) {
		return nil, fmt.Errorf("flux: tangential dims %dx%d are not evenly coarsenable", tx, ty)
	}
	if len(values) != tx*ty {
		return nil, fmt.Errorf("flux: values length %d does not match dims %dx%d", len(values), tx, ty)
	}

	outW, outH := tx/2, 1
	if ty > 1 {
		outH = ty / 2
	}

	out := make([]float64, outW*outH)
	for j := 0; j < outH; j++ {
		for i := 0; i < outW; i++ {
			var sum float64
			n := 0
			for dj := 0; dj < 2 && ty > 1; dj++ {
				for di := 0; di < 2; di++ {
					sx, sy := 2*i+di, 2*j+dj
					sum += values[sy*tx+sx]
					n++
				}
			}
			if n == 0 {
				sum = values[2*i] + values[2*i+1]
				n = 2
			}
			out[j*outW+i] = sum / float64(n)
		}
	}
	return out, nil
}

// BuildOutgoing produces the per-field flux payload for one neighbor
// refresh: same/fine refresh types ship an empty
// (counter-only) payload, coarse refresh types ship one coarsened
// array per flux field.
func BuildOutgoing(relLevel box.RelativeLevel, rank int, fields []store.FluxField, tangentialDims [2]int) ([]store.FluxField, error) {
	if relLevel != box.Coarser {
		return nil, nil
	}
	out := make([]store.FluxField, len(fields))
	for i, f := range fields {
		coarsened, err := Coarsen(tangentialDims, rank, f.Values)
		if err != nil {
			return nil, err
		}
		out[i] = store.FluxField{FieldID: f.FieldID, Values: coarsened}
	}
	return out, nil
}

// Accumulate adds incoming flux values onto a coarse receiver's
// existing face-flux store, field-by-field, via fs.Accumulate.
func Accumulate(fs store.FluxStore, axis int, face geom.Face, incoming []store.FluxField) error {
	if len(incoming) == 0 {
		return nil
	}
	return fs.Accumulate(axis, face, incoming)
}
