package refresh

import (
	"encoding/binary"
	"math"

	"github.com/sarchlab/meshrefresh/flux"
	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/wire"
)

// BuildFluxFrame implements the flux exchange's sender side: same/finer
// refresh types ship a counter-only (empty) flux message, coarser
// ships one coarsened array per flux field stored on this axis/face.
func BuildFluxFrame(spec *Spec, rank int, n3 [3]int, axis int, selfLevel int32, nb store.NeighborInfo, fs store.FluxStore) (wire.Frame, error) {
	relLevel := RelativeLevelOf(selfLevel, nb.FaceLevel)

	fields, err := fs.Faces(axis, nb.Face)
	if err != nil {
		return wire.Frame{}, err
	}
	outgoing, err := flux.BuildOutgoing(relLevel, rank, fields, tangentialDimsFor(rank, n3, axis))
	if err != nil {
		return wire.Frame{}, err
	}

	payload := wire.FluxPayload{Axis: int32(axis), Face: int32(nb.Face[axis]), NumFields: int32(len(outgoing))}
	for _, f := range outgoing {
		payload.Fields = append(payload.Fields, encodeFluxField(f))
	}
	return wire.Frame{RefreshID: spec.ID, Data: wire.DataMsg{Kind: wire.KindFlux, Flux: &payload}}, nil
}

// ApplyFluxFrame implements the flux exchange's receiving side: a
// coarse receiver accumulates every field the payload carries; an
// empty (same/finer) payload is a no-op.
func ApplyFluxFrame(fs store.FluxStore, axis int, towardSender geom.Face, payload *wire.FluxPayload) error {
	if len(payload.Fields) == 0 {
		return nil
	}
	incoming := make([]store.FluxField, len(payload.Fields))
	for i, b := range payload.Fields {
		incoming[i] = decodeFluxField(b)
	}
	return flux.Accumulate(fs, axis, towardSender, incoming)
}

// tangentialDimsFor returns the two in-plane cell counts of the face
// perpendicular to axis, dropping axis itself (rank 2 leaves the
// second entry unused; flux.Coarsen ignores it below rank 3).
func tangentialDimsFor(rank int, n3 [3]int, axis int) [2]int {
	var dims [2]int
	d := 0
	for a := 0; a < rank; a++ {
		if a == axis {
			continue
		}
		dims[d] = n3[a]
		d++
	}
	return dims
}

func encodeFluxField(f store.FluxField) []byte {
	buf := make([]byte, 4+8*len(f.Values))
	binary.BigEndian.PutUint32(buf, uint32(f.FieldID))
	for i, v := range f.Values {
		binary.BigEndian.PutUint64(buf[4+8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeFluxField(b []byte) store.FluxField {
	fieldID := int(binary.BigEndian.Uint32(b))
	n := (len(b) - 4) / 8
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = math.Float64frombits(binary.BigEndian.Uint64(b[4+8*i:]))
	}
	return store.FluxField{FieldID: fieldID, Values: values}
}
