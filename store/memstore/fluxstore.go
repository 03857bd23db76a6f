package memstore

import (
	"fmt"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
)

// faceKey identifies one axis/face pair's flux storage slot.
type faceKey struct {
	axis int
	face geom.Face
}

// FluxStore is a block's in-memory per-axis, per-face flux storage:
// each registered (axis, face) slot holds one FluxField per flux
// field, overwritten wholesale by Accumulate (the coarse-side
// accumulation arithmetic is the caller's responsibility via
// flux.Accumulate; this store just holds the result).
type FluxStore struct {
	slots map[faceKey][]store.FluxField
}

// NewFluxStore builds an empty FluxStore.
func NewFluxStore() *FluxStore {
	return &FluxStore{slots: make(map[faceKey][]store.FluxField)}
}

// SetFaces seeds axis/face's flux fields (test/demo convenience).
func (fs *FluxStore) SetFaces(axis int, face geom.Face, fields []store.FluxField) {
	fs.slots[faceKey{axis, face}] = fields
}

func (fs *FluxStore) Faces(axis int, face geom.Face) ([]store.FluxField, error) {
	fields, ok := fs.slots[faceKey{axis, face}]
	if !ok {
		return nil, fmt.Errorf("memstore: no flux fields registered for axis %d face %v", axis, face)
	}
	return fields, nil
}

// Accumulate overwrites axis/face's stored fields with incoming,
// matching by FieldID; a field in incoming with no existing slot
// entry is appended. This is the sink flux.Accumulate writes through
// to once it has already summed overlapping fine contributions.
func (fs *FluxStore) Accumulate(axis int, face geom.Face, incoming []store.FluxField) error {
	key := faceKey{axis, face}
	existing := fs.slots[key]
	byID := make(map[int]int, len(existing))
	for i, f := range existing {
		byID[f.FieldID] = i
	}
	for _, in := range incoming {
		if i, ok := byID[in.FieldID]; ok {
			existing[i] = in
			continue
		}
		existing = append(existing, in)
	}
	fs.slots[key] = existing
	return nil
}
