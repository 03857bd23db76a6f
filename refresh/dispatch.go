package refresh

import (
	"github.com/sarchlab/meshrefresh/box"
	"github.com/sarchlab/meshrefresh/fieldface"
	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/wire"
)

// RelativeLevelOf derives a neighbor's RelativeLevel from the raw
// levels the Mesh oracle reports: face_level = level-1 is coarser,
// level+1 is (one of potentially several) finer.
func RelativeLevelOf(selfLevel, faceLevel int32) box.RelativeLevel {
	switch {
	case faceLevel < selfLevel:
		return box.Coarser
	case faceLevel > selfLevel:
		return box.Finer
	default:
		return box.Same
	}
}

// refreshTypeWire encodes a RelativeLevel into the wire format's u8
// refresh_type field as Coarser=0, Same=1, Finer=2.
func refreshTypeWire(r box.RelativeLevel) uint8  { return uint8(r + 1) }
func refreshTypeFromWire(v uint8) box.RelativeLevel { return box.RelativeLevel(int8(v) - 1) }

// ExpectedMessageCount enumerates self's neighbors under spec's
// clamps and returns how many messages a refresh will produce: the
// value that arms Sync.Start's stop counter.
func ExpectedMessageCount(mesh store.Mesh, spec *Spec, self geom.Index) (int, error) {
	if spec.Inactive() {
		return 0, nil
	}
	neighbors, err := mesh.Neighbors(self, spec.MinFaceRank, spec.NeighborType, spec.MinLevel, spec.RootLevel)
	if err != nil {
		return 0, err
	}
	return len(neighbors), nil
}

// BuildFieldFaceFrame packs every field.src/dst pair for one neighbor
// pairing into a single field_face wire.Frame, from the sender's side.
func BuildFieldFaceFrame(ctx *Context, spec *Spec, rank int, n3, g3 [3]int, selfLevel int32, nb store.NeighborInfo, fields store.FieldStore, densities map[int][]byte) (wire.Frame, error) {
	relLevel := RelativeLevelOf(selfLevel, nb.FaceLevel)

	b := box.New(rank, n3, g3)
	if relLevel == box.Same {
		b.Accumulate = spec.Accumulate
	}
	if relLevel == box.Finer {
		b.Padding = ctx.ProlongRestrict.Padding()
		for axis := 0; axis < rank; axis++ {
			if err := fieldface.CheckGhostParity(g3[axis], b.Padding); err != nil {
				return wire.Frame{}, err
			}
		}
	}
	if err := b.SetSend(box.Participant{RelLevel: relLevel, Face: nb.Face, Child: nb.Child}); err != nil {
		return wire.Frame{}, err
	}
	if err := b.ComputeRegion(); err != nil {
		return wire.Frame{}, err
	}
	shape := b.Shape()

	payload := wire.FieldFacePayload{Face: nb.Face, Child: nb.Child, RefreshType: refreshTypeWire(relLevel)}
	for i, srcID := range spec.FieldListSrc {
		dstID := spec.FieldListDst[i]
		fld, err := fields.Field(srcID)
		if err != nil {
			return wire.Frame{}, err
		}
		conservative := ctx.FieldGroups != nil && ctx.FieldGroups.IsIn(fld.Name, "make_field_conservative")
		region, _, err := fieldface.Pack(b, fld, densities[srcID], conservative, relLevel)
		if err != nil {
			return wire.Frame{}, err
		}
		payload.Fields = append(payload.Fields, wire.FieldPayload{
			FieldID:   uint32(dstID),
			Precision: fld.Precision,
			N3:        [3]int32{int32(shape[0]), int32(shape[1]), int32(shape[2])},
			Bytes:     region,
		})
	}
	return wire.Frame{RefreshID: spec.ID, Data: wire.DataMsg{Kind: wire.KindFieldFace, FieldFace: &payload}}, nil
}

// ApplyFieldFaceFrame unpacks an arrived field_face payload into the
// receiver's own fields, dispatching to same-level copy, restrict, or
// prolong depending on the sender's encoded RefreshType. The
// accumulation policy uses spec.Accumulate directly; the
// src_index != dst_index refinement requires information the wire
// format does not carry per-field and is treated as always true here
// (the common case of distinct field lists).
func ApplyFieldFaceFrame(ctx *Context, spec *Spec, rank int, n3, g3 [3]int, payload *wire.FieldFacePayload, fields store.FieldStore, densities map[int][]byte) error {
	senderRel := refreshTypeFromWire(payload.RefreshType)
	towardSender := payload.Face.Opposite()

	for _, fp := range payload.Fields {
		fld, err := fields.Field(int(fp.FieldID))
		if err != nil {
			return err
		}
		conservative := ctx.FieldGroups != nil && ctx.FieldGroups.IsIn(fld.Name, "make_field_conservative")
		incomingShape := [3]int{int(fp.N3[0]), int(fp.N3[1]), int(fp.N3[2])}

		switch senderRel {
		case box.Same:
			lo, hi, err := box.ReceiveRegion(rank, n3, g3, towardSender, spec.Accumulate, incomingShape)
			if err != nil {
				return err
			}
			// A same-level sender ships unscaled values, so there is no
			// density factor to divide back out.
			if err := fieldface.UnpackSameLevel(fld, lo, hi, fp.Bytes, densities[int(fp.FieldID)], false, spec.Accumulate); err != nil {
				return err
			}
		case box.Coarser:
			// Sender was finer than the receiver: the wire carries the
			// sender's full fine interior; restrict only the near-face
			// sub-box into the ghost slab the sender's child covers.
			var dstLo, dstShape, srcLo [3]int
			for axis := 0; axis < 3; axis++ {
				if axis >= rank {
					dstShape[axis] = 1
					continue
				}
				n, g := n3[axis], g3[axis]
				switch {
				case towardSender[axis] < 0:
					dstShape[axis] = g
					srcLo[axis] = incomingShape[axis] - 2*g
				case towardSender[axis] > 0:
					dstLo[axis], dstShape[axis] = n+g, g
				default:
					half := n / 2
					dstLo[axis] = g + int(payload.Child[axis])*half
					dstShape[axis] = half
				}
			}
			if err := fieldface.UnpackRestrict(ctx.ProlongRestrict, fld, dstLo, dstShape, fp.Bytes, incomingShape, srcLo, densities[int(fp.FieldID)], conservative, spec.Accumulate); err != nil {
				return err
			}
		case box.Finer:
			// Sender was coarser than the receiver: receiver prolongs.
			fineShape := [3]int{incomingShape[0] * 2, incomingShape[1] * 2, incomingShape[2] * 2}
			lo, _, err := box.ReceiveRegion(rank, n3, g3, towardSender, spec.Accumulate, fineShape)
			if err != nil {
				return err
			}
			if err := fieldface.UnpackProlong(ctx.ProlongRestrict, fld, lo, incomingShape, fp.Bytes, spec.Accumulate); err != nil {
				return err
			}
		}
	}
	return nil
}
