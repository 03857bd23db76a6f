package refresh

import (
	"github.com/sarchlab/meshrefresh/box"
	"github.com/sarchlab/meshrefresh/fieldface"
	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/topology"
	"github.com/sarchlab/meshrefresh/wire"
)

// PaddedKeyFor derives the padded-pool key a fine receiver stages
// contributions under for one coarse-side face: the
// face the data arrived on plus the fine child within its parent.
func PaddedKeyFor(face geom.Face, child geom.Child) fieldface.PaddedKey {
	return fieldface.PaddedKey{Face: face, Child: child}
}

// paddedAnchor places a coarse sender's contribution within the
// shared padded-frame coordinate system used by fieldface.Pool: the
// frame's origin is the direct coarse neighbor's array-coordinate
// block, so the direct neighbor's own contribution anchors at its
// normal Box-computed [lo,hi) and an "extra" sibling's contribution
// anchors at an offset of (its array coordinate - direct neighbor's
// array coordinate) * n3 cells per axis (extras are
// same-level siblings of the direct coarse neighbor).
func paddedAnchor(rank int, n3 [3]int, sender, directNeighbor geom.Index, boxLo [3]int) [3]int {
	sArr, dArr := sender.Array(), directNeighbor.Array()
	anchor := boxLo
	for axis := 0; axis < rank; axis++ {
		anchor[axis] += int(sArr[axis]-dArr[axis]) * n3[axis]
	}
	return anchor
}

// BuildPaddedFrame builds one padded_face message shipped by a coarse
// sender (self, which may be the fine receiver's direct neighbor or
// one of its "extra" siblings) toward a fine
// receiver across face/child, covering the subregion of the receiver's
// padded staging array this sender owns.
func BuildPaddedFrame(ctx *Context, spec *Spec, rank int, n3, g3 [3]int, sender, directNeighbor geom.Index, face geom.Face, child geom.Child, fields store.FieldStore) (wire.Frame, error) {
	padding := ctx.ProlongRestrict.Padding()

	b := box.New(rank, n3, g3)
	b.Padding = padding
	if err := b.SetSend(box.Participant{RelLevel: box.Finer, Face: face, Child: child}); err != nil {
		return wire.Frame{}, err
	}
	if err := b.ComputeRegion(); err != nil {
		return wire.Frame{}, err
	}
	lo, hi, err := b.Limits()
	if err != nil {
		return wire.Frame{}, err
	}
	shape := b.Shape()
	anchor := paddedAnchor(rank, n3, sender, directNeighbor, lo)

	payload := wire.PaddedFacePayload{
		Face:     face,
		N3:       [3]int32{int32(shape[0]), int32(shape[1]), int32(shape[2])},
		Anchor:   [3]int32{int32(anchor[0]), int32(anchor[1]), int32(anchor[2])},
		MPadded:  [3]int32{int32(shape[0]), int32(shape[1]), int32(shape[2])},
		Repeat:   1,
		VolRatio: 1,
	}
	for i, srcID := range spec.FieldListSrc {
		dstID := spec.FieldListDst[i]
		fld, err := fields.Field(srcID)
		if err != nil {
			return wire.Frame{}, err
		}
		region, err := fieldface.ExtractRegion(fld.Precision, fld.Values, fld.Dimensions, lo, hi)
		if err != nil {
			return wire.Frame{}, err
		}
		payload.Fields = append(payload.Fields, wire.PaddedFieldPayload{FieldID: uint32(dstID), Bytes: region})
	}
	return wire.Frame{RefreshID: spec.ID, Data: wire.DataMsg{Kind: wire.KindPaddedFace, PaddedFace: &payload}}, nil
}

// ExpectedMessageCountWithExtras extends ExpectedMessageCount to
// account for padded prolongation: every coarser neighbor across a
// face contributes one message from the direct neighbor itself plus
// one from each of its "extra" siblings, all landing at
// this block before its refresh completes. Mesh is a shared oracle
// queryable for any block's neighbors, so the receiver can compute
// this total itself with no count_only correction needed in the
// common case; count_only remains available as a defensive fallback
// (ApplyCountOnlyFrame) for a topology this function does not model.
func ExpectedMessageCountWithExtras(ctx *Context, spec *Spec, self geom.Index, selfLevel int32) (int, error) {
	base, err := ExpectedMessageCount(ctx.Mesh, spec, self)
	if err != nil || !spec.AnyFields || ctx.ProlongRestrict == nil || ctx.ProlongRestrict.Padding() == 0 {
		return base, err
	}

	neighbors, err := ctx.Mesh.Neighbors(self, spec.MinFaceRank, spec.NeighborType, spec.MinLevel, spec.RootLevel)
	if err != nil {
		return 0, err
	}
	total := base
	for _, nb := range neighbors {
		if RelativeLevelOf(selfLevel, nb.FaceLevel) != box.Coarser {
			continue
		}
		extras, err := ExtraSenders(ctx.Mesh, nb.Index, nb.Face.Opposite(), self, spec.MinFaceRank)
		if err != nil {
			return 0, err
		}
		total += len(extras)
	}
	return total, nil
}

// ExtraSenders enumerates, for a coarse block dispatching a padded
// prolong toward one fine neighbor across face, the additional coarse
// siblings (the "extra" loop) whose contribution also
// lands in that neighbor's padded staging array. The direct neighbor
// itself is excluded; callers ship one BuildPaddedFrame per returned
// entry in addition to the direct neighbor's own.
func ExtraSenders(mesh store.Mesh, self geom.Index, face geom.Face, fineNeighbor geom.Index, minFaceRank int) ([]store.NeighborInfo, error) {
	return topology.Extra(mesh, self, face, fineNeighbor, minFaceRank)
}

// ApplyPaddedFrame stages one arrived padded_face contribution into
// pool under key, keyed by field ID (the fine
// receiver gathers contributions from the direct coarse neighbor and
// every relevant extra before its post-hook applies the prolong).
func ApplyPaddedFrame(pool *fieldface.Pool, key fieldface.PaddedKey, payload *wire.PaddedFacePayload) error {
	lo := [3]int{int(payload.Anchor[0]), int(payload.Anchor[1]), int(payload.Anchor[2])}
	shape := [3]int{int(payload.N3[0]), int(payload.N3[1]), int(payload.N3[2])}
	for _, fp := range payload.Fields {
		pool.Stage(int(fp.FieldID), key, fp.Bytes, shape, lo)
	}
	return nil
}

// RefreshExtraApply implements refresh_extra_apply, the deferred
// post-hook: for every field in fieldIDs that has staged contributions under
// key, merge them and invoke the prolong operator into the receiver's
// fine field region anchored at fineLo, then clear the slot.
func RefreshExtraApply(pool *fieldface.Pool, pr store.ProlongRestrict, fields store.FieldStore, fieldIDs []int, key fieldface.PaddedKey, fineLo [3]int, accumulate bool) error {
	for _, id := range fieldIDs {
		if pool.Count(id, key) == 0 {
			continue
		}
		fld, err := fields.Field(id)
		if err != nil {
			return err
		}
		if err := pool.ApplyPadded(pr, fld, id, key, fineLo, accumulate); err != nil {
			return err
		}
	}
	return nil
}
