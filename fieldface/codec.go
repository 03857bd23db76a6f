// Package fieldface implements the FieldFace codec: packing a field
// region into a contiguous byte array for transmission, and unpacking
// it into a receiver's ghost zones via same-level copy, coarse-side
// restriction, or fine-side prolongation.
package fieldface

import (
	"github.com/sarchlab/meshrefresh/box"
	"github.com/sarchlab/meshrefresh/store"
)

// Pack extracts field's send region (already computed on b) into a
// contiguous buffer. When conservative is true and refreshType is not
// box.Same, the region is multiplied element-wise by density before
// being returned (the source field's ghost-inclusion of density must
// already have been packed/received by the caller beforehand).
func Pack(b *box.Box, field *store.Field, density []byte, conservative bool, refreshType box.RelativeLevel) ([]byte, [3]int, error) {
	lo, hi, err := b.Limits()
	if err != nil {
		return nil, [3]int{}, err
	}
	region, err := ExtractRegion(field.Precision, field.Values, field.Dimensions, lo, hi)
	if err != nil {
		return nil, [3]int{}, err
	}
	shape := b.Shape()

	if conservative && refreshType != box.Same {
		if err := ScaleByDensity(field.Precision, region, density, shape, false); err != nil {
			return nil, [3]int{}, err
		}
	}
	return region, shape, nil
}

// UnpackSameLevel writes a same-level packed region directly into the
// receiver field's ghost zone at [lo,hi), adding when accumulate is
// true.
func UnpackSameLevel(field *store.Field, lo, hi [3]int, region []byte, density []byte, conservative bool, accumulate bool) error {
	if conservative {
		shape := [3]int{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]}
		if err := ScaleByDensity(field.Precision, region, density, shape, true); err != nil {
			return err
		}
	}
	return InsertRegion(field.Precision, field.Values, field.Dimensions, lo, hi, region, accumulate)
}

// UnpackRestrict averages part of a fine-shaped packed region down by
// a factor of 2 per axis via pr.Restrict, writing dstShape coarse
// cells into the receiver field anchored at dstLo. The fine sender
// ships its full interior; srcLo selects the near-face sub-box of it
// that actually lands in the receiver's ghost zone.
func UnpackRestrict(pr store.ProlongRestrict, field *store.Field, dstLo, dstShape [3]int, region []byte, fineShape, srcLo [3]int, density []byte, conservative bool, accumulate bool) error {
	if conservative {
		if err := ScaleByDensity(field.Precision, region, density, fineShape, true); err != nil {
			return err
		}
	}
	return pr.Restrict(field.Precision, field.Values, field.Dimensions, dstLo, dstShape,
		region, fineShape, srcLo, double(dstShape), accumulate)
}

// UnpackProlong interpolates a coarse-shaped packed region up by a
// factor of 2 per axis via pr.Prolong, writing the result into the
// fine receiver field's ghost zone anchored at lo. When pr.Padding()
// is nonzero the caller must instead stage the region via the padded
// pool (see padded.go) and defer this call to the post-hook.
func UnpackProlong(pr store.ProlongRestrict, field *store.Field, lo [3]int, coarseShape [3]int, region []byte, accumulate bool) error {
	fineShape := double(coarseShape)
	return pr.Prolong(field.Precision, field.Values, field.Dimensions, lo, fineShape,
		region, coarseShape, [3]int{0, 0, 0}, coarseShape, accumulate)
}

func double(n [3]int) [3]int {
	out := n
	for i := range out {
		out[i] *= 2
	}
	return out
}

// CheckGhostParity returns a StencilError when ghostDepth is odd and
// the configured operator has no padding: an odd ghost depth cannot
// be halved into whole coarse layers.
func CheckGhostParity(ghostDepth int, padding int) error {
	if ghostDepth%2 != 0 && padding == 0 {
		return &StencilError{GhostDepth: ghostDepth}
	}
	return nil
}
