package fieldface

import (
	"sync"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
)

// PaddedKey identifies one pending padded-prolongation slot: the face
// the data arrived on and the fine child it belongs to (a padded
// prolong operator's stencil reaches past a single coarse
// neighbor, so the coarse side's direct send plus its "extra"
// neighbors' contributions must all be staged before the fine
// receiver's post-hook actually applies Prolong).
type PaddedKey struct {
	Face  geom.Face
	Child geom.Child
}

// stagedRegion is one arrived contribution awaiting the post-hook.
type stagedRegion struct {
	region []byte
	shape  [3]int
	lo     [3]int
}

// Pool holds, per receiving field and per PaddedKey, the set of
// coarse-side regions gathered so far for a padded prolongation. The
// dispatcher calls Stage as each message arrives and ApplyPadded from the
// post-hook once the owning Sync transitions out of ACTIVE.
type Pool struct {
	mu    sync.Mutex
	slots map[int]map[PaddedKey][]stagedRegion
}

// NewPool creates an empty staging pool.
func NewPool() *Pool {
	return &Pool{slots: make(map[int]map[PaddedKey][]stagedRegion)}
}

// Stage records one arrived padded-face contribution for fieldID/key.
func (p *Pool) Stage(fieldID int, key PaddedKey, region []byte, shape, lo [3]int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.slots[fieldID] == nil {
		p.slots[fieldID] = make(map[PaddedKey][]stagedRegion)
	}
	p.slots[fieldID][key] = append(p.slots[fieldID][key], stagedRegion{region: region, shape: shape, lo: lo})
}

// Count reports how many contributions are staged for fieldID/key.
func (p *Pool) Count(fieldID int, key PaddedKey) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots[fieldID][key])
}

// ApplyPadded merges every staged contribution for fieldID/key into one
// padded coarse-shape buffer covering [min(lo), max(lo+shape)) across
// all contributions, then prolongs the merged buffer into field via
// pr.Prolong, and finally clears the slot. Called from the owning
// Block's post-hook once the padded Sync for this key has reached
// READY.
func (p *Pool) ApplyPadded(pr store.ProlongRestrict, field *store.Field, fieldID int, key PaddedKey, fineLo [3]int, accumulate bool) error {
	p.mu.Lock()
	regions := p.slots[fieldID][key]
	delete(p.slots[fieldID], key)
	p.mu.Unlock()

	if len(regions) == 0 {
		return &PaddedGeometryError{Reason: "apply requested with no staged contributions"}
	}

	var loBound, hiBound [3]int
	for axis := 0; axis < 3; axis++ {
		loBound[axis] = regions[0].lo[axis]
		hiBound[axis] = regions[0].lo[axis] + regions[0].shape[axis]
	}
	for _, r := range regions[1:] {
		for axis := 0; axis < 3; axis++ {
			if r.lo[axis] < loBound[axis] {
				loBound[axis] = r.lo[axis]
			}
			hi := r.lo[axis] + r.shape[axis]
			if hi > hiBound[axis] {
				hiBound[axis] = hi
			}
		}
	}
	mergedShape := [3]int{hiBound[0] - loBound[0], hiBound[1] - loBound[1], hiBound[2] - loBound[2]}

	es, err := elemSize(field.Precision)
	if err != nil {
		return err
	}
	merged := make([]byte, es*mergedShape[0]*mergedShape[1]*mergedShape[2])
	for _, r := range regions {
		localLo := [3]int{r.lo[0] - loBound[0], r.lo[1] - loBound[1], r.lo[2] - loBound[2]}
		localHi := [3]int{localLo[0] + r.shape[0], localLo[1] + r.shape[1], localLo[2] + r.shape[2]}
		if err := InsertRegion(field.Precision, merged, mergedShape, localLo, localHi, r.region, false); err != nil {
			return err
		}
	}

	// The operator's padding cells are stencil input only: carve them
	// off the merged buffer's border so the prolonged output covers
	// exactly the unpadded footprint anchored at fineLo.
	pad := pr.Padding()
	var srcLo, srcShape [3]int
	for axis := 0; axis < 3; axis++ {
		if mergedShape[axis] > 2*pad {
			srcLo[axis] = pad
			srcShape[axis] = mergedShape[axis] - 2*pad
		} else {
			srcShape[axis] = mergedShape[axis]
		}
	}
	fineShape := double(srcShape)
	return pr.Prolong(field.Precision, field.Values, field.Dimensions, fineLo, fineShape,
		merged, mergedShape, srcLo, srcShape, accumulate)
}
