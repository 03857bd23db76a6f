// Package memstore is a reference in-memory implementation of the
// store.Mesh, store.FieldStore, store.ParticleStore, store.FluxStore,
// and store.ProlongRestrict interfaces. It is ambient test tooling
// (used by the package-level tests and samples/refreshdemo), not part
// of the refresh core's scope: the core only ever consumes the store
// interfaces.
package memstore

import (
	"fmt"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
)

// UniformMesh is a flat, single-resolution octree forest: width x
// height x depth root blocks of uniform size, with optional
// periodicity per axis. It answers store.Mesh queries by array-
// coordinate arithmetic alone; mesh adaptation (changing which blocks
// exist or their levels) is out of scope and not modeled here.
type UniformMesh struct {
	rank        int
	dims        [3]int32 // number of root blocks per axis
	blockSize   [3]int
	periodic    [3]bool
	domainLo    [3]float64
	domainHi    [3]float64
	minLevel    int32
}

// NewUniformMesh builds a UniformMesh of the given rank, root-block
// grid dims, per-block interior cell count, periodicity, and domain
// bounds.
func NewUniformMesh(rank int, dims [3]int32, blockSize [3]int, periodic [3]bool, domainLo, domainHi [3]float64) *UniformMesh {
	return &UniformMesh{
		rank:      rank,
		dims:      dims,
		blockSize: blockSize,
		periodic:  periodic,
		domainLo:  domainLo,
		domainHi:  domainHi,
	}
}

func (m *UniformMesh) Rank() int                      { return m.rank }
func (m *UniformMesh) Periodicity() [3]bool           { return m.periodic }
func (m *UniformMesh) DomainBounds() (lo, hi [3]float64) { return m.domainLo, m.domainHi }
func (m *UniformMesh) MinLevel() int32                { return m.minLevel }
func (m *UniformMesh) BlockSize() [3]int              { return m.blockSize }

// wrap maps a raw array coordinate into [0,dim) along axes that are
// periodic; a non-periodic axis out of range yields ok=false.
func (m *UniformMesh) wrap(axis int, v int32) (int32, bool) {
	dim := m.dims[axis]
	if axis >= m.rank || dim <= 1 {
		return 0, axis >= m.rank || v == 0
	}
	if v >= 0 && v < dim {
		return v, true
	}
	if !m.periodic[axis] {
		return 0, false
	}
	v %= dim
	if v < 0 {
		v += dim
	}
	return v, true
}

// Neighbors enumerates the (up to) 3^rank-1 same-level neighbors of
// block, honoring minFaceRank and periodic wraparound; NeighborTree
// restricts to non-wrapped neighbors only (no periodic lookups),
// NeighborLevel is handled
// by package topology via FaceIter and never reaches here directly but
// is accepted identically to NeighborLeaf for a single-resolution mesh.
func (m *UniformMesh) Neighbors(block geom.Index, minFaceRank int, neighborType store.NeighborType, minLevel, rootLevel int32) ([]store.NeighborInfo, error) {
	if block.Level() != 0 {
		return nil, fmt.Errorf("memstore: UniformMesh only models level-0 blocks, got level %d", block.Level())
	}
	arr := block.Array()
	var out []store.NeighborInfo
	for _, f := range geom.AllFaces(m.rank) {
		if f.Codim(m.rank) < minFaceRank {
			continue
		}
		var nbArr [3]int32
		wrapped := false
		ok := true
		for axis := 0; axis < 3; axis++ {
			v, good := m.wrap(axis, arr[axis]+int32(f[axis]))
			if !good {
				ok = false
				break
			}
			if axis < m.rank && v != arr[axis]+int32(f[axis]) {
				wrapped = true
			}
			nbArr[axis] = v
		}
		if !ok {
			continue
		}
		if neighborType == store.NeighborTree && wrapped {
			continue
		}
		out = append(out, store.NeighborInfo{
			Face:      f,
			Index:     geom.NewIndex(m.rank, nbArr),
			FaceLevel: 0,
		})
	}
	return out, nil
}

// FaceIter enumerates the directions of block with codimension >=
// minFaceRank that have a same-level neighbor.
func (m *UniformMesh) FaceIter(block geom.Index, minFaceRank int) ([]geom.Face, error) {
	neighbors, err := m.Neighbors(block, minFaceRank, store.NeighborLeaf, m.minLevel, block.Level())
	if err != nil {
		return nil, err
	}
	faces := make([]geom.Face, len(neighbors))
	for i, n := range neighbors {
		faces[i] = n.Face
	}
	return faces, nil
}

// Center returns the world-coordinate center and half-width of block,
// used by particle migration's lattice classification.
func (m *UniformMesh) Center(block geom.Index) (center, halfWidth [3]float64) {
	arr := block.Array()
	for axis := 0; axis < 3; axis++ {
		if axis >= m.rank {
			continue
		}
		span := (m.domainHi[axis] - m.domainLo[axis]) / float64(m.dims[axis])
		center[axis] = m.domainLo[axis] + span*(float64(arr[axis])+0.5)
		halfWidth[axis] = span / 2
	}
	return center, halfWidth
}
