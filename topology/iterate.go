// Package topology adapts the store.Mesh oracle into the neighbor,
// face, and "extra" enumerations the refresh dispatch and padded
// prolongation protocols need.
package topology

import (
	"fmt"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
)

// Neighbors enumerates every neighbor relevant to neighborType. For
// NeighborLevel it synthesizes same-level NeighborInfo entries from
// Mesh.FaceIter (the level iterator never crosses resolution); for
// NeighborLeaf/NeighborTree it defers entirely to Mesh.Neighbors.
func Neighbors(mesh store.Mesh, block geom.Index, minFaceRank int, neighborType store.NeighborType, minLevel, rootLevel int32) ([]store.NeighborInfo, error) {
	if neighborType == store.NeighborLevel {
		faces, err := mesh.FaceIter(block, minFaceRank)
		if err != nil {
			return nil, err
		}
		out := make([]store.NeighborInfo, 0, len(faces))
		for _, f := range faces {
			infos, err := mesh.Neighbors(block, minFaceRank, store.NeighborLeaf, minLevel, rootLevel)
			if err != nil {
				return nil, err
			}
			for _, ni := range infos {
				if ni.Face == f && ni.FaceLevel == block.Level() {
					out = append(out, ni)
				}
			}
		}
		return out, nil
	}
	return mesh.Neighbors(block, minFaceRank, neighborType, minLevel, rootLevel)
}

// Extra enumerates the blocks that may contribute to the padded
// footprint of a coarse->fine prolongation across face f of sender:
// every neighbor of sender whose level differs from
// sender's by at most one, excluding the direct neighbor of that face
// and any extra whose level difference is out of {-1,0,1}.
func Extra(mesh store.Mesh, sender geom.Index, face geom.Face, directNeighbor geom.Index, minFaceRank int) ([]store.NeighborInfo, error) {
	all, err := mesh.Neighbors(sender, minFaceRank, store.NeighborLeaf, mesh.MinLevel(), sender.Level())
	if err != nil {
		return nil, fmt.Errorf("topology: extra enumeration failed: %w", err)
	}

	senderLevel := sender.Level()
	out := make([]store.NeighborInfo, 0, len(all))
	for _, ni := range all {
		if ni.Index.Equal(directNeighbor) {
			continue
		}
		diff := ni.FaceLevel - senderLevel
		if diff < -1 || diff > 1 {
			continue
		}
		out = append(out, ni)
	}
	return out, nil
}

// ClampFace clamps each component of f to {-1,0,1}; the padded-corner
// bookkeeping can produce magnitudes greater than one before this
// clamp is applied.
func ClampFace(f geom.Face) geom.Face {
	clamp := func(v int8) int8 {
		if v < -1 {
			return -1
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return geom.Face{clamp(f[0]), clamp(f[1]), clamp(f[2])}
}
