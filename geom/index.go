package geom

import "fmt"

// Index is a hierarchical block address in the octree mesh: an
// integer array-coordinate of the root-forest block this block
// descends from, plus the tree path of child selections taken to
// reach it. Level is MinLevel + len(Tree); leaves of the root forest
// have Level >= 0, while the "sub" lattice used for
// particle-migration bookkeeping uses Level < 0.
type Index struct {
	array    [3]int32
	tree     []Child
	minLevel int32
	rank     int
}

// NewIndex creates a root-forest block index at level 0.
func NewIndex(rank int, array [3]int32) Index {
	return Index{array: array, rank: rank}
}

// NewSubIndex creates an index below the root forest's minimum level,
// used by particle migration's virtual neighbor lattice.
func NewSubIndex(rank int, array [3]int32, minLevel int32) Index {
	return Index{array: array, rank: rank, minLevel: minLevel}
}

// Array returns the root-forest array coordinate.
func (idx Index) Array() [3]int32 { return idx.array }

// Tree returns the child-selection path from the root-forest block to
// this block, ordered root-to-leaf. The returned slice is owned by the
// caller.
func (idx Index) Tree() []Child {
	out := make([]Child, len(idx.tree))
	copy(out, idx.tree)
	return out
}

// Level returns the refinement level of this block.
func (idx Index) Level() int32 {
	return idx.minLevel + int32(len(idx.tree))
}

// Rank returns the mesh rank (1, 2, or 3) this index was built for.
func (idx Index) Rank() int { return idx.rank }

// Child descends into child c of this block.
func (idx Index) Child(c Child) (Index, error) {
	if err := c.Valid(idx.rank); err != nil {
		return Index{}, err
	}
	next := Index{array: idx.array, rank: idx.rank, minLevel: idx.minLevel}
	next.tree = append(append([]Child{}, idx.tree...), c)
	return next, nil
}

// Parent returns the parent of this block and the Child vector that
// identified this block within that parent.
func (idx Index) Parent() (parent Index, ic3 Child, err error) {
	if len(idx.tree) == 0 {
		return Index{}, Child{}, fmt.Errorf("geom: index at array-level has no parent")
	}
	parent = Index{array: idx.array, rank: idx.rank, minLevel: idx.minLevel}
	parent.tree = append([]Child{}, idx.tree[:len(idx.tree)-1]...)
	ic3 = idx.tree[len(idx.tree)-1]
	return parent, ic3, nil
}

// ChildAtLevel returns the Child vector that was selected when
// descending from level-1 to level along this index's path. level
// must be in (MinLevel, Level()].
func (idx Index) ChildAtLevel(level int32) (Child, error) {
	if level <= idx.minLevel || level > idx.Level() {
		return Child{}, fmt.Errorf("geom: level %d out of range (%d, %d]", level, idx.minLevel, idx.Level())
	}
	return idx.tree[level-idx.minLevel-1], nil
}

// Ancestor returns the ancestor of idx at the given level (<= idx.Level()).
func (idx Index) Ancestor(level int32) (Index, error) {
	if level > idx.Level() || level < idx.minLevel {
		return Index{}, fmt.Errorf("geom: level %d out of range [%d, %d]", level, idx.minLevel, idx.Level())
	}
	anc := Index{array: idx.array, rank: idx.rank, minLevel: idx.minLevel}
	anc.tree = append([]Child{}, idx.tree[:level-idx.minLevel]...)
	return anc, nil
}

// Equal reports value equality between two indices.
func (idx Index) Equal(other Index) bool {
	if idx.array != other.array || idx.minLevel != other.minLevel || idx.rank != other.rank {
		return false
	}
	if len(idx.tree) != len(other.tree) {
		return false
	}
	for i := range idx.tree {
		if idx.tree[i] != other.tree[i] {
			return false
		}
	}
	return true
}

// String renders a compact, deterministic key suitable for use as a
// map key or log field; it is not meant to be parsed back.
func (idx Index) String() string {
	s := fmt.Sprintf("(%d,%d,%d)", idx.array[0], idx.array[1], idx.array[2])
	for _, c := range idx.tree {
		s += fmt.Sprintf(":%d%d%d", c[0], c[1], c[2])
	}
	return s
}
