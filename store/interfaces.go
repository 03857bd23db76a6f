package store

import "github.com/sarchlab/meshrefresh/geom"

// NeighborType controls how RefreshSpec enumerates neighbors.
type NeighborType int

const (
	// NeighborLeaf crosses resolution jumps: a coarser, same-level, or
	// several finer neighbors may be yielded across one face.
	NeighborLeaf NeighborType = iota
	// NeighborTree behaves like NeighborLeaf but restricted to the
	// octree's actual child/parent links (no periodic wrap lookups).
	NeighborTree
	// NeighborLevel restricts enumeration to same-level faces only.
	NeighborLevel
)

// NeighborInfo is one entry yielded by Mesh.Neighbors: the face toward
// the neighbor, the neighbor's Index, its refinement level
// (FaceLevel), and, when the neighbor is coarser, the Child
// vector that locates the asking block within that coarser neighbor.
type NeighborInfo struct {
	Face      geom.Face
	Index     geom.Index
	FaceLevel int32
	Child     geom.Child
}

// Mesh is the topology oracle: everything the refresh core needs to
// know about block adjacency, but nothing about how or when the mesh
// adapts (adaptation itself is out of scope).
type Mesh interface {
	// Rank returns 1, 2, or 3.
	Rank() int

	// Periodicity reports, per axis, whether the domain wraps around.
	Periodicity() [3]bool

	// DomainBounds returns the lower and upper corners of the full
	// simulated domain, in world coordinates.
	DomainBounds() (lo, hi [3]float64)

	// MinLevel is the coarsest level any block in the mesh may have.
	MinLevel() int32

	// Neighbors enumerates every neighbor of block across faces/edges/
	// corners with codimension >= minFaceRank, honoring the
	// neighborType, minLevel, and rootLevel clamps.
	Neighbors(block geom.Index, minFaceRank int, neighborType NeighborType, minLevel, rootLevel int32) ([]NeighborInfo, error)

	// FaceIter enumerates same-level faces only (used when
	// RefreshSpec.NeighborType == NeighborLevel).
	FaceIter(block geom.Index, minFaceRank int) ([]geom.Face, error)

	// BlockSize returns the number of interior cells along each axis,
	// uniform across the mesh.
	BlockSize() [3]int
}

// Field describes one field's storage metadata as the field store
// sees it; Values holds the live strided 3-D array, FORTRAN-contiguous
// (x fastest-varying), including ghost zones.
type Field struct {
	Name        string
	ID          int
	Precision   Precision
	Dimensions  [3]int // full array dims including ghosts (m3)
	GhostDepth  [3]int // g3
	Centering   geom.Child
	IsTemporary bool
	Values      []byte
}

// FieldStore is a block's field storage: a set of named, strided 3-D
// arrays plus per-field ghost depth, centering, and precision.
type FieldStore interface {
	Field(id int) (*Field, error)
	FieldByName(name string) (*Field, error)
	NumFields() int
}

// FieldGroups answers group-membership queries used by the codec's
// conservative-form scaling rule.
type FieldGroups interface {
	IsIn(fieldName, group string) bool
}

// ParticleBatch is one batch of one particle type's attribute arrays.
type ParticleBatch struct {
	Count      int
	Attributes map[int][]byte // attribute index -> packed array
}

// ParticleType describes one particle type's attribute layout.
type ParticleType struct {
	Name             string
	ID               int
	Stride           int // bytes per particle across all attributes, if interleaved
	PositionAttrs    [3]int
	PositionPrec     Precision
	AttributeBytes   map[int]int
	AttributePrec    map[int]Precision
}

// ParticleStore is a block's particle storage: batched, typed
// attribute arrays, with positions in either world-float or
// block-local-integer form.
type ParticleStore interface {
	NumTypes() int
	Type(id int) (*ParticleType, error)
	NumBatches(typeID int) int
	Batch(typeID, batch int) (*ParticleBatch, error)

	// Scatter moves the particles at the given indices within batch
	// into target, removing them from this store's batch.
	Scatter(typeID, batch int, indices []int, target *ParticleBatch) error

	// DeleteParticles removes the given indices from the batch
	// in-place (used when a particle's position update keeps it local
	// but its sort bin changed, or after an empty scatter).
	DeleteParticles(typeID, batch int, indices []int) error

	// AppendBatch adds a freshly received batch of particles for typeID.
	AppendBatch(typeID int, batch ParticleBatch) error
}

// FluxField is one field's per-face flux array at one axis/face pair.
type FluxField struct {
	FieldID int
	Values  []float64 // face-area-ordered, tangential axes row-major
}

// FluxStore is a block's per-axis, per-face flux storage.
type FluxStore interface {
	Faces(axis int, face geom.Face) ([]FluxField, error)
	Accumulate(axis int, face geom.Face, incoming []FluxField) error
}

// ProlongRestrict is the interpolation/averaging operator pair
// supplied by the physics layer. Padding is the operator's stencil
// footprint beyond the coarse region it interpolates (0 for a simple
// operator, >0 for one whose support extends into neighboring coarse
// blocks).
type ProlongRestrict interface {
	Padding() int

	// Prolong interpolates src (coarse-shape, m3Src/i3Src/n3Src in
	// coarse cells) into dst (fine-shape). If accumulate, results are
	// added to dst rather than overwriting it. An operator with
	// Padding() > 0 reads up to Padding() cells beyond [i3Src,
	// i3Src+n3Src) as stencil input; its output still covers exactly
	// 2*n3Src fine cells anchored at i3Dst.
	Prolong(prec Precision, dst []byte, m3Dst, i3Dst, n3Dst [3]int, src []byte, m3Src, i3Src, n3Src [3]int, accumulate bool) error

	// Restrict averages src (fine-shape) down into dst (coarse-shape).
	Restrict(prec Precision, dst []byte, m3Dst, i3Dst, n3Dst [3]int, src []byte, m3Src, i3Src, n3Src [3]int, accumulate bool) error
}
