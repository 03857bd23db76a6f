// Package meshbuild is a builder-pattern constructor for a uniform,
// single-resolution mesh of block.Block actors wired together with
// akita direct connections: WithEngine/WithFreq/WithRank/WithDims and
// friends configure the grid, then Build constructs every block and
// wires each one's ports to its same-level neighbors. It is ambient
// test/demo infrastructure; the refresh core has no opinion on how a
// mesh of blocks is actually assembled or connected.
package meshbuild

import (
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/sarchlab/meshrefresh/block"
	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/refresh"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/store/memstore"
)

// Builder assembles a Mesh: a rank-R grid of uniform blocks, each
// bound to its own FieldStore/ParticleStore/FluxStore, with direct
// connections plugged in between every pair of same-level neighbors
// (periodic wraps included).
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	monitor *monitoring.Monitor

	rank       int
	dims       [3]int32
	blockSize  [3]int
	ghostDepth [3]int
	periodic   [3]bool
	domainLo   [3]float64
	domainHi   [3]float64

	pr store.ProlongRestrict
}

// NewBuilder starts a Builder in its zero-value-then-With* idiom.
func NewBuilder() Builder { return Builder{} }

func (b Builder) WithEngine(engine sim.Engine) Builder { b.engine = engine; return b }
func (b Builder) WithFreq(freq sim.Freq) Builder       { b.freq = freq; return b }

// WithMonitor sets the monitor every built block registers with.
func (b Builder) WithMonitor(monitor *monitoring.Monitor) Builder { b.monitor = monitor; return b }

func (b Builder) WithRank(rank int) Builder { b.rank = rank; return b }

func (b Builder) WithDims(dims [3]int32) Builder { b.dims = dims; return b }

func (b Builder) WithBlockSize(n3 [3]int) Builder { b.blockSize = n3; return b }

func (b Builder) WithGhostDepth(g3 [3]int) Builder { b.ghostDepth = g3; return b }

func (b Builder) WithPeriodic(p [3]bool) Builder { b.periodic = p; return b }

func (b Builder) WithDomain(lo, hi [3]float64) Builder {
	b.domainLo, b.domainHi = lo, hi
	return b
}

func (b Builder) WithProlongRestrict(pr store.ProlongRestrict) Builder { b.pr = pr; return b }

// Mesh is the assembled set of block actors plus the topology oracle
// they share.
type Mesh struct {
	Blocks map[string]*block.Block
	Topo   *memstore.UniformMesh
	Ctx    *refresh.Context
}

// BlockAt returns the block at root array coordinate arr.
func (m *Mesh) BlockAt(arr [3]int32) *block.Block {
	return m.Blocks[geom.NewIndex(m.Topo.Rank(), arr).String()]
}

// Build constructs every block and its storage first, then wires every
// same-level neighbor connection in a second pass.
func (b Builder) Build(name string) *Mesh {
	topo := memstore.NewUniformMesh(b.rank, b.dims, b.blockSize, b.periodic, b.domainLo, b.domainHi)
	groups := memstore.NewFieldGroups()
	ctx := refresh.NewContext(topo, b.pr, groups)

	mesh := &Mesh{Blocks: make(map[string]*block.Block), Topo: topo, Ctx: ctx}

	dims := b.dims
	for axis := b.rank; axis < 3; axis++ {
		dims[axis] = 1
	}

	n3 := [3]int{1, 1, 1}
	g3 := [3]int{0, 0, 0}
	for axis := 0; axis < b.rank; axis++ {
		n3[axis] = b.blockSize[axis]
		g3[axis] = b.ghostDepth[axis]
	}

	for z := int32(0); z < dims[2]; z++ {
		for y := int32(0); y < dims[1]; y++ {
			for x := int32(0); x < dims[0]; x++ {
				arr := [3]int32{x, y, z}
				idx := geom.NewIndex(b.rank, arr)
				center, halfWidth := topo.Center(idx)

				blkName := fmt.Sprintf("%s.Block%s", name, idx.String())
				blk := block.NewBlock(
					blkName, b.engine, b.freq,
					idx, 0, b.rank, n3, g3,
					ctx,
					memstore.NewFieldStore(),
					make(map[int][]byte),
					memstore.NewParticleStore(),
					memstore.NewFluxStore(),
					center, halfWidth,
				)
				if b.monitor != nil {
					b.monitor.RegisterComponent(blk)
				}
				mesh.Blocks[idx.String()] = blk
			}
		}
	}

	b.connect(mesh, topo)
	return mesh
}

// connect plugs a direct connection between every pair of neighbors
// that the uniform mesh reports, skipping a pair once it has been
// wired from the other side.
func (b Builder) connect(mesh *Mesh, topo *memstore.UniformMesh) {
	seen := make(map[string]bool)
	for _, src := range mesh.Blocks {
		neighbors, err := topo.Neighbors(src.Index, 0, store.NeighborLeaf, topo.MinLevel(), src.Level)
		if err != nil {
			panic(err)
		}
		for _, nb := range neighbors {
			dst, ok := mesh.Blocks[nb.Index.String()]
			if !ok {
				continue
			}
			key := connKey(src.Index.String(), nb.Face, nb.Index.String())
			if seen[key] {
				continue
			}
			seen[key] = true

			connName := fmt.Sprintf("%s.%s.%s", src.Name(), nb.Face.Name(), dst.Name())
			conn := directconnection.MakeBuilder().
				WithEngine(b.engine).
				WithFreq(b.freq).
				Build(connName)

			srcPort := sim.NewPort(src, 8, 8, src.Name()+"."+block.PortKey(nb))
			dstNb := store.NeighborInfo{Face: nb.Face.Opposite(), Index: src.Index, FaceLevel: src.Level}
			dstPort := sim.NewPort(dst, 8, 8, dst.Name()+"."+block.PortKey(dstNb))

			conn.PlugIn(srcPort)
			conn.PlugIn(dstPort)

			src.AddNeighborPort(nb, srcPort, dstPort.AsRemote())
			dst.AddNeighborPort(dstNb, dstPort, srcPort.AsRemote())
		}
	}
}

func connKey(a string, f geom.Face, b string) string {
	opp := f.Opposite()
	lo, hi := a, b
	if b < a {
		lo, hi = b, a
		f = opp
	}
	return fmt.Sprintf("%s|%v|%s", lo, f, hi)
}
