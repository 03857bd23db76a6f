package block_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/google/uuid"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/meshbuild"
	"github.com/sarchlab/meshrefresh/refresh"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/store/memstore"
)

// ghostPoison marks cells that no refresh should have to touch; any
// ghost cell still holding it after a refresh was never written.
const ghostPoison = -999.0

// meshFixture is the declarative mesh layout the specs below load from
// testdata. Only the geometry lives in the fixture; field values are
// generated in code (a world-x ramp with poisoned ghost zones).
type meshFixture struct {
	Rank      int      `yaml:"rank"`
	Dims      [3]int32 `yaml:"dims"`
	BlockSize [3]int   `yaml:"block_size"`
	Ghost     [3]int   `yaml:"ghost_depth"`
	Periodic  [3]bool  `yaml:"periodic"`
	Domain    struct {
		Lo [3]float64 `yaml:"lo"`
		Hi [3]float64 `yaml:"hi"`
	} `yaml:"domain"`
	Field struct {
		ID   int    `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"field"`
}

func loadFixture(name string) meshFixture {
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	Expect(err).NotTo(HaveOccurred())
	var fx meshFixture
	Expect(yaml.Unmarshal(raw, &fx)).To(Succeed())
	return fx
}

// meshSeq keeps component names unique across specs, since several
// meshes coexist in one test process.
var meshSeq atomic.Int64

// buildRampMesh assembles the fixture's mesh on engine and fills the
// fixture field of every block with rho = world cell x in the interior
// and ghostPoison in every ghost cell. It deliberately contains no
// assertions so the concurrent-drive spec can call it off the Ginkgo
// goroutine.
func buildRampMesh(fx meshFixture, engine sim.Engine) *meshbuild.Mesh {
	name := fmt.Sprintf("BlockSuite%d", meshSeq.Add(1))
	mesh := meshbuild.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithRank(fx.Rank).
		WithDims(fx.Dims).
		WithBlockSize(fx.BlockSize).
		WithGhostDepth(fx.Ghost).
		WithPeriodic(fx.Periodic).
		WithDomain(fx.Domain.Lo, fx.Domain.Hi).
		WithProlongRestrict(memstore.Injection{Rank: fx.Rank}).
		Build(name)

	n, g := fx.BlockSize, fx.Ghost
	m3 := [3]int{n[0] + 2*g[0], n[1] + 2*g[1], n[2] + 2*g[2]}
	for _, blk := range mesh.Blocks {
		fs := blk.Fields.(*memstore.FieldStore)
		fs.AddField(fx.Field.ID, fx.Field.Name, store.PrecisionDouble, m3, g, geom.Child{})
		base := int(blk.Index.Array()[0]) * n[0]
		fs.Fill(fx.Field.ID, func(x, y, z int) float64 {
			local := [3]int{x, y, z}
			for axis := 0; axis < fx.Rank; axis++ {
				if local[axis] < g[axis] || local[axis] >= g[axis]+n[axis] {
					return ghostPoison
				}
			}
			return float64(base + x - g[0])
		})
	}
	return mesh
}

func rampSpec(fx meshFixture) *refresh.Spec {
	return &refresh.Spec{
		ID:           7,
		AnyFields:    true,
		FieldListSrc: []int{fx.Field.ID},
		FieldListDst: []int{fx.Field.ID},
		MinFaceRank:  2,
		NeighborType: store.NeighborLeaf,
		GhostDepth:   fx.Ghost,
		Callback:     uuid.New(),
	}
}

// runRampRefresh registers spec on every block, starts them all, and
// runs the engine to completion, returning how many completion
// callbacks fired. Error-returning (no assertions) for the same reason
// as buildRampMesh.
func runRampRefresh(mesh *meshbuild.Mesh, engine sim.Engine, spec *refresh.Spec) (int, error) {
	var done atomic.Int64
	for _, blk := range mesh.Blocks {
		blk.RegisterSpec(spec)
		blk.OnComplete = func(*refresh.Spec) { done.Add(1) }
	}
	for _, blk := range mesh.Blocks {
		if err := blk.StartRefresh(spec); err != nil {
			return 0, err
		}
	}
	if err := engine.Run(); err != nil {
		return 0, err
	}
	return int(done.Load()), nil
}

var _ = Describe("Block refresh over akita transport", func() {
	Context("two same-level blocks along +x", func() {
		var (
			fx     meshFixture
			engine sim.Engine
			mesh   *meshbuild.Mesh
			spec   *refresh.Spec
		)

		BeforeEach(func() {
			fx = loadFixture("uniform_mesh.yaml")
			engine = sim.NewSerialEngine()
			mesh = buildRampMesh(fx, engine)
			spec = rampSpec(fx)
		})

		It("mirrors each neighbor's interior into the facing ghost slab", func() {
			done, err := runRampRefresh(mesh, engine, spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(Equal(len(mesh.Blocks)))

			n, g := fx.BlockSize[0], fx.Ghost[0]
			fsA := mesh.BlockAt([3]int32{0, 0, 0}).Fields.(*memstore.FieldStore)
			fsB := mesh.BlockAt([3]int32{1, 0, 0}).Fields.(*memstore.FieldStore)

			mid := fx.Ghost[1] + fx.BlockSize[1]/2
			for gx := 0; gx < g; gx++ {
				// A's +x ghost layer holds B's first interior x-layers,
				// whose ramp values are world cells n, n+1, ...
				Expect(fsA.At(fx.Field.ID, g+n+gx, mid, mid)).To(Equal(float64(n + gx)))
				// B's -x ghost layer holds A's last interior x-layers.
				Expect(fsB.At(fx.Field.ID, gx, mid, mid)).To(Equal(float64(n - g + gx)))
			}

			// The interiors are untouched by a non-accumulate refresh.
			Expect(fsA.At(fx.Field.ID, g, mid, mid)).To(Equal(0.0))
			Expect(fsB.At(fx.Field.ID, g+n-1, mid, mid)).To(Equal(float64(2*n - 1)))
		})

		It("leaves every sync INACTIVE with empty queues after completion", func() {
			_, err := runRampRefresh(mesh, engine, spec)
			Expect(err).NotTo(HaveOccurred())

			for _, blk := range mesh.Blocks {
				snap := blk.SyncFor(spec.ID).Snapshot(blk.Name(), spec.ID)
				Expect(snap.State).To(Equal(refresh.Inactive))
				Expect(snap.Value).To(BeZero())
				Expect(snap.Stop).To(BeZero())
				Expect(snap.Pending).To(BeZero())
			}
		})
	})

	Context("a row of three blocks with the middle one starting last", func() {
		var (
			fx     meshFixture
			engine sim.Engine
			mesh   *meshbuild.Mesh
			spec   *refresh.Spec
			done   atomic.Int64
		)

		BeforeEach(func() {
			fx = loadFixture("row_of_three.yaml")
			engine = sim.NewSerialEngine()
			mesh = buildRampMesh(fx, engine)
			spec = rampSpec(fx)
			done.Store(0)
			for _, blk := range mesh.Blocks {
				blk.RegisterSpec(spec)
				blk.OnComplete = func(*refresh.Spec) { done.Add(1) }
			}
		})

		It("queues messages arriving before refresh_start and still completes", func() {
			left := mesh.BlockAt([3]int32{0, 0, 0})
			middle := mesh.BlockAt([3]int32{1, 0, 0})
			right := mesh.BlockAt([3]int32{2, 0, 0})

			Expect(left.StartRefresh(spec)).To(Succeed())
			Expect(right.StartRefresh(spec)).To(Succeed())
			Expect(engine.Run()).To(Succeed())

			// Both outer blocks' messages have landed at the middle block
			// ahead of its own refresh_start: they sit in the pending
			// queue, and nothing has been applied yet.
			snap := middle.SyncFor(spec.ID).Snapshot(middle.Name(), spec.ID)
			Expect(snap.State).To(Equal(refresh.Inactive))
			Expect(snap.Pending).To(Equal(2))
			Expect(done.Load()).To(BeZero())

			Expect(middle.StartRefresh(spec)).To(Succeed())
			Expect(engine.Run()).To(Succeed())
			Expect(done.Load()).To(Equal(int64(3)))

			// The middle block's ghost slabs were filled from the drained
			// queue exactly as if the messages had arrived in order.
			n, g := fx.BlockSize[0], fx.Ghost[0]
			fsM := middle.Fields.(*memstore.FieldStore)
			mid := fx.Ghost[1] + fx.BlockSize[1]/2
			for gx := 0; gx < g; gx++ {
				Expect(fsM.At(fx.Field.ID, gx, mid, mid)).To(Equal(float64(n - g + gx)))
				Expect(fsM.At(fx.Field.ID, g+n+gx, mid, mid)).To(Equal(float64(2*n + gx)))
			}

			snap = middle.SyncFor(spec.ID).Snapshot(middle.Name(), spec.ID)
			Expect(snap.State).To(Equal(refresh.Inactive))
			Expect(snap.Pending).To(BeZero())
		})
	})

	Context("several meshes on independent engines", func() {
		It("refresh concurrently without interfering", func() {
			fx := loadFixture("uniform_mesh.yaml")

			var g errgroup.Group
			for i := 0; i < 4; i++ {
				g.Go(func() error {
					engine := sim.NewSerialEngine()
					mesh := buildRampMesh(fx, engine)
					done, err := runRampRefresh(mesh, engine, rampSpec(fx))
					if err != nil {
						return err
					}
					if done != len(mesh.Blocks) {
						return fmt.Errorf("completed %d of %d refreshes", done, len(mesh.Blocks))
					}
					return nil
				})
			}
			Expect(g.Wait()).To(Succeed())
		})
	})
})
