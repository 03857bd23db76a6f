// Command refreshdemo drives a minimal two-block mesh through one
// same-level field refresh: block A's +x
// ghost layer should end up equal to block B's first two interior
// x-layers, cell for cell. It is a demo/smoke-test harness only, not
// part of the refresh core itself: a serial akita engine runs the
// mesh to completion and atexit reports when the run finishes.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/meshbuild"
	"github.com/sarchlab/meshrefresh/refresh"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/store/memstore"
)

const (
	rank  = 3
	ghost = 2
	n     = 8
	rhoID = 0
)

func main() {
	monitor := monitoring.NewMonitor()

	engine := sim.NewSerialEngine()
	monitor.RegisterEngine(engine)

	mesh := meshbuild.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithMonitor(monitor).
		WithRank(rank).
		WithDims([3]int32{2, 1, 1}).
		WithBlockSize([3]int{n, n, n}).
		WithGhostDepth([3]int{ghost, ghost, ghost}).
		WithPeriodic([3]bool{false, false, false}).
		WithDomain([3]float64{0, 0, 0}, [3]float64{2, 1, 1}).
		WithProlongRestrict(memstore.Injection{Rank: rank}).
		Build("RefreshDemo")

	blkA := mesh.BlockAt([3]int32{0, 0, 0})
	blkB := mesh.BlockAt([3]int32{1, 0, 0})

	fsA := blkA.Fields.(*memstore.FieldStore)
	fsB := blkB.Fields.(*memstore.FieldStore)
	m3 := [3]int{n + 2*ghost, n + 2*ghost, n + 2*ghost}
	g3 := [3]int{ghost, ghost, ghost}

	fsA.AddField(rhoID, "density", store.PrecisionDouble, m3, g3, geom.Child{})
	fsB.AddField(rhoID, "density", store.PrecisionDouble, m3, g3, geom.Child{})

	// rho(x,y,z) = x in world-cell units: block A owns cells [0,n),
	// block B owns [n,2n) along x.
	fsA.Fill(rhoID, func(x, y, z int) float64 { return float64(x - ghost) })
	fsB.Fill(rhoID, func(x, y, z int) float64 { return float64(n + x - ghost) })

	spec := &refresh.Spec{
		ID:           1,
		AnyFields:    true,
		FieldListSrc: []int{rhoID},
		FieldListDst: []int{rhoID},
		MinFaceRank:  2,
		NeighborType: store.NeighborLeaf,
		GhostDepth:   g3,
		Callback:     uuid.New(),
	}

	monitor.StartServer()

	blkA.RegisterSpec(spec)
	blkB.RegisterSpec(spec)

	completed := 0
	onComplete := func(*refresh.Spec) { completed++ }
	blkA.OnComplete = onComplete
	blkB.OnComplete = onComplete

	if err := blkA.StartRefresh(spec); err != nil {
		fmt.Fprintln(os.Stderr, "block A refresh_start:", err)
		os.Exit(1)
	}
	if err := blkB.StartRefresh(spec); err != nil {
		fmt.Fprintln(os.Stderr, "block B refresh_start:", err)
		os.Exit(1)
	}

	if err := engine.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "engine run:", err)
		os.Exit(1)
	}

	t := table.NewWriter()
	t.SetTitle("Block A +x ghost layer vs Block B interior")
	t.AppendHeader(table.Row{"x (local)", "A.rho", "B.rho"})
	for gx := 0; gx < ghost; gx++ {
		ax := n + ghost + gx
		bx := ghost + gx
		t.AppendRow(table.Row{gx, fsA.At(rhoID, ax, ghost, ghost), fsB.At(rhoID, bx, ghost, ghost)})
	}
	fmt.Println(t.Render())
	fmt.Println("completed refreshes:", completed)

	atexit.Register(func() { fmt.Println("refreshdemo: simulation finished") })
	atexit.Exit(0)
}
