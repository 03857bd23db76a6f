// Package block wires the refresh core (package refresh) into an
// akita actor: one Block per octree leaf, ticked by a
// sim.TickingComponent, exchanging RefreshMsg values over one
// sim.Port per neighbor connection. It is ambient test/demo
// infrastructure, not part of the refresh core's own scope; the core
// itself stays free of any transport dependency.
package block

import (
	"fmt"
	"sort"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/meshrefresh/box"
	"github.com/sarchlab/meshrefresh/fieldface"
	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/particle"
	"github.com/sarchlab/meshrefresh/refresh"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/topology"
	"github.com/sarchlab/meshrefresh/wire"
)

// Block is one octree leaf's refresh actor.
type Block struct {
	*sim.TickingComponent

	Index geom.Index
	Level int32
	Rank  int
	N3    [3]int
	G3    [3]int

	Ctx       *refresh.Context
	Fields    store.FieldStore
	Densities map[int][]byte
	Particles store.ParticleStore
	Fluxes    store.FluxStore

	// Center/HalfWidth locate this block in world coordinates, needed
	// by particle.Classify.
	Center, HalfWidth [3]float64

	// OnComplete fires once per completed refresh, after any padded
	// post-hook has run.
	OnComplete func(spec *refresh.Spec)

	pool   *fieldface.Pool
	ports  map[string]sim.Port
	remote map[string]sim.RemotePort
	face   map[string]geom.Face

	specs map[uint32]*refresh.Spec
	syncs map[uint32]*refresh.Sync
}

type inboundMsg struct {
	face  geom.Face
	frame wire.Frame
}

// NewBlock builds one Block actor, ticked by engine at freq, and
// initializes its per-component state (port tables, pending-sync map,
// fieldface pool).
func NewBlock(
	name string,
	engine sim.Engine,
	freq sim.Freq,
	idx geom.Index,
	level int32,
	rank int,
	n3, g3 [3]int,
	ctx *refresh.Context,
	fields store.FieldStore,
	densities map[int][]byte,
	particles store.ParticleStore,
	fluxes store.FluxStore,
	center, halfWidth [3]float64,
) *Block {
	b := &Block{
		Index:     idx,
		Level:     level,
		Rank:      rank,
		N3:        n3,
		G3:        g3,
		Ctx:       ctx,
		Fields:    fields,
		Densities: densities,
		Particles: particles,
		Fluxes:    fluxes,
		Center:    center,
		HalfWidth: halfWidth,
		pool:      fieldface.NewPool(),
		ports:     make(map[string]sim.Port),
		remote:    make(map[string]sim.RemotePort),
		face:      make(map[string]geom.Face),
		specs:     make(map[uint32]*refresh.Spec),
		syncs:     make(map[uint32]*refresh.Sync),
	}
	b.TickingComponent = sim.NewTickingComponent(name, engine, freq, b)
	return b
}

// PortKey names the connection this block uses to reach neighbor nb.
// It is stable only while the mesh's topology does not change (see
// store/memstore's UniformMesh doc comment on adaptation being out of
// scope).
func PortKey(nb store.NeighborInfo) string {
	return fmt.Sprintf("F%d,%d,%d@L%d", nb.Face[0], nb.Face[1], nb.Face[2], nb.FaceLevel)
}

// AddNeighborPort registers the port this block uses to reach
// neighbor nb, plus the remote name of the neighbor's matching port
// (the far end of a directconnection plugged in by the caller,
// mirroring config.DeviceBuilder.connectTilePorts's
// tile.SetRemotePort call).
func (b *Block) AddNeighborPort(nb store.NeighborInfo, port sim.Port, remote sim.RemotePort) {
	key := PortKey(nb)
	b.ports[key] = port
	b.remote[key] = remote
	b.face[key] = nb.Face
	b.AddPort(key, port)
}

// SyncFor returns the Sync tracking refresh id, or nil if RegisterSpec
// was never called for that id. Harness/diagnostic use only (DumpSync
// rows); dispatch reaches the sync through its own map.
func (b *Block) SyncFor(id uint32) *refresh.Sync {
	return b.syncs[id]
}

// RegisterSpec arms spec's persistent per-block Sync (INACTIVE until
// StartRefresh runs), so messages that race ahead of this block's own
// refresh_start for spec.ID still queue correctly.
func (b *Block) RegisterSpec(spec *refresh.Spec) {
	b.specs[spec.ID] = spec
	b.syncs[spec.ID] = refresh.NewSync(
		func(msg refresh.Message) error { return b.apply(spec, msg.(inboundMsg)) },
		func() error { return b.onDone(spec) },
	)
}

// Tick drains every registered port once, routing arrived messages
// to the refresh id's Sync; a count_only message is applied directly
// to SetStop and never reaches Sync.Deliver, since it is not itself
// one of the counted messages.
func (b *Block) Tick() (madeProgress bool) {
	keys := make([]string, 0, len(b.ports))
	for k := range b.ports {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		port := b.ports[k]
		msg := port.PeekIncoming()
		if msg == nil {
			continue
		}
		rm, ok := msg.(*RefreshMsg)
		if !ok {
			continue
		}
		port.RetrieveIncoming()
		madeProgress = true

		if err := b.onRecv(b.face[k], rm.Frame); err != nil {
			panic(err)
		}
	}
	return madeProgress
}

func (b *Block) onRecv(face geom.Face, frame wire.Frame) error {
	sync, ok := b.syncs[frame.RefreshID]
	if !ok {
		return fmt.Errorf("block %s: message for unregistered refresh id %d", b.Name(), frame.RefreshID)
	}
	if frame.Data.Kind == wire.KindCountOnly {
		return refresh.ApplyCountOnlyFrame(sync, frame.Data.CountOnly)
	}
	return sync.Deliver(inboundMsg{face: face, frame: frame})
}

func (b *Block) apply(spec *refresh.Spec, msg inboundMsg) error {
	switch msg.frame.Data.Kind {
	case wire.KindFieldFace:
		return refresh.ApplyFieldFaceFrame(b.Ctx, spec, b.Rank, b.N3, b.G3, msg.frame.Data.FieldFace, b.Fields, b.Densities)
	case wire.KindParticle:
		return refresh.ApplyParticleFrame(b.Particles, msg.frame.Data.Particle)
	case wire.KindFlux:
		return refresh.ApplyFluxFrame(b.Fluxes, int(msg.frame.Data.Flux.Axis), msg.face, msg.frame.Data.Flux)
	case wire.KindPaddedFace:
		child, err := b.Index.ChildAtLevel(b.Level)
		if err != nil {
			return err
		}
		return refresh.ApplyPaddedFrame(b.pool, refresh.PaddedKeyFor(msg.face, child), msg.frame.Data.PaddedFace)
	default:
		return fmt.Errorf("block %s: unhandled data kind %d", b.Name(), msg.frame.Data.Kind)
	}
}

// onDone is the completion hook: run the padded-prolong
// post-hook for every coarser face this spec touched, then fire the
// completion callback.
func (b *Block) onDone(spec *refresh.Spec) error {
	if spec.AnyFields && b.Ctx.ProlongRestrict != nil && b.Ctx.ProlongRestrict.Padding() > 0 {
		if err := b.applyPaddedPostHook(spec); err != nil {
			return err
		}
	}
	if b.OnComplete != nil {
		b.OnComplete(spec)
	}
	return nil
}

// StartRefresh implements refresh_start from this block's own side:
// it arms spec's Sync with the expected message count and ships one
// outgoing message per neighbor/field/particle-type/flux-axis spec
// names. Padded-prolongation dispatch here ships only this block's
// own direct contribution toward each finer neighbor; a same-level
// sibling that is itself an "extra" sender for that neighbor's padded
// footprint (refresh.ExtraSenders) recognizes that role through its
// own neighbor enumeration, not through this block acting on its
// behalf.
func (b *Block) StartRefresh(spec *refresh.Spec) error {
	sync, ok := b.syncs[spec.ID]
	if !ok {
		return fmt.Errorf("block %s: refresh id %d not registered", b.Name(), spec.ID)
	}

	neighbors, err := topology.Neighbors(b.Ctx.Mesh, b.Index, spec.MinFaceRank, spec.NeighborType, spec.MinLevel, spec.RootLevel)
	if err != nil {
		return err
	}
	stop, err := refresh.ExpectedMessageCountWithExtras(b.Ctx, spec, b.Index, b.Level)
	if err != nil {
		return err
	}

	if err := sync.Start(stop); err != nil {
		return err
	}

	if spec.AnyParticles || spec.AllParticles {
		if err := b.dispatchParticles(spec, neighbors); err != nil {
			return err
		}
	}

	for _, nb := range neighbors {
		if spec.AnyFields {
			if err := b.dispatchField(spec, nb); err != nil {
				return err
			}
		}
		if spec.AnyFluxes {
			if err := b.dispatchFlux(spec, nb); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Block) send(key string, face geom.Face, frame wire.Frame) error {
	port, ok := b.ports[key]
	if !ok {
		return fmt.Errorf("block %s: no port registered for neighbor key %s", b.Name(), key)
	}
	msg := NewRefreshMsg(port.AsRemote(), b.remote[key], face, frame)
	if sendErr := port.Send(msg); sendErr != nil {
		return fmt.Errorf("block %s: send on %s: %v", b.Name(), key, sendErr)
	}
	return nil
}

func (b *Block) dispatchField(spec *refresh.Spec, nb store.NeighborInfo) error {
	relLevel := refresh.RelativeLevelOf(b.Level, nb.FaceLevel)
	padding := 0
	if b.Ctx.ProlongRestrict != nil {
		padding = b.Ctx.ProlongRestrict.Padding()
	}

	if relLevel == box.Finer && padding > 0 {
		frame, err := refresh.BuildPaddedFrame(b.Ctx, spec, b.Rank, b.N3, b.G3, b.Index, b.Index, nb.Face, nb.Child, b.Fields)
		if err != nil {
			return err
		}
		return b.send(PortKey(nb), nb.Face, frame)
	}

	frame, err := refresh.BuildFieldFaceFrame(b.Ctx, spec, b.Rank, b.N3, b.G3, b.Level, nb, b.Fields, b.Densities)
	if err != nil {
		return err
	}
	return b.send(PortKey(nb), nb.Face, frame)
}

func (b *Block) dispatchFlux(spec *refresh.Spec, nb store.NeighborInfo) error {
	for axis := 0; axis < b.Rank; axis++ {
		frame, err := refresh.BuildFluxFrame(spec, b.Rank, b.N3, axis, b.Level, nb, b.Fluxes)
		if err != nil {
			return err
		}
		if err := b.send(PortKey(nb), nb.Face, frame); err != nil {
			return err
		}
	}
	return nil
}

func (b *Block) dispatchParticles(spec *refresh.Spec, neighbors []store.NeighborInfo) error {
	slots := b.particleSlotsFor(neighbors)

	typeIDs := spec.ParticleList
	if spec.AllParticles {
		typeIDs = nil
		for i := 0; ; i++ {
			if _, err := b.Particles.Type(i); err != nil {
				break
			}
			typeIDs = append(typeIDs, i)
		}
	}

	// Each type's frame-building scatters migrating particles out of
	// b.Particles, so types are processed one at
	// a time: a shared store's per-type slices may back onto one
	// map, and concurrent mutation of different keys of the same Go
	// map is still a data race.
	for _, typeID := range typeIDs {
		pt, err := b.Particles.Type(typeID)
		if err != nil {
			return err
		}
		frames, err := refresh.BuildParticleFrames(spec, b.Rank, typeID, pt, b.Particles, b.Center, b.HalfWidth, slots)
		if err != nil {
			return err
		}
		for i, nb := range neighbors {
			for _, frame := range frames[slots[i].ID] {
				if err := b.send(PortKey(nb), nb.Face, frame); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// particleSlotsFor builds one migration lattice slot per neighbor.
// Periodic shift detection is derived from the shared Mesh oracle only
// for same-level neighbors, where comparing array coordinates directly
// is sound; a coarser/finer neighbor across a periodic boundary is a
// known simplification left at zero shift (uncommon in practice, since
// periodic wrap is almost always set up at a uniform level).
func (b *Block) particleSlotsFor(neighbors []store.NeighborInfo) []particle.Slot {
	lo, hi := b.Ctx.Mesh.DomainBounds()
	periodic := b.Ctx.Mesh.Periodicity()

	slots := make([]particle.Slot, len(neighbors))
	for i, nb := range neighbors {
		relLevel := refresh.RelativeLevelOf(b.Level, nb.FaceLevel)
		rng := particle.NeighborRange(b.Rank, nb.Face, relLevel, nb.Child)

		var shift [3]float64
		if relLevel == box.Same {
			for axis := 0; axis < b.Rank; axis++ {
				if !periodic[axis] || nb.Face[axis] == 0 {
					continue
				}
				wrapped := (nb.Face[axis] > 0 && nb.Index.Array()[axis] < b.Index.Array()[axis]) ||
					(nb.Face[axis] < 0 && nb.Index.Array()[axis] > b.Index.Array()[axis])
				if !wrapped {
					continue
				}
				span := hi[axis] - lo[axis]
				if nb.Face[axis] > 0 {
					shift[axis] = -span
				} else {
					shift[axis] = span
				}
			}
		}
		slots[i] = particle.Slot{ID: i, Range: rng, PeriodicShift: shift}
	}
	return slots
}

func (b *Block) applyPaddedPostHook(spec *refresh.Spec) error {
	neighbors, err := topology.Neighbors(b.Ctx.Mesh, b.Index, spec.MinFaceRank, spec.NeighborType, spec.MinLevel, spec.RootLevel)
	if err != nil {
		return err
	}
	child, err := b.Index.ChildAtLevel(b.Level)
	if err != nil {
		return err
	}

	for _, nb := range neighbors {
		if refresh.RelativeLevelOf(b.Level, nb.FaceLevel) != box.Coarser {
			continue
		}

		coarseBox := box.New(b.Rank, b.N3, b.G3)
		if err := coarseBox.SetSend(box.Participant{RelLevel: box.Finer, Face: nb.Face.Opposite(), Child: child}); err != nil {
			return err
		}
		if err := coarseBox.ComputeRegion(); err != nil {
			return err
		}
		coarseShape := coarseBox.Shape()
		fineShape := [3]int{coarseShape[0] * 2, coarseShape[1] * 2, coarseShape[2] * 2}

		fineLo, _, err := box.ReceiveRegion(b.Rank, b.N3, b.G3, nb.Face, spec.Accumulate, fineShape)
		if err != nil {
			return err
		}

		key := refresh.PaddedKeyFor(nb.Face, child)
		if err := refresh.RefreshExtraApply(b.pool, b.Ctx.ProlongRestrict, b.Fields, spec.FieldListDst, key, fineLo, spec.Accumulate); err != nil {
			return err
		}
	}
	return nil
}
