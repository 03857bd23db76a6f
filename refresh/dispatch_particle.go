package refresh

import (
	"github.com/sarchlab/meshrefresh/particle"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/wire"
)

// BuildParticleFrames implements the sender side of a particle
// refresh for one particle type: classify every batch's particles
// against slots (one per neighbor's lattice range), scatter the
// migrating indices out of the type's storage, and pack each slot's
// destination into one wire frame bundling every attribute array
// (the empty-tombstone rule applies to the
// whole slot, not per attribute, so every slot yields exactly one
// frame and the receiving Sync's message count matches
// ExpectedMessageCount with no count_only correction needed).
func BuildParticleFrames(
	spec *Spec,
	rank int,
	typeID int,
	pt *store.ParticleType,
	ptStore store.ParticleStore,
	center, halfWidth [3]float64,
	slots []particle.Slot,
) (map[int][]wire.Frame, error) {
	targets := make(map[int]*store.ParticleBatch, len(slots))
	for _, s := range slots {
		targets[s.ID] = &store.ParticleBatch{Attributes: make(map[int][]byte)}
	}

	for b := 0; b < ptStore.NumBatches(typeID); b++ {
		batch, err := ptStore.Batch(typeID, b)
		if err != nil {
			return nil, err
		}
		if batch.Count == 0 {
			continue
		}

		plan, err := particle.Classify(rank, pt, batch, center, halfWidth, slots)
		if err != nil {
			return nil, err
		}

		// Scatter compacts the batch in place, so a later slot's plan
		// indices (which refer to the original batch layout) must be
		// shifted down past every index already scattered out.
		var removed []int
		for _, s := range slots {
			indices := plan[s.ID]
			if len(indices) == 0 {
				continue
			}
			adjusted := make([]int, len(indices))
			for i, orig := range indices {
				shift := 0
				for _, r := range removed {
					if r < orig {
						shift++
					}
				}
				adjusted[i] = orig - shift
			}
			removed = append(removed, indices...)

			scattered := &store.ParticleBatch{Attributes: make(map[int][]byte)}
			if err := ptStore.Scatter(typeID, b, adjusted, scattered); err != nil {
				return nil, err
			}
			scattered.Count = len(indices)

			tgt := targets[s.ID]
			for attrID, bytes := range scattered.Attributes {
				tgt.Attributes[attrID] = append(tgt.Attributes[attrID], bytes...)
			}
			tgt.Count += scattered.Count
		}
	}

	out := make(map[int][]wire.Frame, len(slots))
	for _, s := range slots {
		out[s.ID] = []wire.Frame{particleFrame(spec.ID, typeID, pt, targets[s.ID])}
	}
	return out, nil
}

func particleFrame(refreshID uint32, typeID int, pt *store.ParticleType, batch *store.ParticleBatch) wire.Frame {
	payload := &wire.ParticlePayload{TypeID: uint32(typeID), N: uint32(batch.Count)}
	if batch.Count > 0 {
		for attrID, bytes := range batch.Attributes {
			payload.Attrs = append(payload.Attrs, wire.ParticleAttrEntry{
				AttrID:    uint32(attrID),
				Precision: pt.AttributePrec[attrID],
				Bytes:     bytes,
			})
		}
	}
	return wire.Frame{RefreshID: refreshID, Data: wire.DataMsg{Kind: wire.KindParticle, Particle: payload}}
}

// ApplyParticleFrame implements the receiving side of a particle
// refresh: appends one arrived batch (every attribute array bundled
// together) onto the block's own particle storage. An empty
// (tombstone) payload is a no-op.
func ApplyParticleFrame(ptStore store.ParticleStore, payload *wire.ParticlePayload) error {
	if payload.N == 0 {
		return nil
	}
	attrs := make(map[int][]byte, len(payload.Attrs))
	for _, a := range payload.Attrs {
		attrs[int(a.AttrID)] = a.Bytes
	}
	return ptStore.AppendBatch(int(payload.TypeID), store.ParticleBatch{
		Count:      int(payload.N),
		Attributes: attrs,
	})
}
