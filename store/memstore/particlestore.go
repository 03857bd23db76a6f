package memstore

import (
	"fmt"

	"github.com/sarchlab/meshrefresh/store"
)

// ParticleStore is a block's in-memory particle storage: per type, a
// slice of batches, each batch a set of attribute byte arrays keyed by
// attribute index.
type ParticleStore struct {
	types   map[int]*store.ParticleType
	typeIDs []int
	batches map[int][]store.ParticleBatch
}

// NewParticleStore builds an empty particle store.
func NewParticleStore() *ParticleStore {
	return &ParticleStore{
		types:   make(map[int]*store.ParticleType),
		batches: make(map[int][]store.ParticleBatch),
	}
}

// AddType registers a particle type and returns its descriptor.
func (p *ParticleStore) AddType(t store.ParticleType) {
	tt := t
	p.types[t.ID] = &tt
	p.typeIDs = append(p.typeIDs, t.ID)
}

// AddBatch appends a fully-formed batch to typeID's storage (test/demo
// seeding convenience; AppendBatch is the runtime path used when a
// refresh message arrives).
func (p *ParticleStore) AddBatch(typeID int, batch store.ParticleBatch) {
	p.batches[typeID] = append(p.batches[typeID], batch)
}

func (p *ParticleStore) NumTypes() int { return len(p.types) }

func (p *ParticleStore) Type(id int) (*store.ParticleType, error) {
	t, ok := p.types[id]
	if !ok {
		return nil, fmt.Errorf("memstore: no particle type %d", id)
	}
	return t, nil
}

func (p *ParticleStore) NumBatches(typeID int) int { return len(p.batches[typeID]) }

func (p *ParticleStore) Batch(typeID, batch int) (*store.ParticleBatch, error) {
	bs := p.batches[typeID]
	if batch < 0 || batch >= len(bs) {
		return nil, fmt.Errorf("memstore: type %d has no batch %d", typeID, batch)
	}
	return &bs[batch], nil
}

// Scatter copies the particles at indices out of batch's attribute
// arrays into target, then removes them from the origin batch
// in-place.
func (p *ParticleStore) Scatter(typeID, batch int, indices []int, target *store.ParticleBatch) error {
	src, err := p.Batch(typeID, batch)
	if err != nil {
		return err
	}
	t, err := p.Type(typeID)
	if err != nil {
		return err
	}

	for attrID, bytes := range src.Attributes {
		es := t.AttributeBytes[attrID]
		out := make([]byte, es*len(indices))
		for i, idx := range indices {
			copy(out[i*es:(i+1)*es], bytes[idx*es:(idx+1)*es])
		}
		target.Attributes[attrID] = out
	}
	return p.DeleteParticles(typeID, batch, indices)
}

// DeleteParticles removes the given indices from batch in-place,
// compacting every attribute array and decrementing Count.
func (p *ParticleStore) DeleteParticles(typeID, batch int, indices []int) error {
	bs := p.batches[typeID]
	if batch < 0 || batch >= len(bs) {
		return fmt.Errorf("memstore: type %d has no batch %d", typeID, batch)
	}
	t, err := p.Type(typeID)
	if err != nil {
		return err
	}

	remove := make(map[int]bool, len(indices))
	for _, i := range indices {
		remove[i] = true
	}

	b := &bs[batch]
	newCount := b.Count - len(indices)
	for attrID, bytes := range b.Attributes {
		es := t.AttributeBytes[attrID]
		out := make([]byte, 0, es*newCount)
		for i := 0; i < b.Count; i++ {
			if remove[i] {
				continue
			}
			out = append(out, bytes[i*es:(i+1)*es]...)
		}
		b.Attributes[attrID] = out
	}
	b.Count = newCount
	return nil
}

// AppendBatch implements the receiving side of a particle refresh:
// arrived particles become a new batch for typeID.
func (p *ParticleStore) AppendBatch(typeID int, batch store.ParticleBatch) error {
	if _, err := p.Type(typeID); err != nil {
		return err
	}
	p.batches[typeID] = append(p.batches[typeID], batch)
	return nil
}

// TotalParticles sums Count across every batch of every type (used by
// the particle-conservation checks).
func (p *ParticleStore) TotalParticles() int {
	n := 0
	for _, bs := range p.batches {
		for _, b := range bs {
			n += b.Count
		}
	}
	return n
}
