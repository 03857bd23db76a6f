// Package refresh implements the per-block refresh operation: the Sync
// completion state machine and the dispatch logic that enumerates
// neighbors and builds the outgoing field, particle, flux, padded, and
// count-only messages.
package refresh

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/meshrefresh/store"
)

// Spec is one refresh operation's immutable configuration, created at
// init and never mutated afterward.
type Spec struct {
	ID uint32

	AnyFields    bool
	FieldListSrc []int
	FieldListDst []int

	AnyParticles  bool
	AllParticles  bool
	ParticleList  []int

	AnyFluxes bool

	MinFaceRank  int
	NeighborType store.NeighborType
	RootLevel    int32
	MinLevel     int32

	GhostDepth [3]int
	Accumulate bool

	SyncType string
	SyncExit string

	// Callback is an opaque tag fired on completion; the dispatch layer
	// never inspects it.
	Callback uuid.UUID
}

// Validate checks the structural invariants a Spec must satisfy before
// it is used (equal-length src/dst field lists, nonnegative face rank).
func (s *Spec) Validate() error {
	if s.AnyFields && len(s.FieldListSrc) != len(s.FieldListDst) {
		return fmt.Errorf("refresh: field_list_src and field_list_dst must be equal length")
	}
	if s.MinFaceRank < 0 || s.MinFaceRank > 2 {
		return fmt.Errorf("refresh: min_face_rank must be in [0,2], got %d", s.MinFaceRank)
	}
	return nil
}

// Inactive reports whether this spec has no work at all; refresh_start
// short-circuits straight to the callback for such a spec.
func (s *Spec) Inactive() bool {
	return !s.AnyFields && !s.AnyParticles && !s.AllParticles && !s.AnyFluxes
}

// ValidateAll validates every spec in specs concurrently and returns
// the first error encountered. Specs are immutable after init, so
// Validate has nothing to race on; a simulation that registers
// dozens of refresh ids at startup validates them all at once instead
// of one at a time.
func ValidateAll(specs []*Spec) error {
	var g errgroup.Group
	for _, s := range specs {
		s := s
		g.Go(s.Validate)
	}
	return g.Wait()
}
