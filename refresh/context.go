package refresh

import "github.com/sarchlab/meshrefresh/store"

// Context bundles the external collaborators a refresh dispatch
// needs into one immutable handle passed into Block handlers, so no
// package-level state is consulted anywhere on the refresh path.
// Nothing in this package mutates a Context after construction.
type Context struct {
	Mesh        store.Mesh
	ProlongRestrict store.ProlongRestrict
	FieldGroups store.FieldGroups
}

// NewContext builds an immutable Context. Callers must not retain a
// mutable reference to mesh/pr/groups elsewhere and change them after
// this call.
func NewContext(mesh store.Mesh, pr store.ProlongRestrict, groups store.FieldGroups) *Context {
	return &Context{Mesh: mesh, ProlongRestrict: pr, FieldGroups: groups}
}
