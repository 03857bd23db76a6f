package refresh_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/refresh"
	"github.com/sarchlab/meshrefresh/store"
)

func TestExpectedMessageCountUsesMeshNeighbors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mesh := NewMockMesh(ctrl)

	self := geom.NewIndex(3, [3]int32{0, 0, 0})
	spec := &refresh.Spec{ID: 1, AnyFields: true, MinFaceRank: 2, NeighborType: store.NeighborLeaf}

	mesh.EXPECT().
		Neighbors(self, spec.MinFaceRank, spec.NeighborType, spec.MinLevel, spec.RootLevel).
		Return([]store.NeighborInfo{{}, {}, {}}, nil)

	n, err := refresh.ExpectedMessageCount(mesh, spec, self)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestExpectedMessageCountSkipsInactiveSpec(t *testing.T) {
	ctrl := gomock.NewController(t)
	mesh := NewMockMesh(ctrl)
	// No Neighbors expectation: an inactive spec must short-circuit
	// without ever consulting the mesh.

	self := geom.NewIndex(3, [3]int32{0, 0, 0})
	spec := &refresh.Spec{ID: 2}

	n, err := refresh.ExpectedMessageCount(mesh, spec, self)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
