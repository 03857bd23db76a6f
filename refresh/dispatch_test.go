package refresh_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/refresh"
	"github.com/sarchlab/meshrefresh/store"
)

type fakeMesh struct {
	neighbors []store.NeighborInfo
}

func (m *fakeMesh) Rank() int                    { return 3 }
func (m *fakeMesh) Periodicity() [3]bool         { return [3]bool{} }
func (m *fakeMesh) DomainBounds() (lo, hi [3]float64) { return }
func (m *fakeMesh) MinLevel() int32              { return 0 }
func (m *fakeMesh) BlockSize() [3]int            { return [3]int{8, 8, 8} }
func (m *fakeMesh) FaceIter(block geom.Index, minFaceRank int) ([]geom.Face, error) { return nil, nil }
func (m *fakeMesh) Neighbors(block geom.Index, minFaceRank int, neighborType store.NeighborType, minLevel, rootLevel int32) ([]store.NeighborInfo, error) {
	return m.neighbors, nil
}

type fakeFieldStore struct {
	fields map[int]*store.Field
}

func (f *fakeFieldStore) Field(id int) (*store.Field, error) { return f.fields[id], nil }
func (f *fakeFieldStore) FieldByName(name string) (*store.Field, error) {
	for _, fld := range f.fields {
		if fld.Name == name {
			return fld, nil
		}
	}
	return nil, nil
}
func (f *fakeFieldStore) NumFields() int { return len(f.fields) }

func newRampField(n3, g3 [3]int) *store.Field {
	m3 := [3]int{n3[0] + 2*g3[0], n3[1] + 2*g3[1], n3[2] + 2*g3[2]}
	values := make([]byte, 8*m3[0]*m3[1]*m3[2])
	for z := 0; z < m3[2]; z++ {
		for y := 0; y < m3[1]; y++ {
			for x := 0; x < m3[0]; x++ {
				off := 8 * (x + m3[0]*(y+m3[1]*z))
				binary.LittleEndian.PutUint64(values[off:], math.Float64bits(float64(x)))
			}
		}
	}
	return &store.Field{Name: "rho", ID: 0, Precision: store.PrecisionDouble, Dimensions: m3, GhostDepth: g3, Values: values}
}

// End to end: two same-level blocks along +x, a "rho" linear
// ramp field. After A dispatches and B applies a same-level refresh,
// B's -x ghost layer equals A's last two interior x-layers.
func TestSameLevelRefreshEndToEnd(t *testing.T) {
	n3, g3 := [3]int{8, 8, 8}, [3]int{2, 2, 2}
	fieldsA := &fakeFieldStore{fields: map[int]*store.Field{0: newRampField(n3, g3)}}
	fieldsB := &fakeFieldStore{fields: map[int]*store.Field{0: newRampField(n3, g3)}}

	ctx := refresh.NewContext(&fakeMesh{}, nil, nil)
	spec := &refresh.Spec{ID: 1, AnyFields: true, FieldListSrc: []int{0}, FieldListDst: []int{0}}

	nb := store.NeighborInfo{Face: geom.Face{1, 0, 0}, FaceLevel: 0}
	frame, err := refresh.BuildFieldFaceFrame(ctx, spec, 3, n3, g3, 0, nb, fieldsA, nil)
	require.NoError(t, err)

	require.NoError(t, refresh.ApplyFieldFaceFrame(ctx, spec, 3, n3, g3, frame.Data.FieldFace, fieldsB, nil))

	fldB := fieldsB.fields[0]
	// B's -x ghost cell at local x=1 (second ghost layer) should equal
	// A's interior cell at local x=9 (the interior layer at A's +x face),
	// i.e. value 9.0 under the ramp rho(x)=x in A's local frame offset
	// by the face slab convention used by BuildFieldFaceFrame/Apply.
	off := 8 * (1 + fldB.Dimensions[0]*(4+fldB.Dimensions[1]*4))
	got := math.Float64frombits(binary.LittleEndian.Uint64(fldB.Values[off:]))
	require.Equal(t, 9.0, got)
}

func TestExpectedMessageCountHonorsInactiveSpec(t *testing.T) {
	mesh := &fakeMesh{neighbors: []store.NeighborInfo{{}, {}, {}}}
	spec := &refresh.Spec{}
	n, err := refresh.ExpectedMessageCount(mesh, spec, geom.Index{})
	require.NoError(t, err)
	require.Equal(t, 0, n)

	spec.AnyFields = true
	n, err = refresh.ExpectedMessageCount(mesh, spec, geom.Index{})
	require.NoError(t, err)
	require.Equal(t, 3, n)
}
