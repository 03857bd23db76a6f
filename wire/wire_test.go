package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
	"github.com/sarchlab/meshrefresh/wire"
)

func TestEncodeDecodeFieldFace(t *testing.T) {
	frame := wire.Frame{
		RefreshID: 7,
		Data: wire.DataMsg{
			Kind: wire.KindFieldFace,
			FieldFace: &wire.FieldFacePayload{
				Face:        geom.Face{1, 0, 0},
				Child:       geom.Child{0, 1, 0},
				RefreshType: 1,
				Fields: []wire.FieldPayload{
					{FieldID: 3, Precision: store.PrecisionDouble, N3: [3]int32{2, 8, 8}, Bytes: make([]byte, 2*8*8*8)},
				},
			},
		},
	}

	data, err := wire.Encode(frame)
	require.NoError(t, err)

	got, err := wire.Decode(data)
	require.NoError(t, err)
	require.Equal(t, frame.RefreshID, got.RefreshID)
	require.Equal(t, frame.Data.Kind, got.Data.Kind)
	require.Equal(t, frame.Data.FieldFace.Face, got.Data.FieldFace.Face)
	require.Equal(t, frame.Data.FieldFace.Child, got.Data.FieldFace.Child)
	require.Len(t, got.Data.FieldFace.Fields, 1)
	require.Equal(t, uint32(3), got.Data.FieldFace.Fields[0].FieldID)
	require.Equal(t, store.PrecisionDouble, got.Data.FieldFace.Fields[0].Precision)
	require.Equal(t, len(frame.Data.FieldFace.Fields[0].Bytes), len(got.Data.FieldFace.Fields[0].Bytes))
}

func TestEncodeDecodeCountOnly(t *testing.T) {
	frame := wire.Frame{RefreshID: 1, Data: wire.DataMsg{Kind: wire.KindCountOnly, CountOnly: &wire.CountOnlyPayload{Expected: 5}}}
	data, err := wire.Encode(frame)
	require.NoError(t, err)
	got, err := wire.Decode(data)
	require.NoError(t, err)
	require.Equal(t, uint32(5), got.Data.CountOnly.Expected)
}

func TestEncodeDecodeParticle(t *testing.T) {
	frame := wire.Frame{
		RefreshID: 2,
		Data: wire.DataMsg{
			Kind: wire.KindParticle,
			Particle: &wire.ParticlePayload{
				TypeID: 1, N: 3,
				Attrs: []wire.ParticleAttrEntry{
					{AttrID: 0, Precision: store.PrecisionSingle, Bytes: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
					{AttrID: 1, Precision: store.PrecisionSingle, Bytes: []byte{13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24}},
				},
			},
		},
	}
	data, err := wire.Encode(frame)
	require.NoError(t, err)
	got, err := wire.Decode(data)
	require.NoError(t, err)
	require.Equal(t, frame.Data.Particle.Attrs, got.Data.Particle.Attrs)
}

func TestEncodeDecodeFlux(t *testing.T) {
	frame := wire.Frame{
		RefreshID: 3,
		Data: wire.DataMsg{
			Kind: wire.KindFlux,
			Flux: &wire.FluxPayload{
				Axis: 0, Face: 1, NumFields: 2,
				Fields: [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}},
			},
		},
	}
	data, err := wire.Encode(frame)
	require.NoError(t, err)
	got, err := wire.Decode(data)
	require.NoError(t, err)
	require.Equal(t, frame.Data.Flux.Fields, got.Data.Flux.Fields)
}

func TestDecodeUnknownKindFails(t *testing.T) {
	_, err := wire.Decode([]byte{0, 0, 0, 1, 99})
	require.Error(t, err)
}
