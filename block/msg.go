package block

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/wire"
)

// RefreshMsg is the in-process transport envelope for one MsgRefresh
// wire frame: akita ships the value directly between ports without
// going through wire.Encode/Decode. MsgMeta is an explicit field rather
// than embedded since RefreshMsg also carries a payload.
type RefreshMsg struct {
	meta sim.MsgMeta

	Frame wire.Frame

	// Face is the direction, from the sender's own perspective, that
	// this message left on; the receiver reads it back off the port it
	// arrived on rather than trusting this field directly (a message
	// cannot know which of the receiver's several ports delivered it).
	Face geom.Face
}

func (m *RefreshMsg) Meta() *sim.MsgMeta { return &m.meta }

func (m *RefreshMsg) Clone() sim.Msg {
	clone := *m
	clone.meta.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// NewRefreshMsg builds a RefreshMsg ready for Port.Send; src/dst are
// the akita remote port names at each end of the connection.
func NewRefreshMsg(src, dst sim.RemotePort, face geom.Face, frame wire.Frame) *RefreshMsg {
	return &RefreshMsg{
		meta: sim.MsgMeta{
			ID:  sim.GetIDGenerator().Generate(),
			Src: src,
			Dst: dst,
		},
		Frame: frame,
		Face:  face,
	}
}
