// Package wire implements the portable, self-describing MsgRefresh
// byte encoding. It is the codec
// used when a refresh message crosses a process boundary; in-process
// akita transport ships the same MsgRefresh value directly between
// ports without serializing it.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
)

// DataKind is the wire format's payload discriminant.
type DataKind uint8

const (
	KindNone DataKind = iota
	KindFieldFace
	KindPaddedFace
	KindParticle
	KindFlux
	KindCountOnly
)

// FieldPayload is one (field_id, precision, n3, bytes) tuple inside a
// field_face or padded_face message.
type FieldPayload struct {
	FieldID   uint32
	Precision store.Precision
	N3        [3]int32
	Bytes     []byte
}

// FieldFacePayload is the field_face variant's body.
type FieldFacePayload struct {
	Face        geom.Face
	Child       geom.Child
	RefreshType uint8
	Fields      []FieldPayload
}

// PaddedFieldPayload is one (field_id, bytes) tuple inside a
// padded_face message (precision is implied by the staging array).
type PaddedFieldPayload struct {
	FieldID uint32
	Bytes   []byte
}

// PaddedFacePayload is the padded_face variant's body.
type PaddedFacePayload struct {
	Face     geom.Face
	N3       [3]int32
	Anchor   [3]int32
	MPadded  [3]int32
	Repeat   int32
	VolRatio int32
	Fields   []PaddedFieldPayload
}

// ParticleAttrEntry is one attribute's packed array within a particle
// message; bundling every requested attribute of one slot into a
// single ParticlePayload (rather than shipping one message per
// attribute) keeps the message count per neighbor at exactly one,
// matching field_face and flux and letting Sync's stop counter stay
// ExpectedMessageCount without a count_only correction in the common
// case.
type ParticleAttrEntry struct {
	AttrID    uint32
	Precision store.Precision
	Bytes     []byte
}

// ParticlePayload is the particle variant's body: every attribute
// array for one particle type's worth of migrating particles bound
// for one neighbor slot.
type ParticlePayload struct {
	TypeID uint32
	N      uint32
	Attrs  []ParticleAttrEntry
}

// FluxPayload is the flux variant's body.
type FluxPayload struct {
	Axis      int32
	Face      int32
	NumFields int32
	Fields    [][]byte
}

// CountOnlyPayload announces a receiver's expected total message count.
type CountOnlyPayload struct {
	Expected uint32
}

// DataMsg is the tagged-sum payload of a MsgRefresh. Exactly the
// field matching Kind is non-nil.
type DataMsg struct {
	Kind       DataKind
	FieldFace  *FieldFacePayload
	PaddedFace *PaddedFacePayload
	Particle   *ParticlePayload
	Flux       *FluxPayload
	CountOnly  *CountOnlyPayload
}

// Frame is the full MsgRefresh wire frame.
type Frame struct {
	RefreshID uint32
	Data      DataMsg
}

// Encode serializes f into the MsgRefresh byte layout.
func Encode(f Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, f.RefreshID); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, uint8(f.Data.Kind)); err != nil {
		return nil, err
	}

	switch f.Data.Kind {
	case KindNone:
	case KindFieldFace:
		if err := encodeFieldFace(&buf, f.Data.FieldFace); err != nil {
			return nil, err
		}
	case KindPaddedFace:
		if err := encodePaddedFace(&buf, f.Data.PaddedFace); err != nil {
			return nil, err
		}
	case KindParticle:
		if err := encodeParticle(&buf, f.Data.Particle); err != nil {
			return nil, err
		}
	case KindFlux:
		if err := encodeFlux(&buf, f.Data.Flux); err != nil {
			return nil, err
		}
	case KindCountOnly:
		if err := binary.Write(&buf, binary.BigEndian, f.Data.CountOnly.Expected); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("wire: unknown data kind %d", f.Data.Kind)
	}
	return buf.Bytes(), nil
}

func writeFace(buf *bytes.Buffer, f geom.Face) error {
	for _, c := range f {
		if err := binary.Write(buf, binary.BigEndian, int32(c)); err != nil {
			return err
		}
	}
	return nil
}

func writeChild(buf *bytes.Buffer, c geom.Child) error {
	for _, v := range c {
		if err := binary.Write(buf, binary.BigEndian, int32(v)); err != nil {
			return err
		}
	}
	return nil
}

func writeN3(buf *bytes.Buffer, n3 [3]int32) error {
	for _, v := range n3 {
		if err := binary.Write(buf, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func encodeFieldFace(buf *bytes.Buffer, p *FieldFacePayload) error {
	if err := writeFace(buf, p.Face); err != nil {
		return err
	}
	if err := writeChild(buf, p.Child); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.BigEndian, p.RefreshType); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.BigEndian, int32(len(p.Fields))); err != nil {
		return err
	}
	for _, fld := range p.Fields {
		if err := binary.Write(buf, binary.BigEndian, fld.FieldID); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.BigEndian, uint8(fld.Precision)); err != nil {
			return err
		}
		if err := writeN3(buf, fld.N3); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.BigEndian, int32(len(fld.Bytes))); err != nil {
			return err
		}
		buf.Write(fld.Bytes)
	}
	return nil
}

func encodePaddedFace(buf *bytes.Buffer, p *PaddedFacePayload) error {
	if err := writeFace(buf, p.Face); err != nil {
		return err
	}
	for _, v := range [][3]int32{p.N3, p.Anchor, p.MPadded} {
		if err := writeN3(buf, v); err != nil {
			return err
		}
	}
	if err := binary.Write(buf, binary.BigEndian, p.Repeat); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.BigEndian, p.VolRatio); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.BigEndian, int32(len(p.Fields))); err != nil {
		return err
	}
	for _, fld := range p.Fields {
		if err := binary.Write(buf, binary.BigEndian, fld.FieldID); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.BigEndian, int32(len(fld.Bytes))); err != nil {
			return err
		}
		buf.Write(fld.Bytes)
	}
	return nil
}

func encodeParticle(buf *bytes.Buffer, p *ParticlePayload) error {
	if err := binary.Write(buf, binary.BigEndian, p.TypeID); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.BigEndian, p.N); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.BigEndian, int32(len(p.Attrs))); err != nil {
		return err
	}
	for _, a := range p.Attrs {
		if err := binary.Write(buf, binary.BigEndian, a.AttrID); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.BigEndian, uint8(a.Precision)); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.BigEndian, int32(len(a.Bytes))); err != nil {
			return err
		}
		buf.Write(a.Bytes)
	}
	return nil
}

func encodeFlux(buf *bytes.Buffer, p *FluxPayload) error {
	if err := binary.Write(buf, binary.BigEndian, p.Axis); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.BigEndian, p.Face); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.BigEndian, p.NumFields); err != nil {
		return err
	}
	for _, b := range p.Fields {
		if err := binary.Write(buf, binary.BigEndian, int32(len(b))); err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
