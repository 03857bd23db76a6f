package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
)

// Decode parses a MsgRefresh wire frame produced by Encode.
func Decode(data []byte) (Frame, error) {
	r := bytes.NewReader(data)
	var f Frame

	if err := binary.Read(r, binary.BigEndian, &f.RefreshID); err != nil {
		return Frame{}, fmt.Errorf("wire: read refresh_id: %w", err)
	}
	var kind uint8
	if err := binary.Read(r, binary.BigEndian, &kind); err != nil {
		return Frame{}, fmt.Errorf("wire: read data_kind: %w", err)
	}
	f.Data.Kind = DataKind(kind)

	switch f.Data.Kind {
	case KindNone:
	case KindFieldFace:
		p, err := decodeFieldFace(r)
		if err != nil {
			return Frame{}, err
		}
		f.Data.FieldFace = p
	case KindPaddedFace:
		p, err := decodePaddedFace(r)
		if err != nil {
			return Frame{}, err
		}
		f.Data.PaddedFace = p
	case KindParticle:
		p, err := decodeParticle(r)
		if err != nil {
			return Frame{}, err
		}
		f.Data.Particle = p
	case KindFlux:
		p, err := decodeFlux(r)
		if err != nil {
			return Frame{}, err
		}
		f.Data.Flux = p
	case KindCountOnly:
		var expected uint32
		if err := binary.Read(r, binary.BigEndian, &expected); err != nil {
			return Frame{}, err
		}
		f.Data.CountOnly = &CountOnlyPayload{Expected: expected}
	default:
		return Frame{}, fmt.Errorf("wire: unknown data kind %d", kind)
	}
	return f, nil
}

func readFace(r *bytes.Reader) (geom.Face, error) {
	var f geom.Face
	for i := range f {
		var v int32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return f, err
		}
		f[i] = int8(v)
	}
	return f, nil
}

func readChild(r *bytes.Reader) (geom.Child, error) {
	var c geom.Child
	for i := range c {
		var v int32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return c, err
		}
		c[i] = uint8(v)
	}
	return c, nil
}

func readN3(r *bytes.Reader) ([3]int32, error) {
	var n3 [3]int32
	for i := range n3 {
		if err := binary.Read(r, binary.BigEndian, &n3[i]); err != nil {
			return n3, err
		}
	}
	return n3, nil
}

func decodeFieldFace(r *bytes.Reader) (*FieldFacePayload, error) {
	p := &FieldFacePayload{}
	var err error
	if p.Face, err = readFace(r); err != nil {
		return nil, err
	}
	if p.Child, err = readChild(r); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &p.RefreshType); err != nil {
		return nil, err
	}
	var count int32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	p.Fields = make([]FieldPayload, count)
	for i := range p.Fields {
		fld := &p.Fields[i]
		if err := binary.Read(r, binary.BigEndian, &fld.FieldID); err != nil {
			return nil, err
		}
		var prec uint8
		if err := binary.Read(r, binary.BigEndian, &prec); err != nil {
			return nil, err
		}
		fld.Precision = store.Precision(prec)
		if fld.N3, err = readN3(r); err != nil {
			return nil, err
		}
		var n int32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		fld.Bytes = make([]byte, n)
		if _, err := r.Read(fld.Bytes); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func decodePaddedFace(r *bytes.Reader) (*PaddedFacePayload, error) {
	p := &PaddedFacePayload{}
	var err error
	if p.Face, err = readFace(r); err != nil {
		return nil, err
	}
	if p.N3, err = readN3(r); err != nil {
		return nil, err
	}
	if p.Anchor, err = readN3(r); err != nil {
		return nil, err
	}
	if p.MPadded, err = readN3(r); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &p.Repeat); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &p.VolRatio); err != nil {
		return nil, err
	}
	var count int32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	p.Fields = make([]PaddedFieldPayload, count)
	for i := range p.Fields {
		fld := &p.Fields[i]
		if err := binary.Read(r, binary.BigEndian, &fld.FieldID); err != nil {
			return nil, err
		}
		var n int32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		fld.Bytes = make([]byte, n)
		if _, err := r.Read(fld.Bytes); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func decodeParticle(r *bytes.Reader) (*ParticlePayload, error) {
	p := &ParticlePayload{}
	if err := binary.Read(r, binary.BigEndian, &p.TypeID); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &p.N); err != nil {
		return nil, err
	}
	var count int32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	p.Attrs = make([]ParticleAttrEntry, count)
	for i := range p.Attrs {
		a := &p.Attrs[i]
		if err := binary.Read(r, binary.BigEndian, &a.AttrID); err != nil {
			return nil, err
		}
		var prec uint8
		if err := binary.Read(r, binary.BigEndian, &prec); err != nil {
			return nil, err
		}
		a.Precision = store.Precision(prec)
		var n int32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		a.Bytes = make([]byte, n)
		if _, err := r.Read(a.Bytes); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func decodeFlux(r *bytes.Reader) (*FluxPayload, error) {
	p := &FluxPayload{}
	if err := binary.Read(r, binary.BigEndian, &p.Axis); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &p.Face); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &p.NumFields); err != nil {
		return nil, err
	}
	p.Fields = make([][]byte, p.NumFields)
	for i := range p.Fields {
		var n int32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		b := make([]byte, n)
		if _, err := r.Read(b); err != nil {
			return nil, err
		}
		p.Fields[i] = b
	}
	return p, nil
}
