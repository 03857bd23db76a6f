package memstore

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sarchlab/meshrefresh/geom"
	"github.com/sarchlab/meshrefresh/store"
)

// FieldStore is a block's in-memory field storage: a fixed set of
// named, strided 3-D arrays, each FORTRAN-contiguous (x fastest-
// varying) including ghost zones.
type FieldStore struct {
	order  []int
	fields map[int]*store.Field
}

// NewFieldStore builds an empty field store.
func NewFieldStore() *FieldStore {
	return &FieldStore{fields: make(map[int]*store.Field)}
}

// AddField registers a new field with the given id, name, precision,
// dimensions (including ghosts), ghost depth, and centering, filled
// with zero bytes.
func (fs *FieldStore) AddField(id int, name string, prec store.Precision, dims, ghost [3]int, centering geom.Child) *store.Field {
	es, err := prec.Bytes()
	if err != nil {
		panic(err)
	}
	n := dims[0] * dims[1] * dims[2]
	f := &store.Field{
		Name:       name,
		ID:         id,
		Precision:  prec,
		Dimensions: dims,
		GhostDepth: ghost,
		Centering:  centering,
		Values:     make([]byte, es*n),
	}
	fs.fields[id] = f
	fs.order = append(fs.order, id)
	return f
}

func (fs *FieldStore) Field(id int) (*store.Field, error) {
	f, ok := fs.fields[id]
	if !ok {
		return nil, fmt.Errorf("memstore: no field with id %d", id)
	}
	return f, nil
}

func (fs *FieldStore) FieldByName(name string) (*store.Field, error) {
	for _, f := range fs.fields {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("memstore: no field named %q", name)
}

func (fs *FieldStore) NumFields() int { return len(fs.fields) }

// Fill sets every interior+ghost cell of field id to a value produced
// by gen(x,y,z), in local cell-index coordinates (0 is the first ghost
// cell on the low side of every axis). Test/demo convenience only.
func (fs *FieldStore) Fill(id int, gen func(x, y, z int) float64) {
	f := fs.fields[id]
	es, _ := f.Precision.Bytes()
	m3 := f.Dimensions
	for z := 0; z < m3[2]; z++ {
		for y := 0; y < m3[1]; y++ {
			for x := 0; x < m3[0]; x++ {
				off := es * (x + m3[0]*(y+m3[1]*z))
				putFloat(f.Precision, f.Values, off, gen(x, y, z))
			}
		}
	}
}

// At reads the value of field id at local cell (x,y,z).
func (fs *FieldStore) At(id int, x, y, z int) float64 {
	f := fs.fields[id]
	es, _ := f.Precision.Bytes()
	off := es * (x + f.Dimensions[0]*(y+f.Dimensions[1]*z))
	return getFloat(f.Precision, f.Values, off)
}

func putFloat(prec store.Precision, buf []byte, off int, v float64) {
	switch prec {
	case store.PrecisionSingle:
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
	default:
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
	}
}

func getFloat(prec store.Precision, buf []byte, off int) float64 {
	switch prec {
	case store.PrecisionSingle:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
	}
}

// FieldGroups is an in-memory implementation of store.FieldGroups: a
// static set of (fieldName, group) memberships, the reference
// implementation of the conservative-form scaling predicate.
type FieldGroups struct {
	memberships map[string]map[string]bool
}

// NewFieldGroups builds an empty FieldGroups.
func NewFieldGroups() *FieldGroups {
	return &FieldGroups{memberships: make(map[string]map[string]bool)}
}

// Add marks fieldName as a member of group.
func (g *FieldGroups) Add(fieldName, group string) {
	if g.memberships[fieldName] == nil {
		g.memberships[fieldName] = make(map[string]bool)
	}
	g.memberships[fieldName][group] = true
}

func (g *FieldGroups) IsIn(fieldName, group string) bool {
	return g.memberships[fieldName][group]
}
