package fieldface

import (
	"github.com/sarchlab/meshrefresh/store"
)

// offset computes the linear byte offset of cell (x,y,z) within a
// FORTRAN-contiguous (x fastest-varying) array of dims m3.
func offset(elemSize int, m3 [3]int, x, y, z int) int {
	return elemSize * (x + m3[0]*(y+m3[1]*z))
}

// ExtractRegion copies the half-open [lo,hi) sub-box of a
// FORTRAN-contiguous array (dims m3) into a freshly allocated
// contiguous buffer shaped hi-lo. This is the portable canonical loop
// specified as the FieldFace codec's numerically exact kernel; a
// Fortran-fast-path is an optimization with identical semantics and is
// not implemented here (the portable loop is canonical).
func ExtractRegion(prec store.Precision, values []byte, m3, lo, hi [3]int) ([]byte, error) {
	es, err := elemSize(prec)
	if err != nil {
		return nil, err
	}
	for axis := 0; axis < 3; axis++ {
		if lo[axis] < 0 || hi[axis] > m3[axis] || lo[axis] > hi[axis] {
			return nil, &GeometryError{Reason: "send region escapes array bounds"}
		}
	}

	shape := [3]int{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]}
	out := make([]byte, es*shape[0]*shape[1]*shape[2])

	dstOff := 0
	for z := lo[2]; z < hi[2]; z++ {
		for y := lo[1]; y < hi[1]; y++ {
			for x := lo[0]; x < hi[0]; x++ {
				srcOff := offset(es, m3, x, y, z)
				copy(out[dstOff:dstOff+es], values[srcOff:srcOff+es])
				dstOff += es
			}
		}
	}
	return out, nil
}

// InsertRegion writes a contiguous buffer shaped hi-lo into the
// half-open [lo,hi) sub-box of a FORTRAN-contiguous array (dims m3),
// overwriting when accumulate is false and adding when true.
func InsertRegion(prec store.Precision, dst []byte, m3, lo, hi [3]int, src []byte, accumulate bool) error {
	es, err := elemSize(prec)
	if err != nil {
		return err
	}
	for axis := 0; axis < 3; axis++ {
		if lo[axis] < 0 || hi[axis] > m3[axis] || lo[axis] > hi[axis] {
			return &GeometryError{Reason: "receive region escapes array bounds"}
		}
	}
	shape := [3]int{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]}
	want := es * shape[0] * shape[1] * shape[2]
	if len(src) != want {
		return &GeometryError{Reason: "source buffer size does not match destination region"}
	}

	srcOff := 0
	for z := lo[2]; z < hi[2]; z++ {
		for y := lo[1]; y < hi[1]; y++ {
			for x := lo[0]; x < hi[0]; x++ {
				dstOff := offset(es, m3, x, y, z)
				if accumulate {
					v := getFloat(prec, dst, dstOff) + getFloat(prec, src, srcOff)
					setFloat(prec, dst, dstOff, v)
				} else {
					copy(dst[dstOff:dstOff+es], src[srcOff:srcOff+es])
				}
				srcOff += es
			}
		}
	}
	return nil
}

// ScaleByDensity multiplies (or, if divide is true, divides) every
// element of region element-wise by the corresponding element of
// density, both shaped shape. This implements the conservative-form
// scaling rule: intensive fields tagged
// make_field_conservative are converted to extensive quantities before
// packing and back after unpacking.
func ScaleByDensity(prec store.Precision, region, density []byte, shape [3]int, divide bool) error {
	es, err := elemSize(prec)
	if err != nil {
		return err
	}
	n := shape[0] * shape[1] * shape[2]
	if len(region) != es*n || len(density) != es*n {
		return &GeometryError{Reason: "region/density size mismatch in conservative scaling"}
	}
	for i := 0; i < n; i++ {
		off := i * es
		rv := getFloat(prec, region, off)
		dv := getFloat(prec, density, off)
		if divide {
			if dv == 0 {
				return &GeometryError{Reason: "division by zero density in conservative unscaling"}
			}
			setFloat(prec, region, off, rv/dv)
		} else {
			setFloat(prec, region, off, rv*dv)
		}
	}
	return nil
}
