package memstore

import (
	"gonum.org/v1/gonum/stat"

	"github.com/sarchlab/meshrefresh/store"
)

// Injection is a reference store.ProlongRestrict with zero stencil
// padding: Restrict arithmetic-averages each 2x2x2 (2x2, or 2 at lower
// rank) fine block into one coarse cell via gonum/stat.Mean, Prolong
// injects the coarse value into every fine cell it covers
// (piecewise-constant interpolation). Neither is physically
// realistic; both exercise the codec's same/coarser/finer paths with
// numerically exact, easily-checked results.
type Injection struct{ Rank int }

func (Injection) Padding() int { return 0 }

func (op Injection) Restrict(prec store.Precision, dst []byte, m3Dst, i3Dst, n3Dst [3]int, src []byte, m3Src, i3Src, n3Src [3]int, accumulate bool) error {
	es, err := prec.Bytes()
	if err != nil {
		return err
	}
	for z := 0; z < n3Dst[2]; z++ {
		for y := 0; y < n3Dst[1]; y++ {
			for x := 0; x < n3Dst[0]; x++ {
				var samples []float64
				for dz := 0; dz < 2 && op.Rank > 2; dz++ {
					for dy := 0; dy < 2 && op.Rank > 1; dy++ {
						for dx := 0; dx < 2; dx++ {
							sx, sy, sz := i3Src[0]+2*x+dx, i3Src[1]+2*y+dy, i3Src[2]+2*z+dz
							off := es * (sx + m3Src[0]*(sy+m3Src[1]*sz))
							samples = append(samples, getFloat(prec, src, off))
						}
					}
				}
				v := stat.Mean(samples, nil)
				dxo, dyo, dzo := i3Dst[0]+x, i3Dst[1]+y, i3Dst[2]+z
				off := es * (dxo + m3Dst[0]*(dyo+m3Dst[1]*dzo))
				if accumulate {
					v += getFloat(prec, dst, off)
				}
				putFloat(prec, dst, off, v)
			}
		}
	}
	return nil
}

func (op Injection) Prolong(prec store.Precision, dst []byte, m3Dst, i3Dst, n3Dst [3]int, src []byte, m3Src, i3Src, n3Src [3]int, accumulate bool) error {
	es, err := prec.Bytes()
	if err != nil {
		return err
	}
	for z := 0; z < n3Src[2]; z++ {
		for y := 0; y < n3Src[1]; y++ {
			for x := 0; x < n3Src[0]; x++ {
				sx, sy, sz := i3Src[0]+x, i3Src[1]+y, i3Src[2]+z
				soff := es * (sx + m3Src[0]*(sy+m3Src[1]*sz))
				v := getFloat(prec, src, soff)

				for dz := 0; dz < 2 && op.Rank > 2; dz++ {
					for dy := 0; dy < 2 && op.Rank > 1; dy++ {
						for dx := 0; dx < 2; dx++ {
							fx, fy, fz := i3Dst[0]+2*x+dx, i3Dst[1]+2*y+dy, i3Dst[2]+2*z+dz
							doff := es * (fx + m3Dst[0]*(fy+m3Dst[1]*fz))
							val := v
							if accumulate {
								val += getFloat(prec, dst, doff)
							}
							putFloat(prec, dst, doff, val)
						}
					}
				}
			}
		}
	}
	return nil
}

// Linear is a reference store.ProlongRestrict whose Prolong needs one
// extra coarse cell of context beyond the region it interpolates
// (Padding() == 1), exercising the padded-prolongation protocol:
// every axis gets a centered-difference slope from its
// immediate coarse neighbors, and the two fine sub-cells an axis'
// coarse cell covers are placed symmetrically around that cell's
// value rather than injected flat. Restrict is unchanged from
// Injection (averaging needs no extra context).
type Linear struct{ Rank int }

func (Linear) Padding() int { return 1 }

func (op Linear) Restrict(prec store.Precision, dst []byte, m3Dst, i3Dst, n3Dst [3]int, src []byte, m3Src, i3Src, n3Src [3]int, accumulate bool) error {
	return Injection{Rank: op.Rank}.Restrict(prec, dst, m3Dst, i3Dst, n3Dst, src, m3Src, i3Src, n3Src, accumulate)
}

func (op Linear) Prolong(prec store.Precision, dst []byte, m3Dst, i3Dst, n3Dst [3]int, src []byte, m3Src, i3Src, n3Src [3]int, accumulate bool) error {
	es, err := prec.Bytes()
	if err != nil {
		return err
	}

	axisSlope := func(axis int, x, y, z int) float64 {
		c := [3]int{i3Src[0] + x, i3Src[1] + y, i3Src[2] + z}
		lo, hi := c, c
		lo[axis]--
		hi[axis]++
		loOff := es * (lo[0] + m3Src[0]*(lo[1]+m3Src[1]*lo[2]))
		hiOff := es * (hi[0] + m3Src[0]*(hi[1]+m3Src[1]*hi[2]))
		return (getFloat(prec, src, hiOff) - getFloat(prec, src, loOff)) / 4
	}

	for z := 0; z < n3Src[2]; z++ {
		for y := 0; y < n3Src[1]; y++ {
			for x := 0; x < n3Src[0]; x++ {
				sx, sy, sz := i3Src[0]+x, i3Src[1]+y, i3Src[2]+z
				soff := es * (sx + m3Src[0]*(sy+m3Src[1]*sz))
				v := getFloat(prec, src, soff)

				var slope [3]float64
				if op.Rank > 0 {
					slope[0] = axisSlope(0, x, y, z)
				}
				if op.Rank > 1 {
					slope[1] = axisSlope(1, x, y, z)
				}
				if op.Rank > 2 {
					slope[2] = axisSlope(2, x, y, z)
				}

				for dz := 0; dz < 2 && op.Rank > 2; dz++ {
					for dy := 0; dy < 2 && op.Rank > 1; dy++ {
						for dx := 0; dx < 2; dx++ {
							sign := func(d int) float64 {
								if d == 0 {
									return -0.5
								}
								return 0.5
							}
							val := v + sign(dx)*slope[0]
							if op.Rank > 1 {
								val += sign(dy) * slope[1]
							}
							if op.Rank > 2 {
								val += sign(dz) * slope[2]
							}

							fx, fy, fz := i3Dst[0]+2*x+dx, i3Dst[1]+2*y+dy, i3Dst[2]+2*z+dz
							doff := es * (fx + m3Dst[0]*(fy+m3Dst[1]*fz))
							if accumulate {
								val += getFloat(prec, dst, doff)
							}
							putFloat(prec, dst, doff, val)
						}
					}
				}
			}
		}
	}
	return nil
}
