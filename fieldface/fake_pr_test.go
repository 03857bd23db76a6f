package fieldface_test

import (
	"gonum.org/v1/gonum/stat"

	"github.com/sarchlab/meshrefresh/store"
)

// boxcarPR is a reference ProlongRestrict implementation with zero
// padding: Restrict arithmetic-averages each 2x2x2 (or 2x2 / 2 for
// lower rank) fine block into one coarse cell using gonum/stat.Mean,
// Prolong injects the coarse value into every fine cell it covers
// (piecewise-constant interpolation). Neither is physically realistic;
// both are numerically exact enough to exercise the codec's shape and
// accumulate-flag handling in tests.
type boxcarPR struct{ rank int }

func (boxcarPR) Padding() int { return 0 }

func (b boxcarPR) Restrict(prec store.Precision, dst []byte, m3Dst, i3Dst, n3Dst [3]int, src []byte, m3Src, i3Src, n3Src [3]int, accumulate bool) error {
	es, err := precBytes(prec)
	if err != nil {
		return err
	}
	for z := 0; z < n3Dst[2]; z++ {
		for y := 0; y < n3Dst[1]; y++ {
			for x := 0; x < n3Dst[0]; x++ {
				var samples []float64
				for dz := 0; dz < 2 && b.rank > 2; dz++ {
					for dy := 0; dy < 2 && b.rank > 1; dy++ {
						for dx := 0; dx < 2; dx++ {
							sx, sy, sz := i3Src[0]+2*x+dx, i3Src[1]+2*y+dy, i3Src[2]+2*z+dz
							off := es * (sx + m3Src[0]*(sy+m3Src[1]*sz))
							samples = append(samples, readFloat(prec, src, off))
						}
					}
				}
				v := stat.Mean(samples, nil)
				dxo, dyo, dzo := i3Dst[0]+x, i3Dst[1]+y, i3Dst[2]+z
				off := es * (dxo + m3Dst[0]*(dyo+m3Dst[1]*dzo))
				if accumulate {
					v += readFloat(prec, dst, off)
				}
				writeFloat(prec, dst, off, v)
			}
		}
	}
	return nil
}

func (b boxcarPR) Prolong(prec store.Precision, dst []byte, m3Dst, i3Dst, n3Dst [3]int, src []byte, m3Src, i3Src, n3Src [3]int, accumulate bool) error {
	es, err := precBytes(prec)
	if err != nil {
		return err
	}
	for z := 0; z < n3Src[2]; z++ {
		for y := 0; y < n3Src[1]; y++ {
			for x := 0; x < n3Src[0]; x++ {
				sx, sy, sz := i3Src[0]+x, i3Src[1]+y, i3Src[2]+z
				soff := es * (sx + m3Src[0]*(sy+m3Src[1]*sz))
				v := readFloat(prec, src, soff)

				for dz := 0; dz < 2 && b.rank > 2; dz++ {
					for dy := 0; dy < 2 && b.rank > 1; dy++ {
						for dx := 0; dx < 2; dx++ {
							fx, fy, fz := i3Dst[0]+2*x+dx, i3Dst[1]+2*y+dy, i3Dst[2]+2*z+dz
							doff := es * (fx + m3Dst[0]*(fy+m3Dst[1]*fz))
							val := v
							if accumulate {
								val += readFloat(prec, dst, doff)
							}
							writeFloat(prec, dst, doff, val)
						}
					}
				}
			}
		}
	}
	return nil
}
