package interpolate

import (
	"fmt"
)

///////////////////////////
// Linear Implementation //
///////////////////////////

// Linear is a linear interpolator.
type Linear struct {
	xs   searcher
	vals []float64
}

// NewLinear creates a linear interpolator for a sequence of strictly increasing
// or strictly decreasing point, xs, which take on the values given by vals.
//
// Lookups will occur in O(log |xs|).
func NewLinear(xs, vals []float64) *Linear {
	if len(xs) != len(vals) {
		panic("Length of input slices are not equal.")
	}
	lin := &Linear{}
	lin.xs.init(xs)
	lin.vals = vals
	return lin
}

// Eval returns the interpolated value at x. Values outside the supplied range
// are extrapolated from the nearest interval.
func (lin *Linear) Eval(x float64) float64 {
	i1 := lin.xs.search(x)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]

	return ((v2-v1)/(x2-x1))*(x-x1) + v1
}

/////////////////////////////
// BiLinear Implementation //
/////////////////////////////

// BiLinear is a bi-linear interpolator over a uniform grid. vals is laid out
// with x varying fastest, so the value at (x_i, y_j) is vals[i + j*nx].
type BiLinear struct {
	xs, ys searcher
	vals   []float64
	nx     int
	clamp  bool
}

func NewUniformBiLinear(
	x0, dx float64, nx int,
	y0, dy float64, ny int,
	vals []float64,
) *BiLinear {

	bi := &BiLinear{}

	bi.xs.unifInit(x0, dx, nx)
	bi.ys.unifInit(y0, dy, ny)
	bi.nx = nx
	bi.vals = vals

	if nx*ny != len(vals) {
		panic(fmt.Sprintf(
			"len(vals) = %d, but nx = %d and ny = %d",
			len(vals), nx, ny,
		))
	}

	return bi
}

// Clamp makes Eval hold the boundary values constant outside the sampled
// range instead of extrapolating.
func (bi *BiLinear) Clamp(flag bool) { bi.clamp = flag }

func (bi *BiLinear) Eval(x, y float64) float64 {
	ix1 := bi.xs.search(x)
	iy1 := bi.ys.search(y)
	ix2, iy2 := ix1+1, iy1+1

	x1, x2 := bi.xs.val(ix1), bi.xs.val(ix2)
	y1, y2 := bi.ys.val(iy1), bi.ys.val(iy2)

	tx, ty := (x-x1)/(x2-x1), (y-y1)/(y2-y1)
	if bi.clamp {
		tx, ty = unit(tx), unit(ty)
	}

	v11 := bi.vals[ix1+iy1*bi.nx]
	v21 := bi.vals[ix2+iy1*bi.nx]
	v12 := bi.vals[ix1+iy2*bi.nx]
	v22 := bi.vals[ix2+iy2*bi.nx]

	return (1-tx)*(1-ty)*v11 + tx*(1-ty)*v21 + (1-tx)*ty*v12 + tx*ty*v22
}

func unit(t float64) float64 {
	if t < 0 {
		return 0
	} else if t > 1 {
		return 1
	}
	return t
}
