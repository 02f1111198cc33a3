package solver

import (
	"log"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/stenosis/bc"
	"github.com/phil-mansfield/stenosis/geom"
)

// The pressure problem is the axisymmetric Laplace equation discretised with
// finite volumes over the pure primary phase cells. Faces shared with
// non-fluid cells carry no flux. Each face is weighted by its radius, so the
// axis face of the first row drops out.

// faces calls fn for every face of the cell (ix, iy) with the face weight,
// the neighbor index (-1 across a domain edge) and the edge condition when
// the face lies on the domain boundary.
func (st *Stokes) faces(
	g *geom.Grid, ix, iy int,
	fn func(w float64, nb int, cond bc.Condition, edge bool),
) {
	n, h := g.Cells(), g.Delta()
	set := st.p.BC
	idx := g.Idx(ix, iy)
	x, y := (float64(ix)+0.5)*h, (float64(iy)+0.5)*h

	if ix == 0 {
		fn(y, -1, set.Condition(bc.Left, bc.Pressure, 0, y), true)
	} else {
		fn(y, idx-1, bc.Condition{}, false)
	}
	if ix == n-1 {
		fn(y, -1, set.Condition(bc.Right, bc.Pressure, g.Length, y), true)
	} else {
		fn(y, idx+1, bc.Condition{}, false)
	}
	if iy == n-1 {
		fn(y+h/2, -1, set.Condition(bc.Top, bc.Pressure, x, g.Length), true)
	} else {
		fn(y+h/2, idx+n, bc.Condition{}, false)
	}
	if iy > 0 {
		fn(y-h/2, idx-n, bc.Condition{}, false)
	}
}

// matVec computes out = A x over the fluid cells. Every other entry of out
// is zero.
func (st *Stokes) matVec(g *geom.Grid, x, out []float64) []float64 {
	for idx := range out {
		out[idx] = 0
		if !st.fluid[idx] {
			continue
		}

		ix, iy := g.Coords(idx)
		xi := x[idx]
		st.faces(g, ix, iy, func(w float64, nb int, cond bc.Condition, edge bool) {
			if edge {
				if cond.Type == bc.Dirichlet {
					out[idx] += 2 * w * xi
				}
			} else if st.fluid[nb] {
				out[idx] += w * (xi - x[nb])
			}
		})
	}
	return out
}

// assemble writes the boundary contributions into st.rhs.
func (st *Stokes) assemble(g *geom.Grid) {
	h := g.Delta()
	for idx := range st.rhs {
		st.rhs[idx] = 0
		if !st.fluid[idx] {
			continue
		}

		ix, iy := g.Coords(idx)
		st.faces(g, ix, iy, func(w float64, nb int, cond bc.Condition, edge bool) {
			if !edge {
				return
			}
			if cond.Type == bc.Dirichlet {
				st.rhs[idx] += 2 * w * cond.Value
			} else {
				st.rhs[idx] += w * h * cond.Value
			}
		})
	}
}

// solvePressure solves for p with conjugate gradient, starting from the
// current contents of p. Entries outside the fluid cells are not touched. A
// solve which runs out of iterations keeps its last iterate.
func (st *Stokes) solvePressure(g *geom.Grid, p []float64) {
	st.assemble(g)

	x := st.x
	for i := range p {
		x[i] = 0
		if st.fluid[i] {
			x[i] = p[i]
		}
	}

	r, d, q := st.r, st.d, st.q
	st.matVec(g, x, q)
	floats.SubTo(r, st.rhs, q)
	copy(d, r)

	rDotr := floats.Dot(r, r)
	bDotb := floats.Dot(st.rhs, st.rhs)
	if bDotb == 0 {
		bDotb = 1
	}
	threshold := st.p.Tolerance * st.p.Tolerance * bDotb

	// The recursive residual drifts, so recompute it periodically.
	recomputeInterval := 50

	st.Iterations = 0
	for ; st.Iterations < st.p.MaxIters && rDotr > threshold; st.Iterations++ {
		st.matVec(g, d, q)
		dDotq := floats.Dot(d, q)
		if dDotq <= 0 {
			break
		}
		alpha := rDotr / dDotq
		floats.AddScaled(x, alpha, d)

		if st.Iterations%recomputeInterval == 0 {
			st.matVec(g, x, q)
			floats.SubTo(r, st.rhs, q)
		} else {
			floats.AddScaled(r, -alpha, q)
		}

		rDotrOld := rDotr
		rDotr = floats.Dot(r, r)
		beta := rDotr / rDotrOld

		// d = r + beta d
		floats.Scale(beta, d)
		floats.Add(d, r)
	}

	st.Residual = rDotr
	if rDotr > threshold {
		log.Printf(
			"Pressure solve stopped after %d iterations with residual %g "+
				"(threshold %g).", st.Iterations, rDotr, threshold,
		)
	}

	for i := range p {
		if st.fluid[i] {
			p[i] = x[i]
		}
	}
}
