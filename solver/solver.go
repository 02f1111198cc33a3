/*
Package solver contains the field integrator which the run driver steps in
pseudo-time.

The driver only relies on the Integrator interface. Stokes is a small
axisymmetric stand-in: it solves the pressure Laplace problem on the pure
primary phase and relaxes the viscous momentum equations explicitly. It
reproduces the imposed linear pressure drop and, for an unobstructed duct,
the fully developed Poiseuille profile. It does not enforce incompressibility
inside obstructed ducts.
*/
package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/stenosis/bc"
	"github.com/phil-mansfield/stenosis/field"
	"github.com/phil-mansfield/stenosis/geom"
)

// Params are the physical and numerical parameters of a single run.
type Params struct {
	// Density and viscosity of the primary (F = 1) and secondary (F = 0)
	// phases.
	Rho1, Mu1, Rho2, Mu2 float64

	BC bc.Set

	// Tolerance is the relative residual at which the pressure solve stops.
	Tolerance float64
	MaxIters  int
}

// Integrator advances the fields of a Store by one pseudo-time step.
type Integrator interface {
	// Configure sets the parameters used by every following step.
	Configure(p Params) error
	// StableDt returns the largest step the integrator accepts on g.
	StableDt(g *geom.Grid) float64
	// Step advances s by dt.
	Step(s *field.Store, dt float64) error
}

// Change returns the largest absolute difference between two fields.
func Change(xs, ref []float64) float64 {
	return floats.Distance(xs, ref, math.Inf(+1))
}

// Stokes is an explicit pseudo-time integrator of the axisymmetric Stokes
// equations with a two-phase mixture weighted by the occupancy field.
type Stokes struct {
	p Params

	// BandTolerance is the distance from 1 within which a cell counts as
	// pure primary phase.
	BandTolerance float64
	// Iterations and Residual describe the last pressure solve.
	Iterations int
	Residual   float64

	fluid           []bool
	ux, uy          []float64
	x, rhs, r, d, q []float64
}

var _ Integrator = &Stokes{}

// NewStokes returns an unconfigured Stokes integrator.
func NewStokes(bandTolerance float64) *Stokes {
	return &Stokes{BandTolerance: bandTolerance}
}

// Configure implements Integrator.
func (st *Stokes) Configure(p Params) error {
	if p.BC == nil {
		return fmt.Errorf("Stokes integrator needs a boundary condition set.")
	} else if p.Rho1 <= 0 || p.Rho2 <= 0 {
		return fmt.Errorf(
			"Phase densities must be positive, but are %g and %g.",
			p.Rho1, p.Rho2,
		)
	} else if p.Mu1 < 0 || p.Mu2 < 0 || p.Mu1+p.Mu2 == 0 {
		return fmt.Errorf(
			"Phase viscosities must be non-negative and not both zero, "+
				"but are %g and %g.", p.Mu1, p.Mu2,
		)
	}

	if p.Tolerance <= 0 {
		p.Tolerance = 1e-6
	}
	if p.MaxIters <= 0 {
		p.MaxIters = 10000
	}
	st.p = p
	return nil
}

// StableDt implements Integrator. The bound comes from the explicit viscous
// term next to the axis.
func (st *Stokes) StableDt(g *geom.Grid) float64 {
	nu := math.Max(st.p.Mu1, st.p.Mu2) / math.Min(st.p.Rho1, st.p.Rho2)
	h := g.Delta()
	return 0.1 * h * h / nu
}

func (st *Stokes) alloc(n int) {
	if len(st.fluid) == n {
		return
	}
	st.fluid = make([]bool, n)
	st.ux, st.uy = make([]float64, n), make([]float64, n)
	st.x, st.rhs = make([]float64, n), make([]float64, n)
	st.r, st.d, st.q = make([]float64, n), make([]float64, n), make([]float64, n)
}

// Step implements Integrator.
func (st *Stokes) Step(s *field.Store, dt float64) error {
	if st.p.BC == nil {
		return fmt.Errorf("Stokes integrator stepped before being configured.")
	}

	g := s.Grid
	st.alloc(g.Area)
	for i, f := range s.F {
		st.fluid[i] = f >= 1-st.BandTolerance
	}

	st.solvePressure(g, s.P)
	copy(s.Pf, s.P)

	field.Map(g.Area, func(lo, hi int) {
		st.momentum(s, dt, lo, hi)
	})
	copy(s.Ux, st.ux)
	copy(s.Uy, st.uy)

	return nil
}

// momentum writes the advanced velocity of cells [lo, hi) into st.ux and
// st.uy.
func (st *Stokes) momentum(s *field.Store, dt float64, lo, hi int) {
	g := s.Grid
	n, h := g.Cells(), g.Delta()
	set := st.p.BC

	for idx := lo; idx < hi; idx++ {
		st.ux[idx], st.uy[idx] = s.Ux[idx], s.Uy[idx]
		if !st.fluid[idx] {
			continue
		}

		ix, iy := g.Coords(idx)
		x, y := g.Center(idx)
		f := s.F[idx]
		rho := f*st.p.Rho1 + (1-f)*st.p.Rho2
		mu := f*st.p.Mu1 + (1-f)*st.p.Mu2

		// Neighbors, with ghost values across the domain edges. x is the
		// normal direction of the left and right edges, y of the top and
		// bottom edges.
		var uxW, uxE, uxN, uyW, uyE, uyN float64
		ux, uy := s.Ux[idx], s.Uy[idx]
		if ix == 0 {
			uxW = bc.Ghost(set.Condition(bc.Left, bc.Normal, 0, y), ux, h)
			uyW = bc.Ghost(set.Condition(bc.Left, bc.Tangential, 0, y), uy, h)
		} else {
			uxW, uyW = s.Ux[idx-1], s.Uy[idx-1]
		}
		if ix == n-1 {
			uxE = bc.Ghost(set.Condition(bc.Right, bc.Normal, g.Length, y), ux, h)
			uyE = bc.Ghost(set.Condition(bc.Right, bc.Tangential, g.Length, y), uy, h)
		} else {
			uxE, uyE = s.Ux[idx+1], s.Uy[idx+1]
		}
		if iy == n-1 {
			uxN = bc.Ghost(set.Condition(bc.Top, bc.Tangential, x, g.Length), ux, h)
			uyN = bc.Ghost(set.Condition(bc.Top, bc.Normal, x, g.Length), uy, h)
		} else {
			uxN, uyN = s.Ux[idx+n], s.Uy[idx+n]
		}
		// The south face of the first row lies on the axis, where r = 0.
		uxS, uyS := ux, uy
		if iy > 0 {
			uxS, uyS = s.Ux[idx-n], s.Uy[idx-n]
		}

		r, rn, rs := y, y+h/2, y-h/2
		h2 := h * h
		lapX := (uxE-2*ux+uxW)/h2 + (rn*(uxN-ux)-rs*(ux-uxS))/(r*h2)
		lapY := (uyE-2*uy+uyW)/h2 + (rn*(uyN-uy)-rs*(uy-uyS))/(r*h2) -
			uy/(r*r)

		dpdx, dpdy := st.gradient(s, idx, ix, iy, x, y)

		st.ux[idx] = ux + dt*(-dpdx+mu*lapX)/rho
		st.uy[idx] = uy + dt*(-dpdy+mu*lapY)/rho
	}
}

// gradient returns the centered gradient of Pf at idx. Neighbors outside the
// pure primary phase are treated as zero flux.
func (st *Stokes) gradient(
	s *field.Store, idx, ix, iy int, x, y float64,
) (dpdx, dpdy float64) {
	g := s.Grid
	n, h := g.Cells(), g.Delta()
	set := st.p.BC
	pf := s.Pf[idx]

	nb := func(e bc.Edge, atEdge bool, j int, bx, by float64) float64 {
		if atEdge {
			return bc.Ghost(set.Condition(e, bc.FacePressure, bx, by), pf, h)
		} else if !st.fluid[j] {
			return pf
		}
		return s.Pf[j]
	}

	pW := nb(bc.Left, ix == 0, idx-1, 0, y)
	pE := nb(bc.Right, ix == n-1, idx+1, g.Length, y)
	pS := nb(bc.Bottom, iy == 0, idx-n, x, 0)
	pN := nb(bc.Top, iy == n-1, idx+n, x, g.Length)

	return (pE - pW) / (2 * h), (pN - pS) / (2 * h)
}
