package stenosis

import (
	"github.com/phil-mansfield/stenosis/field"
	"github.com/phil-mansfield/stenosis/geom"
)

// Enforcer imposes the stenosis wall on the fields after each step.
type Enforcer struct {
	// Occupancies within BandTolerance of 0 or 1 are outside the interface
	// band.
	BandTolerance float64
}

// Apply recomputes the occupancy field of s from the stenosis of cfg and
// then enforces the wall.
func (e Enforcer) Apply(cfg *RunConfig, s *field.Store) {
	g, phi := s.Grid, cfg.Stenosis()
	field.Map(g.Area, func(lo, hi int) {
		geom.Fraction(g, phi, s.F, lo, hi)
	})
	e.Enforce(s)
}

// Enforce zeroes the velocity and pressure of interface band cells and scales
// them by the occupancy everywhere else.
func (e Enforcer) Enforce(s *field.Store) {
	lo, hi := e.BandTolerance, 1-e.BandTolerance
	field.Map(s.Grid.Area, func(start, end int) {
		for i := start; i < end; i++ {
			f := s.F[i]
			if f > lo && f < hi {
				s.Ux[i], s.Uy[i], s.P[i] = 0, 0, 0
			} else {
				s.Ux[i] *= f
				s.Uy[i] *= f
				s.P[i] *= f
			}
		}
	})
}
