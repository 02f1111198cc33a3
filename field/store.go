/*
Package field holds the cell-centered fields shared by the integrator and
the run driver.

Fields are allocated once for a grid and reset in place between runs.
*/
package field

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phil-mansfield/stenosis/geom"
)

// Store is the set of named fields over a grid. Ux and Uy are the axial and
// radial velocity components, P the pressure, Pf the pressure the integrator
// uses to drive the velocity, F the occupancy of the primary phase and Un the
// reference copy of Ux used for convergence checks.
type Store struct {
	Grid *geom.Grid

	Ux, Uy, P, Pf, F, Un []float64

	fields map[string]*[]float64
}

// NewStore allocates every field over g.
func NewStore(g *geom.Grid) *Store {
	s := &Store{Grid: g}
	s.Ux = make([]float64, g.Area)
	s.Uy = make([]float64, g.Area)
	s.P = make([]float64, g.Area)
	s.Pf = make([]float64, g.Area)
	s.F = make([]float64, g.Area)
	s.Un = make([]float64, g.Area)

	s.fields = map[string]*[]float64{
		"u.x": &s.Ux, "u.y": &s.Uy, "p": &s.P,
		"pf": &s.Pf, "f": &s.F, "un": &s.Un,
	}
	return s
}

// Reset zeroes every field without reallocating it.
func (s *Store) Reset() {
	for _, vals := range s.fields {
		zero(*vals)
	}
}

// Field returns the field with the given name.
func (s *Store) Field(name string) ([]float64, error) {
	vals, ok := s.fields[name]
	if !ok {
		return nil, fmt.Errorf(
			"Field store has no field named '%s'. Valid names are: %s.",
			name, strings.Join(s.Names(), ", "),
		)
	}
	return *vals, nil
}

// Names returns the names of every field in lexical order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func zero(xs []float64) {
	for i := range xs {
		xs[i] = 0
	}
}
