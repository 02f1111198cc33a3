package bc

// Duct is the boundary condition set of a pressure-driven duct of the given
// Radius lying along the bottom edge of a square domain of width Length. The
// bottom edge is the symmetry axis.
//
// The inlet pressure is 8*Length/Reynolds, which for a unit radius gives the
// Poiseuille profile u = 2(1 - r^2), whose flow rate (the integral of u*r
// over the radius) is one half.
type Duct struct {
	Reynolds, Length, Radius float64
}

var _ Set = Duct{}

// InletPressure returns the pressure imposed on the left edge.
func (d Duct) InletPressure() float64 {
	return 8 * d.Length / d.Reynolds
}

// Condition implements Set.
func (d Duct) Condition(e Edge, c Component, x, y float64) Condition {
	switch e {
	case Top:
		switch c {
		case Tangential, Normal:
			return Dirichlet0
		}
		return Neumann0

	case Bottom:
		if c == Normal {
			return Dirichlet0
		}
		return Neumann0

	case Left, Right:
		switch c {
		case Normal:
			if y < d.Radius {
				return Neumann0
			}
			return Dirichlet0
		case Pressure:
			if e == Left {
				return Condition{Dirichlet, d.InletPressure()}
			}
			return Dirichlet0
		case FacePressure:
			if e == Left {
				return Neumann0
			}
			return Dirichlet0
		}
		return Neumann0
	}

	panic("Impossible")
}
