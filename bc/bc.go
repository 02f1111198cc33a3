// Package bc declares the boundary conditions of each field on each edge of
// the domain.
package bc

// Type is the kind of a boundary condition.
type Type uint8

const (
	// Dirichlet fixes the value on the boundary.
	Dirichlet Type = iota
	// Neumann fixes the outward normal gradient on the boundary.
	Neumann
)

func (t Type) String() string {
	switch t {
	case Dirichlet:
		return "Dirichlet"
	case Neumann:
		return "Neumann"
	}
	return "Unknown"
}

// Edge is one of the four sides of the square domain.
type Edge uint8

const (
	Left Edge = iota
	Right
	Top
	Bottom
	EndEdge
)

func (e Edge) String() string {
	switch e {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	}
	return "Unknown"
}

// Component identifies a field relative to an edge. Velocity is split into
// the components tangential and normal to the edge.
type Component uint8

const (
	Tangential Component = iota
	Normal
	Pressure
	FacePressure
	EndComponent
)

func (c Component) String() string {
	switch c {
	case Tangential:
		return "Tangential"
	case Normal:
		return "Normal"
	case Pressure:
		return "Pressure"
	case FacePressure:
		return "FacePressure"
	}
	return "Unknown"
}

// Condition is a boundary value or a boundary flux.
type Condition struct {
	Type  Type
	Value float64
}

// Dirichlet0 and Neumann0 are the homogeneous conditions.
var (
	Dirichlet0 = Condition{Dirichlet, 0}
	Neumann0   = Condition{Neumann, 0}
)

// Set returns the condition for a component on an edge at the boundary
// position (x, y). Implementations must be pure functions of their
// configuration and the position.
type Set interface {
	Condition(e Edge, c Component, x, y float64) Condition
}

// Ghost returns the value of a ghost cell mirrored across the boundary from a
// cell with the given inside value, where h is the distance between the two
// cell centers.
func Ghost(c Condition, inside, h float64) float64 {
	if c.Type == Dirichlet {
		return 2*c.Value - inside
	}
	return inside + h*c.Value
}
