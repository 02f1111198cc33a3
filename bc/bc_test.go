package bc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuctConditions(t *testing.T) {
	d := Duct{Reynolds: 100, Length: 10, Radius: 1}

	table := []struct {
		e    Edge
		c    Component
		y    float64
		cond Condition
	}{
		{Top, Tangential, 10, Dirichlet0},
		{Top, Normal, 10, Dirichlet0},
		{Top, Pressure, 10, Neumann0},
		{Bottom, Normal, 0, Dirichlet0},
		{Bottom, Tangential, 0, Neumann0},
		{Left, Normal, 0.5, Neumann0},
		{Left, Normal, 1.5, Dirichlet0},
		{Right, Normal, 0.99, Neumann0},
		{Right, Normal, 1, Dirichlet0},
		{Left, Tangential, 0.5, Neumann0},
		{Left, Pressure, 3, Condition{Dirichlet, 0.8}},
		{Right, Pressure, 0.5, Dirichlet0},
		{Left, FacePressure, 0.5, Neumann0},
		{Right, FacePressure, 0.5, Dirichlet0},
	}

	for i, test := range table {
		got := d.Condition(test.e, test.c, 0, test.y)
		assert.Equal(t, test.cond.Type, got.Type, "%d) %s %s", i, test.e, test.c)
		assert.InDelta(t, test.cond.Value, got.Value, 1e-12,
			"%d) %s %s", i, test.e, test.c)
	}
}

func TestDuctPure(t *testing.T) {
	d := Duct{Reynolds: 200, Length: 10, Radius: 1}
	for e := Left; e < EndEdge; e++ {
		for c := Tangential; c < EndComponent; c++ {
			assert.Equal(t, d.Condition(e, c, 1, 0.3), d.Condition(e, c, 1, 0.3))
		}
	}
	assert.InDelta(t, 0.4, d.InletPressure(), 1e-12)
}

func TestGhost(t *testing.T) {
	assert.Equal(t, 2.0, Ghost(Condition{Dirichlet, 3}, 4, 0.1))
	assert.Equal(t, 4.0, Ghost(Neumann0, 4, 0.1))
	assert.InDelta(t, 4.2, Ghost(Condition{Neumann, 2}, 4, 0.1), 1e-12)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Left", Left.String())
	assert.Equal(t, "Unknown", EndEdge.String())
	assert.Equal(t, "FacePressure", FacePressure.String())
	assert.Equal(t, "Neumann", Neumann.String())
}
