package geom

import (
	"fmt"
)

// Grid provides an interface for reasoning over a 1D slice as if it were a
// square 2D grid of cells covering [0, Length] x [0, Length]. The x axis is
// the duct axis and the y axis is the radial coordinate.
type Grid struct {
	CellBounds
	Length float64
	Area   int
	delta  float64
}

// CellBounds represents a bounding box aligned to grid cells.
type CellBounds struct {
	Origin, Width [2]int
}

// NewGrid returns a new Grid instance with the given number of cells along
// each side of a domain with width length.
func NewGrid(length float64, cells int) (*Grid, error) {
	if cells <= 1 {
		return nil, fmt.Errorf("Grid needs at least two cells, but got %d.", cells)
	} else if length <= 0 {
		return nil, fmt.Errorf("Grid length must be positive, but is %g.", length)
	}

	g := &Grid{}
	g.Init(length, cells)
	return g, nil
}

// Init initializes a Grid instance.
func (g *Grid) Init(length float64, cells int) {
	g.Origin = [2]int{0, 0}
	g.Width = [2]int{cells, cells}
	g.Length = length
	g.Area = cells * cells
	g.delta = length / float64(cells)
}

// Cells returns the number of cells along one side of the grid.
func (g *Grid) Cells() int { return g.Width[0] }

// Delta returns the width of a single cell.
func (g *Grid) Delta() float64 { return g.delta }

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y int) int {
	return (x - g.Origin[0]) + (y-g.Origin[1])*g.Width[0]
}

// Coords returns the x, y coordinates of a cell from its grid index.
func (g *Grid) Coords(idx int) (x, y int) {
	return idx % g.Width[0], idx / g.Width[0]
}

// Center returns the spatial position of the center of the cell at idx.
func (g *Grid) Center(idx int) (x, y float64) {
	ix, iy := g.Coords(idx)
	return (float64(ix) + 0.5) * g.delta, (float64(iy) + 0.5) * g.delta
}

// Corner returns the spatial position of the lower left corner of the cell
// with coordinates (ix, iy).
func (g *Grid) Corner(ix, iy int) (x, y float64) {
	return float64(ix) * g.delta, float64(iy) * g.delta
}
