package geom

import (
	"math"
)

// LevelSet is a scalar function of position whose positive region is the
// primary phase.
type LevelSet interface {
	Phi(x, y float64) float64
}

// Stenosis is the level set of an axisymmetric duct of unit radius locally
// narrowed by a Gaussian bump of the given Depth centered at axial
// position Center.
type Stenosis struct {
	Depth, Center float64
}

// Phi returns 1 - Depth*exp(-(x - Center)^2) - y.
func (s Stenosis) Phi(x, y float64) float64 {
	dx := x - s.Center
	return 1 - s.Depth*math.Exp(-dx*dx) - y
}

// Segment is a single interface facet.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// cellCut is the clipped polygon and the edge crossings of a single cell.
type cellCut struct {
	poly      [8][2]float64
	nPoly     int
	cross     [4][2]float64
	nCross    int
	phi       [4]float64
	x0, y0, h float64
}

// cut clips the cell (ix, iy) against phi > 0. Corner values are linearly
// interpolated along the cell edges.
func (c *cellCut) cut(g *Grid, phi LevelSet, ix, iy int) {
	c.h = g.Delta()
	c.x0, c.y0 = g.Corner(ix, iy)
	c.nPoly, c.nCross = 0, 0

	// Counter-clockwise from the lower left corner.
	corners := [4][2]float64{
		{c.x0, c.y0}, {c.x0 + c.h, c.y0},
		{c.x0 + c.h, c.y0 + c.h}, {c.x0, c.y0 + c.h},
	}
	for i := range corners {
		c.phi[i] = phi.Phi(corners[i][0], corners[i][1])
	}

	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		va, vb := c.phi[i], c.phi[j]
		if va > 0 {
			c.poly[c.nPoly] = corners[i]
			c.nPoly++
		}
		if (va > 0) != (vb > 0) {
			t := va / (va - vb)
			pt := [2]float64{
				corners[i][0] + t*(corners[j][0]-corners[i][0]),
				corners[i][1] + t*(corners[j][1]-corners[i][1]),
			}
			c.poly[c.nPoly] = pt
			c.nPoly++
			c.cross[c.nCross] = pt
			c.nCross++
		}
	}
}

// fraction returns the area of the clipped polygon relative to the cell.
func (c *cellCut) fraction() float64 {
	if c.nCross == 0 {
		if c.nPoly == 4 {
			return 1
		}
		return 0
	} else if c.nPoly < 3 {
		return 0
	}

	area := 0.0
	for i := 0; i < c.nPoly; i++ {
		j := (i + 1) % c.nPoly
		area += c.poly[i][0]*c.poly[j][1] - c.poly[j][0]*c.poly[i][1]
	}
	f := math.Abs(area) / 2 / (c.h * c.h)
	if f > 1 {
		return 1
	}
	return f
}

// Fraction writes the fraction of each cell of g occupied by the region
// phi > 0 into out. Values are clamped to [0, 1]. Cells are independent of
// one another, so the range [lo, hi) may be computed in any order.
func Fraction(g *Grid, phi LevelSet, out []float64, lo, hi int) {
	c := &cellCut{}
	for idx := lo; idx < hi; idx++ {
		ix, iy := g.Coords(idx)
		c.cut(g, phi, ix, iy)
		out[idx] = c.fraction()
	}
}

// Facets returns the interface segments of every cell whose fraction in f
// lies strictly inside (0, 1). Saddle cells contribute two segments.
func Facets(g *Grid, phi LevelSet, f []float64) []Segment {
	c := &cellCut{}
	segs := []Segment{}

	for idx := 0; idx < g.Area; idx++ {
		if f[idx] <= 0 || f[idx] >= 1 {
			continue
		}
		ix, iy := g.Coords(idx)
		c.cut(g, phi, ix, iy)

		// In a saddle cell whose first corner is inside, crossings pair up
		// around that corner: (ab, bc) belong to different regions.
		start := 0
		if c.nCross == 4 && c.phi[0] > 0 {
			start = 1
		}
		for k := 0; k+1 < c.nCross; k += 2 {
			p, q := c.cross[(start+k)%c.nCross], c.cross[(start+k+1)%c.nCross]
			segs = append(segs, Segment{p[0], p[1], q[0], q[1]})
		}
	}

	return segs
}
