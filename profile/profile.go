/*
Package profile reads the sampled field files written by a run sequence back
in and compares them against the analytic Poiseuille solution.
*/
package profile

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/table"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/stenosis/math/interpolate"
)

// Samples is one block of a sampled field file.
type Samples struct {
	X, Y, V []float64
}

// ReadField reads every block of a file written by io.AppendField. Blocks
// are returned in file order.
func ReadField(file string) ([]*Samples, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}
	return Split(cols[0], cols[1], cols[2])
}

// Split separates samples into blocks. Within a block x never decreases, so
// a decrease in x marks the start of the next block.
func Split(xs, ys, vs []float64) ([]*Samples, error) {
	if len(xs) != len(ys) || len(xs) != len(vs) {
		return nil, fmt.Errorf(
			"Column lengths %d, %d, and %d are not equal.",
			len(xs), len(ys), len(vs),
		)
	} else if len(xs) == 0 {
		return nil, fmt.Errorf("No samples were given.")
	}

	blocks := []*Samples{}
	start := 0
	for i := 1; i <= len(xs); i++ {
		if i == len(xs) || xs[i] < xs[i-1] {
			blocks = append(blocks, &Samples{
				X: xs[start:i], Y: ys[start:i], V: vs[start:i],
			})
			start = i
		}
	}
	return blocks, nil
}

// Last returns the final block of a file.
func Last(blocks []*Samples) *Samples {
	return blocks[len(blocks)-1]
}

// Centerline returns the samples closest to the axis, ordered by x.
func (s *Samples) Centerline() (xs, vs []float64) {
	minY := math.Inf(+1)
	for _, y := range s.Y {
		minY = math.Min(minY, y)
	}
	return s.line(s.X, s.Y, minY)
}

// Radial returns the samples along the radius at axial position x, ordered
// by y. Each row is linearly interpolated along x.
func (s *Samples) Radial(x float64) (ys, vs []float64) {
	seen := map[float64]bool{}
	for _, y := range s.Y {
		if !seen[y] {
			seen[y] = true
			ys = append(ys, y)
		}
	}
	sort.Float64s(ys)

	vs = make([]float64, len(ys))
	for i, y := range ys {
		xs, row := s.line(s.X, s.Y, y)
		if len(xs) == 1 {
			vs[i] = row[0]
			continue
		}
		vs[i] = interpolate.NewLinear(xs, row).Eval(x)
	}
	return ys, vs
}

// line returns the (pos, v) pairs whose fixed coordinate equals at, sorted by
// pos.
func (s *Samples) line(pos, fixed []float64, at float64) (ps, vs []float64) {
	idxs := []int{}
	for i := range fixed {
		if fixed[i] == at {
			idxs = append(idxs, i)
		}
	}
	sort.Slice(idxs, func(a, b int) bool { return pos[idxs[a]] < pos[idxs[b]] })

	ps, vs = make([]float64, len(idxs)), make([]float64, len(idxs))
	for i, idx := range idxs {
		ps[i], vs[i] = pos[idx], s.V[idx]
	}
	return ps, vs
}

///////////////////////
// Analytic profiles //
///////////////////////

// PoiseuillePressure is the pressure at x of the fully developed flow driven
// by an inlet pressure of 8 L / Re and an outlet pressure of zero.
func PoiseuillePressure(x, reynolds, length float64) float64 {
	return 8 * (length - x) / reynolds
}

// PoiseuilleVelocity is the axial velocity at radius r of the fully developed
// flow driven by the pressure gradient 8 / Re in a duct of the given radius.
func PoiseuilleVelocity(r, radius float64) float64 {
	if r > radius {
		return 0
	}
	return 2 * (radius*radius - r*r)
}

// PoiseuilleFlowRate is the integral of PoiseuilleVelocity(r, radius) r dr
// over the duct.
func PoiseuilleFlowRate(radius float64) float64 {
	r2 := radius * radius
	return r2 * r2 / 2
}

// FlowRate returns the integral of u r dr over the sampled radii.
func FlowRate(rs, us []float64) float64 {
	f := make([]float64, len(rs))
	for i := range f {
		f[i] = us[i] * rs[i]
	}
	return integrate.Trapezoidal(rs, f)
}

// PressureGradient returns the least squares slope of ps against xs.
func PressureGradient(xs, ps []float64) float64 {
	_, beta := stat.LinearRegression(xs, ps, nil, false)
	return beta
}

// MaxDeviation returns the largest absolute difference between vs and the
// function ref evaluated at xs.
func MaxDeviation(xs, vs []float64, ref func(x float64) float64) float64 {
	max := 0.0
	for i := range xs {
		max = math.Max(max, math.Abs(vs[i]-ref(xs[i])))
	}
	return max
}
