package interpolate

import (
	"math"
	"sort"
)

// searcher finds the interval of a sorted sequence of points which contains
// a value.
type searcher struct {
	xs         []float64
	x0, dx     float64
	n          int
	unif, decr bool
}

func (s *searcher) init(xs []float64) {
	if len(xs) < 2 {
		panic("Interpolation requires at least two points.")
	}
	s.xs = xs
	s.n = len(xs)
	s.unif = false
	s.decr = xs[0] > xs[len(xs)-1]
}

func (s *searcher) unifInit(x0, dx float64, n int) {
	if n < 2 {
		panic("Interpolation requires at least two points.")
	}
	s.x0, s.dx, s.n = x0, dx, n
	s.unif = true
	s.decr = dx < 0
}

// val returns the ith point.
func (s *searcher) val(i int) float64 {
	if s.unif {
		return s.x0 + s.dx*float64(i)
	}
	return s.xs[i]
}

// search returns the index i such that x lies between val(i) and val(i+1).
// Values outside the range are assigned to the first or last interval, so
// evaluating there extrapolates linearly.
func (s *searcher) search(x float64) int {
	var i int
	if s.unif {
		i = int(math.Floor((x - s.x0) / s.dx))
	} else if s.decr {
		i = sort.Search(s.n, func(j int) bool { return s.xs[j] < x }) - 1
	} else {
		i = sort.Search(s.n, func(j int) bool { return s.xs[j] > x }) - 1
	}

	if i < 0 {
		return 0
	} else if i > s.n-2 {
		return s.n - 2
	}
	return i
}
