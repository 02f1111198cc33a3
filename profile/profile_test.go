package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/stenosis/geom"
	"github.com/phil-mansfield/stenosis/io"
)

func TestSplit(t *testing.T) {
	xs := []float64{1, 1, 3, 3, 1, 1, 3, 3}
	ys := []float64{1, 3, 1, 3, 1, 3, 1, 3}
	vs := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	blocks, err := Split(xs, ys, vs)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, []float64{5, 6, 7, 8}, Last(blocks).V)

	_, err = Split(xs, ys, vs[1:])
	assert.Error(t, err)
	_, err = Split(nil, nil, nil)
	assert.Error(t, err)
}

func TestCenterlineAndRadial(t *testing.T) {
	s := &Samples{
		X: []float64{1, 1, 1, 3, 3, 3},
		Y: []float64{0.5, 1.5, 2.5, 0.5, 1.5, 2.5},
		V: []float64{1, 2, 3, 4, 5, 6},
	}

	xs, vs := s.Centerline()
	assert.Equal(t, []float64{1, 3}, xs)
	assert.Equal(t, []float64{1, 4}, vs)

	ys, vs := s.Radial(2.5)
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, ys)
	assert.InDeltaSlice(t, []float64{3.25, 4.25, 5.25}, vs, 1e-12)

	_, vs = s.Radial(3)
	assert.InDeltaSlice(t, []float64{4, 5, 6}, vs, 1e-12)
}

func TestPoiseuille(t *testing.T) {
	assert.InDelta(t, 0.8, PoiseuillePressure(0, 100, 10), 1e-12)
	assert.InDelta(t, 0, PoiseuillePressure(10, 100, 10), 1e-12)
	assert.InDelta(t, 2, PoiseuilleVelocity(0, 1), 1e-12)
	assert.InDelta(t, 0, PoiseuilleVelocity(1, 1), 1e-12)
	assert.Equal(t, 0.0, PoiseuilleVelocity(1.5, 1))
	assert.InDelta(t, 8, PoiseuilleVelocity(0, 2), 1e-12)
	assert.InDelta(t, 6, PoiseuilleVelocity(1, 2), 1e-12)
	assert.InDelta(t, 0.5, PoiseuilleFlowRate(1), 1e-12)
	assert.InDelta(t, 8, PoiseuilleFlowRate(2), 1e-12)

	n := 2001
	rs, us := make([]float64, n), make([]float64, n)
	for i := range rs {
		rs[i] = float64(i) / float64(n-1)
		us[i] = PoiseuilleVelocity(rs[i], 1)
	}
	assert.InDelta(t, 0.5, FlowRate(rs, us), 1e-6)

	for i := range rs {
		rs[i] *= 2
		us[i] = PoiseuilleVelocity(rs[i], 2)
	}
	assert.InDelta(t, PoiseuilleFlowRate(2), FlowRate(rs, us), 1e-4)
}

func TestReadFieldBlocks(t *testing.T) {
	g, err := geom.NewGrid(4, 4)
	require.NoError(t, err)
	ps := make([]float64, g.Area)
	for idx := range ps {
		x, y := g.Center(idx)
		ps[idx] = 2*x + 3*y
	}

	file := filepath.Join(t.TempDir(), io.FieldFileName("", "p", 100))
	require.NoError(t, io.AppendField(file, g, 4, []string{"p"}, ps))
	for idx := range ps {
		ps[idx] += 10
	}
	require.NoError(t, io.AppendField(file, g, 4, []string{"p"}, ps))

	blocks, err := ReadField(file)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	for _, b := range blocks {
		assert.Len(t, b.X, 16)
		assert.Len(t, b.V, 16)
	}

	xs, vs := blocks[0].Centerline()
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, xs)
	assert.InDeltaSlice(t, []float64{2.5, 4.5, 6.5, 8.5}, vs, 1e-12)

	xs, vs = Last(blocks).Centerline()
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, xs)
	assert.InDeltaSlice(t, []float64{12.5, 14.5, 16.5, 18.5}, vs, 1e-12)

	rs, us := Last(blocks).Radial(1)
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, rs)
	assert.InDeltaSlice(t, []float64{13.5, 16.5, 19.5, 22.5}, us, 1e-12)
}

func TestPressureGradient(t *testing.T) {
	xs := []float64{0.5, 1.5, 2.5, 3.5}
	ps := make([]float64, len(xs))
	for i := range xs {
		ps[i] = PoiseuillePressure(xs[i], 200, 4)
	}
	assert.InDelta(t, -8.0/200, PressureGradient(xs, ps), 1e-12)
	assert.InDelta(t, 0, MaxDeviation(xs, ps, func(x float64) float64 {
		return PoiseuillePressure(x, 200, 4)
	}), 1e-12)
}
