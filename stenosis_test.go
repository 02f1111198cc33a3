package stenosis

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/stenosis/field"
	"github.com/phil-mansfield/stenosis/geom"
	"github.com/phil-mansfield/stenosis/io"
	"github.com/phil-mansfield/stenosis/solver"
)

// still is an integrator which never changes the fields.
type still struct {
	dt    float64
	steps int
}

func (st *still) Configure(p solver.Params) error {
	return nil
}

func (st *still) StableDt(g *geom.Grid) float64 {
	return st.dt
}

func (st *still) Step(s *field.Store, dt float64) error {
	st.steps++
	return nil
}

// leaky is an integrator which puts axial velocity into the last cell, which
// lies in the secondary phase, on every step.
type leaky struct {
	still
}

func (st *leaky) Step(s *field.Store, dt float64) error {
	s.Ux[len(s.Ux)-1] = 1
	return nil
}

// runBlocks counts the run blocks of an interface file. Every segment and
// every run terminator ends in a blank line and segments never start with a
// newline, so empty pieces between separators are run terminators.
func runBlocks(text string) int {
	empty := 0
	for _, piece := range strings.Split(text, "\n\n") {
		if piece == "" {
			empty++
		}
	}
	return empty - 1
}

func testSequence(t *testing.T, cells int, maxTime float64, res ...float64) []RunConfig {
	con := io.DefaultRunConfig()
	con.Reynolds = res
	con.Cells = cells
	con.MaxTime = maxTime
	con.Output = t.TempDir()
	require.NoError(t, con.Check())
	return NewSequence(con)
}

func newStore(t *testing.T, cfg RunConfig) *field.Store {
	g, err := geom.NewGrid(cfg.Length, cfg.Cells)
	require.NoError(t, err)
	return field.NewStore(g)
}

func TestNewSequence(t *testing.T) {
	seq := DefaultSequence()
	require.Len(t, seq, 2)
	assert.Equal(t, 100.0, seq[0].Reynolds)
	assert.Equal(t, 200.0, seq[1].Reynolds)
	assert.InDelta(t, 0.005, seq[1].Mu1, 1e-15)
	assert.Equal(t, 0.0, seq[1].Mu2)
	assert.Equal(t, 256, seq[0].Cells)
	assert.Equal(t, 256, seq[0].Samples)
	for _, cfg := range seq {
		assert.NoError(t, cfg.Validate())
	}

	bad := seq[0]
	bad.Reynolds = 0
	assert.Error(t, bad.Validate())
	assert.InDelta(t, 0.8, seq[0].Boundaries().InletPressure(), 1e-12)
}

func TestMonitorNeverStopsAtStepZero(t *testing.T) {
	g, err := geom.NewGrid(1, 4)
	require.NoError(t, err)
	s := field.NewStore(g)
	m := &Monitor{Tolerance: 1e-5}

	m.Snapshot(s)
	stop, change := m.Check(0, s)
	assert.False(t, stop)
	assert.Equal(t, 0.0, change)

	stop, _ = m.Check(1, s)
	assert.True(t, stop)

	s.Ux[3] = 1
	stop, change = m.Check(5, s)
	assert.False(t, stop)
	assert.Equal(t, 1.0, change)
	// The reference is not moved by a check.
	stop, _ = m.Check(6, s)
	assert.False(t, stop)

	m.Rolling = true
	stop, _ = m.Check(7, s)
	assert.False(t, stop)
	stop, change = m.Check(8, s)
	assert.True(t, stop)
	assert.Equal(t, 0.0, change)
}

func TestEnforce(t *testing.T) {
	g, err := geom.NewGrid(1, 8)
	require.NoError(t, err)
	s := field.NewStore(g)
	gen := rand.New(rand.NewSource(3))

	fs := []float64{0, 1, 0.5, 1e-7, 1 - 1e-7, 0.25, 1e-6, 1}
	for i := range s.F {
		s.F[i] = fs[i%len(fs)]
		s.Ux[i], s.Uy[i], s.P[i] = gen.Float64(), gen.Float64(), gen.Float64()
	}
	ux := append([]float64{}, s.Ux...)
	uy := append([]float64{}, s.Uy...)
	p := append([]float64{}, s.P...)

	Enforcer{BandTolerance: 1e-6}.Enforce(s)
	for i, f := range s.F {
		switch {
		case f == 0:
			assert.Equal(t, 0.0, s.Ux[i])
			assert.Equal(t, 0.0, s.Uy[i])
			assert.Equal(t, 0.0, s.P[i])
		case f == 1:
			assert.Equal(t, ux[i], s.Ux[i])
			assert.Equal(t, uy[i], s.Uy[i])
			assert.Equal(t, p[i], s.P[i])
		case f > 1e-6 && f < 1-1e-6:
			assert.Equal(t, 0.0, s.Ux[i], "band cell %d, f = %g", i, f)
			assert.Equal(t, 0.0, s.P[i], "band cell %d, f = %g", i, f)
		default:
			assert.Equal(t, ux[i]*f, s.Ux[i], "scaled cell %d, f = %g", i, f)
			assert.Equal(t, p[i]*f, s.P[i], "scaled cell %d, f = %g", i, f)
		}
	}
}

func TestEnforcerApplyRecomputesOccupancy(t *testing.T) {
	seq := testSequence(t, 16, 1, 100)
	s := newStore(t, seq[0])
	for i := range s.F {
		s.F[i] = 0.5
		s.Ux[i] = 1
	}

	Enforcer{BandTolerance: seq[0].BandTolerance}.Apply(&seq[0], s)
	for idx := range s.F {
		require.True(t, s.F[idx] >= 0 && s.F[idx] <= 1)
		_, y := s.Grid.Center(idx)
		if y < 0.5 {
			assert.Equal(t, 1.0, s.F[idx])
			assert.Equal(t, 1.0, s.Ux[idx])
		} else if y > 1.5 {
			assert.Equal(t, 0.0, s.F[idx])
			assert.Equal(t, 0.0, s.Ux[idx])
		}
	}
}

func TestControllerStates(t *testing.T) {
	seq := testSequence(t, 16, 3, 100)
	ctrl := NewController(newStore(t, seq[0]), &still{dt: 0.4})
	ctrl.Log = false

	assert.Equal(t, Uninitialized, ctrl.State())
	_, err := ctrl.Advance()
	assert.Error(t, err)
	_, err = ctrl.Finalize()
	assert.Error(t, err)

	require.NoError(t, ctrl.Initialize(seq[0]))
	assert.Equal(t, GeometrySet, ctrl.State())
	assert.Error(t, ctrl.Initialize(seq[0]))

	done, err := ctrl.Advance()
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, Stepping, ctrl.State())

	for !done {
		done, err = ctrl.Advance()
		require.NoError(t, err)
	}
	// Nothing moves, so the first check after step 0 stops the run.
	assert.Equal(t, Converged, ctrl.State())

	res, err := ctrl.Finalize()
	require.NoError(t, err)
	assert.Equal(t, Finalized, ctrl.State())
	assert.Equal(t, Converged, res.Terminal)
	assert.Equal(t, 1.0, res.Time)
	assert.Equal(t, 3, res.Steps)
	assert.Equal(t, 2, res.Checks)
	assert.Equal(t, "StepLimitReached", StepLimitReached.String())
}

func TestControllerGridMismatch(t *testing.T) {
	seq := testSequence(t, 16, 3, 100)
	g, err := geom.NewGrid(seq[0].Length, 8)
	require.NoError(t, err)
	ctrl := NewController(field.NewStore(g), &still{dt: 0.4})
	ctrl.Log = false
	assert.Error(t, ctrl.Initialize(seq[0]))
}

func TestStepLimit(t *testing.T) {
	seq := testSequence(t, 16, 2.5, 100)
	st := solver.NewStokes(seq[0].BandTolerance)
	ctrl := NewController(newStore(t, seq[0]), st)
	ctrl.Log = false

	res, err := ctrl.RunOne(seq[0])
	require.NoError(t, err)
	// The velocity keeps drifting from the zero initial state.
	assert.Equal(t, StepLimitReached, res.Terminal)
	assert.Equal(t, 2.5, res.Time)
	assert.Equal(t, 3, res.Checks)
	assert.True(t, res.Change > seq[0].Tolerance)
}

// A straight duct at Re = 100 has the imposed linear pressure drop along the
// centerline when it stops.
func TestStraightDuctPressure(t *testing.T) {
	seq := testSequence(t, 32, 5, 100)
	cfg := seq[0]
	cfg.SolverTolerance = 1e-10
	s := newStore(t, cfg)
	ctrl := NewController(s, solver.NewStokes(cfg.BandTolerance))
	ctrl.Log = false

	_, err := ctrl.RunOne(cfg)
	require.NoError(t, err)

	p0 := 8 * cfg.Length / cfg.Reynolds
	for ix := 0; ix < cfg.Cells; ix++ {
		idx := s.Grid.Idx(ix, 0)
		x, _ := s.Grid.Center(idx)
		assert.InDelta(t, p0*(cfg.Length-x)/cfg.Length, s.P[idx], 1e-5,
			"x = %g", x)
	}
}

func TestReferenceResetBetweenRuns(t *testing.T) {
	seq := testSequence(t, 16, 3, 100, 200)
	s := newStore(t, seq[0])
	ctrl := NewController(s, solver.NewStokes(seq[0].BandTolerance))
	ctrl.Log = false

	_, err := ctrl.RunOne(seq[0])
	require.NoError(t, err)
	moved := false
	for _, u := range s.Ux {
		moved = moved || u != 0
	}
	require.True(t, moved)

	require.NoError(t, ctrl.Initialize(seq[1]))
	assert.Equal(t, 200.0, ctrl.Config().Reynolds)
	for i := range s.Ux {
		require.Equal(t, 0.0, ctrl.Reference()[i])
		require.Equal(t, 0.0, s.Ux[i])
		require.Equal(t, 0.0, s.P[i])
	}
}

func TestOutputsAppend(t *testing.T) {
	seq := testSequence(t, 16, 2, 100, 200)
	dir := seq[0].Output
	ctrl := NewController(newStore(t, seq[0]), &still{dt: 0.5})
	ctrl.Log = false

	for sweep := 0; sweep < 2; sweep++ {
		results, err := ctrl.Run(seq)
		require.NoError(t, err)
		require.Len(t, results, 2)
	}

	for _, name := range []string{"p_final_Re_100.csv", "u_final_Re_200.csv"} {
		bs, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(string(bs), "# 1:x 2:y"), name)
	}

	bs, err := os.ReadFile(filepath.Join(dir, io.InterfaceFile))
	require.NoError(t, err)
	assert.Equal(t, 4, runBlocks(string(bs)))

	hd, fields, err := io.ReadSnapshot(filepath.Join(dir, io.SnapshotFile))
	require.NoError(t, err)
	assert.Equal(t, 200.0, hd.Reynolds)
	assert.Equal(t, int64(Converged), hd.State)
	assert.Len(t, fields["f"], 16*16)
}

func TestInterfaceBlocksWithoutFacets(t *testing.T) {
	// With one cell per unit length the duct wall lies on cell edges and
	// no cell is cut.
	seq := testSequence(t, 10, 2, 100, 200)
	dir := seq[0].Output
	ctrl := NewController(newStore(t, seq[0]), &still{dt: 0.5})
	ctrl.Log = false

	_, err := ctrl.Run(seq)
	require.NoError(t, err)

	bs, err := os.ReadFile(filepath.Join(dir, io.InterfaceFile))
	require.NoError(t, err)
	assert.Equal(t, "\n\n\n\n", string(bs))
	assert.Equal(t, 2, runBlocks(string(bs)))

	assert.Equal(t, 1, runBlocks("0 1\n1 1\n\n\n\n"))
	assert.Equal(t, 3, runBlocks("0 1\n1 1\n\n\n\n\n\n0 1\n1 1\n\n1 1\n2 1\n\n\n\n"))
}

func TestCheckBeforeEnforce(t *testing.T) {
	seq := testSequence(t, 16, 2, 100)
	s := newStore(t, seq[0])
	ctrl := NewController(s, &leaky{still{dt: 0.5}})
	ctrl.Log = false

	res, err := ctrl.RunOne(seq[0])
	require.NoError(t, err)

	// The leaked velocity is measured before the wall removes it.
	require.Equal(t, 0.0, s.F[len(s.F)-1])
	assert.Equal(t, StepLimitReached, res.Terminal)
	assert.Equal(t, 1.0, res.Change)
	assert.Equal(t, 0.0, s.Ux[len(s.Ux)-1])
}

// broken is an integrator whose steps always fail.
type broken struct {
	still
}

func (st *broken) Step(s *field.Store, dt float64) error {
	return errors.New("step failed")
}

func TestRunStopsAtFirstError(t *testing.T) {
	seq := testSequence(t, 16, 2, 100, 200)
	ctrl := NewController(newStore(t, seq[0]), &broken{still{dt: 0.5}})
	ctrl.Log = false

	results, err := ctrl.Run(seq)
	assert.Error(t, err)
	assert.Len(t, results, 0)
	assert.Equal(t, Stepping, ctrl.State())
	assert.Error(t, ctrl.Initialize(seq[1]))
}
