package stenosis

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/phil-mansfield/stenosis/field"
	"github.com/phil-mansfield/stenosis/geom"
	"github.com/phil-mansfield/stenosis/io"
	"github.com/phil-mansfield/stenosis/solver"
)

// State is the stage a run has reached.
type State uint8

const (
	Uninitialized State = iota
	GeometrySet
	Stepping
	Converged
	StepLimitReached
	Finalized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case GeometrySet:
		return "GeometrySet"
	case Stepping:
		return "Stepping"
	case Converged:
		return "Converged"
	case StepLimitReached:
		return "StepLimitReached"
	case Finalized:
		return "Finalized"
	}
	return "Unknown"
}

// Result summarizes a finished run.
type Result struct {
	Reynolds float64
	// Terminal is either Converged or StepLimitReached.
	Terminal State
	Steps    int
	Time     float64
	// Checks is the number of convergence checks and Change the value
	// measured by the last one.
	Checks int
	Change float64
}

// Controller runs configurations one at a time over a single field store.
type Controller struct {
	Store      *field.Store
	Integrator solver.Integrator
	// Log turns on progress lines.
	Log bool

	state    State
	cfg      RunConfig
	enforcer Enforcer
	monitor  Monitor
	dt       float64
	res      Result
}

// NewController returns a controller which steps s with integ.
func NewController(s *field.Store, integ solver.Integrator) *Controller {
	return &Controller{Store: s, Integrator: integ, Log: true}
}

// State returns the state of the current run.
func (c *Controller) State() State { return c.state }

// Config returns the configuration of the current run.
func (c *Controller) Config() RunConfig { return c.cfg }

// Reference returns the reference velocity of the current run.
func (c *Controller) Reference() []float64 {
	return c.monitor.Reference(c.Store)
}

// Initialize resets the fields, sets the geometry of cfg, appends its
// interface to the shared interface file and takes the reference snapshot.
func (c *Controller) Initialize(cfg RunConfig) error {
	if c.state != Uninitialized && c.state != Finalized {
		return fmt.Errorf("Cannot initialize a run in state %s.", c.state)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g := c.Store.Grid
	if cfg.Cells != g.Cells() || cfg.Length != g.Length {
		return fmt.Errorf(
			"Run has %d cells over length %g, but the fields have %d cells "+
				"over length %g.", cfg.Cells, cfg.Length, g.Cells(), g.Length,
		)
	}
	if err := c.Integrator.Configure(cfg.Params()); err != nil {
		return err
	}

	c.cfg = cfg
	c.enforcer = Enforcer{BandTolerance: cfg.BandTolerance}
	c.monitor = Monitor{Tolerance: cfg.Tolerance, Rolling: cfg.Rolling}
	c.dt = c.Integrator.StableDt(g)
	c.res = Result{Reynolds: cfg.Reynolds}

	c.Store.Reset()
	phi := cfg.Stenosis()
	field.Map(g.Area, func(lo, hi int) {
		geom.Fraction(g, phi, c.Store.F, lo, hi)
	})

	if err := os.MkdirAll(cfg.Output, 0777); err != nil {
		return err
	}
	segs := geom.Facets(g, phi, c.Store.F)
	if err := io.AppendFacets(filepath.Join(cfg.Output, io.InterfaceFile), segs); err != nil {
		return err
	}

	c.monitor.Snapshot(c.Store)
	c.state = GeometrySet

	if c.Log {
		log.Printf(
			"Run Re = %g: mu = %g, depth = %g, %d interface segments.",
			cfg.Reynolds, cfg.Mu1, cfg.Depth, len(segs),
		)
	}
	return nil
}

// Advance performs one iteration of the step loop: check for convergence if
// a check is due, enforce the wall, stop at the step limit, and otherwise
// take one integrator step. It returns true once the run has reached a
// terminal state.
func (c *Controller) Advance() (done bool, err error) {
	switch c.state {
	case GeometrySet:
		c.state = Stepping
	case Stepping:
	default:
		return false, fmt.Errorf("Cannot advance a run in state %s.", c.state)
	}

	// The check sees the fields the integrator produced, before the wall is
	// enforced on them.
	if c.res.Time >= c.nextCheck() {
		stop, change := c.monitor.Check(c.res.Steps, c.Store)
		c.res.Checks++
		c.res.Change = change
		if c.Log {
			log.Printf(" t = %g", c.res.Time)
		}
		if stop {
			c.state = Converged
			c.res.Terminal = Converged
			return true, nil
		}
	}

	c.enforcer.Apply(&c.cfg, c.Store)

	if c.res.Time >= c.cfg.MaxTime {
		c.state = StepLimitReached
		c.res.Terminal = StepLimitReached
		return true, nil
	}

	// Steps are clipped so that checks and the step limit land exactly on
	// their times.
	target := math.Min(c.nextCheck(), c.cfg.MaxTime)
	dt, t := c.dt, c.res.Time+c.dt
	if t >= target*(1-1e-12) {
		dt, t = target-c.res.Time, target
	}
	if err := c.Integrator.Step(c.Store, dt); err != nil {
		return false, err
	}
	c.res.Steps++
	c.res.Time = t

	return false, nil
}

// nextCheck returns the time of the next convergence check.
func (c *Controller) nextCheck() float64 {
	return float64(c.res.Checks) * c.cfg.CheckInterval
}

// Finalize writes the final pressure and axial velocity of a terminated run
// and overwrites the snapshot file.
func (c *Controller) Finalize() (Result, error) {
	if c.state != Converged && c.state != StepLimitReached {
		return Result{}, fmt.Errorf("Cannot finalize a run in state %s.", c.state)
	}
	cfg, s := &c.cfg, c.Store

	pFile := io.FieldFileName(cfg.Output, "p", cfg.Reynolds)
	if err := io.AppendField(
		pFile, s.Grid, cfg.Samples, []string{"p"}, s.P,
	); err != nil {
		return Result{}, err
	}
	uFile := io.FieldFileName(cfg.Output, "u", cfg.Reynolds)
	if err := io.AppendField(
		uFile, s.Grid, cfg.Samples, []string{"u.x"}, s.Ux,
	); err != nil {
		return Result{}, err
	}

	hd := &io.SnapshotHeader{
		Length: cfg.Length, Reynolds: cfg.Reynolds,
		Time: c.res.Time, Steps: int64(c.res.Steps),
		State: int64(c.res.Terminal),
	}
	snapFile := filepath.Join(cfg.Output, io.SnapshotFile)
	if err := io.WriteSnapshot(snapFile, hd, s); err != nil {
		return Result{}, err
	}

	c.state = Finalized
	if c.Log {
		log.Printf(
			"Run Re = %g finished as %s after %d steps (t = %g, change = %g).",
			cfg.Reynolds, c.res.Terminal, c.res.Steps, c.res.Time, c.res.Change,
		)
		log.Printf("Wrote %s, %s and %s.", pFile, uFile, snapFile)
	}
	return c.res, nil
}

// RunOne initializes, steps and finalizes a single run.
func (c *Controller) RunOne(cfg RunConfig) (Result, error) {
	if err := c.Initialize(cfg); err != nil {
		return Result{}, err
	}
	for {
		done, err := c.Advance()
		if err != nil {
			return Result{}, err
		} else if done {
			break
		}
	}
	return c.Finalize()
}

// Run executes every configuration of seq in order and stops at the first
// error. A run which fails part way is left in its current state, so the
// controller cannot be reused after an error.
func (c *Controller) Run(seq []RunConfig) ([]Result, error) {
	results := make([]Result, 0, len(seq))
	for _, cfg := range seq {
		res, err := c.RunOne(cfg)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
