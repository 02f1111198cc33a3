/*
Package stenosis drives a pseudo-time integrator to the steady pressure
driven flow through an axisymmetric duct with an optional smooth stenosis.

A run sequence is a list of RunConfigs which share a grid and differ only in
their Reynolds number. A Controller steps each run until the axial velocity
stops changing or the pseudo-time limit is reached, enforcing the stenosis
wall after every step, and writes the interface, the final fields and a
snapshot of the last run.
*/
package stenosis

import (
	"fmt"

	"github.com/phil-mansfield/stenosis/bc"
	"github.com/phil-mansfield/stenosis/geom"
	"github.com/phil-mansfield/stenosis/io"
	"github.com/phil-mansfield/stenosis/solver"
)

// RunConfig is the configuration of a single run. It is passed by value and
// never changes during the run.
type RunConfig struct {
	Reynolds float64
	// Densities and viscosities of the primary and secondary phases. Mu1 is
	// 1 / Reynolds.
	Rho1, Mu1, Rho2, Mu2 float64

	Length float64
	Cells  int
	Radius float64

	// Depth and axial center of the stenosis.
	Depth, Center float64

	MaxTime, CheckInterval float64
	// Tolerance is the convergence threshold on the change in Ux.
	Tolerance       float64
	BandTolerance   float64
	SolverTolerance float64
	// Rolling makes every convergence check compare against the previous
	// check rather than against the state at initialization.
	Rolling bool

	Samples int
	Output  string
}

// NewSequence returns one RunConfig per Reynolds number of con, in order.
func NewSequence(con *io.RunConfig) []RunConfig {
	seq := make([]RunConfig, len(con.Reynolds))
	for i, re := range con.Reynolds {
		seq[i] = RunConfig{
			Reynolds: re,
			Rho1:     con.PrimaryDensity,
			Mu1:      1 / re,
			Rho2:     con.SecondaryDensity,
			Mu2:      con.SecondaryViscosity,

			Length: con.Length,
			Cells:  con.Cells,
			Radius: con.DuctRadius,

			Depth:  con.Depth,
			Center: con.Center,

			MaxTime:         con.MaxTime,
			CheckInterval:   con.CheckInterval,
			Tolerance:       con.Tolerance,
			BandTolerance:   con.BandTolerance,
			SolverTolerance: con.SolverTolerance,
			Rolling:         con.RollingReference,

			Samples: con.Samples(),
			Output:  con.Output,
		}
	}
	return seq
}

// DefaultSequence is the Reynolds 100 then 200 sweep through a straight
// duct.
func DefaultSequence() []RunConfig {
	return NewSequence(io.DefaultRunConfig())
}

// Validate returns an error if cfg cannot be run.
func (cfg *RunConfig) Validate() error {
	switch {
	case cfg.Reynolds <= 0:
		return fmt.Errorf("Reynolds number must be positive, but is %g.", cfg.Reynolds)
	case cfg.Length <= 0 || cfg.Cells <= 1:
		return fmt.Errorf(
			"Invalid grid of %d cells over length %g.", cfg.Cells, cfg.Length,
		)
	case cfg.MaxTime <= 0 || cfg.CheckInterval <= 0:
		return fmt.Errorf(
			"MaxTime and CheckInterval must be positive, but are %g and %g.",
			cfg.MaxTime, cfg.CheckInterval,
		)
	case cfg.Tolerance <= 0:
		return fmt.Errorf("Tolerance must be positive, but is %g.", cfg.Tolerance)
	case cfg.BandTolerance < 0 || cfg.BandTolerance >= 0.5:
		return fmt.Errorf(
			"BandTolerance must be in range [0, 0.5), but is %g.",
			cfg.BandTolerance,
		)
	case cfg.Samples <= 0:
		return fmt.Errorf("Samples must be positive, but is %d.", cfg.Samples)
	}
	return nil
}

// Stenosis returns the level set of the primary phase.
func (cfg *RunConfig) Stenosis() geom.Stenosis {
	return geom.Stenosis{Depth: cfg.Depth, Center: cfg.Center}
}

// Boundaries returns the boundary conditions of the run.
func (cfg *RunConfig) Boundaries() bc.Duct {
	return bc.Duct{Reynolds: cfg.Reynolds, Length: cfg.Length, Radius: cfg.Radius}
}

// Params returns the integrator parameters of the run.
func (cfg *RunConfig) Params() solver.Params {
	return solver.Params{
		Rho1: cfg.Rho1, Mu1: cfg.Mu1, Rho2: cfg.Rho2, Mu2: cfg.Mu2,
		BC:        cfg.Boundaries(),
		Tolerance: cfg.SolverTolerance,
	}
}
