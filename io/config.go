package io

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

const (
	ExampleRunFile = `[Run]

#######################
# Required Parameters #
#######################

# Directory which output files will be written to.
Output = path/to/output/dir

#######################
# Optional Parameters #
#######################

# The Reynolds numbers of the sweep, in the order they are run. Each value is
# one run. The primary phase viscosity of a run is 1 / Reynolds. Defaults to
# 100 followed by 200.
# Reynolds = 100
# Reynolds = 200

# Side length of the square domain and the number of cells along each side.
# The duct has radius DuctRadius and runs along the bottom edge of the
# domain, which is the symmetry axis.
# Length = 10
# Cells = 256
# DuctRadius = 1

# Depth and axial center of the stenosis. A depth of zero gives a straight
# duct.
# Depth = 0
# Center = 2.5

# Each run steps until the change in the axial velocity drops below
# Tolerance or until MaxTime pseudo-time units have passed. The change is
# checked every CheckInterval pseudo-time units. With RollingReference set,
# each check compares against the previous check instead of against the
# state at the start of the run.
# MaxTime = 200
# CheckInterval = 1
# Tolerance = 1e-5
# RollingReference = false

# Occupancy values within BandTolerance of 0 or 1 count as a pure phase.
# BandTolerance = 1e-6
# Relative residual of the pressure solve.
# SolverTolerance = 1e-6

# Density of the primary phase, and density and viscosity of the secondary
# (obstruction) phase.
# PrimaryDensity = 1
# SecondaryDensity = 1
# SecondaryViscosity = 0

# Number of samples along each side of the regular grid the final fields are
# interpolated onto. Defaults to Cells.
# SampleCells = 256

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`
)

type SharedConfig struct {
	// Required
	Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

type RunConfig struct {
	SharedConfig

	// Optional
	Reynolds               []float64
	Length, DuctRadius     float64
	Cells, SampleCells     int
	Depth, Center          float64
	MaxTime, CheckInterval float64
	Tolerance              float64
	RollingReference       bool
	BandTolerance          float64
	SolverTolerance        float64
	PrimaryDensity         float64
	SecondaryDensity       float64
	SecondaryViscosity     float64
}

type RunWrapper struct {
	Run RunConfig
}

// DefaultReynolds is the sweep used when a file lists no Reynolds numbers.
var DefaultReynolds = []float64{100, 200}

// DefaultRunWrapper returns a wrapper holding the default options. Reading a
// file into it only overrides the options the file sets. Reynolds is left
// empty because gcfg appends multi-valued variables.
func DefaultRunWrapper() *RunWrapper {
	con := RunConfig{}
	con.Output = "."
	con.Length = 10
	con.DuctRadius = 1
	con.Cells = 256
	con.Depth = 0
	con.Center = 2.5
	con.MaxTime = 200
	con.CheckInterval = 1
	con.Tolerance = 1e-5
	con.BandTolerance = 1e-6
	con.SolverTolerance = 1e-6
	con.PrimaryDensity = 1
	con.SecondaryDensity = 1
	con.SecondaryViscosity = 0
	return &RunWrapper{con}
}

func (con *RunConfig) ValidReynolds() bool {
	if len(con.Reynolds) == 0 {
		return false
	}
	for _, re := range con.Reynolds {
		if re <= 0 {
			return false
		}
	}
	return true
}
func (con *RunConfig) ValidLength() bool {
	return con.Length > 0
}
func (con *RunConfig) ValidDuctRadius() bool {
	return con.DuctRadius > 0 && con.DuctRadius <= con.Length
}
func (con *RunConfig) ValidCells() bool {
	return con.Cells > 1
}
func (con *RunConfig) ValidSampleCells() bool {
	return con.SampleCells >= 0
}
func (con *RunConfig) ValidDepth() bool {
	return con.Depth >= 0
}
func (con *RunConfig) ValidCenter() bool {
	return con.Center >= 0 && con.Center <= con.Length
}
func (con *RunConfig) ValidMaxTime() bool {
	return con.MaxTime > 0
}
func (con *RunConfig) ValidCheckInterval() bool {
	return con.CheckInterval > 0
}
func (con *RunConfig) ValidTolerance() bool {
	return con.Tolerance > 0
}
func (con *RunConfig) ValidBandTolerance() bool {
	return con.BandTolerance >= 0 && con.BandTolerance < 0.5
}
func (con *RunConfig) ValidSolverTolerance() bool {
	return con.SolverTolerance > 0
}
func (con *RunConfig) ValidDensities() bool {
	return con.PrimaryDensity > 0 && con.SecondaryDensity > 0
}
func (con *RunConfig) ValidSecondaryViscosity() bool {
	return con.SecondaryViscosity >= 0
}

// Samples returns the number of samples along each side of the output grid.
func (con *RunConfig) Samples() int {
	if con.SampleCells == 0 {
		return con.Cells
	}
	return con.SampleCells
}

// Check returns an error describing the first invalid option of con.
func (con *RunConfig) Check() error {
	switch {
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidReynolds():
		return fmt.Errorf(
			"Invalid/non-existent 'Reynolds' values, %v. Every value must "+
				"be positive.", con.Reynolds,
		)
	case !con.ValidLength():
		return fmt.Errorf("Invalid 'Length' value, %g.", con.Length)
	case !con.ValidDuctRadius():
		return fmt.Errorf(
			"'DuctRadius' must be in range (0, %g], but is %g.",
			con.Length, con.DuctRadius,
		)
	case !con.ValidCells():
		return fmt.Errorf("Invalid 'Cells' value, %d.", con.Cells)
	case !con.ValidSampleCells():
		return fmt.Errorf("Invalid 'SampleCells' value, %d.", con.SampleCells)
	case !con.ValidDepth():
		return fmt.Errorf("Invalid 'Depth' value, %g.", con.Depth)
	case !con.ValidCenter():
		return fmt.Errorf(
			"'Center' must be in range [0, %g], but is %g.",
			con.Length, con.Center,
		)
	case !con.ValidMaxTime():
		return fmt.Errorf("Invalid 'MaxTime' value, %g.", con.MaxTime)
	case !con.ValidCheckInterval():
		return fmt.Errorf(
			"Invalid 'CheckInterval' value, %g.", con.CheckInterval,
		)
	case !con.ValidTolerance():
		return fmt.Errorf("Invalid 'Tolerance' value, %g.", con.Tolerance)
	case !con.ValidBandTolerance():
		return fmt.Errorf(
			"'BandTolerance' must be in range [0, 0.5), but is %g.",
			con.BandTolerance,
		)
	case !con.ValidSolverTolerance():
		return fmt.Errorf(
			"Invalid 'SolverTolerance' value, %g.", con.SolverTolerance,
		)
	case !con.ValidDensities():
		return fmt.Errorf(
			"Phase densities must be positive, but are %g and %g.",
			con.PrimaryDensity, con.SecondaryDensity,
		)
	case !con.ValidSecondaryViscosity():
		return fmt.Errorf(
			"Invalid 'SecondaryViscosity' value, %g.", con.SecondaryViscosity,
		)
	}
	return nil
}

// DefaultRunConfig returns the configuration of the default sweep.
func DefaultRunConfig() *RunConfig {
	wrap := DefaultRunWrapper()
	wrap.Run.Reynolds = append([]float64{}, DefaultReynolds...)
	return &wrap.Run
}

// ReadRunConfig reads and checks the [Run] section of fname.
func ReadRunConfig(fname string) (*RunConfig, error) {
	wrap := DefaultRunWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if len(wrap.Run.Reynolds) == 0 {
		wrap.Run.Reynolds = append([]float64{}, DefaultReynolds...)
	}
	if err := wrap.Run.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return &wrap.Run, nil
}
