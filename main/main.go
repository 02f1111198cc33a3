package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/stenosis"
	"github.com/phil-mansfield/stenosis/field"
	"github.com/phil-mansfield/stenosis/geom"
	"github.com/phil-mansfield/stenosis/io"
	"github.com/phil-mansfield/stenosis/profile"
	"github.com/phil-mansfield/stenosis/solver"
)

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		run, plot     string
		exampleConfig string
		threads       int
	)
	vars := map[string]*string{
		"Run":           &run,
		"Plot":          &plot,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&run, "Run", "",
		"Configuration file for [Run] mode. With no flags, the default "+
			"Reynolds 100 then 200 sweep is run in the current directory.",
	)
	flag.StringVar(
		&plot, "Plot", "",
		"Configuration file of a finished [Run]. Plots its final fields.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. The only accepted argument is 'Run'.",
	)
	flag.IntVar(
		&threads, "Threads", runtime.NumCPU(),
		"Number of worker goroutines used for cell-wise field operations.",
	)

	flag.Parse()

	if threads <= 0 {
		log.Fatal("'Threads' must be positive.")
	}
	runtime.GOMAXPROCS(threads)
	field.NumCores = threads

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Default":
		runMain(io.DefaultRunConfig())
	case "Run":
		con, err := io.ReadRunConfig(run)
		if err != nil {
			log.Fatal(err.Error())
		}
		runMain(con)
	case "Plot":
		con, err := io.ReadRunConfig(plot)
		if err != nil {
			log.Fatal(err.Error())
		}
		plotMain(con)
	case "ExampleConfig":
		switch exampleConfig {
		case "Run":
			fmt.Println(io.ExampleRunFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Run'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "Default", nil
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but stenosis "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func openFileGroup(con *io.RunConfig) *FileGroup {
	fg := &FileGroup{}
	var err error

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}

func runMain(con *io.RunConfig) {
	fg := openFileGroup(con)
	defer fg.Close()

	log.Println("Running Run main.")

	seq := stenosis.NewSequence(con)
	g, err := geom.NewGrid(con.Length, con.Cells)
	if err != nil {
		log.Fatal(err.Error())
	}
	s := field.NewStore(g)
	ctrl := stenosis.NewController(s, solver.NewStokes(con.BandTolerance))

	results, err := ctrl.Run(seq)
	if err != nil {
		log.Fatal(err.Error())
	}
	for _, res := range results {
		log.Printf(
			"Re = %g: %s at t = %g after %d steps.",
			res.Reynolds, res.Terminal, res.Time, res.Steps,
		)
	}
}

func plotMain(con *io.RunConfig) {
	fg := openFileGroup(con)
	defer fg.Close()

	log.Println("Running Plot main.")

	runs := make([]profile.Run, len(con.Reynolds))
	for i, re := range con.Reynolds {
		ps, err := profile.ReadField(io.FieldFileName(con.Output, "p", re))
		if err != nil {
			log.Fatal(err.Error())
		}
		us, err := profile.ReadField(io.FieldFileName(con.Output, "u", re))
		if err != nil {
			log.Fatal(err.Error())
		}
		runs[i] = profile.Run{
			Reynolds: re, Pressure: profile.Last(ps), Velocity: profile.Last(us),
		}

		xs, pc := runs[i].Pressure.Centerline()
		rs, ur := runs[i].Velocity.Radial(0.75 * con.Length)
		log.Printf(
			"Re = %g: centerline pressure gradient %g (expected %g), "+
				"flow rate %g (expected %g).", re,
			profile.PressureGradient(xs, pc), -8/re,
			profile.FlowRate(rs, ur), profile.PoiseuilleFlowRate(con.DuctRadius),
		)
	}

	profile.PlotCenterlinePressure(
		filepath.Join(con.Output, "centerline_pressure.png"), con.Length, runs,
	)
	profile.PlotRadialVelocity(
		filepath.Join(con.Output, "radial_velocity.png"),
		0.75*con.Length, con.DuctRadius, runs,
	)
	plt.Execute()
}
