package profile

import (
	"fmt"

	plt "github.com/phil-mansfield/pyplot"
)

var colors = []string{"r", "b", "g", "m", "c", "y"}

// Run is the final state of one run read back from its output files.
type Run struct {
	Reynolds float64
	Pressure *Samples
	Velocity *Samples
}

// PlotCenterlinePressure queues a figure of the centerline pressure of each
// run against the imposed linear drop. The figure is drawn when
// plt.Execute is called.
func PlotCenterlinePressure(fname string, length float64, runs []Run) {
	plt.Figure()
	for i, run := range runs {
		c := colors[i%len(colors)]
		xs, ps := run.Pressure.Centerline()
		refs := make([]float64, len(xs))
		for j := range xs {
			refs[j] = PoiseuillePressure(xs[j], run.Reynolds, length)
		}
		plt.Plot(xs, ps, plt.LW(3), plt.C(c))
		plt.Plot(xs, refs, "--k", plt.LW(1))
	}

	plt.Title("Centerline pressure")
	plt.XLabel(`$x$`, plt.FontSize(16))
	plt.YLabel(`$p$`, plt.FontSize(16))
	plt.XLim(0, length)
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

// PlotRadialVelocity queues a figure of the axial velocity across the duct
// at x for each run against the Poiseuille profile.
func PlotRadialVelocity(fname string, x, radius float64, runs []Run) {
	plt.Figure()
	for i, run := range runs {
		c := colors[i%len(colors)]
		rs, us := run.Velocity.Radial(x)
		plt.Plot(rs, us, plt.LW(3), plt.C(c))
	}

	n := 100
	rs, us := make([]float64, n), make([]float64, n)
	for i := range rs {
		rs[i] = radius * float64(i) / float64(n-1)
		us[i] = PoiseuilleVelocity(rs[i], radius)
	}
	plt.Plot(rs, us, "--k", plt.LW(1))

	plt.Title(fmt.Sprintf("Axial velocity at $x = %g$", x))
	plt.XLabel(`$r$`, plt.FontSize(16))
	plt.YLabel(`$u_x$`, plt.FontSize(16))
	plt.XLim(0, 2*radius)
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}
