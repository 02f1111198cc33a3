package io

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phil-mansfield/stenosis/geom"
	"github.com/phil-mansfield/stenosis/math/interpolate"
)

const (
	// InterfaceFile is shared by every run of a sequence.
	InterfaceFile = "interface.csv"
	// SnapshotFile is overwritten by every run of a sequence.
	SnapshotFile = "snapshot"
)

// FieldFileName returns the name of the file the final samples of quantity
// are appended to for the given Reynolds number.
func FieldFileName(dir, quantity string, reynolds float64) string {
	return filepath.Join(dir, fmt.Sprintf("%s_final_Re_%g.csv", quantity, reynolds))
}

func openAppend(file string) (*os.File, error) {
	return os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// closeErr flushes wr and closes f, returning the first error encountered.
func closeErr(f *os.File, wr *bufio.Writer, err error) error {
	if err == nil {
		err = wr.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// AppendFacets appends one block of interface segments to file. Each segment
// is written as two "x y" lines followed by a blank line and the block ends
// with two blank lines.
func AppendFacets(file string, segs []geom.Segment) error {
	f, err := openAppend(file)
	if err != nil {
		return err
	}
	wr := bufio.NewWriter(f)

	for _, seg := range segs {
		_, err = fmt.Fprintf(wr, "%g %g\n%g %g\n\n", seg.X1, seg.Y1, seg.X2, seg.Y2)
		if err != nil {
			return closeErr(f, wr, err)
		}
	}
	_, err = fmt.Fprint(wr, "\n\n")
	return closeErr(f, wr, err)
}

// AppendField appends one block of samples of the given fields to file. The
// fields are cell-centered on g and are bilinearly interpolated onto the
// centers of an n x n regular grid over the same domain. The block starts
// with a "# 1:x 2:y 3:name ..." header, has a blank line after each column of
// constant x and ends with two blank lines.
func AppendField(
	file string, g *geom.Grid, n int, names []string, fields ...[]float64,
) error {
	if len(names) != len(fields) {
		return fmt.Errorf(
			"%d field names were given for %d fields.", len(names), len(fields),
		)
	} else if n <= 0 {
		return fmt.Errorf("Cannot sample a field onto %d points.", n)
	}

	cells, h := g.Cells(), g.Delta()
	interps := make([]*interpolate.BiLinear, len(fields))
	for i, xs := range fields {
		if len(xs) != g.Area {
			return fmt.Errorf(
				"Field '%s' has %d cells, but the grid has %d.",
				names[i], len(xs), g.Area,
			)
		}
		interps[i] = interpolate.NewUniformBiLinear(
			h/2, h, cells, h/2, h, cells, xs,
		)
		interps[i].Clamp(true)
	}

	f, err := openAppend(file)
	if err != nil {
		return err
	}
	wr := bufio.NewWriter(f)

	fmt.Fprint(wr, "# 1:x 2:y")
	for i, name := range names {
		fmt.Fprintf(wr, " %d:%s", i+3, name)
	}
	fmt.Fprintln(wr)

	delta := g.Length / float64(n)
	for i := 0; i < n; i++ {
		x := delta*float64(i) + delta/2
		for j := 0; j < n; j++ {
			y := delta*float64(j) + delta/2
			fmt.Fprintf(wr, "%g %g", x, y)
			for _, interp := range interps {
				fmt.Fprintf(wr, " %g", interp.Eval(x, y))
			}
			if _, err = fmt.Fprintln(wr); err != nil {
				return closeErr(f, wr, err)
			}
		}
		fmt.Fprintln(wr)
	}

	_, err = fmt.Fprint(wr, "\n\n")
	return closeErr(f, wr, err)
}
