package stenosis

import (
	"github.com/phil-mansfield/stenosis/field"
	"github.com/phil-mansfield/stenosis/solver"
)

// Monitor decides when a run has converged. The reference velocity lives in
// the Un field of the store.
type Monitor struct {
	Tolerance float64
	Rolling   bool
}

// Snapshot copies the current axial velocity into the reference.
func (m *Monitor) Snapshot(s *field.Store) {
	copy(s.Un, s.Ux)
}

// Reference returns the reference velocity.
func (m *Monitor) Reference(s *field.Store) []float64 {
	return s.Un
}

// Check returns the max-norm change of Ux from the reference and whether the
// run should stop. It never stops at step 0.
func (m *Monitor) Check(step int, s *field.Store) (stop bool, change float64) {
	change = solver.Change(s.Ux, s.Un)
	if m.Rolling {
		m.Snapshot(s)
	}
	return step > 0 && change < m.Tolerance, change
}
