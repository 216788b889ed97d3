// Package sweep models the value sequence of a parameter sweep and the
// per-iteration outcome report.
package sweep

import (
	"errors"
	"math"
)

// Plan describes a sweep of one variable over a numeric range. The
// sequence runs from Start towards End in increments of Step and is
// monotonic in the sign of Step.
type Plan struct {
	VariableName string
	Start        float64
	End          float64
	Step         float64
}

// Validate checks the plan invariants.
func (p Plan) Validate() error {
	if p.VariableName == "" {
		return errors.New("sweep: variable name must not be empty")
	}
	if p.Step == 0 {
		return errors.New("sweep: step must be non-zero")
	}
	if math.IsNaN(p.Start) || math.IsNaN(p.End) || math.IsNaN(p.Step) {
		return errors.New("sweep: start, end and step must be numbers")
	}
	return nil
}

// Count is the number of values the plan generates:
// floor((End-Start)/Step)+1, clamped to zero when End is unreachable.
func (p Plan) Count() int {
	if p.Step == 0 {
		return 0
	}
	n := math.Floor((p.End-p.Start)/p.Step) + 1
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// Values generates the ordered, finite value sequence. Each value is
// computed from Start by whole steps so float accumulation cannot
// drift across long sweeps.
func (p Plan) Values() []float64 {
	n := p.Count()
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = p.Start + float64(i)*p.Step
	}
	return vals
}
