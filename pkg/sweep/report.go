package sweep

// Failure records one failed operation within an iteration.
type Failure struct {
	Op      string // e.g. "update variable", "export STEP"
	Kind    string // error kind label
	Message string
}

// Iteration is the outcome of one sweep value: the artifacts written
// and any failures, tagged with the 1-based iteration index.
type Iteration struct {
	Index    int
	Value    float64
	Files    []string
	Failures []Failure
}

// OK reports whether every operation of the iteration succeeded.
func (it Iteration) OK() bool {
	return len(it.Failures) == 0
}

// Report collects per-iteration outcomes in sweep order. Aborted is set
// when a fatal error stopped the sweep before all planned iterations ran.
type Report struct {
	Plan       Plan
	Total      int // planned iterations
	Iterations []Iteration
	Aborted    bool
}

// Record appends one iteration outcome.
func (r *Report) Record(it Iteration) {
	r.Iterations = append(r.Iterations, it)
}

// Successes counts fully successful iterations.
func (r *Report) Successes() int {
	n := 0
	for _, it := range r.Iterations {
		if it.OK() {
			n++
		}
	}
	return n
}

// FailureCount counts iterations with at least one failure.
func (r *Report) FailureCount() int {
	return len(r.Iterations) - r.Successes()
}

// Failed reports whether the run should exit non-zero: an abort, a
// failed iteration, or planned iterations that never ran.
func (r *Report) Failed() bool {
	return r.Aborted || r.FailureCount() > 0 || len(r.Iterations) < r.Total
}

// MissingValues lists planned sweep values that did not produce a full
// artifact set, in sweep order.
func (r *Report) MissingValues() []float64 {
	done := make(map[int]bool, len(r.Iterations))
	for _, it := range r.Iterations {
		if it.OK() {
			done[it.Index] = true
		}
	}

	var missing []float64
	for i, v := range r.Plan.Values() {
		if !done[i+1] {
			missing = append(missing, v)
		}
	}
	return missing
}
