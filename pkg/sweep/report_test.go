package sweep

import (
	"testing"
)

func testReport() *Report {
	plan := Plan{VariableName: "length", Start: 10, End: 30, Step: 10}
	return &Report{Plan: plan, Total: plan.Count()}
}

func TestReportCounts(t *testing.T) {
	r := testReport()
	r.Record(Iteration{Index: 1, Value: 10, Files: []string{"out/length_10.step"}})
	r.Record(Iteration{Index: 2, Value: 20, Failures: []Failure{{Op: "export STEP", Kind: "export_failed", Message: "boom"}}})
	r.Record(Iteration{Index: 3, Value: 30, Files: []string{"out/length_30.step"}})

	if got := r.Successes(); got != 2 {
		t.Errorf("Successes() = %d, want 2", got)
	}
	if got := r.FailureCount(); got != 1 {
		t.Errorf("FailureCount() = %d, want 1", got)
	}
	if !r.Failed() {
		t.Error("Failed() = false for a report with a failed iteration")
	}
}

func TestReportMissingValues(t *testing.T) {
	r := testReport()
	r.Record(Iteration{Index: 1, Value: 10, Files: []string{"a"}})
	r.Record(Iteration{Index: 2, Value: 20, Failures: []Failure{{Kind: "element_not_found"}}})
	// iteration 3 never ran (aborted)
	r.Aborted = true

	missing := r.MissingValues()
	want := []float64{20, 30}
	if len(missing) != len(want) {
		t.Fatalf("MissingValues() = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("MissingValues()[%d] = %g, want %g", i, missing[i], want[i])
		}
	}
}

func TestReportCleanRun(t *testing.T) {
	r := testReport()
	for i, v := range r.Plan.Values() {
		r.Record(Iteration{Index: i + 1, Value: v, Files: []string{"f"}})
	}

	if r.Failed() {
		t.Error("Failed() = true for a fully successful run")
	}
	if missing := r.MissingValues(); len(missing) != 0 {
		t.Errorf("MissingValues() = %v, want none", missing)
	}
}

func TestReportShortRunIsFailed(t *testing.T) {
	r := testReport()
	r.Record(Iteration{Index: 1, Value: 10, Files: []string{"f"}})

	if !r.Failed() {
		t.Error("Failed() = false although planned iterations never ran")
	}
}
