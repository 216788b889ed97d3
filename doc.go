// Package onshapesweep drives an Onshape Part Studio through a sweep of
// a single design variable and exports a CAD artifact at each value
// (STEP, Parasolid). For every value in the range it updates the
// variable, waits for the asynchronous translation job, downloads the
// result and writes it to the output folder with a deterministic name
// such as length_10.step.
//
// The CLI lives in cmd/onshape-sweep; this root package exposes the
// same pipeline as a Go API so that callers can embed sweeps in their
// own tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named onshapesweep:
//
//	import "github.com/parametrik/onshape-sweep" // package onshapesweep
//
// # Quick start
//
//	report, err := onshapesweep.Run(ctx, onshapesweep.Options{
//	    AccessKey:    os.Getenv("ONSHAPE_ACCESS_KEY"),
//	    SecretKey:    os.Getenv("ONSHAPE_SECRET_KEY"),
//	    DocumentID:   "a0b1c2d3e4f5a0b1c2d3e4f5",
//	    WorkspaceID:  "b1c2d3e4f5a0b1c2d3e4f5a0",
//	    ElementID:    "c2d3e4f5a0b1c2d3e4f5a0b1",
//	    VariableName: "length",
//	    Start:        10,
//	    End:          50,
//	    Step:         5,
//	    OutputDir:    "output",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if report.Failed() {
//	    log.Printf("missing values: %v", report.MissingValues())
//	}
//
// # Failure policy
//
// Authentication failures abort the sweep immediately; a wrong variable
// name, a wrong element id, a failed or timed-out export, or a write
// error fail only their iteration and the sweep continues. Rate limits,
// server errors and network timeouts are retried with bounded
// exponential backoff inside the client. Every outcome is recorded per
// iteration in the returned report.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive
// progress messages. A nil Logger silences all output.
package onshapesweep
