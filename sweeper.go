package onshapesweep

import (
	"context"
	"errors"
	"time"

	"github.com/parametrik/onshape-sweep/pkg/onshape"
	"github.com/parametrik/onshape-sweep/pkg/output"
	"github.com/parametrik/onshape-sweep/pkg/sweep"
)

// Options configures a sweep run. Credentials and document identifiers
// have no defaults; everything else falls back to sensible values.
type Options struct {
	AccessKey string
	SecretKey string
	BaseURL   string // empty = cad.onshape.com

	DocumentID  string
	WorkspaceID string
	ElementID   string

	VariableName string
	Start        float64
	End          float64
	Step         float64

	Formats   []onshape.Format // empty = STEP only
	PartIDs   []string         // empty = all parts
	OutputDir string           // empty = "output"

	Delay             time.Duration // pause after each iteration
	SkipFinalDelay    bool          // no pause after the last iteration
	RegenerationPause time.Duration // wait between variable update and export submit
	ExportTimeout     time.Duration // per-job polling deadline, empty = 5m
	StopOnError       bool          // abort the sweep on the first failed iteration

	Logger Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

func (o *Options) documentRef() onshape.DocumentRef {
	return onshape.DocumentRef{
		DocumentID:  o.DocumentID,
		WorkspaceID: o.WorkspaceID,
		ElementID:   o.ElementID,
	}
}

// Run executes the sweep: for each value in order, update the variable,
// export every requested format, and persist the artifacts. Iterations
// run strictly sequentially; the variable update is fully acknowledged
// before any export is submitted.
//
// Run returns an error only for invalid options or malformed
// credentials. Remote and filesystem failures are recorded per
// iteration in the report: auth failures abort the sweep, everything
// else fails only the affected iteration.
func Run(ctx context.Context, opts Options) (*sweep.Report, error) {
	// Apply defaults.
	if opts.BaseURL == "" {
		opts.BaseURL = onshape.DefaultBaseURL
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []onshape.Format{onshape.FormatSTEP}
	}
	if opts.ExportTimeout == 0 {
		opts.ExportTimeout = 5 * time.Minute
	}

	plan := sweep.Plan{
		VariableName: opts.VariableName,
		Start:        opts.Start,
		End:          opts.End,
		Step:         opts.Step,
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	client, err := onshape.NewClientURL(opts.BaseURL, onshape.Credentials{
		AccessKey: opts.AccessKey,
		SecretKey: opts.SecretKey,
	})
	if err != nil {
		return nil, err
	}

	ref := opts.documentRef()
	writer := output.NewWriter(opts.OutputDir)
	values := plan.Values()
	report := &sweep.Report{Plan: plan, Total: len(values)}

	opts.logInfo("Sweeping %s from %s to %s (step %s): %d iteration(s)",
		opts.VariableName, output.FormatValue(opts.Start), output.FormatValue(opts.End),
		output.FormatValue(opts.Step), len(values))

	for i, value := range values {
		it := sweep.Iteration{Index: i + 1, Value: value}
		opts.logInfo("Iteration %d/%d: %s = %s",
			it.Index, len(values), opts.VariableName, output.FormatValue(value))

		fatal := runIteration(ctx, &opts, client, ref, writer, &it)
		report.Record(it)

		if fatal {
			report.Aborted = true
			opts.logError("Aborting sweep after iteration %d", it.Index)
			break
		}
		if !it.OK() && opts.StopOnError {
			report.Aborted = true
			opts.logError("Stopping sweep after failed iteration %d", it.Index)
			break
		}

		last := i == len(values)-1
		if opts.Delay > 0 && !(last && opts.SkipFinalDelay) {
			if err := pause(ctx, opts.Delay); err != nil {
				report.Aborted = true
				return report, err
			}
		}
	}

	opts.logInfo("Sweep finished: %d succeeded, %d failed", report.Successes(), report.FailureCount())
	return report, nil
}

// runIteration performs update -> export(s) -> write for one value and
// reports whether the sweep must abort.
func runIteration(ctx context.Context, opts *Options, client *onshape.Client, ref onshape.DocumentRef, writer *output.Writer, it *sweep.Iteration) bool {
	if err := client.UpdateVariable(ctx, ref, opts.VariableName, it.Value); err != nil {
		opts.logError("Iteration %d (%s = %s): %v",
			it.Index, opts.VariableName, output.FormatValue(it.Value), err)
		it.Failures = append(it.Failures, failure("update variable", err))
		return onshape.Fatal(err)
	}

	// Give the remote side a moment to regenerate the model before
	// submitting the export.
	if opts.RegenerationPause > 0 {
		if err := pause(ctx, opts.RegenerationPause); err != nil {
			it.Failures = append(it.Failures, failure("regeneration pause", err))
			return true
		}
	}

	for _, format := range opts.Formats {
		op := "export " + string(format)

		job, err := client.RequestExport(ctx, ref, onshape.ExportRequest{
			Format:  format,
			PartIDs: opts.PartIDs,
		})
		if err != nil {
			opts.logError("Iteration %d (%s = %s): %s: %v",
				it.Index, opts.VariableName, output.FormatValue(it.Value), op, err)
			it.Failures = append(it.Failures, failure(op, err))
			if onshape.Fatal(err) {
				return true
			}
			continue
		}

		data, err := client.PollUntilDone(ctx, job, opts.ExportTimeout)
		if err != nil {
			opts.logError("Iteration %d (%s = %s): %s: %v",
				it.Index, opts.VariableName, output.FormatValue(it.Value), op, err)
			it.Failures = append(it.Failures, failure(op, err))
			if onshape.Fatal(err) {
				return true
			}
			continue
		}

		path, err := writer.Write(opts.VariableName, it.Value, format, data)
		if err != nil {
			opts.logError("Iteration %d (%s = %s): %v",
				it.Index, opts.VariableName, output.FormatValue(it.Value), err)
			it.Failures = append(it.Failures, failure("write "+string(format), err))
			continue
		}

		it.Files = append(it.Files, path)
		opts.logInfo("Exported %s", path)
	}

	return false
}

// ListVariables fetches the Part Studio's variable table, for the CLI's
// list-variables mode.
func ListVariables(ctx context.Context, opts Options) ([]onshape.Variable, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = onshape.DefaultBaseURL
	}
	client, err := onshape.NewClientURL(opts.BaseURL, onshape.Credentials{
		AccessKey: opts.AccessKey,
		SecretKey: opts.SecretKey,
	})
	if err != nil {
		return nil, err
	}
	return client.Variables(ctx, opts.documentRef())
}

func failure(op string, err error) sweep.Failure {
	return sweep.Failure{Op: op, Kind: errorKind(err), Message: err.Error()}
}

// errorKind maps an error to the report's kind label.
func errorKind(err error) string {
	var oe *onshape.Error
	if errors.As(err, &oe) {
		return oe.Kind.String()
	}
	var we *output.WriteError
	if errors.As(err, &we) {
		return "io_write"
	}
	return "error"
}

// pause sleeps for d or until the context is cancelled.
func pause(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
