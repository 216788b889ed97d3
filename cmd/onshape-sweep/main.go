package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	onshapesweep "github.com/parametrik/onshape-sweep"
	"github.com/parametrik/onshape-sweep/pkg/config"
	"github.com/parametrik/onshape-sweep/pkg/onshape"
	"github.com/parametrik/onshape-sweep/pkg/output"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = onshape.Version

var (
	configPath   string
	accessKey    string
	secretKey    string
	baseURL      string
	documentID   string
	workspaceID  string
	elementID    string
	variableName string
	startValue   float64
	endValue     float64
	stepSize     float64
	formats      []string
	partIDs      []string
	outputDir    string
	delaySec     float64
	regenSec     float64
	timeoutSec   float64
	stopOnError  bool
	skipFinal    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "onshape-sweep",
		Short: "Sweep an Onshape design variable and export CAD files",
		Long: "A tool that drives an Onshape Part Studio through a range of values for one design\n" +
			"variable and exports a STEP or Parasolid file at each value via the Onshape API",
		Run: run,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Configuration file (YAML or JSON); replaces the individual flags")
	pf.StringVar(&accessKey, "access-key", os.Getenv("ONSHAPE_ACCESS_KEY"), "Onshape API access key (or ONSHAPE_ACCESS_KEY)")
	pf.StringVar(&secretKey, "secret-key", os.Getenv("ONSHAPE_SECRET_KEY"), "Onshape API secret key (or ONSHAPE_SECRET_KEY)")
	pf.StringVar(&baseURL, "base-url", onshape.DefaultBaseURL, "Onshape base URL")
	pf.StringVarP(&documentID, "document-id", "d", "", "Document ID (24 characters)")
	pf.StringVarP(&workspaceID, "workspace-id", "w", "", "Workspace ID (24 characters)")
	pf.StringVarP(&elementID, "element-id", "e", "", "Part Studio element ID (24 characters)")

	fl := rootCmd.Flags()
	fl.StringVar(&variableName, "variable", "", "Name of the variable to sweep")
	fl.Float64Var(&startValue, "start", 0, "First sweep value")
	fl.Float64Var(&endValue, "end", 0, "Last reachable sweep value")
	fl.Float64Var(&stepSize, "step", 0, "Step size (non-zero; negative sweeps downward)")
	fl.StringSliceVar(&formats, "formats", []string{"STEP"}, "Export formats: STEP, PARASOLID")
	fl.StringSliceVar(&partIDs, "part-ids", nil, "Part IDs to export (default: all parts)")
	fl.StringVarP(&outputDir, "output", "o", "output", "Output folder for exported files")
	fl.Float64Var(&delaySec, "delay", 2, "Seconds to wait between iterations")
	fl.Float64Var(&regenSec, "regeneration-pause", 1, "Seconds to wait after a variable update before exporting")
	fl.Float64Var(&timeoutSec, "export-timeout", 300, "Seconds to wait for a single export job")
	fl.BoolVar(&stopOnError, "stop-on-error", false, "Abort the sweep on the first failed iteration")
	fl.BoolVar(&skipFinal, "skip-final-delay", true, "Skip the pause after the last iteration")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("onshape-sweep version %s\n", version)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list-variables",
		Short: "List the variables of the target Part Studio",
		Run:   runListVariables,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildOptions assembles the sweep options from the config file if one
// was given, otherwise from the flags.
func buildOptions() (onshapesweep.Options, error) {
	var opts onshapesweep.Options

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return opts, err
		}
		parsed, err := parseFormats(cfg.Export.Formats)
		if err != nil {
			return opts, err
		}
		return onshapesweep.Options{
			AccessKey:         cfg.API.AccessKey,
			SecretKey:         cfg.API.SecretKey,
			BaseURL:           cfg.API.BaseURL,
			DocumentID:        cfg.Document.DocumentID,
			WorkspaceID:       cfg.Document.WorkspaceID,
			ElementID:         cfg.Document.ElementID,
			VariableName:      cfg.Variable.Name,
			Start:             cfg.Variable.Start,
			End:               cfg.Variable.End,
			Step:              cfg.Variable.Step,
			Formats:           parsed,
			PartIDs:           cfg.Export.PartIDs,
			OutputDir:         cfg.Export.OutputFolder,
			Delay:             seconds(cfg.Timing.DelaySeconds),
			RegenerationPause: seconds(cfg.Timing.RegenerationPauseSeconds),
			ExportTimeout:     seconds(cfg.Timing.ExportTimeoutSeconds),
			SkipFinalDelay:    true,
		}, nil
	}

	for name, val := range map[string]string{
		"access-key":   accessKey,
		"secret-key":   secretKey,
		"document-id":  documentID,
		"workspace-id": workspaceID,
		"element-id":   elementID,
		"variable":     variableName,
	} {
		if val == "" {
			return opts, fmt.Errorf("required flag --%s not set (or use --config)", name)
		}
	}

	parsed, err := parseFormats(formats)
	if err != nil {
		return opts, err
	}

	return onshapesweep.Options{
		AccessKey:         accessKey,
		SecretKey:         secretKey,
		BaseURL:           baseURL,
		DocumentID:        documentID,
		WorkspaceID:       workspaceID,
		ElementID:         elementID,
		VariableName:      variableName,
		Start:             startValue,
		End:               endValue,
		Step:              stepSize,
		Formats:           parsed,
		PartIDs:           partIDs,
		OutputDir:         outputDir,
		Delay:             seconds(delaySec),
		RegenerationPause: seconds(regenSec),
		ExportTimeout:     seconds(timeoutSec),
		StopOnError:       stopOnError,
		SkipFinalDelay:    skipFinal,
	}, nil
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n⚙ Onshape Variable Sweep")
	cyan.Println("=========================")
	cyan.Println()

	opts, err := buildOptions()
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	opts.Logger = &cliLogger{}

	report, err := onshapesweep.Run(context.Background(), opts)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cyan.Println("\n📊 Sweep Summary:")
	fmt.Printf("  • Iterations: %d planned, %d run\n", report.Total, len(report.Iterations))
	fmt.Printf("  • Succeeded:  %d\n", report.Successes())
	fmt.Printf("  • Failed:     %d\n", report.FailureCount())

	for _, it := range report.Iterations {
		for _, f := range it.Failures {
			red.Printf("  ✗ %s = %s: %s: %s\n",
				opts.VariableName, output.FormatValue(it.Value), f.Op, f.Message)
		}
	}

	if missing := report.MissingValues(); len(missing) > 0 {
		vals := make([]string, 0, len(missing))
		for _, v := range missing {
			vals = append(vals, output.FormatValue(v))
		}
		red.Printf("  • Missing artifacts for: %v\n", vals)
	}

	if report.Aborted {
		red.Println("\n✗ Sweep aborted early")
		os.Exit(1)
	}
	if report.Failed() {
		red.Println("\n✗ Sweep finished with failures")
		os.Exit(1)
	}

	green.Printf("\n✨ Exported %d iteration(s) to %s\n\n", report.Successes(), opts.OutputDir)
}

func runListVariables(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	opts, err := buildListOptions()
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	vars, err := onshapesweep.ListVariables(context.Background(), opts)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cyan.Println("Variables in the Part Studio:")
	for _, v := range vars {
		if v.Units != "" {
			fmt.Printf("  • %s = %s %s\n", v.Name, v.Expression, v.Units)
		} else {
			fmt.Printf("  • %s = %s\n", v.Name, v.Expression)
		}
	}
}

// buildListOptions needs only credentials and the document triple.
func buildListOptions() (onshapesweep.Options, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return onshapesweep.Options{}, err
		}
		return onshapesweep.Options{
			AccessKey:   cfg.API.AccessKey,
			SecretKey:   cfg.API.SecretKey,
			BaseURL:     cfg.API.BaseURL,
			DocumentID:  cfg.Document.DocumentID,
			WorkspaceID: cfg.Document.WorkspaceID,
			ElementID:   cfg.Document.ElementID,
		}, nil
	}

	for name, val := range map[string]string{
		"access-key":   accessKey,
		"secret-key":   secretKey,
		"document-id":  documentID,
		"workspace-id": workspaceID,
		"element-id":   elementID,
	} {
		if val == "" {
			return onshapesweep.Options{}, fmt.Errorf("required flag --%s not set (or use --config)", name)
		}
	}

	return onshapesweep.Options{
		AccessKey:   accessKey,
		SecretKey:   secretKey,
		BaseURL:     baseURL,
		DocumentID:  documentID,
		WorkspaceID: workspaceID,
		ElementID:   elementID,
	}, nil
}

func parseFormats(names []string) ([]onshape.Format, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one export format is required")
	}
	parsed := make([]onshape.Format, 0, len(names))
	for _, name := range names {
		f, err := onshape.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, f)
	}
	return parsed, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// cliLogger implements onshapesweep.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
