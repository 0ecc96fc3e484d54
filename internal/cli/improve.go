package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ankh/internal/audit"
	"github.com/roach88/ankh/internal/loop"
	"github.com/roach88/ankh/internal/metrics"
)

// DefaultLogPath is where improve writes its audit trail unless told
// otherwise.
const DefaultLogPath = ".ankh/log.jsonl"

// ImproveOptions holds flags for the improve command.
type ImproveOptions struct {
	*RootOptions
	Manifest string
	Cycles   int
	LogPath  string
	Database string
}

// ImproveResult is the improve command's JSON payload.
type ImproveResult struct {
	Summary loop.RunSummary     `json:"summary"`
	Cycles  []loop.CycleSummary `json:"cycles"`
}

// NewImproveCommand creates the improve command.
func NewImproveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImproveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "improve",
		Short: "Run the self-improvement loop",
		Long: `Load a component manifest and run the reflect/plan/act/learn
loop for up to the given number of cycles, appending one audit event per
phase. The run exits early once fitness reaches the stop threshold.

The audit trail goes to a newline-delimited JSON file by default; pass
--db to write the same events to a SQLite store instead.

Examples:
  ankh improve --manifest manifests/components.yaml --cycles 10
  ankh improve --manifest manifests/components.yaml --cycles 5 --db ./ankh.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImprove(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "path to component manifest (required)")
	_ = cmd.MarkFlagRequired("manifest")
	cmd.Flags().IntVar(&opts.Cycles, "cycles", 10, "maximum number of improvement cycles")
	cmd.Flags().StringVar(&opts.LogPath, "log", DefaultLogPath, "path to the JSONL audit log")
	cmd.Flags().StringVar(&opts.Database, "db", "", "write audit events to a SQLite store instead of the JSONL log")

	return cmd
}

func runImprove(opts *ImproveOptions, cmd *cobra.Command) error {
	reg, err := loadRegistry(opts.Manifest)
	if err != nil {
		return err
	}

	var sink audit.Log
	if opts.Database != "" {
		sink, err = audit.OpenSQLite(opts.Database)
	} else {
		sink, err = audit.OpenFile(opts.LogPath)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open audit log", err)
	}
	defer sink.Close()

	l, err := loop.New(loop.Config{
		Registry: reg,
		Audit:    sink,
		Metrics:  metrics.DefaultConfig(),
		Policies: loop.DefaultPolicies(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build loop", err)
	}

	summary, err := l.Run(opts.Cycles)
	if err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	result := ImproveResult{
		Summary: summary,
		Cycles:  l.CycleSummaries(),
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result, formatImprove(result))
}

func formatImprove(r ImproveResult) string {
	var b strings.Builder

	for _, c := range r.Cycles {
		fmt.Fprintf(&b, "Cycle %d: experiments=%d r_gain=%+.6f kept=%d\n",
			c.Cycle, c.Experiments, c.RGain, c.ImprovementsKept)
	}
	fmt.Fprintf(&b, "Run:            %s\n", r.Summary.Run)
	fmt.Fprintf(&b, "Cycles:         %d\n", r.Summary.Cycles)
	fmt.Fprintf(&b, "Experiments:    %d\n", r.Summary.TotalExperiments)
	fmt.Fprintf(&b, "Kept:           %d\n", r.Summary.ImprovementsKept)
	fmt.Fprintf(&b, "Final fitness:  %.6f\n", r.Summary.FinalFitness)
	if r.Summary.GateOpen {
		fmt.Fprintf(&b, "Gate:           OPEN\n")
	} else {
		fmt.Fprintf(&b, "Gate:           CLOSED\n")
	}

	return b.String()
}
