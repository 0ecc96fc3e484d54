package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ankh/internal/audit"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	LogPath  string
	Database string
	Run      string
}

// TraceResult is the trace command's JSON payload.
type TraceResult struct {
	Events int           `json:"events"`
	Runs   int           `json:"runs"`
	Trail  []audit.Event `json:"trail"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Replay the audit trail",
		Long: `Read a previously written audit trail back in append order and
print one line per event. Works against either the JSONL log or a SQLite
store.

Examples:
  ankh trace
  ankh trace --log ./run.jsonl --run 0192f1a2-...
  ankh trace --db ./ankh.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LogPath, "log", DefaultLogPath, "path to the JSONL audit log")
	cmd.Flags().StringVar(&opts.Database, "db", "", "read audit events from a SQLite store instead of the JSONL log")
	cmd.Flags().StringVar(&opts.Run, "run", "", "only show events from this run token")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	events, err := replayEvents(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to replay audit log", err)
	}

	if opts.Run != "" {
		filtered := events[:0]
		for _, e := range events {
			if e.Run == opts.Run {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	runs := map[string]struct{}{}
	for _, e := range events {
		runs[e.Run] = struct{}{}
	}

	result := TraceResult{
		Events: len(events),
		Runs:   len(runs),
		Trail:  events,
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result, formatTrace(result))
}

func replayEvents(opts *TraceOptions) ([]audit.Event, error) {
	if opts.Database != "" {
		store, err := audit.OpenSQLite(opts.Database)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Replay()
	}
	return audit.ReplayFile(opts.LogPath)
}

func formatTrace(r TraceResult) string {
	var b strings.Builder

	for _, e := range r.Trail {
		fmt.Fprintf(&b, "%s run=%s cycle=%d phase=%s %s\n",
			e.Timestamp.UTC().Format(time.RFC3339),
			shortToken(e.Run), e.Cycle, e.Phase, summarizePayload(e))
	}
	fmt.Fprintf(&b, "%d events across %d runs\n", r.Events, r.Runs)

	return b.String()
}

// shortToken trims a run token for single-line display.
func shortToken(run string) string {
	if len(run) > 8 {
		return run[:8]
	}
	return run
}

// summarizePayload renders the one or two payload fields that matter per
// phase.
func summarizePayload(e audit.Event) string {
	switch e.Phase {
	case audit.PhaseReflect:
		return fmt.Sprintf("fitness=%v gate_open=%v", e.Payload["fitness"], e.Payload["gate_open"])
	case audit.PhasePlan:
		return fmt.Sprintf("experiments=%v gate_needed=%v", e.Payload["experiments"], e.Payload["gate_needed"])
	case audit.PhaseAct:
		return fmt.Sprintf("type=%v actual_gain=%v", e.Payload["type"], e.Payload["actual_gain"])
	case audit.PhaseLearn:
		return fmt.Sprintf("r_gain=%v kept=%v", e.Payload["r_gain"], e.Payload["kept"])
	}
	return ""
}
