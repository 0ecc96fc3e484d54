package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ankh/internal/metrics"
	"github.com/roach88/ankh/internal/registry"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	Manifest string
}

// SnapshotResult is the snapshot command's JSON payload.
type SnapshotResult struct {
	Components int              `json:"components"`
	Loaders    int              `json:"loaders"`
	Sample     []string         `json:"sample"`
	Snapshot   metrics.Snapshot `json:"snapshot"`
	Threshold  float64          `json:"gate_threshold"`
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Display registry state and current metrics",
		Long: `Load a component manifest and display the registry contents
alongside the current fitness snapshot. Read-only; nothing is executed
and nothing is written.

Example:
  ankh snapshot --manifest manifests/components.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "path to component manifest (required)")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func runSnapshot(opts *SnapshotOptions, cmd *cobra.Command) error {
	reg, err := loadRegistry(opts.Manifest)
	if err != nil {
		return err
	}

	cfg := metrics.DefaultConfig()
	result := buildSnapshotResult(reg, cfg, time.Now().UTC())

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result, FormatSnapshot(result))
}

// sampleSize caps how many component ids the text view lists.
const sampleSize = 20

func buildSnapshotResult(reg *registry.Store, cfg metrics.Config, now time.Time) SnapshotResult {
	ids := reg.List()
	sample := ids
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	return SnapshotResult{
		Components: reg.Count(),
		Loaders:    reg.Kinds(),
		Sample:     sample,
		Snapshot:   cfg.ComputeSnapshot(now),
		Threshold:  cfg.GateThreshold,
	}
}

// FormatSnapshot renders the text view of a snapshot result.
func FormatSnapshot(r SnapshotResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Components:     %d\n", r.Components)
	fmt.Fprintf(&b, "Loaders:        %d\n", r.Loaders)
	for _, id := range r.Sample {
		fmt.Fprintf(&b, "  - %s\n", id)
	}
	if r.Components > len(r.Sample) {
		fmt.Fprintf(&b, "  ... and %d more\n", r.Components-len(r.Sample))
	}

	fmt.Fprintf(&b, "Timestamp:      %s\n", r.Snapshot.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Days remaining: %.2f\n", r.Snapshot.DaysRemaining)
	fmt.Fprintf(&b, "Awareness:      %.2f%%\n", r.Snapshot.Awareness)
	fmt.Fprintf(&b, "Fitness:        %.6f\n", r.Snapshot.Fitness)
	if r.Snapshot.GateOpen {
		fmt.Fprintf(&b, "Gate:           OPEN (threshold %.4f)\n", r.Threshold)
	} else {
		deficit := r.Threshold - r.Snapshot.Fitness
		fmt.Fprintf(&b, "Gate:           CLOSED (threshold %.4f, deficit %.6f)\n", r.Threshold, deficit)
	}

	return b.String()
}
