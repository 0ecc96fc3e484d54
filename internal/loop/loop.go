package loop

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/ankh/internal/audit"
	"github.com/roach88/ankh/internal/metrics"
	"github.com/roach88/ankh/internal/registry"
)

// Config wires a Loop's collaborators. Registry, Audit, and Metrics are
// required; the rest default.
type Config struct {
	Registry *registry.Store
	Audit    audit.Log
	Metrics  metrics.Config
	Policies Policies

	// Sampler simulates experiment outcomes. Defaults to a UniformSampler
	// seeded from the clock.
	Sampler OutcomeSampler

	// Tokens mints the per-run token. Defaults to UUIDv7Generator.
	Tokens TokenGenerator

	// Now supplies timestamps. Defaults to time.Now in UTC.
	Now func() time.Time
}

// Loop drives the reflect -> plan -> act -> learn cycle. All mutation
// happens inside RunCycle on the calling goroutine; a Loop is not safe for
// concurrent use.
type Loop struct {
	reg     *registry.Store
	log     audit.Log
	cfg     metrics.Config
	pol     Policies
	sampler OutcomeSampler
	now     func() time.Time

	runToken string

	// Monotonic counters; mutated only inside RunCycle.
	cycleCount       int
	totalExperiments int
	improvementsKept int

	summaries []CycleSummary
}

// CycleSummary reports one completed cycle.
type CycleSummary struct {
	Cycle            int     `json:"cycle"`
	Experiments      int     `json:"experiments"`
	RGain            float64 `json:"r_gain"`
	ImprovementsKept int     `json:"improvements_kept"`
}

// RunSummary reports a bounded run.
type RunSummary struct {
	Run              string  `json:"run"`
	Cycles           int     `json:"cycles"`
	TotalExperiments int     `json:"total_experiments"`
	ImprovementsKept int     `json:"improvements_kept"`
	FinalFitness     float64 `json:"final_fitness"`
	GateOpen         bool    `json:"gate_open"`
}

// New creates a Loop and mints its run token.
func New(cfg Config) (*Loop, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("loop: registry is required")
	}
	if cfg.Audit == nil {
		return nil, fmt.Errorf("loop: audit log is required")
	}
	if cfg.Sampler == nil {
		cfg.Sampler = NewUniformSampler(time.Now().UnixNano())
	}
	if cfg.Tokens == nil {
		cfg.Tokens = UUIDv7Generator{}
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.Policies == (Policies{}) {
		cfg.Policies = DefaultPolicies()
	}

	return &Loop{
		reg:      cfg.Registry,
		log:      cfg.Audit,
		cfg:      cfg.Metrics,
		pol:      cfg.Policies,
		sampler:  cfg.Sampler,
		now:      cfg.Now,
		runToken: cfg.Tokens.Generate(),
	}, nil
}

// RunToken returns the token stamped on this loop's audit events.
func (l *Loop) RunToken() string { return l.runToken }

// CycleCount returns the number of completed cycles.
func (l *Loop) CycleCount() int { return l.cycleCount }

// TotalExperiments returns the experiment count across all completed plan
// phases.
func (l *Loop) TotalExperiments() int { return l.totalExperiments }

// ImprovementsKept returns the cumulative kept-result count.
func (l *Loop) ImprovementsKept() int { return l.improvementsKept }

// CycleSummaries returns one summary per completed cycle, in order.
func (l *Loop) CycleSummaries() []CycleSummary {
	out := make([]CycleSummary, len(l.summaries))
	copy(out, l.summaries)
	return out
}

// logEvent appends one audit event for the current cycle.
func (l *Loop) logEvent(phase audit.Phase, payload map[string]any) error {
	e := audit.NewEvent(l.runToken, l.now(), l.cycleCount, phase, payload)
	if err := l.log.Append(e); err != nil {
		return fmt.Errorf("audit %s: %w", phase, err)
	}
	return nil
}

// Reflect computes a fresh snapshot and records it.
func (l *Loop) Reflect() (metrics.Snapshot, error) {
	snap := l.cfg.ComputeSnapshot(l.now())

	err := l.logEvent(audit.PhaseReflect, map[string]any{
		"fitness":        snap.Fitness,
		"awareness":      snap.Awareness,
		"gate_open":      snap.GateOpen,
		"days_remaining": snap.DaysRemaining,
		"components":     l.reg.Count(),
	})
	if err != nil {
		return metrics.Snapshot{}, err
	}
	return snap, nil
}

// Plan selects one of the two fixed experiment sets from the snapshot's
// position relative to the gate, truncated to the per-cycle cap.
func (l *Loop) Plan(snap metrics.Snapshot) ([]Experiment, error) {
	var experiments []Experiment
	if snap.Fitness < l.pol.GateThreshold {
		experiments = append(experiments, belowGateExperiments...)
	} else {
		experiments = append(experiments, aboveGateExperiments...)
	}
	if len(experiments) > l.pol.ExperimentsPerCycle {
		experiments = experiments[:l.pol.ExperimentsPerCycle]
	}

	gateNeeded := l.pol.GateThreshold - snap.Fitness
	if gateNeeded < 0 {
		gateNeeded = 0
	}

	types := make([]string, len(experiments))
	for i, e := range experiments {
		types[i] = e.Type
	}

	err := l.logEvent(audit.PhasePlan, map[string]any{
		"gate_needed":      gateNeeded,
		"experiments":      len(experiments),
		"experiment_types": types,
	})
	if err != nil {
		return nil, err
	}
	return experiments, nil
}

// Act simulates each experiment's outcome, one audit event per executed
// experiment.
func (l *Loop) Act(experiments []Experiment) ([]ExperimentResult, error) {
	results := make([]ExperimentResult, 0, len(experiments))
	for _, exp := range experiments {
		result := ExperimentResult{
			Type:        exp.Type,
			Description: exp.Description,
			Executed:    true,
			ActualGain:  l.sampler.Sample(exp.ExpectedGain),
		}
		results = append(results, result)

		err := l.logEvent(audit.PhaseAct, map[string]any{
			"type":        result.Type,
			"description": result.Description,
			"executed":    result.Executed,
			"actual_gain": result.ActualGain,
		})
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Learn partitions results against the rollforward threshold, keeps the
// winners, and records the cycle's fitness delta.
func (l *Loop) Learn(results []ExperimentResult, before metrics.Snapshot) (CycleSummary, error) {
	after := l.cfg.ComputeSnapshot(l.now())

	kept := 0
	for _, r := range results {
		if r.ActualGain >= l.pol.RollforwardThreshold {
			kept++
		}
	}
	l.improvementsKept += kept
	rGain := after.Fitness - before.Fitness

	err := l.logEvent(audit.PhaseLearn, map[string]any{
		"fitness_before": before.Fitness,
		"fitness_after":  after.Fitness,
		"r_gain":         rGain,
		"kept":           kept,
		"rejected":       len(results) - kept,
		"improvements":   l.improvementsKept,
	})
	if err != nil {
		return CycleSummary{}, err
	}

	return CycleSummary{
		Cycle:            l.cycleCount,
		Experiments:      len(results),
		RGain:            rGain,
		ImprovementsKept: l.improvementsKept,
	}, nil
}

// RunCycle executes one full cycle: reflect, plan, act, learn.
func (l *Loop) RunCycle() (CycleSummary, error) {
	l.cycleCount++
	slog.Debug("cycle started", "run", l.runToken, "cycle", l.cycleCount)

	before, err := l.Reflect()
	if err != nil {
		return CycleSummary{}, err
	}

	experiments, err := l.Plan(before)
	if err != nil {
		return CycleSummary{}, err
	}

	results, err := l.Act(experiments)
	if err != nil {
		return CycleSummary{}, err
	}
	l.totalExperiments += len(results)

	summary, err := l.Learn(results, before)
	if err != nil {
		return CycleSummary{}, err
	}
	l.summaries = append(l.summaries, summary)

	slog.Debug("cycle complete",
		"cycle", summary.Cycle,
		"experiments", summary.Experiments,
		"r_gain", summary.RGain,
	)
	return summary, nil
}

// Run executes up to maxCycles cycles, exiting early once the post-cycle
// fitness reaches the stop threshold.
func (l *Loop) Run(maxCycles int) (RunSummary, error) {
	for i := 0; i < maxCycles; i++ {
		if _, err := l.RunCycle(); err != nil {
			return RunSummary{}, err
		}
		if l.cfg.ComputeSnapshot(l.now()).Fitness >= l.pol.StopThreshold {
			slog.Debug("stop threshold reached", "cycle", l.cycleCount)
			break
		}
	}

	final := l.cfg.ComputeSnapshot(l.now())
	return RunSummary{
		Run:              l.runToken,
		Cycles:           l.cycleCount,
		TotalExperiments: l.totalExperiments,
		ImprovementsKept: l.improvementsKept,
		FinalFitness:     final.Fitness,
		GateOpen:         final.GateOpen,
	}, nil
}
