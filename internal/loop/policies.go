package loop

// Policies are the loop's tuning constants. Instances are immutable after
// construction; there is no process-wide policy state.
type Policies struct {
	// GateThreshold is the minimum fitness for gate passage; below it the
	// plan phase selects the below-gate experiment set.
	GateThreshold float64

	// ExperimentsPerCycle caps how many experiments one plan emits.
	ExperimentsPerCycle int

	// RollforwardThreshold is the minimum actual gain for an experiment
	// result to be kept during learn.
	RollforwardThreshold float64

	// StopThreshold is the near-unity post-cycle fitness at which Run
	// exits early. Distinct from GateThreshold.
	StopThreshold float64
}

// DefaultPolicies returns the base policy constants.
func DefaultPolicies() Policies {
	return Policies{
		GateThreshold:        0.9777,
		ExperimentsPerCycle:  3,
		RollforwardThreshold: 0.002,
		StopThreshold:        0.999,
	}
}
