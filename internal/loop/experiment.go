package loop

// Experiment is a proposed change with an expected fitness gain. Produced
// by the plan phase; immutable.
type Experiment struct {
	Type         string  `json:"type"`
	Description  string  `json:"description"`
	ExpectedGain float64 `json:"expected_gain"`
}

// ExperimentResult is a simulated experiment outcome, produced by act.
type ExperimentResult struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Executed    bool    `json:"executed"`
	ActualGain  float64 `json:"actual_gain"`
}

// belowGateExperiments is the fixed set planned while fitness sits under
// the gate threshold: gate passage comes first.
var belowGateExperiments = []Experiment{
	{
		Type:         "expand_manifest",
		Description:  "Add high-value components to the manifest",
		ExpectedGain: 0.003,
	},
	{
		Type:         "optimize_loaders",
		Description:  "Tune loader performance and caching",
		ExpectedGain: 0.002,
	},
	{
		Type:         "refine_metrics",
		Description:  "Adjust compression parameters",
		ExpectedGain: 0.001,
	},
}

// aboveGateExperiments is the fixed set planned once the gate is open:
// explore and optimize.
var aboveGateExperiments = []Experiment{
	{
		Type:         "discover_components",
		Description:  "Search for new components to register",
		ExpectedGain: 0.002,
	},
	{
		Type:         "tune_awareness",
		Description:  "Rebalance awareness vector dimensions",
		ExpectedGain: 0.001,
	},
	{
		Type:         "cache_optimization",
		Description:  "Cache component materialization results",
		ExpectedGain: 0.001,
	},
}
