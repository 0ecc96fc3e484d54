package metrics

import "time"

// Snapshot is a point-in-time reading of the system. It is recomputed
// fresh on every reflect phase and never stored except via the audit log.
type Snapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	DaysRemaining float64   `json:"days_remaining"` // >= 0
	Awareness     float64   `json:"awareness"`      // [0,100]
	Fitness       float64   `json:"fitness"`        // [0,1]
	GateOpen      bool      `json:"gate_open"`
}

// ComputeSnapshot aggregates the awareness vector and derives the current
// fitness and gate status.
//
// The base policy is self-referential: progress, trust, and coherence are
// all fed from the aggregated awareness ratio. Callers needing decoupled
// inputs use Fitness directly.
func (c Config) ComputeSnapshot(now time.Time) Snapshot {
	ratio := c.awarenessRatio()
	fitness := c.Fitness(ratio, ratio, ratio, c.Decay)

	days := c.Omega.Sub(now).Seconds() / 86400
	if days < 0 {
		days = 0
	}

	return Snapshot{
		Timestamp:     now,
		DaysRemaining: days,
		Awareness:     ratio * 100,
		Fitness:       fitness,
		GateOpen:      fitness >= c.GateThreshold,
	}
}

// awarenessRatio returns mean(Awareness)/100, clamped to [0,1]. An empty
// vector reads as 0.
func (c Config) awarenessRatio() float64 {
	if len(c.Awareness) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range c.Awareness {
		sum += v
	}
	return clamp01(sum / (100 * float64(len(c.Awareness))))
}
