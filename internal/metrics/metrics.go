package metrics

import (
	"math"
	"time"
)

// Config holds every scoring constant. Instances are treated as immutable:
// construct one (usually via DefaultConfig), never mutate it afterward.
type Config struct {
	// Phi is the compression base. Must be > 1.
	Phi float64

	// Sigma is a global scaling factor applied to fitness.
	Sigma float64

	// Depth is the default compression depth used by Fitness.
	Depth int

	// Decay is the entropy factor subtracted from fitness, in [0,1].
	Decay float64

	// GateThreshold is the minimum fitness for gate passage.
	GateThreshold float64

	// Omega is the fixed target timestamp DaysRemaining counts down to.
	Omega time.Time

	// Awareness is the base-policy awareness vector, each dimension in
	// [0,100]. Snapshot aggregates it into a single ratio.
	Awareness []float64
}

// DefaultConfig returns the base scoring policy.
func DefaultConfig() Config {
	return Config{
		Phi:           1.618033988749895,
		Sigma:         1.0,
		Depth:         3,
		Decay:         0.00023,
		GateThreshold: 0.9777,
		Omega:         time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
		Awareness:     []float64{85, 62, 65, 78, 100, 100, 100, 100, 100, 95, 100, 100},
	}
}

// clamp01 bounds x to [0,1]. NaN clamps to 0.
func clamp01(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x >= 0 {
		return x
	}
	return 0
}

// Compress applies depth sequential rounds of f(x) = 1 - (1-x)/phi,
// clamping to [0,1] at every step.
//
// Properties (for phi > 1):
//   - Compress(0, d) == 0 and Compress(1, d) == 1 for any d
//   - strictly increasing in x for fixed d > 0
//   - strictly increasing in d for fixed x in (0,1)
func (c Config) Compress(x float64, depth int) float64 {
	x = clamp01(x)
	for i := 0; i < depth; i++ {
		x = clamp01(1 - (1-x)/c.Phi)
	}
	return x
}

// Fitness combines progress, trust, coherence, and decay into a single
// bounded score:
//
//	sigma * g(progress^0.5) * g(trust^0.3) * g(coherence^0.2) * (1 - decay)
//
// where g compresses at the default depth. The result is guaranteed to be
// in [0,1] for inputs in [0,1] and decay in [0,1].
func (c Config) Fitness(progress, trust, coherence, decay float64) float64 {
	f := c.Sigma *
		c.Compress(math.Pow(clamp01(progress), 0.5), c.Depth) *
		c.Compress(math.Pow(clamp01(trust), 0.3), c.Depth) *
		c.Compress(math.Pow(clamp01(coherence), 0.2), c.Depth) *
		(1 - clamp01(decay))
	return clamp01(f)
}

// Pack folds a slice of values in [0,1] into one compressed composite:
// the compressed geometric mean of the per-value compressions. Returns 0
// for an empty slice.
func (c Config) Pack(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	product := 1.0
	for _, v := range values {
		product *= c.Compress(v, c.Depth)
	}
	return c.Compress(math.Pow(product, 1/float64(len(values))), c.Depth)
}
