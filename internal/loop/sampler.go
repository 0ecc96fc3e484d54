package loop

import (
	"math/rand"
	"sync"
)

// OutcomeSampler turns an experiment's expected gain into a simulated
// actual gain. Implemented by UniformSampler (production) and
// FixedSampler (tests).
type OutcomeSampler interface {
	Sample(expectedGain float64) float64
}

// UniformSampler draws the actual gain uniformly from
// [0, expectedGain*1.5].
//
// Thread-safety: safe for concurrent use via internal mutex, though the
// single-writer loop only ever calls it from one goroutine.
type UniformSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformSampler creates a sampler seeded with seed. Runs that want
// non-reproducible outcomes seed from the clock.
func NewUniformSampler(seed int64) *UniformSampler {
	return &UniformSampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample returns a uniform draw from [0, expectedGain*1.5].
func (s *UniformSampler) Sample(expectedGain float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * expectedGain * 1.5
}

// FixedSampler returns predetermined gains in order, for deterministic
// tests.
//
// Panics when the gains are exhausted: a test drawing more samples than it
// provided is a test bug, and failing fast beats silently recycling.
type FixedSampler struct {
	mu    sync.Mutex
	gains []float64
	idx   int
}

// NewFixedSampler creates a sampler that returns gains in order.
func NewFixedSampler(gains ...float64) *FixedSampler {
	return &FixedSampler{gains: gains}
}

// Sample returns the next predetermined gain.
func (s *FixedSampler) Sample(float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx >= len(s.gains) {
		panic("loop: FixedSampler exhausted")
	}
	g := s.gains[s.idx]
	s.idx++
	return g
}
