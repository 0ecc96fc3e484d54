// Package metrics implements the fitness scoring engine.
//
// All scoring flows through a single compression primitive: repeated
// application of f(x) = 1 - (1-x)/phi, clamped to [0,1] at every step.
// Compression is monotonic in both the input and the depth, deeper
// compression pushes values toward 1 without ever reaching past it.
//
// Every tunable constant (phi, depth, decay, thresholds, the awareness
// vector, the omega target date) lives in an immutable Config passed to
// callers at construction. There is no package-level mutable state.
package metrics
