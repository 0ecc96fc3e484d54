// Package loop implements the reflect -> plan -> act -> learn
// self-improvement cycle.
//
// The loop is single-threaded and fully synchronous: each phase completes
// before the next begins, and RunCycle blocks its caller for the whole
// cycle. No state crosses phase boundaries except the snapshot captured at
// reflect and the experiment list captured at plan; the monotonic counters
// (cycles, experiments, improvements kept) are owned by the Loop and
// mutated only inside RunCycle.
//
// Experiment outcomes are simulated. The randomness is isolated behind the
// OutcomeSampler interface so tests substitute a deterministic stub, in
// the same spirit the run token generator is swappable.
package loop
