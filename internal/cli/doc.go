// Package cli is the ankh command-line control surface.
//
// Two primary modes mirror the engine's halves: "snapshot" is a read-only
// view of the registry and the current fitness reading, and "improve"
// runs a bounded self-improvement loop. "trace" replays an audit log.
// Commands share the root --format and --verbose flags and report
// failures through ExitError so main can map them to exit codes.
package cli
