// Package audit is the append-only event sink for the self-improvement
// loop.
//
// Two sinks implement the Log interface: a newline-delimited JSON file
// (the primary interchange format) and a SQLite store for durable
// deployments. Both only ever append; records are never rewritten or
// truncated, and readers recover history by replaying from the start. A
// process crash mid-append may leave a torn final line in the file sink;
// the replay reader discards an unparsable trailing line for exactly that
// reason.
//
// Event IDs are content-addressed: a SHA-256 over a canonical-JSON
// rendering of the event's identifying fields. Replaying the same run
// therefore produces the same IDs, which is what lets the SQLite sink
// deduplicate on conflict.
package audit
