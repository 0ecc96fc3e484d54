package registry

import "context"

// Component is a registered unit of work: a unique id, a kind selecting
// the loader, and an opaque config mapping. Components are immutable after
// registration; the Store owns them exclusively.
type Component struct {
	UID    string
	Kind   string
	Config map[string]any
}

// Result is the outcome of materializing one component. Exactly one of
// Payload and Err is populated; loaders never let an error escape as a Go
// error across the dispatch boundary.
type Result struct {
	Component string `json:"component"`
	Kind      string `json:"kind"`
	Payload   any    `json:"payload,omitempty"`
	Err       string `json:"error,omitempty"`
}

// OK reports whether the materialization succeeded.
func (r Result) OK() bool {
	return r.Err == ""
}

// Success builds the payload arm of a Result for c.
func Success(c Component, payload any) Result {
	return Result{Component: c.UID, Kind: c.Kind, Payload: payload}
}

// Failure builds the error arm of a Result for c. The message should be
// human-readable; uid and kind ride along so callers can always attribute
// the failure.
func Failure(c Component, message string) Result {
	return Result{Component: c.UID, Kind: c.Kind, Err: message}
}

// Loader materializes components of one kind.
//
// Build must never panic or return load failures out-of-band: missing
// config, unreadable resources, decode and transport errors all surface as
// the Err arm of the Result. Implementations performing blocking I/O must
// honor ctx and bound themselves with a timeout.
type Loader interface {
	Build(ctx context.Context, c Component) Result
}
