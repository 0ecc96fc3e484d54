// Package registry owns the component table and the kind->loader bindings.
//
// The Store maps unique component ids to immutable Components and kind
// strings to Loader implementations held in a typed map; there is no
// runtime name resolution. Materialize is the single dispatch point: it
// resolves a component, resolves the loader bound to its kind, and hands
// the component over. All loader-level failures travel inside the returned
// Result, never as Go errors, so callers branch on the result shape alone.
//
// Thread-safety: mutations (RegisterManifest, Bind) are serialized by a
// mutex; read-only queries and materialize-initiated lookups may proceed
// concurrently once mutation is complete.
package registry
