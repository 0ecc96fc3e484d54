// Package manifest loads and validates component manifests.
//
// A manifest is an ordered collection of component records, each carrying a
// unique id, a kind, and an optional opaque config mapping. The on-disk
// format is YAML or JSON, sniffed by file extension. Before any entry
// reaches the registry, the whole document is validated against an embedded
// CUE schema, so file-level loads fail as a unit with a precise error.
package manifest
