// Package loader provides the built-in loader implementations.
//
// Three kinds ship by default:
//
//   - "file": reads a YAML document named by config.path
//   - "factory": evaluates a named Go constructor in a sandboxed
//     interpreter with a stdlib-only import whitelist
//   - "remote": performs a bounded-timeout HTTP fetch, decoding JSON and
//     falling back to raw text
//
// Every loader honors the registry.Loader contract: Build never raises and
// never returns a Go error for load failures; missing config, unreadable
// resources, decode failures, and transport/timeout failures all surface
// as the Err arm of the Result.
package loader
