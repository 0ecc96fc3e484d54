package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/roach88/ankh/internal/registry"
)

// DefaultFactoryTimeout bounds a single factory evaluation.
const DefaultFactoryTimeout = 5 * time.Second

// allowedFactoryImports is the stdlib whitelist for factory source.
// Filesystem, network, exec, and unsafe packages are deliberately absent.
var allowedFactoryImports = map[string]bool{
	"bytes":           true,
	"encoding/base64": true,
	"encoding/json":   true,
	"fmt":             true,
	"math":            true,
	"path":            true,
	"regexp":          true,
	"sort":            true,
	"strconv":         true,
	"strings":         true,
	"time":            true,
}

// sandboxSymbols is stdlib.Symbols cut down to the whitelist. The
// interpreter never sees symbols outside it, so a disallowed import fails
// resolution inside Eval no matter how the import clause is written
// (plain, aliased, or parenthesized).
var sandboxSymbols = func() interp.Exports {
	out := make(interp.Exports, len(allowedFactoryImports))
	for key, symbols := range stdlib.Symbols {
		// Keys are import paths suffixed with the package name,
		// e.g. "encoding/json/json".
		path := key
		if i := strings.LastIndex(key, "/"); i >= 0 {
			path = key[:i]
		}
		if allowedFactoryImports[path] {
			out[key] = symbols
		}
	}
	return out
}()

// Factory materializes a component by evaluating Go source in a sandboxed
// interpreter and invoking a named constructor expression.
//
// Expected config:
//
//	factory: Go source declaring the constructor (required)
//	entry:   constructor invocation expression, e.g. New("x") (optional;
//	         when absent the value of the source evaluation is the payload)
//	timeout: evaluation timeout in seconds (default 5)
type Factory struct{}

// Build resolves and invokes the configured constructor. Resolution
// failures, disallowed imports, evaluation errors, and timeouts all report
// as the error arm of the result.
func (Factory) Build(ctx context.Context, c registry.Component) registry.Result {
	src := stringConfig(c.Config, "factory")
	if src == "" {
		return registry.Failure(c, "missing required config 'factory'")
	}

	entry := stringConfig(c.Config, "entry")
	timeout := durationConfig(c.Config, "timeout", DefaultFactoryTimeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type evalOut struct {
		payload any
		err     error
	}
	done := make(chan evalOut, 1)

	go func() {
		i := interp.New(interp.Options{})
		if err := i.Use(sandboxSymbols); err != nil {
			done <- evalOut{err: fmt.Errorf("load stdlib symbols: %w", err)}
			return
		}

		v, err := i.Eval(src)
		if err != nil {
			done <- evalOut{err: fmt.Errorf("factory source error: %w", err)}
			return
		}
		if entry != "" {
			v, err = i.Eval(entry)
			if err != nil {
				done <- evalOut{err: fmt.Errorf("factory invocation error: %w", err)}
				return
			}
		}

		var payload any
		if v.IsValid() {
			payload = v.Interface()
		}
		done <- evalOut{payload: payload}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return registry.Failure(c, out.err.Error())
		}
		return registry.Success(c, map[string]any{
			"entry":  entry,
			"result": out.payload,
		})
	case <-ctx.Done():
		return registry.Failure(c, fmt.Sprintf("factory evaluation timed out: %v", ctx.Err()))
	}
}
