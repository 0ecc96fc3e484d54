package registry

import (
	"context"
	"fmt"
)

// NotFoundError reports a failed lookup during materialization: either the
// component uid is unknown, or the component's kind has no bound loader.
type NotFoundError struct {
	What string // "component" or "loader"
	Key  string // the uid or the kind
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Key)
}

// Materialize resolves uid to a component, resolves the loader bound to
// its kind, and invokes the loader. The dispatch is transparent: it never
// inspects or interprets the payload.
//
// Lookup failures return *NotFoundError. Everything past the lookup stage
// is the loader's business and arrives inside the Result.
func (s *Store) Materialize(ctx context.Context, uid string) (Result, error) {
	s.mu.RLock()
	c, ok := s.components[uid]
	if !ok {
		s.mu.RUnlock()
		return Result{}, &NotFoundError{What: "component", Key: uid}
	}
	l, ok := s.loaders[c.Kind]
	s.mu.RUnlock()
	if !ok {
		return Result{}, &NotFoundError{What: "loader", Key: c.Kind}
	}

	// Build runs outside the lock: loaders may block on I/O.
	return l.Build(ctx, c), nil
}
