package registry

import (
	"log/slog"
	"sync"

	"github.com/roach88/ankh/internal/manifest"
)

// Store holds the registered components and the kind->loader bindings for
// a single application instance.
type Store struct {
	mu         sync.RWMutex
	components map[string]Component
	order      []string // insertion order of first registration per uid
	loaders    map[string]Loader
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		components: make(map[string]Component),
		loaders:    make(map[string]Loader),
	}
}

// RegisterManifest registers entries in document order, keyed by id.
// Re-registering an id overwrites the prior component (last-write-wins).
//
// An entry missing id or kind fails with *manifest.Error. Registration is
// deliberately not transactional: entries processed before the failing one
// remain registered. File-level loads are validated wholesale before they
// reach this point, so partial state only arises from programmatic
// registration.
func (s *Store) RegisterManifest(entries []manifest.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range entries {
		if e.ID == "" {
			return &manifest.Error{Index: i, Field: "id", Message: "required field is missing or empty"}
		}
		if e.Kind == "" {
			return &manifest.Error{Index: i, ID: e.ID, Field: "kind", Message: "required field is missing or empty"}
		}

		cfg := make(map[string]any, len(e.Config))
		for k, v := range e.Config {
			cfg[k] = v
		}

		if _, exists := s.components[e.ID]; !exists {
			s.order = append(s.order, e.ID)
		}
		s.components[e.ID] = Component{UID: e.ID, Kind: e.Kind, Config: cfg}
	}

	slog.Debug("manifest registered", "entries", len(entries), "components", len(s.components))
	return nil
}

// Bind registers l as the loader for kind. At most one binding exists per
// kind; re-binding overwrites the prior loader without error.
func (s *Store) Bind(kind string, l Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaders[kind] = l
	slog.Debug("loader bound", "kind", kind)
}

// Count returns the number of registered components.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.components)
}

// List returns all component ids in first-registration order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Get returns the component registered under uid.
func (s *Store) Get(uid string) (Component, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.components[uid]
	return c, ok
}

// Kinds returns the number of bound loader kinds.
func (s *Store) Kinds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loaders)
}
