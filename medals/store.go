package medals

import "sync"

// Store holds the most recently loaded dataset. It starts empty and is
// replaced wholesale on each successful load.
type Store struct {
	mu      sync.RWMutex
	current *Dataset
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new dataset. The previous dataset is discarded, not
// merged.
func (s *Store) Replace(ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ds
}

// Current returns the loaded dataset, or false if nothing has been loaded.
func (s *Store) Current() (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}
