package registry

import "sync/atomic"

// Store publishes the current snapshot. Readers grab a reference with
// Current and keep using it even if a reload swaps in a newer one.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns an empty store. Current is nil until the first Swap.
func NewStore() *Store {
	return &Store{}
}

// Current returns the active snapshot, or nil if none has been loaded.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap installs next and returns the snapshot it replaced.
func (s *Store) Swap(next *Snapshot) *Snapshot {
	return s.current.Swap(next)
}
