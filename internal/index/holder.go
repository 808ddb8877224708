package index

import "sync/atomic"

// Holder publishes the active snapshot. Readers call Load and keep using the
// returned value for the whole request; a rebuild replaces it with Swap.
type Holder struct {
	active atomic.Pointer[Index]
}

// Load returns the active snapshot or nil when none has been published.
func (h *Holder) Load() *Index {
	return h.active.Load()
}

// Swap publishes idx and returns the snapshot it replaced.
func (h *Holder) Swap(idx *Index) *Index {
	return h.active.Swap(idx)
}
