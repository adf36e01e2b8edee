package core

// IDAllocator hands out dense, non-negative identifiers 0..N-1 in allocation
// order. A scene keeps two independent allocators (object ids and trans ids)
// rather than one process-wide counter, so identifiers are reproducible
// across renders of the same scene and never leak across scenes rendered
// concurrently.
type IDAllocator struct {
	next int
}

// NewIDAllocator creates an allocator starting at 0.
func NewIDAllocator() *IDAllocator { return &IDAllocator{} }

// Next returns the next identifier and advances the allocator.
func (a *IDAllocator) Next() int {
	id := a.next
	a.next++
	return id
}

// Count returns how many identifiers have been allocated so far.
func (a *IDAllocator) Count() int { return a.next }
