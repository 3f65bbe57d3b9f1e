package collection

import "sync"

// Locks is a set of per-collection read-write locks. Ingestion holds the read
// side so concurrent ingests into the same collection proceed in parallel;
// Clear takes the write side so a delete+recreate cannot interleave with an
// in-flight upsert batch sequence.
//
// Locks is safe for concurrent use. Entries are never removed; the set of
// collection names per process is small and bounded by user activity.
type Locks struct {
	mu sync.Mutex
	m  map[string]*sync.RWMutex
}

// NewLocks creates an empty lock set.
func NewLocks() *Locks {
	return &Locks{m: make(map[string]*sync.RWMutex)}
}

// Get returns the lock for the named collection, creating it on first use.
func (l *Locks) Get(name string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rw, ok := l.m[name]; ok {
		return rw
	}
	rw := &sync.RWMutex{}
	l.m[name] = rw
	return rw
}
