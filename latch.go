package latchtree

import "sync"

// latch is a reader/writer latch guarding either a single node's content
// or the tree's root pointer. Writers are mutually exclusive with readers
// and with each other; readers may run concurrently.
type latch struct {
	mu sync.RWMutex
}

// AcquireShared blocks until a shared latch is held.
func (l *latch) AcquireShared() { l.mu.RLock() }

// TryAcquireShared attempts to acquire a shared latch without blocking.
// It is used only for sideways iterator movement, never for the top-down
// descent.
func (l *latch) TryAcquireShared() bool { return l.mu.TryRLock() }

// ReleaseShared releases a previously acquired shared latch.
func (l *latch) ReleaseShared() { l.mu.RUnlock() }

// AcquireExclusive blocks until an exclusive latch is held.
func (l *latch) AcquireExclusive() { l.mu.Lock() }

// ReleaseExclusive releases a previously acquired exclusive latch.
func (l *latch) ReleaseExclusive() { l.mu.Unlock() }
