package engine

import "sync"

// Coordinator serializes all store access behind one exclusive lock and
// gates a subset of operations behind a reorganization-in-progress flag
// using a condition variable layered on the same lock.
//
// Gating policy: every mutating operation (add table, add row, increment)
// and credential lookups run through Gated and wait out an in-flight
// reorganization, so nothing mutates the active table map while the shadow
// copy exists and no mutation is lost at swap time. Plain row reads only
// take the lock: the swap is atomic under it, so a reader can never
// observe a half-sorted table.
//
// A Coordinator is scoped to one Store and passed explicitly to the
// components that share it; there is no process-wide instance.
type Coordinator struct {
	mu           sync.Mutex
	cond         *sync.Cond
	reorganizing bool
}

// NewCoordinator creates a Coordinator with its condition variable bound
// to the exclusive lock.
func NewCoordinator() *Coordinator {
	c := &Coordinator{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// WithLock runs op under the exclusive lock. The lock is released on every
// exit path, including a panic inside op.
func (c *Coordinator) WithLock(op func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return op()
}

// Gated blocks while a reorganization is active (releasing the lock while
// waiting), then runs op under the lock. Callers resume only after the
// swap has completed, so they always observe the post-swap store.
func (c *Coordinator) Gated(op func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.reorganizing {
		c.cond.Wait()
	}
	return op()
}

// Reorganizing reports whether a reorganization is currently active.
func (c *Coordinator) Reorganizing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reorganizing
}

// beginReorganization sets the active flag and runs the snapshot copy
// under the lock. Gated callers are blocked only for the duration of
// copyFn, not the sort that follows.
func (c *Coordinator) beginReorganization(copyFn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reorganizing = true
	copyFn()
}

// endReorganization runs the swap (or abort cleanup) under the lock,
// clears the active flag, and wakes every gated waiter. It must be reached
// on every reorganization exit path.
func (c *Coordinator) endReorganization(swapFn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	swapFn()
	c.reorganizing = false
	c.cond.Broadcast()
}
