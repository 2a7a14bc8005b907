// Package engine implements the table store and its reorganization engine.
//
// All reads and writes are serialized behind a single Coordinator: an
// exclusive lock plus a condition variable that gates operations while a
// reorganization is in flight. The Reorganizer snapshots the table map
// into a shadow copy under the lock, reorders the shadow outside the lock,
// and swaps it back in with an O(1) pointer assignment, so callers observe
// the store as either wholly pre-sort or wholly post-sort.
package engine
