package snapshot

import (
	"context"
	"sync"

	"github.com/MasonSandau/ActiveDB/codec"
	"github.com/MasonSandau/ActiveDB/engine"
)

// MemoryStore keeps the encoded snapshot in memory. It exercises the same
// codec path as the file-backed store, which makes it the natural backend
// for tests and short-lived embedded use.
type MemoryStore struct {
	mu    sync.RWMutex
	data  []byte
	codec codec.Codec
}

// NewMemoryStore creates an empty MemoryStore. A nil codec means
// codec.Default.
func NewMemoryStore(c codec.Codec) *MemoryStore {
	if c == nil {
		c = codec.Default
	}
	return &MemoryStore{codec: c}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) (engine.Snapshot, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		return nil, ErrNotFound
	}
	var snap engine.Snapshot
	if err := s.codec.Unmarshal(data, &snap); err != nil {
		return nil, &DecodeError{Source: "memory", cause: err}
	}
	return snap, nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, snap engine.Snapshot) error {
	data, err := s.codec.Marshal(snap)
	if err != nil {
		return &WriteError{Source: "memory", cause: err}
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
