package snapshot

import (
	"context"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/MasonSandau/ActiveDB/codec"
	"github.com/MasonSandau/ActiveDB/engine"
)

// FileStore persists snapshots to a single local file.
//
// The write is deliberately not atomic: there is no temp-file-and-rename,
// so a crash mid-write can leave a truncated file. This is best-effort
// persistence, not a durability guarantee.
type FileStore struct {
	path     string
	codec    codec.Codec
	compress bool
	mode     os.FileMode
}

// FileOptions configures a FileStore.
type FileOptions struct {
	// Codec encodes the snapshot. Defaults to codec.Default.
	Codec codec.Codec

	// Compress wraps the encoded snapshot in a zstd frame.
	Compress bool

	// Mode is the file mode for newly written snapshots. Defaults to 0644.
	Mode os.FileMode
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string, optFns ...func(o *FileOptions)) *FileStore {
	opts := FileOptions{
		Codec: codec.Default,
		Mode:  0644,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return &FileStore{
		path:     path,
		codec:    opts.Codec,
		compress: opts.Compress,
		mode:     opts.Mode,
	}
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (engine.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, &DecodeError{Source: s.path, cause: err}
	}

	if s.compress {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, &DecodeError{Source: s.path, cause: err}
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, &DecodeError{Source: s.path, cause: err}
		}
	}

	var snap engine.Snapshot
	if err := s.codec.Unmarshal(data, &snap); err != nil {
		return nil, &DecodeError{Source: s.path, cause: err}
	}
	return snap, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, snap engine.Snapshot) error {
	data, err := s.codec.Marshal(snap)
	if err != nil {
		return &WriteError{Source: s.path, cause: err}
	}

	if s.compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return &WriteError{Source: s.path, cause: err}
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return &WriteError{Source: s.path, cause: err}
		}
	}

	if err := os.WriteFile(s.path, data, s.mode); err != nil {
		return &WriteError{Source: s.path, cause: err}
	}
	return nil
}
