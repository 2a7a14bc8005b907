package snapshot

import (
	"context"
	"os"

	bolt "go.etcd.io/bbolt"

	"github.com/MasonSandau/ActiveDB/codec"
	"github.com/MasonSandau/ActiveDB/engine"
)

// BoltStore persists snapshots in a bbolt file: one bucket per table, one
// codec-encoded value per row. Unlike FileStore, each Save is a single
// transaction, so readers never observe a half-written snapshot.
type BoltStore struct {
	path  string
	codec codec.Codec
	mode  os.FileMode
}

// BoltOptions configures a BoltStore.
type BoltOptions struct {
	// Codec encodes individual rows. Defaults to codec.Default.
	Codec codec.Codec

	// Mode is the database file mode. Defaults to 0600.
	Mode os.FileMode
}

// NewBoltStore creates a BoltStore writing to path.
func NewBoltStore(path string, optFns ...func(o *BoltOptions)) *BoltStore {
	opts := BoltOptions{
		Codec: codec.Default,
		Mode:  0600,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return &BoltStore{path: path, codec: opts.Codec, mode: opts.Mode}
}

// Load implements Store.
func (s *BoltStore) Load(ctx context.Context) (engine.Snapshot, error) {
	// bolt.Open creates missing files, so probe first.
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, ErrNotFound
	}

	db, err := bolt.Open(s.path, s.mode, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, &DecodeError{Source: s.path, cause: err}
	}
	defer db.Close()

	snap := make(engine.Snapshot)
	err = db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			rows := make(map[string]engine.Row)
			err := b.ForEach(func(k, v []byte) error {
				var row engine.Row
				if err := s.codec.Unmarshal(v, &row); err != nil {
					return err
				}
				rows[string(k)] = row
				return nil
			})
			if err != nil {
				return err
			}
			snap[string(name)] = rows
			return nil
		})
	})
	if err != nil {
		return nil, &DecodeError{Source: s.path, cause: err}
	}
	return snap, nil
}

// Save implements Store.
func (s *BoltStore) Save(ctx context.Context, snap engine.Snapshot) error {
	db, err := bolt.Open(s.path, s.mode, nil)
	if err != nil {
		return &WriteError{Source: s.path, cause: err}
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		// Replace semantics: drop stale buckets from earlier snapshots.
		var stale [][]byte
		err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			stale = append(stale, append([]byte(nil), name...))
			return nil
		})
		if err != nil {
			return err
		}
		for _, name := range stale {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}

		for table, rows := range snap {
			b, err := tx.CreateBucket([]byte(table))
			if err != nil {
				return err
			}
			for key, row := range rows {
				data, err := s.codec.Marshal(row)
				if err != nil {
					return err
				}
				if err := b.Put([]byte(key), data); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return &WriteError{Source: s.path, cause: err}
	}
	return nil
}
