package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack encodes with MessagePack. Snapshots are smaller and faster to
// decode than JSON, but no longer human-readable; integers round-trip as
// int64/uint64 rather than float64.
type Msgpack struct{}

// Marshal encodes the value to MessagePack.
func (Msgpack) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

// Unmarshal decodes the MessagePack data into v.
func (Msgpack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// Name returns the unique name of the codec ("msgpack").
func (Msgpack) Name() string { return "msgpack" }
