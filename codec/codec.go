// Package codec centralizes snapshot encoding.
//
// Codec selection is a compatibility boundary: a snapshot written with one
// codec may not decode with another, so stores that persist bytes should
// pin the codec they were created with.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "msgpack":
		return Msgpack{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
