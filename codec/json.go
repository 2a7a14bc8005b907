package codec

import "encoding/json"

// JSON is the standard-library JSON codec. It is the most portable option
// and produces the canonical snapshot shape:
//
//	{"<table>": {"<row key>": {"<field>": <value>, ...}, ...}, ...}
//
// Note that decoding into a row map yields float64 for all numbers; the
// engine coerces query counters accordingly.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
