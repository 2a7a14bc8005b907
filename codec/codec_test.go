package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)
			require.Equal(t, name, c.Name())
		})
	}

	_, ok := ByName("protobuf")
	require.False(t, ok)
}

func TestCodecRoundTrip(t *testing.T) {
	payload := map[string]map[string]any{
		"users": {
			"u1": map[string]any{"password": "pw", "query_count": int64(5)},
		},
	}

	for _, name := range []string{"json", "go-json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)

			data, err := c.Marshal(payload)
			require.NoError(t, err)

			var decoded map[string]map[string]map[string]any
			require.NoError(t, c.Unmarshal(data, &decoded))
			require.Contains(t, decoded, "users")
			require.Equal(t, "pw", decoded["users"]["u1"]["password"])

			// JSON codecs decode numbers as float64, msgpack keeps an
			// integer type; either way the value survives.
			require.EqualValues(t, 5, decoded["users"]["u1"]["query_count"])
		})
	}
}

func TestCodecUnmarshalGarbage(t *testing.T) {
	for _, name := range []string{"json", "go-json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			c, _ := ByName(name)
			var out map[string]any
			require.Error(t, c.Unmarshal([]byte{0xc1, 0xff, 0x00}, &out))
		})
	}
}
