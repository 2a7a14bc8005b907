package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MasonSandau/ActiveDB/codec"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	requireSampleSnapshot(t, loaded)

	// A later save replaces the previous snapshot.
	next := sampleSnapshot()
	delete(next, "logs")
	require.NoError(t, store.Save(ctx, next))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.NotContains(t, loaded, "logs")
}

func TestMemoryStore_CustomCodec(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(codec.Msgpack{})

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	requireSampleSnapshot(t, loaded)
}
