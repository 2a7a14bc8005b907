package snapshot

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

// fakeS3Client is a map-backed stand-in for *s3.Client.
type fakeS3Client struct {
	objects map[string][]byte
}

func newFakeS3Client() *fakeS3Client {
	return &fakeS3Client{objects: make(map[string][]byte)}
}

func (c *fakeS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := c.objects[*params.Bucket+"/"+*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (c *fakeS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	c.objects[*params.Bucket+"/"+*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3Client()
	store := NewS3Store(client, "test-bucket", "snapshots/db.json")

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	require.Contains(t, client.objects, "test-bucket/snapshots/db.json")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	requireSampleSnapshot(t, loaded)
}

func TestS3Store_LoadMissing(t *testing.T) {
	store := NewS3Store(newFakeS3Client(), "test-bucket", "absent.json")

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestS3Store_LoadCorrupt(t *testing.T) {
	client := newFakeS3Client()
	client.objects["test-bucket/bad.json"] = []byte("{not json")

	store := NewS3Store(client, "test-bucket", "bad.json")
	_, err := store.Load(context.Background())

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "s3://test-bucket/bad.json", decodeErr.Source)
}
