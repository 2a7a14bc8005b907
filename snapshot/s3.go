package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MasonSandau/ActiveDB/codec"
	"github.com/MasonSandau/ActiveDB/engine"
)

// S3Client is the subset of the S3 API the store needs. *s3.Client
// satisfies it; tests can substitute a fake.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store persists snapshots as a single object. Each Save is one
// PutObject, so a reader sees either the previous snapshot or the new one,
// never a torn write.
type S3Store struct {
	client S3Client
	bucket string
	key    string
	codec  codec.Codec
}

// S3Options configures an S3Store.
type S3Options struct {
	// Codec encodes the snapshot. Defaults to codec.Default.
	Codec codec.Codec
}

// NewS3Store creates an S3Store for the given object.
func NewS3Store(client S3Client, bucket, key string, optFns ...func(o *S3Options)) *S3Store {
	opts := S3Options{Codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return &S3Store{client: client, bucket: bucket, key: key, codec: opts.Codec}
}

func (s *S3Store) source() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Load implements Store.
func (s *S3Store) Load(ctx context.Context) (engine.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		var nsb *types.NoSuchBucket
		if errors.As(err, &nsb) {
			return nil, ErrNotFound
		}
		return nil, &DecodeError{Source: s.source(), cause: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &DecodeError{Source: s.source(), cause: err}
	}

	var snap engine.Snapshot
	if err := s.codec.Unmarshal(data, &snap); err != nil {
		return nil, &DecodeError{Source: s.source(), cause: err}
	}
	return snap, nil
}

// Save implements Store.
func (s *S3Store) Save(ctx context.Context, snap engine.Snapshot) error {
	data, err := s.codec.Marshal(snap)
	if err != nil {
		return &WriteError{Source: s.source(), cause: err}
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return &WriteError{Source: s.source(), cause: err}
	}
	return nil
}
