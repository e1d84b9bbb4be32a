package attack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ArtifactStore archives run artifacts: synthesized attack audio and
// degraded probes. Keys are forward-slash separated and relative to
// the store root.
type ArtifactStore interface {
	// Put writes one artifact, truncating any previous version.
	Put(ctx context.Context, key string, r io.Reader) error

	// Get opens an artifact for reading. Returns an error wrapping
	// os.ErrNotExist for missing keys.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// DirStore keeps artifacts in a local directory.
type DirStore struct {
	root string
}

// NewDirStore creates a directory-backed artifact store.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (d *DirStore) Put(ctx context.Context, key string, r io.Reader) error {
	path := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *DirStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.root, filepath.FromSlash(key)))
}

// S3Client abstracts the S3 API operations used by S3Store. The
// s3.Client type satisfies this interface.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store archives artifacts in Amazon S3 or any S3-compatible object
// store. The caller configures the client (credentials, region,
// endpoint); prefix is prepended to all keys, pass "" for none.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed artifact store.
func NewS3Store(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
		Body:   r,
	})
	return err
}

func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("attack: artifact %s: %w", key, os.ErrNotExist)
		}
		return nil, err
	}
	return out.Body, nil
}

// isS3NotFound reports whether err indicates a missing S3 object.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

var (
	_ ArtifactStore = (*DirStore)(nil)
	_ ArtifactStore = (*S3Store)(nil)
)
