package port

import (
	"context"
	"fmt"
	"io"
	"time"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket       string
	Path         string
	Body         io.Reader
	ContentType  string
	CacheControl string
	Upsert       bool
	Size         int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Path string
	ID   string
}

// ObjectStorage abstracts the remote object store.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	GetPublicURL(ctx context.Context, bucket, path string) (string, error)
	CreateSignedURL(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error)
	ListBuckets(ctx context.Context) ([]string, error)
	Remove(ctx context.Context, bucket string, paths []string) error
}

// PolicyError marks an upload rejection caused by the store's authorization
// rules. It is terminal: retrying cannot succeed without an external change.
type PolicyError struct {
	Bucket string
	Path   string
	Err    error
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("storage policy rejected %s/%s: %v", e.Bucket, e.Path, e.Err)
}

func (e *PolicyError) Unwrap() error { return e.Err }

// EmptyPayloadError marks the store acknowledging a write of zero bytes,
// which signals a bad byte-acquisition strategy rather than a network fault.
type EmptyPayloadError struct {
	Bucket string
	Path   string
}

func (e *EmptyPayloadError) Error() string {
	return fmt.Sprintf("empty payload received for %s/%s", e.Bucket, e.Path)
}
