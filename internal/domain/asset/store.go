package asset

import (
	"context"
	"time"
)

// Object is a raw storage object as listed by the object store.
type Object struct {
	Name      string
	Size      int64
	UpdatedAt time.Time
}

// ObjectStore abstracts the storage backend holding the image bucket.
type ObjectStore interface {
	List(ctx context.Context, bucket, folder string) ([]Object, error)
	Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error
	Remove(ctx context.Context, bucket string, objectPaths []string) error
	Move(ctx context.Context, bucket, fromPath, toPath string) error
	PublicURL(bucket, objectPath string) string
}

// UsageCounter reports how many records reference each image path, keyed by
// the path inside the bucket.
type UsageCounter interface {
	CountImageUsage(ctx context.Context, objectPaths []string) (map[string]int, error)
}
