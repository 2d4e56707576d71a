// Package storage writes objects to S3, GCS or MinIO behind one interface.
package storage

import (
	"context"
	"io"
	"time"
)

// Storage stores objects. Reports archived by the service are write-only, so
// reading and listing are left to the buckets' own tooling.
type Storage interface {
	io.Closer

	// PutObject stores data and returns object metadata.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
}

// PutOptions configures upload behavior.
type PutOptions struct {
	// Size is the content length, or -1 when unknown.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}
