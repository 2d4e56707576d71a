package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSAdapter implements Storage using Google Cloud Storage.
type GCSAdapter struct {
	client *gcs.Client
}

// GCSOptions configures GCS client initialization.
type GCSOptions struct {
	ClientOptions []option.ClientOption
}

// NewGCS creates a client from application default credentials unless opts override them.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	client, err := gcs.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, err
	}
	return &GCSAdapter{client: client}, nil
}

func (g *GCSAdapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.Metadata = opts.Metadata

	if _, err := io.Copy(w, r); err != nil {
		return ObjectInfo{}, errors.Join(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, err
	}

	attrs := w.Attrs()
	if attrs == nil {
		return ObjectInfo{Bucket: bucket, Key: key, Size: opts.Size, ContentType: opts.ContentType, Metadata: opts.Metadata}, nil
	}
	return ObjectInfo{
		Bucket:      attrs.Bucket,
		Key:         attrs.Name,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		Metadata:    attrs.Metadata,
		UpdatedAt:   attrs.Updated,
	}, nil
}

func (g *GCSAdapter) Close() error {
	return g.client.Close()
}
