package model

import (
	"context"
	"io"
	"time"
)

// StoredObject describes one object of the report store.
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is an object store for exported reports.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]StoredObject, error)
}
