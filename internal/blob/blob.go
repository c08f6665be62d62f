// Package blob is the object-storage boundary. The ingestion service writes
// document bytes here under randomly generated keys; metadata lives in the
// relational store.
package blob

import (
	"context"
	"io"
)

// Store abstracts the object store so S3 can be swapped for MinIO or an
// in-memory fake in tests.
//
// Error contract:
//   - Get returns sentinel.ErrNotFound (wrapped) when the key does not exist.
//   - Delete tolerates a missing key and returns nil.
//   - Anything else is an infrastructure failure the caller maps to
//     CodeStorageUnavailable.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
