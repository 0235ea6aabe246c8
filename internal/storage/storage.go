package storage

import (
	"context"
	"io"
)

// Store persists avatar files. Save returns the public path recorded on the
// user row; Remove is given that same path back and must treat a missing
// object as success.
type Store interface {
	Save(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, publicPath string) error
}
