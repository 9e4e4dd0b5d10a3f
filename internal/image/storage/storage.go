package storage

import (
	"context"
	"io"
)

// Store persists receipt blobs. Keys are opaque relative paths chosen by
// the image service; Save returns the public URL the client renders.
type Store interface {
	Save(ctx context.Context, key string, contents io.Reader) (url string, err error)
	Delete(ctx context.Context, key string) error
}
