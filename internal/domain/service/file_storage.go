package service

import (
	"context"
	"io"
)

// FileStorage abstracts the object store holding user-uploaded media.
type FileStorage interface {
	// Upload streams the content to the bucket under the given key and
	// returns a URL the stored object can be served from.
	Upload(ctx context.Context, key, contentType string, content io.Reader) (string, error)

	// Delete removes the object stored under the given key. Deleting a
	// missing object is not an error.
	Delete(ctx context.Context, key string) error
}
