// Package storage provides the gocloud.dev blob implementation of the
// domain's FileStorage interface. The bucket URL scheme selects the backend
// (file:// for local development, s3:// in production).
package storage

import (
	"context"
	"io"

	"hyperstream/config"
	"hyperstream/internal/domain/lifecycle"
	"hyperstream/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

type blobStorage struct {
	bucket *blob.Bucket
}

// Params defines the dependencies for the blob storage constructor.
type Params struct {
	fx.In

	Config    *config.Config
	Lifecycle fx.Lifecycle
}

// New opens the configured bucket and registers its close on shutdown.
func New(params Params) (service.FileStorage, error) {
	if params.Config.Storage == nil || params.Config.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket url is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bucket")
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bucket.Close()
		},
	})

	return &blobStorage{bucket: bucket}, nil
}

func (s *blobStorage) Upload(ctx context.Context, key, contentType string, content io.Reader) (string, error) {
	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to open bucket writer")
	}

	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()

		return "", errors.Wrap(err, "failed to write object")
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to commit object")
	}

	signed, err := s.bucket.SignedURL(ctx, key, &blob.SignedURLOptions{})
	if err == nil {
		return signed, nil
	}

	// Local file buckets cannot sign URLs; fall back to a plain key path.
	return "/uploads/" + key, nil
}

func (s *blobStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrap(err, "failed to delete object")
	}

	return nil
}
