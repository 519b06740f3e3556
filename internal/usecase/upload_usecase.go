package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// UploadImageInput carries one multipart image destined for the object store.
type UploadImageInput struct {
	UserID      uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadOutput returns where the stored object can be reached.
type UploadOutput struct {
	URL string `json:"url"`
}

// UploadUsecase defines the media upload operations.
type UploadUsecase interface {
	// UploadImage validates and stores one image, returning its URL.
	UploadImage(ctx context.Context, input UploadImageInput) (*UploadOutput, error)
}
