package usecase

import (
	"context"

	"hyperstream/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateStreamInput carries the editable stream settings. Nil pointers leave
// the current value untouched.
type UpdateStreamInput struct {
	UserID              uuid.UUID
	Name                *string
	ThumbnailURL        *string
	IsChatEnabled       *bool
	IsChatDelayed       *bool
	IsChatFollowersOnly *bool
}

// StreamUsecase defines the stream metadata operations.
type StreamUsecase interface {
	// GetByUserID loads the stream owned by the given user.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Stream, error)

	// Update applies the non-nil fields to the caller's own stream.
	Update(ctx context.Context, input UpdateStreamInput) (*entity.Stream, error)
}
