package usecase

import (
	"context"

	"hyperstream/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateAccountInput carries the editable profile fields. Nil pointers leave
// the current value untouched.
type UpdateAccountInput struct {
	UserID      uuid.UUID
	Username    *string
	Email       *string
	DisplayName *string
	Avatar      *string
	CoverImage  *string
}

// Profile is the public view of a user together with their stream.
type Profile struct {
	User   *entity.AuthIdentity `json:"user"`
	Stream *entity.Stream       `json:"stream"`
}

// UserUsecase defines user lookup and account maintenance operations.
type UserUsecase interface {
	// GetByID loads a user's identity by id.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AuthIdentity, error)

	// GetByUsername loads a user's identity by username.
	GetByUsername(ctx context.Context, username string) (*entity.AuthIdentity, error)

	// GetProfile loads the public profile (identity + stream) by username.
	GetProfile(ctx context.Context, username string) (*Profile, error)

	// GetRecommended lists users for the given user to discover: not yet
	// followed and not blocked, newest first.
	GetRecommended(ctx context.Context, userID uuid.UUID) ([]*entity.AuthIdentity, error)

	// UpdateAccount applies the non-nil fields to the user's account.
	UpdateAccount(ctx context.Context, input UpdateAccountInput) (*entity.AuthIdentity, error)
}
