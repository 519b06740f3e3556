package repository

import (
	"context"
	"errors"

	"hyperstream/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for the social graph.
var (
	// ErrFollowNotFound is returned when a follow edge does not exist.
	ErrFollowNotFound = errors.New("follow relation not found")
	// ErrAlreadyFollowing is returned when the follow edge already exists.
	ErrAlreadyFollowing = errors.New("already following this user")
	// ErrBlockNotFound is returned when a block edge does not exist.
	ErrBlockNotFound = errors.New("block relation not found")
	// ErrAlreadyBlocked is returned when the block edge already exists.
	ErrAlreadyBlocked = errors.New("user is already blocked")
)

// FollowRepository defines the operations for the follow graph.
type FollowRepository interface {
	// Create persists a new follow edge and loads the followed user onto it.
	Create(ctx context.Context, follow *entity.Follow) error

	// Delete removes the follow edge between the two users and returns it,
	// with the previously followed user loaded.
	Delete(ctx context.Context, followerID, followingID uuid.UUID) (*entity.Follow, error)

	// Exists reports whether follower already follows following.
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)

	// FindByFollower lists every follow edge originating from the user,
	// with the followed users loaded.
	FindByFollower(ctx context.Context, followerID uuid.UUID) ([]*entity.Follow, error)
}

// BlockRepository defines the operations for the block graph.
type BlockRepository interface {
	// Create persists a new block edge.
	Create(ctx context.Context, block *entity.Block) error

	// Delete removes the block edge between the two users.
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error

	// Exists reports whether blocker has blocked blocked.
	Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
}
