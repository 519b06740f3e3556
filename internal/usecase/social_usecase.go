package usecase

import (
	"context"

	"hyperstream/internal/domain/entity"

	"github.com/google/uuid"
)

// FollowUsecase defines the follow-graph operations.
type FollowUsecase interface {
	// Follow creates the follower → following edge. Self-follows and
	// duplicate edges are rejected; a block in either direction forbids it.
	Follow(ctx context.Context, followerID, followingID uuid.UUID) (*entity.Follow, error)

	// Unfollow removes the edge and returns it.
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (*entity.Follow, error)

	// IsFollowing reports whether the edge exists.
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)

	// Followed lists every user the given user follows.
	Followed(ctx context.Context, followerID uuid.UUID) ([]*entity.Follow, error)
}

// BlockUsecase defines the block-graph operations.
type BlockUsecase interface {
	// Block creates the blocker → blocked edge and severs any follow edges
	// between the two users.
	Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*entity.Block, error)

	// Unblock removes the edge.
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error

	// IsBlocked reports whether blocker has blocked blocked.
	IsBlocked(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
}
