package entity

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge in the social graph: follower → following.
// The (FollowerID, FollowingID) pair is unique.
type Follow struct {
	ID          uuid.UUID     `json:"id"`
	FollowerID  uuid.UUID     `json:"followerId"`
	FollowingID uuid.UUID     `json:"followingId"`
	Following   *AuthIdentity `json:"following,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Block is a directed edge: blocker → blocked. The pair is unique.
type Block struct {
	ID        uuid.UUID `json:"id"`
	BlockerID uuid.UUID `json:"blockerId"`
	BlockedID uuid.UUID `json:"blockedId"`
	CreatedAt time.Time `json:"createdAt"`
}
