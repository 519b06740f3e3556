package model

import (
	"time"

	"github.com/google/uuid"
)

// FollowModel mirrors the 'follows' table.
type FollowModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_follower_following"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_follower_following"`
	CreatedAt   time.Time

	Following *UserModel `gorm:"foreignKey:FollowingID"`
}

// TableName explicitly sets the table name for GORM.
func (FollowModel) TableName() string {
	return "follows"
}

// BlockModel mirrors the 'blocks' table.
type BlockModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BlockerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_blocker_blocked"`
	BlockedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_blocker_blocked"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (BlockModel) TableName() string {
	return "blocks"
}
