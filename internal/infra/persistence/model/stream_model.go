package model

import (
	"time"

	"github.com/google/uuid"
)

// StreamModel mirrors the 'streams' table. Every user owns exactly one stream.
type StreamModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name                string    `gorm:"type:varchar(255);not null"`
	ThumbnailURL        string    `gorm:"type:text"`
	IngressID           *string   `gorm:"type:varchar(255);uniqueIndex"`
	ServerURL           *string   `gorm:"type:text"`
	StreamKey           *string   `gorm:"type:text"`
	IsLive              bool      `gorm:"not null;default:false"`
	IsChatEnabled       bool      `gorm:"not null;default:true"`
	IsChatDelayed       bool      `gorm:"not null;default:false"`
	IsChatFollowersOnly bool      `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (StreamModel) TableName() string {
	return "streams"
}
