package entity

import (
	"time"

	"github.com/google/uuid"
)

// Stream holds the live-stream metadata owned by a single user.
// One stream is created alongside every registration.
type Stream struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"userId"`
	Name                string    `json:"name"`
	ThumbnailURL        string    `json:"thumbnailUrl,omitempty"`
	IngressID           *string   `json:"ingressId,omitempty"`
	ServerURL           *string   `json:"serverUrl,omitempty"`
	StreamKey           *string   `json:"streamKey,omitempty"`
	IsLive              bool      `json:"isLive"`
	IsChatEnabled       bool      `json:"isChatEnabled"`
	IsChatDelayed       bool      `json:"isChatDelayed"`
	IsChatFollowersOnly bool      `json:"isChatFollowersOnly"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
