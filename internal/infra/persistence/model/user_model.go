// Package model contains the GORM persistence models mirroring the database schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username        string    `gorm:"type:varchar(50);unique;not null"`
	Email           string    `gorm:"type:varchar(255);unique;not null"`
	DisplayName     string    `gorm:"type:varchar(100)"`
	Avatar          string    `gorm:"type:text"`
	CoverImage      string    `gorm:"type:text"`
	PasswordHash    string    `gorm:"type:varchar(255)"`
	RefreshToken    *string   `gorm:"type:text"`
	GoogleID        *string   `gorm:"type:varchar(255);uniqueIndex"`
	FacebookID      *string   `gorm:"type:varchar(255);uniqueIndex"`
	AuthProviders   string    `gorm:"type:varchar(100);not null;default:''"`
	IsEmailVerified bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Stream *StreamModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
