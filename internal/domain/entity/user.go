// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account record. A user may hold a local credential
// (PasswordHash), one or more federated identities (GoogleID, FacebookID),
// or both; AuthProviders records every login method ever linked.
type User struct {
	ID              uuid.UUID
	Username        string // Unique handle, also a login identifier.
	Email           string // Unique primary email, also a login identifier.
	DisplayName     string
	Avatar          string
	CoverImage      string
	PasswordHash    string // Bcrypt hash; empty for federated-only accounts.
	RefreshToken    *string // Single active refresh token; nil when logged out.
	GoogleID        *string
	FacebookID      *string
	AuthProviders   []AuthProvider
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasProvider reports whether the given provider is already linked.
func (u *User) HasProvider(p AuthProvider) bool {
	for _, existing := range u.AuthProviders {
		if existing == p {
			return true
		}
	}

	return false
}

// Identity projects the user into its request-scoped, secret-free form.
func (u *User) Identity() *AuthIdentity {
	return &AuthIdentity{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		Avatar:          u.Avatar,
		CoverImage:      u.CoverImage,
		AuthProviders:   u.AuthProviders,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// AuthIdentity is the authenticated principal attached to a request after a
// successful strategy check. It carries no password hash or refresh token.
type AuthIdentity struct {
	ID              uuid.UUID      `json:"id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	DisplayName     string         `json:"displayName,omitempty"`
	Avatar          string         `json:"avatar,omitempty"`
	CoverImage      string         `json:"coverImage,omitempty"`
	AuthProviders   []AuthProvider `json:"authProviders"`
	IsEmailVerified bool           `json:"isEmailVerified"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
