// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"hyperstream/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when a unique constraint on username or email is violated.
	ErrDuplicateUser = errors.New("username or email already taken")
)

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by their username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByUsernameOrEmail retrieves a user matching either login identifier.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)

	// FindByProviderID retrieves a user by a federated provider's subject id.
	FindByProviderID(ctx context.Context, provider entity.AuthProvider, providerID string) (*entity.User, error)

	// FindRecommended lists users the given user is not yet following and has
	// not blocked, newest first.
	FindRecommended(ctx context.Context, userID uuid.UUID) ([]*entity.User, error)

	// Create persists a new user entity together with its stream record in a
	// single insert. Every account owns exactly one stream from birth.
	Create(ctx context.Context, user *entity.User, stream *entity.Stream) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// UpdateRefreshToken overwrites the stored refresh token value.
	// A nil token clears it (logout).
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error

	// ReplaceRefreshToken overwrites the stored refresh token only when the
	// current value still equals expected. It returns false when another
	// writer got there first, without modifying the row.
	ReplaceRefreshToken(ctx context.Context, userID uuid.UUID, expected string, token *string) (bool, error)

	// UpdatePassword overwrites the stored password hash.
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// MarkEmailVerified sets the email-verified flag.
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) error

	// Delete removes the user record entirely.
	Delete(ctx context.Context, id uuid.UUID) error
}
