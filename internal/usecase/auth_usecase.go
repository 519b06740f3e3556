// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"hyperstream/internal/domain/entity"
	"hyperstream/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to sign up a local account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines the data required to log in. Username and Email are
// alternatives; either one identifies the account.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// ChangePasswordInput carries a password change for an authenticated user.
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// ResetPasswordInput carries a password reset proven by an emailed token.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// TokenPair is one issued access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthOutput returns the authenticated identity together with its tokens.
type AuthOutput struct {
	User         *entity.AuthIdentity `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}

// AuthUsecase defines the authentication and session-token operations.
// This is the contract the delivery layer depends on.
type AuthUsecase interface {
	// Register creates a local account with its stream, sends the
	// verification mail, and returns the identity with a fresh token pair.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Login verifies credentials and issues a token pair. Unverified email
	// or a wrong password are unauthorized outcomes.
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// IssueTokenPair signs a pair for the user and persists the refresh
	// token. No pair escapes without a durable store.
	IssueTokenPair(ctx context.Context, userID uuid.UUID) (*TokenPair, error)

	// Refresh rotates a refresh token: the presented token must match the
	// stored value, and the fresh pair supersedes it. A second use of a
	// rotated token fails.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout clears the stored refresh token.
	Logout(ctx context.Context, userID uuid.UUID) error

	// OAuthLogin resolves a federated profile to a local account, creating
	// or linking as needed, and issues a token pair.
	OAuthLogin(ctx context.Context, profile *service.OAuthUser) (*AuthOutput, error)

	// VerifyEmail marks the authenticated user's email as verified.
	VerifyEmail(ctx context.Context, userID uuid.UUID) error

	// ResendVerificationEmail re-sends the verification mail for an
	// unverified account.
	ResendVerificationEmail(ctx context.Context, email string) error

	// ChangePassword swaps the password after checking the old one.
	ChangePassword(ctx context.Context, input ChangePasswordInput) error

	// SendPasswordRecoveryEmail mails a reset link to the account's email.
	// An unknown email is reported, matching the account-recovery UX.
	SendPasswordRecoveryEmail(ctx context.Context, email string) error

	// ResetPassword sets a new password proven by the emailed token and
	// revokes the active session.
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}
