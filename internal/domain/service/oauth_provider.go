package service

import (
	"context"

	"hyperstream/internal/domain/entity"
)

// OAuthUser is the normalized profile returned by a federated provider after
// a successful authorization-code handshake.
type OAuthUser struct {
	ID            string // The provider's subject id ('sub').
	Email         string
	DisplayName   string
	Avatar        string
	EmailVerified bool
	Provider      entity.AuthProvider
}

// OAuthProvider abstracts one federated identity provider. The set of
// implementations is closed (Google, Facebook); routes dispatch to a specific
// provider, there is no runtime registry.
type OAuthProvider interface {
	// Provider returns which provider this instance talks to.
	Provider() entity.AuthProvider

	// AuthorizationURL builds the redirect URL that starts the handshake.
	// The state parameter is stored for later CSRF validation.
	AuthorizationURL(state string) string

	// ValidateState consumes a previously issued state value, reporting
	// whether it was issued by us and has not expired or been used.
	ValidateState(state string) bool

	// ExchangeCode trades an authorization code for the provider profile.
	ExchangeCode(ctx context.Context, code string) (*OAuthUser, error)
}
