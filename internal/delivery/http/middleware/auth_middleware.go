// Package middleware contains the HTTP middlewares of the delivery layer.
package middleware

import (
	"context"
	"strings"

	deliverycontext "hyperstream/internal/delivery/context"
	"hyperstream/internal/domain/entity"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/domain/repository"
	"hyperstream/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// IdentityResolver is one authentication strategy. The set of strategies is
// closed and known at compile time; routes pick the strategy they gate on.
//
// A strategy distinguishes three outcomes: an identity, a clean "no identity"
// with the reason the caller failed (reason != nil, err == nil), and an
// internal failure (err != nil).
type IdentityResolver interface {
	Resolve(ctx context.Context, c echo.Context) (*entity.AuthIdentity, *domainerrors.BaseError, error)
}

// LocalJWTStrategy authenticates a bearer access token and loads the account
// behind it. A token for a deleted account yields no identity.
type LocalJWTStrategy struct {
	tokenService service.TokenService
	userRepo     repository.UserRepository
}

// NewLocalJWTStrategy is the constructor for LocalJWTStrategy.
func NewLocalJWTStrategy(tokenService service.TokenService, userRepo repository.UserRepository) *LocalJWTStrategy {
	return &LocalJWTStrategy{tokenService: tokenService, userRepo: userRepo}
}

// Resolve implements IdentityResolver.
func (s *LocalJWTStrategy) Resolve(ctx context.Context, c echo.Context) (*entity.AuthIdentity, *domainerrors.BaseError, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, domainerrors.Unauthorized("Authorization header is missing"), nil
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, domainerrors.Unauthorized("Invalid token format, must be Bearer token"), nil
	}

	claims, err := s.tokenService.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken, nil
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Valid signature, gone account: the token authenticates nobody.
			return nil, domainerrors.ErrInvalidToken, nil
		}

		return nil, nil, errors.Wrap(err, "failed to load token subject")
	}

	return user.Identity(), nil, nil
}

// AuthMiddleware gates routes behind an authentication strategy.
type AuthMiddleware struct {
	strategy IdentityResolver
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(strategy *LocalJWTStrategy) *AuthMiddleware {
	return &AuthMiddleware{strategy: strategy}
}

// Authenticate runs the strategy and stores the identity on the context.
// Handlers behind it read the identity via deliverycontext.GetIdentity.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, reason, err := m.strategy.Resolve(c.Request().Context(), c)
		if err != nil {
			return err
		}
		if identity == nil {
			if reason == nil {
				reason = domainerrors.Unauthorized("")
			}

			return reason
		}

		deliverycontext.SetIdentity(c, identity)

		return next(c)
	}
}
