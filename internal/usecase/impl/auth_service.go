// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strings"

	"hyperstream/config"
	deliverycontext "hyperstream/internal/delivery/context"
	"hyperstream/internal/domain/entity"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/domain/repository"
	"hyperstream/internal/domain/service"
	"hyperstream/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// usernameAttempts bounds the collision-retry loop when deriving a username
// from a federated display name.
const usernameAttempts = 5

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo        repository.UserRepository
	hasher          service.PasswordHasher
	tokenService    service.TokenService
	mailer          service.MailSender
	frontendBaseURL string
	strictRotation  bool
	logger          *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Mailer       service.MailSender
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	strictRotation := false
	if params.Config.Auth != nil {
		strictRotation = params.Config.Auth.StrictRefreshRotation
	}

	return &authService{
		userRepo:        params.UserRepo,
		hasher:          params.Hasher,
		tokenService:    params.TokenService,
		mailer:          params.Mailer,
		frontendBaseURL: strings.TrimRight(params.Config.Frontend.BaseURL, "/"),
		strictRotation:  strictRotation,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a local account with its stream, issues the first token
// pair and mails the verification link.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	srv.log(ctx).Info("Starting registration", slog.String("username", username), slog.String("email", email))

	_, err := srv.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return nil, domainerrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing user")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		ID:            uuid.New(),
		Username:      username,
		Email:         email,
		PasswordHash:  passwordHash,
		AuthProviders: []entity.AuthProvider{entity.ProviderJWT},
	}
	stream := &entity.Stream{
		ID:            uuid.New(),
		UserID:        user.ID,
		Name:          username + "'s stream",
		IsChatEnabled: true,
	}

	if err := srv.userRepo.Create(ctx, user, stream); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, domainerrors.ErrUserAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create user")
	}

	pair, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.sendVerificationMail(ctx, user.Email, pair.AccessToken)

	return &usecase.AuthOutput{
		User:         user.Identity(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Login verifies local credentials and issues a token pair.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := srv.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, domainerrors.ErrEmailNotVerified
	}

	pair, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User logged in", slog.String("userID", user.ID.String()))

	return &usecase.AuthOutput{
		User:         user.Identity(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// IssueTokenPair signs a pair for the user and persists the refresh token.
func (srv *authService) IssueTokenPair(ctx context.Context, userID uuid.UUID) (*usecase.TokenPair, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return srv.issueTokenPair(ctx, user)
}

// issueTokenPair signs both tokens and stores the refresh token on the user
// row. A persistence failure fails the whole operation: no pair escapes
// without a durable store.
func (srv *authService) issueTokenPair(ctx context.Context, user *entity.User) (*usecase.TokenPair, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign refresh token")
	}

	if err := srv.userRepo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	return &usecase.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh rotates a refresh token. The presented token must both carry a
// valid signature and match the stored value; the fresh pair supersedes it.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidToken
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	// A valid signature is not enough: a rotated-out token no longer matches
	// the stored value and is treated as reuse.
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		srv.log(ctx).Warn("Refresh token reuse detected", slog.String("userID", user.ID.String()))

		return nil, domainerrors.ErrRefreshTokenReused
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign access token")
	}

	newRefreshToken, err := srv.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign refresh token")
	}

	if srv.strictRotation {
		// Conditional overwrite: racing rotations for the same user collapse
		// to a single winner instead of last-write-wins.
		swapped, err := srv.userRepo.ReplaceRefreshToken(ctx, user.ID, refreshToken, &newRefreshToken)
		if err != nil {
			return nil, errors.Wrap(err, "failed to rotate refresh token")
		}
		if !swapped {
			return nil, domainerrors.ErrRefreshTokenReused
		}
	} else {
		if err := srv.userRepo.UpdateRefreshToken(ctx, user.ID, &newRefreshToken); err != nil {
			return nil, errors.Wrap(err, "failed to rotate refresh token")
		}
	}

	return &usecase.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout clears the stored refresh token.
func (srv *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := srv.userRepo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to clear refresh token")
	}

	return nil
}

// OAuthLogin resolves a federated profile to a local account. Resolution
// order: provider subject id, then email (linking the provider onto the
// existing account), then a brand-new account.
func (srv *authService) OAuthLogin(ctx context.Context, profile *service.OAuthUser) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByProviderID(ctx, profile.Provider, profile.ID)
	if err == nil {
		return srv.finishOAuthLogin(ctx, user)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user by provider id")
	}

	user, err = srv.userRepo.FindByEmail(ctx, strings.ToLower(profile.Email))
	if err == nil {
		return srv.linkProvider(ctx, user, profile)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return srv.createFederatedUser(ctx, profile)
}

func (srv *authService) finishOAuthLogin(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	pair, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &usecase.AuthOutput{
		User:         user.Identity(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// linkProvider attaches a federated identity to an existing account matched
// by email.
func (srv *authService) linkProvider(ctx context.Context, user *entity.User, profile *service.OAuthUser) (*usecase.AuthOutput, error) {
	switch profile.Provider {
	case entity.ProviderGoogle:
		user.GoogleID = &profile.ID
	case entity.ProviderFacebook:
		user.FacebookID = &profile.ID
	default:
		return nil, errors.Errorf("cannot link provider %q", profile.Provider)
	}

	if !user.HasProvider(profile.Provider) {
		user.AuthProviders = append(user.AuthProviders, profile.Provider)
	}
	if user.Avatar == "" {
		user.Avatar = profile.Avatar
	}
	// The provider vouches for the address; the account is verified from here on.
	user.IsEmailVerified = true

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to link provider")
	}

	srv.log(ctx).Info("Linked federated identity",
		slog.String("userID", user.ID.String()),
		slog.String("provider", string(profile.Provider)))

	return srv.finishOAuthLogin(ctx, user)
}

// createFederatedUser registers a brand-new account from a federated profile,
// deriving a collision-checked username from the display name.
func (srv *authService) createFederatedUser(ctx context.Context, profile *service.OAuthUser) (*usecase.AuthOutput, error) {
	username, err := srv.generateUsername(ctx, profile.DisplayName)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           strings.ToLower(profile.Email),
		DisplayName:     profile.DisplayName,
		Avatar:          profile.Avatar,
		AuthProviders:   []entity.AuthProvider{profile.Provider},
		IsEmailVerified: true,
	}
	switch profile.Provider {
	case entity.ProviderGoogle:
		user.GoogleID = &profile.ID
	case entity.ProviderFacebook:
		user.FacebookID = &profile.ID
	}

	stream := &entity.Stream{
		ID:            uuid.New(),
		UserID:        user.ID,
		Name:          username + "'s stream",
		IsChatEnabled: true,
	}

	if err := srv.userRepo.Create(ctx, user, stream); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, domainerrors.ErrUserAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create federated user")
	}

	srv.log(ctx).Info("Created federated account",
		slog.String("userID", user.ID.String()),
		slog.String("provider", string(profile.Provider)))

	return srv.finishOAuthLogin(ctx, user)
}

// generateUsername lowercases the display name, strips spaces, appends a
// random 4-digit suffix and retries on collision.
func (srv *authService) generateUsername(ctx context.Context, displayName string) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(displayName, " ", ""))
	if base == "" {
		base = "user"
	}

	for attempt := 0; attempt < usernameAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%d", base, 1000+rand.IntN(9000))

		_, err := srv.userRepo.FindByUsername(ctx, candidate)
		if errors.Is(err, repository.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to check username")
		}
	}

	return "", errors.New("could not derive a unique username")
}

// VerifyEmail marks the authenticated user's email as verified.
func (srv *authService) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	if err := srv.userRepo.MarkEmailVerified(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to mark email verified")
	}

	return nil
}

// ResendVerificationEmail re-sends the verification mail for an unverified
// account, issuing a fresh token pair for the link.
func (srv *authService) ResendVerificationEmail(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to find user")
	}

	if user.IsEmailVerified {
		return domainerrors.BadRequest("Email is already verified!")
	}

	pair, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		return err
	}

	srv.sendVerificationMail(ctx, user.Email, pair.AccessToken)

	return nil
}

// ChangePassword swaps the password after checking the old one.
func (srv *authService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to find user")
	}

	if user.PasswordHash == "" {
		return domainerrors.BadRequest("This account has no password; it was created through a social login.")
	}

	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	if err := srv.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	return nil
}

// SendPasswordRecoveryEmail mails a reset link carrying a short-lived token.
func (srv *authService) SendPasswordRecoveryEmail(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to find user")
	}

	resetToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Email, user.Username)
	if err != nil {
		return errors.Wrap(err, "failed to sign reset token")
	}

	resetURL := srv.frontendBaseURL + "/reset-password?token=" + url.QueryEscape(resetToken)
	if err := srv.mailer.SendPasswordResetEmail(ctx, user.Email, resetURL); err != nil {
		srv.log(ctx).Error("Failed to send password reset email",
			slog.String("email", user.Email), slog.Any("error", err))
	}

	return nil
}

// ResetPassword sets a new password proven by the emailed token and revokes
// the active session.
func (srv *authService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	claims, err := srv.tokenService.ValidateAccessToken(input.Token)
	if err != nil {
		return domainerrors.ErrInvalidToken
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	if err := srv.userRepo.UpdatePassword(ctx, claims.UserID, passwordHash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to update password")
	}

	// Force a fresh login everywhere after a reset.
	if err := srv.userRepo.UpdateRefreshToken(ctx, claims.UserID, nil); err != nil {
		return errors.Wrap(err, "failed to revoke session")
	}

	return nil
}

// sendVerificationMail delivers the verification link. Send failures are
// logged and swallowed; registration never fails on a mail outage.
func (srv *authService) sendVerificationMail(ctx context.Context, email, accessToken string) {
	verificationURL := srv.frontendBaseURL + "/verify-email?accessToken=" + url.QueryEscape(accessToken)
	if err := srv.mailer.SendVerificationEmail(ctx, email, verificationURL); err != nil {
		srv.log(ctx).Error("Failed to send verification email",
			slog.String("email", email), slog.Any("error", err))
	}
}
