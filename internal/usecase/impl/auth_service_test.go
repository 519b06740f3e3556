package impl

import (
	"context"
	"regexp"
	"testing"

	"hyperstream/config"
	"hyperstream/internal/domain/entity"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/domain/service"
	"hyperstream/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	service  usecase.AuthUsecase
	userRepo *fakeUserRepo
	tokens   *fakeTokenService
	mailer   *fakeMailer
}

func newAuthFixture(t *testing.T, strictRotation bool) *authFixture {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{StrictRefreshRotation: strictRotation},
	}
	cfg.Frontend.BaseURL = "http://front.test"

	userRepo := newFakeUserRepo()
	tokens := newFakeTokenService()
	mailer := &fakeMailer{}

	return &authFixture{
		service: NewAuthService(AuthServiceParams{
			UserRepo:     userRepo,
			Hasher:       fakeHasher{},
			TokenService: tokens,
			Mailer:       mailer,
			Config:       cfg,
			Logger:       testLogger(),
		}),
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
	}
}

func (f *authFixture) seedUser(t *testing.T, verified bool) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:              uuid.New(),
		Username:        "alice",
		Email:           "alice@example.com",
		PasswordHash:    "hashed:secret-password",
		AuthProviders:   []entity.AuthProvider{entity.ProviderJWT},
		IsEmailVerified: verified,
	}
	f.userRepo.users[user.ID] = user

	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := newAuthFixture(t, false)
	ctx := context.Background()

	output, err := fx.service.Register(ctx, usecase.RegisterInput{
		Username: "Alice",
		Email:    "Alice@Example.com",
		Password: "secret-password",
	})

	require.NoError(t, err)
	require.NotNil(t, output.User)
	assert.Equal(t, "alice", output.User.Username)
	assert.Equal(t, "alice@example.com", output.User.Email)
	assert.False(t, output.User.IsEmailVerified)
	assert.Equal(t, []entity.AuthProvider{entity.ProviderJWT}, output.User.AuthProviders)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)

	stored := fx.userRepo.users[output.User.ID]
	require.NotNil(t, stored)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, output.RefreshToken, *stored.RefreshToken)

	stream := fx.userRepo.streams[output.User.ID]
	require.NotNil(t, stream)
	assert.Equal(t, "alice's stream", stream.Name)
	assert.True(t, stream.IsChatEnabled)

	assert.True(t, sentTo(fx.mailer.verificationSent, "alice@example.com"))
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	fx := newAuthFixture(t, false)
	fx.seedUser(t, true)

	_, err := fx.service.Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret-password",
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_Register_MailFailureIsSwallowed(t *testing.T) {
	fx := newAuthFixture(t, false)
	fx.mailer.err = assert.AnError

	output, err := fx.service.Register(context.Background(), usecase.RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret-password",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, true)

	output, err := fx.service.Login(context.Background(), usecase.LoginInput{
		Username: "alice",
		Password: "secret-password",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, output.User.ID)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, output.RefreshToken, *user.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := newAuthFixture(t, false)
	fx.seedUser(t, true)

	_, err := fx.service.Login(context.Background(), usecase.LoginInput{
		Username: "alice",
		Password: "not-the-password",
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnverifiedEmail(t *testing.T) {
	fx := newAuthFixture(t, false)
	fx.seedUser(t, false)

	_, err := fx.service.Login(context.Background(), usecase.LoginInput{
		Username: "alice",
		Password: "secret-password",
	})

	assert.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	fx := newAuthFixture(t, false)

	_, err := fx.service.Login(context.Background(), usecase.LoginInput{
		Username: "nobody",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_Refresh_RotatesAndRejectsReuse(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, true)
	ctx := context.Background()

	pair, err := fx.service.IssueTokenPair(ctx, user.ID)
	require.NoError(t, err)

	rotated, err := fx.service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, rotated.RefreshToken, *user.RefreshToken)

	// The rotated-out token still has a valid signature but no longer
	// matches the stored value.
	_, err = fx.service.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenReused)

	_, err = fx.service.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	fx := newAuthFixture(t, false)

	_, err := fx.service.Refresh(context.Background(), "garbage")

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestAuthService_Refresh_DeletedUser(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, true)
	ctx := context.Background()

	pair, err := fx.service.IssueTokenPair(ctx, user.ID)
	require.NoError(t, err)

	delete(fx.userRepo.users, user.ID)

	_, err = fx.service.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

// lostRaceUserRepo simulates a concurrent rotation winning between the
// stored-value check and the conditional overwrite.
type lostRaceUserRepo struct {
	*fakeUserRepo
}

func (r *lostRaceUserRepo) ReplaceRefreshToken(context.Context, uuid.UUID, string, *string) (bool, error) {
	return false, nil
}

func TestAuthService_Refresh_StrictRotationLosesRace(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{StrictRefreshRotation: true}}
	cfg.Frontend.BaseURL = "http://front.test"

	userRepo := newFakeUserRepo()
	tokens := newFakeTokenService()
	svc := NewAuthService(AuthServiceParams{
		UserRepo:     &lostRaceUserRepo{fakeUserRepo: userRepo},
		Hasher:       fakeHasher{},
		TokenService: tokens,
		Mailer:       &fakeMailer{},
		Config:       cfg,
		Logger:       testLogger(),
	})

	user := &entity.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", IsEmailVerified: true}
	userRepo.users[user.ID] = user

	pair, err := svc.IssueTokenPair(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenReused)
}

func TestAuthService_Refresh_StrictRotationSucceeds(t *testing.T) {
	fx := newAuthFixture(t, true)
	user := fx.seedUser(t, true)
	ctx := context.Background()

	pair, err := fx.service.IssueTokenPair(ctx, user.ID)
	require.NoError(t, err)

	rotated, err := fx.service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, rotated.RefreshToken, *user.RefreshToken)
}

func TestAuthService_Logout_ClearsRefreshToken(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, true)
	ctx := context.Background()

	_, err := fx.service.IssueTokenPair(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, user.RefreshToken)

	require.NoError(t, fx.service.Logout(ctx, user.ID))
	assert.Nil(t, user.RefreshToken)
}

func TestAuthService_OAuthLogin_MatchesProviderID(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, true)
	googleID := "google-sub-1"
	user.GoogleID = &googleID
	user.AuthProviders = append(user.AuthProviders, entity.ProviderGoogle)

	output, err := fx.service.OAuthLogin(context.Background(), &service.OAuthUser{
		ID:       googleID,
		Email:    "different@example.com",
		Provider: entity.ProviderGoogle,
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, output.User.ID)
	assert.Len(t, fx.userRepo.users, 1)
}

func TestAuthService_OAuthLogin_LinksByEmail(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, false)

	output, err := fx.service.OAuthLogin(context.Background(), &service.OAuthUser{
		ID:          "google-sub-2",
		Email:       "alice@example.com",
		DisplayName: "Alice Liddell",
		Avatar:      "https://img.test/alice.png",
		Provider:    entity.ProviderGoogle,
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, output.User.ID)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-sub-2", *user.GoogleID)
	assert.True(t, user.HasProvider(entity.ProviderGoogle))
	assert.True(t, user.HasProvider(entity.ProviderJWT))
	assert.True(t, user.IsEmailVerified)
	// No second account appears.
	assert.Len(t, fx.userRepo.users, 1)
}

func TestAuthService_OAuthLogin_CreatesAccount(t *testing.T) {
	fx := newAuthFixture(t, false)

	output, err := fx.service.OAuthLogin(context.Background(), &service.OAuthUser{
		ID:          "fb-sub-9",
		Email:       "New.Person@Example.com",
		DisplayName: "New Person",
		Provider:    entity.ProviderFacebook,
	})

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^newperson\d{4}$`), output.User.Username)
	assert.Equal(t, "new.person@example.com", output.User.Email)
	assert.True(t, output.User.IsEmailVerified)
	assert.Equal(t, []entity.AuthProvider{entity.ProviderFacebook}, output.User.AuthProviders)

	created := fx.userRepo.users[output.User.ID]
	require.NotNil(t, created)
	require.NotNil(t, created.FacebookID)
	assert.Equal(t, "fb-sub-9", *created.FacebookID)
	assert.NotNil(t, fx.userRepo.streams[output.User.ID])
}

func TestAuthService_VerifyEmail(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, false)

	require.NoError(t, fx.service.VerifyEmail(context.Background(), user.ID))
	assert.True(t, user.IsEmailVerified)

	err := fx.service.VerifyEmail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_ResendVerificationEmail(t *testing.T) {
	fx := newAuthFixture(t, false)
	fx.seedUser(t, false)

	require.NoError(t, fx.service.ResendVerificationEmail(context.Background(), "alice@example.com"))
	assert.True(t, sentTo(fx.mailer.verificationSent, "alice@example.com"))
}

func TestAuthService_ResendVerificationEmail_AlreadyVerified(t *testing.T) {
	fx := newAuthFixture(t, false)
	fx.seedUser(t, true)

	err := fx.service.ResendVerificationEmail(context.Background(), "alice@example.com")

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestAuthService_ChangePassword(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, true)

	err := fx.service.ChangePassword(context.Background(), usecase.ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "wrong",
		NewPassword: "brand-new-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	err = fx.service.ChangePassword(context.Background(), usecase.ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "secret-password",
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "hashed:brand-new-password", user.PasswordHash)
}

func TestAuthService_PasswordRecoveryAndReset(t *testing.T) {
	fx := newAuthFixture(t, false)
	user := fx.seedUser(t, true)
	ctx := context.Background()

	require.NoError(t, fx.service.SendPasswordRecoveryEmail(ctx, "alice@example.com"))
	require.True(t, sentTo(fx.mailer.resetSent, "alice@example.com"))

	// The reset proof is an access token for the account; mint an equivalent
	// one instead of parsing the mailed URL.
	token, err := fx.tokens.GenerateAccessToken(user.ID, user.Email, user.Username)
	require.NoError(t, err)

	refresh := "still-active"
	user.RefreshToken = &refresh

	err = fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
		Token:       token,
		NewPassword: "after-reset-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "hashed:after-reset-password", user.PasswordHash)
	assert.Nil(t, user.RefreshToken)
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	fx := newAuthFixture(t, false)

	err := fx.service.ResetPassword(context.Background(), usecase.ResetPasswordInput{
		Token:       "garbage",
		NewPassword: "whatever-password",
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}
