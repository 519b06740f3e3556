package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "hyperstream/internal/delivery/context"
	"hyperstream/internal/domain/entity"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/domain/repository"
	"hyperstream/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo   repository.UserRepository
	streamRepo repository.StreamRepository
	logger     *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo   repository.UserRepository
	StreamRepo repository.StreamRepository
	Logger     *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:   params.UserRepo,
		streamRepo: params.StreamRepo,
		logger:     params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetByID loads a user's identity by id.
func (srv *userService) GetByID(ctx context.Context, id uuid.UUID) (*entity.AuthIdentity, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user.Identity(), nil
}

// GetByUsername loads a user's identity by username.
func (srv *userService) GetByUsername(ctx context.Context, username string) (*entity.AuthIdentity, error) {
	user, err := srv.userRepo.FindByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user.Identity(), nil
}

// GetProfile loads the public profile (identity + stream) by username.
func (srv *userService) GetProfile(ctx context.Context, username string) (*usecase.Profile, error) {
	identity, err := srv.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	stream, err := srv.streamRepo.FindByUserID(ctx, identity.ID)
	if err != nil && !errors.Is(err, repository.ErrStreamNotFound) {
		return nil, errors.Wrap(err, "failed to find stream")
	}

	return &usecase.Profile{User: identity, Stream: stream}, nil
}

// GetRecommended lists users for the given user to discover.
func (srv *userService) GetRecommended(ctx context.Context, userID uuid.UUID) ([]*entity.AuthIdentity, error) {
	users, err := srv.userRepo.FindRecommended(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find recommended users")
	}

	identities := make([]*entity.AuthIdentity, 0, len(users))
	for _, user := range users {
		identities = append(identities, user.Identity())
	}

	return identities, nil
}

// UpdateAccount applies the non-nil fields to the user's account.
func (srv *userService) UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*entity.AuthIdentity, error) {
	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if input.Username != nil {
		user.Username = strings.ToLower(strings.TrimSpace(*input.Username))
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			// A changed address has to be proven again.
			user.IsEmailVerified = false
		}
		user.Email = email
	}
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.CoverImage != nil {
		user.CoverImage = *input.CoverImage
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, domainerrors.ErrUserAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to update user")
	}

	srv.log(ctx).Info("Account updated", slog.String("userID", user.ID.String()))

	return user.Identity(), nil
}
