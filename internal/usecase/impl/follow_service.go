package impl

import (
	"context"
	"log/slog"

	deliverycontext "hyperstream/internal/delivery/context"
	"hyperstream/internal/domain/entity"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/domain/repository"
	"hyperstream/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// followService implements the FollowUsecase interface.
type followService struct {
	followRepo repository.FollowRepository
	blockRepo  repository.BlockRepository
	userRepo   repository.UserRepository
	logger     *slog.Logger
}

// FollowServiceParams holds dependencies for followService, injected by Fx.
type FollowServiceParams struct {
	fx.In

	FollowRepo repository.FollowRepository
	BlockRepo  repository.BlockRepository
	UserRepo   repository.UserRepository
	Logger     *slog.Logger
}

// NewFollowService is the constructor for followService.
func NewFollowService(params FollowServiceParams) usecase.FollowUsecase {
	return &followService{
		followRepo: params.FollowRepo,
		blockRepo:  params.BlockRepo,
		userRepo:   params.UserRepo,
		logger:     params.Logger,
	}
}

func (srv *followService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Follow creates the follower → following edge.
func (srv *followService) Follow(ctx context.Context, followerID, followingID uuid.UUID) (*entity.Follow, error) {
	if followerID == followingID {
		return nil, domainerrors.BadRequest("You cannot follow yourself.")
	}

	if _, err := srv.userRepo.FindByID(ctx, followingID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	// A block in either direction forbids the edge.
	for _, pair := range [][2]uuid.UUID{{followerID, followingID}, {followingID, followerID}} {
		blocked, err := srv.blockRepo.Exists(ctx, pair[0], pair[1])
		if err != nil {
			return nil, errors.Wrap(err, "failed to check block")
		}
		if blocked {
			return nil, domainerrors.Forbidden("You cannot follow this user.")
		}
	}

	follow := &entity.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := srv.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			return nil, domainerrors.Conflict("You are already following this user.")
		}

		return nil, errors.Wrap(err, "failed to create follow")
	}

	srv.log(ctx).Info("Follow created",
		slog.String("followerID", followerID.String()),
		slog.String("followingID", followingID.String()))

	return follow, nil
}

// Unfollow removes the edge and returns it.
func (srv *followService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (*entity.Follow, error) {
	follow, err := srv.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return nil, domainerrors.NotFound("You are not following this user.")
		}

		return nil, errors.Wrap(err, "failed to delete follow")
	}

	return follow, nil
}

// IsFollowing reports whether the edge exists.
func (srv *followService) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	following, err := srv.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check follow")
	}

	return following, nil
}

// Followed lists every user the given user follows.
func (srv *followService) Followed(ctx context.Context, followerID uuid.UUID) ([]*entity.Follow, error) {
	follows, err := srv.followRepo.FindByFollower(ctx, followerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list follows")
	}

	return follows, nil
}
