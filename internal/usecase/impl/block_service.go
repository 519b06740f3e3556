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

// blockService implements the BlockUsecase interface.
type blockService struct {
	blockRepo  repository.BlockRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	logger     *slog.Logger
}

// BlockServiceParams holds dependencies for blockService, injected by Fx.
type BlockServiceParams struct {
	fx.In

	BlockRepo  repository.BlockRepository
	FollowRepo repository.FollowRepository
	UserRepo   repository.UserRepository
	Logger     *slog.Logger
}

// NewBlockService is the constructor for blockService.
func NewBlockService(params BlockServiceParams) usecase.BlockUsecase {
	return &blockService{
		blockRepo:  params.BlockRepo,
		followRepo: params.FollowRepo,
		userRepo:   params.UserRepo,
		logger:     params.Logger,
	}
}

func (srv *blockService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Block creates the blocker → blocked edge and severs any follow edges
// between the two users.
func (srv *blockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*entity.Block, error) {
	if blockerID == blockedID {
		return nil, domainerrors.BadRequest("You cannot block yourself.")
	}

	if _, err := srv.userRepo.FindByID(ctx, blockedID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	block := &entity.Block{BlockerID: blockerID, BlockedID: blockedID}
	if err := srv.blockRepo.Create(ctx, block); err != nil {
		if errors.Is(err, repository.ErrAlreadyBlocked) {
			return nil, domainerrors.Conflict("You have already blocked this user.")
		}

		return nil, errors.Wrap(err, "failed to create block")
	}

	// Blocking tears down the social connection in both directions. A
	// missing edge is fine.
	for _, pair := range [][2]uuid.UUID{{blockerID, blockedID}, {blockedID, blockerID}} {
		if _, err := srv.followRepo.Delete(ctx, pair[0], pair[1]); err != nil &&
			!errors.Is(err, repository.ErrFollowNotFound) {
			return nil, errors.Wrap(err, "failed to sever follow")
		}
	}

	srv.log(ctx).Info("Block created",
		slog.String("blockerID", blockerID.String()),
		slog.String("blockedID", blockedID.String()))

	return block, nil
}

// Unblock removes the edge.
func (srv *blockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if err := srv.blockRepo.Delete(ctx, blockerID, blockedID); err != nil {
		if errors.Is(err, repository.ErrBlockNotFound) {
			return domainerrors.NotFound("You have not blocked this user.")
		}

		return errors.Wrap(err, "failed to delete block")
	}

	return nil
}

// IsBlocked reports whether blocker has blocked blocked.
func (srv *blockService) IsBlocked(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	blocked, err := srv.blockRepo.Exists(ctx, blockerID, blockedID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check block")
	}

	return blocked, nil
}
