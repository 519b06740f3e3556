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

// streamService implements the StreamUsecase interface.
type streamService struct {
	streamRepo repository.StreamRepository
	logger     *slog.Logger
}

// StreamServiceParams holds dependencies for streamService, injected by Fx.
type StreamServiceParams struct {
	fx.In

	StreamRepo repository.StreamRepository
	Logger     *slog.Logger
}

// NewStreamService is the constructor for streamService.
func NewStreamService(params StreamServiceParams) usecase.StreamUsecase {
	return &streamService{
		streamRepo: params.StreamRepo,
		logger:     params.Logger,
	}
}

func (srv *streamService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetByUserID loads the stream owned by the given user.
func (srv *streamService) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Stream, error) {
	stream, err := srv.streamRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrStreamNotFound) {
			return nil, domainerrors.ErrStreamNotFound
		}

		return nil, errors.Wrap(err, "failed to find stream")
	}

	return stream, nil
}

// Update applies the non-nil fields to the caller's own stream.
func (srv *streamService) Update(ctx context.Context, input usecase.UpdateStreamInput) (*entity.Stream, error) {
	stream, err := srv.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		stream.Name = *input.Name
	}
	if input.ThumbnailURL != nil {
		stream.ThumbnailURL = *input.ThumbnailURL
	}
	if input.IsChatEnabled != nil {
		stream.IsChatEnabled = *input.IsChatEnabled
	}
	if input.IsChatDelayed != nil {
		stream.IsChatDelayed = *input.IsChatDelayed
	}
	if input.IsChatFollowersOnly != nil {
		stream.IsChatFollowersOnly = *input.IsChatFollowersOnly
	}

	if err := srv.streamRepo.Update(ctx, stream); err != nil {
		return nil, errors.Wrap(err, "failed to update stream")
	}

	srv.log(ctx).Info("Stream updated", slog.String("streamID", stream.ID.String()))

	return stream, nil
}
