package postgres

import (
	"context"

	"hyperstream/internal/domain/entity"
	"hyperstream/internal/domain/repository"
	"hyperstream/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// streamRepository implements the repository.StreamRepository interface using GORM.
type streamRepository struct {
	db *gorm.DB
}

// NewStreamRepository is the constructor for streamRepository.
func NewStreamRepository(db *gorm.DB) repository.StreamRepository {
	return &streamRepository{db: db}
}

// FindByUserID retrieves the stream owned by the given user.
func (repo *streamRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Stream, error) {
	var streamM model.StreamModel

	err := repo.db.WithContext(ctx).Where("user_id = ?", userID).First(&streamM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStreamNotFound
		}

		return nil, errors.Wrap(err, "failed to find stream")
	}

	return toStreamDomain(&streamM), nil
}

// Update modifies an existing stream record.
func (repo *streamRepository) Update(ctx context.Context, stream *entity.Stream) error {
	streamM := fromStreamDomain(stream)

	if err := repo.db.WithContext(ctx).Save(streamM).Error; err != nil {
		return errors.Wrap(err, "failed to update stream")
	}

	stream.UpdatedAt = streamM.UpdatedAt

	return nil
}

// --- Mapper Functions ---

func toStreamDomain(data *model.StreamModel) *entity.Stream {
	if data == nil {
		return nil
	}

	return &entity.Stream{
		ID:                  data.ID,
		UserID:              data.UserID,
		Name:                data.Name,
		ThumbnailURL:        data.ThumbnailURL,
		IngressID:           data.IngressID,
		ServerURL:           data.ServerURL,
		StreamKey:           data.StreamKey,
		IsLive:              data.IsLive,
		IsChatEnabled:       data.IsChatEnabled,
		IsChatDelayed:       data.IsChatDelayed,
		IsChatFollowersOnly: data.IsChatFollowersOnly,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

func fromStreamDomain(data *entity.Stream) *model.StreamModel {
	if data == nil {
		return nil
	}

	return &model.StreamModel{
		ID:                  data.ID,
		UserID:              data.UserID,
		Name:                data.Name,
		ThumbnailURL:        data.ThumbnailURL,
		IngressID:           data.IngressID,
		ServerURL:           data.ServerURL,
		StreamKey:           data.StreamKey,
		IsLive:              data.IsLive,
		IsChatEnabled:       data.IsChatEnabled,
		IsChatDelayed:       data.IsChatDelayed,
		IsChatFollowersOnly: data.IsChatFollowersOnly,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
