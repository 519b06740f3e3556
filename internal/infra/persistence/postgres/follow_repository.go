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

// followRepository implements the repository.FollowRepository interface using GORM.
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository is the constructor for followRepository.
func NewFollowRepository(db *gorm.DB) repository.FollowRepository {
	return &followRepository{db: db}
}

// Create persists a new follow edge and loads the followed user onto it.
func (repo *followRepository) Create(ctx context.Context, follow *entity.Follow) error {
	followM := &model.FollowModel{
		FollowerID:  follow.FollowerID,
		FollowingID: follow.FollowingID,
	}

	if err := repo.db.WithContext(ctx).Create(followM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrAlreadyFollowing
		}

		return errors.Wrap(err, "failed to create follow")
	}

	err := repo.db.WithContext(ctx).Preload("Following").First(followM, "id = ?", followM.ID).Error
	if err != nil {
		return errors.Wrap(err, "failed to reload follow")
	}

	*follow = *toFollowDomain(followM)

	return nil
}

// Delete removes the follow edge between the two users and returns it, with
// the previously followed user loaded.
func (repo *followRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) (*entity.Follow, error) {
	var followM model.FollowModel

	err := repo.db.WithContext(ctx).
		Preload("Following").
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&followM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFollowNotFound
		}

		return nil, errors.Wrap(err, "failed to find follow")
	}

	result := repo.db.WithContext(ctx).Delete(&model.FollowModel{}, "id = ?", followM.ID)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to delete follow")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrFollowNotFound
	}

	return toFollowDomain(&followM), nil
}

// Exists reports whether follower already follows following.
func (repo *followRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64

	err := repo.db.WithContext(ctx).
		Model(&model.FollowModel{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to count follows")
	}

	return count > 0, nil
}

// FindByFollower lists every follow edge originating from the user.
func (repo *followRepository) FindByFollower(ctx context.Context, followerID uuid.UUID) ([]*entity.Follow, error) {
	var followModels []*model.FollowModel

	err := repo.db.WithContext(ctx).
		Preload("Following").
		Where("follower_id = ?", followerID).
		Order("created_at DESC").
		Find(&followModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list follows")
	}

	follows := make([]*entity.Follow, 0, len(followModels))
	for _, followM := range followModels {
		follows = append(follows, toFollowDomain(followM))
	}

	return follows, nil
}

func toFollowDomain(data *model.FollowModel) *entity.Follow {
	if data == nil {
		return nil
	}

	follow := &entity.Follow{
		ID:          data.ID,
		FollowerID:  data.FollowerID,
		FollowingID: data.FollowingID,
		CreatedAt:   data.CreatedAt,
	}
	if data.Following != nil {
		follow.Following = toUserDomain(data.Following).Identity()
	}

	return follow
}
