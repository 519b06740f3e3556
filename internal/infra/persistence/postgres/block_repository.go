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

// blockRepository implements the repository.BlockRepository interface using GORM.
type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository is the constructor for blockRepository.
func NewBlockRepository(db *gorm.DB) repository.BlockRepository {
	return &blockRepository{db: db}
}

// Create persists a new block edge.
func (repo *blockRepository) Create(ctx context.Context, block *entity.Block) error {
	blockM := &model.BlockModel{
		BlockerID: block.BlockerID,
		BlockedID: block.BlockedID,
	}

	if err := repo.db.WithContext(ctx).Create(blockM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrAlreadyBlocked
		}

		return errors.Wrap(err, "failed to create block")
	}

	block.ID = blockM.ID
	block.CreatedAt = blockM.CreatedAt

	return nil
}

// Delete removes the block edge between the two users.
func (repo *blockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.BlockModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete block")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBlockNotFound
	}

	return nil
}

// Exists reports whether blocker has blocked blocked.
func (repo *blockRepository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	var count int64

	err := repo.db.WithContext(ctx).
		Model(&model.BlockModel{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to count blocks")
	}

	return count > 0, nil
}
