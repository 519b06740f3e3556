package postgres

import (
	"context"
	"strings"

	"hyperstream/internal/domain/entity"
	"hyperstream/internal/domain/repository"
	"hyperstream/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByUsername retrieves a single user by their username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, "username = ?", username)
}

// FindByUsernameOrEmail retrieves a user matching either login identifier.
func (repo *userRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	return repo.findOne(ctx, "username = ? OR email = ?", username, email)
}

// FindByProviderID retrieves a user by a federated provider's subject id.
func (repo *userRepository) FindByProviderID(ctx context.Context, provider entity.AuthProvider, providerID string) (*entity.User, error) {
	switch provider {
	case entity.ProviderGoogle:
		return repo.findOne(ctx, "google_id = ?", providerID)
	case entity.ProviderFacebook:
		return repo.findOne(ctx, "facebook_id = ?", providerID)
	default:
		return nil, errors.Errorf("provider %q has no subject id column", provider)
	}
}

// FindRecommended lists users the given user is not yet following and has not
// blocked, newest first.
func (repo *userRepository) FindRecommended(ctx context.Context, userID uuid.UUID) ([]*entity.User, error) {
	var userModels []*model.UserModel

	err := repo.db.WithContext(ctx).
		Where("id <> ?", userID).
		Where("id NOT IN (?)", repo.db.Model(&model.FollowModel{}).Select("following_id").Where("follower_id = ?", userID)).
		Where("id NOT IN (?)", repo.db.Model(&model.BlockModel{}).Select("blocked_id").Where("blocker_id = ?", userID)).
		Order("created_at DESC").
		Find(&userModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find recommended users")
	}

	users := make([]*entity.User, 0, len(userModels))
	for _, userM := range userModels {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// Create persists a new user entity together with its stream record. GORM
// inserts both rows in one transaction via the association.
func (repo *userRepository) Create(ctx context.Context, user *entity.User, stream *entity.Stream) error {
	userM := fromUserDomain(user)
	userM.Stream = fromStreamDomain(stream)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateUser
		}

		return errors.Wrap(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	if userM.Stream != nil && stream != nil {
		stream.ID = userM.Stream.ID
		stream.UserID = userM.Stream.UserID
		stream.CreatedAt = userM.Stream.CreatedAt
		stream.UpdatedAt = userM.Stream.UpdatedAt
	}

	return nil
}

// Update modifies an existing user entity in the storage.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Omit("Stream").Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateUser
		}

		return errors.Wrap(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// UpdateRefreshToken overwrites the stored refresh token value. A nil token
// clears it. This write is the sole mutation point for session state.
func (repo *userRepository) UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("refresh_token", token)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update refresh token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// ReplaceRefreshToken overwrites the stored refresh token only when the
// current value still equals expected. Zero affected rows means another
// rotation won the race (or the user vanished); the row is left untouched.
func (repo *userRepository) ReplaceRefreshToken(ctx context.Context, userID uuid.UUID, expected string, token *string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND refresh_token = ?", userID, expected).
		Update("refresh_token", token)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "failed to replace refresh token")
	}

	return result.RowsAffected > 0, nil
}

// UpdatePassword overwrites the stored password hash.
func (repo *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update password")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// MarkEmailVerified sets the email-verified flag.
func (repo *userRepository) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("is_email_verified", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark email verified")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Delete removes the user record entirely. Live access tokens for the account
// die with it: the local strategy re-reads the row on every request.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (repo *userRepository) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var userM model.UserModel

	err := repo.db.WithContext(ctx).Where(query, args...).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return toUserDomain(&userM), nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:              data.ID,
		Username:        data.Username,
		Email:           data.Email,
		DisplayName:     data.DisplayName,
		Avatar:          data.Avatar,
		CoverImage:      data.CoverImage,
		PasswordHash:    data.PasswordHash,
		RefreshToken:    data.RefreshToken,
		GoogleID:        data.GoogleID,
		FacebookID:      data.FacebookID,
		AuthProviders:   splitProviders(data.AuthProviders),
		IsEmailVerified: data.IsEmailVerified,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:              data.ID,
		Username:        data.Username,
		Email:           data.Email,
		DisplayName:     data.DisplayName,
		Avatar:          data.Avatar,
		CoverImage:      data.CoverImage,
		PasswordHash:    data.PasswordHash,
		RefreshToken:    data.RefreshToken,
		GoogleID:        data.GoogleID,
		FacebookID:      data.FacebookID,
		AuthProviders:   joinProviders(data.AuthProviders),
		IsEmailVerified: data.IsEmailVerified,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// Providers are stored as a comma-joined varchar; the set is tiny and closed.
func joinProviders(providers []entity.AuthProvider) string {
	parts := make([]string, 0, len(providers))
	for _, p := range providers {
		parts = append(parts, string(p))
	}

	return strings.Join(parts, ",")
}

func splitProviders(joined string) []entity.AuthProvider {
	if joined == "" {
		return nil
	}

	parts := strings.Split(joined, ",")
	providers := make([]entity.AuthProvider, 0, len(parts))
	for _, p := range parts {
		providers = append(providers, entity.AuthProvider(p))
	}

	return providers
}
