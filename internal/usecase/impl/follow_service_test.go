package impl

import (
	"context"
	"testing"

	"hyperstream/internal/domain/entity"
	domainerrors "hyperstream/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type socialFixture struct {
	followService *followService
	blockService  *blockService
	userRepo      *fakeUserRepo
	followRepo    *fakeFollowRepo
	blockRepo     *fakeBlockRepo
	alice         *entity.User
	bob           *entity.User
}

func newSocialFixture(t *testing.T) *socialFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	followRepo := newFakeFollowRepo()
	blockRepo := newFakeBlockRepo()

	alice := &entity.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	bob := &entity.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	userRepo.users[alice.ID] = alice
	userRepo.users[bob.ID] = bob

	follow := NewFollowService(FollowServiceParams{
		FollowRepo: followRepo,
		BlockRepo:  blockRepo,
		UserRepo:   userRepo,
		Logger:     testLogger(),
	})
	block := NewBlockService(BlockServiceParams{
		BlockRepo:  blockRepo,
		FollowRepo: followRepo,
		UserRepo:   userRepo,
		Logger:     testLogger(),
	})

	return &socialFixture{
		followService: follow.(*followService),
		blockService:  block.(*blockService),
		userRepo:      userRepo,
		followRepo:    followRepo,
		blockRepo:     blockRepo,
		alice:         alice,
		bob:           bob,
	}
}

func TestFollowService_Follow_Success(t *testing.T) {
	fx := newSocialFixture(t)

	follow, err := fx.followService.Follow(context.Background(), fx.alice.ID, fx.bob.ID)

	require.NoError(t, err)
	assert.Equal(t, fx.alice.ID, follow.FollowerID)
	assert.Equal(t, fx.bob.ID, follow.FollowingID)

	following, err := fx.followService.IsFollowing(context.Background(), fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestFollowService_Follow_Self(t *testing.T) {
	fx := newSocialFixture(t)

	_, err := fx.followService.Follow(context.Background(), fx.alice.ID, fx.alice.ID)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestFollowService_Follow_UnknownUser(t *testing.T) {
	fx := newSocialFixture(t)

	_, err := fx.followService.Follow(context.Background(), fx.alice.ID, uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestFollowService_Follow_Duplicate(t *testing.T) {
	fx := newSocialFixture(t)
	ctx := context.Background()

	_, err := fx.followService.Follow(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)

	_, err = fx.followService.Follow(ctx, fx.alice.ID, fx.bob.ID)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.StatusCode())
}

func TestFollowService_Follow_BlockedEitherDirection(t *testing.T) {
	fx := newSocialFixture(t)
	ctx := context.Background()

	_, err := fx.blockService.Block(ctx, fx.bob.ID, fx.alice.ID)
	require.NoError(t, err)

	_, err = fx.followService.Follow(ctx, fx.alice.ID, fx.bob.ID)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.StatusCode())
}

func TestFollowService_Unfollow(t *testing.T) {
	fx := newSocialFixture(t)
	ctx := context.Background()

	_, err := fx.followService.Follow(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)

	removed, err := fx.followService.Unfollow(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.bob.ID, removed.FollowingID)

	_, err = fx.followService.Unfollow(ctx, fx.alice.ID, fx.bob.ID)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestBlockService_Block_SeversFollows(t *testing.T) {
	fx := newSocialFixture(t)
	ctx := context.Background()

	_, err := fx.followService.Follow(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)
	_, err = fx.followService.Follow(ctx, fx.bob.ID, fx.alice.ID)
	require.NoError(t, err)

	_, err = fx.blockService.Block(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)

	following, err := fx.followService.IsFollowing(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	following, err = fx.followService.IsFollowing(ctx, fx.bob.ID, fx.alice.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestBlockService_BlockUnblock(t *testing.T) {
	fx := newSocialFixture(t)
	ctx := context.Background()

	_, err := fx.blockService.Block(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)

	blocked, err := fx.blockService.IsBlocked(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, fx.blockService.Unblock(ctx, fx.alice.ID, fx.bob.ID))

	blocked, err = fx.blockService.IsBlocked(ctx, fx.alice.ID, fx.bob.ID)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBlockService_Block_Self(t *testing.T) {
	fx := newSocialFixture(t)

	_, err := fx.blockService.Block(context.Background(), fx.alice.ID, fx.alice.ID)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
}
