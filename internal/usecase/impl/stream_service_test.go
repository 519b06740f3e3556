package impl

import (
	"context"
	"testing"

	"hyperstream/internal/domain/entity"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamService_Update_PartialFields(t *testing.T) {
	streamRepo := newFakeStreamRepo()
	service := NewStreamService(StreamServiceParams{StreamRepo: streamRepo, Logger: testLogger()})

	userID := uuid.New()
	streamRepo.streams[userID] = &entity.Stream{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "alice's stream",
		IsChatEnabled: true,
	}

	name := "Late night coding"
	delayed := true
	updated, err := service.Update(context.Background(), usecase.UpdateStreamInput{
		UserID:        userID,
		Name:          &name,
		IsChatDelayed: &delayed,
	})

	require.NoError(t, err)
	assert.Equal(t, "Late night coding", updated.Name)
	assert.True(t, updated.IsChatDelayed)
	// Untouched settings survive.
	assert.True(t, updated.IsChatEnabled)
}

func TestStreamService_GetByUserID_NotFound(t *testing.T) {
	service := NewStreamService(StreamServiceParams{StreamRepo: newFakeStreamRepo(), Logger: testLogger()})

	_, err := service.GetByUserID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrStreamNotFound)
}
