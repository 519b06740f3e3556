package impl

import (
	"context"
	"strings"
	"testing"

	"hyperstream/config"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadFixture(maxSize int64) (usecase.UploadUsecase, *fakeStorage) {
	cfg := &config.Config{
		Storage: &config.StorageConfig{BucketURL: "mem://", MaxUploadSize: maxSize},
	}
	storage := &fakeStorage{}

	return NewUploadService(UploadServiceParams{
		Storage: storage,
		Config:  cfg,
		Logger:  testLogger(),
	}), storage
}

func TestUploadService_UploadImage_Success(t *testing.T) {
	service, storage := newUploadFixture(1024)
	userID := uuid.New()

	output, err := service.UploadImage(context.Background(), usecase.UploadImageInput{
		UserID:      userID,
		Filename:    "avatar.PNG",
		ContentType: "image/png",
		Size:        10,
		Content:     strings.NewReader("fake bytes"),
	})

	require.NoError(t, err)
	assert.Contains(t, output.URL, userID.String())
	assert.True(t, strings.HasSuffix(output.URL, ".png"))
	require.Len(t, storage.keys, 1)
	assert.True(t, strings.HasPrefix(storage.keys[0], userID.String()+"/"))
}

func TestUploadService_UploadImage_RejectsContentType(t *testing.T) {
	service, storage := newUploadFixture(1024)

	_, err := service.UploadImage(context.Background(), usecase.UploadImageInput{
		UserID:      uuid.New(),
		Filename:    "payload.svg",
		ContentType: "image/svg+xml",
		Size:        10,
		Content:     strings.NewReader("<svg/>"),
	})

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
	assert.Empty(t, storage.keys)
}

func TestUploadService_UploadImage_RejectsOversize(t *testing.T) {
	service, _ := newUploadFixture(4)

	_, err := service.UploadImage(context.Background(), usecase.UploadImageInput{
		UserID:      uuid.New(),
		Filename:    "big.jpg",
		ContentType: "image/jpeg",
		Size:        5,
		Content:     strings.NewReader("12345"),
	})

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestUploadService_UploadImage_RejectsEmpty(t *testing.T) {
	service, _ := newUploadFixture(1024)

	_, err := service.UploadImage(context.Background(), usecase.UploadImageInput{
		UserID:      uuid.New(),
		Filename:    "nothing.gif",
		ContentType: "image/gif",
		Size:        0,
		Content:     strings.NewReader(""),
	})

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
}
