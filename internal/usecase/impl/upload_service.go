package impl

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"hyperstream/config"
	deliverycontext "hyperstream/internal/delivery/context"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/domain/service"
	"hyperstream/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// defaultMaxUploadSize caps uploads when the bucket config leaves it unset.
const defaultMaxUploadSize = 5 << 20 // 5 MiB

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// uploadService implements the UploadUsecase interface.
type uploadService struct {
	storage       service.FileStorage
	maxUploadSize int64
	logger        *slog.Logger
}

// UploadServiceParams holds dependencies for uploadService, injected by Fx.
type UploadServiceParams struct {
	fx.In

	Storage service.FileStorage
	Config  *config.Config
	Logger  *slog.Logger
}

// NewUploadService is the constructor for uploadService.
func NewUploadService(params UploadServiceParams) usecase.UploadUsecase {
	maxUploadSize := int64(defaultMaxUploadSize)
	if params.Config.Storage != nil && params.Config.Storage.MaxUploadSize > 0 {
		maxUploadSize = params.Config.Storage.MaxUploadSize
	}

	return &uploadService{
		storage:       params.Storage,
		maxUploadSize: maxUploadSize,
		logger:        params.Logger,
	}
}

func (srv *uploadService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UploadImage validates and stores one image, returning its URL. Objects are
// keyed per user so uploads never collide.
func (srv *uploadService) UploadImage(ctx context.Context, input usecase.UploadImageInput) (*usecase.UploadOutput, error) {
	if input.Size <= 0 {
		return nil, domainerrors.BadRequest("Uploaded file is empty.")
	}
	if input.Size > srv.maxUploadSize {
		return nil, domainerrors.BadRequest(fmt.Sprintf("File exceeds the %d byte upload limit.", srv.maxUploadSize))
	}
	if _, ok := allowedImageTypes[strings.ToLower(input.ContentType)]; !ok {
		return nil, domainerrors.BadRequest("Only jpeg, png, gif and webp images are accepted.")
	}

	key := fmt.Sprintf("%s/%s%s", input.UserID, uuid.New(), strings.ToLower(path.Ext(input.Filename)))

	storedURL, err := srv.storage.Upload(ctx, key, input.ContentType, input.Content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store upload")
	}

	srv.log(ctx).Info("Image uploaded",
		slog.String("userID", input.UserID.String()), slog.String("key", key))

	return &usecase.UploadOutput{URL: storedURL}, nil
}
