package handler

import (
	"net/http"

	deliverycontext "hyperstream/internal/delivery/context"
	"hyperstream/internal/delivery/http/response"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UploadHandler holds dependencies for media upload handlers.
type UploadHandler struct {
	uploadUC usecase.UploadUsecase
}

// NewUploadHandler is the constructor for UploadHandler.
func NewUploadHandler(uploadUC usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uploadUC: uploadUC}
}

// UploadImage stores one multipart image under the caller's key space.
func (h *UploadHandler) UploadImage(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return domainerrors.BadRequest("Missing 'image' form field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	output, err := h.uploadUC.UploadImage(c.Request().Context(), usecase.UploadImageInput{
		UserID:      identity.ID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Image uploaded successfully")
}
