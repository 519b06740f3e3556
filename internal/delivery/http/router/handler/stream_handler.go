package handler

import (
	"net/http"

	deliverycontext "hyperstream/internal/delivery/context"
	"hyperstream/internal/delivery/http/response"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StreamHandler holds dependencies for stream metadata handlers.
type StreamHandler struct {
	streamUC usecase.StreamUsecase
}

// NewStreamHandler is the constructor for StreamHandler.
func NewStreamHandler(streamUC usecase.StreamUsecase) *StreamHandler {
	return &StreamHandler{streamUC: streamUC}
}

// GetByUserID returns the stream owned by the given user.
func (h *StreamHandler) GetByUserID(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return domainerrors.BadRequest("Invalid user id")
	}

	stream, err := h.streamUC.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stream, "Stream fetched successfully")
}

type updateStreamRequest struct {
	Name                *string `json:"name" validate:"omitempty,min=1,max=255"`
	ThumbnailURL        *string `json:"thumbnailUrl" validate:"omitempty,url"`
	IsChatEnabled       *bool   `json:"isChatEnabled"`
	IsChatDelayed       *bool   `json:"isChatDelayed"`
	IsChatFollowersOnly *bool   `json:"isChatFollowersOnly"`
}

// Update applies the provided settings to the caller's own stream.
func (h *StreamHandler) Update(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	var req updateStreamRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	stream, err := h.streamUC.Update(c.Request().Context(), usecase.UpdateStreamInput{
		UserID:              identity.ID,
		Name:                req.Name,
		ThumbnailURL:        req.ThumbnailURL,
		IsChatEnabled:       req.IsChatEnabled,
		IsChatDelayed:       req.IsChatDelayed,
		IsChatFollowersOnly: req.IsChatFollowersOnly,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stream, "Stream updated successfully")
}
