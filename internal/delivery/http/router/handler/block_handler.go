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

// BlockHandler holds dependencies for block-graph handlers.
type BlockHandler struct {
	blockUC usecase.BlockUsecase
}

// NewBlockHandler is the constructor for BlockHandler.
func NewBlockHandler(blockUC usecase.BlockUsecase) *BlockHandler {
	return &BlockHandler{blockUC: blockUC}
}

type blockRequest struct {
	BlockedID string `json:"blockedId" validate:"required,uuid"`
}

// Block creates a block edge from the caller to the given user.
func (h *BlockHandler) Block(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blockedID, err := uuid.Parse(req.BlockedID)
	if err != nil {
		return domainerrors.BadRequest("Invalid user id")
	}

	block, err := h.blockUC.Block(c.Request().Context(), identity.ID, blockedID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, block, "User blocked successfully")
}

// Unblock removes the block edge from the caller to the given user.
func (h *BlockHandler) Unblock(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blockedID, err := uuid.Parse(req.BlockedID)
	if err != nil {
		return domainerrors.BadRequest("Invalid user id")
	}

	if err := h.blockUC.Unblock(c.Request().Context(), identity.ID, blockedID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User unblocked successfully")
}

// IsBlocked reports whether one user has blocked another.
func (h *BlockHandler) IsBlocked(c echo.Context) error {
	blockerID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return domainerrors.BadRequest("Invalid user id")
	}
	blockedID, err := uuid.Parse(c.Param("otherUserId"))
	if err != nil {
		return domainerrors.BadRequest("Invalid user id")
	}

	blocked, err := h.blockUC.IsBlocked(c.Request().Context(), blockerID, blockedID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"isBlocked": blocked}, "Block status fetched successfully")
}
