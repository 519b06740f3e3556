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

// FollowHandler holds dependencies for follow-graph handlers.
type FollowHandler struct {
	followUC usecase.FollowUsecase
}

// NewFollowHandler is the constructor for FollowHandler.
func NewFollowHandler(followUC usecase.FollowUsecase) *FollowHandler {
	return &FollowHandler{followUC: followUC}
}

type followRequest struct {
	FollowingID string `json:"followingId" validate:"required,uuid"`
}

// Follow creates a follow edge from the caller to the given user.
func (h *FollowHandler) Follow(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	var req followRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	followingID, err := uuid.Parse(req.FollowingID)
	if err != nil {
		return domainerrors.BadRequest("Invalid user id")
	}

	follow, err := h.followUC.Follow(c.Request().Context(), identity.ID, followingID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, follow, "Followed successfully")
}

// Unfollow removes the follow edge from the caller to the given user.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	var req followRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	followingID, err := uuid.Parse(req.FollowingID)
	if err != nil {
		return domainerrors.BadRequest("Invalid user id")
	}

	follow, err := h.followUC.Unfollow(c.Request().Context(), identity.ID, followingID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, follow, "Unfollowed successfully")
}

// IsFollowing reports whether the caller follows the given user.
func (h *FollowHandler) IsFollowing(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	followingID, err := uuid.Parse(c.Param("followingId"))
	if err != nil {
		return domainerrors.BadRequest("Invalid user id")
	}

	following, err := h.followUC.IsFollowing(c.Request().Context(), identity.ID, followingID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"isFollowing": following}, "Follow status fetched successfully")
}

// Followed lists every user the caller follows.
func (h *FollowHandler) Followed(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	follows, err := h.followUC.Followed(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, follows, "Followed users fetched successfully")
}
