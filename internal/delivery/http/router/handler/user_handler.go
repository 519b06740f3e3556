// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "hyperstream/internal/delivery/context"
	"hyperstream/internal/delivery/http/response"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for account and session handlers.
type UserHandler struct {
	authUC usecase.AuthUsecase
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(authUC usecase.AuthUsecase, userUC usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		authUC: authUC,
		userUC: userUC,
		logger: logger,
	}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Signup handles local account registration.
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid signup input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.authUC.Register(c.Request().Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "User registered successfully. Please verify your email.")
}

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles the local login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.authUC.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshToken rotates a refresh token for a fresh pair.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, err := h.authUC.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, pair, "Token refreshed successfully")
}

// Logout clears the caller's stored refresh token.
func (h *UserHandler) Logout(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	if err := h.authUC.Logout(c.Request().Context(), identity.ID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Successfully logged out")
}

// CurrentUser returns the authenticated identity.
func (h *UserHandler) CurrentUser(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	return response.Success(c, http.StatusOK, identity, "Current user fetched successfully")
}

// GetByUsername returns a user's identity by username.
func (h *UserHandler) GetByUsername(c echo.Context) error {
	identity, err := h.userUC.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, identity, "User fetched successfully")
}

// GetProfile returns the public profile (identity + stream) by username.
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userUC.GetProfile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile fetched successfully")
}

// GetRecommended lists users to discover.
func (h *UserHandler) GetRecommended(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	users, err := h.userUC.GetRecommended(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "Recommended users fetched successfully")
}

// VerifyEmail marks the authenticated account's email as verified.
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	if err := h.authUC.VerifyEmail(c.Request().Context(), identity.ID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Email verified successfully")
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerificationEmail re-sends the verification mail.
func (h *UserHandler) ResendVerificationEmail(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authUC.ResendVerificationEmail(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Verification email sent")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// ChangePassword swaps the caller's password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.authUC.ChangePassword(c.Request().Context(), usecase.ChangePasswordInput{
		UserID:      identity.ID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

// SendPasswordRecoveryEmail mails a reset link.
func (h *UserHandler) SendPasswordRecoveryEmail(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authUC.SendPasswordRecoveryEmail(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password recovery email sent")
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// ResetPassword sets a new password proven by the emailed token.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.authUC.ResetPassword(c.Request().Context(), usecase.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password reset successfully")
}

type updateAccountRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	Avatar      *string `json:"avatar" validate:"omitempty,url"`
	CoverImage  *string `json:"coverImage" validate:"omitempty,url"`
}

// UpdateAccount applies the provided profile fields.
func (h *UserHandler) UpdateAccount(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return domainerrors.Unauthorized("")
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.BadRequest("Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.userUC.UpdateAccount(c.Request().Context(), usecase.UpdateAccountInput{
		UserID:      identity.ID,
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, updated, "Account updated successfully")
}
