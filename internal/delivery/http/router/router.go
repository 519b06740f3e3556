// Package router contains routing setup for the HTTP delivery.
package router

import (
	"hyperstream/internal/delivery/http/middleware"
	"hyperstream/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds every handler and middleware the router mounts,
// injected by Fx.
type RouterParams struct {
	fx.In

	UserHandler   *handler.UserHandler
	OAuthHandler  *handler.OAuthHandler
	StreamHandler *handler.StreamHandler
	FollowHandler *handler.FollowHandler
	BlockHandler  *handler.BlockHandler
	UploadHandler *handler.UploadHandler

	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the router.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api/v1")
	authed := r.params.AuthMiddleware.Authenticate

	users := api.Group("/users")
	{
		users.POST("/signup", r.params.UserHandler.Signup)
		users.POST("/login", r.params.UserHandler.Login)
		users.POST("/refresh-token", r.params.UserHandler.RefreshToken)
		users.POST("/logout", r.params.UserHandler.Logout, authed)
		users.GET("/current-user", r.params.UserHandler.CurrentUser, authed)
		users.GET("/u/:username", r.params.UserHandler.GetByUsername, authed)
		users.GET("/profile/:username", r.params.UserHandler.GetProfile)
		users.GET("/recommended", r.params.UserHandler.GetRecommended, authed)
		users.POST("/verify-email", r.params.UserHandler.VerifyEmail, authed)
		users.POST("/resend-verification-email", r.params.UserHandler.ResendVerificationEmail)
		users.POST("/change-password", r.params.UserHandler.ChangePassword, authed)
		users.POST("/password-recovery-email", r.params.UserHandler.SendPasswordRecoveryEmail)
		users.POST("/reset-password", r.params.UserHandler.ResetPassword)
		users.PATCH("/update-account", r.params.UserHandler.UpdateAccount, authed)

		// Federated login handshakes.
		users.GET("/google", r.params.OAuthHandler.GoogleLogin)
		users.GET("/google/callback", r.params.OAuthHandler.GoogleCallback)
		users.GET("/facebook", r.params.OAuthHandler.FacebookLogin)
		users.GET("/facebook/callback", r.params.OAuthHandler.FacebookCallback)
	}

	follows := api.Group("/follows", authed)
	{
		follows.GET("/is-following/:followingId", r.params.FollowHandler.IsFollowing)
		follows.POST("/follow", r.params.FollowHandler.Follow)
		follows.POST("/unfollow", r.params.FollowHandler.Unfollow)
		follows.GET("/followed", r.params.FollowHandler.Followed)
	}

	blocks := api.Group("/blocks")
	{
		blocks.GET("/is-blocked/:userId/:otherUserId", r.params.BlockHandler.IsBlocked)
		blocks.POST("/block", r.params.BlockHandler.Block, authed)
		blocks.POST("/unblock", r.params.BlockHandler.Unblock, authed)
	}

	streams := api.Group("/streams")
	{
		streams.GET("/u/:userId", r.params.StreamHandler.GetByUserID)
		streams.PUT("/update-stream", r.params.StreamHandler.Update, authed)
	}

	uploads := api.Group("/uploads", authed)
	{
		uploads.POST("/image", r.params.UploadHandler.UploadImage)
	}
}
