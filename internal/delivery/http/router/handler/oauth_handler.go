package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"hyperstream/config"
	domainerrors "hyperstream/internal/domain/errors"
	"hyperstream/internal/domain/service"
	"hyperstream/internal/infra/auth/oauth"
	"hyperstream/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OAuthHandler drives the authorization-code handshakes. The provider set is
// closed; each provider gets its own route pair.
type OAuthHandler struct {
	authUC          usecase.AuthUsecase
	google          service.OAuthProvider
	facebook        service.OAuthProvider
	frontendBaseURL string
	logger          *slog.Logger
}

// OAuthHandlerParams holds dependencies for OAuthHandler, injected by Fx.
type OAuthHandlerParams struct {
	fx.In

	AuthUC   usecase.AuthUsecase
	Google   service.OAuthProvider `name:"google"`
	Facebook service.OAuthProvider `name:"facebook"`
	Config   *config.Config
	Logger   *slog.Logger
}

// NewOAuthHandler is the constructor for OAuthHandler.
func NewOAuthHandler(params OAuthHandlerParams) *OAuthHandler {
	return &OAuthHandler{
		authUC:          params.AuthUC,
		google:          params.Google,
		facebook:        params.Facebook,
		frontendBaseURL: strings.TrimRight(params.Config.Frontend.BaseURL, "/"),
		logger:          params.Logger,
	}
}

// GoogleLogin redirects the browser into Google's consent screen.
func (h *OAuthHandler) GoogleLogin(c echo.Context) error {
	return h.begin(c, h.google)
}

// GoogleCallback finishes the Google handshake.
func (h *OAuthHandler) GoogleCallback(c echo.Context) error {
	return h.finish(c, h.google)
}

// FacebookLogin redirects the browser into Facebook's consent screen.
func (h *OAuthHandler) FacebookLogin(c echo.Context) error {
	return h.begin(c, h.facebook)
}

// FacebookCallback finishes the Facebook handshake.
func (h *OAuthHandler) FacebookCallback(c echo.Context) error {
	return h.finish(c, h.facebook)
}

func (h *OAuthHandler) begin(c echo.Context, provider service.OAuthProvider) error {
	return c.Redirect(http.StatusTemporaryRedirect, provider.AuthorizationURL(oauth.GenerateState()))
}

// finish validates the CSRF state, exchanges the code, resolves the profile
// to a local account and hands the token pair to the frontend via redirect.
func (h *OAuthHandler) finish(c echo.Context, provider service.OAuthProvider) error {
	if !provider.ValidateState(c.QueryParam("state")) {
		return domainerrors.Unauthorized("Invalid or expired OAuth state")
	}

	code := c.QueryParam("code")
	if code == "" {
		return domainerrors.BadRequest("Missing authorization code")
	}

	profile, err := provider.ExchangeCode(c.Request().Context(), code)
	if err != nil {
		h.logger.Warn("OAuth code exchange failed",
			slog.String("provider", string(provider.Provider())), slog.Any("error", err))

		return domainerrors.Unauthorized("Could not verify the provider login")
	}

	output, err := h.authUC.OAuthLogin(c.Request().Context(), profile)
	if err != nil {
		return errors.WithStack(err)
	}

	redirect := h.frontendBaseURL + "/verify-email?accessToken=" + url.QueryEscape(output.AccessToken) +
		"&refreshToken=" + url.QueryEscape(output.RefreshToken) + "&socialLogin=true"

	return c.Redirect(http.StatusTemporaryRedirect, redirect)
}
