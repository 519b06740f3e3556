// Package oauth implements the federated identity providers over the
// standard authorization-code flow. The provider set is closed: Google and
// Facebook are constructed statically, there is no runtime registry.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"hyperstream/config"
	"hyperstream/internal/domain/entity"
	"hyperstream/internal/domain/service"
)

const stateTTL = 10 * time.Minute

// endpoints describes one provider's OAuth surface.
type endpoints struct {
	authURL    string
	tokenURL   string
	profileURL string
	scopes     string
}

// provider implements service.OAuthProvider for a single federated identity
// provider. The profile decoding differs per provider, everything else is
// the same handshake.
type provider struct {
	name         entity.AuthProvider
	clientID     string
	clientSecret string
	redirectURI  string
	endpoints    endpoints
	decodeProfile func(body io.Reader) (*service.OAuthUser, error)
	httpClient   *http.Client

	// State storage for CSRF protection.
	stateMu    sync.Mutex
	stateStore map[string]time.Time
}

// NewGoogleProvider builds the Google OAuth provider.
func NewGoogleProvider(cfg *config.Config) (service.OAuthProvider, error) {
	if cfg.GoogleOAuth == nil {
		return nil, errors.New("googleOAuth configuration must be provided")
	}

	return newProvider(entity.ProviderGoogle, cfg.GoogleOAuth, endpoints{
		authURL:    "https://accounts.google.com/o/oauth2/v2/auth",
		tokenURL:   "https://oauth2.googleapis.com/token",
		profileURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		scopes:     "openid email profile",
	}, decodeGoogleProfile), nil
}

// NewFacebookProvider builds the Facebook OAuth provider.
func NewFacebookProvider(cfg *config.Config) (service.OAuthProvider, error) {
	if cfg.FacebookOAuth == nil {
		return nil, errors.New("facebookOAuth configuration must be provided")
	}

	return newProvider(entity.ProviderFacebook, cfg.FacebookOAuth, endpoints{
		authURL:    "https://www.facebook.com/v19.0/dialog/oauth",
		tokenURL:   "https://graph.facebook.com/v19.0/oauth/access_token",
		profileURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
		scopes:     "email public_profile",
	}, decodeFacebookProfile), nil
}

func newProvider(
	name entity.AuthProvider,
	cfg *config.OAuthProviderConfig,
	eps endpoints,
	decode func(io.Reader) (*service.OAuthUser, error),
) *provider {
	return &provider{
		name:          name,
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		redirectURI:   cfg.CallbackURL,
		endpoints:     eps,
		decodeProfile: decode,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		stateStore:    make(map[string]time.Time),
	}
}

// Provider returns which provider this instance talks to.
func (p *provider) Provider() entity.AuthProvider {
	return p.name
}

// GenerateState returns a cryptographically random state value.
func GenerateState() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// AuthorizationURL builds the provider's consent-screen URL and remembers
// the state parameter for later CSRF validation.
func (p *provider) AuthorizationURL(state string) string {
	p.storeState(state)

	params := url.Values{}
	params.Set("client_id", p.clientID)
	params.Set("redirect_uri", p.redirectURI)
	params.Set("scope", p.endpoints.scopes)
	params.Set("response_type", "code")
	params.Set("state", state)

	return p.endpoints.authURL + "?" + params.Encode()
}

// ValidateState consumes a stored state value. Each value is single-use.
func (p *provider) ValidateState(state string) bool {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	expiry, exists := p.stateStore[state]
	if !exists {
		return false
	}
	delete(p.stateStore, state)

	return time.Now().Before(expiry)
}

func (p *provider) storeState(state string) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	now := time.Now()
	for s, expiry := range p.stateStore {
		if now.After(expiry) {
			delete(p.stateStore, s)
		}
	}

	p.stateStore[state] = now.Add(stateTTL)
}

// ExchangeCode trades an authorization code for an access token, then fetches
// and normalizes the provider profile.
func (p *provider) ExchangeCode(ctx context.Context, code string) (*service.OAuthUser, error) {
	accessToken, err := p.exchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, err
	}

	return p.fetchProfile(ctx, accessToken)
}

func (p *provider) exchangeCodeForToken(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", p.clientID)
	data.Set("client_secret", p.clientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", p.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoints.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to create token exchange request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to exchange code for token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", errors.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", errors.Wrap(err, "failed to decode token response")
	}

	return tokenResponse.AccessToken, nil
}

func (p *provider) fetchProfile(ctx context.Context, accessToken string) (*service.OAuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoints.profileURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create profile request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch provider profile")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("profile request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return p.decodeProfile(resp.Body)
}

func decodeGoogleProfile(body io.Reader) (*service.OAuthUser, error) {
	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	if err := json.NewDecoder(body).Decode(&googleUser); err != nil {
		return nil, errors.Wrap(err, "failed to decode google profile")
	}

	return &service.OAuthUser{
		ID:            googleUser.ID,
		Email:         googleUser.Email,
		DisplayName:   googleUser.Name,
		Avatar:        googleUser.Picture,
		EmailVerified: googleUser.VerifiedEmail,
		Provider:      entity.ProviderGoogle,
	}, nil
}

func decodeFacebookProfile(body io.Reader) (*service.OAuthUser, error) {
	var facebookUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.NewDecoder(body).Decode(&facebookUser); err != nil {
		return nil, errors.Wrap(err, "failed to decode facebook profile")
	}

	// Facebook only returns emails it has verified.
	return &service.OAuthUser{
		ID:            facebookUser.ID,
		Email:         facebookUser.Email,
		DisplayName:   facebookUser.Name,
		Avatar:        facebookUser.Picture.Data.URL,
		EmailVerified: facebookUser.Email != "",
		Provider:      entity.ProviderFacebook,
	}, nil
}
