package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hyperstream/config"
	"hyperstream/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func googleTestConfig() *config.Config {
	return &config.Config{
		GoogleOAuth: &config.OAuthProviderConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			CallbackURL:  "http://localhost:8080/api/v1/users/google/callback",
		},
	}
}

func TestGenerateState_Unique(t *testing.T) {
	first := GenerateState()
	second := GenerateState()

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestProvider_AuthorizationURL(t *testing.T) {
	svc, err := NewGoogleProvider(googleTestConfig())
	require.NoError(t, err)

	state := GenerateState()
	authURL := svc.AuthorizationURL(state)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", parsed.Host)
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Equal(t, state, parsed.Query().Get("state"))
}

func TestProvider_ValidateState_SingleUse(t *testing.T) {
	svc, err := NewGoogleProvider(googleTestConfig())
	require.NoError(t, err)

	state := GenerateState()
	svc.AuthorizationURL(state)

	assert.True(t, svc.ValidateState(state))
	// A second presentation of the same value must fail.
	assert.False(t, svc.ValidateState(state))
}

func TestProvider_ValidateState_UnknownValue(t *testing.T) {
	svc, err := NewGoogleProvider(googleTestConfig())
	require.NoError(t, err)

	assert.False(t, svc.ValidateState("never-issued"))
}

func TestProvider_ValidateState_Expired(t *testing.T) {
	svc, err := NewGoogleProvider(googleTestConfig())
	require.NoError(t, err)
	p := svc.(*provider)

	p.stateMu.Lock()
	p.stateStore["stale"] = time.Now().Add(-time.Minute)
	p.stateMu.Unlock()

	assert.False(t, svc.ValidateState("stale"))
}

func TestProvider_ExchangeCode_Google(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]any{"access_token": "provider-token", "token_type": "Bearer"})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer provider-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":             "google-sub-1",
			"email":          "alice@example.com",
			"name":           "Alice Liddell",
			"picture":        "https://img.test/alice.png",
			"verified_email": true,
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc, err := NewGoogleProvider(googleTestConfig())
	require.NoError(t, err)
	p := svc.(*provider)
	p.endpoints.tokenURL = server.URL + "/token"
	p.endpoints.profileURL = server.URL + "/userinfo"

	profile, err := svc.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", profile.ID)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "Alice Liddell", profile.DisplayName)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, entity.ProviderGoogle, profile.Provider)
}

func TestProvider_ExchangeCode_TokenEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad code", http.StatusBadRequest)
	}))
	defer server.Close()

	svc, err := NewGoogleProvider(googleTestConfig())
	require.NoError(t, err)
	p := svc.(*provider)
	p.endpoints.tokenURL = server.URL

	_, err = svc.ExchangeCode(context.Background(), "bogus")
	assert.Error(t, err)
}

func TestDecodeFacebookProfile(t *testing.T) {
	body := `{
		"id": "fb-1",
		"name": "Bob Builder",
		"email": "bob@example.com",
		"picture": {"data": {"url": "https://img.test/bob.png"}}
	}`

	profile, err := decodeFacebookProfile(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "fb-1", profile.ID)
	assert.Equal(t, "Bob Builder", profile.DisplayName)
	assert.Equal(t, "https://img.test/bob.png", profile.Avatar)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, entity.ProviderFacebook, profile.Provider)
}

func TestDecodeFacebookProfile_NoEmail(t *testing.T) {
	profile, err := decodeFacebookProfile(strings.NewReader(`{"id": "fb-2", "name": "No Mail"}`))
	require.NoError(t, err)
	assert.False(t, profile.EmailVerified)
}
