package entity

// AuthProvider identifies a login method linked to a user account.
type AuthProvider string

// The full, closed set of supported providers. There is no runtime
// registration; routes dispatch to these statically.
const (
	ProviderJWT      AuthProvider = "jwt"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
)
