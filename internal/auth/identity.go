package auth

import (
	"context"

	"swiftsell/internal/logging"
)

// Identity is what the identity provider yields on a successful sign-in.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	Provider    string // provider tag, e.g. "google.com"
}

// IdentityProvider abstracts the popup-based OAuth sign-in. The production
// implementation talks to the hosted identity service; the mock stands in
// when no identity credential is configured.
type IdentityProvider interface {
	SignIn(ctx context.Context, provider Provider) (Identity, error)
}

// MockIdentity yields deterministic test identities. Substituted whenever the
// identity provider is not configured, the same fallback contract as the
// generation client.
type MockIdentity struct{}

// SignIn returns the fixed identity for the requested provider.
func (MockIdentity) SignIn(ctx context.Context, provider Provider) (Identity, error) {
	logging.Auth("Mock %s sign-in", provider)
	switch provider {
	case ProviderFacebook:
		return Identity{
			UID:         "mock-facebook-user",
			Email:       "test@facebook.com",
			DisplayName: "Facebook Test User",
			PhotoURL:    "https://via.placeholder.com/40",
			Provider:    "facebook.com",
		}, nil
	default:
		return Identity{
			UID:         "mock-google-user",
			Email:       "test@gmail.com",
			DisplayName: "Test User",
			PhotoURL:    "https://via.placeholder.com/40",
			Provider:    "google.com",
		}, nil
	}
}
