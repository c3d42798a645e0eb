// Package auth bridges the third-party identity provider and the
// per-marketplace OAuth connect flows into a single UserProfile and a single
// notification channel. Session state lives in an explicitly constructed
// Gateway with injectable persistence, identity, and browser dependencies,
// never at module scope.
package auth

import (
	"errors"

	"swiftsell/internal/marketplace"
)

var (
	// ErrAuthFailed wraps identity provider sign-in/out failures.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotSignedIn is returned when a platform connect/disconnect or
	// preference update is attempted without an active profile.
	ErrNotSignedIn = errors.New("user must be signed in")

	// ErrConnectionFailed wraps a marketplace connect step whose external
	// call failed.
	ErrConnectionFailed = errors.New("platform connection failed")

	// ErrUnknownPlatform is returned for ids outside the closed platform set.
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Provider selects the identity provider for sign-in.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// ConnectionState is the per-platform connection relation. A platform whose
// OAuth flow has been opened but not confirmed is pending, not connected;
// only a completed callback promotes it.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StatePending      ConnectionState = "pending"
	StateConnected    ConnectionState = "connected"
)

// Preferences are the user's listing defaults.
type Preferences struct {
	DefaultPlatform string `json:"defaultPlatform,omitempty"`
	AutoSync        bool   `json:"autoSync"`
	Notifications   bool   `json:"notifications"`
}

// PreferencesUpdate is a partial preference change; nil fields are left
// untouched by the merge.
type PreferencesUpdate struct {
	DefaultPlatform *string
	AutoSync        *bool
	Notifications   *bool
}

// UserProfile is the normalized view of the signed-in user. Persisted to the
// preference store on every mutation and cleared on sign-out. The connected
// platform map keys are the closed marketplace set; only fully connected
// platforms are recorded true (pending is session state, not persisted).
type UserProfile struct {
	UID                string                     `json:"uid"`
	Email              string                     `json:"email,omitempty"`
	DisplayName        string                     `json:"displayName,omitempty"`
	PhotoURL           string                     `json:"photoURL,omitempty"`
	Provider           string                     `json:"provider"`
	ConnectedPlatforms map[marketplace.ID]bool    `json:"connectedPlatforms"`
	Preferences        Preferences                `json:"preferences"`
}

func defaultPreferences() Preferences {
	return Preferences{
		DefaultPlatform: string(marketplace.Ebay),
		AutoSync:        true,
		Notifications:   true,
	}
}

// clone returns a deep copy so listeners never share the gateway's map.
func (p *UserProfile) clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.ConnectedPlatforms = make(map[marketplace.ID]bool, len(p.ConnectedPlatforms))
	for k, v := range p.ConnectedPlatforms {
		cp.ConnectedPlatforms[k] = v
	}
	return &cp
}
