package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"swiftsell/internal/config"
	"swiftsell/internal/logging"
	"swiftsell/internal/marketplace"
	"swiftsell/internal/store"
)

// Gateway owns the authentication session: the active profile, per-platform
// connection state, and the listener list. One gateway per application.
type Gateway struct {
	prefs    *store.Preferences
	registry *marketplace.Registry
	identity IdentityProvider
	opener   URLOpener
	creds    config.Credentials

	mu          sync.Mutex
	current     *UserProfile
	connections map[marketplace.ID]ConnectionState
	listeners   map[int]func(*UserProfile)
	nextID      int
}

// NewGateway wires the gateway from its dependencies. Pass a MockIdentity
// when no identity credential is configured.
func NewGateway(prefs *store.Preferences, registry *marketplace.Registry, identity IdentityProvider, opener URLOpener, creds config.Credentials) *Gateway {
	return &Gateway{
		prefs:       prefs,
		registry:    registry,
		identity:    identity,
		opener:      opener,
		creds:       creds,
		connections: make(map[marketplace.ID]ConnectionState),
		listeners:   make(map[int]func(*UserProfile)),
	}
}

// Restore loads a previously persisted profile into the session, if one
// exists. Call once at startup before any other gateway operation.
func (g *Gateway) Restore() {
	raw, err := g.prefs.Get(store.KeyUserProfile)
	if err != nil {
		return
	}
	var profile UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		logging.AuthError("Stored profile unparseable, ignoring: %v", err)
		return
	}

	g.mu.Lock()
	g.current = &profile
	g.rebuildConnections()
	g.mu.Unlock()

	logging.Auth("Session restored for %s", profile.UID)
	g.notify()
}

// SignIn delegates to the identity provider, merges any previously stored
// profile for the same user, persists the result, and notifies listeners.
func (g *Gateway) SignIn(ctx context.Context, provider Provider) (*UserProfile, error) {
	identity, err := g.identity.SignIn(ctx, provider)
	if err != nil {
		logging.AuthError("%s sign-in failed: %v", provider, err)
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	profile := g.buildProfile(identity)

	g.mu.Lock()
	g.current = profile
	g.rebuildConnections()
	g.mu.Unlock()

	g.persist(profile)
	logging.Auth("Signed in as %s via %s", profile.UID, identity.Provider)
	g.notify()
	return profile.clone(), nil
}

// buildProfile merges the fresh identity with stored platform-connection and
// preference data. Stored data keyed by another user id is not inherited.
func (g *Gateway) buildProfile(identity Identity) *UserProfile {
	profile := &UserProfile{
		UID:                identity.UID,
		Email:              identity.Email,
		DisplayName:        identity.DisplayName,
		PhotoURL:           identity.PhotoURL,
		Provider:           identity.Provider,
		ConnectedPlatforms: make(map[marketplace.ID]bool),
		Preferences:        defaultPreferences(),
	}

	if raw, err := g.prefs.Get(store.KeyUserProfile); err == nil {
		var stored UserProfile
		if json.Unmarshal([]byte(raw), &stored) == nil && stored.UID == identity.UID {
			for k, v := range stored.ConnectedPlatforms {
				profile.ConnectedPlatforms[k] = v
			}
			profile.Preferences = stored.Preferences
		}
	}

	// Signing in through a provider implies that platform is connected.
	switch identity.Provider {
	case "google.com":
		profile.ConnectedPlatforms[marketplace.Google] = true
	case "facebook.com":
		profile.ConnectedPlatforms[marketplace.Facebook] = true
	}
	return profile
}

// SignOut clears the active session and the persisted profile, then notifies
// listeners with a nil profile.
func (g *Gateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	g.current = nil
	g.connections = make(map[marketplace.ID]ConnectionState)
	g.mu.Unlock()

	if err := g.prefs.Remove(store.KeyUserProfile); err != nil {
		logging.AuthError("Failed to clear stored profile: %v", err)
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	logging.Auth("Signed out")
	g.notify()
	return nil
}

// Connect starts the connect flow for a platform. Platforms with an OAuth
// endpoint open their authorization URL in the external browser and move to
// pending; CompleteConnect promotes them once the callback is verified.
// Platforms without one connect immediately.
func (g *Gateway) Connect(ctx context.Context, id marketplace.ID) (ConnectionState, error) {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		return StateDisconnected, ErrNotSignedIn
	}
	platform, ok := g.registry.Lookup(id)
	if !ok {
		g.mu.Unlock()
		return StateDisconnected, fmt.Errorf("%w: %s", ErrUnknownPlatform, id)
	}

	if platform.AuthURL != nil {
		authURL := platform.AuthURL(g.creds)
		g.mu.Unlock()
		if err := g.opener.Open(ctx, authURL); err != nil {
			logging.AuthError("Failed to open %s authorization URL: %v", id, err)
			return StateDisconnected, fmt.Errorf("%w: %s: %v", ErrConnectionFailed, id, err)
		}
		g.mu.Lock()
		// The session may have ended while the browser was opening.
		if g.current == nil {
			g.mu.Unlock()
			return StateDisconnected, ErrNotSignedIn
		}
		g.connections[id] = StatePending
		g.mu.Unlock()
		logging.Auth("%s connect pending (authorization opened)", id)
		return StatePending, nil
	}

	g.connections[id] = StateConnected
	g.current.ConnectedPlatforms[id] = true
	profile := g.current.clone()
	g.mu.Unlock()

	g.persist(profile)
	logging.Auth("%s connected", id)
	return StateConnected, nil
}

// CompleteConnect finishes a pending connect flow, marking the platform
// connected and persisting the profile. This is the seam a verified OAuth
// callback (or poll) drives.
func (g *Gateway) CompleteConnect(id marketplace.ID) error {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		return ErrNotSignedIn
	}
	if g.connections[id] != StatePending {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s: no pending authorization", ErrConnectionFailed, id)
	}
	g.connections[id] = StateConnected
	g.current.ConnectedPlatforms[id] = true
	profile := g.current.clone()
	g.mu.Unlock()

	g.persist(profile)
	logging.Auth("%s connected (authorization completed)", id)
	return nil
}

// Disconnect flips the platform back to disconnected and persists.
func (g *Gateway) Disconnect(ctx context.Context, id marketplace.ID) error {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		return ErrNotSignedIn
	}
	if _, ok := g.registry.Lookup(id); !ok {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, id)
	}
	g.connections[id] = StateDisconnected
	g.current.ConnectedPlatforms[id] = false
	profile := g.current.clone()
	g.mu.Unlock()

	g.persist(profile)
	logging.Auth("%s disconnected", id)
	return nil
}

// ConnectionState reports the three-state relation for a platform.
func (g *Gateway) ConnectionState(id marketplace.ID) ConnectionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if state, ok := g.connections[id]; ok {
		return state
	}
	return StateDisconnected
}

// UpdatePreferences merges a partial update into the stored preferences.
func (g *Gateway) UpdatePreferences(ctx context.Context, update PreferencesUpdate) error {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		return ErrNotSignedIn
	}
	if update.DefaultPlatform != nil {
		g.current.Preferences.DefaultPlatform = *update.DefaultPlatform
	}
	if update.AutoSync != nil {
		g.current.Preferences.AutoSync = *update.AutoSync
	}
	if update.Notifications != nil {
		g.current.Preferences.Notifications = *update.Notifications
	}
	profile := g.current.clone()
	g.mu.Unlock()

	g.persist(profile)
	return nil
}

// CurrentUser returns a copy of the active profile, or nil when signed out.
func (g *Gateway) CurrentUser() *UserProfile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current.clone()
}

// Subscribe registers a profile change listener and returns its unsubscribe
// function. Multiple listeners are supported with no ordering guarantee;
// mutating the listener list from inside a callback is unsupported.
func (g *Gateway) Subscribe(fn func(*UserProfile)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

// rebuildConnections derives session connection state from the persisted
// boolean map. Pending never survives a restart. Caller holds g.mu.
func (g *Gateway) rebuildConnections() {
	g.connections = make(map[marketplace.ID]ConnectionState)
	if g.current == nil {
		return
	}
	for id, connected := range g.current.ConnectedPlatforms {
		if connected {
			g.connections[id] = StateConnected
		}
	}
}

// persist writes the profile to the preference store. Persistence is
// fire-and-forget: a failed write is logged, not surfaced, since the session
// remains authoritative until restart.
func (g *Gateway) persist(profile *UserProfile) {
	data, err := json.Marshal(profile)
	if err != nil {
		logging.AuthError("Failed to marshal profile: %v", err)
		return
	}
	if err := g.prefs.Set(store.KeyUserProfile, string(data)); err != nil {
		logging.AuthError("Failed to persist profile: %v", err)
	}
}

func (g *Gateway) notify() {
	g.mu.Lock()
	fns := make([]func(*UserProfile), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	profile := g.current.clone()
	g.mu.Unlock()

	for _, fn := range fns {
		fn(profile)
	}
}

// IsConfigured reports whether a real identity provider credential exists.
// Used at wiring time to decide between the hosted provider and MockIdentity.
func IsConfigured(creds config.Credentials) bool {
	return creds.IdentityAPIKey != ""
}
