package auth

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftsell/internal/config"
	"swiftsell/internal/marketplace"
	"swiftsell/internal/store"
)

type fakeOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (f *fakeOpener) Open(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, url)
	return nil
}

type failingIdentity struct{}

func (failingIdentity) SignIn(ctx context.Context, provider Provider) (Identity, error) {
	return Identity{}, errors.New("popup closed")
}

func newTestGateway(t *testing.T) (*Gateway, *store.Preferences, *fakeOpener) {
	t.Helper()
	prefs, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = prefs.Close() })

	opener := &fakeOpener{}
	creds := config.Credentials{EbayClientID: "test-ebay-client"}
	g := NewGateway(prefs, marketplace.NewRegistry(), MockIdentity{}, opener, creds)
	return g, prefs, opener
}

func TestMockGoogleSignIn(t *testing.T) {
	g, _, _ := newTestGateway(t)

	profile, err := g.SignIn(context.Background(), ProviderGoogle)
	require.NoError(t, err)

	assert.Equal(t, "mock-google-user", profile.UID)
	assert.Equal(t, "test@gmail.com", profile.Email)
	assert.Equal(t, "Test User", profile.DisplayName)
	assert.Equal(t, "google.com", profile.Provider)
	assert.True(t, profile.ConnectedPlatforms[marketplace.Google])

	assert.Equal(t, "ebay", profile.Preferences.DefaultPlatform)
	assert.True(t, profile.Preferences.AutoSync)
	assert.True(t, profile.Preferences.Notifications)
}

func TestFacebookSignInConnectsFacebook(t *testing.T) {
	g, _, _ := newTestGateway(t)

	profile, err := g.SignIn(context.Background(), ProviderFacebook)
	require.NoError(t, err)
	assert.Equal(t, "facebook.com", profile.Provider)
	assert.True(t, profile.ConnectedPlatforms[marketplace.Facebook])
	assert.False(t, profile.ConnectedPlatforms[marketplace.Google])
}

func TestSignInProviderFailure(t *testing.T) {
	prefs, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer prefs.Close()

	g := NewGateway(prefs, marketplace.NewRegistry(), failingIdentity{}, &fakeOpener{}, config.Credentials{})
	_, err = g.SignIn(context.Background(), ProviderGoogle)
	require.True(t, errors.Is(err, ErrAuthFailed))
	assert.Nil(t, g.CurrentUser())
}

func TestOperationsRequireSignIn(t *testing.T) {
	g, _, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := g.Connect(ctx, marketplace.Mercari)
	assert.True(t, errors.Is(err, ErrNotSignedIn))

	assert.True(t, errors.Is(g.Disconnect(ctx, marketplace.Mercari), ErrNotSignedIn))
	assert.True(t, errors.Is(g.CompleteConnect(marketplace.Ebay), ErrNotSignedIn))

	v := "mercari"
	err = g.UpdatePreferences(ctx, PreferencesUpdate{DefaultPlatform: &v})
	assert.True(t, errors.Is(err, ErrNotSignedIn))
}

func TestConnectUnknownPlatform(t *testing.T) {
	g, _, _ := newTestGateway(t)
	ctx := context.Background()
	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	_, err = g.Connect(ctx, marketplace.ID("craigslist"))
	assert.True(t, errors.Is(err, ErrUnknownPlatform))
}

func TestConnectNoOAuthPlatformImmediate(t *testing.T) {
	g, _, opener := newTestGateway(t)
	ctx := context.Background()
	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	state, err := g.Connect(ctx, marketplace.Mercari)
	require.NoError(t, err)
	assert.Equal(t, StateConnected, state)
	assert.Empty(t, opener.opened)
	assert.True(t, g.CurrentUser().ConnectedPlatforms[marketplace.Mercari])
}

func TestConnectOAuthPlatformPendingThenComplete(t *testing.T) {
	g, _, opener := newTestGateway(t)
	ctx := context.Background()
	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	state, err := g.Connect(ctx, marketplace.Ebay)
	require.NoError(t, err)
	assert.Equal(t, StatePending, state)
	require.Len(t, opener.opened, 1)
	assert.Contains(t, opener.opened[0], "auth.ebay.com")
	assert.Contains(t, opener.opened[0], "test-ebay-client")

	// Pending is session state only, not a connection.
	assert.False(t, g.CurrentUser().ConnectedPlatforms[marketplace.Ebay])
	assert.Equal(t, StatePending, g.ConnectionState(marketplace.Ebay))

	require.NoError(t, g.CompleteConnect(marketplace.Ebay))
	assert.Equal(t, StateConnected, g.ConnectionState(marketplace.Ebay))
	assert.True(t, g.CurrentUser().ConnectedPlatforms[marketplace.Ebay])
}

func TestCompleteConnectWithoutPending(t *testing.T) {
	g, _, _ := newTestGateway(t)
	ctx := context.Background()
	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	err = g.CompleteConnect(marketplace.Ebay)
	assert.True(t, errors.Is(err, ErrConnectionFailed))
}

func TestConnectBrowserFailure(t *testing.T) {
	g, _, opener := newTestGateway(t)
	ctx := context.Background()
	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	opener.err = errors.New("no display")
	state, err := g.Connect(ctx, marketplace.Ebay)
	assert.True(t, errors.Is(err, ErrConnectionFailed))
	assert.Equal(t, StateDisconnected, state)
	assert.Equal(t, StateDisconnected, g.ConnectionState(marketplace.Ebay))
}

// signOutOpener ends the session from inside the browser open, standing in
// for a sign-out racing the connect flow.
type signOutOpener struct {
	g *Gateway
}

func (s *signOutOpener) Open(ctx context.Context, url string) error {
	return s.g.SignOut(ctx)
}

func TestConnectAfterRacingSignOut(t *testing.T) {
	prefs, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer prefs.Close()

	opener := &signOutOpener{}
	g := NewGateway(prefs, marketplace.NewRegistry(), MockIdentity{}, opener,
		config.Credentials{EbayClientID: "test-ebay-client"})
	opener.g = g
	ctx := context.Background()

	_, err = g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	state, err := g.Connect(ctx, marketplace.Ebay)
	require.True(t, errors.Is(err, ErrNotSignedIn))
	assert.Equal(t, StateDisconnected, state)
	assert.Equal(t, StateDisconnected, g.ConnectionState(marketplace.Ebay))
}

func TestDisconnectRoundTrip(t *testing.T) {
	g, prefs, _ := newTestGateway(t)
	ctx := context.Background()
	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	_, err = g.Connect(ctx, marketplace.Mercari)
	require.NoError(t, err)
	require.NoError(t, g.Disconnect(ctx, marketplace.Mercari))

	assert.Equal(t, StateDisconnected, g.ConnectionState(marketplace.Mercari))
	assert.False(t, g.CurrentUser().ConnectedPlatforms[marketplace.Mercari])

	// The persisted profile reflects the disconnect.
	g2 := NewGateway(prefs, marketplace.NewRegistry(), MockIdentity{}, &fakeOpener{}, config.Credentials{})
	g2.Restore()
	assert.False(t, g2.CurrentUser().ConnectedPlatforms[marketplace.Mercari])
}

func TestRestoreDropsPending(t *testing.T) {
	g, prefs, _ := newTestGateway(t)
	ctx := context.Background()
	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	_, err = g.Connect(ctx, marketplace.Mercari)
	require.NoError(t, err)
	_, err = g.Connect(ctx, marketplace.Ebay)
	require.NoError(t, err)
	require.Equal(t, StatePending, g.ConnectionState(marketplace.Ebay))

	g2 := NewGateway(prefs, marketplace.NewRegistry(), MockIdentity{}, &fakeOpener{}, config.Credentials{})
	g2.Restore()
	assert.Equal(t, StateConnected, g2.ConnectionState(marketplace.Mercari))
	assert.Equal(t, StateDisconnected, g2.ConnectionState(marketplace.Ebay))
}

func TestSignInMergesStoredProfileSameUser(t *testing.T) {
	g, _, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)
	_, err = g.Connect(ctx, marketplace.Depop)
	require.NoError(t, err)

	v := "depop"
	require.NoError(t, g.UpdatePreferences(ctx, PreferencesUpdate{DefaultPlatform: &v}))

	// Same mock user signs in again: connections and preferences carry over.
	profile, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)
	assert.True(t, profile.ConnectedPlatforms[marketplace.Depop])
	assert.Equal(t, "depop", profile.Preferences.DefaultPlatform)
}

func TestSignInDoesNotInheritOtherUser(t *testing.T) {
	g, _, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)
	_, err = g.Connect(ctx, marketplace.Depop)
	require.NoError(t, err)

	// Different mock user: fresh defaults, no inherited connections.
	profile, err := g.SignIn(ctx, ProviderFacebook)
	require.NoError(t, err)
	assert.False(t, profile.ConnectedPlatforms[marketplace.Depop])
	assert.Equal(t, "ebay", profile.Preferences.DefaultPlatform)
}

func TestSignOutClearsEverything(t *testing.T) {
	g, prefs, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)
	require.NoError(t, g.SignOut(ctx))

	assert.Nil(t, g.CurrentUser())
	assert.Equal(t, StateDisconnected, g.ConnectionState(marketplace.Google))

	_, err = prefs.Get(store.KeyUserProfile)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestUpdatePreferencesPartial(t *testing.T) {
	g, _, _ := newTestGateway(t)
	ctx := context.Background()
	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	off := false
	require.NoError(t, g.UpdatePreferences(ctx, PreferencesUpdate{AutoSync: &off}))

	prefs := g.CurrentUser().Preferences
	assert.False(t, prefs.AutoSync)
	assert.Equal(t, "ebay", prefs.DefaultPlatform)
	assert.True(t, prefs.Notifications)
}

func TestSubscribeNotifications(t *testing.T) {
	g, _, _ := newTestGateway(t)
	ctx := context.Background()

	var mu sync.Mutex
	var events []*UserProfile
	unsubscribe := g.Subscribe(func(p *UserProfile) {
		mu.Lock()
		events = append(events, p)
		mu.Unlock()
	})

	_, err := g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)
	require.NoError(t, g.SignOut(ctx))

	mu.Lock()
	require.Len(t, events, 2)
	assert.Equal(t, "mock-google-user", events[0].UID)
	assert.Nil(t, events[1])
	mu.Unlock()

	unsubscribe()
	_, err = g.SignIn(ctx, ProviderGoogle)
	require.NoError(t, err)

	mu.Lock()
	assert.Len(t, events, 2)
	mu.Unlock()
}
