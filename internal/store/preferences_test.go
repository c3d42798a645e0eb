package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Preferences {
	t.Helper()
	p, err := Open(filepath.Join(t.TempDir(), "data", "preferences.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestRoundTrip(t *testing.T) {
	p := openTestStore(t)

	require.NoError(t, p.Set(KeyUserProfile, `{"uid":"u1"}`))
	got, err := p.Get(KeyUserProfile)
	require.NoError(t, err)
	require.Equal(t, `{"uid":"u1"}`, got)
}

func TestGetMissing(t *testing.T) {
	p := openTestStore(t)

	_, err := p.Get("nope")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestSetOverwrites(t *testing.T) {
	p := openTestStore(t)

	require.NoError(t, p.Set(KeyAdminAPIKeys, "first"))
	require.NoError(t, p.Set(KeyAdminAPIKeys, "second"))

	got, err := p.Get(KeyAdminAPIKeys)
	require.NoError(t, err)
	require.Equal(t, "second", got)
}

func TestRemove(t *testing.T) {
	p := openTestStore(t)

	require.NoError(t, p.Set(KeyUserProfile, "x"))
	require.NoError(t, p.Remove(KeyUserProfile))

	_, err := p.Get(KeyUserProfile)
	require.True(t, errors.Is(err, ErrNotFound))

	// Removing an absent key is not an error.
	require.NoError(t, p.Remove(KeyUserProfile))
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.db")

	p, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, p.Set(KeyUserProfile, "persisted"))
	require.NoError(t, p.Close())

	p2, err := Open(path)
	require.NoError(t, err)
	defer p2.Close()

	got, err := p2.Get(KeyUserProfile)
	require.NoError(t, err)
	require.Equal(t, "persisted", got)
}
