package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"swiftsell/internal/store"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "swiftsell", cfg.Name)
	require.Equal(t, "gemini-2.5-flash", cfg.Gen.ChatModel)
	require.Equal(t, "gemini-2.5-flash", cfg.Gen.SearchModel)
	require.Equal(t, "2s", cfg.Listing.SimulatedDelay)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Gen.ChatModel = "gemini-2.5-pro"
	cfg.Credentials.GeminiAPIKey = "file-key"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "gemini-2.5-pro", loaded.Gen.ChatModel)
	require.Equal(t, "file-key", loaded.Credentials.GeminiAPIKey)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Credentials.GeminiAPIKey = "file-key"
	require.NoError(t, cfg.Save(path))

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("SWIFTSELL_EBAY_CLIENT_ID", "env-ebay")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-key", loaded.Credentials.GeminiAPIKey)
	require.Equal(t, "env-ebay", loaded.Credentials.EbayClientID)
}

func TestPrefixedEnvWinsOverBare(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "bare")
	t.Setenv("SWIFTSELL_GEMINI_API_KEY", "prefixed")

	loaded, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "prefixed", loaded.Credentials.GeminiAPIKey)
}

func TestAdminOverridesWinOverEnv(t *testing.T) {
	prefs, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer prefs.Close()

	require.NoError(t, SaveAdminOverrides(prefs, Credentials{GeminiAPIKey: "admin-key"}))

	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.Credentials.GeminiAPIKey)

	require.NoError(t, cfg.ApplyAdminOverrides(prefs))
	require.Equal(t, "admin-key", cfg.Credentials.GeminiAPIKey)
}

func TestAdminOverridesPartialMerge(t *testing.T) {
	prefs, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer prefs.Close()

	require.NoError(t, SaveAdminOverrides(prefs, Credentials{EtsyClientID: "admin-etsy"}))

	cfg := Default()
	cfg.Credentials.GeminiAPIKey = "kept"
	require.NoError(t, cfg.ApplyAdminOverrides(prefs))
	require.Equal(t, "kept", cfg.Credentials.GeminiAPIKey)
	require.Equal(t, "admin-etsy", cfg.Credentials.EtsyClientID)
}

func TestAdminOverridesUnparseableIgnored(t *testing.T) {
	prefs, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer prefs.Close()

	require.NoError(t, prefs.Set(store.KeyAdminAPIKeys, "{garbage"))

	cfg := Default()
	cfg.Credentials.GeminiAPIKey = "kept"
	require.NoError(t, cfg.ApplyAdminOverrides(prefs))
	require.Equal(t, "kept", cfg.Credentials.GeminiAPIKey)
}

func TestAdminBundleFieldNames(t *testing.T) {
	prefs, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer prefs.Close()

	// The stored bundle uses the camelCase names the in-app admin form writes.
	require.NoError(t, prefs.Set(store.KeyAdminAPIKeys,
		`{"geminiApiKey":"g","ebayClientId":"e","facebookAppId":"f"}`))

	cfg := Default()
	require.NoError(t, cfg.ApplyAdminOverrides(prefs))
	require.Equal(t, "g", cfg.Credentials.GeminiAPIKey)
	require.Equal(t, "e", cfg.Credentials.EbayClientID)
	require.Equal(t, "f", cfg.Credentials.FacebookAppID)
}
