package config

import (
	"encoding/json"
	"errors"
	"os"

	"swiftsell/internal/logging"
	"swiftsell/internal/store"
)

// Credentials is the fixed set of named credentials the application uses.
// The JSON tags match the admin bundle persisted under the admin_api_keys
// preference key, so the in-app admin form and this struct stay in sync.
type Credentials struct {
	// Generative backend
	GeminiAPIKey string `yaml:"gemini_api_key" json:"geminiApiKey"`

	// Identity provider (client-side app configuration)
	IdentityAPIKey     string `yaml:"identity_api_key" json:"identityApiKey"`
	IdentityAuthDomain string `yaml:"identity_auth_domain" json:"identityAuthDomain"`
	IdentityProjectID  string `yaml:"identity_project_id" json:"identityProjectId"`

	// Per-marketplace OAuth client identifiers
	GoogleClientID  string `yaml:"google_client_id" json:"googleClientId"`
	FacebookAppID   string `yaml:"facebook_app_id" json:"facebookAppId"`
	SpotifyClientID string `yaml:"spotify_client_id" json:"spotifyClientId"`
	ShopifyAPIKey   string `yaml:"shopify_api_key" json:"shopifyApiKey"`
	EbayClientID    string `yaml:"ebay_client_id" json:"ebayClientId"`
	AmazonClientID  string `yaml:"amazon_client_id" json:"amazonClientId"`
	EtsyClientID    string `yaml:"etsy_client_id" json:"etsyClientId"`
}

// envBindings maps environment variable names to credential fields.
// GEMINI_API_KEY is accepted without the prefix for parity with the hosted
// build's environment.
func (c *Credentials) applyEnv() {
	bindings := []struct {
		names []string
		dst   *string
	}{
		{[]string{"SWIFTSELL_GEMINI_API_KEY", "GEMINI_API_KEY"}, &c.GeminiAPIKey},
		{[]string{"SWIFTSELL_IDENTITY_API_KEY"}, &c.IdentityAPIKey},
		{[]string{"SWIFTSELL_IDENTITY_AUTH_DOMAIN"}, &c.IdentityAuthDomain},
		{[]string{"SWIFTSELL_IDENTITY_PROJECT_ID"}, &c.IdentityProjectID},
		{[]string{"SWIFTSELL_GOOGLE_CLIENT_ID"}, &c.GoogleClientID},
		{[]string{"SWIFTSELL_FACEBOOK_APP_ID"}, &c.FacebookAppID},
		{[]string{"SWIFTSELL_SPOTIFY_CLIENT_ID"}, &c.SpotifyClientID},
		{[]string{"SWIFTSELL_SHOPIFY_API_KEY"}, &c.ShopifyAPIKey},
		{[]string{"SWIFTSELL_EBAY_CLIENT_ID"}, &c.EbayClientID},
		{[]string{"SWIFTSELL_AMAZON_CLIENT_ID"}, &c.AmazonClientID},
		{[]string{"SWIFTSELL_ETSY_CLIENT_ID"}, &c.EtsyClientID},
	}
	for _, b := range bindings {
		for _, name := range b.names {
			if v := os.Getenv(name); v != "" {
				*b.dst = v
				break
			}
		}
	}
}

// merge overlays non-empty fields of other onto c.
func (c *Credentials) merge(other Credentials) {
	pairs := []struct{ dst, src *string }{
		{&c.GeminiAPIKey, &other.GeminiAPIKey},
		{&c.IdentityAPIKey, &other.IdentityAPIKey},
		{&c.IdentityAuthDomain, &other.IdentityAuthDomain},
		{&c.IdentityProjectID, &other.IdentityProjectID},
		{&c.GoogleClientID, &other.GoogleClientID},
		{&c.FacebookAppID, &other.FacebookAppID},
		{&c.SpotifyClientID, &other.SpotifyClientID},
		{&c.ShopifyAPIKey, &other.ShopifyAPIKey},
		{&c.EbayClientID, &other.EbayClientID},
		{&c.AmazonClientID, &other.AmazonClientID},
		{&c.EtsyClientID, &other.EtsyClientID},
	}
	for _, p := range pairs {
		if *p.src != "" {
			*p.dst = *p.src
		}
	}
}

// ApplyAdminOverrides overlays the admin-entered key bundle from the
// preference store, if one exists. The admin form is a non-production
// convenience; its values win over file and environment.
func (c *Config) ApplyAdminOverrides(prefs *store.Preferences) error {
	raw, err := prefs.Get(store.KeyAdminAPIKeys)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var admin Credentials
	if err := json.Unmarshal([]byte(raw), &admin); err != nil {
		logging.Config("Ignoring unparseable admin key bundle: %v", err)
		return nil
	}
	c.Credentials.merge(admin)
	logging.Config("Admin credential overrides applied")
	return nil
}

// SaveAdminOverrides persists the admin key bundle to the preference store.
func SaveAdminOverrides(prefs *store.Preferences, creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return prefs.Set(store.KeyAdminAPIKeys, string(data))
}
