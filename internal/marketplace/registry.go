// Package marketplace defines the closed set of marketplaces an item can be
// listed to, as a data-driven registry. Each entry carries everything the
// auth gateway needs to run a connect flow: the authorization URL template,
// the OAuth scopes, and whether a connect step is required at all. String
// branching over platform ids lives here and nowhere else.
package marketplace

import (
	"fmt"
	"net/url"
	"sort"

	"swiftsell/internal/config"
)

// ID identifies a marketplace. The set is closed; profile connection maps are
// keyed by these values.
type ID string

const (
	Facebook            ID = "facebook"
	FacebookMarketplace ID = "facebookMarketplace"
	Google              ID = "google"
	Spotify             ID = "spotify"
	Ebay                ID = "ebay"
	Amazon              ID = "amazon"
	Shopify             ID = "shopify"
	Etsy                ID = "etsy"
	Mercari             ID = "mercari"
	Poshmark            ID = "poshmark"
	Depop               ID = "depop"
	Vinted              ID = "vinted"
)

// RedirectURI is the app deep link OAuth providers redirect back to. The
// callback itself is handled out of process; see auth.Gateway.
const RedirectURI = "com.swiftsell.app://oauth-callback"

// Platform is the capability record for one marketplace.
type Platform struct {
	ID   ID
	Name string

	// RequiresConnection marks platforms that need a one-time OAuth connect
	// before listing. Platforms without it are connected by flipping the flag.
	RequiresConnection bool

	Scopes []string

	// AuthURL builds the external authorization URL from configured
	// credentials. Nil for platforms with no OAuth redirect.
	AuthURL func(creds config.Credentials) string
}

// Registry maps platform ids to capability records.
type Registry struct {
	platforms map[ID]Platform
}

// NewRegistry returns the registry for the fixed marketplace set.
func NewRegistry() *Registry {
	r := &Registry{platforms: make(map[ID]Platform)}
	for _, p := range defaultPlatforms() {
		r.platforms[p.ID] = p
	}
	return r
}

// Lookup returns the platform record for id.
func (r *Registry) Lookup(id ID) (Platform, bool) {
	p, ok := r.platforms[id]
	return p, ok
}

// IDs returns every platform id, sorted for deterministic iteration.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.platforms))
	for id := range r.platforms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func defaultPlatforms() []Platform {
	return []Platform{
		{
			ID: Google, Name: "Google",
			// Connected implicitly through Google sign-in.
		},
		{
			ID: Facebook, Name: "Facebook",
			// Connected implicitly through Facebook sign-in.
		},
		{
			ID: FacebookMarketplace, Name: "Facebook Marketplace",
			RequiresConnection: true,
			Scopes:             []string{"marketplace_management", "pages_manage_posts"},
			AuthURL: func(creds config.Credentials) string {
				return fmt.Sprintf(
					"https://www.facebook.com/v18.0/dialog/oauth?client_id=%s&redirect_uri=%s&scope=%s&response_type=code",
					creds.FacebookAppID,
					url.QueryEscape(RedirectURI),
					url.QueryEscape("marketplace_management,pages_manage_posts"),
				)
			},
		},
		{
			ID: Spotify, Name: "Spotify",
			RequiresConnection: true,
			Scopes:             []string{"user-read-private", "user-read-email"},
			AuthURL: func(creds config.Credentials) string {
				return fmt.Sprintf(
					"https://accounts.spotify.com/authorize?client_id=%s&response_type=code&redirect_uri=%s&scope=%s",
					creds.SpotifyClientID,
					url.QueryEscape(RedirectURI),
					url.QueryEscape("user-read-private user-read-email"),
				)
			},
		},
		{
			ID: Shopify, Name: "Shopify",
			RequiresConnection: true,
			Scopes:             []string{"read_products", "write_products", "read_orders"},
			AuthURL: func(creds config.Credentials) string {
				return fmt.Sprintf(
					"https://{shop}.myshopify.com/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&response_type=code",
					creds.ShopifyAPIKey,
					url.QueryEscape("read_products,write_products,read_orders"),
					url.QueryEscape(RedirectURI),
				)
			},
		},
		{
			ID: Ebay, Name: "eBay",
			RequiresConnection: true,
			Scopes: []string{
				"https://api.ebay.com/oauth/api_scope/sell.marketing.readonly",
				"https://api.ebay.com/oauth/api_scope/sell.inventory.readonly",
				"https://api.ebay.com/oauth/api_scope/sell.account.readonly",
			},
			AuthURL: func(creds config.Credentials) string {
				return fmt.Sprintf(
					"https://auth.ebay.com/oauth2/authorize?client_id=%s&response_type=code&redirect_uri=%s&scope=%s",
					creds.EbayClientID,
					url.QueryEscape(RedirectURI),
					url.QueryEscape("https://api.ebay.com/oauth/api_scope/sell.marketing.readonly https://api.ebay.com/oauth/api_scope/sell.inventory.readonly https://api.ebay.com/oauth/api_scope/sell.account.readonly"),
				)
			},
		},
		{
			ID: Amazon, Name: "Amazon",
			RequiresConnection: true,
			AuthURL: func(creds config.Credentials) string {
				return fmt.Sprintf(
					"https://sellercentral.amazon.com/apps/authorize/consent?application_id=%s&redirect_uri=%s&state=state123",
					creds.AmazonClientID,
					url.QueryEscape(RedirectURI),
				)
			},
		},
		{
			ID: Etsy, Name: "Etsy",
			RequiresConnection: true,
			Scopes:             []string{"listings_r", "listings_w"},
			AuthURL: func(creds config.Credentials) string {
				return fmt.Sprintf(
					"https://www.etsy.com/oauth/connect?response_type=code&redirect_uri=%s&scope=%s&client_id=%s",
					url.QueryEscape(RedirectURI),
					url.QueryEscape("listings_r listings_w"),
					creds.EtsyClientID,
				)
			},
		},
		// Peer-to-peer resale platforms have no public OAuth surface yet;
		// connecting is a local flag flip.
		{ID: Mercari, Name: "Mercari"},
		{ID: Poshmark, Name: "Poshmark"},
		{ID: Depop, Name: "Depop"},
		{ID: Vinted, Name: "Vinted"},
	}
}
