package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"swiftsell/internal/config"
)

var adminKeyFlags = map[string]*string{}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Device-level administration",
}

var adminKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys stored on this device",
	Long: `API keys saved here override both environment variables and the config
file. They are stored in the local preference database, never synced.`,
}

var adminKeysSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save API keys to the device",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		creds := a.cfg.Credentials
		apply := map[string]*string{
			"gemini-api-key":       &creds.GeminiAPIKey,
			"identity-api-key":     &creds.IdentityAPIKey,
			"identity-auth-domain": &creds.IdentityAuthDomain,
			"identity-project-id":  &creds.IdentityProjectID,
			"google-client-id":     &creds.GoogleClientID,
			"facebook-app-id":      &creds.FacebookAppID,
			"spotify-client-id":    &creds.SpotifyClientID,
			"shopify-api-key":      &creds.ShopifyAPIKey,
			"ebay-client-id":       &creds.EbayClientID,
			"amazon-client-id":     &creds.AmazonClientID,
			"etsy-client-id":       &creds.EtsyClientID,
		}
		changed := false
		for name, dst := range apply {
			if cmd.Flags().Changed(name) {
				*dst = *adminKeyFlags[name]
				changed = true
			}
		}
		if !changed {
			return fmt.Errorf("no keys given; see --help for available flags")
		}

		if err := config.SaveAdminOverrides(a.prefs, creds); err != nil {
			return err
		}
		fmt.Println("Keys saved.")
		return nil
	},
}

var adminKeysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which keys are configured (values redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		c := a.cfg.Credentials
		rows := []struct {
			name  string
			value string
		}{
			{"geminiApiKey", c.GeminiAPIKey},
			{"identityApiKey", c.IdentityAPIKey},
			{"identityAuthDomain", c.IdentityAuthDomain},
			{"identityProjectId", c.IdentityProjectID},
			{"googleClientId", c.GoogleClientID},
			{"facebookAppId", c.FacebookAppID},
			{"spotifyClientId", c.SpotifyClientID},
			{"shopifyApiKey", c.ShopifyAPIKey},
			{"ebayClientId", c.EbayClientID},
			{"amazonClientId", c.AmazonClientID},
			{"etsyClientId", c.EtsyClientID},
		}
		for _, r := range rows {
			fmt.Printf("%-20s %s\n", r.name, redact(r.value))
		}
		return nil
	},
}

func redact(v string) string {
	if v == "" {
		return "(not set)"
	}
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}

func init() {
	for _, name := range []string{
		"gemini-api-key", "identity-api-key", "identity-auth-domain",
		"identity-project-id", "google-client-id", "facebook-app-id",
		"spotify-client-id", "shopify-api-key", "ebay-client-id",
		"amazon-client-id", "etsy-client-id",
	} {
		adminKeyFlags[name] = adminKeysSetCmd.Flags().String(name, "", "Set "+name)
	}
	adminKeysCmd.AddCommand(adminKeysSetCmd, adminKeysShowCmd)
	adminCmd.AddCommand(adminKeysCmd)
	rootCmd.AddCommand(adminCmd)
}
