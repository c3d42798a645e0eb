package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swiftsell/internal/auth"
	"swiftsell/internal/marketplace"
)

var loginProvider string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google or Facebook",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		var provider auth.Provider
		switch loginProvider {
		case "google":
			provider = auth.ProviderGoogle
		case "facebook":
			provider = auth.ProviderFacebook
		default:
			return fmt.Errorf("unknown provider %q (google or facebook)", loginProvider)
		}

		profile, err := a.gateway.SignIn(cmd.Context(), provider)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s (%s)\n", profile.DisplayName, profile.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.gateway.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect [platform]",
	Short: "Connect a marketplace account",
	Long: `Connects the signed-in user to a marketplace. Platforms with an OAuth
flow open the authorization page in your browser and stay pending until the
authorization completes; the rest connect immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		id := marketplace.ID(args[0])
		state, err := a.gateway.Connect(cmd.Context(), id)
		if err != nil {
			return err
		}
		switch state {
		case auth.StatePending:
			fmt.Printf("Authorization for %s opened in your browser.\n", id)
		case auth.StateConnected:
			fmt.Printf("Connected to %s.\n", id)
		}
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect [platform]",
	Short: "Disconnect a marketplace account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		id := marketplace.ID(args[0])
		if err := a.gateway.Disconnect(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Disconnected from %s.\n", id)
		return nil
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List marketplaces and their connection state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		for _, id := range a.registry.IDs() {
			p, _ := a.registry.Lookup(id)
			fmt.Printf("%-22s %-24s %s\n", id, p.Name, a.gateway.ConnectionState(id))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginProvider, "provider", "google", "Identity provider (google or facebook)")
	rootCmd.AddCommand(loginCmd, logoutCmd, connectCmd, disconnectCmd, platformsCmd)
}
