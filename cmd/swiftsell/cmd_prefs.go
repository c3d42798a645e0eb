package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swiftsell/internal/auth"
)

var (
	prefDefaultPlatform string
	prefAutoSync        string
	prefNotifications   string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "View or change selling preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		user := a.gateway.CurrentUser()
		if user == nil {
			return auth.ErrNotSignedIn
		}
		fmt.Printf("defaultPlatform: %s\n", user.Preferences.DefaultPlatform)
		fmt.Printf("autoSync:        %t\n", user.Preferences.AutoSync)
		fmt.Printf("notifications:   %t\n", user.Preferences.Notifications)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update one or more preferences",
	Long: `Updates the given preferences; unset flags are left unchanged.

  swiftsell prefs set --default-platform mercari --auto-sync=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		var update auth.PreferencesUpdate
		if cmd.Flags().Changed("default-platform") {
			update.DefaultPlatform = &prefDefaultPlatform
		}
		if cmd.Flags().Changed("auto-sync") {
			v := prefAutoSync == "true"
			update.AutoSync = &v
		}
		if cmd.Flags().Changed("notifications") {
			v := prefNotifications == "true"
			update.Notifications = &v
		}

		if err := a.gateway.UpdatePreferences(cmd.Context(), update); err != nil {
			return err
		}
		fmt.Println("Preferences updated.")
		return nil
	},
}

func init() {
	prefsSetCmd.Flags().StringVar(&prefDefaultPlatform, "default-platform", "", "Platform preselected at listing time")
	prefsSetCmd.Flags().StringVar(&prefAutoSync, "auto-sync", "", "Sync listings automatically (true/false)")
	prefsSetCmd.Flags().StringVar(&prefNotifications, "notifications", "", "Enable notifications (true/false)")
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}
