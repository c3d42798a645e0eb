package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"swiftsell/internal/auth"
	"swiftsell/internal/config"
	"swiftsell/internal/logging"
	"swiftsell/internal/marketplace"
	"swiftsell/internal/store"
)

var (
	// Global flags
	verbose    bool
	debugLogs  bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "swiftsell",
	Short: "SwiftSell - snap a photo, sell it everywhere",
	Long: `SwiftSell turns item photos into ready-to-post marketplace listings.

Point it at up to three photos and it drafts a title, description, and a
price grounded in live market data, then publishes the listing to the
marketplaces you pick.

Common flows:
  swiftsell analyze photo.jpg
  swiftsell chat
  swiftsell login --provider google`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// app bundles the wired components a subcommand needs. Construction is
// lazy so commands that only print help pay nothing.
type app struct {
	cfg      *config.Config
	prefs    *store.Preferences
	registry *marketplace.Registry
	gateway  *auth.Gateway
}

func newApp() (*app, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Initialize(cfg.DataDir, loggingOptions(cfg)); err != nil {
		logger.Warn("file logging unavailable", zap.Error(err))
	}

	prefs, err := store.Open(cfg.PreferencesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}

	// Admin-saved keys win over env and file.
	if err := cfg.ApplyAdminOverrides(prefs); err != nil {
		logger.Warn("admin key overrides not applied", zap.Error(err))
	}

	registry := marketplace.NewRegistry()
	opener := auth.SystemBrowser{}

	var identity auth.IdentityProvider
	if auth.IsConfigured(cfg.Credentials) {
		identity = auth.NewOAuthIdentity(cfg.Credentials, opener)
	} else {
		identity = auth.MockIdentity{}
	}

	gateway := auth.NewGateway(prefs, registry, identity, opener, cfg.Credentials)
	gateway.Restore()

	return &app{cfg: cfg, prefs: prefs, registry: registry, gateway: gateway}, nil
}

// loggingOptions merges the config file's logging section with the --debug
// flag; either one enables the category file logs.
func loggingOptions(cfg *config.Config) logging.Options {
	return logging.Options{
		DebugMode:  debugLogs || cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}
}

func (a *app) close() {
	if a.prefs != nil {
		_ = a.prefs.Close()
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Write category debug logs under the data directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.swiftsell/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
