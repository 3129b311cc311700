// Command server runs the splitledger RPC server and its maintenance tasks.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/config"
)

var (
	configPath string
	addrFlag   string
	dbFlag     string
)

var rootCmd = &cobra.Command{
	Use:           "splitledger",
	Short:         "Shared expense ledger server",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (default $SPLITLEDGER_CONFIG or ~/.config/splitledger/config.toml)")
	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "listen address, overrides server.addr")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database path, overrides database.path")
}

// loadConfig reads config and applies command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}
	if dbFlag != "" {
		cfg.Database.Path = dbFlag
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
