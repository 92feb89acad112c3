// Command pollctl validates poll definitions and inspects stored polls from
// the command line.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/pollkit/internal/bootstrap"
	"github.com/vncsmyrnk/pollkit/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "pollctl",
	Short:        "Validate poll definitions and inspect poll results",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML configuration file")
}

// openRepositories loads the configuration and opens the configured store,
// which must be one the server persists to.
func openRepositories(ctx context.Context) (*bootstrap.Repositories, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.OpenPersistentRepositories(ctx, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
