package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command. Its subcommands work even when
// the existing config file is invalid, so it does not load it up front.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage oauthvault configuration",
	Long: `Provides commands for managing the user configuration file.

The configuration sets where the credentials file lives, the key
derivation cost for new envelopes, the OAuth1 provider endpoints and the
audit log location.

Examples:
  # Create or update the configuration interactively
  oauthvault config init

  # Show the effective configuration
  oauthvault config show`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

func init() {
	rootCmd.AddCommand(ConfigCmd)
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}
