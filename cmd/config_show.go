package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/oauthvault/internal/configs"
	"github.com/PolarWolf314/oauthvault/internal/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Displays the effective configuration: the values from config.toml on top
of the built-in defaults.

Examples:
  oauthvault config show
  oauthvault config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		path := resolveConfigPath()
		Logger.Debugf("Loading config from %s", path)

		current, err := configs.LoadConfig(path, configs.UserSettings)
		if err != nil {
			return failBeforeSpinner(err)
		}

		if configShowJSON {
			output, err := json.MarshalIndent(current, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		source := path
		if !utils.FileExists(path) {
			source = "defaults, no config file"
		}
		outputConfigText(current, source)
		return nil
	},
}

// outputConfigText outputs the config in human-readable format.
func outputConfigText(c *configs.Config, source string) {
	fmt.Println(color.CyanString("Configuration") + " (" + source + "):")
	fmt.Println()
	fmt.Println(color.CyanString("Vault:"))
	fmt.Printf("  %-18s %s\n", "Credentials file:", color.GreenString(c.Vault.DefaultPath))
	fmt.Printf("  %-18s %s\n", "Iterations:", color.YellowString("%d", c.Vault.KDFIterations))
	if c.Vault.DefaultOwner != "" {
		fmt.Printf("  %-18s %s\n", "Default owner:", color.GreenString(c.Vault.DefaultOwner))
	}

	fmt.Println()
	fmt.Println(color.CyanString("API:"))
	fmt.Printf("  %-18s %s\n", "Base URL:", c.API.BaseURL)
	fmt.Printf("  %-18s %s\n", "Request token:", c.API.RequestTokenURL)
	fmt.Printf("  %-18s %s\n", "Authorize:", c.API.AuthorizeURL)
	fmt.Printf("  %-18s %s\n", "Access token:", c.API.AccessTokenURL)
	fmt.Printf("  %-18s %s\n", "Callback:", c.API.CallbackURL)
	if c.API.APIKeyParam != "" {
		fmt.Printf("  %-18s %s\n", "API key param:", c.API.APIKeyParam)
	}
	fmt.Printf("  %-18s %ds\n", "Timeout:", c.API.TimeoutSeconds)

	fmt.Println()
	fmt.Println(color.CyanString("Audit:"))
	if c.Audit.Enabled {
		fmt.Printf("  %-18s %s\n", "Log:", color.GreenString(c.Audit.Path))
	} else {
		fmt.Printf("  %-18s %s\n", "Log:", color.YellowString("disabled"))
	}
}
