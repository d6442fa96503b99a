package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/PolarWolf314/oauthvault/internal/configs"
	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
	"github.com/PolarWolf314/oauthvault/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configInitVaultPath  string
	configInitOwner      string
	configInitIterations int
	configInitBaseURL    string
	configInitYes        bool
)

func init() {
	configInitCmd.Flags().StringVar(&configInitVaultPath, "vault-path", "", "default credentials file")
	configInitCmd.Flags().StringVar(&configInitOwner, "owner", "", "default owner label")
	configInitCmd.Flags().IntVar(&configInitIterations, "iterations", 0, "PBKDF2 iterations for new envelopes")
	configInitCmd.Flags().StringVar(&configInitBaseURL, "base-url", "", "API base URL")
	configInitCmd.Flags().BoolVarP(&configInitYes, "yes", "y", false, "accept defaults for everything not given as a flag")
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitVaultPath = ""
	configInitOwner = ""
	configInitIterations = 0
	configInitBaseURL = ""
	configInitYes = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the configuration file",
	Long: `Writes config.toml, prompting for the most common settings.

Existing values are offered as defaults, so running it again edits the
current configuration. An invalid existing file is replaced by defaults.

Examples:
  oauthvault config init
  oauthvault config init --vault-path ~/vaults/etsy.vault --iterations 1000000 --yes`,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting config init command")

	path := resolveConfigPath()
	current, err := configs.LoadConfig(path, configs.UserSettings)
	if errors.Is(err, kerrors.ErrInvalidConfig) {
		Logger.WarnfAlways("Existing config is invalid and will be replaced: %v", err)
		current = configs.DefaultConfig(configs.UserSettings)
	} else if err != nil {
		return Logger.ErrorfAndReturn("failed to load config: %w", err)
	}

	if !configInitYes {
		fmt.Println(color.CyanString("Welcome to oauthvault!") + " Let's set up your configuration.\n")
	}

	current.Vault.DefaultPath, err = settingValue(configInitVaultPath, "Credentials file", current.Vault.DefaultPath)
	if err != nil {
		return err
	}

	current.Vault.DefaultOwner, err = settingValue(configInitOwner, "Default owner label (optional)", current.Vault.DefaultOwner)
	if err != nil {
		return err
	}

	iterations := ""
	if configInitIterations > 0 {
		iterations = strconv.Itoa(configInitIterations)
	}
	iterations, err = settingValue(iterations, "Key derivation iterations", strconv.Itoa(current.Vault.KDFIterations))
	if err != nil {
		return err
	}
	if current.Vault.KDFIterations, err = strconv.Atoi(iterations); err != nil {
		return fmt.Errorf("%w: iterations must be a number, got %q", kerrors.ErrInvalidConfig, iterations)
	}

	current.API.BaseURL, err = settingValue(configInitBaseURL, "API base URL", current.API.BaseURL)
	if err != nil {
		return err
	}

	if err := configs.SaveConfig(path, current); err != nil {
		return failBeforeSpinner(err)
	}

	Logger.Infof("Config written to %s", path)
	fmt.Println(ui.Success.Sprint("✓") + " Configuration saved to " + ui.Path.Sprint(path))
	return nil
}

// settingValue returns flagValue if set, the current value with --yes, and
// otherwise prompts with the current value as default.
func settingValue(flagValue, prompt, currentValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if configInitYes {
		return currentValue, nil
	}
	return promptForInput(prompt, currentValue)
}
