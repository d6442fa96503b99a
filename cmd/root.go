package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/PolarWolf314/oauthvault/internal/audit"
	"github.com/PolarWolf314/oauthvault/internal/configs"
	logger "github.com/PolarWolf314/oauthvault/internal/logging"
	"github.com/PolarWolf314/oauthvault/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose       bool
	debug         bool
	configPath    string
	passwordStdin bool
	Logger        logger.Logger

	// config is loaded before every command except the config commands.
	config *configs.Config

	rootCmd = &cobra.Command{
		Use:   "oauthvault",
		Short: "oauthvault - keep OAuth1 credentials in a password-protected vault",
		Long: `oauthvault acquires OAuth1 credentials from a provider and keeps them on
disk in an encrypted envelope that only your password can open.

The envelope holds one credential record: the consumer key and secret of
your application and the access token and secret issued for your account.
Commands that use the credentials unlock them in memory only.

Examples:
  # Authorize with the provider and seal the resulting credentials
  oauthvault acquire --consumer-key KEY

  # Seal credentials you already have
  oauthvault seal

  # Check that your password opens the vault
  oauthvault verify

  # Make a signed API request
  oauthvault call GET /users/__SELF__`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().BoolVar(&passwordStdin, "password-stdin", false, "read passwords and secrets from stdin, one per line")
}

// Execute runs the root command. Errors a command has already shown to the
// user are returned without being printed again.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("Error: ")+err.Error())
		}
	}
	return err
}

func loadConfig(cmd *cobra.Command, args []string) error {
	initLogger()

	path := resolveConfigPath()
	Logger.Debugf("Loading config from %s", path)

	loaded, err := configs.LoadConfig(path, configs.UserSettings)
	if err != nil {
		fmt.Println(ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Fix the file or run " + ui.Code.Sprint("oauthvault config init"))
		return &reportedError{err}
	}
	config = loaded
	return nil
}

func initLogger() {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}
	Logger.Debugf("Initializing command with verbose=%t, debug=%t", verbose, debug)
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return configs.UserSettings.ConfigPath()
}

// auditLogger returns the audit logger for the loaded config. A disabled
// audit trail discards entries.
func auditLogger() audit.Logger {
	if config == nil || !config.Audit.Enabled {
		return audit.Logger{}
	}
	return audit.Logger{Path: config.Audit.Path}
}

// Helper functions for testing

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	passwordStdin = false
	config = nil
	stdinReader = nil
	stdinSource = nil

	resetSealCommandState()
	resetAcquireCommandState()
	resetVerifyCommandState()
	resetInspectCommandState()
	resetRekeyCommandState()
	resetCallCommandState()
	resetLogCommandState()
	resetConfigInitState()
	resetConfigShowState()
	resetCobraFlagState(rootCmd)
}

// resetCobraFlagState clears the Changed mark on every flag so one test's
// flags do not leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCobraFlagState(child)
	}
}
