package cmd

import (
	"github.com/PolarWolf314/oauthvault/internal/envelope"
	"github.com/PolarWolf314/oauthvault/internal/ui"
	"github.com/PolarWolf314/oauthvault/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	sealConsumerKey    string
	sealConsumerSecret string
	sealToken          string
	sealTokenSecret    string
	sealOwner          string
	sealPath           string
	sealIterations     int
	sealForce          bool
)

func init() {
	sealCmd.Flags().StringVar(&sealConsumerKey, "consumer-key", "", "application consumer key")
	sealCmd.Flags().StringVar(&sealConsumerSecret, "consumer-secret", "", "application consumer secret (prompted without echo if omitted)")
	sealCmd.Flags().StringVar(&sealToken, "token", "", "OAuth access token")
	sealCmd.Flags().StringVar(&sealTokenSecret, "token-secret", "", "OAuth access token secret (prompted without echo if omitted)")
	sealCmd.Flags().StringVar(&sealOwner, "owner", "", "owner label stored with the envelope (defaults to user@host)")
	sealCmd.Flags().StringVarP(&sealPath, "path", "p", "", "credentials file to write (defaults to the configured vault path)")
	sealCmd.Flags().IntVar(&sealIterations, "iterations", 0, "PBKDF2 iterations for the new envelope")
	sealCmd.Flags().BoolVarP(&sealForce, "force", "f", false, "replace an existing credentials file")

	rootCmd.AddCommand(sealCmd)
}

// resetSealCommandState resets the seal command's global state for testing.
func resetSealCommandState() {
	sealConsumerKey = ""
	sealConsumerSecret = ""
	sealToken = ""
	sealTokenSecret = ""
	sealOwner = ""
	sealPath = ""
	sealIterations = 0
	sealForce = false
}

var sealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Seal existing OAuth1 credentials into an encrypted envelope",
	Long: `Encrypts a credential record you already have and writes it to the
credentials file.

Values not given as flags are prompted for. Secrets are read without echo,
or one per line from stdin with --password-stdin. The order on stdin is:
consumer secret, token secret, password.

Examples:
  # Prompt for everything
  oauthvault seal

  # Script-friendly
  printf '%s\n' "$CS" "$TS" "$PW" | oauthvault seal --consumer-key KEY --token TOKEN --password-stdin`,
	RunE: runSeal,
}

func runSeal(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting seal command")

	path, err := resolveVaultPath(sealPath)
	if err != nil {
		return err
	}
	params, err := resolveParams(sealIterations)
	if err != nil {
		return err
	}
	Logger.Debugf("Sealing to %s with %d iterations", path, params.Iterations)

	if err := refuseExisting(path, sealForce); err != nil {
		return err
	}

	var record envelope.CredentialRecord
	if record.ConsumerKey, err = readRecordField(sealConsumerKey, "Consumer key", false); err != nil {
		return err
	}
	if record.ConsumerSecret, err = readRecordField(sealConsumerSecret, "Consumer secret", true); err != nil {
		return err
	}
	if record.OAuthToken, err = readRecordField(sealToken, "Token", false); err != nil {
		return err
	}
	if record.OAuthTokenSecret, err = readRecordField(sealTokenSecret, "Token secret", true); err != nil {
		return err
	}

	if err := record.Validate(); err != nil {
		return failBeforeSpinner(err)
	}
	owner := resolveOwner(sealOwner)
	if err := envelope.ValidateOwner(owner); err != nil {
		return failBeforeSpinner(err)
	}

	password, err := readNewPassword("New password")

	spinner, cleanup := startSpinner("Sealing credentials...")
	defer cleanup()

	if err != nil {
		return reportError(spinner, err)
	}

	result, err := workflows.Seal(cmd.Context(), workflows.SealOptions{
		Record:    record,
		Password:  password,
		Owner:     owner,
		Path:      path,
		Overwrite: sealForce,
		Params:    params,
		Audit:     auditLogger(),
	})
	if err != nil {
		return reportError(spinner, err)
	}

	Logger.Infof("Credentials sealed to %s", result.Path)
	spinner.FinalMSG = ui.Success.Sprint("✓") + " Credentials sealed to " + ui.Path.Sprint(result.Path) + "\n" +
		ui.Info.Sprint("→") + " Owner " + ui.Highlight.Sprint(result.Owner)
	return nil
}
