package cmd

import (
	"github.com/PolarWolf314/oauthvault/internal/envelope"
	"github.com/PolarWolf314/oauthvault/internal/ui"
	"github.com/PolarWolf314/oauthvault/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	rekeyPath       string
	rekeyOwner      string
	rekeyIterations int
)

func init() {
	rekeyCmd.Flags().StringVarP(&rekeyPath, "path", "p", "", "credentials file to rekey (defaults to the configured vault path)")
	rekeyCmd.Flags().StringVar(&rekeyOwner, "owner", "", "replace the owner label")
	rekeyCmd.Flags().IntVar(&rekeyIterations, "iterations", 0, "PBKDF2 iterations for the re-sealed envelope")
	rootCmd.AddCommand(rekeyCmd)
}

// resetRekeyCommandState resets the rekey command's global state for testing.
func resetRekeyCommandState() {
	rekeyPath = ""
	rekeyOwner = ""
	rekeyIterations = 0
}

var rekeyCmd = &cobra.Command{
	Use:   "rekey",
	Short: "Change the password or key derivation cost of the credentials",
	Long: `Opens the credentials file with the current password and seals the same
credentials again under a new password and a fresh salt.

Use it to change your password or to raise the iteration count of an
older file. The file is replaced atomically; if anything fails the old
file is left as it was.

With --password-stdin the current password is read from the first line
and the new password from the second.

Examples:
  oauthvault rekey
  oauthvault rekey --iterations 1000000`,
	RunE: runRekey,
}

func runRekey(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting rekey command")

	path, err := resolveVaultPath(rekeyPath)
	if err != nil {
		return err
	}
	params, err := resolveParams(rekeyIterations)
	if err != nil {
		return err
	}
	if err := envelope.ValidateOwner(rekeyOwner); err != nil {
		return failBeforeSpinner(err)
	}

	oldPassword, err := readSecret("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := readNewPassword("New password")

	spinner, cleanup := startSpinner("Rekeying credentials...")
	defer cleanup()

	if err != nil {
		return reportError(spinner, err)
	}

	result, err := workflows.Rekey(cmd.Context(), workflows.RekeyOptions{
		Path:        path,
		OldPassword: oldPassword,
		NewPassword: newPassword,
		Params:      params,
		Owner:       rekeyOwner,
		Audit:       auditLogger(),
	})
	if err != nil {
		return reportError(spinner, err)
	}

	Logger.Infof("Iterations changed from %d to %d", result.OldParams.Iterations, result.NewParams.Iterations)
	spinner.FinalMSG = ui.Success.Sprint("✓") + " Credentials rekeyed in " + ui.Path.Sprint(result.Path) + "\n" +
		ui.Info.Sprint("→") + " The old password no longer unlocks them"
	return nil
}
