package cmd

import (
	"fmt"

	"github.com/PolarWolf314/oauthvault/internal/ui"
	"github.com/PolarWolf314/oauthvault/internal/workflows"

	"github.com/spf13/cobra"
)

var verifyPath string

func init() {
	verifyCmd.Flags().StringVarP(&verifyPath, "path", "p", "", "credentials file to open (defaults to the configured vault path)")
	rootCmd.AddCommand(verifyCmd)
}

// resetVerifyCommandState resets the verify command's global state for testing.
func resetVerifyCommandState() {
	verifyPath = ""
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that your password unlocks the credentials",
	Long: `Opens the credentials file with your password and reports whether it
unlocked. Secrets are never printed; keys and tokens are shown masked.

Exits non-zero if the password is wrong or the file is corrupt.

Examples:
  oauthvault verify
  echo "$PW" | oauthvault verify --password-stdin`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting verify command")

	path, err := resolveVaultPath(verifyPath)
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	spinner, cleanup := startSpinner("Unlocking credentials...")
	defer cleanup()

	result, err := workflows.Open(cmd.Context(), workflows.OpenOptions{
		Path:     path,
		Password: password,
		Audit:    auditLogger(),
	})
	if err != nil {
		return reportError(spinner, err)
	}

	Logger.Infof("Credentials unlocked with %d iterations", result.Params.Iterations)
	spinner.FinalMSG = ui.Success.Sprint("✓") + " Credentials unlocked\n" +
		fmt.Sprintf("  %-16s %s\n", "Owner:", ui.Highlight.Sprint(result.Owner)) +
		describeRecord(result.Record)
	return nil
}

