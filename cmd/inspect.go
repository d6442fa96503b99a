package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/oauthvault/internal/ui"
	"github.com/PolarWolf314/oauthvault/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	inspectPath string
	inspectJSON bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectPath, "path", "p", "", "credentials file to inspect (defaults to the configured vault path)")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(inspectCmd)
}

// resetInspectCommandState resets the inspect command's global state for testing.
func resetInspectCommandState() {
	inspectPath = ""
	inspectJSON = false
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the non-secret metadata of a credentials file",
	Long: `Shows the owner label, key derivation parameters and file permissions
of a credentials file. No password is needed and nothing is decrypted.

Examples:
  oauthvault inspect
  oauthvault inspect --path ./backup.vault --json`,
	RunE: runInspect,
}

// inspectOutput is the JSON form of an inspected envelope.
type inspectOutput struct {
	Path           string `json:"path"`
	Owner          string `json:"owner"`
	Algorithm      string `json:"kdf_algorithm"`
	Iterations     int    `json:"kdf_iterations"`
	SaltLength     int    `json:"salt_length"`
	CiphertextSize int    `json:"ciphertext_size"`
	Mode           string `json:"mode"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting inspect command")

	path, err := resolveVaultPath(inspectPath)
	if err != nil {
		return err
	}

	result, err := workflows.Inspect(cmd.Context(), path)
	if err != nil {
		return failBeforeSpinner(err)
	}

	if inspectJSON {
		output, err := json.MarshalIndent(inspectOutput{
			Path:           result.Path,
			Owner:          result.Owner,
			Algorithm:      result.Params.Algorithm,
			Iterations:     result.Params.Iterations,
			SaltLength:     result.Params.SaltLength,
			CiphertextSize: result.CiphertextSize,
			Mode:           fmt.Sprintf("%#o", uint32(result.Mode)),
		}, "", "  ")
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to marshal inspect output to JSON: %v", err)
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(ui.Info.Sprint("Credentials file") + " " + ui.Path.Sprint(result.Path))
	fmt.Println()
	fmt.Printf("  %-16s %s\n", "Owner:", ui.Highlight.Sprint(result.Owner))
	fmt.Printf("  %-16s %s\n", "Key derivation:", result.Params.Algorithm)
	fmt.Printf("  %-16s %d\n", "Iterations:", result.Params.Iterations)
	fmt.Printf("  %-16s %d bytes\n", "Salt:", result.Params.SaltLength)
	fmt.Printf("  %-16s %d bytes\n", "Ciphertext:", result.CiphertextSize)
	fmt.Printf("  %-16s %#o\n", "Permissions:", uint32(result.Mode))

	if result.Mode&0077 != 0 {
		fmt.Println()
		fmt.Println(ui.Warning.Sprint("⚠") + " The file is readable by other users\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprintf("chmod 600 %s", result.Path))
	}
	if result.Params.Iterations < config.KDFParams().Iterations {
		fmt.Println()
		fmt.Println(ui.Warning.Sprint("⚠") + " The file uses fewer iterations than your config\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("oauthvault rekey") + " to upgrade it")
	}
	return nil
}
