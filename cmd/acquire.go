package cmd

import (
	"fmt"

	"github.com/PolarWolf314/oauthvault/internal/oauth"
	"github.com/PolarWolf314/oauthvault/internal/ui"
	"github.com/PolarWolf314/oauthvault/internal/utils"
	"github.com/PolarWolf314/oauthvault/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	acquireConsumerKey    string
	acquireConsumerSecret string
	acquireScopes         string
	acquireOwner          string
	acquirePath           string
	acquireIterations     int
	acquireForce          bool
)

func init() {
	acquireCmd.Flags().StringVar(&acquireConsumerKey, "consumer-key", "", "application consumer key")
	acquireCmd.Flags().StringVar(&acquireConsumerSecret, "consumer-secret", "", "application consumer secret (prompted without echo if omitted)")
	acquireCmd.Flags().StringVar(&acquireScopes, "scopes", "", "permission scopes to request, space or comma separated")
	acquireCmd.Flags().StringVar(&acquireOwner, "owner", "", "owner label stored with the envelope (defaults to user@host)")
	acquireCmd.Flags().StringVarP(&acquirePath, "path", "p", "", "credentials file to write (defaults to the configured vault path)")
	acquireCmd.Flags().IntVar(&acquireIterations, "iterations", 0, "PBKDF2 iterations for the new envelope")
	acquireCmd.Flags().BoolVarP(&acquireForce, "force", "f", false, "replace an existing credentials file")

	rootCmd.AddCommand(acquireCmd)
}

// resetAcquireCommandState resets the acquire command's global state for testing.
func resetAcquireCommandState() {
	acquireConsumerKey = ""
	acquireConsumerSecret = ""
	acquireScopes = ""
	acquireOwner = ""
	acquirePath = ""
	acquireIterations = 0
	acquireForce = false
}

var acquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Authorize with the provider and seal the issued credentials",
	Long: `Runs the three-legged OAuth1 authorization and seals the access token
the provider issues.

The command requests a temporary token, shows the authorization URL, and
waits for the verification code the provider displays after you approve
access. The access token is then sealed with your password; it is never
written to disk unencrypted.

Provider endpoints come from the [api] section of the config.

Examples:
  oauthvault acquire --consumer-key KEY
  oauthvault acquire --consumer-key KEY --scopes "email_r listings_r"`,
	RunE: runAcquire,
}

func runAcquire(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting acquire command")

	path, err := resolveVaultPath(acquirePath)
	if err != nil {
		return err
	}
	params, err := resolveParams(acquireIterations)
	if err != nil {
		return err
	}
	if err := refuseExisting(path, acquireForce); err != nil {
		return err
	}

	consumerKey, err := readRecordField(acquireConsumerKey, "Consumer key", false)
	if err != nil {
		return err
	}
	consumerSecret, err := readRecordField(acquireConsumerSecret, "Consumer secret", true)
	if err != nil {
		return err
	}

	Logger.Debugf("Request token URL: %s", config.API.RequestTokenURL)

	result, err := workflows.Acquire(cmd.Context(), workflows.AcquireOptions{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		Scopes:         utils.SplitScopes(acquireScopes),
		Endpoints: oauth.Endpoints{
			RequestTokenURL: config.API.RequestTokenURL,
			AuthorizeURL:    config.API.AuthorizeURL,
			AccessTokenURL:  config.API.AccessTokenURL,
			CallbackURL:     config.API.CallbackURL,
		},
		Verifier: promptForVerifier,
		Password: func() (string, error) {
			return readNewPassword("New password")
		},
		Owner:     resolveOwner(acquireOwner),
		Path:      path,
		Overwrite: acquireForce,
		Params:    params,
		Audit:     auditLogger(),
	})
	if err != nil {
		return failBeforeSpinner(err)
	}

	Logger.Infof("Credentials acquired and sealed to %s", result.Path)
	fmt.Println(ui.Success.Sprint("✓") + " Credentials acquired and sealed to " + ui.Path.Sprint(result.Path) + "\n" +
		ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("oauthvault verify") + " to check them")
	return nil
}

// promptForVerifier shows the authorization URL and reads the code the
// provider displays once access is approved.
func promptForVerifier(authorizationURL string) (string, error) {
	fmt.Println(ui.Info.Sprint("→") + " Open this URL in your browser and approve access:")
	fmt.Println()
	fmt.Println("  " + ui.URL.Sprint(authorizationURL))
	fmt.Println()
	return promptForInput("Verification code", "")
}
