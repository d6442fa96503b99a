package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/oauthvault/internal/envelope"
	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
	"github.com/PolarWolf314/oauthvault/internal/ui"
	"github.com/PolarWolf314/oauthvault/internal/utils"

	"github.com/briandowns/spinner"
)

// reportedError marks an error whose message a command has already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// reportError shows err as the spinner's final message and returns it marked
// as reported, so the process still exits non-zero.
func reportError(s *spinner.Spinner, err error) error {
	s.FinalMSG = formatError(err)
	return &reportedError{err}
}

// formatError turns a workflow error into the message shown to the user.
// All unlock failures share one message.
func formatError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrInvalidCredentials):
		return ui.Error.Sprint("✗") + " Could not unlock credentials"

	case errors.Is(err, kerrors.ErrMalformedEnvelope), errors.Is(err, kerrors.ErrMalformedRecord):
		return ui.Error.Sprint("✗") + " Credentials file is invalid or corrupt"

	case errors.Is(err, kerrors.ErrEnvelopeNotFound):
		return ui.Error.Sprint("✗") + " No credentials file found\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("oauthvault acquire") + " or " + ui.Code.Sprint("oauthvault seal") + " first"

	case errors.Is(err, kerrors.ErrEnvelopeExists):
		return ui.Error.Sprint("✗") + " A credentials file already exists\n" +
			ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to replace it, or " + ui.Code.Sprint("oauthvault rekey") + " to change its password"

	case errors.Is(err, kerrors.ErrPasswordMismatch):
		return ui.Error.Sprint("✗") + " Passwords do not match"

	case errors.Is(err, kerrors.ErrHandshakeFailed):
		return ui.Error.Sprint("✗") + " Authorization with the provider failed\n\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	default:
		return ui.Error.Sprint("✗") + " " + capitalize(err.Error())
	}
}

// failBeforeSpinner prints err for commands that fail before any spinner
// has started.
func failBeforeSpinner(err error) error {
	fmt.Println(formatError(err))
	return &reportedError{err}
}

// refuseExisting fails when path exists and force is not set, so the user
// is not prompted for values that could never be written.
func refuseExisting(path string, force bool) error {
	if force || !utils.FileExists(path) {
		return nil
	}
	return failBeforeSpinner(fmt.Errorf("%w: %s", kerrors.ErrEnvelopeExists, path))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print to stdout so tests can capture it.
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

var (
	stdinReader *bufio.Reader
	stdinSource *os.File
)

// inputReader returns a buffered reader over os.Stdin that is shared by all
// prompts of one command, so lines piped in are consumed in order.
func inputReader() *bufio.Reader {
	if stdinReader == nil || stdinSource != os.Stdin {
		stdinSource = os.Stdin
		stdinReader = bufio.NewReader(os.Stdin)
	}
	return stdinReader
}

// promptForInput prompts the user for input with an optional default value.
func promptForInput(prompt, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	input, err := utils.ReadLine(inputReader())
	if err != nil {
		return "", err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}

// readSecret reads a value without echoing it. With --password-stdin the
// next line of stdin is used instead.
func readSecret(prompt string) (string, error) {
	if passwordStdin {
		Logger.Debugf("Reading %q from stdin", strings.TrimSuffix(prompt, ": "))
		return utils.ReadLine(inputReader())
	}

	value, err := utils.ReadPassphrase(prompt)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// readPassword reads the password of an existing envelope.
func readPassword() (string, error) {
	return readSecret("Password: ")
}

// readNewPassword reads a password for a new envelope. On a terminal it is
// asked twice. An empty password is accepted with a warning.
func readNewPassword(prompt string) (string, error) {
	password, err := readSecret(prompt + ": ")
	if err != nil {
		return "", err
	}

	if !passwordStdin {
		confirm, err := readSecret("Confirm " + strings.ToLower(prompt) + ": ")
		if err != nil {
			return "", err
		}
		if confirm != password {
			return "", kerrors.ErrPasswordMismatch
		}
	}

	if password == "" {
		Logger.WarnfAlways("The password is empty; anyone who can read the credentials file can unlock it")
	}
	return password, nil
}

// readRecordField returns flagValue if set, otherwise prompts for it.
// Secret fields are read without echo.
func readRecordField(flagValue, prompt string, secret bool) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if secret {
		return readSecret(prompt + ": ")
	}
	return promptForInput(prompt, "")
}

// resolveVaultPath returns the envelope path from the flag or the config.
func resolveVaultPath(flagValue string) (string, error) {
	path := flagValue
	if path == "" {
		path = config.Vault.DefaultPath
	}
	return utils.ExpandHome(path)
}

// resolveOwner returns the owner label from the flag, the config or the
// current user and host, in that order.
func resolveOwner(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if config.Vault.DefaultOwner != "" {
		return config.Vault.DefaultOwner
	}
	return utils.DefaultOwner()
}

// resolveParams returns the KDF parameters for a new envelope.
func resolveParams(iterations int) (kdf.Params, error) {
	params := config.KDFParams()
	if iterations > 0 {
		params = params.WithIterations(iterations)
	}
	if err := params.Validate(); err != nil {
		return kdf.Params{}, err
	}
	return params, nil
}

// describeRecord prints a record with every secret masked.
func describeRecord(record envelope.CredentialRecord) string {
	return fmt.Sprintf("  %-16s %s\n  %-16s %s\n  %-16s %s\n  %-16s %s",
		"Consumer key:", ui.Highlight.Sprint(ui.Mask(record.ConsumerKey, 4)),
		"Consumer secret:", ui.Muted.Sprint("hidden"),
		"Token:", ui.Highlight.Sprint(ui.Mask(record.OAuthToken, 4)),
		"Token secret:", ui.Muted.Sprint("hidden"))
}
