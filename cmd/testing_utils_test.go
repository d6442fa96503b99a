package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/oauthvault/internal/configs"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
)

// testEnv holds the paths of an isolated oauthvault installation.
type testEnv struct {
	dir       string
	config    string
	vaultPath string
	auditPath string
}

// setupTestEnvironment points the user settings at a temporary directory
// and writes a config with a cheap key derivation cost.
func setupTestEnvironment(t *testing.T) testEnv {
	t.Helper()

	dir := t.TempDir()
	originalSettings := configs.UserSettings
	configs.UserSettings = &configs.Settings{
		ConfigDir: filepath.Join(dir, "config"),
		DataDir:   filepath.Join(dir, "data"),
	}

	t.Cleanup(func() {
		configs.UserSettings = originalSettings
		ResetGlobalState()
	})

	env := testEnv{
		dir:       dir,
		config:    configs.UserSettings.ConfigPath(),
		vaultPath: configs.UserSettings.DefaultVaultPath(),
		auditPath: configs.UserSettings.DefaultAuditPath(),
	}
	writeTestConfig(t, nil)
	return env
}

// writeTestConfig saves the test config after applying edit.
func writeTestConfig(t *testing.T, edit func(*configs.Config)) {
	t.Helper()

	config := configs.DefaultConfig(configs.UserSettings)
	config.Vault.KDFIterations = kdf.MinIterations
	config.Vault.DefaultOwner = "tester"
	if edit != nil {
		edit(config)
	}

	if err := configs.SaveConfig(configs.UserSettings.ConfigPath(), config); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
}

// runCLI executes oauthvault with args, feeding stdin to the command, and
// returns everything written to stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	ResetGlobalState()

	stdinFile, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatalf("Failed to create stdin file: %v", err)
	}
	defer stdinFile.Close()
	if _, err := stdinFile.WriteString(stdin); err != nil {
		t.Fatalf("Failed to write stdin file: %v", err)
	}
	if _, err := stdinFile.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Failed to rewind stdin file: %v", err)
	}

	originalStdin := os.Stdin
	os.Stdin = stdinFile
	defer func() { os.Stdin = originalStdin }()

	rootCmd.SetArgs(args)
	return captureOutput(Execute)
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}
