package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
)

const (
	testConsumerSecret = "consumer-secret-value"
	testTokenSecret    = "token-secret-value"
)

func sealTestVault(t *testing.T, password string, extraArgs ...string) string {
	t.Helper()

	args := append([]string{
		"seal",
		"--consumer-key", "ck1",
		"--consumer-secret", testConsumerSecret,
		"--token", "ot1",
		"--token-secret", testTokenSecret,
		"--password-stdin",
	}, extraArgs...)

	output, err := runCLI(t, password+"\n", args...)
	if err != nil {
		t.Fatalf("seal failed: %v\nOutput: %s", err, output)
	}
	return output
}

func TestSealThenVerify(t *testing.T) {
	env := setupTestEnvironment(t)

	output := sealTestVault(t, "correct horse")
	if !strings.Contains(output, "Credentials sealed") {
		t.Errorf("Expected success message, got: %s", output)
	}
	if !strings.Contains(output, "tester") {
		t.Errorf("Expected owner from config in output, got: %s", output)
	}

	info, err := os.Stat(env.vaultPath)
	if err != nil {
		t.Fatalf("Expected credentials file at %s: %v", env.vaultPath, err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}

	output, err = runCLI(t, "correct horse\n", "verify", "--password-stdin")
	if err != nil {
		t.Fatalf("verify failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Credentials unlocked") {
		t.Errorf("Expected unlock message, got: %s", output)
	}
	for _, secret := range []string{testConsumerSecret, testTokenSecret, "correct horse"} {
		if strings.Contains(output, secret) {
			t.Errorf("Output leaks %q: %s", secret, output)
		}
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	setupTestEnvironment(t)
	sealTestVault(t, "correct horse")

	output, err := runCLI(t, "wrong horse\n", "verify", "--password-stdin")
	if !errors.Is(err, kerrors.ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
	if !strings.Contains(output, "Could not unlock credentials") {
		t.Errorf("Expected generic unlock failure, got: %s", output)
	}
	if strings.Contains(strings.ToLower(output), "password") {
		t.Errorf("Unlock failure should not blame the password: %s", output)
	}
}

func TestVerifyCorruptFile(t *testing.T) {
	env := setupTestEnvironment(t)
	if err := os.MkdirAll(filepath.Dir(env.vaultPath), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.vaultPath, []byte("not an envelope"), 0600); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "pw\n", "verify", "--password-stdin")
	if !errors.Is(err, kerrors.ErrMalformedEnvelope) {
		t.Fatalf("Expected ErrMalformedEnvelope, got %v", err)
	}
	if !strings.Contains(output, "Credentials file is invalid or corrupt") {
		t.Errorf("Expected corrupt file message, got: %s", output)
	}
}

func TestVerifyMissingFile(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI(t, "pw\n", "verify", "--password-stdin")
	if !errors.Is(err, kerrors.ErrEnvelopeNotFound) {
		t.Fatalf("Expected ErrEnvelopeNotFound, got %v", err)
	}
	if !strings.Contains(output, "oauthvault acquire") {
		t.Errorf("Expected hint to acquire, got: %s", output)
	}
}

func TestSealRefusesExistingFile(t *testing.T) {
	setupTestEnvironment(t)
	sealTestVault(t, "first")

	output, err := runCLI(t, "second\n", "seal",
		"--consumer-key", "ck1", "--consumer-secret", "cs", "--token", "ot1", "--token-secret", "ts",
		"--password-stdin")
	if !errors.Is(err, kerrors.ErrEnvelopeExists) {
		t.Fatalf("Expected ErrEnvelopeExists, got %v", err)
	}
	if !strings.Contains(output, "--force") {
		t.Errorf("Expected hint about --force, got: %s", output)
	}

	if _, err := runCLI(t, "first\n", "verify", "--password-stdin"); err != nil {
		t.Errorf("Original envelope should still open: %v", err)
	}

	sealTestVault(t, "second", "--force")
	if _, err := runCLI(t, "second\n", "verify", "--password-stdin"); err != nil {
		t.Errorf("Replaced envelope should open with the new password: %v", err)
	}
}

func TestSealPromptsForMissingValues(t *testing.T) {
	setupTestEnvironment(t)

	stdin := strings.Join([]string{"ck1", testConsumerSecret, "ot1", testTokenSecret, "pw"}, "\n") + "\n"
	output, err := runCLI(t, stdin, "seal", "--password-stdin", "--owner", "alice@laptop")
	if err != nil {
		t.Fatalf("seal failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Consumer key:") || !strings.Contains(output, "Token:") {
		t.Errorf("Expected prompts for non-secret values, got: %s", output)
	}
	if strings.Contains(output, testConsumerSecret) {
		t.Errorf("Secret echoed: %s", output)
	}

	output, err = runCLI(t, "pw\n", "verify", "--password-stdin")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !strings.Contains(output, "alice@laptop") {
		t.Errorf("Expected owner label, got: %s", output)
	}
}

func TestSealIncompleteInput(t *testing.T) {
	env := setupTestEnvironment(t)

	_, err := runCLI(t, "\n", "seal",
		"--consumer-key", "ck1", "--consumer-secret", "cs", "--token", "ot1",
		"--password-stdin")
	if err == nil {
		t.Fatal("Expected an error for an empty token secret")
	}
	if !errors.Is(err, kerrors.ErrIncompleteRecord) {
		t.Errorf("Expected ErrIncompleteRecord, got %v", err)
	}
	if _, err := os.Stat(env.vaultPath); !os.IsNotExist(err) {
		t.Error("No credentials file should be written")
	}
}

func TestSealEmptyPasswordWarns(t *testing.T) {
	setupTestEnvironment(t)

	output := sealTestVault(t, "")
	if !strings.Contains(output, "password is empty") {
		t.Errorf("Expected empty password warning, got: %s", output)
	}

	if _, err := runCLI(t, "\n", "verify", "--password-stdin"); err != nil {
		t.Errorf("Empty password should unlock the envelope: %v", err)
	}
}

func TestSealRejectsLowIterations(t *testing.T) {
	env := setupTestEnvironment(t)

	_, err := runCLI(t, "pw\n", "seal",
		"--consumer-key", "ck1", "--consumer-secret", "cs", "--token", "ot1", "--token-secret", "ts",
		"--iterations", "10", "--password-stdin")
	if err == nil {
		t.Fatal("Expected an error for 10 iterations")
	}
	if _, err := os.Stat(env.vaultPath); !os.IsNotExist(err) {
		t.Error("No credentials file should be written")
	}
}

func TestInspectJSON(t *testing.T) {
	setupTestEnvironment(t)
	sealTestVault(t, "pw", "--iterations", "1500")

	output, err := runCLI(t, "", "inspect", "--json")
	if err != nil {
		t.Fatalf("inspect failed: %v\nOutput: %s", err, output)
	}

	var result inspectOutput
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, output)
	}
	if result.Owner != "tester" || result.Iterations != 1500 || result.SaltLength != 16 {
		t.Errorf("Unexpected inspect output: %+v", result)
	}
	if result.Algorithm != "pbkdf2-sha256" {
		t.Errorf("Expected pbkdf2-sha256, got %q", result.Algorithm)
	}
	if result.Mode != "0600" {
		t.Errorf("Expected mode 0600, got %q", result.Mode)
	}
}

func TestInspectWarnsAboutPermissions(t *testing.T) {
	env := setupTestEnvironment(t)
	sealTestVault(t, "pw")
	if err := os.Chmod(env.vaultPath, 0644); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "", "inspect")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(output, "readable by other users") {
		t.Errorf("Expected permissions warning, got: %s", output)
	}
}

func TestRekey(t *testing.T) {
	setupTestEnvironment(t)
	sealTestVault(t, "old password")

	output, err := runCLI(t, "old password\nnew password\n", "rekey", "--iterations", "2000", "--password-stdin")
	if err != nil {
		t.Fatalf("rekey failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Credentials rekeyed") {
		t.Errorf("Expected rekey message, got: %s", output)
	}

	if _, err := runCLI(t, "old password\n", "verify", "--password-stdin"); !errors.Is(err, kerrors.ErrInvalidCredentials) {
		t.Errorf("Old password should fail, got %v", err)
	}
	if _, err := runCLI(t, "new password\n", "verify", "--password-stdin"); err != nil {
		t.Errorf("New password should work: %v", err)
	}

	output, _ = runCLI(t, "", "inspect", "--json")
	var result inspectOutput
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if result.Iterations != 2000 {
		t.Errorf("Expected 2000 iterations after rekey, got %d", result.Iterations)
	}
}

func TestRekeyWrongPassword(t *testing.T) {
	setupTestEnvironment(t)
	sealTestVault(t, "old password")

	output, err := runCLI(t, "guess\nnew password\n", "rekey", "--password-stdin")
	if !errors.Is(err, kerrors.ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
	if !strings.Contains(output, "Could not unlock credentials") {
		t.Errorf("Expected unlock failure, got: %s", output)
	}
	if _, err := runCLI(t, "old password\n", "verify", "--password-stdin"); err != nil {
		t.Errorf("Old password should still work: %v", err)
	}
}

func TestRekeyRejectsInvalidOwner(t *testing.T) {
	setupTestEnvironment(t)
	sealTestVault(t, "old password")

	output, err := runCLI(t, "old password\nnew password\n", "rekey", "--owner", "bad\xff", "--password-stdin")
	if !errors.Is(err, kerrors.ErrInvalidText) {
		t.Fatalf("Expected ErrInvalidText, got %v", err)
	}
	if !strings.Contains(output, "not valid UTF-8") {
		t.Errorf("Expected UTF-8 error, got: %s", output)
	}
	if _, err := runCLI(t, "old password\n", "verify", "--password-stdin"); err != nil {
		t.Errorf("Old password should still work: %v", err)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	env := setupTestEnvironment(t)
	if err := os.WriteFile(env.config, []byte("[vault]\nkdf_iterations = 5\n"), 0600); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "pw\n", "verify", "--password-stdin")
	if !errors.Is(err, kerrors.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(output, "oauthvault config init") {
		t.Errorf("Expected hint to run config init, got: %s", output)
	}
}

func TestUnknownCommandIsPrinted(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI(t, "", "unseal")
	if err == nil {
		t.Fatal("Expected an error for an unknown command")
	}
	if !strings.Contains(output, "unknown command") {
		t.Errorf("Expected cobra's error to be printed, got: %s", output)
	}
}


func TestPasswordPromptNeedsTerminal(t *testing.T) {
	setupTestEnvironment(t)
	sealTestVault(t, "pw")

	output, err := runCLI(t, "pw\n", "verify")
	if err == nil {
		t.Fatal("Expected an error when stdin is not a terminal")
	}
	if !strings.Contains(output, "--password-stdin") {
		t.Errorf("Expected hint about --password-stdin, got: %s", output)
	}
}
