package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
)

func testSettings(t *testing.T) *Settings {
	t.Helper()
	dir := t.TempDir()
	return &Settings{
		ConfigDir: filepath.Join(dir, "config"),
		DataDir:   filepath.Join(dir, "data"),
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	settings := testSettings(t)

	config, err := LoadConfig(settings.ConfigPath(), settings)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Vault.DefaultPath != settings.DefaultVaultPath() {
		t.Errorf("Expected default vault path %q, got %q", settings.DefaultVaultPath(), config.Vault.DefaultPath)
	}
	if config.KDFParams() != kdf.DefaultParams {
		t.Errorf("Expected default KDF params, got %+v", config.KDFParams())
	}
	if !config.Audit.Enabled {
		t.Error("Expected audit log enabled by default")
	}
	if config.API.CallbackURL != "oob" {
		t.Errorf("Expected out-of-band callback, got %q", config.API.CallbackURL)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	settings := testSettings(t)
	writeConfig(t, settings.ConfigPath(), `
[vault]
default_path = "/srv/creds.vault"
kdf_iterations = 750000
default_owner = "shop-bot"

[api]
base_url = "https://api.example.com/v3"

[audit]
enabled = false
`)

	config, err := LoadConfig(settings.ConfigPath(), settings)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Vault.DefaultPath != "/srv/creds.vault" {
		t.Errorf("Expected overridden path, got %q", config.Vault.DefaultPath)
	}
	if config.KDFParams().Iterations != 750000 {
		t.Errorf("Expected 750000 iterations, got %d", config.KDFParams().Iterations)
	}
	if config.Vault.DefaultOwner != "shop-bot" {
		t.Errorf("Expected owner shop-bot, got %q", config.Vault.DefaultOwner)
	}
	if config.API.BaseURL != "https://api.example.com/v3" {
		t.Errorf("Expected overridden base URL, got %q", config.API.BaseURL)
	}
	if config.API.APIKeyParam != "api_key" {
		t.Errorf("Expected untouched keys to keep defaults, got %q", config.API.APIKeyParam)
	}
	if config.Audit.Enabled {
		t.Error("Expected audit log disabled")
	}
}

func TestLoadConfigExpandsHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	settings := testSettings(t)
	writeConfig(t, settings.ConfigPath(), "[vault]\ndefault_path = \"~/creds.vault\"\n")

	config, err := LoadConfig(settings.ConfigPath(), settings)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Vault.DefaultPath != filepath.Join(homeDir, "creds.vault") {
		t.Errorf("Expected expanded path, got %q", config.Vault.DefaultPath)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"too few iterations": "[vault]\nkdf_iterations = 10\n",
		"unknown key":        "[vault]\nkdf_iteration = 600000\n",
		"relative base url":  "[api]\nbase_url = \"openapi.etsy.com\"\n",
		"negative timeout":   "[api]\ntimeout_seconds = -1\n",
		"bad syntax":         "[vault\n",
		"wrong type":         "[vault]\nkdf_iterations = \"many\"\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			settings := testSettings(t)
			writeConfig(t, settings.ConfigPath(), content)

			_, err := LoadConfig(settings.ConfigPath(), settings)
			if !errors.Is(err, kerrors.ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	settings := testSettings(t)
	config := DefaultConfig(settings)
	config.Vault.DefaultOwner = "alice"
	config.Vault.KDFIterations = 600000

	if err := SaveConfig(settings.ConfigPath(), config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(settings.ConfigPath(), settings)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *loaded != *config {
		t.Errorf("Expected %+v, got %+v", config, loaded)
	}
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	settings := testSettings(t)
	config := DefaultConfig(settings)
	config.Vault.KDFIterations = 0

	err := SaveConfig(settings.ConfigPath(), config)
	if !errors.Is(err, kerrors.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
	if _, err := os.Stat(settings.ConfigPath()); !os.IsNotExist(err) {
		t.Error("Expected no config file to be written")
	}
}

func TestDefaultSettingsHonorsXDGDataHome(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	settings := DefaultSettings()
	if settings.DataDir != filepath.Join(dataHome, "oauthvault") {
		t.Errorf("Expected data dir under XDG_DATA_HOME, got %q", settings.DataDir)
	}
	if filepath.Base(settings.ConfigPath()) != "config.toml" {
		t.Errorf("Expected config.toml, got %q", settings.ConfigPath())
	}
}
