package configs

import (
	"os"
	"path/filepath"
)

// Settings holds the directories oauthvault reads from and writes to.
type Settings struct {
	ConfigDir string
	DataDir   string
}

// UserSettings is initialized at startup and may be replaced in tests.
var UserSettings *Settings

func init() {
	UserSettings = DefaultSettings()
}

// DefaultSettings derives the settings from the user's config directory
// and XDG_DATA_HOME. Directories that cannot be determined fall back to
// the working directory.
func DefaultSettings() *Settings {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(homeDir, ".local", "share")
		} else {
			dataDir = "."
		}
	}

	return &Settings{
		ConfigDir: filepath.Join(configDir, "oauthvault"),
		DataDir:   filepath.Join(dataDir, "oauthvault"),
	}
}

// ConfigPath is the default location of config.toml.
func (s *Settings) ConfigPath() string {
	return filepath.Join(s.ConfigDir, "config.toml")
}

// DefaultVaultPath is the default location of the credentials envelope.
func (s *Settings) DefaultVaultPath() string {
	return filepath.Join(s.DataDir, "credentials.vault")
}

// DefaultAuditPath is the default location of the audit log.
func (s *Settings) DefaultAuditPath() string {
	return filepath.Join(s.DataDir, "audit.jsonl")
}
