package configs

import (
	"fmt"
	"net/url"
	"os"

	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
	"github.com/PolarWolf314/oauthvault/internal/utils"
)

// Config is the user configuration stored in config.toml.
type Config struct {
	Vault VaultConfig `toml:"vault" json:"vault"`
	API   APIConfig   `toml:"api" json:"api"`
	Audit AuditConfig `toml:"audit" json:"audit"`
}

// VaultConfig controls where envelopes live and how new ones are sealed.
type VaultConfig struct {
	DefaultPath   string `toml:"default_path" json:"default_path"`
	KDFIterations int    `toml:"kdf_iterations" json:"kdf_iterations"`
	DefaultOwner  string `toml:"default_owner" json:"default_owner"`
}

// APIConfig describes the OAuth1 provider.
type APIConfig struct {
	BaseURL         string `toml:"base_url" json:"base_url"`
	RequestTokenURL string `toml:"request_token_url" json:"request_token_url"`
	AuthorizeURL    string `toml:"authorize_url" json:"authorize_url"`
	AccessTokenURL  string `toml:"access_token_url" json:"access_token_url"`
	CallbackURL     string `toml:"callback_url" json:"callback_url"`
	APIKeyParam     string `toml:"api_key_param" json:"api_key_param"`
	TimeoutSeconds  int    `toml:"timeout_seconds" json:"timeout_seconds"`
}

// AuditConfig controls the audit log.
type AuditConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Path    string `toml:"path" json:"path"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig(settings *Settings) *Config {
	return &Config{
		Vault: VaultConfig{
			DefaultPath:   settings.DefaultVaultPath(),
			KDFIterations: kdf.DefaultParams.Iterations,
		},
		API: APIConfig{
			BaseURL:         "https://openapi.etsy.com/v2",
			RequestTokenURL: "https://openapi.etsy.com/v2/oauth/request_token",
			AuthorizeURL:    "https://www.etsy.com/oauth/signin",
			AccessTokenURL:  "https://openapi.etsy.com/v2/oauth/access_token",
			CallbackURL:     "oob",
			APIKeyParam:     "api_key",
			TimeoutSeconds:  30,
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    settings.DefaultAuditPath(),
		},
	}
}

// LoadConfig reads the configuration at path on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(path string, settings *Settings) (*Config, error) {
	config := DefaultConfig(settings)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := config.expandPaths(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes config to path.
func SaveConfig(path string, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks that every value can be used.
func (c *Config) Validate() error {
	if err := c.KDFParams().Validate(); err != nil {
		return fmt.Errorf("%w: vault.kdf_iterations: %v", kerrors.ErrInvalidConfig, err)
	}
	if c.Vault.DefaultPath == "" {
		return fmt.Errorf("%w: vault.default_path is empty", kerrors.ErrInvalidConfig)
	}

	urls := map[string]string{
		"api.base_url":          c.API.BaseURL,
		"api.request_token_url": c.API.RequestTokenURL,
		"api.authorize_url":     c.API.AuthorizeURL,
		"api.access_token_url":  c.API.AccessTokenURL,
	}
	for key, value := range urls {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL, got %q", kerrors.ErrInvalidConfig, key, value)
		}
	}

	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: api.timeout_seconds must not be negative", kerrors.ErrInvalidConfig)
	}
	if c.Audit.Enabled && c.Audit.Path == "" {
		return fmt.Errorf("%w: audit.path is empty", kerrors.ErrInvalidConfig)
	}
	return nil
}

// KDFParams returns the key derivation parameters for new envelopes.
func (c *Config) KDFParams() kdf.Params {
	return kdf.DefaultParams.WithIterations(c.Vault.KDFIterations)
}

func (c *Config) expandPaths() error {
	var err error
	if c.Vault.DefaultPath, err = utils.ExpandHome(c.Vault.DefaultPath); err != nil {
		return err
	}
	if c.Audit.Path, err = utils.ExpandHome(c.Audit.Path); err != nil {
		return err
	}
	return nil
}
