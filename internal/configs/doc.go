// Package configs manages oauthvault's user configuration.
//
// Configuration is a single TOML file, by default
// <user config dir>/oauthvault/config.toml:
//
//	[vault]
//	default_path = "~/.local/share/oauthvault/credentials.vault"
//	kdf_iterations = 500000
//	default_owner = "alice"
//
//	[api]
//	base_url = "https://openapi.etsy.com/v2"
//	request_token_url = "https://openapi.etsy.com/v2/oauth/request_token"
//	authorize_url = "https://www.etsy.com/oauth/signin"
//	access_token_url = "https://openapi.etsy.com/v2/oauth/access_token"
//	callback_url = "oob"
//	api_key_param = "api_key"
//	timeout_seconds = 30
//
//	[audit]
//	enabled = true
//	path = "~/.local/share/oauthvault/audit.jsonl"
//
// Keys missing from the file keep their defaults; unknown keys are
// rejected with ErrInvalidConfig.
//
// vault.kdf_iterations only affects envelopes sealed from now on. Existing
// envelopes record their own parameters.
//
// # Settings
//
// UserSettings holds the config and data directories. It is initialized at
// startup and tests replace it with temporary directories.
package configs
