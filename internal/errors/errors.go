package errors

import "errors"

// Unlock errors are returned when an envelope cannot be opened.
var (
	// ErrInvalidCredentials indicates the envelope failed authentication.
	// A wrong password, a tampered ciphertext and a truncated ciphertext all
	// produce this same error.
	ErrInvalidCredentials = errors.New("could not unlock credentials")

	// ErrMalformedEnvelope indicates the envelope file does not have the
	// expected structure.
	ErrMalformedEnvelope = errors.New("credentials file is invalid or corrupt")

	// ErrMalformedRecord indicates the envelope decrypted but its plaintext is
	// not a valid credential record.
	ErrMalformedRecord = errors.New("credentials file is invalid or corrupt: malformed credential record")
)

// Record errors indicate issues with the credential record itself.
var (
	// ErrIncompleteRecord indicates a credential record is missing a field.
	ErrIncompleteRecord = errors.New("credential record is incomplete")

	// ErrInvalidText indicates a record field or owner label is not valid UTF-8.
	// Such values cannot be stored in an envelope.
	ErrInvalidText = errors.New("value is not valid UTF-8 text")

	// ErrPasswordMismatch indicates the password confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// File errors indicate issues with envelope storage.
var (
	// ErrEnvelopeExists indicates an envelope already exists at the target path.
	ErrEnvelopeExists = errors.New("credentials file already exists")

	// ErrEnvelopeNotFound indicates no envelope exists at the given path.
	ErrEnvelopeNotFound = errors.New("credentials file not found")
)

// Remote errors indicate failures talking to the OAuth provider.
var (
	// ErrHandshakeFailed indicates the OAuth authorization handshake failed.
	ErrHandshakeFailed = errors.New("oauth authorization handshake failed")

	// ErrAPIRequestFailed indicates an authenticated API request returned an error status.
	ErrAPIRequestFailed = errors.New("api request failed")
)

// Configuration errors.
var (
	// ErrInvalidConfig indicates the configuration file is malformed or contains invalid values.
	ErrInvalidConfig = errors.New("configuration is invalid")
)
