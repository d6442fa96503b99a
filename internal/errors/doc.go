// Package errors provides typed error values for oauthvault.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Unlock errors: the envelope could not be opened (ErrInvalidCredentials,
//     ErrMalformedEnvelope, ErrMalformedRecord)
//   - Record errors: bad input to seal (ErrIncompleteRecord, ErrPasswordMismatch)
//   - File errors: envelope storage (ErrEnvelopeExists, ErrEnvelopeNotFound)
//   - Remote errors: the OAuth provider (ErrHandshakeFailed, ErrAPIRequestFailed)
//
// ErrInvalidCredentials deliberately covers both a wrong password and a
// damaged ciphertext. Never add a second error that tells them apart.
//
// # Usage
//
//	record, err := envelope.Open(env, password)
//	if errors.Is(err, kerrors.ErrInvalidCredentials) {
//	    // "could not unlock credentials"
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading %s: %w", path, errors.ErrMalformedEnvelope)
package errors
