// Package workflows provides high-level orchestration for oauthvault commands.
//
// Each workflow implements one command's business logic independent of CLI
// concerns like flag parsing, prompts, spinners and output formatting:
//
//   - Seal: encrypts a credential record into an envelope file
//   - Open: loads and decrypts an envelope file
//   - Inspect: reports an envelope's metadata without a password
//   - Rekey: re-seals an envelope under a new password or KDF cost
//   - Acquire: runs the OAuth1 handshake and seals the result
//   - Call: makes a signed API request with an opened envelope
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package so the CLI
// layer can choose messages with errors.Is:
//
//	result, err := workflows.Open(ctx, opts)
//	if errors.Is(err, kerrors.ErrInvalidCredentials) {
//	    // "could not unlock credentials"
//	}
//
// # Auditing
//
// Workflows that use a password record their outcome through the
// audit.Logger in their options. The zero Logger discards entries.
package workflows
