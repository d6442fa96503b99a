// Package envelope seals OAuth1 credential records into password-protected
// envelopes and opens them again.
//
// # Sealing
//
// Seal draws a fresh salt, derives a 32-byte key from the password with
// package kdf, serializes the CredentialRecord as a four-field CBOR map and
// encrypts it with NaCl secretbox under a random 24-byte nonce:
//
//	Data = nonce || secretbox.Seal(record)
//
// Open reverses this. Authentication failures are indistinguishable: a
// wrong password, a flipped bit and a truncated Data all return
// errors.ErrInvalidCredentials.
//
// # File Format
//
// An envelope file is a CBOR map:
//
//	{
//	  "Data":   bytes,  // nonce || ciphertext || tag
//	  "Owner":  text,   // operator's label, not authenticated
//	  "Random": bytes,  // KDF salt
//	  "KDF":    {"alg": text, "iter": uint, "salt_len": uint, "key_len": uint}
//	}
//
// KDF is optional on read; a file without it is opened with
// kdf.LegacyParams. Unknown keys, duplicate keys or wrong types make the
// whole file ErrMalformedEnvelope.
//
// Plaintext records never touch the disk. Callers own the returned
// CredentialRecord and should drop it as soon as they are done.
package envelope
