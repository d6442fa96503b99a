// Package kdf derives symmetric keys from operator passwords.
//
// Keys are derived with PBKDF2-HMAC-SHA-256. The cost parameters travel
// with each envelope (see Params), so raising DefaultParams.Iterations
// later does not lock anyone out of an older envelope: Open always derives
// with the parameters the envelope was sealed with.
//
// Envelopes written before parameters were recorded are read with
// LegacyParams.
package kdf
