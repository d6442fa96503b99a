// Package audit records vault operations in a JSON Lines log.
//
// Every seal, open, rekey, acquire and call is appended as one JSON object
// per line, by default to ~/.local/share/oauthvault/audit.jsonl:
//
//	{"id":"…","ts":"2026-10-17T09:30:00.000000Z","op":"open","path":"/…/credentials.vault","owner":"alice","outcome":"invalid_credentials"}
//
// Entries hold paths, owner labels, outcomes and KDF cost only. Passwords,
// derived keys and credential fields are never recorded.
//
// Auditing is best-effort: a write failure is ignored so that it cannot
// block access to credentials. ReadEntries skips malformed lines left by
// partial writes.
package audit
