// Package oauth talks to an OAuth1 provider on behalf of oauthvault.
//
// Handshake runs the three-legged authorization that produces a
// CredentialRecord:
//
//	h, _ := oauth.NewHandshake(key, secret, endpoints, []string{"email_r"})
//	rt, _ := h.RequestToken()
//	// operator opens rt.AuthorizationURL and copies the verifier
//	record, _ := h.AccessToken(rt, verifier)
//
// Client signs API calls with an opened record. Default parameters such as
// the api_key are merged into a fresh parameter set for every call, so
// concurrent calls never share mutable state.
//
// Requests are signed with HMAC-SHA1 by github.com/dghubble/oauth1.
package oauth
