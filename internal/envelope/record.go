package envelope

import (
	"fmt"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
)

// CredentialRecord is the OAuth1 credential set protected by an envelope.
//
// The consumer pair identifies the application; the token pair is the
// long-lived access token granted by the user. A record is created once by
// the acquisition flow and never modified afterwards.
type CredentialRecord struct {
	ConsumerKey      string `cbor:"consumer_key"`
	ConsumerSecret   string `cbor:"consumer_secret"`
	OAuthToken       string `cbor:"oauth_token"`
	OAuthTokenSecret string `cbor:"oauth_token_secret"`
}

// Validate reports whether every field of r is populated with UTF-8 text.
func (r CredentialRecord) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"consumer_key", r.ConsumerKey},
		{"consumer_secret", r.ConsumerSecret},
		{"oauth_token", r.OAuthToken},
		{"oauth_token_secret", r.OAuthTokenSecret},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s is empty", kerrors.ErrIncompleteRecord, f.name)
		}
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s", kerrors.ErrInvalidText, f.name)
		}
	}
	return nil
}

// String masks every secret so a record never leaks through %v or %s.
func (r CredentialRecord) String() string {
	return fmt.Sprintf("CredentialRecord{ConsumerKey: %s, ConsumerSecret: %s, OAuthToken: %s, OAuthTokenSecret: %s}",
		mask(r.ConsumerKey), mask(r.ConsumerSecret), mask(r.OAuthToken), mask(r.OAuthTokenSecret))
}

// GoString masks secrets for %#v as well.
func (r CredentialRecord) GoString() string {
	return r.String()
}

func mask(s string) string {
	if s == "" {
		return `""`
	}
	return "****"
}

// marshalRecord serializes r as a CBOR map with four text fields.
func marshalRecord(r CredentialRecord) ([]byte, error) {
	return encMode.Marshal(r)
}

// unmarshalRecord is the exact inverse of marshalRecord. Anything other
// than a map holding exactly the four non-empty text fields is rejected.
func unmarshalRecord(data []byte) (CredentialRecord, error) {
	var raw struct {
		ConsumerKey      *string `cbor:"consumer_key"`
		ConsumerSecret   *string `cbor:"consumer_secret"`
		OAuthToken       *string `cbor:"oauth_token"`
		OAuthTokenSecret *string `cbor:"oauth_token_secret"`
	}
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return CredentialRecord{}, fmt.Errorf("%w: %v", kerrors.ErrMalformedRecord, err)
	}
	if raw.ConsumerKey == nil || raw.ConsumerSecret == nil || raw.OAuthToken == nil || raw.OAuthTokenSecret == nil {
		return CredentialRecord{}, fmt.Errorf("%w: missing field", kerrors.ErrMalformedRecord)
	}

	record := CredentialRecord{
		ConsumerKey:      *raw.ConsumerKey,
		ConsumerSecret:   *raw.ConsumerSecret,
		OAuthToken:       *raw.OAuthToken,
		OAuthTokenSecret: *raw.OAuthTokenSecret,
	}
	if err := record.Validate(); err != nil {
		return CredentialRecord{}, fmt.Errorf("%w: %v", kerrors.ErrMalformedRecord, err)
	}
	return record, nil
}
