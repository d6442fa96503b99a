package oauth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PolarWolf314/oauthvault/internal/envelope"
	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"

	"github.com/dghubble/oauth1"
)

// Endpoints locate the provider's three-legged OAuth1 flow.
type Endpoints struct {
	RequestTokenURL string
	AuthorizeURL    string
	AccessTokenURL  string

	// CallbackURL is "oob" for the copy-the-verifier flow.
	CallbackURL string
}

// RequestToken is the temporary credential issued at the start of the handshake.
type RequestToken struct {
	Token  string
	Secret string

	// AuthorizationURL is where the operator approves access.
	AuthorizationURL string
}

// Handshake performs the three-legged authorization for one consumer.
type Handshake struct {
	config *oauth1.Config
}

// NewHandshake prepares a handshake. scopes are sent as the space separated
// scope parameter of the request-token call; an empty list asks for the
// provider's default permissions.
func NewHandshake(consumerKey, consumerSecret string, endpoints Endpoints, scopes []string) (*Handshake, error) {
	if consumerKey == "" || consumerSecret == "" {
		return nil, fmt.Errorf("%w: consumer key and secret are required", kerrors.ErrHandshakeFailed)
	}

	requestTokenURL, err := url.Parse(endpoints.RequestTokenURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request token URL: %v", kerrors.ErrHandshakeFailed, err)
	}
	if len(scopes) > 0 {
		query := requestTokenURL.Query()
		query.Set("scope", strings.Join(scopes, " "))
		requestTokenURL.RawQuery = query.Encode()
	}

	callbackURL := endpoints.CallbackURL
	if callbackURL == "" {
		callbackURL = "oob"
	}

	return &Handshake{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: requestTokenURL.String(),
				AuthorizeURL:    endpoints.AuthorizeURL,
				AccessTokenURL:  endpoints.AccessTokenURL,
			},
		},
	}, nil
}

// RequestToken obtains a temporary token and the URL the operator must visit.
func (h *Handshake) RequestToken() (*RequestToken, error) {
	token, secret, err := h.config.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("%w: request token: %v", kerrors.ErrHandshakeFailed, err)
	}

	authURL, err := h.config.AuthorizationURL(token)
	if err != nil {
		return nil, fmt.Errorf("%w: authorization URL: %v", kerrors.ErrHandshakeFailed, err)
	}

	return &RequestToken{
		Token:            token,
		Secret:           secret,
		AuthorizationURL: authURL.String(),
	}, nil
}

// AccessToken exchanges an approved request token and its verifier for the
// long-lived credentials.
func (h *Handshake) AccessToken(rt *RequestToken, verifier string) (envelope.CredentialRecord, error) {
	if rt == nil || verifier == "" {
		return envelope.CredentialRecord{}, fmt.Errorf("%w: request token and verifier are required", kerrors.ErrHandshakeFailed)
	}

	token, secret, err := h.config.AccessToken(rt.Token, rt.Secret, verifier)
	if err != nil {
		return envelope.CredentialRecord{}, fmt.Errorf("%w: access token: %v", kerrors.ErrHandshakeFailed, err)
	}

	record := envelope.CredentialRecord{
		ConsumerKey:      h.config.ConsumerKey,
		ConsumerSecret:   h.config.ConsumerSecret,
		OAuthToken:       token,
		OAuthTokenSecret: secret,
	}
	if err := record.Validate(); err != nil {
		return envelope.CredentialRecord{}, fmt.Errorf("%w: %v", kerrors.ErrHandshakeFailed, err)
	}
	return record, nil
}
