package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PolarWolf314/oauthvault/internal/envelope"
	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"

	"github.com/dghubble/oauth1"
)

// MaxResponseSize bounds how much of a response body is read.
const MaxResponseSize = 10 << 20

// ClientOptions configure an API client.
type ClientOptions struct {
	BaseURL string

	// APIKeyParam names the query parameter that carries the consumer key
	// on every call. Empty disables it.
	APIKeyParam string

	// Timeout applies to each request. Zero means no timeout.
	Timeout time.Duration
}

// Client makes OAuth1-signed requests on behalf of one credential record.
type Client struct {
	http     *http.Client
	baseURL  string
	defaults url.Values
}

// Response is a completed API call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the body if it is valid JSON.
func (r *Response) JSON() (any, bool) {
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, false
	}
	return v, true
}

// NewClient returns a client that signs requests with record.
func NewClient(ctx context.Context, record envelope.CredentialRecord, opts ClientOptions) *Client {
	config := oauth1.NewConfig(record.ConsumerKey, record.ConsumerSecret)
	httpClient := config.Client(ctx, oauth1.NewToken(record.OAuthToken, record.OAuthTokenSecret))
	httpClient.Timeout = opts.Timeout

	defaults := url.Values{}
	if opts.APIKeyParam != "" {
		defaults.Set(opts.APIKeyParam, record.ConsumerKey)
	}

	return &Client{
		http:     httpClient,
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		defaults: defaults,
	}
}

// Do sends a signed request to endpoint, relative to the base URL.
// GET and DELETE carry params in the query string, other methods as a
// form body. Per-call params override the client defaults for the same key.
// A non-2xx status returns the response together with ErrAPIRequestFailed.
func (c *Client) Do(ctx context.Context, method, endpoint string, params url.Values) (*Response, error) {
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}

	merged := mergeParams(c.defaults, params)
	target := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")

	var body io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		if encoded := merged.Encode(); encoded != "" {
			target += "?" + encoded
		}
	default:
		body = strings.NewReader(merged.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", kerrors.ErrAPIRequestFailed, method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response, fmt.Errorf("%w: %s %s returned %s", kerrors.ErrAPIRequestFailed, method, endpoint, resp.Status)
	}
	return response, nil
}

// mergeParams builds a fresh url.Values from defaults overlaid with params.
// Neither input is modified.
func mergeParams(defaults, params url.Values) url.Values {
	merged := make(url.Values, len(defaults)+len(params))
	for key, values := range defaults {
		merged[key] = append([]string(nil), values...)
	}
	for key, values := range params {
		merged[key] = append([]string(nil), values...)
	}
	return merged
}
