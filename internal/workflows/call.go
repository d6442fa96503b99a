package workflows

import (
	"context"
	"net/url"

	"github.com/PolarWolf314/oauthvault/internal/audit"
	"github.com/PolarWolf314/oauthvault/internal/oauth"
)

// CallOptions configures the call workflow.
type CallOptions struct {
	Path     string
	Password string

	Method   string
	Endpoint string
	Params   url.Values

	Client oauth.ClientOptions
	Audit  audit.Logger
}

// Call opens the envelope and makes one signed API request with it.
//
// Unlock errors are the same as Open's. An error status from the API
// returns the response together with ErrAPIRequestFailed.
func Call(ctx context.Context, opts CallOptions) (*oauth.Response, error) {
	opened, err := Open(ctx, OpenOptions{
		Path:     opts.Path,
		Password: opts.Password,
		Audit:    opts.Audit,
	})
	if err != nil {
		return nil, err
	}

	client := oauth.NewClient(ctx, opened.Record, opts.Client)
	resp, err := client.Do(ctx, opts.Method, opts.Endpoint, opts.Params)

	entry := audit.Entry{
		Operation: "call",
		Path:      opts.Path,
		Owner:     opened.Owner,
		Method:    opts.Method,
		Endpoint:  opts.Endpoint,
		Outcome:   outcomeFor(err),
	}
	if resp != nil {
		entry.Status = resp.StatusCode
	}
	opts.Audit.Log(entry)

	return resp, err
}
