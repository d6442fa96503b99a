package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/oauthvault/internal/audit"
	"github.com/PolarWolf314/oauthvault/internal/envelope"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
	"github.com/PolarWolf314/oauthvault/internal/oauth"
)

// VerifierFunc shows the operator the authorization URL and returns the
// verification code they obtained there.
type VerifierFunc func(authorizationURL string) (string, error)

// AcquireOptions configures the acquire workflow.
type AcquireOptions struct {
	ConsumerKey    string
	ConsumerSecret string
	Scopes         []string
	Endpoints      oauth.Endpoints

	// Verifier is called once the request token has been issued.
	Verifier VerifierFunc

	// Password returns the envelope password. It is called after the
	// handshake so the operator is not asked for it when authorization fails.
	Password func() (string, error)

	Owner     string
	Path      string
	Overwrite bool
	Params    kdf.Params
	Audit     audit.Logger
}

// Acquire runs the three-legged OAuth1 handshake and seals the resulting
// credentials. The access token goes straight from the provider's response
// into the envelope.
//
// Returns ErrEnvelopeExists before contacting the provider if Path exists
// and Overwrite is false.
// Returns ErrHandshakeFailed if the provider rejects any step.
func Acquire(ctx context.Context, opts AcquireOptions) (*SealResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Verifier == nil || opts.Password == nil {
		return nil, fmt.Errorf("acquire requires verifier and password callbacks")
	}
	if err := checkWritable(opts.Path, opts.Overwrite); err != nil {
		return nil, err
	}
	if err := envelope.ValidateOwner(opts.Owner); err != nil {
		return nil, err
	}

	handshake, err := oauth.NewHandshake(opts.ConsumerKey, opts.ConsumerSecret, opts.Endpoints, opts.Scopes)
	if err != nil {
		return nil, err
	}

	requestToken, err := handshake.RequestToken()
	if err != nil {
		opts.Audit.Log(audit.Entry{Operation: "acquire", Path: opts.Path, Owner: opts.Owner, Outcome: audit.OutcomeError})
		return nil, err
	}

	verifier, err := opts.Verifier(requestToken.AuthorizationURL)
	if err != nil {
		return nil, fmt.Errorf("reading verifier: %w", err)
	}

	record, err := handshake.AccessToken(requestToken, verifier)
	if err != nil {
		opts.Audit.Log(audit.Entry{Operation: "acquire", Path: opts.Path, Owner: opts.Owner, Outcome: audit.OutcomeError})
		return nil, err
	}

	password, err := opts.Password()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	opts.Audit.Log(audit.Entry{Operation: "acquire", Path: opts.Path, Owner: opts.Owner})

	return Seal(ctx, SealOptions{
		Record:    record,
		Password:  password,
		Owner:     opts.Owner,
		Path:      opts.Path,
		Overwrite: opts.Overwrite,
		Params:    opts.Params,
		Audit:     opts.Audit,
	})
}
