package workflows

import (
	"context"

	"github.com/PolarWolf314/oauthvault/internal/audit"
	"github.com/PolarWolf314/oauthvault/internal/envelope"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
)

// OpenOptions configures the open workflow.
type OpenOptions struct {
	Path     string
	Password string
	Audit    audit.Logger
}

// OpenResult contains an opened envelope. Record is plaintext; callers keep
// it in memory only.
type OpenResult struct {
	Record envelope.CredentialRecord
	Owner  string
	Params kdf.Params
	Path   string
}

// Open loads the envelope at Path and decrypts it with Password.
//
// Returns ErrEnvelopeNotFound if there is no file at Path.
// Returns ErrMalformedEnvelope if the file is not a valid envelope.
// Returns ErrInvalidCredentials if the password is wrong or the ciphertext was altered.
// Returns ErrMalformedRecord if the decrypted payload is not a credential record.
func Open(ctx context.Context, opts OpenOptions) (*OpenResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env, err := envelope.Load(opts.Path)
	if err != nil {
		opts.Audit.Log(audit.Entry{Operation: "open", Path: opts.Path, Outcome: outcomeFor(err)})
		return nil, err
	}

	record, err := envelope.Open(env, opts.Password)
	opts.Audit.Log(audit.Entry{Operation: "open", Path: opts.Path, Owner: env.Owner, Outcome: outcomeFor(err)})
	if err != nil {
		return nil, err
	}

	return &OpenResult{
		Record: record,
		Owner:  env.Owner,
		Params: env.Params,
		Path:   opts.Path,
	}, nil
}
