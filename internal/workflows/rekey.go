package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/oauthvault/internal/audit"
	"github.com/PolarWolf314/oauthvault/internal/envelope"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
)

// RekeyOptions configures the rekey workflow.
type RekeyOptions struct {
	Path        string
	OldPassword string
	NewPassword string

	// Params for the new envelope. The zero value means kdf.DefaultParams.
	Params kdf.Params

	// Owner replaces the label when non-empty.
	Owner string

	Audit audit.Logger
}

// RekeyResult contains the outcome of a rekey operation.
type RekeyResult struct {
	Path      string
	Owner     string
	OldParams kdf.Params
	NewParams kdf.Params
}

// Rekey re-seals an envelope under a new password and fresh salt,
// optionally raising the KDF cost. The file is replaced atomically, so an
// interrupted rekey leaves the old envelope intact.
//
// Returns ErrInvalidCredentials if OldPassword does not open the envelope.
// Returns ErrInvalidText if Owner is not valid UTF-8; the file is not touched.
func Rekey(ctx context.Context, opts RekeyOptions) (*RekeyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := envelope.ValidateOwner(opts.Owner); err != nil {
		return nil, err
	}

	env, err := envelope.Load(opts.Path)
	if err != nil {
		opts.Audit.Log(audit.Entry{Operation: "rekey", Path: opts.Path, Outcome: outcomeFor(err)})
		return nil, err
	}

	record, err := envelope.Open(env, opts.OldPassword)
	if err != nil {
		opts.Audit.Log(audit.Entry{Operation: "rekey", Path: opts.Path, Owner: env.Owner, Outcome: outcomeFor(err)})
		return nil, err
	}

	owner := env.Owner
	if opts.Owner != "" {
		owner = opts.Owner
	}

	codec := envelope.Codec{Params: opts.Params}
	sealed, err := codec.Seal(record, opts.NewPassword, owner)
	if err != nil {
		return nil, fmt.Errorf("sealing credentials: %w", err)
	}

	if err := envelope.Save(opts.Path, sealed, true); err != nil {
		opts.Audit.Log(audit.Entry{Operation: "rekey", Path: opts.Path, Owner: owner, Outcome: outcomeFor(err)})
		return nil, err
	}

	opts.Audit.Log(audit.Entry{
		Operation:  "rekey",
		Path:       opts.Path,
		Owner:      owner,
		Iterations: sealed.Params.Iterations,
	})

	return &RekeyResult{
		Path:      opts.Path,
		Owner:     owner,
		OldParams: env.Params,
		NewParams: sealed.Params,
	}, nil
}
