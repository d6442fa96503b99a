package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/oauthvault/internal/audit"
	"github.com/PolarWolf314/oauthvault/internal/envelope"
	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
)

// SealOptions configures the seal workflow.
type SealOptions struct {
	// Record is the credential record to protect.
	Record envelope.CredentialRecord

	// Password protects the envelope. Empty is allowed; the cmd layer warns.
	Password string

	// Owner is stored as the envelope's label.
	Owner string

	// Path is where the envelope file is written.
	Path string

	// Overwrite replaces an existing file at Path.
	Overwrite bool

	// Params are the KDF parameters. The zero value means kdf.DefaultParams.
	Params kdf.Params

	// Audit records the operation.
	Audit audit.Logger
}

// SealResult contains the outcome of a seal operation.
type SealResult struct {
	Path   string
	Owner  string
	Params kdf.Params
}

// Seal encrypts a credential record and writes the envelope to disk.
//
// The plaintext record exists only in memory; the file written is the
// sealed envelope.
//
// Returns ErrIncompleteRecord if any record field is empty.
// Returns ErrEnvelopeExists if Path exists and Overwrite is false.
func Seal(ctx context.Context, opts SealOptions) (*SealResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := opts.Record.Validate(); err != nil {
		return nil, err
	}
	if err := checkWritable(opts.Path, opts.Overwrite); err != nil {
		return nil, err
	}

	codec := envelope.Codec{Params: opts.Params}
	env, err := codec.Seal(opts.Record, opts.Password, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("sealing credentials: %w", err)
	}

	if err := envelope.Save(opts.Path, env, opts.Overwrite); err != nil {
		opts.Audit.Log(audit.Entry{Operation: "seal", Path: opts.Path, Owner: opts.Owner, Outcome: outcomeFor(err)})
		return nil, err
	}

	opts.Audit.Log(audit.Entry{
		Operation:  "seal",
		Path:       opts.Path,
		Owner:      env.Owner,
		Iterations: env.Params.Iterations,
	})

	return &SealResult{
		Path:   opts.Path,
		Owner:  env.Owner,
		Params: env.Params,
	}, nil
}

// checkWritable fails early, before any expensive work, when path would
// be clobbered.
func checkWritable(path string, overwrite bool) error {
	if path == "" {
		return fmt.Errorf("no credentials file path given")
	}
	if overwrite {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", kerrors.ErrEnvelopeExists, path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	return nil
}

// outcomeFor classifies err for the audit log.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return audit.OutcomeOK
	case errors.Is(err, kerrors.ErrInvalidCredentials):
		return audit.OutcomeInvalidCredentials
	case errors.Is(err, kerrors.ErrMalformedEnvelope), errors.Is(err, kerrors.ErrMalformedRecord):
		return audit.OutcomeMalformed
	default:
		return audit.OutcomeError
	}
}
