package workflows

import (
	"context"
	"os"

	"github.com/PolarWolf314/oauthvault/internal/envelope"
	"github.com/PolarWolf314/oauthvault/internal/kdf"
)

// InspectResult describes an envelope without opening it.
type InspectResult struct {
	Path           string
	Owner          string
	Params         kdf.Params
	CiphertextSize int
	Mode           os.FileMode
}

// Inspect reports an envelope's non-secret metadata. No password is needed
// and nothing is decrypted.
func Inspect(ctx context.Context, path string) (*InspectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env, err := envelope.Load(path)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		Path:           path,
		Owner:          env.Owner,
		Params:         env.Params,
		CiphertextSize: len(env.Data),
	}
	if info, err := os.Stat(path); err == nil {
		result.Mode = info.Mode().Perm()
	}
	return result, nil
}
