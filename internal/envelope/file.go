package envelope

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
	"github.com/PolarWolf314/oauthvault/internal/kdf"

	"github.com/natefinch/atomic"
)

// MaxFileSize bounds how much of an envelope file Load will read.
const MaxFileSize = 64 << 10

// fileEnvelope is the on-disk layout. Data, Owner and Random are required;
// KDF is absent in envelopes written before parameters were recorded.
type fileEnvelope struct {
	Data   *[]byte     `cbor:"Data"`
	Owner  *string     `cbor:"Owner"`
	Random *[]byte     `cbor:"Random"`
	KDF    *kdf.Params `cbor:"KDF,omitempty"`
}

// Marshal encodes env in the envelope file format.
func Marshal(env *Envelope) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil envelope", kerrors.ErrMalformedEnvelope)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}

	params := env.Params
	return encMode.Marshal(fileEnvelope{
		Data:   &env.Data,
		Owner:  &env.Owner,
		Random: &env.Random,
		KDF:    &params,
	})
}

// Unmarshal decodes an envelope file. Every structural problem is reported
// as ErrMalformedEnvelope; the ciphertext itself is not inspected.
func Unmarshal(data []byte) (*Envelope, error) {
	var raw fileEnvelope
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedEnvelope, err)
	}

	switch {
	case raw.Data == nil:
		return nil, fmt.Errorf("%w: missing Data field", kerrors.ErrMalformedEnvelope)
	case raw.Owner == nil:
		return nil, fmt.Errorf("%w: missing Owner field", kerrors.ErrMalformedEnvelope)
	case raw.Random == nil:
		return nil, fmt.Errorf("%w: missing Random field", kerrors.ErrMalformedEnvelope)
	}

	params := kdf.LegacyParams
	if raw.KDF != nil {
		params = *raw.KDF
	}

	env := &Envelope{
		Data:   *raw.Data,
		Owner:  *raw.Owner,
		Random: *raw.Random,
		Params: params,
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// Save writes env to path atomically with owner-only permissions. An
// existing file is replaced only when overwrite is true.
func Save(path string, env *Envelope, overwrite bool) error {
	data, err := Marshal(env)
	if err != nil {
		return err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", kerrors.ErrEnvelopeExists, path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	// atomic.WriteFile keeps the mode of a file it replaces.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict permissions on %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes the envelope file at path.
func Load(path string) (*Envelope, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrEnvelopeNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", kerrors.ErrMalformedEnvelope, path, MaxFileSize)
	}

	return Unmarshal(data)
}
