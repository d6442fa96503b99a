package envelope

import (
	"crypto/rand"
	"fmt"
	"io"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/oauthvault/internal/errors"
	"github.com/PolarWolf314/oauthvault/internal/kdf"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Envelope is a sealed credential record together with the non-secret data
// needed to open it again.
type Envelope struct {
	// Data is nonce || secretbox output.
	Data []byte

	// Owner is a free-text label for the operator. It is not authenticated.
	Owner string

	// Random is the key derivation salt.
	Random []byte

	// Params are the key derivation parameters Data was sealed with.
	Params kdf.Params
}

// Codec seals and opens envelopes.
type Codec struct {
	// Params are used for newly sealed envelopes. The zero value means kdf.DefaultParams.
	Params kdf.Params

	// Rand supplies salts and nonces. Nil means crypto/rand.
	Rand io.Reader
}

func (c Codec) params() kdf.Params {
	if c.Params == (kdf.Params{}) {
		return kdf.DefaultParams
	}
	return c.Params
}

func (c Codec) rand() io.Reader {
	if c.Rand == nil {
		return rand.Reader
	}
	return c.Rand
}

// Seal encrypts record under a key derived from password and a fresh salt.
// owner is stored verbatim in the returned envelope and must be UTF-8.
func (c Codec) Seal(record CredentialRecord, password, owner string) (*Envelope, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}

	params := c.params()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	salt, err := kdf.NewSalt(c.rand(), params.SaltLength)
	if err != nil {
		return nil, err
	}

	derived, err := params.Derive(password, salt)
	if err != nil {
		return nil, err
	}
	var key [kdf.KeyLength]byte
	copy(key[:], derived)
	kdf.Wipe(derived)
	defer kdf.Wipe(key[:])

	plaintext, err := marshalRecord(record)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize credential record: %w", err)
	}
	defer kdf.Wipe(plaintext)

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(c.rand(), nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to read random nonce: %w", err)
	}

	return &Envelope{
		Data:   secretbox.Seal(nonce[:], plaintext, &nonce, &key),
		Owner:  owner,
		Random: salt,
		Params: params,
	}, nil
}

// Open authenticates and decrypts env with password.
//
// A wrong password and a damaged Data field both return
// ErrInvalidCredentials. Open never returns a partially populated record.
func (c Codec) Open(env *Envelope, password string) (CredentialRecord, error) {
	if env == nil {
		return CredentialRecord{}, fmt.Errorf("%w: nil envelope", kerrors.ErrMalformedEnvelope)
	}
	if err := env.validate(); err != nil {
		return CredentialRecord{}, err
	}

	// The key is derived before any length check on Data so that a
	// truncated ciphertext costs the same as a wrong password.
	derived, err := env.Params.Derive(password, env.Random)
	if err != nil {
		return CredentialRecord{}, fmt.Errorf("%w: %v", kerrors.ErrMalformedEnvelope, err)
	}
	var key [kdf.KeyLength]byte
	copy(key[:], derived)
	kdf.Wipe(derived)
	defer kdf.Wipe(key[:])

	if len(env.Data) < nonceSize+secretbox.Overhead {
		return CredentialRecord{}, kerrors.ErrInvalidCredentials
	}

	var nonce [nonceSize]byte
	copy(nonce[:], env.Data[:nonceSize])

	plaintext, ok := secretbox.Open(nil, env.Data[nonceSize:], &nonce, &key)
	if !ok {
		return CredentialRecord{}, kerrors.ErrInvalidCredentials
	}
	defer kdf.Wipe(plaintext)

	return unmarshalRecord(plaintext)
}

// validate checks the structural invariants shared by Open and Marshal.
func (e *Envelope) validate() error {
	if err := e.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrMalformedEnvelope, err)
	}
	if len(e.Random) != e.Params.SaltLength {
		return fmt.Errorf("%w: salt is %d bytes, expected %d", kerrors.ErrMalformedEnvelope, len(e.Random), e.Params.SaltLength)
	}
	if e.Data == nil {
		return fmt.Errorf("%w: missing data", kerrors.ErrMalformedEnvelope)
	}
	if !utf8.ValidString(e.Owner) {
		return fmt.Errorf("%w: owner is not valid UTF-8", kerrors.ErrMalformedEnvelope)
	}
	return nil
}

// ValidateOwner reports whether owner can be stored as an envelope label.
func ValidateOwner(owner string) error {
	if !utf8.ValidString(owner) {
		return fmt.Errorf("%w: owner", kerrors.ErrInvalidText)
	}
	return nil
}

var defaultCodec Codec

// Seal seals record with kdf.DefaultParams and crypto/rand.
func Seal(record CredentialRecord, password, owner string) (*Envelope, error) {
	return defaultCodec.Seal(record, password, owner)
}

// Open opens env with password.
func Open(env *Envelope, password string) (CredentialRecord, error) {
	return defaultCodec.Open(env, password)
}
