package kdf

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// AlgorithmPBKDF2SHA256 identifies PBKDF2 with HMAC-SHA-256.
const AlgorithmPBKDF2SHA256 = "pbkdf2-sha256"

// Bounds enforced on parameters read back from an envelope header.
const (
	MinIterations = 1000
	MaxIterations = 10_000_000
	MinSaltLength = 16
	MaxSaltLength = 64
	KeyLength     = 32
)

var (
	// ErrInvalidSalt indicates the salt length does not match the parameters.
	ErrInvalidSalt = errors.New("invalid salt length")

	// ErrInvalidParams indicates the parameters are unsupported or out of bounds.
	ErrInvalidParams = errors.New("invalid key derivation parameters")
)

// Params are the key derivation parameters recorded in an envelope header.
type Params struct {
	Algorithm  string `cbor:"alg" json:"algorithm"`
	Iterations int    `cbor:"iter" json:"iterations"`
	SaltLength int    `cbor:"salt_len" json:"salt_length"`
	KeyLength  int    `cbor:"key_len" json:"key_length"`
}

// DefaultParams are used for every newly sealed envelope unless overridden.
var DefaultParams = Params{
	Algorithm:  AlgorithmPBKDF2SHA256,
	Iterations: 500_000,
	SaltLength: 16,
	KeyLength:  KeyLength,
}

// LegacyParams apply to envelopes written without a parameter header.
var LegacyParams = DefaultParams

// WithIterations returns a copy of p with the iteration count replaced.
func (p Params) WithIterations(n int) Params {
	p.Iterations = n
	return p
}

// Validate reports whether p can be used for derivation.
func (p Params) Validate() error {
	if p.Algorithm != AlgorithmPBKDF2SHA256 {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParams, p.Algorithm)
	}
	if p.Iterations < MinIterations || p.Iterations > MaxIterations {
		return fmt.Errorf("%w: iterations %d outside [%d, %d]", ErrInvalidParams, p.Iterations, MinIterations, MaxIterations)
	}
	if p.SaltLength < MinSaltLength || p.SaltLength > MaxSaltLength {
		return fmt.Errorf("%w: salt length %d outside [%d, %d]", ErrInvalidParams, p.SaltLength, MinSaltLength, MaxSaltLength)
	}
	if p.KeyLength != KeyLength {
		return fmt.Errorf("%w: key length must be %d bytes, got %d", ErrInvalidParams, KeyLength, p.KeyLength)
	}
	return nil
}

// Derive turns password and salt into a symmetric key using p.
//
// The same password and salt always produce the same key. An empty password
// is accepted; enforcing a minimum strength is the caller's decision.
func (p Params) Derive(password string, salt []byte) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) != p.SaltLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", ErrInvalidSalt, p.SaltLength, len(salt))
	}
	return pbkdf2.Key([]byte(password), salt, p.Iterations, p.KeyLength, sha256.New), nil
}

// Derive derives a key with DefaultParams.
func Derive(password string, salt []byte) ([]byte, error) {
	return DefaultParams.Derive(password, salt)
}

// NewSalt reads n bytes from r. A nil r uses crypto/rand.
func NewSalt(r io.Reader, n int) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	salt := make([]byte, n)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("failed to read random salt: %w", err)
	}
	return salt, nil
}

// Wipe zeroes b.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
