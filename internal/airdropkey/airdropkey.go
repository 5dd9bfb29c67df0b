// Package airdropkey implements the uniform AirdropKey capability the
// ingestors build against: validate, bucket, hash, generate/apply a
// nonce, and encrypt a seed under the key. It wraps the algorithm-
// specific parsers (golang.org/x/crypto/ssh and openpgp) behind a
// single interface so the ingestion pipeline never branches on key
// type.
package airdropkey

import (
	"errors"

	"github.com/keytree/airdrop/internal/params"
)

// Classifier sentinels. Callers must compare with errors.Is, never by
// inspecting an error's message string.
var (
	// ErrUnsupportedAlgorithm is returned by FromSSH, FromPGPPacket and
	// FromPGPEntityPrimary for key types the airdrop protocol excludes (anything but RSA today).
	// It is a normal, non-fatal classifier outcome.
	ErrUnsupportedAlgorithm = errors.New("airdropkey: unsupported algorithm")

	// ErrValidationFailed marks a key whose parameters are
	// semantically invalid (e.g. modulus too small).
	ErrValidationFailed = errors.New("airdropkey: validation failed")

	// ErrSeedSize is returned by Encrypt when the caller passes a
	// seed whose length isn't params.SeedSize.
	ErrSeedSize = errors.New("airdropkey: wrong seed size")
)

// Nonce is the 32-byte value generated together with a key's
// post-nonce snapshot, and later mixed into both the encryption
// payload and the key's own post-nonce canonical encoding.
type Nonce struct {
	Bytes []byte
}

// AirdropKey is the opaque, algorithm-agnostic capability the
// ingestion pipeline drives. Implementations must be deterministic in
// Hash and Bucket for a given internal state, but Generate is expected
// to draw fresh entropy on every call.
type AirdropKey interface {
	// Validate reports whether the key's own parameters (e.g. modulus
	// size) satisfy the airdrop protocol's semantic requirements.
	Validate() bool

	// Bucket returns the nonce-ciphertext bucket this key routes to,
	// in [0, params.BucketCount).
	Bucket() byte

	// Hash returns the 32-byte digest of the key's current canonical
	// encoding. It reflects whatever ApplyNonce has done so far.
	Hash() [params.HashSize]byte

	// Generate draws a fresh nonce and returns it alongside a clone
	// of the key captured before any nonce has been applied.
	Generate() (*Nonce, AirdropKey)

	// ApplyNonce mutates the receiver into its post-nonce form.
	ApplyNonce(n *Nonce)

	// Encrypt seals nonce||seed under the key's public material.
	// len(seed) must equal params.SeedSize.
	Encrypt(n *Nonce, seed []byte) ([]byte, error)
}
