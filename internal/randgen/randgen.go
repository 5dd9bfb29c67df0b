// Package randgen provides the injected randomness capability the
// build pipeline draws seeds from. Production wires it to a CSPRNG;
// tests can substitute a deterministic Source to pin tree.bin output.
package randgen

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/keytree/airdrop/internal/params"
)

// Source returns n fresh random bytes.
type Source interface {
	Bytes(n int) ([]byte, error)
}

// CSPRNG is the production Source, backed by crypto/rand.
type CSPRNG struct{}

func (CSPRNG) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("randgen: crypto/rand: %w", err)
	}
	return b, nil
}

// NewSeed implements the protocol's seed-generation formula:
// SHA256(64 random bytes)[0:params.SeedSize].
func NewSeed(src Source) ([]byte, error) {
	raw, err := src.Bytes(64)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	return sum[:params.SeedSize], nil
}
