// Package subtree builds the fixed-width, 8-leaf per-user/per-entry
// subtrees: accumulating real leaf hashes as keys are validated, then
// padding with deterministic HKDF filler and sorting ascending so the
// real key count is never observable from the output.
package subtree

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"sort"

	"golang.org/x/crypto/hkdf"

	"github.com/keytree/airdrop/internal/merktree"
	"github.com/keytree/airdrop/internal/params"
)

// Subtree accumulates leaf hashes for one user (shared seed across
// their keys) or one standalone entry (fresh seed per entry).
type Subtree struct {
	Seed   []byte
	hashes []merktree.Hash
}

// New creates an empty subtree bound to seed, which must be
// params.SeedSize bytes.
func New(seed []byte) *Subtree {
	return &Subtree{Seed: append([]byte(nil), seed...)}
}

// Remaining reports how many more real hashes the subtree can still
// accept before it is full.
func (s *Subtree) Remaining() int {
	return params.SubtreeLeaves - len(s.hashes)
}

// Empty reports whether no key has contributed hashes yet; an empty
// subtree is dropped rather than padded and emitted.
func (s *Subtree) Empty() bool {
	return len(s.hashes) == 0
}

// AddPair appends the two leaf hashes a single validated key
// contributes (its pre-nonce and post-nonce hash). It reports false,
// without mutating the subtree, if there isn't room for both. Callers
// check Remaining before routing a key, so that no bucket slot is
// spent on a key that cannot fit.
func (s *Subtree) AddPair(h1, h2 merktree.Hash) bool {
	if s.Remaining() < 2 {
		return false
	}
	s.hashes = append(s.hashes, h1, h2)
	return true
}

// Finalize pads the subtree to params.SubtreeLeaves with
// HKDF-SHA256(Seed) filler, sorts the whole set ascending by byte
// comparison, and returns the fixed leaf sequence plus its
// BLAKE2b-Merkle subroot.
func (s *Subtree) Finalize() ([params.SubtreeLeaves]merktree.Hash, merktree.Hash, error) {
	leaves := append([]merktree.Hash(nil), s.hashes...)

	need := params.SubtreeLeaves - len(leaves)
	if need > 0 {
		filler, err := fillerStream(s.Seed, need*params.HashSize)
		if err != nil {
			return [params.SubtreeLeaves]merktree.Hash{}, merktree.Hash{}, err
		}
		for i := 0; i < need; i++ {
			var h merktree.Hash
			copy(h[:], filler[i*params.HashSize:(i+1)*params.HashSize])
			leaves = append(leaves, h)
		}
	}

	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i][:], leaves[j][:]) < 0
	})

	var out [params.SubtreeLeaves]merktree.Hash
	copy(out[:], leaves)
	return out, merktree.Root(leaves), nil
}

// fillerStream derives n deterministic filler bytes from seed via
// HKDF-Extract(SHA256, seed) then HKDF-Expand with an empty info
// string, matching the protocol's padding rule exactly.
func fillerStream(seed []byte, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, seed, nil, nil)
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("subtree: hkdf filler: %w", err)
	}
	return buf, nil
}
