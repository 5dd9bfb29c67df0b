// Package merktree computes BLAKE2b-256 Merkle roots, both for a
// single subtree's 8 leaves and for the top-level sequence of subtree
// roots, and serializes the flat tree file the protocol ships.
package merktree

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/keytree/airdrop/internal/params"
)

// Hash is a single 32-byte digest: a leaf, an internal node, or a root.
type Hash = [params.HashSize]byte

func hashPair(a, b Hash) Hash {
	buf := make([]byte, 0, 2*params.HashSize)
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	return blake2b.Sum256(buf)
}

// Root computes the BLAKE2b-Merkle root over leaves, duplicating the
// last node at any level with an odd count. The empty sequence's root
// is defined as BLAKE2b-256 of the empty string.
func Root(leaves []Hash) Hash {
	if len(leaves) == 0 {
		return blake2b.Sum256(nil)
	}
	level := append([]Hash(nil), leaves...)
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, hashPair(level[i], level[i+1]))
			} else {
				next = append(next, hashPair(level[i], level[i]))
			}
		}
		level = next
	}
	return level[0]
}

// Depth implements depth(n) = ceil(log2(n)) via repeated halving,
// rounding up on each step: while n>1: n=(n+1)>>1.
func Depth(n int) int {
	d := 0
	for n > 1 {
		n = (n + 1) >> 1
		d++
	}
	return d
}

// WriteTree serializes the tree file: u32 leaf_count (LE) followed by
// leaf_count subtrees of params.SubtreeLeaves*params.HashSize raw
// bytes each, in the order given.
func WriteTree(w io.Writer, subtrees [][params.SubtreeLeaves]Hash) error {
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(subtrees)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return fmt.Errorf("merktree: write leaf count: %w", err)
	}
	for _, st := range subtrees {
		for _, h := range st {
			if _, err := w.Write(h[:]); err != nil {
				return fmt.Errorf("merktree: write leaf: %w", err)
			}
		}
	}
	return nil
}
