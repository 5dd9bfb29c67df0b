// Package bucket manages the 256 append-only ciphertext buckets keyed
// by a key's hash byte, and writes them out as the numbered nonce
// files the protocol ships alongside the tree.
package bucket

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keytree/airdrop/internal/params"
)

// Set holds the in-memory accumulation of every bucket's ciphertexts
// before they are flushed to disk.
type Set struct {
	buckets [params.BucketCount][][]byte
}

// NewSet returns an empty bucket set.
func NewSet() *Set {
	return &Set{}
}

// Append adds ciphertext to bucket idx, in the order keys are routed.
func (s *Set) Append(idx byte, ciphertext []byte) {
	s.buckets[idx] = append(s.buckets[idx], append([]byte(nil), ciphertext...))
}

// Count reports how many ciphertexts bucket idx currently holds.
func (s *Set) Count(idx byte) int {
	return len(s.buckets[idx])
}

// WriteAll serializes every bucket to dir/NNN.bin (3-digit zero-padded
// index), each a sequence of u16-LE-length-prefixed ciphertexts, and
// returns the hex SHA-256 checksum of each file's bytes in index order.
func (s *Set) WriteAll(dir string) ([params.BucketCount]string, error) {
	var checksums [params.BucketCount]string
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return checksums, fmt.Errorf("bucket: mkdir %s: %w", dir, err)
	}

	for i := 0; i < params.BucketCount; i++ {
		buf, err := encodeBucket(s.buckets[i])
		if err != nil {
			return checksums, fmt.Errorf("bucket: encode %03d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%03d.bin", i))
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return checksums, fmt.Errorf("bucket: write %s: %w", path, err)
		}
		sum := sha256.Sum256(buf)
		checksums[i] = hex.EncodeToString(sum[:])
	}
	return checksums, nil
}

func encodeBucket(ciphertexts [][]byte) ([]byte, error) {
	var buf []byte
	var lenBuf [2]byte
	for _, ct := range ciphertexts {
		if len(ct) > 0xFFFF {
			return nil, fmt.Errorf("ciphertext length %d exceeds u16 range", len(ct))
		}
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(ct)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, ct...)
	}
	return buf, nil
}
