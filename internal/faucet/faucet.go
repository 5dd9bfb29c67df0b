// Package faucet loads the separate faucet-shares list and provides
// the dedup lookups the code-host ingestor uses to avoid double
// counting an identity that also claimed a faucet share.
package faucet

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// Entry is one faucet claim: an identity plus the share count it was
// granted.
type Entry struct {
	Email    string `json:"email"`
	Github   string `json:"github"`
	PGP      string `json:"pgp"`
	Freenode string `json:"freenode"`
	Address  string `json:"address"`
	Shares   int64  `json:"shares"`
}

// Load reads the faucet entries from a JSON array file at path.
func Load(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("faucet: read %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("faucet: parse %s: %w", path, err)
	}
	return entries, nil
}

// TotalShares sums every entry's share count.
func TotalShares(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Shares
	}
	return total
}

// Dedup answers identity-membership questions against the faucet
// list. Keys are blake3-hashed rather than stored as raw strings: the
// lookups run once per code-host user across a list that can run into
// the hundreds of thousands of entries, and a 32-byte digest key costs
// less to hash and compare than the variable-length identifiers
// themselves.
type Dedup struct {
	github map[[32]byte]struct{}
	email  map[[32]byte]struct{}
}

// NewDedup indexes entries for github-handle and email lookups.
func NewDedup(entries []Entry) *Dedup {
	d := &Dedup{
		github: make(map[[32]byte]struct{}, len(entries)),
		email:  make(map[[32]byte]struct{}, len(entries)),
	}
	for _, e := range entries {
		if e.Github != "" {
			d.github[digest(e.Github)] = struct{}{}
		}
		if e.Email != "" {
			d.email[digest(e.Email)] = struct{}{}
		}
	}
	return d
}

// HasGithub reports whether handle already claimed a faucet share.
func (d *Dedup) HasGithub(handle string) bool {
	_, ok := d.github[digest(handle)]
	return ok
}

// HasEmail reports whether email already claimed a faucet share.
func (d *Dedup) HasEmail(email string) bool {
	_, ok := d.email[digest(email)]
	return ok
}

func digest(identifier string) [32]byte {
	h := blake3.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(identifier))))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
