// Package report computes the final reward arithmetic and renders the
// build's summary JSON.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/keytree/airdrop/internal/merktree"
	"github.com/keytree/airdrop/internal/params"
)

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Summary is the exact shape of etc/tree.json.
type Summary struct {
	Checksum  string     `json:"checksum"`
	Root      string     `json:"root"`
	Leaves    int        `json:"leaves"`
	Keys      int        `json:"keys"`
	Subleaves int        `json:"subleaves"`
	Depth     int        `json:"depth"`
	Subdepth  int        `json:"subdepth"`
	Faucet    int        `json:"faucet"`
	Shares    int64      `json:"shares"`
	Reward    int64      `json:"reward"`
	Checksums [params.BucketCount]string `json:"checksums"`
}

// Build computes reward arithmetic and assembles the summary,
// enforcing the reward bound invariant: (leaves+shares)*reward must
// not exceed MaxAirdrop.
func Build(treeFile []byte, root merktree.Hash, leaves, keys, faucetEntries int, faucetShares int64, checksums [params.BucketCount]string) (Summary, error) {
	sum := sha256Hex(treeFile)

	denom := int64(leaves) + faucetShares
	var reward int64
	if denom > 0 {
		reward = params.MaxAirdrop / denom
	}
	if denom*reward > params.MaxAirdrop {
		return Summary{}, fmt.Errorf("report: reward bound violated: (%d+%d)*%d > %d", leaves, faucetShares, reward, params.MaxAirdrop)
	}

	return Summary{
		Checksum:  sum,
		Root:      hex.EncodeToString(root[:]),
		Leaves:    leaves,
		Keys:      keys,
		Subleaves: params.SubtreeLeaves,
		Depth:     merktree.Depth(leaves),
		Subdepth:  merktree.Depth(params.SubtreeLeaves),
		Faucet:    faucetEntries,
		Shares:    faucetShares,
		Reward:    reward,
		Checksums: checksums,
	}, nil
}

// Write renders s as indented JSON to path.
func Write(path string, s Summary) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal summary: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
