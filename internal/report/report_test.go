package report

import (
	"strings"
	"testing"

	"github.com/keytree/airdrop/internal/merktree"
	"github.com/keytree/airdrop/internal/params"
)

func TestBuildRewardArithmetic(t *testing.T) {
	var root merktree.Hash
	root[0] = 0xAB
	var checksums [params.BucketCount]string

	s, err := Build([]byte("tree-bytes"), root, 10, 10, 2, 5, checksums)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var wantReward int64 = params.MaxAirdrop / 15
	if s.Reward != wantReward {
		t.Fatalf("Reward = %d, want %d", s.Reward, wantReward)
	}
	if (int64(s.Leaves)+s.Shares)*s.Reward > params.MaxAirdrop {
		t.Fatal("reward bound invariant violated")
	}
	if s.Subleaves != params.SubtreeLeaves || s.Subdepth != 3 {
		t.Fatalf("subleaves/subdepth = %d/%d, want %d/3", s.Subleaves, s.Subdepth, params.SubtreeLeaves)
	}
	if !strings.HasPrefix(s.Root, "ab") {
		t.Fatalf("Root hex = %s, want prefix ab", s.Root)
	}
}

func TestBuildEmptyInputsZeroReward(t *testing.T) {
	var root merktree.Hash
	var checksums [params.BucketCount]string
	s, err := Build([]byte{}, root, 0, 0, 0, 0, checksums)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Reward != 0 {
		t.Fatalf("Reward = %d, want 0 for empty input", s.Reward)
	}
	if s.Depth != 0 {
		t.Fatalf("Depth = %d, want 0", s.Depth)
	}
}
