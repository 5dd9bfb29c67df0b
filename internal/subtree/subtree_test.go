package subtree

import (
	"bytes"
	"testing"

	"github.com/keytree/airdrop/internal/merktree"
	"github.com/keytree/airdrop/internal/params"
)

func testSeed(b byte) []byte {
	seed := make([]byte, params.SeedSize)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestAddPairFillsToEight(t *testing.T) {
	s := New(testSeed(0x01))
	for i := 0; i < 4; i++ {
		var h1, h2 merktree.Hash
		h1[0] = byte(2 * i)
		h2[0] = byte(2*i + 1)
		if !s.AddPair(h1, h2) {
			t.Fatalf("AddPair %d: unexpected SubtreeFull", i)
		}
	}
	if s.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", s.Remaining())
	}
	var overflow merktree.Hash
	if s.AddPair(overflow, overflow) {
		t.Fatal("expected AddPair to report SubtreeFull once full")
	}
}

func TestEmptyReflectsContributions(t *testing.T) {
	s := New(testSeed(0x02))
	if !s.Empty() {
		t.Fatal("new subtree should be empty")
	}
	var h merktree.Hash
	s.AddPair(h, h)
	if s.Empty() {
		t.Fatal("subtree with a contributed pair should not be empty")
	}
}

func TestFinalizePadsAndSorts(t *testing.T) {
	s := New(testSeed(0x03))
	var h1, h2 merktree.Hash
	h1[0] = 0xFF
	h2[0] = 0xFE
	s.AddPair(h1, h2)

	leaves, root, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	for i := 1; i < len(leaves); i++ {
		if bytes.Compare(leaves[i-1][:], leaves[i][:]) > 0 {
			t.Fatalf("leaves not ascending at index %d", i)
		}
	}
	want := merktree.Root(leaves[:])
	if root != want {
		t.Fatal("returned root does not match Merkle root of returned leaves")
	}
}

func TestFinalizeDeterministicForSameSeed(t *testing.T) {
	seed := testSeed(0x04)
	s1 := New(seed)
	s2 := New(seed)

	leaves1, root1, err := s1.Finalize()
	if err != nil {
		t.Fatalf("Finalize s1: %v", err)
	}
	leaves2, root2, err := s2.Finalize()
	if err != nil {
		t.Fatalf("Finalize s2: %v", err)
	}
	if leaves1 != leaves2 || root1 != root2 {
		t.Fatal("two empty subtrees sharing a seed should pad identically")
	}
}

func TestFinalizeEmptyPadsAllEight(t *testing.T) {
	s := New(testSeed(0x05))
	leaves, _, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(leaves) != params.SubtreeLeaves {
		t.Fatalf("leaves len = %d, want %d", len(leaves), params.SubtreeLeaves)
	}
}
