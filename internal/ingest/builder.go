package ingest

import (
	"github.com/keytree/airdrop/internal/bucket"
	"github.com/keytree/airdrop/internal/faucet"
	"github.com/keytree/airdrop/internal/subtree"
)

// Counters tracks one source's outcomes for the final per-source
// totals the build reports.
type Counters struct {
	ValidUsers   int
	InvalidUsers int
	ValidKeys    int
	InvalidKeys  int
	Skipped      int // faucet dedup: whole user/entry excluded, not counted invalid
}

// Builder is the single owner of mutable build state: the accumulated
// subtrees, the nonce buckets, the faucet dedup set, and each source's
// counters. Ingestors are plain functions that take a Builder and
// mutate it; nothing here is safe for concurrent use, matching the
// single-threaded batch pipeline.
type Builder struct {
	Subtrees []*subtree.Subtree
	Buckets  *bucket.Set
	Faucet   *faucet.Dedup

	CodeHost   Counters
	StrongSet  Counters
	SocialNews Counters
}

// NewBuilder creates an empty Builder bound to the given faucet dedup
// set; a nil set is replaced by an empty one.
func NewBuilder(dedup *faucet.Dedup) *Builder {
	if dedup == nil {
		dedup = faucet.NewDedup(nil)
	}
	return &Builder{
		Buckets: bucket.NewSet(),
		Faucet:  dedup,
	}
}

// addSubtree appends st to the build's subtree sequence, unless no key
// ever contributed to it.
func (b *Builder) addSubtree(st *subtree.Subtree) {
	if !st.Empty() {
		b.Subtrees = append(b.Subtrees, st)
	}
}
