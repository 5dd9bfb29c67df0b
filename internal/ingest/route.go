package ingest

import (
	"fmt"

	"github.com/keytree/airdrop/internal/airdropkey"
	"github.com/keytree/airdrop/internal/bucket"
	"github.com/keytree/airdrop/internal/merktree"
)

// route implements the per-key nonce/bucket step: draw a nonce,
// snapshot the key's pre-nonce state, mutate the key to its post-nonce
// form, encrypt nonce||seed under it, append the ciphertext to the
// key's bucket, and return the two hashes the subtree commits to in
// original-then-post-nonce order.
func route(key airdropkey.AirdropKey, seed []byte, buckets *bucket.Set) (original, postNonce merktree.Hash, err error) {
	idx := key.Bucket()

	nonce, preNonce := key.Generate()
	original = preNonce.Hash()

	key.ApplyNonce(nonce)
	postNonce = key.Hash()

	ct, err := key.Encrypt(nonce, seed)
	if err != nil {
		return merktree.Hash{}, merktree.Hash{}, fmt.Errorf("ingest: encrypt: %w", err)
	}
	buckets.Append(idx, ct)
	return original, postNonce, nil
}
