// Package params holds the bit-exact constants the airdrop commitment
// protocol is defined over. They are pulled into one place so the
// adapter, subtree, merkle, bucket, and report packages agree on them
// without importing each other.
package params

const (
	// SubtreeLeaves is the fixed width of every per-user subtree.
	SubtreeLeaves = 8

	// SeedSize is the length in bytes of the per-user/per-entry seed.
	// It is chosen so that a 32-byte nonce plus a SeedSize seed still
	// fits under PKCS1-v1.5 encryption with an RSA-1024 key.
	SeedSize = 30

	// NonceSize is the length in bytes of a generated nonce.
	NonceSize = 32

	// HashSize is the width of every leaf, root, and checksum digest.
	HashSize = 32

	// BucketCount is the number of nonce-ciphertext buckets.
	BucketCount = 256

	// MaxAirdrop is the total token amount (in base units) distributed
	// across all leaves and faucet shares.
	MaxAirdrop = 924_800_000 * 1_000_000

	// MinRSABits is the smallest RSA modulus the adapter accepts.
	MinRSABits = 1024
)
