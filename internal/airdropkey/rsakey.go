package airdropkey

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/keytree/airdrop/internal/params"
)

// rsaKey is the only concrete AirdropKey today: PGP and SSH primary
// keys that declare an RSA public exponent/modulus. Any other
// algorithm is rejected at construction time with
// ErrUnsupportedAlgorithm, per the typed-sentinel redesign this
// system replaces exception-message matching with.
type rsaKey struct {
	pub *rsa.PublicKey
	// applied holds the nonce bytes once ApplyNonce has run; nil
	// beforehand, so Hash() naturally differs pre/post application.
	applied []byte
}

func newRSAKey(pub *rsa.PublicKey) *rsaKey {
	return &rsaKey{pub: pub}
}

func (k *rsaKey) canonicalEncoding() []byte {
	enc := x509.MarshalPKCS1PublicKey(k.pub)
	if len(k.applied) == 0 {
		return enc
	}
	out := make([]byte, 0, len(enc)+len(k.applied))
	out = append(out, enc...)
	out = append(out, k.applied...)
	return out
}

func (k *rsaKey) Validate() bool {
	if k.pub == nil || k.pub.N == nil {
		return false
	}
	if k.pub.N.BitLen() < params.MinRSABits {
		return false
	}
	return k.pub.E > 1
}

func (k *rsaKey) Hash() [params.HashSize]byte {
	return blake2b.Sum256(k.canonicalEncoding())
}

func (k *rsaKey) Bucket() byte {
	h := k.Hash()
	return h[params.HashSize-1]
}

func (k *rsaKey) Generate() (*Nonce, AirdropKey) {
	b := make([]byte, params.NonceSize)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is not a condition this system
		// tries to recover from.
		panic(fmt.Sprintf("airdropkey: crypto/rand failed: %v", err))
	}
	// the clone is taken before any nonce is applied, so its Hash()
	// reflects the key's original (pre-nonce) canonical encoding.
	clone := &rsaKey{pub: k.pub}
	return &Nonce{Bytes: b}, clone
}

func (k *rsaKey) ApplyNonce(n *Nonce) {
	k.applied = append([]byte(nil), n.Bytes...)
}

func (k *rsaKey) Encrypt(n *Nonce, seed []byte) ([]byte, error) {
	if len(seed) != params.SeedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSeedSize, len(seed), params.SeedSize)
	}
	payload := make([]byte, 0, len(n.Bytes)+len(seed))
	payload = append(payload, n.Bytes...)
	payload = append(payload, seed...)
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, k.pub, payload)
	if err != nil {
		return nil, fmt.Errorf("airdropkey: pkcs1v15 encrypt: %w", err)
	}
	return ct, nil
}
