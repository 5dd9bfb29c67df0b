package airdropkey

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/keytree/airdrop/internal/params"
)

func genTestKey(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		t.Fatalf("rsa.GenerateKey: %v", err)
	}
	return priv
}

func TestValidateRejectsSmallModulus(t *testing.T) {
	priv := genTestKey(t, 512)
	k := newRSAKey(&priv.PublicKey)
	if k.Validate() {
		t.Fatal("expected 512-bit RSA key to fail validation")
	}
}

func TestValidateAcceptsRSA1024(t *testing.T) {
	priv := genTestKey(t, 1024)
	k := newRSAKey(&priv.PublicKey)
	if !k.Validate() {
		t.Fatal("expected 1024-bit RSA key to validate")
	}
}

func TestHashChangesAfterApplyNonce(t *testing.T) {
	priv := genTestKey(t, 1024)
	k := newRSAKey(&priv.PublicKey)

	before := k.Hash()
	nonce, clone := k.Generate()
	k.ApplyNonce(nonce)
	after := k.Hash()

	if before != clone.Hash() {
		t.Fatal("clone from Generate should match the pre-nonce hash")
	}
	if before == after {
		t.Fatal("ApplyNonce should change the key's hash")
	}
}

func TestBucketInRange(t *testing.T) {
	priv := genTestKey(t, 1024)
	k := newRSAKey(&priv.PublicKey)
	b := k.Bucket()
	if int(b) < 0 || int(b) > params.BucketCount-1 {
		t.Fatalf("bucket %d out of range", b)
	}
}

func TestEncryptRoundTrip(t *testing.T) {
	priv := genTestKey(t, 1024)
	k := newRSAKey(&priv.PublicKey)

	nonce, _ := k.Generate()
	k.ApplyNonce(nonce)

	seed := bytes.Repeat([]byte{0x42}, params.SeedSize)
	ct, err := k.Encrypt(nonce, seed)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	pt, err := rsa.DecryptPKCS1v15(rand.Reader, priv, ct)
	if err != nil {
		t.Fatalf("DecryptPKCS1v15: %v", err)
	}
	want := append(append([]byte{}, nonce.Bytes...), seed...)
	if !bytes.Equal(pt, want) {
		t.Fatal("decrypted payload does not match nonce||seed")
	}
}

func TestEncryptRejectsWrongSeedSize(t *testing.T) {
	priv := genTestKey(t, 1024)
	k := newRSAKey(&priv.PublicKey)
	nonce, _ := k.Generate()
	k.ApplyNonce(nonce)

	_, err := k.Encrypt(nonce, []byte{1, 2, 3})
	if !errors.Is(err, ErrSeedSize) {
		t.Fatalf("expected ErrSeedSize, got %v", err)
	}
}

func TestFromSSHRejectsEd25519(t *testing.T) {
	// the airdrop protocol only admits RSA; ed25519 is a type it
	// excludes, not a fatal parse error.
	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(edPub)
	if err != nil {
		t.Fatalf("ssh.NewPublicKey: %v", err)
	}
	line := ssh.MarshalAuthorizedKey(sshPub)

	_, err = FromSSH(line)
	if !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}
