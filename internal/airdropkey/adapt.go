package airdropkey

import (
	"bytes"
	"crypto/rsa"
	"fmt"

	"golang.org/x/crypto/openpgp/packet"
	"golang.org/x/crypto/ssh"
)

// FromSSH parses a single "ssh-rsa AAAA... comment" line and adapts
// it to an AirdropKey. Non-RSA SSH key types (ed25519, ecdsa, dsa)
// are algorithms the airdrop protocol excludes and are reported as
// ErrUnsupportedAlgorithm, not a fatal parse error.
func FromSSH(line []byte) (AirdropKey, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey(line)
	if err != nil {
		return nil, fmt.Errorf("airdropkey: parse ssh key: %w", err)
	}
	cryptoPub, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	rsaPub, ok := cryptoPub.CryptoPublicKey().(*rsa.PublicKey)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	return newRSAKey(rsaPub), nil
}

// FromPGPPacket parses a single raw (non-armored) PGP packet and, if
// it's an RSA public key (primary or subkey), adapts it to an
// AirdropKey. It also returns the underlying packet so callers can
// apply subkey/key-id policy before deciding whether to use the key.
func FromPGPPacket(raw []byte) (AirdropKey, *packet.PublicKey, error) {
	pkt, err := packet.Read(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("airdropkey: parse pgp packet: %w", err)
	}
	pub, ok := pkt.(*packet.PublicKey)
	if !ok {
		return nil, nil, fmt.Errorf("airdropkey: expected public key packet, got %T", pkt)
	}
	key, err := fromPGPPublicKey(pub)
	return key, pub, err
}

// fromPGPPublicKey adapts an already-parsed OpenPGP public key. It is
// shared by the raw-packet path (strong-set) and the armored-keyring
// path (social-news).
func fromPGPPublicKey(pub *packet.PublicKey) (AirdropKey, error) {
	rsaPub, ok := pub.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	return newRSAKey(rsaPub), nil
}

// FromPGPEntityPrimary adapts the primary key of an already-decoded
// OpenPGP entity (used by the social-news ingestor, whose armored
// bundle is a full keyring rather than a bare packet stream).
func FromPGPEntityPrimary(pub *packet.PublicKey) (AirdropKey, error) {
	return fromPGPPublicKey(pub)
}
