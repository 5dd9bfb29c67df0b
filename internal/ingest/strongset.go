package ingest

import (
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/keytree/airdrop/internal/airdropkey"
	"github.com/keytree/airdrop/internal/randgen"
	"github.com/keytree/airdrop/internal/subtree"
)

// IngestStrongSet walks the PEM-armored block stream, validating each
// block's declared Key-ID against the key it actually decodes to, and
// forms one fresh single-key subtree per accepted key.
func IngestStrongSet(b *Builder, armored []byte, src randgen.Source, log *logrus.Logger) error {
	rest := armored
	count := 0

	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		count++

		if err := ingestStrongSetBlock(b, block, src, log); err != nil {
			return fmt.Errorf("ingest: strong-set block %d: %w", count, err)
		}

		if count%1000 == 0 {
			log.WithFields(logrus.Fields{"source": "strong-set", "processed": count}).Info("ingest progress")
		}
	}

	log.WithFields(logrus.Fields{
		"source":        "strong-set",
		"valid_users":   b.StrongSet.ValidUsers,
		"invalid_users": b.StrongSet.InvalidUsers,
		"valid_keys":    b.StrongSet.ValidKeys,
		"invalid_keys":  b.StrongSet.InvalidKeys,
		"skipped":       b.StrongSet.Skipped,
	}).Info("strong-set ingestion complete")
	return nil
}

func ingestStrongSetBlock(b *Builder, block *pem.Block, src randgen.Source, log *logrus.Logger) error {
	declaredID := block.Headers["Key-ID"]
	if declaredID == "" {
		return errors.New("missing required Key-ID header")
	}
	if email := block.Headers["Email"]; email != "" {
		if err := checkFaucetDuplicate(b.Faucet.HasEmail(email)); err != nil {
			b.StrongSet.Skipped++
			return nil
		}
	}

	key, pub, err := airdropkey.FromPGPPacket(block.Bytes)
	if err != nil {
		if errors.Is(err, airdropkey.ErrUnsupportedAlgorithm) {
			b.StrongSet.InvalidKeys++
			b.StrongSet.InvalidUsers++
			return nil
		}
		return err
	}
	if pub.IsSubkey {
		return fmt.Errorf("unexpected packet type: public-subkey, want primary public key")
	}

	if computed := pub.KeyIdShortString(); !strings.EqualFold(computed, declaredID) {
		log.WithFields(logrus.Fields{
			"source":   "strong-set",
			"declared": declaredID,
			"computed": computed,
		}).Warn("key-id mismatch")
		b.StrongSet.InvalidKeys++
		b.StrongSet.InvalidUsers++
		return nil
	}
	if !key.Validate() {
		b.StrongSet.InvalidKeys++
		b.StrongSet.InvalidUsers++
		return nil
	}

	seed, err := randgen.NewSeed(src)
	if err != nil {
		return err
	}
	st := subtree.New(seed)
	h1, h2, err := route(key, seed, b.Buckets)
	if err != nil {
		return err
	}
	if !st.AddPair(h1, h2) {
		return errors.New("fresh single-key subtree unexpectedly full")
	}
	b.addSubtree(st)
	b.StrongSet.ValidKeys++
	b.StrongSet.ValidUsers++
	return nil
}
