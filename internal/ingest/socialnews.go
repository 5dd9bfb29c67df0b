package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/openpgp"

	"github.com/keytree/airdrop/internal/airdropkey"
	"github.com/keytree/airdrop/internal/randgen"
	"github.com/keytree/airdrop/internal/subtree"
)

// IngestSocialNews processes the hn-keys.json entries. Unlike the
// other two sources it applies no faucet dedup and validates against
// the full fingerprint rather than a key id. As in strong-set, every
// entry gets a fresh seed.
func IngestSocialNews(b *Builder, entries []HNEntry, src randgen.Source, log *logrus.Logger) error {
	for i, entry := range entries {
		if err := ingestSocialNewsEntry(b, entry, src, log); err != nil {
			return fmt.Errorf("ingest: social-news entry %d (%s): %w", i, entry.HNUser, err)
		}
		if (i+1)%1000 == 0 {
			log.WithFields(logrus.Fields{"source": "social-news", "processed": i + 1}).Info("ingest progress")
		}
	}

	log.WithFields(logrus.Fields{
		"source":        "social-news",
		"valid_users":   b.SocialNews.ValidUsers,
		"invalid_users": b.SocialNews.InvalidUsers,
		"valid_keys":    b.SocialNews.ValidKeys,
		"invalid_keys":  b.SocialNews.InvalidKeys,
	}).Info("social-news ingestion complete")
	return nil
}

func ingestSocialNewsEntry(b *Builder, entry HNEntry, src randgen.Source, log *logrus.Logger) error {
	if entry.Primary == nil {
		b.SocialNews.InvalidUsers++
		return nil
	}

	ring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(entry.Primary.ArmoredBundle))
	if err != nil {
		return fmt.Errorf("parse armored bundle: %w", err)
	}
	if len(ring) == 0 {
		b.SocialNews.InvalidUsers++
		return nil
	}
	pub := ring[0].PrimaryKey

	key, err := airdropkey.FromPGPEntityPrimary(pub)
	if err != nil {
		if errors.Is(err, airdropkey.ErrUnsupportedAlgorithm) {
			b.SocialNews.InvalidUsers++
			b.SocialNews.InvalidKeys++
			return nil
		}
		return err
	}

	computedFP := fmt.Sprintf("%X", pub.Fingerprint[:])
	if !strings.EqualFold(computedFP, entry.Primary.Fingerprint) {
		log.WithFields(logrus.Fields{
			"source":   "social-news",
			"user":     entry.HNUser,
			"declared": entry.Primary.Fingerprint,
			"computed": computedFP,
		}).Warn("fingerprint mismatch")
		b.SocialNews.InvalidUsers++
		b.SocialNews.InvalidKeys++
		return nil
	}
	if !key.Validate() {
		b.SocialNews.InvalidUsers++
		b.SocialNews.InvalidKeys++
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
	b.SocialNews.ValidKeys++
	b.SocialNews.ValidUsers++
	return nil
}
