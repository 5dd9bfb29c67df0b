package ingest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/keytree/airdrop/internal/airdropkey"
	"github.com/keytree/airdrop/internal/randgen"
	"github.com/keytree/airdrop/internal/subtree"
)

// codehostCandidate is one user's key, either SSH or PGP, ordered by
// its source-numeric id so the user's keys can be merged and sorted
// most-recent-first regardless of algorithm.
type codehostCandidate struct {
	id      int
	resolve func() (airdropkey.AirdropKey, error)
}

func hasVerifiedEmail(emails []PGPEmail) bool {
	for _, e := range emails {
		if e.Verified == 1 {
			return true
		}
	}
	return false
}

func pgpCandidateResolve(rec PGPKeyRecord) func() (airdropkey.AirdropKey, error) {
	return func() (airdropkey.AirdropKey, error) {
		if rec.ParentID != -1 {
			return nil, ErrSubkeyRejected
		}
		if !hasVerifiedEmail(rec.Emails) {
			return nil, ErrUnverifiedEmail
		}
		raw, err := base64.StdEncoding.DecodeString(rec.Base64Key)
		if err != nil {
			return nil, fmt.Errorf("ingest: decode pgp key base64: %w", err)
		}
		key, pub, err := airdropkey.FromPGPPacket(raw)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(pub.KeyIdString(), rec.KeyIDHex) {
			return nil, ErrIdMismatch
		}
		return key, nil
	}
}

// IngestCodeHost processes the parallel SSH and PGP arrays, one user
// at a time, sharing a single seed across each user's accepted keys.
func IngestCodeHost(b *Builder, sshUsers []SSHUser, pgpUsers []PGPUser, src randgen.Source, log *logrus.Logger) error {
	if len(sshUsers) != len(pgpUsers) {
		return fmt.Errorf("ingest: code-host array length mismatch: %d ssh users, %d pgp users", len(sshUsers), len(pgpUsers))
	}

	for i := range sshUsers {
		sshUser := sshUsers[i]
		pgpUser := pgpUsers[i]
		if sshUser.ID != pgpUser.ID || sshUser.Name != pgpUser.Name {
			return fmt.Errorf("ingest: code-host user %d: ssh/pgp record disagreement (ssh=%d/%q, pgp=%d/%q)",
				i, sshUser.ID, sshUser.Name, pgpUser.ID, pgpUser.Name)
		}

		handle := strings.ToLower(sshUser.Name)
		if err := checkFaucetDuplicate(b.Faucet.HasGithub(handle)); err != nil {
			b.CodeHost.Skipped++
			continue
		}

		seed, err := randgen.NewSeed(src)
		if err != nil {
			return fmt.Errorf("ingest: code-host user %d: %w", sshUser.ID, err)
		}

		if err := ingestCodeHostUser(b, sshUser, pgpUser, seed); err != nil {
			return err
		}

		if (i+1)%1000 == 0 {
			log.WithFields(logrus.Fields{"source": "code-host", "processed": i + 1}).Info("ingest progress")
		}
	}

	log.WithFields(logrus.Fields{
		"source":        "code-host",
		"valid_users":   b.CodeHost.ValidUsers,
		"invalid_users": b.CodeHost.InvalidUsers,
		"valid_keys":    b.CodeHost.ValidKeys,
		"invalid_keys":  b.CodeHost.InvalidKeys,
		"skipped":       b.CodeHost.Skipped,
	}).Info("code-host ingestion complete")
	return nil
}

func ingestCodeHostUser(b *Builder, sshUser SSHUser, pgpUser PGPUser, seed []byte) error {
	candidates := make([]codehostCandidate, 0, len(sshUser.Keys)+len(pgpUser.Keys))
	for _, k := range sshUser.Keys {
		k := k
		candidates = append(candidates, codehostCandidate{
			id:      k.KeyID,
			resolve: func() (airdropkey.AirdropKey, error) { return airdropkey.FromSSH([]byte(k.OpenSSH)) },
		})
	}
	for _, k := range pgpUser.Keys {
		k := k
		candidates = append(candidates, codehostCandidate{id: k.ID, resolve: pgpCandidateResolve(k)})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].id > candidates[j].id })

	st := subtree.New(seed)
	contributed := 0
	for _, c := range candidates {
		var key airdropkey.AirdropKey
		var err error
		if st.Remaining() < 2 {
			err = ErrSubtreeFull
		} else {
			key, err = c.resolve()
		}
		if err != nil {
			if classifierOutcome(err) {
				b.CodeHost.InvalidKeys++
				continue
			}
			return fmt.Errorf("ingest: code-host user %d key %d: %w", sshUser.ID, c.id, err)
		}
		if !key.Validate() {
			b.CodeHost.InvalidKeys++
			continue
		}
		h1, h2, err := route(key, seed, b.Buckets)
		if err != nil {
			return fmt.Errorf("ingest: code-host user %d key %d: %w", sshUser.ID, c.id, err)
		}
		if !st.AddPair(h1, h2) {
			return errors.New("ingest: subtree capacity check and AddPair disagree")
		}
		contributed++
		b.CodeHost.ValidKeys++
	}

	if contributed == 0 {
		b.CodeHost.InvalidUsers++
		return nil
	}
	b.CodeHost.ValidUsers++
	b.addSubtree(st)
	return nil
}
