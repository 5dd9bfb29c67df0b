package ingest

import (
	"errors"

	"github.com/keytree/airdrop/internal/airdropkey"
)

// Classifier outcomes specific to source ingestion, beyond the ones
// internal/airdropkey already defines (ErrUnsupportedAlgorithm,
// ErrValidationFailed). All are checked with errors.Is, never by
// string comparison.
var (
	ErrIdMismatch        = errors.New("ingest: declared key id/fingerprint does not match the computed one")
	ErrUnverifiedEmail   = errors.New("ingest: code-host pgp key has no verified email")
	ErrSubkeyRejected    = errors.New("ingest: only primary pgp keys are accepted")
	ErrSubtreeFull       = errors.New("ingest: subtree already holds the maximum number of keys")
	ErrDuplicateIdentity = errors.New("ingest: identity already present in the faucet claimants list")
)

// checkFaucetDuplicate turns a faucet dedup hit into the
// ErrDuplicateIdentity sentinel so the skip decision at each
// ingestor's dedup check is an explicit error value rather than a
// bare boolean, matching how every other classifier outcome flows.
// DuplicateIdentity is reported but never counted invalid: the whole
// user/entry is excluded, not classified as bad input.
func checkFaucetDuplicate(isDuplicate bool) error {
	if isDuplicate {
		return ErrDuplicateIdentity
	}
	return nil
}

// classifierOutcome reports whether err is one of the well-known
// non-fatal classifier outcomes, as opposed to an unexpected error
// that must abort the run.
func classifierOutcome(err error) bool {
	switch {
	case errors.Is(err, airdropkey.ErrUnsupportedAlgorithm),
		errors.Is(err, airdropkey.ErrValidationFailed),
		errors.Is(err, ErrIdMismatch),
		errors.Is(err, ErrUnverifiedEmail),
		errors.Is(err, ErrSubkeyRejected),
		errors.Is(err, ErrSubtreeFull):
		return true
	default:
		return false
	}
}
