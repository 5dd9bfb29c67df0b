// Package build orchestrates one end-to-end run: load inputs, run the
// three ingestors in order, finalize every subtree, and write
// tree.bin, the nonce buckets, and the summary JSON.
package build

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/keytree/airdrop/internal/faucet"
	"github.com/keytree/airdrop/internal/ingest"
	"github.com/keytree/airdrop/internal/merktree"
	"github.com/keytree/airdrop/internal/params"
	"github.com/keytree/airdrop/internal/randgen"
	"github.com/keytree/airdrop/internal/report"
)

// Run executes the full pipeline against the four input files under
// prefix, writing build/ and etc/ alongside it.
func Run(prefix string, log *logrus.Logger) error {
	buildDir := filepath.Join(prefix, "build")
	noncesDir := filepath.Join(buildDir, "nonces")
	etcDir := filepath.Join(prefix, "etc")

	if err := resetOutputDirs(buildDir, etcDir); err != nil {
		return err
	}
	if err := os.MkdirAll(noncesDir, 0o755); err != nil {
		return fmt.Errorf("build: mkdir %s: %w", noncesDir, err)
	}

	faucetEntries, err := faucet.Load(filepath.Join(prefix, "faucet.json"))
	if err != nil {
		return err
	}
	dedup := faucet.NewDedup(faucetEntries)
	log.WithField("entries", len(faucetEntries)).Info("loaded faucet claimants")

	sshUsers, err := ingest.LoadSSHUsers(filepath.Join(prefix, "github-ssh.json"))
	if err != nil {
		return err
	}
	pgpUsers, err := ingest.LoadPGPUsers(filepath.Join(prefix, "github-pgp.json"))
	if err != nil {
		return err
	}
	strongSetRaw, err := ingest.LoadStrongSet(filepath.Join(prefix, "strongset.asc"))
	if err != nil {
		return err
	}
	hnEntries, err := ingest.LoadHNEntries(filepath.Join(prefix, "hn-keys.json"))
	if err != nil {
		return err
	}

	b := ingest.NewBuilder(dedup)
	src := randgen.CSPRNG{}

	if err := ingest.IngestCodeHost(b, sshUsers, pgpUsers, src, log); err != nil {
		return err
	}
	if err := ingest.IngestStrongSet(b, strongSetRaw, src, log); err != nil {
		return err
	}
	if err := ingest.IngestSocialNews(b, hnEntries, src, log); err != nil {
		return err
	}

	subtreeLeaves, subRoots, err := finalizeSubtrees(b)
	if err != nil {
		return err
	}
	sortBySubroot(subtreeLeaves, subRoots)

	var buf bytes.Buffer
	if err := merktree.WriteTree(&buf, subtreeLeaves); err != nil {
		return err
	}
	treeFile := buf.Bytes()
	if err := os.WriteFile(filepath.Join(buildDir, "tree.bin"), treeFile, 0o644); err != nil {
		return fmt.Errorf("build: write tree.bin: %w", err)
	}

	checksums, err := b.Buckets.WriteAll(noncesDir)
	if err != nil {
		return err
	}

	root := merktree.Root(subRoots)
	totalKeys := b.CodeHost.ValidKeys + b.StrongSet.ValidKeys + b.SocialNews.ValidKeys
	summary, err := report.Build(treeFile, root, len(subtreeLeaves), totalKeys, len(faucetEntries), faucet.TotalShares(faucetEntries), checksums)
	if err != nil {
		return err
	}
	if err := report.Write(filepath.Join(etcDir, "tree.json"), summary); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"leaves": summary.Leaves,
		"keys":   summary.Keys,
		"root":   summary.Root,
		"reward": summary.Reward,
	}).Info("build complete")
	return nil
}

func resetOutputDirs(buildDir, etcDir string) error {
	for _, dir := range []string{buildDir, etcDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("build: remove %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(etcDir, 0o755); err != nil {
		return fmt.Errorf("build: mkdir %s: %w", etcDir, err)
	}
	return nil
}

func finalizeSubtrees(b *ingest.Builder) ([][params.SubtreeLeaves]merktree.Hash, []merktree.Hash, error) {
	leaves := make([][params.SubtreeLeaves]merktree.Hash, len(b.Subtrees))
	roots := make([]merktree.Hash, len(b.Subtrees))
	for i, st := range b.Subtrees {
		l, root, err := st.Finalize()
		if err != nil {
			return nil, nil, fmt.Errorf("build: finalize subtree %d: %w", i, err)
		}
		leaves[i] = l
		roots[i] = root
	}
	return leaves, roots, nil
}

func sortBySubroot(leaves [][params.SubtreeLeaves]merktree.Hash, roots []merktree.Hash) {
	idx := make([]int, len(roots))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return bytes.Compare(roots[idx[i]][:], roots[idx[j]][:]) < 0
	})

	sortedLeaves := make([][params.SubtreeLeaves]merktree.Hash, len(leaves))
	sortedRoots := make([]merktree.Hash, len(roots))
	for newPos, oldPos := range idx {
		sortedLeaves[newPos] = leaves[oldPos]
		sortedRoots[newPos] = roots[oldPos]
	}
	copy(leaves, sortedLeaves)
	copy(roots, sortedRoots)
}
