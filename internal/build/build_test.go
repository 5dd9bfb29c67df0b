package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func writeEmptyInputs(t *testing.T, prefix string) {
	t.Helper()
	files := map[string]string{
		"faucet.json":      "[]",
		"github-ssh.json":  "[]",
		"github-pgp.json":  "[]",
		"strongset.asc":    "",
		"hn-keys.json":     "[]",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(prefix, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestRunEmptyInputsProducesZeroLeaves(t *testing.T) {
	prefix := t.TempDir()
	writeEmptyInputs(t, prefix)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	if err := Run(prefix, log); err != nil {
		t.Fatalf("Run: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(prefix, "etc", "tree.json"))
	if err != nil {
		t.Fatalf("read tree.json: %v", err)
	}
	var summary struct {
		Leaves int      `json:"leaves"`
		Keys   int      `json:"keys"`
		Checksums [256]string `json:"checksums"`
	}
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatalf("unmarshal tree.json: %v", err)
	}
	if summary.Leaves != 0 || summary.Keys != 0 {
		t.Fatalf("leaves/keys = %d/%d, want 0/0", summary.Leaves, summary.Keys)
	}
	const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	for i, sum := range summary.Checksums {
		if sum != emptySHA256 {
			t.Fatalf("bucket %d checksum = %s, want empty-string SHA-256", i, sum)
		}
	}

	treeBin, err := os.ReadFile(filepath.Join(prefix, "build", "tree.bin"))
	if err != nil {
		t.Fatalf("read tree.bin: %v", err)
	}
	if len(treeBin) != 4 {
		t.Fatalf("tree.bin length = %d, want 4 (u32 leaf count only)", len(treeBin))
	}
}
