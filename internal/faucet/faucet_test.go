package faucet

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFaucetFile(t *testing.T, entries string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "faucet.json")
	if err := os.WriteFile(path, []byte(entries), 0o644); err != nil {
		t.Fatalf("write faucet file: %v", err)
	}
	return path
}

func TestLoadAndTotalShares(t *testing.T) {
	path := writeFaucetFile(t, `[
		{"email":"a@example.com","github":"alice","shares":10},
		{"email":"b@example.com","github":"bob","shares":5}
	]`)
	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if got := TotalShares(entries); got != 15 {
		t.Fatalf("TotalShares = %d, want 15", got)
	}
}

func TestDedupLookupsCaseInsensitive(t *testing.T) {
	entries := []Entry{
		{Email: "Alice@Example.com", Github: "Alice"},
	}
	d := NewDedup(entries)
	if !d.HasEmail("alice@example.com") {
		t.Fatal("expected case-insensitive email match")
	}
	if !d.HasGithub("alice") {
		t.Fatal("expected case-insensitive github match")
	}
	if d.HasGithub("carol") {
		t.Fatal("unexpected match for unregistered handle")
	}
}
