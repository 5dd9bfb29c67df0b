package bucket

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/keytree/airdrop/internal/params"
)

func TestWriteAllEmptyBucketChecksum(t *testing.T) {
	dir := t.TempDir()
	s := NewSet()
	checksums, err := s.WriteAll(dir)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	for i, sum := range checksums {
		if sum != emptySHA256 {
			t.Fatalf("bucket %d checksum = %s, want empty-string SHA-256", i, sum)
		}
	}
	info, err := os.Stat(filepath.Join(dir, "000.bin"))
	if err != nil {
		t.Fatalf("stat 000.bin: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("empty bucket file should be zero-length, got %d", info.Size())
	}
}

func TestWriteAllRoundTripsLengthPrefix(t *testing.T) {
	dir := t.TempDir()
	s := NewSet()
	s.Append(5, []byte("hello"))
	s.Append(5, []byte("world!"))

	checksums, err := s.WriteAll(dir)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "005.bin"))
	if err != nil {
		t.Fatalf("read 005.bin: %v", err)
	}
	want := []byte{5, 0}
	want = append(want, "hello"...)
	want = append(want, 6, 0)
	want = append(want, "world!"...)
	if string(raw) != string(want) {
		t.Fatalf("005.bin bytes = %x, want %x", raw, want)
	}

	for i, sum := range checksums {
		if i == 5 {
			continue
		}
		if sum == checksums[5] {
			t.Fatalf("bucket %d checksum unexpectedly equals non-empty bucket 5's", i)
		}
	}
}

func TestCountTracksAppends(t *testing.T) {
	s := NewSet()
	if s.Count(9) != 0 {
		t.Fatal("new bucket should be empty")
	}
	s.Append(9, []byte{1})
	s.Append(9, []byte{2})
	if s.Count(9) != 2 {
		t.Fatalf("Count(9) = %d, want 2", s.Count(9))
	}
}

func TestEncodeBucketRejectsOversizedCiphertext(t *testing.T) {
	big := make([]byte, 0x10000)
	if _, err := encodeBucket([][]byte{big}); err == nil {
		t.Fatal("expected error for ciphertext exceeding u16 length")
	}
	_ = params.BucketCount
}
