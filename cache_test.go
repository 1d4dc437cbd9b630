package psarc_test

import (
	"bytes"
	"testing"

	"github.com/maikelwever/psarc"
	"github.com/maikelwever/psarc/internal/archivetest"
)

// TestReadCachePopulatesAndServesPrefix exercises the cache fast path
// introduced in fs.go: a cold read of a file at least as large as the
// cache's slot size populates the cache, and a subsequent prefix read is
// served from it with identical bytes.
func TestReadCachePopulatesAndServesPrefix(t *testing.T) {
	b := archivetest.NewBuilder()
	want := []byte("abcdefghij")
	b.AddFile("a.txt", want)
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	a, err := psarc.New(bytes.NewReader(full), psarc.WithCacheSize(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	attr, err := a.Lookup(psarc.RootInode, "a.txt")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	first, err := a.Read(attr.Ino, 0, 4)
	if err != nil {
		t.Fatalf("first Read: %v", err)
	}
	if string(first) != "abcd" {
		t.Fatalf("expected %q, got %q", "abcd", first)
	}

	// Second read of the same prefix should agree byte-for-byte, whether or
	// not it happens to hit the cache.
	second, err := a.Read(attr.Ino, 0, 4)
	if err != nil {
		t.Fatalf("second Read: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("cached read diverged: %q vs %q", first, second)
	}

	// A request wider than the cached slot still returns the full correct
	// range, falling back past the cached prefix.
	full4to10, err := a.Read(attr.Ino, 0, 10)
	if err != nil {
		t.Fatalf("wide Read: %v", err)
	}
	if string(full4to10) != "abcdefghij" {
		t.Fatalf("expected full file, got %q", full4to10)
	}
}

func TestWithCacheSizeRejectsNonPositive(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("a.txt", []byte("x"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := psarc.New(bytes.NewReader(full), psarc.WithCacheSize(0)); err == nil {
		t.Fatal("expected error from WithCacheSize(0)")
	}
	if _, err := psarc.New(bytes.NewReader(full), psarc.WithCacheSize(-1)); err == nil {
		t.Fatal("expected error from WithCacheSize(-1)")
	}
}
