package psarc_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maikelwever/psarc"
	"github.com/maikelwever/psarc/internal/archivetest"
)

func TestReadFileStoredSingleBlock(t *testing.T) {
	b := archivetest.NewBuilder()
	want := []byte("the quick brown fox jumps over the lazy dog")
	b.AddFile("fox.txt", want)
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	a, err := psarc.New(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := a.ReadFile(1)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadFile mismatch: got %q want %q", got, want)
	}
}

func TestReadFileZlibMultiBlock(t *testing.T) {
	b := archivetest.NewBuilder()
	b.Codec = archivetest.CodecZLIB
	// b.MaxBlockSize stays at its default (65536, the smallest legal
	// block_width_tag per spec.md §3): a file larger than one block forces
	// the multi-block chain this test exercises, since max_block_size is
	// not an arbitrary splitting knob independent of the header field.

	want := []byte(strings.Repeat("payload-bytes-", 10000)) // > 65536 bytes, spans 3 blocks
	b.AddFile("song/audio.wem", want)
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	a, err := psarc.New(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := a.ReadFile(1)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("multi-block round trip mismatch: got %d bytes, want %d bytes", len(got), len(want))
	}
}

func TestReadFileEmptyEntry(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("empty.txt", nil)
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	a, err := psarc.New(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := a.ReadFile(1)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty file to decode to zero bytes, got %d", len(got))
	}
}

func TestReadOutOfRangeIndex(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("a.txt", []byte("x"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	a, err := psarc.New(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := a.ReadFile(99); err == nil {
		t.Fatal("expected error reading out-of-range entry index")
	}
}
