package psarc_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/maikelwever/psarc"
	"github.com/maikelwever/psarc/internal/archivetest"
)

func TestHeaderFieldsRoundTrip(t *testing.T) {
	b := archivetest.NewBuilder()
	b.Codec = archivetest.CodecZLIB
	b.AddFile("a.txt", []byte("hello"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	a, err := psarc.New(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := a.Header()

	if h.VersionMajor != 1 || h.VersionMinor != 4 {
		t.Errorf("unexpected version %d.%d", h.VersionMajor, h.VersionMinor)
	}
	if h.Codec != psarc.CodecZLIB {
		t.Errorf("expected CodecZLIB, got %s", h.Codec)
	}
	if h.TOCEntrySize != 30 {
		t.Errorf("expected TOC entry size 30, got %d", h.TOCEntrySize)
	}
	if h.TOCEntryCount != 2 {
		t.Errorf("expected 2 TOC entries (manifest + 1 file), got %d", h.TOCEntryCount)
	}
	if h.BlockWidth != psarc.BlockWidthU16 {
		t.Errorf("expected BlockWidthU16, got %s", h.BlockWidth)
	}
	if h.Flags != psarc.ArchiveFlagRelative {
		t.Errorf("expected ArchiveFlagRelative default, got %s", h.Flags)
	}
}

func TestRejectsBadTOCEntrySize(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("a.txt", []byte("x"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// toc_entry_size occupies bytes [16:20).
	full[19] = 31

	_, err = psarc.New(bytes.NewReader(full))
	if !errors.Is(err, psarc.ErrFormat) {
		t.Fatalf("expected ErrFormat for bad TOC entry size, got %v", err)
	}
}

func TestRejectsZeroEntryCount(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("a.txt", []byte("x"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// toc_entry_count occupies bytes [20:24).
	full[20], full[21], full[22], full[23] = 0, 0, 0, 0

	_, err = psarc.New(bytes.NewReader(full))
	if !errors.Is(err, psarc.ErrFormat) {
		t.Fatalf("expected ErrFormat for zero TOC entry count, got %v", err)
	}
}

func TestRejectsUnknownBlockWidth(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("a.txt", []byte("x"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// block_width_tag occupies bytes [24:28).
	full[24], full[25], full[26], full[27] = 0, 0, 0, 5

	_, err = psarc.New(bytes.NewReader(full))
	if !errors.Is(err, psarc.ErrFormat) {
		t.Fatalf("expected ErrFormat for unknown block width, got %v", err)
	}
}

func TestCodecAndFlagStringers(t *testing.T) {
	if got := psarc.CodecNone.String(); got != "none" {
		t.Errorf("CodecNone.String() = %q, want %q", got, "none")
	}
	if got := psarc.CodecZLIB.String(); got != "zlib" {
		t.Errorf("CodecZLIB.String() = %q, want %q", got, "zlib")
	}
	if got := psarc.CodecLZMA.String(); got != "lzma" {
		t.Errorf("CodecLZMA.String() = %q, want %q", got, "lzma")
	}
	if got := psarc.ArchiveFlagAbsolute.String(); got != "AbsolutePaths" {
		t.Errorf("ArchiveFlagAbsolute.String() = %q, want %q", got, "AbsolutePaths")
	}
	if got := psarc.ArchiveFlagUnknown.String(); got != "Unknown" {
		t.Errorf("ArchiveFlagUnknown.String() = %q, want %q", got, "Unknown")
	}
}
