package psarc_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/maikelwever/psarc"
	"github.com/maikelwever/psarc/internal/archivetest"
)

func TestNewRejectsBadMagic(t *testing.T) {
	data := make([]byte, 64)
	_, err := psarc.New(&mockReaderAt{data: data})
	if !errors.Is(err, psarc.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestNewRejectsTruncatedHeader(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("a.txt", []byte("hello"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	mock := &mockReaderAt{data: full, errAt: 10, errMsg: io.ErrUnexpectedEOF}
	_, err = psarc.New(mock)
	if !errors.Is(err, psarc.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestNewRejectsUnknownCodecTag(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("a.txt", []byte("hello"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// codec tag occupies bytes [8:12)
	copy(full[8:12], []byte{0xff, 0xff, 0xff, 0xff})

	_, err = psarc.New(bytes.NewReader(full))
	if !errors.Is(err, psarc.ErrFormat) {
		t.Fatalf("expected ErrFormat for unknown codec, got %v", err)
	}
}

func TestNewDowngradesUnknownFlags(t *testing.T) {
	b := archivetest.NewBuilder()
	b.Flags = 77
	b.AddFile("a.txt", []byte("hello"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	a, err := psarc.New(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("unexpected error for unrecognized flags: %v", err)
	}
	h := a.Header()
	if h.Flags != psarc.ArchiveFlagUnknown {
		t.Errorf("expected Flags to downgrade to ArchiveFlagUnknown, got %s", h.Flags)
	}
	if h.RawFlags != 77 {
		t.Errorf("expected RawFlags to preserve original value 77, got %d", h.RawFlags)
	}
}

func TestEntryAndHeaderAccessors(t *testing.T) {
	b := archivetest.NewBuilder()
	b.AddFile("audio/lead.wem", []byte("payload-one"))
	b.AddFile("readme.txt", []byte("payload-two"))
	full, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	a, err := psarc.New(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := a.EntryCount(); got != 3 {
		t.Fatalf("expected 3 entries (manifest + 2 files), got %d", got)
	}

	manifest, err := a.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}
	if manifest.Name != "manifest.txt" {
		t.Errorf("expected synthetic manifest name, got %q", manifest.Name)
	}

	e1, err := a.Entry(1)
	if err != nil {
		t.Fatalf("Entry(1): %v", err)
	}
	if e1.Name != "audio/lead.wem" {
		t.Errorf("expected entry 1 named audio/lead.wem, got %q", e1.Name)
	}

	if _, err := a.Entry(99); !errors.Is(err, psarc.ErrNotFound) {
		t.Errorf("expected ErrNotFound for out-of-range entry, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := psarc.Open("/nonexistent/path/does-not-exist.psarc")
	if err == nil {
		t.Fatal("expected error opening nonexistent file")
	}
}
