// Package psarc implements a read-only archive engine for PSARC, a
// container format used to distribute bundled game assets. It parses the
// header and table of contents, reconstructs the logical path tree from the
// embedded manifest, and provides random-access, block-addressed
// decompression so arbitrary byte ranges of any archived file can be read
// without decompressing the whole archive.
//
// Archive writing is out of scope; archives are strictly read-only.
package psarc

import (
	"fmt"
	"io"
)

// Option configures an Archive at open time, mirroring the teacher's
// options.go Option type.
type Option func(a *Archive) error

// WithInodeOffset shifts every inode number reported by the filesystem
// facade by n, so several archives can be mounted under inode numbers that
// don't collide in a single FUSE tree. Grounded on options.go's
// InodeOffset.
func WithInodeOffset(n uint64) Option {
	return func(a *Archive) error {
		a.inoOffset = n
		return nil
	}
}

// WithCacheSize overrides the read cache's per-file prefix slot size
// (spec.md §4.5 defaults to 16 KiB).
func WithCacheSize(n int) Option {
	return func(a *Archive) error {
		if n <= 0 {
			return fmt.Errorf("psarc: cache size must be positive")
		}
		a.cache.slotSize = n
		return nil
	}
}

// Archive is a parsed, immutable PSARC archive: header, TOC, block-size
// table, manifest-derived names, and the reconstructed inode tree. All
// fields except Entry.Name (set during manifest parse) and the cache
// (populated lazily on read) are fixed at Open time (spec.md §3 Lifecycle).
type Archive struct {
	src    readerAt
	closer io.Closer // non-nil when Open(path string) opened the file itself

	header     *Header
	entries    []Entry
	blockSizes []uint64

	tree  *tree
	cache *readCache

	inoOffset uint64
}

// New parses an archive from an already-open byte source. The caller retains
// ownership of src; Close is then a no-op on this Archive.
func New(src readerAt, opts ...Option) (*Archive, error) {
	a := &Archive{src: src, cache: newReadCache()}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	h, r, err := parseHeader(src)
	if err != nil {
		return nil, err
	}
	a.header = h

	entries, err := parseEntries(r, h)
	if err != nil {
		return nil, fmt.Errorf("parsing entries: %w", err)
	}
	a.entries = entries

	blockSizes, err := parseBlockSizes(r, h)
	if err != nil {
		return nil, err
	}
	a.blockSizes = blockSizes

	if err := parseManifest(a); err != nil {
		return nil, err
	}
	a.tree = buildTree(a.entries)

	return a, nil
}

// Header returns the archive's parsed header.
func (a *Archive) Header() *Header {
	return a.header
}

// EntryCount returns the number of TOC entries, including the manifest at
// index 0.
func (a *Archive) EntryCount() int {
	return len(a.entries)
}

// Entry returns a copy of the TOC entry at idx.
func (a *Archive) Entry(idx int) (Entry, error) {
	if idx < 0 || idx >= len(a.entries) {
		return Entry{}, fmt.Errorf("%w: entry index %d out of range", ErrNotFound, idx)
	}
	return a.entries[idx], nil
}

// Close releases the underlying byte source if Open opened it; it is a
// no-op when the Archive was built from an externally owned source via New.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
