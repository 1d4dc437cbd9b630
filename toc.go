package psarc

import "fmt"

// Entry is a single TOC record (spec.md §3). Name is empty until the
// manifest has been parsed and assigned by manifest.go.
type Entry struct {
	NameDigest [16]byte
	BlockIndex uint32
	Length     uint64
	Offset     uint64
	Name       string
}

// parseEntries reads h.TOCEntryCount fixed 30-byte TOC records in sequence.
// Grounded on inode.go's per-type field sequences: read each field, bail on
// the first error.
func parseEntries(r *binReader, h *Header) ([]Entry, error) {
	entries := make([]Entry, h.TOCEntryCount)
	for i := range entries {
		digest, err := r.bytes(16)
		if err != nil {
			return nil, fmt.Errorf("entry %d: digest: %w", i, err)
		}
		copy(entries[i].NameDigest[:], digest)

		blockIndex, err := r.u32()
		if err != nil {
			return nil, fmt.Errorf("entry %d: block index: %w", i, err)
		}
		entries[i].BlockIndex = blockIndex

		length, err := r.u40()
		if err != nil {
			return nil, fmt.Errorf("entry %d: length: %w", i, err)
		}
		entries[i].Length = length

		offset, err := r.u40()
		if err != nil {
			return nil, fmt.Errorf("entry %d: offset: %w", i, err)
		}
		entries[i].Offset = offset
	}
	return entries, nil
}

// parseBlockSizes reads the block-size table that follows the TOC entries,
// one blockBytes-wide big-endian integer per compressed block in the
// archive. The table's length is derived from toc_length rather than stored
// explicitly (spec.md §3 invariant).
func parseBlockSizes(r *binReader, h *Header) ([]uint64, error) {
	blockBytes := h.BlockWidth.blockBytes()
	if blockBytes == 0 {
		return nil, fmt.Errorf("%w: unusable block width %s", ErrFormat, h.BlockWidth)
	}

	remaining := int64(h.TOCLength) - r.pos()
	if remaining < 0 || remaining%int64(blockBytes) != 0 {
		return nil, fmt.Errorf("%w: toc_length %d inconsistent with header size %d and block width %d",
			ErrFormat, h.TOCLength, r.pos(), blockBytes)
	}
	numBlocks := remaining / int64(blockBytes)

	sizes := make([]uint64, numBlocks)
	for i := range sizes {
		v, err := r.uintn(blockBytes)
		if err != nil {
			return nil, fmt.Errorf("block size %d: %w", i, err)
		}
		sizes[i] = v
	}
	return sizes, nil
}
