package psarc

import "fmt"

// Codec identifies the compression algorithm declared by the archive header.
// Dispatch within a single archive is still per-block (see internal/codec):
// an archive declaring ZLIB or LZMA may still carry individual blocks stored
// verbatim.
type Codec uint32

const (
	CodecNone Codec = 0
	CodecZLIB Codec = 0x7A6C6962 // "zlib"
	CodecLZMA Codec = 0x6C7A6D61 // "lzma"
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZLIB:
		return "zlib"
	case CodecLZMA:
		return "lzma"
	default:
		return fmt.Sprintf("Codec(0x%08x)", uint32(c))
	}
}

// BlockWidth identifies the on-disk width of block-size table entries and,
// with it, the uncompressed size of a full block.
type BlockWidth uint32

const (
	BlockWidthU16 BlockWidth = 65536
	BlockWidthU24 BlockWidth = 16777216
	BlockWidthU32 BlockWidth = 4294967295
)

// blockBytes returns the byte width of a single block-size table entry.
func (w BlockWidth) blockBytes() int {
	switch w {
	case BlockWidthU16:
		return 2
	case BlockWidthU24:
		return 3
	case BlockWidthU32:
		return 4
	default:
		return 0
	}
}

// maxBlockSize returns the uncompressed size of a full (non-final) block.
func (w BlockWidth) maxBlockSize() uint64 {
	return uint64(w)
}

func (w BlockWidth) String() string {
	switch w {
	case BlockWidthU16:
		return "U16"
	case BlockWidthU24:
		return "U24"
	case BlockWidthU32:
		return "U32"
	default:
		return fmt.Sprintf("BlockWidth(%d)", uint32(w))
	}
}

// ArchiveFlag classifies the header's path-naming convention. Archives in the
// wild carry values outside the three well-known points; those are downgraded
// to ArchiveFlagUnknown with a diagnostic warning rather than treated as a
// parse error (spec.md §7).
type ArchiveFlag uint32

const (
	ArchiveFlagRelative ArchiveFlag = 0
	ArchiveFlagIgnoreCase ArchiveFlag = 1
	ArchiveFlagAbsolute ArchiveFlag = 2
	ArchiveFlagUnknown ArchiveFlag = 0xffffffff
)

func (f ArchiveFlag) String() string {
	switch f {
	case ArchiveFlagRelative:
		return "RelativePaths"
	case ArchiveFlagIgnoreCase:
		return "IgnoreCase"
	case ArchiveFlagAbsolute:
		return "AbsolutePaths"
	default:
		return "Unknown"
	}
}

// Header holds the immutable, archive-wide metadata decoded once at open
// time. RawFlags preserves the original 32-bit value even when Flags has been
// downgraded to ArchiveFlagUnknown, per spec.md Open Question 3.
type Header struct {
	VersionMajor  uint16
	VersionMinor  uint16
	Codec         Codec
	TOCLength     uint32
	TOCEntrySize  uint32
	TOCEntryCount uint32
	BlockWidth    BlockWidth
	Flags         ArchiveFlag
	RawFlags      uint32
}

const (
	magic         = 0x50534152 // "PSAR"
	expectedTOCSz = 30
)

// parseHeader reads the fixed-size archive header starting at offset 0.
// Grounded on super.go's New/UnmarshalBinary: validate the magic first, then
// decode the remaining fields in order, failing fast on the first bad or
// truncated field.
func parseHeader(src readerAt) (*Header, *binReader, error) {
	r := newBinReader(src, 0)

	m, err := r.u32()
	if err != nil {
		return nil, nil, err
	}
	if m != magic {
		return nil, nil, fmt.Errorf("%w: invalid magic", ErrFormat)
	}

	h := &Header{}
	if h.VersionMajor, err = r.u16(); err != nil {
		return nil, nil, err
	}
	if h.VersionMinor, err = r.u16(); err != nil {
		return nil, nil, err
	}

	codecTag, err := r.u32()
	if err != nil {
		return nil, nil, err
	}
	switch Codec(codecTag) {
	case CodecNone, CodecZLIB, CodecLZMA:
		h.Codec = Codec(codecTag)
	default:
		return nil, nil, fmt.Errorf("%w: unknown codec tag 0x%08x", ErrFormat, codecTag)
	}

	if h.TOCLength, err = r.u32(); err != nil {
		return nil, nil, err
	}
	if h.TOCEntrySize, err = r.u32(); err != nil {
		return nil, nil, err
	}
	if h.TOCEntrySize != expectedTOCSz {
		return nil, nil, fmt.Errorf("%w: unexpected TOC entry size %d", ErrFormat, h.TOCEntrySize)
	}
	if h.TOCEntryCount, err = r.u32(); err != nil {
		return nil, nil, err
	}
	if h.TOCEntryCount < 1 {
		return nil, nil, fmt.Errorf("%w: TOC entry count must be at least 1 (entry 0 is the manifest)", ErrFormat)
	}

	widthTag, err := r.u32()
	if err != nil {
		return nil, nil, err
	}
	switch BlockWidth(widthTag) {
	case BlockWidthU16, BlockWidthU24, BlockWidthU32:
		h.BlockWidth = BlockWidth(widthTag)
	default:
		return nil, nil, fmt.Errorf("%w: unknown block width tag %d", ErrFormat, widthTag)
	}

	flagsRaw, err := r.u32()
	if err != nil {
		return nil, nil, err
	}
	h.RawFlags = flagsRaw
	switch flagsRaw {
	case 0, 1, 2:
		h.Flags = ArchiveFlag(flagsRaw)
	default:
		warnf("unrecognized archive_flags value %d, treating as Unknown", flagsRaw)
		h.Flags = ArchiveFlagUnknown
	}

	return h, r, nil
}

// readerAt is the minimal interface the archive engine needs from its
// underlying byte source; satisfied by *os.File and io.ReaderAt generally.
type readerAt interface {
	ReadAt(p []byte, off int64) (int, error)
}
