// Package archivetest builds synthetic PSARC archives in memory, for use
// only from _test.go files. It exists so the engine's tests don't need
// binary fixtures checked into the repository.
//
// Adapted from the teacher's writer.go: the same "accumulate data first,
// then patch in table offsets" sequencing (writer.go's Writer/Finalize)
// survives here, repurposed to emit PSARC bytes instead of SquashFS images.
// Archive *writing* is an explicit spec Non-goal for the production engine
// (spec.md §1); this builder is test-only support code, never linked into
// the psarc package itself.
package archivetest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"strings"
)

// Codec tags, matching the archive header's codec field (spec.md §6).
const (
	CodecNone uint32 = 0
	CodecZLIB uint32 = 0x7A6C6962
)

const (
	blockWidthU16 uint32 = 65536
	entrySize     uint32 = 30
	headerSize    int64  = 32
)

// blockTagBytes returns the on-disk width of a block-size table entry for a
// given block_width_tag, mirroring header.go's BlockWidth.blockBytes(): the
// width tag IS the archive's fixed max_block_size (spec.md §3), so a Builder
// cannot choose an arbitrary splitting size independent of the header field.
func blockTagBytes(tag uint32) int {
	switch tag {
	case 65536:
		return 2
	case 16777216:
		return 3
	case 4294967295:
		return 4
	default:
		return 2
	}
}

// Builder accumulates named files and encodes them, plus the manifest they
// imply, into a single PSARC byte stream.
type Builder struct {
	Codec        uint32 // CodecNone or CodecZLIB
	MaxBlockSize uint64 // a block_width_tag value; NewBuilder sets 65536, zero is not replaced
	Flags        uint32

	names []string
	data  [][]byte
}

// NewBuilder returns a Builder defaulting to no compression and 64 KiB
// blocks.
func NewBuilder() *Builder {
	return &Builder{Codec: CodecNone, MaxBlockSize: uint64(blockWidthU16)}
}

// AddFile queues one manifest-named file for inclusion. Files are assigned
// TOC entries in the order added, after the synthetic manifest entry 0.
func (b *Builder) AddFile(name string, data []byte) {
	b.names = append(b.names, name)
	b.data = append(b.data, append([]byte(nil), data...))
}

// entryBlocks splits plaintext into blocks of at most maxBlockSize bytes and
// encodes each one according to b.Codec, returning the encoded block bytes
// and the value to record in the block-size table for each.
func (b *Builder) entryBlocks(plain []byte) (encoded [][]byte, sizes []uint64, err error) {
	max := b.MaxBlockSize
	if len(plain) == 0 {
		return nil, nil, nil
	}
	for off := 0; off < len(plain); off += int(max) {
		end := off + int(max)
		if end > len(plain) {
			end = len(plain)
		}
		block := plain[off:end]

		switch b.Codec {
		case CodecZLIB:
			// BestCompression emits the 78 DA header the decoder sniffs for;
			// the default level's 78 9C would be read back as a stored block.
			var buf bytes.Buffer
			zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
			if err != nil {
				return nil, nil, err
			}
			if _, err := zw.Write(block); err != nil {
				return nil, nil, err
			}
			if err := zw.Close(); err != nil {
				return nil, nil, err
			}
			encoded = append(encoded, buf.Bytes())
			sizes = append(sizes, uint64(buf.Len()))
		default:
			// Stored verbatim: the block-size table entry equals the plaintext
			// length, and the decoder falls to its stored-verbatim path because
			// these bytes don't begin with a recognized codec magic (spec.md §4.2).
			encoded = append(encoded, block)
			sizes = append(sizes, uint64(len(block)))
		}
	}
	return encoded, sizes, nil
}

// Build encodes the accumulated files (plus their implied manifest) into a
// full PSARC byte stream.
func (b *Builder) Build() ([]byte, error) {
	manifest := []byte(strings.Join(b.names, "\n"))
	if len(b.names) > 0 {
		manifest = append(manifest, '\n')
	}

	allPlain := append([][]byte{manifest}, b.data...)

	type entryLayout struct {
		length     uint64
		blockIndex uint32
		blocks     [][]byte
		sizes      []uint64
	}
	layouts := make([]entryLayout, len(allPlain))
	var totalBlocks uint32
	for i, plain := range allPlain {
		blocks, sizes, err := b.entryBlocks(plain)
		if err != nil {
			return nil, err
		}
		layouts[i] = entryLayout{length: uint64(len(plain)), blockIndex: totalBlocks, blocks: blocks, sizes: sizes}
		totalBlocks += uint32(len(blocks))
	}

	sizeWidth := blockTagBytes(uint32(b.MaxBlockSize))
	tocLength := headerSize + int64(entrySize)*int64(len(allPlain)) + int64(sizeWidth)*int64(totalBlocks)

	var out bytes.Buffer
	out.WriteString("PSAR")
	writeU16(&out, 1)
	writeU16(&out, 4)
	writeU32(&out, b.Codec)
	writeU32(&out, uint32(tocLength))
	writeU32(&out, entrySize)
	writeU32(&out, uint32(len(allPlain)))
	writeU32(&out, uint32(b.MaxBlockSize))
	writeU32(&out, b.Flags)

	offset := uint64(tocLength)
	for _, l := range layouts {
		out.Write(make([]byte, 16)) // name_digest, unused by the reader
		writeU32(&out, l.blockIndex)
		writeU40(&out, l.length)
		writeU40(&out, offset)
		for _, enc := range l.blocks {
			offset += uint64(len(enc))
		}
	}

	for _, l := range layouts {
		for _, sz := range l.sizes {
			writeUintN(&out, sz, sizeWidth)
		}
	}

	for _, l := range layouts {
		for _, enc := range l.blocks {
			out.Write(enc)
		}
	}

	return out.Bytes(), nil
}

func writeU16(w *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func writeU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

// writeUintN writes v as an n-byte big-endian integer, n in {2,3,4}: the
// block-size table's entry width, matching header.go's BlockWidth.blockBytes.
func writeUintN(w *bytes.Buffer, v uint64, n int) {
	var b [4]byte
	for i := n - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	w.Write(b[:n])
}

func writeU40(w *bytes.Buffer, v uint64) {
	var b [5]byte
	b[0] = byte(v >> 32)
	b[1] = byte(v >> 24)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 8)
	b[4] = byte(v)
	w.Write(b[:])
}
