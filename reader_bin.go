package psarc

import (
	"fmt"
	"io"
)

// binReader performs sequential big-endian reads over a seekable byte source,
// tracking its own offset so callers never need to re-seek between fields.
//
// Grounded on the teacher's binary.Read(r, sb.order, &field) sequences in
// inode.go: PSARC mixes field widths (including 40-bit TOC integers) that
// don't map onto a single struct decode the way squashfs.Superblock does,
// so fields are read one at a time instead of via reflection.
type binReader struct {
	src io.ReaderAt
	off int64
}

func newBinReader(src io.ReaderAt, off int64) *binReader {
	return &binReader{src: src, off: off}
}

func (r *binReader) pos() int64 {
	return r.off
}

func (r *binReader) seek(off int64) {
	r.off = off
}

func (r *binReader) bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(io.NewSectionReader(r.src, r.off, int64(n)), buf); err != nil {
		return nil, fmt.Errorf("%w: short read at offset %d: %s", ErrIO, r.off, err)
	}
	r.off += int64(n)
	return buf, nil
}

func (r *binReader) u16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (r *binReader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// u40 reads a 40-bit big-endian unsigned integer, as used by the TOC entry's
// length and offset fields.
func (r *binReader) u40() (uint64, error) {
	return r.uintn(5)
}

// uintn reads an n-byte (n <= 8) big-endian unsigned integer, used both for
// u40 fields and for block-size table entries of width 2, 3, or 4.
func (r *binReader) uintn(n int) (uint64, error) {
	b, err := r.bytes(n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}
