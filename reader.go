package psarc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/maikelwever/psarc/internal/codec"
)

// wantAll tells readRange to decode every block of the entry's chain.
const wantAll = -1

// readRange writes entry idx's plaintext to w, stopping as soon as at least
// wantLen bytes have been produced (or decoding every block when wantLen is
// wantAll).
//
// Grounded on inode.go's (*Inode).ReadAt block loop, generalized from
// squashfs's fixed block size to PSARC's max_block_size-with-sentinel model:
// blocks are read whole even when only a trailing partial block is needed,
// because the codecs reset at block boundaries and block boundaries are the
// only addressable granularity (spec.md §4.3).
func (a *Archive) readRange(idx int, wantLen int64, w io.Writer) error {
	if idx < 0 || idx >= len(a.entries) {
		return fmt.Errorf("%w: entry index %d out of range", ErrNotFound, idx)
	}
	e := &a.entries[idx]

	if e.Length == 0 {
		return nil
	}

	maxBlockSize := a.header.BlockWidth.maxBlockSize()
	numBlocks := ceilDiv(e.Length, maxBlockSize)
	if numBlocks == 0 {
		return fmt.Errorf("%w: entry %d has nonzero length but zero blocks", ErrFormat, idx)
	}
	if uint64(e.BlockIndex)+numBlocks > uint64(len(a.blockSizes)) {
		return fmt.Errorf("%w: entry %d block chain runs past block-size table", ErrFormat, idx)
	}
	chain := a.blockSizes[e.BlockIndex : uint64(e.BlockIndex)+numBlocks]

	offset := int64(e.Offset)
	var written int64
	for i, bs := range chain {
		plainWant := maxBlockSize
		if i == len(chain)-1 {
			if rem := e.Length % maxBlockSize; rem != 0 {
				plainWant = rem
			}
		}

		plain, consumed, err := codec.DecodeBlock(a.src, offset, bs, maxBlockSize, plainWant)
		if err != nil {
			// A decoder that ends early is a format error; anything else is the
			// byte source failing to deliver the block.
			kind := ErrIO
			if errors.Is(err, codec.ErrTruncated) {
				kind = ErrFormat
			}
			return fmt.Errorf("%w: entry %d block %d: %s", kind, idx, int(e.BlockIndex)+i, err)
		}
		offset += consumed

		if _, err := w.Write(plain); err != nil {
			return err
		}
		written += int64(len(plain))

		if wantLen != wantAll && written >= wantLen {
			break
		}
	}
	return nil
}

// readFull decodes entry idx's full plaintext into memory.
func (a *Archive) readFull(idx int) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.readRange(idx, wantAll, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadFile decodes entry idx's full plaintext into memory, for callers (such
// as cmd/psarc's cat subcommand) that want a whole archived file rather than
// a filesystem-style byte range.
func (a *Archive) ReadFile(idx int) ([]byte, error) {
	return a.readFull(idx)
}

// readAt returns the plaintext slice [offset, offset+size) of entry idx,
// short at end-of-file rather than erroring (spec.md §4.6/§8 property 9).
func (a *Archive) readAt(idx int, offset, size int64) ([]byte, error) {
	if idx < 0 || idx >= len(a.entries) {
		return nil, fmt.Errorf("%w: entry index %d out of range", ErrNotFound, idx)
	}
	length := int64(a.entries[idx].Length)
	if offset >= length {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	wantLen := offset + size
	if wantLen > length {
		wantLen = length
	}
	if err := a.readRange(idx, wantLen, &buf); err != nil {
		return nil, err
	}

	b := buf.Bytes()
	if offset > int64(len(b)) {
		return []byte{}, nil
	}
	end := offset + size
	if end > int64(len(b)) {
		end = int64(len(b))
	}
	out := make([]byte, end-offset)
	copy(out, b[offset:end])
	return out, nil
}

func ceilDiv(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
