package psarc

import "errors"

// Package-specific error variables, usable with errors.Is() for error handling.
var (
	// ErrFormat is returned when the archive violates the PSARC format contract:
	// bad magic, unknown codec tag, unknown block-width tag, or an inconsistent
	// block chain.
	ErrFormat = errors.New("psarc: invalid archive format")

	// ErrIO is returned when the underlying byte source failed: a short read or
	// a seek failure while parsing the header, TOC, or a compressed block.
	ErrIO = errors.New("psarc: archive read failed")

	// ErrNotFound is returned by lookups that fail to resolve a path or inode.
	ErrNotFound = errors.New("psarc: not found")
)
