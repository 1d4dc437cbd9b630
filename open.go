package psarc

import "os"

// Open opens the PSARC archive at path and parses its header, TOC, and
// manifest. Parse errors are fatal at open time (spec.md §7): the returned
// error is non-nil and the archive must not be mounted.
func Open(path string, opts ...Option) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	a, err := New(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}
