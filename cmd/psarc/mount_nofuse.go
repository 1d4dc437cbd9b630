//go:build !fuse

package main

import "fmt"

// mountArchive reports that this binary was built without FUSE support.
// Build with -tags fuse to enable mounting.
func mountArchive(path, mountpoint string) error {
	return fmt.Errorf("mounting %s at %s: this binary was built without fuse support (build with -tags fuse)", path, mountpoint)
}
