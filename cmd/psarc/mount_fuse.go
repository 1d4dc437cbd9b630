//go:build fuse

package main

import (
	"fmt"

	"github.com/maikelwever/psarc"
)

// mountArchive opens path and mounts it read-only at mountpoint, blocking
// until the mount is unmounted (spec.md §6 CLI contract).
func mountArchive(path, mountpoint string) error {
	a, err := psarc.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer a.Close()

	server, err := psarc.Mount(a, path, mountpoint)
	if err != nil {
		return fmt.Errorf("mounting %s at %s: %w", path, mountpoint, err)
	}
	server.Wait()
	return nil
}
