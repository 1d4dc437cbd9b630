package psarc

import (
	"fmt"
	"strings"
)

// parseManifest decodes entry 0 (the manifest) and assigns names to entries
// 1..N positionally: manifest line i names entry i+1. The manifest entry
// itself is given a synthetic name so it is reachable in the tree like any
// other file (spec.md §4.4).
func parseManifest(a *Archive) error {
	blob, err := a.readFull(0)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	if a.header.Flags == ArchiveFlagAbsolute {
		a.entries[0].Name = "/manifest.txt"
	} else {
		a.entries[0].Name = "manifest.txt"
	}

	text := strings.TrimSuffix(string(blob), "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}

	for i, line := range lines {
		idx := i + 1
		if idx >= len(a.entries) {
			break
		}
		a.entries[idx].Name = line
	}
	return nil
}
