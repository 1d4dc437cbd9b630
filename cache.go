package psarc

import "sync"

// cacheSlotSize is the fixed prefix length cached per file (spec.md §4.5).
const cacheSlotSize = 16384

// readCache keeps the first cacheSlotSize bytes of recently read files,
// accelerating the cold-read probe pattern a filesystem driver exhibits
// (lookup, then a small read to sniff contents).
//
// Grounded on the teacher's RWMutex-guarded inode index (inode.go's
// sb.inoIdxL around sb.inoIdx): single-writer-by-construction, readers take
// the read lock. No eviction, as spec.md §4.5/§9 documents as an accepted
// limitation for archives of realistic size.
type readCache struct {
	mu       sync.RWMutex
	data     map[uint64][]byte
	slotSize int
}

func newReadCache() *readCache {
	return &readCache{data: make(map[uint64][]byte), slotSize: cacheSlotSize}
}

// get returns the cached prefix for ino, if present.
func (c *readCache) get(ino uint64) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.data[ino]
	return b, ok
}

// put stores a file's decoded prefix (truncated to the cache's slot size).
func (c *readCache) put(ino uint64, full []byte) {
	n := len(full)
	if n > c.slotSize {
		n = c.slotSize
	}
	buf := make([]byte, n)
	copy(buf, full[:n])

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[ino] = buf
}
