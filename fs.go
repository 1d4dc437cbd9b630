package psarc

import (
	"fmt"
	"time"
)

// Kind distinguishes a directory from a regular file in filesystem-facing
// attributes, mirroring spec.md §6's {RegularFile, Directory}.
type Kind uint8

const (
	KindRegularFile Kind = iota
	KindDirectory
)

// Unix file mode bits, matching the teacher's mode.go constants.
const (
	modeDir  = 0o755
	modeFile = 0o644
	sIFDIR   = 0o040000
	sIFREG   = 0o100000
)

// AttrTTL is how long a kernel bridge collaborator may cache an inode's
// attributes. Archive content is immutable for the life of a mount, so
// stale attributes are always safe (spec.md §4.6).
const AttrTTL = 60 * time.Second

// Attr carries everything a kernel bridge needs to answer getattr/lookup
// (spec.md §6): ino, size, mode, nlink, uid=gid=0, epoch timestamps, and a
// Kind tag.
type Attr struct {
	Ino   uint64
	Size  uint64
	Mode  uint32
	Nlink uint32
	Uid   uint32
	Gid   uint32
	Kind  Kind
}

// ModTime is always the UNIX epoch: PSARC carries no per-entry timestamps
// (spec.md §4.6).
func (a Attr) ModTime() time.Time {
	return time.Unix(0, 0)
}

// DirEntry is one entry in a readdir stream (spec.md §6).
type DirEntry struct {
	Ino    uint64
	Cookie uint64
	Kind   Kind
	Name   string
}

func (a *Archive) toPublic(ino uint64) uint64 {
	return ino + a.inoOffset
}

func (a *Archive) toInternal(ino uint64) uint64 {
	return ino - a.inoOffset
}

// node resolves a public inode number to its tree node, or ErrNotFound.
func (a *Archive) node(ino uint64) (*inodeNode, uint64, error) {
	internal := a.toInternal(ino)
	n, ok := a.tree.nodes[internal]
	if !ok {
		return nil, 0, fmt.Errorf("%w: inode %d", ErrNotFound, ino)
	}
	return n, internal, nil
}

func (a *Archive) attrFor(internalIno uint64, n *inodeNode) Attr {
	switch n.data.Kind {
	case KindFolder:
		return Attr{
			Ino:   a.toPublic(internalIno),
			Size:  0,
			Mode:  sIFDIR | modeDir,
			Nlink: 2,
			Kind:  KindDirectory,
		}
	default:
		e := a.entries[n.data.EntryIndex]
		return Attr{
			Ino:   a.toPublic(internalIno),
			Size:  e.Length,
			Mode:  sIFREG | modeFile,
			Nlink: 1,
			Kind:  KindRegularFile,
		}
	}
}

// Lookup resolves name within parentIno's children (spec.md §4.6/§6).
func (a *Archive) Lookup(parentIno uint64, name string) (Attr, error) {
	n, _, err := a.node(parentIno)
	if err != nil {
		return Attr{}, err
	}
	for _, childIno := range n.children {
		child := a.tree.nodes[childIno]
		if child.data.Name == name {
			return a.attrFor(childIno, child), nil
		}
	}
	return Attr{}, fmt.Errorf("%w: %q in inode %d", ErrNotFound, name, parentIno)
}

// GetAttr returns the attributes of ino.
func (a *Archive) GetAttr(ino uint64) (Attr, error) {
	n, internal, err := a.node(ino)
	if err != nil {
		return Attr{}, err
	}
	return a.attrFor(internal, n), nil
}

// Read answers a filesystem read(ino, offset, size) request, trying the
// cache fast path before falling back to the block-addressed decoder
// (spec.md §4.6).
func (a *Archive) Read(ino uint64, offset, size int64) ([]byte, error) {
	n, _, err := a.node(ino)
	if err != nil {
		return nil, err
	}
	if n.data.Kind != KindFile {
		return nil, fmt.Errorf("%w: inode %d is a directory", ErrNotFound, ino)
	}
	idx := n.data.EntryIndex

	if offset == 0 && size <= int64(a.cache.slotSize) {
		if cached, ok := a.cache.get(ino); ok {
			end := size
			if end > int64(len(cached)) {
				end = int64(len(cached))
			}
			out := make([]byte, end)
			copy(out, cached[:end])
			return out, nil
		}
	}

	out, err := a.readAt(idx, offset, size)
	if err != nil {
		return nil, err
	}
	if offset == 0 && int64(len(out)) >= int64(a.cache.slotSize) {
		a.cache.put(ino, out)
	}
	return out, nil
}

// ReadDir streams ino's children starting at startCookie, emitting "." at
// cookie 1 and ".." at cookie 2 before the children at cookies 3, 4, ...
// (i+3 for the 0-based child i), skipping every entry whose cookie is at or
// below startCookie (spec.md §4.6).
func (a *Archive) ReadDir(ino uint64, startCookie uint64) ([]DirEntry, error) {
	n, internal, err := a.node(ino)
	if err != nil {
		return nil, err
	}
	if n.data.Kind != KindFolder {
		return nil, fmt.Errorf("%w: inode %d is not a directory", ErrNotFound, ino)
	}

	var out []DirEntry
	if startCookie == 0 {
		out = append(out, DirEntry{Ino: a.toPublic(internal), Cookie: 1, Kind: KindDirectory, Name: "."})
	}
	if startCookie < 2 {
		parent := n.parent
		if parent == 0 {
			parent = RootInode
		}
		out = append(out, DirEntry{Ino: a.toPublic(parent), Cookie: 2, Kind: KindDirectory, Name: ".."})
	}

	for i, childIno := range n.children {
		cookie := uint64(i) + 3
		if cookie <= startCookie {
			continue
		}
		child := a.tree.nodes[childIno]
		kind := KindRegularFile
		if child.data.Kind == KindFolder {
			kind = KindDirectory
		}
		out = append(out, DirEntry{Ino: a.toPublic(childIno), Cookie: cookie, Kind: kind, Name: child.data.Name})
	}

	return out, nil
}
