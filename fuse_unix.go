//go:build fuse

package psarc

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// fsNode adapts one Archive inode to go-fuse's Node interface.
//
// Grounded on inode_fuse.go's Lookup/Open/OpenDir/ReadDir/fillEntry wiring,
// adapted from squashfs's on-disk inode table to *Archive's in-memory
// inode tree (fs.go).
type fsNode struct {
	fs.Inode
	arc *Archive
	ino uint64
}

var (
	_ fs.NodeLookuper  = (*fsNode)(nil)
	_ fs.NodeGetattrer = (*fsNode)(nil)
	_ fs.NodeReaddirer = (*fsNode)(nil)
	_ fs.NodeOpener    = (*fsNode)(nil)
	_ fs.NodeReader    = (*fsNode)(nil)
)

func (a *Archive) newFSNode(ino uint64) *fsNode {
	return &fsNode{arc: a, ino: ino}
}

func attrMode(k Kind) uint32 {
	if k == KindDirectory {
		return fuse.S_IFDIR
	}
	return fuse.S_IFREG
}

// Lookup resolves name under this node, mirroring inode_fuse.go's Lookup
// but returning a full child *fs.Inode instead of a bare number, as the
// modern go-fuse Node API expects.
func (n *fsNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	attr, err := n.arc.Lookup(n.ino, name)
	if err != nil {
		return nil, syscall.ENOENT
	}
	fillEntryOut(out, attr)

	child := n.arc.newFSNode(attr.Ino)
	stable := fs.StableAttr{Mode: attrMode(attr.Kind), Ino: attr.Ino}
	return n.NewInode(ctx, child, stable), fs.OK
}

// Getattr mirrors inode_linux.go's FillAttr.
func (n *fsNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	attr, err := n.arc.GetAttr(n.ino)
	if err != nil {
		return syscall.ENOENT
	}
	fillAttrOut(out, attr)
	return fs.OK
}

// Open always succeeds and asks the kernel to keep the page cache, matching
// inode_fuse.go's Open: archive content is immutable for the life of the
// mount so there is nothing to invalidate.
func (n *fsNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, fuse.FOPEN_KEEP_CACHE, fs.OK
}

// Read serves a byte range via the cache-fronted block decoder (fs.go).
func (n *fsNode) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data, err := n.arc.Read(n.ino, off, int64(len(dest)))
	if err != nil {
		return nil, syscall.EIO
	}
	return fuse.ReadResultData(data), fs.OK
}

// Readdir streams this directory's children, mirroring inode_fuse.go's
// ReadDir cookie/offset bookkeeping via fs.go's ReadDir.
func (n *fsNode) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	entries, err := n.arc.ReadDir(n.ino, 0)
	if err != nil {
		return nil, syscall.EIO
	}
	return &dirStream{entries: entries}, fs.OK
}

type dirStream struct {
	entries []DirEntry
	pos     int
}

func (d *dirStream) HasNext() bool {
	return d.pos < len(d.entries)
}

func (d *dirStream) Next() (fuse.DirEntry, syscall.Errno) {
	e := d.entries[d.pos]
	d.pos++
	return fuse.DirEntry{Ino: e.Ino, Name: e.Name, Mode: attrMode(e.Kind)}, fs.OK
}

func (d *dirStream) Close() {}

func fillAttrOut(out *fuse.AttrOut, attr Attr) {
	out.Ino = attr.Ino
	out.Size = attr.Size
	out.Mode = attr.Mode
	out.Nlink = attr.Nlink
	out.Owner = fuse.Owner{Uid: attr.Uid, Gid: attr.Gid}
	out.SetTimeout(AttrTTL)
}

func fillEntryOut(out *fuse.EntryOut, attr Attr) {
	out.NodeId = attr.Ino
	out.Attr.Ino = attr.Ino
	out.Attr.Size = attr.Size
	out.Attr.Mode = attr.Mode
	out.Attr.Nlink = attr.Nlink
	out.Attr.Owner = fuse.Owner{Uid: attr.Uid, Gid: attr.Gid}
	out.SetEntryTimeout(AttrTTL)
	out.SetAttrTimeout(AttrTTL)
}

// MountOptions are the advisory mount flags spec.md §6 calls for:
// read-only, fsname=<archive>, subtype=psarc, auto-unmount, auto-cache.
func mountOptions(archivePath string) *fs.Options {
	return &fs.Options{
		MountOptions: fuse.MountOptions{
			FsName:        archivePath,
			Name:          "psarc",
			Options:       []string{"ro", "auto_unmount", "auto_cache"},
			DisableXAttrs: true,
		},
	}
}

// Mount mounts a, rooted at RootInode, at mountpoint using go-fuse, and
// blocks the caller until the server is ready to serve requests. The
// returned *fuse.Server's Wait/Unmount methods drive the rest of the mount
// lifecycle; the mount loop itself belongs to hanwen/go-fuse, consumed here
// rather than reimplemented (spec.md §1 Non-goals).
func Mount(a *Archive, archivePath, mountpoint string) (*fuse.Server, error) {
	root := a.newFSNode(RootInode)
	return fs.Mount(mountpoint, root, mountOptions(archivePath))
}
