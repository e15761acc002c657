// Package hwdbfs exposes hwdb lookups through a read-only FUSE file system:
// reading lookups/<modalias> runs a live hwdb.Lookup and returns the
// matched properties rendered as udev-style KEY=VALUE lines. It reuses the
// jacobsa/fuse scaffolding the package manager's own FUSE view was built on
// (inode table, fuseops dispatch, never-expire attribute caching for
// immutable content), generalized from a tree of package files to a
// sparse, on-demand tree of lookup results.
package hwdbfs

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"

	"github.com/distr1/hwdb"
)

const (
	rootInode    = fuseops.RootInodeID
	lookupsInode = fuseops.InodeID(2)
	firstDynamic = fuseops.InodeID(3)
)

// never is used for attribute/entry expiration on inodes whose content
// cannot change out from under the kernel's cache: the root layout is
// fixed, and a lookup result inode's content is rendered once and never
// mutated afterward.
var never = time.Now().Add(365 * 24 * time.Hour)

type lookupFile struct {
	name    string
	content []byte
}

// FS is a fuseutil.FileSystem backed by a single hwdb.Handle. Every
// modalias ever resolved through LookUpInode gets a stable inode for the
// lifetime of the mount; the directory is not enumerable (ReadDir on
// lookups/ lists only names already resolved), matching the fact that the
// trie has no notion of "list every key that could ever match".
type FS struct {
	fuseutil.NotImplementedFileSystem

	handle *hwdb.Handle

	mu       sync.Mutex
	byName   map[string]fuseops.InodeID
	byInode  map[fuseops.InodeID]*lookupFile
	inodeCnt fuseops.InodeID
}

// New returns a FUSE file system serving lookups through handle.
func New(handle *hwdb.Handle) *FS {
	return &FS{
		handle:   handle,
		byName:   make(map[string]fuseops.InodeID),
		byInode:  make(map[fuseops.InodeID]*lookupFile),
		inodeCnt: firstDynamic - 1,
	}
}

// Mount mounts fs at mountpoint and returns the mounted file system; the
// caller joins it to wait for unmount, the way cmd/hwdb-watch joins its
// uevent loop.
func Mount(mountpoint string, fs *FS) (*fuse.MountedFileSystem, error) {
	cfg := &fuse.MountConfig{
		FSName:      "hwdb",
		ReadOnly:    true,
		ErrorLogger: log.New(os.Stderr, "hwdbfs: ", 0),
	}
	server := fuseutil.NewFileSystemServer(fs)
	return fuse.Mount(mountpoint, server, cfg)
}

func (fs *FS) renderLookup(ctx context.Context, modalias string) ([]byte, error) {
	// The shared Handle is not safe for concurrent Lookup calls, and fuse
	// ops are served concurrently, so lookups are serialized under fs.mu.
	fs.mu.Lock()
	defer fs.mu.Unlock()
	list, err := fs.handle.Lookup(ctx, modalias, 0)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, e := range list.All() {
		out = append(out, fmt.Sprintf("%s=%s\n", e.Name(), e.Value())...)
	}
	return out, nil
}

func (fs *FS) StatFS(ctx context.Context, op *fuseops.StatFSOp) error {
	op.BlockSize = 4096
	op.IoSize = 65536
	return nil
}

func (fs *FS) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) error {
	op.Entry.AttributesExpiration = never
	op.Entry.EntryExpiration = never

	switch op.Parent {
	case rootInode:
		if op.Name != "lookups" {
			return fuse.ENOENT
		}
		op.Entry.Child = lookupsInode
		op.Entry.Attributes = dirAttrs()
		return nil

	case lookupsInode:
		fs.mu.Lock()
		inode, ok := fs.byName[op.Name]
		fs.mu.Unlock()
		if ok {
			fs.mu.Lock()
			f := fs.byInode[inode]
			fs.mu.Unlock()
			op.Entry.Child = inode
			op.Entry.Attributes = fileAttrs(uint64(len(f.content)))
			return nil
		}

		content, err := fs.renderLookup(ctx, op.Name)
		if err != nil {
			log.Printf("lookup %q: %v", op.Name, err)
			return fuse.EIO
		}

		fs.mu.Lock()
		fs.inodeCnt++
		inode = fs.inodeCnt
		fs.byName[op.Name] = inode
		fs.byInode[inode] = &lookupFile{name: op.Name, content: content}
		fs.mu.Unlock()

		op.Entry.Child = inode
		op.Entry.Attributes = fileAttrs(uint64(len(content)))
		return nil

	default:
		return fuse.ENOENT
	}
}

func (fs *FS) GetInodeAttributes(ctx context.Context, op *fuseops.GetInodeAttributesOp) error {
	op.AttributesExpiration = never

	switch op.Inode {
	case rootInode, lookupsInode:
		op.Attributes = dirAttrs()
		return nil
	default:
		fs.mu.Lock()
		f, ok := fs.byInode[op.Inode]
		fs.mu.Unlock()
		if !ok {
			return fuse.ENOENT
		}
		op.Attributes = fileAttrs(uint64(len(f.content)))
		return nil
	}
}

func (fs *FS) OpenDir(ctx context.Context, op *fuseops.OpenDirOp) error {
	switch op.Inode {
	case rootInode, lookupsInode:
		return nil
	default:
		return fuse.ENOTDIR
	}
}

func (fs *FS) ReadDir(ctx context.Context, op *fuseops.ReadDirOp) error {
	var entries []fuseutil.Dirent
	switch op.Inode {
	case rootInode:
		entries = []fuseutil.Dirent{
			{Offset: 1, Inode: lookupsInode, Name: "lookups", Type: fuseutil.DT_Directory},
		}
	case lookupsInode:
		fs.mu.Lock()
		defer fs.mu.Unlock()
		i := fuseops.DirOffset(1)
		for name, inode := range fs.byName {
			entries = append(entries, fuseutil.Dirent{Offset: i, Inode: inode, Name: name, Type: fuseutil.DT_File})
			i++
		}
	default:
		return fuse.ENOTDIR
	}

	if op.Offset > fuseops.DirOffset(len(entries)) {
		return nil
	}
	for _, e := range entries[op.Offset:] {
		n := fuseutil.WriteDirent(op.Dst[op.BytesRead:], e)
		if n == 0 {
			break
		}
		op.BytesRead += n
	}
	return nil
}

func (fs *FS) OpenFile(ctx context.Context, op *fuseops.OpenFileOp) error {
	fs.mu.Lock()
	_, ok := fs.byInode[op.Inode]
	fs.mu.Unlock()
	if !ok {
		return fuse.ENOENT
	}
	return nil
}

func (fs *FS) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) error {
	fs.mu.Lock()
	f, ok := fs.byInode[op.Inode]
	fs.mu.Unlock()
	if !ok {
		return fuse.ENOENT
	}
	if op.Offset >= int64(len(f.content)) {
		op.BytesRead = 0
		return nil
	}
	op.BytesRead = copy(op.Dst, f.content[op.Offset:])
	return nil
}

func dirAttrs() fuseops.InodeAttributes {
	return fuseops.InodeAttributes{
		Nlink: 1,
		Mode:  os.ModeDir | 0555,
		Atime: never,
		Mtime: never,
		Ctime: never,
	}
}

func fileAttrs(size uint64) fuseops.InodeAttributes {
	return fuseops.InodeAttributes{
		Size:  size,
		Nlink: 1,
		Mode:  0444,
		Atime: never,
		Mtime: never,
		Ctime: never,
	}
}
