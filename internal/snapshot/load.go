// Package snapshot implements spec.md §4.1 step 1: reading an entire hwdb
// database file into a freshly allocated in-memory buffer, isolating a
// lookup from concurrent external writers. It additionally accepts a
// gzip-compressed database transparently, the way a distribution may ship
// a compressed hwdb.bin.gz alongside compressed package/initrd images
// (cmd/distri/initrd.go uses the same github.com/klauspost/pgzip package
// for that purpose).
package snapshot

import (
	"bytes"
	"io"
	"os"

	"github.com/klauspost/pgzip"
	"golang.org/x/xerrors"
)

// gzipMagic is the two leading bytes of any gzip stream, RFC 1952 §2.3.1.
var gzipMagic = [2]byte{0x1f, 0x8b}

// Load opens path and reads it fully into memory, transparently
// decompressing it first if it is gzip-compressed. The returned buffer is
// independent of the file: no descriptor is kept open past Load returning,
// matching spec.md §5's "no file descriptor outlives a lookup".
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var head [2]byte
	n, _ := io.ReadFull(f, head[:])
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, xerrors.Errorf("seeking %s: %w", path, err)
	}

	if n == 2 && head == gzipMagic {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, xerrors.Errorf("opening gzip stream in %s: %w", path, err)
		}
		defer zr.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, zr); err != nil {
			return nil, xerrors.Errorf("decompressing %s: %w", path, err)
		}
		return buf.Bytes(), nil
	}

	return io.ReadAll(f)
}
