// Program hwdb-pack bundles a hwdb.bin (and any sibling files named on the
// command line) into a single gzip-compressed cpio archive, for shipping
// alongside an initramfs image the way cmd/distri/initrd.go bundles a
// package's files into the boot archive.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cavaliercoder/go-cpio"
	"github.com/google/renameio"
	"github.com/klauspost/pgzip"
	"github.com/orcaman/writerseeker"
	"golang.org/x/xerrors"
)

func packOne(w *cpio.Writer, path, archiveName string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.WriteHeader(&cpio.Header{
		Name: archiveName,
		Mode: cpio.FileMode(fi.Mode().Perm()),
		Size: fi.Size(),
	}); err != nil {
		return xerrors.Errorf("writing cpio header for %s: %w", archiveName, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return xerrors.Errorf("writing %s into archive: %w", archiveName, err)
	}
	return nil
}

func logic(out string, inputs []string) error {
	if len(inputs) == 0 {
		return xerrors.Errorf("no input files given")
	}

	// Build the cpio+gzip stream in memory first so a failure partway
	// through never leaves a half-written file at the destination path.
	var buf writerseeker.WriterSeeker
	gz := pgzip.NewWriter(&buf)
	cw := cpio.NewWriter(gz)

	for _, in := range inputs {
		if err := packOne(cw, in, in); err != nil {
			return err
		}
	}
	if err := cw.Close(); err != nil {
		return xerrors.Errorf("closing cpio writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		return xerrors.Errorf("closing gzip writer: %w", err)
	}

	r := buf.Reader()
	return renameio.WriteFile(out, mustReadAll(r), 0o644)
}

func mustReadAll(r io.Reader) []byte {
	b, err := io.ReadAll(r)
	if err != nil {
		log.Fatalf("hwdb-pack: reading back archive buffer: %v", err)
	}
	return b
}

func main() {
	out := flag.String("out", "hwdb.cpio.gz", "output archive path")
	flag.Parse()
	if err := logic(*out, flag.Args()); err != nil {
		log.Fatalf("hwdb-pack: %v", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", *out)
}
