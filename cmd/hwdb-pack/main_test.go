package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cavaliercoder/go-cpio"
	"github.com/klauspost/pgzip"
)

func TestLogicProducesReadableArchive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hwdb.bin")
	want := []byte("not a real trie, just archive payload")
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "hwdb.cpio.gz")
	if err := logic(out, []string{src}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()

	cr := cpio.NewReader(gz)
	hdr, err := cr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if hdr.Name != src {
		t.Fatalf("archive entry name = %q, want %q", hdr.Name, src)
	}

	got, err := io.ReadAll(cr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("archive payload = %q, want %q", got, want)
	}
}

func TestLogicRejectsEmptyInputList(t *testing.T) {
	if err := logic(filepath.Join(t.TempDir(), "out.cpio.gz"), nil); err == nil {
		t.Fatal("expected an error with no input files")
	}
}
