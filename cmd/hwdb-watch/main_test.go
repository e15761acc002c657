package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/distr1/hwdb"
	"github.com/distr1/hwdb/internal/testdb"
)

func TestResolveMatchAndNoMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hwdb.bin")
	if err := os.WriteFile(path, testdb.Sample(), 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := hwdb.New(hwdb.WithPath(path))
	if err != nil {
		t.Fatal(err)
	}

	if err := resolve(h, "usb:v1D6Bp0001d0100"); err != nil {
		t.Fatal(err)
	}
	if err := resolve(h, "nomatch:nothing"); err != nil {
		t.Fatal(err)
	}
}
