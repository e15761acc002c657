// Program hwdb-watch subscribes to kernel uevent messages and, for every
// device that advertises a MODALIAS variable, resolves it against the hwdb
// database and prints the matched properties — the uevent-driven half of
// what udev itself does on every "add" event, without actually applying
// the properties to the running system.
//
// It additionally walks /sys once at startup to resolve modalias files for
// devices that were already enumerated before this program started, the
// same race the original initramfs module-loader had to account for.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/s-urbaniak/uevent"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/distr1/hwdb"
	"github.com/distr1/hwdb/internal/oninterrupt"
)

func resolve(h *hwdb.Handle, modalias string) error {
	list, err := h.Lookup(context.Background(), modalias, 0)
	if err != nil {
		return err
	}
	if list.Len() == 0 {
		return nil
	}
	fmt.Printf("%s:\n", modalias)
	for _, e := range list.All() {
		fmt.Printf("  %s=%s\n", e.Name(), e.Value())
	}
	return nil
}

func logic(dbPath string) error {
	newHandle := func() (*hwdb.Handle, error) {
		var opts []hwdb.Option
		if dbPath != "" {
			opts = append(opts, hwdb.WithPath(dbPath))
		}
		return hwdb.New(opts...)
	}

	var (
		work   = make(chan string, 64)
		seenMu sync.Mutex
		seen   = make(map[string]bool)
	)
	markSeen := func(modalias string) bool {
		seenMu.Lock()
		defer seenMu.Unlock()
		if seen[modalias] {
			return true
		}
		seen[modalias] = true
		return false
	}

	var eg errgroup.Group

	// Each worker owns its own Handle: a Handle's Lookup mutates an
	// internally-owned property list and is not safe for concurrent use.
	for i := 0; i < runtime.NumCPU(); i++ {
		h, err := newHandle()
		if err != nil {
			return err
		}
		eg.Go(func() error {
			for modalias := range work {
				if markSeen(modalias) {
					continue
				}
				if err := resolve(h, modalias); err != nil {
					log.Printf("hwdb-watch: resolving %s: %v", modalias, err)
				}
			}
			return nil
		})
	}

	r, err := uevent.NewReader()
	if err != nil {
		return err
	}
	oninterrupt.Register(func() { r.Close() })
	dec := uevent.NewDecoder(r)
	eg.Go(func() error {
		for {
			ev, err := dec.Decode()
			if err != nil {
				return xerrors.Errorf("uevent decode: %w", err)
			}
			if modalias, ok := ev.Vars["MODALIAS"]; ok {
				work <- modalias
			}
		}
	})

	// Resolve modalias files for devices the kernel already enumerated
	// before this process started.
	eg.Go(func() error {
		return filepath.Walk("/sys", func(path string, info os.FileInfo, err error) error {
			if err != nil {
				log.Printf("hwdb-watch: %v", err)
				return nil
			}
			if info == nil || info.Name() != "modalias" {
				return nil
			}
			b, err := ioutil.ReadFile(path)
			if err != nil {
				return nil // device may have vanished; not fatal
			}
			if modalias := strings.TrimSpace(string(b)); modalias != "" {
				work <- modalias
			}
			return nil
		})
	})

	return eg.Wait()
}

func main() {
	dbPath := flag.String("db", "", "path to hwdb.bin (defaults to the standard udev search path)")
	flag.Parse()
	if err := logic(*dbPath); err != nil {
		log.Fatalf("hwdb-watch: %v", err)
	}
}
