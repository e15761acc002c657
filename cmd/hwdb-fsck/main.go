// Program hwdb-fsck validates the structural integrity of a hwdb.bin file:
// it walks every node reachable from the root, reporting dangling
// offsets, truncated records, and cycles, without ever running an actual
// lookup query.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/exp/mmap"

	"github.com/distr1/hwdb/internal/trie"
)

func logic(path string) (*trie.Report, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, err
	}

	h, err := trie.DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	return trie.Walk(buf, h.Layout(), h.NodesRootOff)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hwdb-fsck <path-to-hwdb.bin>")
		os.Exit(2)
	}

	rep, err := logic(flag.Arg(0))
	if err != nil {
		log.Fatalf("hwdb-fsck: %v", err)
	}

	fmt.Printf("nodes: %d\nvalues: %d\nmax depth: %d\ncyclic: %v\n", rep.Nodes, rep.Values, rep.MaxDepth, rep.Cyclic)
	for _, a := range rep.Anomalies {
		fmt.Printf("anomaly at offset %d: %v\n", a.Offset, a.Err)
	}
	if rep.Cyclic || len(rep.Anomalies) > 0 {
		os.Exit(1)
	}
}
