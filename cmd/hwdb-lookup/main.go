// Program hwdb-lookup is a minimal command-line front-end over the hwdb
// package: it resolves a single modalias string and prints the matched
// properties, coloring the output when stdout is a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/distr1/hwdb"
)

const (
	colorKey   = "\x1b[36m"
	colorReset = "\x1b[0m"
)

func logic(dbPath, modalias string) error {
	var opts []hwdb.Option
	if dbPath != "" {
		opts = append(opts, hwdb.WithPath(dbPath))
	}
	h, err := hwdb.New(opts...)
	if err != nil {
		return err
	}

	list, err := h.Lookup(context.Background(), modalias, 0)
	if err != nil {
		return err
	}

	color := isatty.IsTerminal(os.Stdout.Fd())
	for _, e := range list.All() {
		if color {
			fmt.Printf("%s%s%s=%s\n", colorKey, e.Name(), colorReset, e.Value())
		} else {
			fmt.Printf("%s=%s\n", e.Name(), e.Value())
		}
	}
	return nil
}

func main() {
	dbPath := flag.String("db", "", "path to hwdb.bin (defaults to the standard udev search path)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hwdb-lookup [-db path] <modalias>")
		os.Exit(2)
	}
	if err := logic(*dbPath, flag.Arg(0)); err != nil {
		log.Fatalf("hwdb-lookup: %v", err)
	}
}
