// Program hwdb-diff looks up the same modalias in two hwdb.bin files and
// prints which properties are only in one side or differ between them —
// useful for comparing a freshly built database against what's currently
// installed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/distr1/hwdb"
	"github.com/distr1/hwdb/internal/proplist"
)

func toMap(list *proplist.List) map[string]string {
	m := make(map[string]string, list.Len())
	for _, e := range list.All() {
		m[e.Name()] = e.Value()
	}
	return m
}

func logic(aPath, bPath, modalias string) error {
	a, err := hwdb.New(hwdb.WithPath(aPath))
	if err != nil {
		return err
	}
	b, err := hwdb.New(hwdb.WithPath(bPath))
	if err != nil {
		return err
	}

	ctx := context.Background()
	aList, err := a.Lookup(ctx, modalias, 0)
	if err != nil {
		return err
	}
	bList, err := b.Lookup(ctx, modalias, 0)
	if err != nil {
		return err
	}

	aProps, bProps := toMap(aList), toMap(bList)

	for k, av := range aProps {
		bv, ok := bProps[k]
		switch {
		case !ok:
			fmt.Printf("-%s=%s\n", k, av)
		case bv != av:
			fmt.Printf("-%s=%s\n+%s=%s\n", k, av, k, bv)
		}
	}
	for k, bv := range bProps {
		if _, ok := aProps[k]; !ok {
			fmt.Printf("+%s=%s\n", k, bv)
		}
	}
	return nil
}

func main() {
	flag.Parse()
	if flag.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "usage: hwdb-diff <a.bin> <b.bin> <modalias>")
		os.Exit(2)
	}
	if err := logic(flag.Arg(0), flag.Arg(1), flag.Arg(2)); err != nil {
		log.Fatalf("hwdb-diff: %v", err)
	}
}
