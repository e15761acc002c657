// Package hwdb provides read-only lookup against a pre-compiled hardware
// identification database: given a device modalias string, it returns the
// property key/value pairs the database associates with any matching
// trie pattern.
package hwdb

import (
	"context"
	"errors"
	"os"

	"golang.org/x/xerrors"

	"github.com/distr1/hwdb/internal/env"
	"github.com/distr1/hwdb/internal/proplist"
	"github.com/distr1/hwdb/internal/snapshot"
	"github.com/distr1/hwdb/internal/trie"
)

// Kind identifies which of spec.md §7's error categories a Handle
// operation failed with.
type Kind int

const (
	KindNotFound Kind = iota
	KindOpen
	KindHeader
	KindBounds
	KindLineOverflow
	KindAddProperty
	KindLookup
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "hwdb-not-found"
	case KindOpen:
		return "hwdb-open"
	case KindHeader:
		return "hwdb-header"
	case KindBounds:
		return "hwdb-bounds"
	case KindLineOverflow:
		return "hwdb-line-overflow"
	case KindAddProperty:
		return "hwdb-add-property"
	case KindLookup:
		return "hwdb-lookup"
	default:
		return "hwdb-unknown"
	}
}

// Error wraps a Kind with its cause, so callers can branch with errors.Is
// against the matching package-level sentinel.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func wrapErr(kind Kind, cause error) error {
	return &Error{Kind: kind, err: cause}
}

// Sentinels usable with errors.Is, one per spec.md §7 kind.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrOpen         = &Error{Kind: KindOpen}
	ErrHeader       = &Error{Kind: KindHeader}
	ErrBounds       = &Error{Kind: KindBounds}
	ErrLineOverflow = &Error{Kind: KindLineOverflow}
	ErrAddProperty  = &Error{Kind: KindAddProperty}
	ErrLookup       = &Error{Kind: KindLookup}
)

// fromTrieErr maps internal/trie's narrower Kind set onto the
// wider spec.md §7 kind set this package exposes.
func fromTrieErr(err error) error {
	var te *trie.Error
	if errors.As(err, &te) {
		switch te.Kind {
		case trie.KindHeader:
			return wrapErr(KindHeader, err)
		case trie.KindBounds:
			return wrapErr(KindBounds, err)
		case trie.KindLineOverflow:
			return wrapErr(KindLineOverflow, err)
		}
	}
	return wrapErr(KindLookup, err)
}

// Handle is a single open hwdb database. A Handle is not safe for
// concurrent Lookup calls (spec.md §5): it owns a property list that
// every Lookup clears and refills in place. Callers wanting concurrent
// lookups must use distinct Handles.
type Handle struct {
	path   string
	header *trie.Header
	layout trie.Layout
	list   proplist.List
}

// Option configures New.
type Option func(*options)

type options struct {
	path string
	list *proplist.List
}

// WithPath overrides the normal path-discovery probe (spec.md §6) with an
// explicit database path — primarily for tests and diagnostic tooling.
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

// New opens the hwdb database, parses its header, and returns a Handle.
// Candidate paths are probed in the order spec.md §4.1/§6 documents:
// $UDEV_HWDB_BIN, then /etc/udev/hwdb.bin, then <libexecdir>/hwdb.bin.
// ENOENT on a candidate is skipped silently; any other open error is
// fatal with KindOpen. No candidate path existing is KindNotFound.
func New(opts ...Option) (*Handle, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	path := o.path
	if path == "" {
		var err error
		path, err = probe(env.HwdbPaths())
		if err != nil {
			return nil, err
		}
	}

	buf, err := snapshot.Load(path)
	if err != nil {
		return nil, wrapErr(KindOpen, xerrors.Errorf("reading %s: %w", path, err))
	}

	header, err := trie.DecodeHeader(buf)
	if err != nil {
		return nil, fromTrieErr(err)
	}

	return &Handle{
		path:   path,
		header: header,
		layout: header.Layout(),
	}, nil
}

func probe(paths []string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", wrapErr(KindOpen, xerrors.Errorf("stat %s: %w", p, err))
		}
		return p, nil
	}
	return "", wrapErr(KindNotFound, errors.New("no hwdb.bin found in any candidate path"))
}

// Header returns the parsed database header.
func (h *Handle) Header() trie.Header {
	return *h.header
}

// Lookup implements spec.md §4.1's lookup operation: it re-reads the
// database into a fresh snapshot, clears the property list, runs the trie
// search, and returns the resulting properties in insertion order.
//
// ctx is checked once before any work begins; spec.md's lookup has no
// internal suspension point to cancel mid-walk (§5: "entirely
// synchronous... no internal threads"), so cancellation never tears a
// partially-built result — it only ever prevents a lookup from starting.
func (h *Handle) Lookup(ctx context.Context, modalias string, flags uint32) (*proplist.List, error) {
	_ = flags // reserved, per spec.md §6
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := snapshot.Load(h.path)
	if err != nil {
		return nil, wrapErr(KindLookup, xerrors.Errorf("reading %s: %w", h.path, err))
	}

	h.list.Clear()

	if h.header.NodesRootOff >= uint64(len(buf)) {
		return nil, wrapErr(KindBounds, xerrors.Errorf("root offset %d outside buffer of length %d", h.header.NodesRootOff, len(buf)))
	}
	root, err := trie.Assemble(buf, h.layout, h.header.NodesRootOff)
	if err != nil {
		return nil, fromTrieErr(err)
	}

	if err := trie.Search(buf, h.layout, root, modalias, &h.list); err != nil {
		return nil, fromTrieErr(err)
	}

	return &h.list, nil
}

// PropertiesList returns the last lookup's results.
func (h *Handle) PropertiesList() *proplist.List {
	return &h.list
}

// AddProperty manually inserts a property, following the leading-space
// rule spec.md §4.6 documents.
func (h *Handle) AddProperty(key, value string) error {
	if err := trie.AddProperty(&h.list, key, value); err != nil {
		return wrapErr(KindAddProperty, err)
	}
	return nil
}
