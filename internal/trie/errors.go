// Package trie implements the on-disk hwdb trie format: header parsing,
// fixed-width record decoding, trie assembly and the glob-aware search
// described by the hwdb binary format.
package trie

import "golang.org/x/xerrors"

// Kind identifies the category of error a trie operation failed with, so
// callers can branch on it with errors.Is instead of matching strings.
type Kind int

const (
	// KindHeader: header signature wrong, header short, or a declared
	// record size is zero.
	KindHeader Kind = iota
	// KindBounds: a decode read past the buffer, or an offset fell
	// outside the file.
	KindBounds
	// KindLineOverflow: the glob scratch buffer ran out of capacity.
	KindLineOverflow
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "hwdb-header"
	case KindBounds:
		return "hwdb-bounds"
	case KindLineOverflow:
		return "hwdb-line-overflow"
	default:
		return "hwdb-unknown"
	}
}

// Error wraps a Kind with the underlying cause.
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

func newErr(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, err: xerrors.Errorf(format, args...)}
}

// ErrBounds/ErrHeader/ErrLineOverflow are sentinels usable with errors.Is
// against the Kind a returned *Error carries: (*Error).Is below compares
// Kind only, ignoring the wrapped cause.
var (
	ErrHeader       = &Error{Kind: KindHeader}
	ErrBounds       = &Error{Kind: KindBounds}
	ErrLineOverflow = &Error{Kind: KindLineOverflow}
)

// Is lets errors.Is(err, trie.ErrBounds) work by comparing Kind rather than
// the wrapped cause, matching the pack's xerrors-based wrap-and-compare
// idiom used throughout internal/squashfs's callers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
