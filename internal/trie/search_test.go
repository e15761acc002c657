package trie

import (
	"testing"

	"github.com/distr1/hwdb/internal/testdb"
)

type recordingSink struct {
	keys, values []string
}

func (s *recordingSink) Add(key, value string) error {
	s.keys = append(s.keys, key)
	s.values = append(s.values, value)
	return nil
}

func buildAndSearch(t *testing.T, b *testdb.Builder, root uint64, query string) *recordingSink {
	t.Helper()
	buf := b.Finish(root)
	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	layout := h.Layout()
	rootEntry, err := Assemble(buf, layout, h.NodesRootOff)
	if err != nil {
		t.Fatal(err)
	}
	var sink recordingSink
	if err := Search(buf, layout, rootEntry, query, &sink); err != nil {
		t.Fatal(err)
	}
	return &sink
}

func TestSearchLiteralExactMatch(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("bc", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	if s := buildAndSearch(t, b, root, "abc"); len(s.keys) != 1 || s.keys[0] != "K" {
		t.Fatalf("want one match K=V, got %v/%v", s.keys, s.values)
	}
}

func TestSearchLiteralShortQueryDoesNotMatch(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("bc", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	if s := buildAndSearch(t, b, root, "ab"); len(s.keys) != 0 {
		t.Fatalf("query shorter than literal prefix should not match, got %v", s.keys)
	}
}

func TestSearchLiteralLongQueryDoesNotMatch(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("bc", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	if s := buildAndSearch(t, b, root, "abcd"); len(s.keys) != 0 {
		t.Fatalf("query longer than any path should not match, got %v", s.keys)
	}
}

func TestSearchNoMatchingEdge(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("bc", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	if s := buildAndSearch(t, b, root, "xyz"); len(s.keys) != 0 {
		t.Fatalf("no matching edge should not match, got %v", s.keys)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("bc", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	if s := buildAndSearch(t, b, root, ""); len(s.keys) != 0 {
		t.Fatalf("empty query should not match, got %v", s.keys)
	}
}

func TestSearchRootWithNoChildrenOrValues(t *testing.T) {
	b := testdb.NewBuilder()
	root := b.Node("", nil, nil)

	if s := buildAndSearch(t, b, root, "anything"); len(s.keys) != 0 {
		t.Fatalf("childless root should never match, got %v", s.keys)
	}
}

func TestSearchRootWithValuesMatchesEmptyQuery(t *testing.T) {
	b := testdb.NewBuilder()
	root := b.Node("", nil, []testdb.Value{{Key: " ALWAYS", Value: "yes"}})

	if s := buildAndSearch(t, b, root, ""); len(s.keys) != 1 || s.keys[0] != "ALWAYS" {
		t.Fatalf("want root terminal value on empty query, got %v", s.keys)
	}
}

func TestSearchStarMatchesEmptySuffix(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("b*", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	for _, q := range []string{"ab", "abXYZ", "ab12345"} {
		if s := buildAndSearch(t, b, root, q); len(s.keys) != 1 {
			t.Errorf("query %q: want one match, got %v", q, s.keys)
		}
	}
	if s := buildAndSearch(t, b, root, "a"); len(s.keys) != 0 {
		t.Errorf("query %q: literal 'b' before '*' must still be consumed, got %v", "a", s.keys)
	}
}

func TestSearchQuestionMarkMatchesExactlyOneByte(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("?c", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	if s := buildAndSearch(t, b, root, "abc"); len(s.keys) != 1 {
		t.Fatalf("want match for a?c against abc, got %v", s.keys)
	}
	if s := buildAndSearch(t, b, root, "ac"); len(s.keys) != 0 {
		t.Fatalf("'?' must consume a real byte, ac should not match, got %v", s.keys)
	}
	if s := buildAndSearch(t, b, root, "abcd"); len(s.keys) != 0 {
		t.Fatalf("trailing unmatched byte should not match, got %v", s.keys)
	}
}

func TestSearchBracketExpression(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("[0-9]", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	if s := buildAndSearch(t, b, root, "a5"); len(s.keys) != 1 {
		t.Fatalf("want match for a[0-9] against a5, got %v", s.keys)
	}
	if s := buildAndSearch(t, b, root, "ax"); len(s.keys) != 0 {
		t.Fatalf("'x' outside [0-9] should not match, got %v", s.keys)
	}
	if s := buildAndSearch(t, b, root, "a"); len(s.keys) != 0 {
		t.Fatalf("bracket expression must consume a real byte, got %v", s.keys)
	}
}

func TestSearchEmbeddedNULInQueryTruncatesMatch(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("bc", nil, []testdb.Value{{Key: " K", Value: "V"}})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	if s := buildAndSearch(t, b, root, "ab\x00zzzz"); len(s.keys) != 0 {
		t.Fatalf("NUL in query should act as end-of-string and fail the literal match, got %v", s.keys)
	}
}

func TestSearchMultipleValuesAtOneTerminalNode(t *testing.T) {
	b := testdb.NewBuilder()
	leaf := b.Node("bc", nil, []testdb.Value{
		{Key: " FIRST", Value: "1"},
		{Key: " SECOND", Value: "2"},
	})
	root := b.Node("", []testdb.Child{{C: 'a', Node: leaf}}, nil)

	s := buildAndSearch(t, b, root, "abc")
	if len(s.keys) != 2 || s.keys[0] != "FIRST" || s.keys[1] != "SECOND" {
		t.Fatalf("want both FIRST and SECOND in order, got %v", s.keys)
	}
}

func TestSearchSampleDatabase(t *testing.T) {
	buf := testdb.Sample()
	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	layout := h.Layout()
	root, err := Assemble(buf, layout, h.NodesRootOff)
	if err != nil {
		t.Fatal(err)
	}

	var sink recordingSink
	if err := Search(buf, layout, root, "usb:v1D6Bp0001", &sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.keys) != 1 || sink.values[0] != "Linux Foundation" {
		t.Fatalf("want Linux Foundation, got %v/%v", sink.keys, sink.values)
	}

	sink = recordingSink{}
	if err := Search(buf, layout, root, "pci:v00008086d00001C2D", &sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.keys) != 1 || sink.values[0] != "Intel Corporation" {
		t.Fatalf("want Intel Corporation, got %v/%v", sink.keys, sink.values)
	}

	sink = recordingSink{}
	if err := Search(buf, layout, root, "acpi:LNXVIDEO", &sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.keys) != 0 {
		t.Fatalf("non-matching modalias should not match, got %v", sink.keys)
	}
}
