package proplist

import "testing"

func TestListAddAndIter(t *testing.T) {
	var l List
	if err := l.Add("FOO", "1"); err != nil {
		t.Fatal(err)
	}
	if err := l.Add("BAR", "2"); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}

	it := l.Iter()
	var got []string
	for it.Next() {
		e := it.Entry()
		got = append(got, e.Name()+"="+e.Value())
	}
	if len(got) != 2 || got[0] != "FOO=1" || got[1] != "BAR=2" {
		t.Fatalf("got %v, want [FOO=1 BAR=2]", got)
	}
}

func TestListClearResetsLength(t *testing.T) {
	var l List
	l.Add("FOO", "1")
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Len() = %d after Clear, want 0", l.Len())
	}
	if len(l.All()) != 0 {
		t.Fatal("All() should be empty after Clear")
	}
}

func TestIteratorOnEmptyList(t *testing.T) {
	var l List
	it := l.Iter()
	if it.Next() {
		t.Fatal("Next() on empty list should return false")
	}
}
