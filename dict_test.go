package symexpr

import "testing"

func TestTrieInsertLookup(t *testing.T) {
	tr := NewTrie[int]()
	if err := tr.Insert("abc", 1); err != nil {
		t.Fatalf("Insert(abc): %v", err)
	}
	if err := tr.Insert("abc", 2); err != ErrDuplicateKey {
		t.Fatalf("Insert(abc) again: want ErrDuplicateKey, got %v", err)
	}
	v, ok := tr.Lookup("abc")
	if !ok || v != 1 {
		t.Fatalf("Lookup(abc) = %v, %v, want 1, true", v, ok)
	}
	if _, ok := tr.Lookup("ab"); ok {
		t.Fatalf("Lookup(ab) found a payload on a prefix-only node")
	}
}

func TestTrieReplace(t *testing.T) {
	tr := NewTrie[int]()
	if err := tr.Replace("x", 1); err != ErrMissingKey {
		t.Fatalf("Replace on empty trie: want ErrMissingKey, got %v", err)
	}
	_ = tr.Insert("x", 1)
	if err := tr.Replace("x", 2); err != nil {
		t.Fatalf("Replace(x): %v", err)
	}
	v, _ := tr.Lookup("x")
	if v != 2 {
		t.Fatalf("Lookup(x) after Replace = %d, want 2", v)
	}
}

func TestTrieRemovePrunes(t *testing.T) {
	tr := NewTrie[int]()
	_ = tr.Insert("cat", 1)
	_ = tr.Insert("car", 2)

	if !tr.Remove("cat") {
		t.Fatalf("Remove(cat) = false, want true")
	}
	if tr.Remove("cat") {
		t.Fatalf("second Remove(cat) = true, want false")
	}
	if v, ok := tr.Lookup("car"); !ok || v != 2 {
		t.Fatalf("Lookup(car) after removing cat = %v, %v, want 2, true", v, ok)
	}

	if !tr.Remove("car") {
		t.Fatalf("Remove(car) = false, want true")
	}
	if len(tr.root.children) != 0 {
		t.Fatalf("root has %d children after removing every key, want 0", len(tr.root.children))
	}
}

func TestTrieFindLongest(t *testing.T) {
	tr := NewTrie[string]()
	_ = tr.Insert("a", "short")
	_ = tr.Insert("abc", "long")

	cases := []struct {
		s       string
		pos     int
		want    string
		wantPos int
		wantOK  bool
	}{
		{"abc", 0, "long", 3, true},
		{"abd", 0, "short", 1, true},
		{"xyz", 0, "", 0, false},
		{"ab", 0, "short", 1, true},
	}
	for _, c := range cases {
		got, pos, ok := tr.FindLongest([]rune(c.s), c.pos)
		if got != c.want || pos != c.wantPos || ok != c.wantOK {
			t.Errorf("FindLongest(%q, %d) = %q, %d, %v; want %q, %d, %v",
				c.s, c.pos, got, pos, ok, c.want, c.wantPos, c.wantOK)
		}
	}
}

func TestTrieFindLongestNoSideEffectOnMiss(t *testing.T) {
	tr := NewTrie[int]()
	_ = tr.Insert("foo", 1)
	_, pos, ok := tr.FindLongest([]rune("bar"), 0)
	if ok || pos != 0 {
		t.Fatalf("FindLongest on total miss = pos %d, ok %v; want 0, false", pos, ok)
	}
}
