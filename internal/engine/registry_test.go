package engine

import "testing"

func TestEntitySet_InsertionOrder(t *testing.T) {
	s := NewEntitySet()
	a, b, c := &Entity{name: "a"}, &Entity{name: "b"}, &Entity{name: "c"}
	for _, e := range []*Entity{a, b, c} {
		if !s.Put(e) {
			t.Fatalf("Put(%s) should be new", e.name)
		}
	}
	if s.Put(b) {
		t.Fatal("second Put should report a duplicate")
	}
	if !s.Remove(a) || s.Remove(a) {
		t.Fatal("Remove should succeed once")
	}
	d := &Entity{name: "d"}
	s.Put(d)

	vals := s.Values()
	if len(vals) != 3 || vals[0] != b || vals[1] != c || vals[2] != d {
		t.Fatalf("expected [b c d], got %v", vals)
	}
	if !s.Remove(c) || !s.Has(d) || s.Has(c) || s.Len() != 2 {
		t.Fatal("membership wrong after removing from the middle")
	}
	if e, ok := s.Named("d"); !ok || e != d {
		t.Fatal("Named should find d")
	}
}

func TestEntitySet_ValuesIsSnapshot(t *testing.T) {
	s := NewEntitySet()
	a := &Entity{name: "a"}
	s.Put(a)
	vals := s.Values()
	s.Remove(a)
	if len(vals) != 1 {
		t.Fatal("snapshot should not change after Remove")
	}
	if got := s.Filter(func(*Entity) bool { return true }); len(got) != 0 {
		t.Fatalf("expected empty filter, got %v", got)
	}
}
