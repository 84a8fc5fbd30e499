package geom

import "testing"

func TestRect_IntersectionSymmetric(t *testing.T) {
	cases := [][2]Rect{
		{R(0, 0, 10, 10), R(5, 5, 10, 10)},
		{R(0, 0, 10, 10), R(2, 2, 3, 3)},
		{R(-4, 3, 8, 2), R(0, 0, 1, 100)},
		{R(0, 0, 10, 10), R(10, 0, 5, 5)},
	}
	for _, c := range cases {
		ab, okAB := c[0].Intersection(c[1])
		ba, okBA := c[1].Intersection(c[0])
		if okAB != okBA {
			t.Fatalf("%s vs %s: ok differs by order (%v, %v)", c[0], c[1], okAB, okBA)
		}
		if !ab.Equals(ba) {
			t.Fatalf("%s vs %s: got %s and %s", c[0], c[1], ab, ba)
		}
	}
}

func TestRect_IntersectionArea(t *testing.T) {
	in, ok := R(0, 0, 10, 10).Intersection(R(8, 0, 10, 10))
	if !ok {
		t.Fatal("expected overlap")
	}
	if !in.Equals(R(8, 0, 2, 10)) {
		t.Fatalf("overlap = %s, want [8, 0, 2, 10]", in)
	}
}

func TestRect_SharedEdgeIsNotAnIntersection(t *testing.T) {
	a := R(0, 0, 10, 10)
	b := R(10, 0, 10, 10)
	if a.Intersects(b) {
		t.Fatal("rects sharing an edge should not intersect")
	}
	if !a.TouchesEdges(b) {
		t.Fatal("rects sharing an edge should touch")
	}
	corner := R(10, 10, 5, 5)
	if a.TouchesEdges(corner) {
		t.Fatal("rects sharing only a corner should not touch")
	}
	if _, ok := a.IntersectionInclusive(corner); !ok {
		t.Fatal("inclusive intersection should accept a shared corner")
	}
}

func TestRect_ContainsIsHalfOpen(t *testing.T) {
	r := R(0, 0, 4, 4)
	if !r.Contains(Vec(0, 0)) {
		t.Fatal("top-left corner should be inside")
	}
	if r.Contains(Vec(4, 2)) || r.Contains(Vec(2, 4)) {
		t.Fatal("right and bottom edges should be outside")
	}
	if !r.ContainsRect(R(0, 0, 4, 4)) {
		t.Fatal("a rect should completely contain itself")
	}
	if r.ContainsRect(R(1, 1, 4, 1)) {
		t.Fatal("overhanging rect should not be contained")
	}
}

func TestRect_SerializeRoundTrip(t *testing.T) {
	r := R(1.5, -2, 30, 0.25)
	got, err := ParseRect(r.Serialize())
	if err != nil {
		t.Fatalf("ParseRect: %v", err)
	}
	if got != r {
		t.Fatalf("got %s, want %s", got, r)
	}
	if _, err := ParseRect("1|2|3"); err == nil {
		t.Fatal("expected error for three fields")
	}
	if _, err := ParseRect("1|2|x|4"); err == nil {
		t.Fatal("expected error for non-numeric field")
	}
}

func TestRect_TranslateKeepsSize(t *testing.T) {
	r := R(1, 2, 3, 4).Translate(Vec(10, -2))
	if r != R(11, 0, 3, 4) {
		t.Fatalf("got %s", r)
	}
	if R(1, 1, 2, 2).Expand(1) != R(0, 0, 4, 4) {
		t.Fatal("Expand(1) should grow one unit on every side")
	}
}

func TestBoundingRect(t *testing.T) {
	b := BoundingRect(R(0, 0, 1, 1), R(5, -3, 2, 2))
	if b != R(0, -3, 7, 4) {
		t.Fatalf("got %s, want [0, -3, 7, 4]", b)
	}
	if BoundingRect() != (Rect{}) {
		t.Fatal("no rects should give the zero rect")
	}
}

func TestShape_GroupQueries(t *testing.T) {
	s := Group(R(0, 0, 4, 4), R(10, 0, 4, 4))
	if s.Len() != 2 || s.Kind() != ShapeGroup {
		t.Fatalf("unexpected group: %s", s)
	}
	if s.Intersects(R(5, 0, 4, 4)) {
		t.Fatal("gap between members should not intersect")
	}
	if !s.Intersects(R(12, 1, 1, 1)) {
		t.Fatal("second member should intersect")
	}
	moved := s.Translate(Vec(1, 1))
	if moved.Bounds() != R(1, 1, 14, 4) {
		t.Fatalf("bounds = %s", moved.Bounds())
	}
	if !Single(R(3, 3, 2, 2)).IntersectsShape(s) {
		t.Fatal("single overlapping first member should intersect group")
	}
}
