package geom

import "testing"

func TestContains_EdgeSemantics(t *testing.T) {
	r := MakeRect(10, 10, 5, 5)

	cases := []struct {
		p    Point
		want bool
	}{
		{Point{10, 10}, true},  // top-left edge is inside
		{Point{12, 12}, true},  // interior
		{Point{15, 12}, false}, // right edge is outside
		{Point{12, 15}, false}, // bottom edge is outside
		{Point{9, 12}, false},
		{Point{12, 9}, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.p); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestUnion(t *testing.T) {
	a := MakeRect(0, 0, 10, 10)
	b := MakeRect(5, 5, 10, 10)

	if got := a.Union(b); got != MakeRect(0, 0, 15, 15) {
		t.Errorf("union = %v, want (0,0,15,15)", got)
	}

	// Disjoint rects still union to the covering box.
	c := MakeRect(100, 100, 1, 1)
	if got := a.Union(c); got != MakeRect(0, 0, 101, 101) {
		t.Errorf("disjoint union = %v, want (0,0,101,101)", got)
	}
}

func TestUnion_EmptyIsIdentity(t *testing.T) {
	r := MakeRect(3, 4, 5, 6)
	var zero Rect

	if got := zero.Union(r); got != r {
		t.Errorf("zero.Union(r) = %v, want r", got)
	}
	if got := r.Union(zero); got != r {
		t.Errorf("r.Union(zero) = %v, want r", got)
	}
	if !zero.IsEmpty() {
		t.Error("the zero rect must report empty")
	}
}

func TestIntersects(t *testing.T) {
	a := MakeRect(0, 0, 10, 10)

	if !a.Intersects(MakeRect(5, 5, 10, 10)) {
		t.Error("overlapping rects must intersect")
	}
	if a.Intersects(MakeRect(20, 20, 5, 5)) {
		t.Error("disjoint rects must not intersect")
	}
	// Rects sharing only an edge do not overlap.
	if a.Intersects(MakeRect(10, 0, 5, 10)) {
		t.Error("edge-adjacent rects must not intersect")
	}
	if a.Intersects(Rect{}) {
		t.Error("an empty rect intersects nothing")
	}
}

func TestTranslate(t *testing.T) {
	r := MakeRect(1, 2, 3, 4)
	if got := r.Translate(Point{X: 10, Y: 20}); got != MakeRect(11, 22, 3, 4) {
		t.Errorf("translate = %v, want (11,22,3,4)", got)
	}
}
