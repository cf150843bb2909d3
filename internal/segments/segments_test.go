package segments

import (
	"testing"
)

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want Type
	}{
		{"intro", TypeIntro},
		{"Intro", TypeIntro},
		{"  OUTRO ", TypeOutro},
		{"recap", TypeRecap},
		{"preview", TypePreview},
		{"commercial", TypeCommercial},
		{"credits", TypeUnknown},
		{"", TypeUnknown},
	}

	for _, tc := range cases {
		if got := ParseType(tc.in); got != tc.want {
			t.Errorf("ParseType(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTypeStringRoundTrip(t *testing.T) {
	for _, typ := range []Type{TypeIntro, TypeOutro, TypeRecap, TypePreview, TypeCommercial, TypeUnknown} {
		if got := ParseType(typ.String()); got != typ {
			t.Errorf("ParseType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
}

func TestGroupByItem(t *testing.T) {
	segs := []Segment{
		{ItemID: "a", StartTicks: 0, EndTicks: 10},
		{ItemID: "b", StartTicks: 5, EndTicks: 15},
		{ItemID: "a", StartTicks: 20, EndTicks: 30},
	}

	grouped := GroupByItem(segs)

	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if len(grouped["a"]) != 2 || len(grouped["b"]) != 1 {
		t.Errorf("unexpected group sizes: a=%d b=%d", len(grouped["a"]), len(grouped["b"]))
	}
	// Arrival order preserved within a group.
	if grouped["a"][0].StartTicks != 0 || grouped["a"][1].StartTicks != 20 {
		t.Errorf("arrival order not preserved: %+v", grouped["a"])
	}
}

func TestGroupByItemEmpty(t *testing.T) {
	if got := GroupByItem(nil); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestSortByStartStable(t *testing.T) {
	// Two segments share a start tick; the earlier arrival must stay first.
	segs := []Segment{
		{ItemID: "a", StartTicks: 50, EndTicks: 60, Type: TypeOutro},
		{ItemID: "a", StartTicks: 10, EndTicks: 20, Type: TypeIntro},
		{ItemID: "a", StartTicks: 50, EndTicks: 55, Type: TypeRecap},
	}

	SortByStart(segs)

	if segs[0].Type != TypeIntro {
		t.Errorf("expected intro first, got %v", segs[0].Type)
	}
	if segs[1].Type != TypeOutro || segs[2].Type != TypeRecap {
		t.Errorf("stable ordering violated: %v then %v", segs[1].Type, segs[2].Type)
	}
}
