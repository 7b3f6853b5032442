package collconv

import (
	"reflect"
	"testing"
)

func TestClassifyDescribedTypes(t *testing.T) {
	wd := reflect.TypeFor[Weekday]()
	cases := []struct {
		name string
		t    reflect.Type
		want Shape
	}{
		{"slice", reflect.TypeFor[[]Weekday](), Shape{Elem: wd, IsArray: true}},
		{"fixed array", reflect.TypeFor[[4]Weekday](), Shape{Elem: wd, IsArray: true}},
		{"set map", reflect.TypeFor[map[Weekday]struct{}](), Shape{Elem: wd, IsSet: true}},
		{"dictionary", reflect.TypeFor[map[string]Weekday](), Shape{}},
		{"bool map", reflect.TypeFor[map[Weekday]bool](), Shape{}},
		{"string", reflect.TypeFor[string](), Shape{}},
		{"primitive", reflect.TypeFor[float64](), Shape{}},
		{"pointer", reflect.TypeFor[*bag](), Shape{}},
		{"add and values", reflect.TypeFor[bag](), Shape{Elem: wd}},
		{"values only", reflect.TypeFor[snapshot](), Shape{Elem: wd}},
		{"hash set", reflect.TypeFor[HashSet[Weekday]](), Shape{Elem: wd, IsSet: true}},
		{"list", reflect.TypeFor[List[Weekday]](), Shape{Elem: wd}},
		{"set interface", reflect.TypeFor[WeekdaySet](), Shape{Elem: wd, IsSet: true}},
		{"seq interface", reflect.TypeFor[WeekdaySeq](), Shape{Elem: wd}},
		{"ambiguous", reflect.TypeFor[ambiguous](), Shape{}},
		{"dictionary methods", reflect.TypeFor[schedule](), Shape{}},
		{"plain struct", reflect.TypeFor[struct{ A []Weekday }](), Shape{}},
	}
	for _, tc := range cases {
		if got := Classify(Describe(tc.t)); got != tc.want {
			t.Fatalf("%s: Classify(%v) = %+v, want %+v", tc.name, tc.t, got, tc.want)
		}
	}
}

func TestClassifyHandBuilt(t *testing.T) {
	wd := reflect.TypeFor[Weekday]()
	str := reflect.TypeFor[string]()

	cases := []struct {
		name string
		d    TypeDesc
		want Shape
	}{
		{"rank 2 array", TypeDesc{Kind: KindArray, Rank: 2, Elem: wd}, Shape{}},
		{"rank 1 array", TypeDesc{Kind: KindArray, Rank: 1, Elem: wd}, Shape{Elem: wd, IsArray: true}},
		{"map kind ignores capabilities", TypeDesc{Kind: KindMap, Capabilities: []Capability{{Kind: CapSequence, Elem: wd}}}, Shape{}},
		{"string kind", TypeDesc{Kind: KindString, Capabilities: []Capability{{Kind: CapSequence, Elem: wd}}}, Shape{}},
		{"set without sequence", TypeDesc{Capabilities: []Capability{{Kind: CapSet, Elem: wd}}}, Shape{IsSet: true}},
		{"repeated element type", TypeDesc{Capabilities: []Capability{
			{Kind: CapSequence, Elem: wd}, {Kind: CapSequence, Elem: wd, Indexed: true},
		}}, Shape{Elem: wd}},
		{"map capability after sequence", TypeDesc{Capabilities: []Capability{
			{Kind: CapSequence, Elem: wd}, {Kind: CapSet, Elem: wd}, {Kind: CapMap, Elem: wd},
		}}, Shape{}},
		{"set after conflicting sequences", TypeDesc{Capabilities: []Capability{
			{Kind: CapSequence, Elem: wd}, {Kind: CapSequence, Elem: str}, {Kind: CapSet, Elem: wd},
		}}, Shape{}},
		{"abstract sequence", TypeDesc{Abstract: true, Capabilities: []Capability{{Kind: CapSequence, Elem: str}}}, Shape{Elem: str}},
	}
	for _, tc := range cases {
		if got := Classify(tc.d); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestDescribeCapabilities(t *testing.T) {
	d := Describe(reflect.TypeFor[List[Weekday]]())
	if d.Kind != KindOther || d.Abstract {
		t.Fatalf("List: kind=%v abstract=%v", d.Kind, d.Abstract)
	}
	var indexed, insert bool
	for _, c := range d.Capabilities {
		switch {
		case c.Kind == CapSequence && c.Method == "All":
			indexed = c.Indexed
		case c.Kind == CapInsert:
			insert = c.Method == "Add"
		}
	}
	if !indexed || !insert {
		t.Fatalf("List capabilities = %+v", d.Capabilities)
	}

	if d := Describe(reflect.TypeFor[WeekdaySet]()); !d.Abstract || len(d.Capabilities) != 2 {
		t.Fatalf("WeekdaySet = %+v", d)
	}
	if d := Describe(reflect.TypeFor[[3]string]()); d.Kind != KindArray || d.Rank != 1 {
		t.Fatalf("[3]string = %+v", d)
	}
}

func TestBuffers(t *testing.T) {
	var s HashSet[any]
	for _, v := range []any{1, "a", 1} {
		if err := s.Add(v); err != nil {
			t.Fatalf("Add(%v): %v", v, err)
		}
	}
	if s.Len() != 2 || !s.Contains("a") || s.Contains(2) {
		t.Fatalf("set = %v", s.order)
	}
	if err := s.Add([]int{1}); err == nil {
		t.Fatalf("expected ErrUnhashable")
	}
	if s.Contains([]int{1}) {
		t.Fatalf("unhashable value reported as member")
	}

	var l List[string]
	l.Add("x")
	l.Add("x")
	if l.Len() != 2 {
		t.Fatalf("list len = %d", l.Len())
	}
	items := l.Items()
	items[0] = "mutated"
	if l.Items()[0] != "x" {
		t.Fatalf("Items must return a copy")
	}

	var nilList *List[int]
	if nilList.Len() != 0 || nilList.Items() != nil {
		t.Fatalf("nil list must be empty")
	}
}
