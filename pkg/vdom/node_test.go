package vdom

import (
	"testing"

	"github.com/vango-dev/reactor/pkg/hooks"
)

var (
	testView   = Host("View")
	testButton = Host("Button", testView)
	testIcon   = Host("IconButton", testButton)
	testLabel  = Host("Label", testView)
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "Null"},
		{KindHost, "Host"},
		{KindComposite, "Composite"},
		{Kind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNodeKind(t *testing.T) {
	comp := Component("Box", func(*hooks.Scope, Props, []*Node) []*Node { return nil })

	var nilNode *Node
	if nilNode.Kind() != KindNull {
		t.Error("nil node should be KindNull")
	}
	if Null().Kind() != KindNull {
		t.Error("Null() should be KindNull")
	}
	if H(testLabel, nil).Kind() != KindHost {
		t.Error("H() should be KindHost")
	}
	if C(comp, nil).Kind() != KindComposite {
		t.Error("C() should be KindComposite")
	}
	if nilNode.TypeName() != "null" {
		t.Errorf("TypeName = %q, want null", nilNode.TypeName())
	}
}

func TestIsSubtypeOf(t *testing.T) {
	comp := Component("Box", func(*hooks.Scope, Props, []*Node) []*Node { return nil })
	other := Component("Box", func(*hooks.Scope, Props, []*Node) []*Node { return nil })

	tests := []struct {
		name string
		node *Node
		typ  Type
		want bool
	}{
		{"same host", H(testButton, nil), testButton, true},
		{"direct base", H(testButton, nil), testView, true},
		{"transitive base", H(testIcon, nil), testView, true},
		{"sibling", H(testLabel, nil), testButton, false},
		{"base is not subtype of derived", H(testView, nil), testButton, false},
		{"same composite", C(comp, nil), comp, true},
		{"composite with same name", C(comp, nil), other, false},
		{"host vs composite", H(testView, nil), comp, false},
		{"null", Null(), testView, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsSubtypeOf(tt.typ); got != tt.want {
				t.Errorf("IsSubtypeOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	handler := func() {}
	type point struct{ x, y int }

	tests := []struct {
		name string
		a, b *Node
		want bool
	}{
		{"nil and null", nil, Null(), true},
		{"same props", H(testLabel, Props{"text": "42"}), H(testLabel, Props{"text": "42"}), true},
		{"different props", H(testLabel, Props{"text": "42"}), H(testLabel, Props{"text": "43"}), false},
		{"different type", H(testLabel, nil), H(testButton, nil), false},
		{"missing vs nil prop", H(testLabel, Props{"x": nil}), H(testLabel, nil), true},
		{"different key", Keyed("a", H(testLabel, nil)), Keyed("b", H(testLabel, nil)), false},
		{"deep struct prop", H(testLabel, Props{"p": point{1, 2}}), H(testLabel, Props{"p": point{1, 2}}), true},
		{"slice prop", H(testLabel, Props{"s": []string{"a"}}), H(testLabel, Props{"s": []string{"b"}}), false},
		{"handler never equal", H(testButton, Props{"onPress": handler}), H(testButton, Props{"onPress": handler}), false},
		{
			"children compared",
			H(testView, nil, H(testLabel, Props{"text": "a"})),
			H(testView, nil, H(testLabel, Props{"text": "b"})),
			false,
		},
		{
			"child count",
			H(testView, nil, H(testLabel, nil)),
			H(testView, nil, H(testLabel, nil), H(testLabel, nil)),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstructorsCompactNil(t *testing.T) {
	kids := []*Node{H(testLabel, nil), nil}
	n := H(testView, nil, kids...)

	if len(n.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(n.Children))
	}
	if n.Children[1].Kind() != KindNull {
		t.Error("nil child should become a null node")
	}
	if kids[1] != nil {
		t.Error("caller's slice was modified")
	}
}

func TestMapKeys(t *testing.T) {
	items := []string{"x", "y"}
	nodes := Map(items, func(s string) string { return s }, func(s string) *Node {
		return H(testLabel, Props{"text": s})
	})
	if !HasKeys(nodes) {
		t.Fatal("Map should produce keyed nodes")
	}
	if nodes[0].Key != "x" || nodes[1].Key != "y" {
		t.Errorf("keys = %q, %q", nodes[0].Key, nodes[1].Key)
	}
	if HasKeys([]*Node{H(testLabel, nil), nil}) {
		t.Error("HasKeys on unkeyed list should be false")
	}
}

func TestPropsAccessors(t *testing.T) {
	p := Props{"title": "hi", "count": 3, "value": 0.25, "on": true, "n": int64(7)}

	if p.String("title") != "hi" {
		t.Errorf("String = %q", p.String("title"))
	}
	if p.String("count") != "3" {
		t.Errorf("String(count) = %q, want 3", p.String("count"))
	}
	if p.Int("count") != 3 || p.Int("n") != 7 {
		t.Errorf("Int = %d, %d", p.Int("count"), p.Int("n"))
	}
	if p.Float("value") != 0.25 || p.Float("count") != 3 {
		t.Errorf("Float = %v, %v", p.Float("value"), p.Float("count"))
	}
	if !p.Bool("on") || p.Bool("missing") {
		t.Error("Bool mismatch")
	}
	if p.Func("title") != nil {
		t.Error("Func on non-func should be nil")
	}

	var nilProps Props
	if nilProps.Get("x") != nil || nilProps.Clone() != nil {
		t.Error("nil props should be safe")
	}
}

func TestPropsDecode(t *testing.T) {
	var in struct {
		Title string  `prop:"title"`
		Value float64 `prop:"value"`
		Count int
	}
	p := Props{"title": "Volume", "value": "0.5", "Count": 2}
	if err := p.Decode(&in); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if in.Title != "Volume" || in.Value != 0.5 || in.Count != 2 {
		t.Errorf("decoded = %+v", in)
	}
}
