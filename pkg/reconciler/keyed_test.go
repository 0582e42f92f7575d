package reconciler

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reactor/pkg/hooks"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/vtest"
)

func keyedList(keys ...string) *vdom.Node {
	kids := vdom.Map(keys, func(k string) string { return k }, func(k string) *vdom.Node {
		return vdom.H(vtest.Label, vdom.Props{"text": k})
	})
	return vdom.H(vtest.VStack, nil, kids...)
}

func snapshotChildren(v *vtest.View) []*vtest.View {
	return append([]*vtest.View(nil), v.Children...)
}

func TestKeyedReorderMovesTargets(t *testing.T) {
	r, ren := newTestReconciler(t)
	id := mustMount(t, r, keyedList("a", "b", "c"), ren.Root)
	stack := ren.Root.Child(0)
	before := snapshotChildren(stack)
	ren.Reset()

	if err := r.Update(id, keyedList("c", "a", "b")); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if diff := cmp.Diff([]string{"c", "a", "b"}, labels(stack)); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	want := []*vtest.View{before[2], before[0], before[1]}
	for i, v := range want {
		if stack.Child(i) != v {
			t.Errorf("child %d = %s, want %s", i, stack.Child(i), v)
		}
	}
	if n := ren.Count(vtest.OpMove); n != 1 {
		t.Errorf("moves = %d, want 1", n)
	}
	if n := ren.Count(vtest.OpMount) + ren.Count(vtest.OpInsert) + ren.Count(vtest.OpUnmount); n != 0 {
		t.Errorf("mount/insert/unmount calls = %d, want 0 (ops %v)", n, ren.Ops())
	}
}

func TestKeyedReorderWithoutMoverRemounts(t *testing.T) {
	ren := vtest.NewRenderer()
	r := New(ren.Basic(), WithLogger(quietLogger()))
	id := mustMount(t, r, keyedList("a", "b", "c"), ren.Root)
	stack := ren.Root.Child(0)
	before := snapshotChildren(stack)
	ren.Reset()

	if err := r.Update(id, keyedList("c", "a", "b")); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if ren.Count(vtest.OpUnmount) != 1 || ren.Count(vtest.OpMount) != 1 {
		t.Errorf("ops = %v, want one unmount and one mount", ren.Ops())
	}
	if !before[2].Destroyed {
		t.Error("out-of-order child should have been remounted")
	}
	if before[0].Destroyed || before[1].Destroyed {
		t.Error("in-order children should be kept")
	}

	got := labels(stack)
	sort.Strings(got)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
}

func TestKeyedInsertInMiddle(t *testing.T) {
	r, ren := newTestReconciler(t)
	id := mustMount(t, r, keyedList("a", "b"), ren.Root)
	stack := ren.Root.Child(0)
	ren.Reset()

	if err := r.Update(id, keyedList("a", "x", "b")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "x", "b"}, labels(stack)); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	if ren.Count(vtest.OpInsert) != 1 || ren.Count(vtest.OpMove) != 0 {
		t.Errorf("ops = %v, want a single insert", ren.Ops())
	}
}

func TestKeyedRemoveMiddle(t *testing.T) {
	r, ren := newTestReconciler(t)
	id := mustMount(t, r, keyedList("a", "b", "c"), ren.Root)
	stack := ren.Root.Child(0)
	b := stack.Child(1)
	ren.Reset()

	if err := r.Update(id, keyedList("a", "c")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, labels(stack)); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	if !b.Destroyed {
		t.Error("removed child should be unmounted")
	}
	if ren.Count(vtest.OpMove) != 0 || ren.Count(vtest.OpUnmount) != 1 {
		t.Errorf("ops = %v, want a single unmount", ren.Ops())
	}
}

func TestKeyedSameKeyDifferentTypeRemounts(t *testing.T) {
	r, ren := newTestReconciler(t)
	id := mustMount(t, r, vdom.H(vtest.VStack, nil,
		vdom.Keyed("k", vdom.H(vtest.Label, vdom.Props{"text": "label"})),
	), ren.Root)
	stack := ren.Root.Child(0)

	if err := r.Update(id, vdom.H(vtest.VStack, nil,
		vdom.Keyed("k", vdom.H(vtest.Button, vdom.Props{"title": "button"})),
	)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if stack.Child(0).Type != "Button" || len(stack.Children) != 1 {
		t.Errorf("tree = %q", ren.Dump())
	}
}

func TestKeyedCompositesKeepState(t *testing.T) {
	r, ren := newTestReconciler(t)
	setters := map[string]*hooks.Setter[string]{}

	item := vdom.Component("Item", func(s *hooks.Scope, p vdom.Props, _ []*vdom.Node) []*vdom.Node {
		name := p.String("name")
		text, set := hooks.UseState(s, name)
		setters[name] = set
		return vdom.Fragment(vdom.H(vtest.Label, vdom.Props{"text": text}))
	})
	list := func(names ...string) *vdom.Node {
		return vdom.H(vtest.VStack, nil, vdom.Map(names, func(n string) string { return n }, func(n string) *vdom.Node {
			return vdom.C(item, vdom.Props{"name": n})
		})...)
	}

	id := mustMount(t, r, list("a", "b"), ren.Root)
	setters["b"].Set("B*")
	mustCommit(t, r)
	ren.Reset()

	if err := r.Update(id, list("b", "a")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if diff := cmp.Diff([]string{"B*", "a"}, labels(ren.Root)); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	if ren.Count(vtest.OpMount)+ren.Count(vtest.OpInsert) != 0 {
		t.Errorf("ops = %v, want no mounts", ren.Ops())
	}
}
