package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reactor/pkg/hooks"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/vtest"
)

func TestStaleUpdateIsNoop(t *testing.T) {
	r, ren := newTestReconciler(t)
	counter := newCounter()
	id := mustMount(t, r, vdom.C(counter.comp, vdom.Props{"value": 0}), ren.Root)
	button := ren.Root.Find("Button")[0]

	button.Press()
	if err := r.Unmount(id); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	rendersBefore := counter.renders

	if err := r.Commit(); err != nil {
		t.Errorf("stale commit should not error: %v", err)
	}
	if counter.renders != rendersBefore {
		t.Error("unmounted component must not re-render")
	}

	// Setters of an unmounted component no longer enqueue
	button.Press()
	if r.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", r.Pending())
	}
}

func TestCommitUnmountsChildBeforeItsQueuedUpdate(t *testing.T) {
	r, ren := newTestReconciler(t)
	var setShow *hooks.Setter[bool]
	var setChild *hooks.Setter[int]
	childRenders := 0

	child := vdom.Component("Child", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		childRenders++
		_, setChild = hooks.UseState(s, 0)
		return nil
	})
	parent := vdom.Component("Parent", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		show, set := hooks.UseState(s, true)
		setShow = set
		if show {
			return vdom.Fragment(vdom.C(child, nil))
		}
		return nil
	})
	mustMount(t, r, vdom.C(parent, nil), ren.Root)

	setShow.Set(false)
	setChild.Set(5)
	if err := r.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if childRenders != 1 {
		t.Errorf("child renders = %d, want 1", childRenders)
	}
}

func TestCommitRendersEachComponentOnce(t *testing.T) {
	r, ren := newTestReconciler(t)
	var setParent, setChild *hooks.Setter[int]
	parentRenders, childRenders := 0, 0

	child := vdom.Component("Child", func(s *hooks.Scope, p vdom.Props, _ []*vdom.Node) []*vdom.Node {
		childRenders++
		n, set := hooks.UseState(s, 0)
		setChild = set
		return vdom.Fragment(vdom.H(vtest.Label, vdom.Props{"text": p.Int("base") + n}))
	})
	parent := vdom.Component("Parent", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		parentRenders++
		base, set := hooks.UseState(s, 0)
		setParent = set
		return vdom.Fragment(vdom.C(child, vdom.Props{"base": base}))
	})
	mustMount(t, r, vdom.C(parent, nil), ren.Root)

	setParent.Set(100)
	setChild.Set(1)
	mustCommit(t, r)

	if parentRenders != 2 || childRenders != 2 {
		t.Errorf("renders parent=%d child=%d, want 2 and 2", parentRenders, childRenders)
	}
	if got := ren.Root.Find("Label")[0].Props.Int("text"); got != 101 {
		t.Errorf("text = %d, want 101", got)
	}
}

func TestCommitRendersChildOnceWhenQueuedBeforeParent(t *testing.T) {
	var updates []string
	r, ren := newTestReconciler(t, WithObserver(ObserverFunc(func(e Event) {
		if e.Op == OpUpdate {
			updates = append(updates, e.Type)
		}
	})))
	var setParent, setChild *hooks.Setter[int]
	parentRenders, childRenders := 0, 0

	child := vdom.Component("Child", func(s *hooks.Scope, p vdom.Props, _ []*vdom.Node) []*vdom.Node {
		childRenders++
		n, set := hooks.UseState(s, 0)
		setChild = set
		return vdom.Fragment(vdom.H(vtest.Label, vdom.Props{"text": p.Int("base") + n}))
	})
	parent := vdom.Component("Parent", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		parentRenders++
		base, set := hooks.UseState(s, 0)
		setParent = set
		return vdom.Fragment(vdom.H(vtest.VStack, nil, vdom.C(child, vdom.Props{"base": base})))
	})
	mustMount(t, r, vdom.C(parent, nil), ren.Root)

	setChild.Set(1)
	setParent.Set(100)
	mustCommit(t, r)

	if parentRenders != 2 || childRenders != 2 {
		t.Errorf("renders parent=%d child=%d, want 2 and 2", parentRenders, childRenders)
	}
	if got := ren.Root.Find("Label")[0].Props.Int("text"); got != 101 {
		t.Errorf("text = %d, want 101", got)
	}
	want := []string{"Parent", "Child", "Label"}
	if diff := cmp.Diff(want, updates); diff != "" {
		t.Errorf("update events (-want +got):\n%s", diff)
	}
}

func TestRunDispatchAndCommit(t *testing.T) {
	r, ren := newTestReconciler(t)
	counter := newCounter()
	mustMount(t, r, vdom.C(counter.comp, vdom.Props{"value": 7}), ren.Root)
	stack := ren.Root.Child(0)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(ctx) }()

	if err := r.Dispatch(func() { stack.Child(0).Press() }); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	text := make(chan string, 1)
	if err := r.Dispatch(func() { text <- stack.Child(1).Text() }); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	select {
	case got := <-text:
		if got != "8" {
			t.Errorf("label = %q, want 8", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch did not run")
	}

	cancel()
	select {
	case err := <-runErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	if err := r.Dispatch(func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Dispatch after Run = %v, want ErrClosed", err)
	}
}

func TestRunCommitsSetterCalls(t *testing.T) {
	r, ren := newTestReconciler(t)
	var set *hooks.Setter[string]
	comp := vdom.Component("Status", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		v, sv := hooks.UseState(s, "idle")
		set = sv
		return vdom.Fragment(vdom.H(vtest.Label, vdom.Props{"text": v}))
	})
	mustMount(t, r, vdom.C(comp, nil), ren.Root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	// A setter called from another goroutine wakes the loop
	go set.Set("busy")

	deadline := time.After(5 * time.Second)
	for {
		text := make(chan string, 1)
		if err := r.Dispatch(func() { text <- ren.Root.Find("Label")[0].Text() }); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		select {
		case got := <-text:
			if got == "busy" {
				return
			}
		case <-deadline:
			t.Fatal("setter was never committed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDispatchRecoversPanics(t *testing.T) {
	r, _ := newTestReconciler(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	if err := r.Dispatch(func() { panic("handler bug") }); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	ran := make(chan struct{})
	if err := r.Dispatch(func() { close(ran) }); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("loop stopped after a panicking dispatch")
	}
}

func TestDispatchQueueFull(t *testing.T) {
	config := DefaultConfig()
	config.DispatchBuffer = 1
	r, _ := newTestReconciler(t, WithConfig(config))

	if err := r.Dispatch(func() {}); err != nil {
		t.Fatalf("first Dispatch: %v", err)
	}
	if err := r.Dispatch(func() {}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("second Dispatch = %v, want ErrQueueFull", err)
	}
}
