package reconciler

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reactor/pkg/hooks"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/vtest"
)

func TestEffectGatingAcrossUpdates(t *testing.T) {
	r, ren := newTestReconciler(t)
	var log []string
	watcher := vdom.Component("Watcher", func(s *hooks.Scope, p vdom.Props, _ []*vdom.Node) []*vdom.Node {
		dep := p.String("dep")
		hooks.UseEffect(s, func() hooks.Cleanup {
			log = append(log, "run "+dep)
			return func() { log = append(log, "cleanup "+dep) }
		}, []any{dep})
		return nil
	})

	id := mustMount(t, r, vdom.C(watcher, vdom.Props{"dep": "v1"}), ren.Root)
	for _, dep := range []string{"v1", "v1", "v2"} {
		if err := r.Update(id, vdom.C(watcher, vdom.Props{"dep": dep})); err != nil {
			t.Fatalf("Update(%s): %v", dep, err)
		}
	}
	if err := r.Unmount(id); err != nil {
		t.Fatalf("Unmount: %v", err)
	}

	want := []string{"run v1", "cleanup v1", "run v2", "cleanup v2"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("effect log (-want +got):\n%s", diff)
	}
}

func TestEffectsRunAfterCommitParentFirst(t *testing.T) {
	r, ren := newTestReconciler(t)
	var log []string

	child := vdom.Component("Child", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		hooks.UseEffect(s, func() hooks.Cleanup {
			log = append(log, "child effect")
			return nil
		}, nil)
		log = append(log, "child render")
		return vdom.Fragment(vdom.H(vtest.Label, nil))
	})
	parent := vdom.Component("Parent", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		hooks.UseEffect(s, func() hooks.Cleanup {
			log = append(log, "parent effect 1")
			return nil
		}, nil)
		hooks.UseEffect(s, func() hooks.Cleanup {
			log = append(log, "parent effect 2")
			return nil
		}, nil)
		log = append(log, "parent render")
		return vdom.Fragment(vdom.H(vtest.VStack, nil, vdom.C(child, nil)))
	})

	mustMount(t, r, vdom.C(parent, nil), ren.Root)

	want := []string{
		"parent render",
		"child render",
		"parent effect 1",
		"parent effect 2",
		"child effect",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestEffectStateChangeWaitsForNextCommit(t *testing.T) {
	r, ren := newTestReconciler(t)
	loader := vdom.Component("Loader", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		status, setStatus := hooks.UseState(s, "loading")
		hooks.UseMount(s, func() hooks.Cleanup {
			setStatus.Set("ready")
			return nil
		})
		return vdom.Fragment(vdom.H(vtest.Label, vdom.Props{"text": status}))
	})

	mustMount(t, r, vdom.C(loader, nil), ren.Root)
	if got := labels(ren.Root); got[0] != "loading" {
		t.Errorf("label after mount = %q, want loading", got[0])
	}
	if r.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", r.Pending())
	}

	mustCommit(t, r)
	if got := labels(ren.Root); got[0] != "ready" {
		t.Errorf("label after commit = %q, want ready", got[0])
	}
	if r.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", r.Pending())
	}
}

func TestRemovedChildRunsCleanup(t *testing.T) {
	r, ren := newTestReconciler(t)
	cleaned := 0
	var setShow *hooks.Setter[bool]

	child := vdom.Component("Child", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		hooks.UseMount(s, func() hooks.Cleanup {
			return func() { cleaned++ }
		})
		return nil
	})
	parent := vdom.Component("Parent", func(s *hooks.Scope, _ vdom.Props, _ []*vdom.Node) []*vdom.Node {
		show, set := hooks.UseState(s, true)
		setShow = set
		if !show {
			return vdom.Fragment(vdom.Null())
		}
		return vdom.Fragment(vdom.C(child, nil))
	})

	mustMount(t, r, vdom.C(parent, nil), ren.Root)
	setShow.Set(false)
	mustCommit(t, r)

	if cleaned != 1 {
		t.Errorf("cleanups = %d, want 1", cleaned)
	}
}

func TestStrictHooksDiscardsRejectedEffects(t *testing.T) {
	config := DefaultConfig()
	config.StrictHooks = true
	r, ren := newTestReconciler(t, WithConfig(config))

	var log []string
	watcher := vdom.Component("Watcher", func(s *hooks.Scope, p vdom.Props, _ []*vdom.Node) []*vdom.Node {
		dep := p.String("dep")
		hooks.UseEffect(s, func() hooks.Cleanup {
			log = append(log, "run "+dep)
			return func() { log = append(log, "cleanup "+dep) }
		}, []any{dep})
		if p.Bool("extra") {
			hooks.UseRef(s, 0)
		}
		return vdom.Fragment(vdom.H(vtest.Label, vdom.Props{"text": dep}))
	})

	id := mustMount(t, r, vdom.C(watcher, vdom.Props{"dep": "v1"}), ren.Root)

	err := r.Update(id, vdom.C(watcher, vdom.Props{"dep": "v2", "extra": true}))
	if !errors.Is(err, hooks.ErrHookOrder) {
		t.Fatalf("err = %v, want ErrHookOrder", err)
	}
	if diff := cmp.Diff([]string{"run v1"}, log); diff != "" {
		t.Errorf("effects after rejected render (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"v1"}, labels(ren.Root)); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}

	if err := r.Update(id, vdom.C(watcher, vdom.Props{"dep": "v2"})); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{"run v1", "cleanup v1", "run v2"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("effects (-want +got):\n%s", diff)
	}
}
