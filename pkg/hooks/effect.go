package hooks

import "github.com/vango-dev/reactor/internal/equal"

// UseEffect declares a side effect for the next slot.
//
// With nil deps the effect runs after every render. Otherwise it runs after
// the first render and after any render whose deps differ from the previous
// render's deps; pass an empty, non-nil slice to run it once.
//
// The effect never runs during render. It is scheduled and run after the
// commit: first the cleanup from its previous run, then fn, whose returned
// cleanup is kept for the next run or for unmount.
//
//	hooks.UseEffect(s, func() hooks.Cleanup {
//	    sub := feed.Subscribe(id)
//	    return sub.Close
//	}, []any{id})
func UseEffect(s *Scope, fn EffectFunc, deps []any) {
	sl, fresh := s.use(HookEffect, nil)
	if sl == nil {
		return
	}
	if !fresh && deps != nil && equal.Slices(sl.deps, deps) {
		return
	}
	effect, prevDeps, pending := sl.effect, sl.deps, sl.pending
	s.undo = append(s.undo, func() {
		sl.effect, sl.deps, sl.pending = effect, prevDeps, pending
	})
	sl.effect = fn
	sl.deps = cloneDeps(deps)
	sl.pending = true
}

// UseMount runs fn once after the first commit and its cleanup on unmount.
func UseMount(s *Scope, fn EffectFunc) {
	UseEffect(s, fn, []any{})
}

func cloneDeps(deps []any) []any {
	if deps == nil {
		return nil
	}
	out := make([]any, len(deps))
	copy(out, deps)
	return out
}
