// Package hooks provides per-component local state for the reconciler.
//
// Each mounted composite owns a Store of positional slots. While its render
// function runs, the reconciler hands it a Scope; every hook call on that
// scope binds to the next slot, so hooks must be called unconditionally and
// in the same order on every render.
//
// # Hooks
//
//	count, setCount := hooks.UseState(s, 0)      // lazy initial value
//	ref := hooks.UseRef(s, "")                   // stable mutable cell
//	total := hooks.UseMemo(s, sum, []any{items}) // cached derivation
//	hooks.UseEffect(s, func() hooks.Cleanup {    // runs after commit
//	    return func() { /* cleanup */ }
//	}, []any{count})
//
// # State Updates
//
// Setters never write the slot directly. They enqueue the mutation on the
// reconciler, which applies all pending mutations of a component in enqueue
// order and re-renders it once at the next commit.
//
// # Hook Order
//
// The first render locks the sequence of hook types and value types. A later
// render that deviates gets a *HookOrderError from Scope.End; the offending
// hook falls back to its initial value and the stored slots stay intact.
package hooks
