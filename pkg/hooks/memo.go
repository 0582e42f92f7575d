package hooks

import "github.com/vango-dev/reactor/internal/equal"

// UseMemo caches compute's result in the next slot and recomputes it only
// when deps change. Nil deps recompute on every render.
func UseMemo[T any](s *Scope, compute func() T, deps []any) T {
	sl, fresh := s.use(HookMemo, typeOf[T]())
	if sl == nil {
		return compute()
	}
	if fresh || deps == nil || !equal.Slices(sl.deps, deps) {
		sl.value = compute()
		sl.deps = cloneDeps(deps)
	}
	v, _ := sl.value.(T)
	return v
}
