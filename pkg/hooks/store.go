package hooks

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// HookType identifies the type of hook call for order validation.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookEffect
	HookRef
	HookMemo
	HookReducer
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookState:
		return "State"
	case HookEffect:
		return "Effect"
	case HookRef:
		return "Ref"
	case HookMemo:
		return "Memo"
	case HookReducer:
		return "Reducer"
	default:
		return "Unknown"
	}
}

// Cleanup is returned by an effect and runs before the effect re-runs or when
// the owning component unmounts.
type Cleanup func()

// EffectFunc is the body of an effect.
type EffectFunc func() Cleanup

// slot is one positional hook cell.
type slot struct {
	kind  HookType
	vtype reflect.Type // value type for State/Ref/Memo/Reducer

	value any // current state, *Ref[T] or memoized value
	bound any // stable *Setter[T] or dispatch func

	deps    []any
	effect  EffectFunc
	pending bool
	cleanup Cleanup
}

func (sl *slot) describe() string {
	if sl.vtype == nil {
		return sl.kind.String()
	}
	return fmt.Sprintf("%s[%s]", sl.kind, sl.vtype)
}

// Store is the hook storage of one mounted composite. Slot identity is purely
// positional: the Nth hook call of every render binds to slot N.
//
// A Store is only touched by the goroutine that renders and commits its
// component. Setters may be called from anywhere because they only enqueue.
type Store struct {
	id   uint64
	name string

	slots []*slot

	// locked is set once the first render completed; from then on the
	// hook sequence is fixed.
	locked bool

	disposed atomic.Bool
}

var storeIDCounter atomic.Uint64

// NewStore creates an empty store for the named component.
func NewStore(name string) *Store {
	return &Store{
		id:   storeIDCounter.Add(1),
		name: name,
	}
}

// ID returns the unique identifier for this store.
func (st *Store) ID() uint64 {
	return st.id
}

// Name returns the component name the store belongs to.
func (st *Store) Name() string {
	return st.name
}

// Len returns the number of hook slots.
func (st *Store) Len() int {
	return len(st.slots)
}

// Kind returns the hook type of slot i, or 0 if out of range.
func (st *Store) Kind(i int) HookType {
	if i < 0 || i >= len(st.slots) {
		return 0
	}
	return st.slots[i].kind
}

// Value returns the stored value of slot i. Effects have no value.
func (st *Store) Value(i int) any {
	if i < 0 || i >= len(st.slots) {
		return nil
	}
	return st.slots[i].value
}

// Disposed returns true once the owning component has unmounted.
func (st *Store) Disposed() bool {
	return st.disposed.Load()
}

// Apply runs a queued state mutation against slot i.
func (st *Store) Apply(i int, fn func(any) any) error {
	if st.disposed.Load() {
		return ErrDisposed
	}
	if i < 0 || i >= len(st.slots) {
		return fmt.Errorf("%w: slot %d of %s (have %d)", ErrNoSlot, i, st.name, len(st.slots))
	}
	sl := st.slots[i]
	if sl.kind != HookState && sl.kind != HookReducer {
		return fmt.Errorf("%w: slot %d of %s is %s", ErrNoSlot, i, st.name, sl.kind)
	}
	sl.value = fn(sl.value)
	return nil
}

// HasPendingEffects returns true if a render scheduled at least one effect
// that has not run yet.
func (st *Store) HasPendingEffects() bool {
	if st.disposed.Load() {
		return false
	}
	for _, sl := range st.slots {
		if sl.pending {
			return true
		}
	}
	return false
}

// FlushEffects runs every scheduled effect in declaration order. For each one
// the previous cleanup runs first, then the effect, and its returned cleanup
// replaces the old one. It returns how many effects and cleanups ran.
func (st *Store) FlushEffects() (effects, cleanups int) {
	if st.disposed.Load() {
		return 0, 0
	}
	for _, sl := range st.slots {
		if sl.kind != HookEffect || !sl.pending {
			continue
		}
		sl.pending = false
		if sl.cleanup != nil {
			c := sl.cleanup
			sl.cleanup = nil
			c()
			cleanups++
		}
		if sl.effect != nil {
			sl.cleanup = sl.effect()
			effects++
		}
		if st.disposed.Load() {
			// The effect unmounted its own component
			break
		}
	}
	return effects, cleanups
}

// Dispose runs every outstanding cleanup in declaration order, drops pending
// effects and turns later setter calls into no-ops. It is idempotent and
// returns how many cleanups ran.
func (st *Store) Dispose() int {
	if st.disposed.Swap(true) {
		return 0
	}
	ran := 0
	for _, sl := range st.slots {
		sl.pending = false
		if sl.cleanup != nil {
			c := sl.cleanup
			sl.cleanup = nil
			c()
			ran++
		}
	}
	return ran
}
