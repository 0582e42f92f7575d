package hooks

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrHookOrder is matched by every *HookOrderError.
	ErrHookOrder = errors.New("hooks: hook order changed between renders")

	// ErrOutsideRender is reported when a hook runs on a scope whose render
	// has already finished.
	ErrOutsideRender = errors.New("hooks: hook called outside render")

	// ErrDisposed is returned when mutating the store of an unmounted component.
	ErrDisposed = errors.New("hooks: store disposed")

	// ErrNoSlot is returned when a queued mutation targets a slot that does
	// not hold state.
	ErrNoSlot = errors.New("hooks: no such state slot")
)

// HookOrderError describes a render whose hook sequence differs from the
// sequence locked in by the component's first render.
type HookOrderError struct {
	Component string
	Index     int
	Expected  string // "" when the render called an extra hook
	Got       string // "" when the render called fewer hooks
}

// Error implements the error interface.
func (e *HookOrderError) Error() string {
	switch {
	case e.Expected == "":
		return fmt.Sprintf("hooks: %s called an extra %s hook at index %d", e.Component, e.Got, e.Index)
	case e.Got == "":
		return fmt.Sprintf("hooks: %s called fewer hooks: missing %s at index %d", e.Component, e.Expected, e.Index)
	default:
		return fmt.Sprintf("hooks: %s hook order changed at index %d: expected %s, got %s",
			e.Component, e.Index, e.Expected, e.Got)
	}
}

// Unwrap allows errors.Is(err, ErrHookOrder).
func (e *HookOrderError) Unwrap() error {
	return ErrHookOrder
}

// Update is one queued state mutation.
type Update struct {
	Store *Store
	Slot  int
	Apply func(any) any
}

// Queue receives state mutations. The reconciler implements it and applies
// them at the next commit.
type Queue interface {
	Enqueue(u Update)
}

// ErrorReporter is implemented by queues that want to hear about hook misuse
// detected after a render has returned.
type ErrorReporter interface {
	Report(err error)
}

// Scope is the hook-dispatch context of one render invocation. The reconciler
// creates it right before calling a render function and ends it right after;
// every hook takes the scope explicitly, so independent reconcilers never
// share routing state.
type Scope struct {
	store  *Store
	queue  Queue
	idx    int
	closed bool
	errs   []error

	// undo restores effect slots this render rescheduled.
	undo []func()
}

// Begin opens a scope that binds hook calls to store.
func Begin(store *Store, queue Queue) *Scope {
	return &Scope{store: store, queue: queue}
}

// Store returns the store the scope writes to.
func (s *Scope) Store() *Store {
	return s.store
}

// Component returns the name of the component being rendered.
func (s *Scope) Component() string {
	return s.store.name
}

// End closes the scope and reports every hook violation seen during the
// render. The first completed render locks the hook sequence.
func (s *Scope) End() error {
	if s.closed {
		return nil
	}
	s.closed = true
	st := s.store
	if !st.locked {
		st.locked = true
	} else if s.idx < len(st.slots) {
		s.errs = append(s.errs, &HookOrderError{
			Component: st.name,
			Index:     s.idx,
			Expected:  st.slots[s.idx].describe(),
		})
	}
	return errors.Join(s.errs...)
}

// Discard reverts the effect scheduling done by the render, leaving every
// effect slot as it was before the render began. Call it after End when the
// render's output is thrown away.
func (s *Scope) Discard() {
	for i := len(s.undo) - 1; i >= 0; i-- {
		s.undo[i]()
	}
	s.undo = nil
}

// use binds the next hook call to its slot. fresh is true when the slot was
// just created. A nil slot means the call was rejected and recorded as an
// error; the hook must then fall back to its initial value without touching
// the store.
func (s *Scope) use(kind HookType, vtype reflect.Type) (sl *slot, fresh bool) {
	if s.closed {
		err := fmt.Errorf("%w: %s after its render returned", ErrOutsideRender, s.store.name)
		if r, ok := s.queue.(ErrorReporter); ok {
			r.Report(err)
		}
		return nil, false
	}
	st := s.store
	idx := s.idx
	s.idx++

	if idx < len(st.slots) {
		sl = st.slots[idx]
		if sl.kind != kind || sl.vtype != vtype {
			got := &slot{kind: kind, vtype: vtype}
			s.errs = append(s.errs, &HookOrderError{
				Component: st.name,
				Index:     idx,
				Expected:  sl.describe(),
				Got:       got.describe(),
			})
			return nil, false
		}
		return sl, false
	}

	if st.locked {
		got := &slot{kind: kind, vtype: vtype}
		s.errs = append(s.errs, &HookOrderError{
			Component: st.name,
			Index:     idx,
			Got:       got.describe(),
		})
		return nil, false
	}

	sl = &slot{kind: kind, vtype: vtype}
	st.slots = append(st.slots, sl)
	return sl, true
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
