package hooks

import "sync"

// Ref holds a mutable value whose identity survives re-renders. Writing it
// does not schedule a render.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	mu    sync.RWMutex
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set sets the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
}

// UseRef binds the next slot to a ref created with initial on first render.
// Every render returns the same *Ref.
func UseRef[T any](s *Scope, initial T) *Ref[T] {
	sl, fresh := s.use(HookRef, typeOf[T]())
	if sl == nil {
		return &Ref[T]{value: initial}
	}
	if fresh {
		sl.value = &Ref[T]{value: initial}
	}
	return sl.value.(*Ref[T])
}
