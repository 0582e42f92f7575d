package hooks

// Setter updates one state slot. Calls never mutate the state inline: they
// queue the mutation for the next commit, and they become no-ops once the
// component has unmounted. A Setter is safe for concurrent use.
type Setter[T any] struct {
	store *Store
	slot  int
	queue Queue
}

// Set replaces the state with v at the next commit.
func (s *Setter[T]) Set(v T) {
	s.enqueue(func(any) any { return v })
}

// Update mutates the state in place at the next commit. Successive updates
// queued before a commit see each other's results, in enqueue order.
func (s *Setter[T]) Update(fn func(*T)) {
	s.enqueue(func(cur any) any {
		v, _ := cur.(T)
		fn(&v)
		return v
	})
}

func (s *Setter[T]) enqueue(apply func(any) any) {
	if s == nil || s.store == nil || s.queue == nil || s.store.disposed.Load() {
		return
	}
	s.queue.Enqueue(Update{Store: s.store, Slot: s.slot, Apply: apply})
}

// UseState binds the next slot to a state value. On the first render the slot
// is created with initial; afterwards initial is ignored and the stored value
// is returned. The returned Setter is the same on every render.
//
//	count, setCount := hooks.UseState(s, 0)
//	onPress := func() { setCount.Update(func(n *int) { *n++ }) }
func UseState[T any](s *Scope, initial T) (T, *Setter[T]) {
	sl, fresh := s.use(HookState, typeOf[T]())
	if sl == nil {
		return initial, &Setter[T]{}
	}
	if fresh {
		sl.value = initial
		sl.bound = &Setter[T]{store: s.store, slot: s.idx - 1, queue: s.queue}
	}
	v, _ := sl.value.(T)
	return v, sl.bound.(*Setter[T])
}

// UseReducer binds the next slot to a state value driven by reducer. Dispatch
// queues reducer(state, action) for the next commit.
func UseReducer[S, A any](s *Scope, reducer func(S, A) S, initial S) (S, func(A)) {
	sl, fresh := s.use(HookReducer, typeOf[S]())
	if sl == nil {
		return initial, func(A) {}
	}
	if fresh {
		sl.value = initial
		store, idx, queue := s.store, s.idx-1, s.queue
		sl.bound = func(action A) {
			if queue == nil || store.disposed.Load() {
				return
			}
			queue.Enqueue(Update{Store: store, Slot: idx, Apply: func(cur any) any {
				st, _ := cur.(S)
				return reducer(st, action)
			}})
		}
	}
	v, _ := sl.value.(S)
	return v, sl.bound.(func(A))
}
