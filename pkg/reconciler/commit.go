package reconciler

import (
	"context"
	"errors"
	"runtime/debug"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Pending returns the number of state mutations waiting for the next commit.
func (r *Reconciler) Pending() int {
	return r.queue.len()
}

// Commit applies every queued state mutation and re-renders the affected
// composites, ancestors before descendants and otherwise in the order they
// first received a mutation. Each composite renders at most once per
// commit, even when several of its slots changed or an ancestor re-rendered
// it. Mutations for unmounted composites
// are dropped. Effects run after all renders; mutations they queue wait for
// the next commit.
func (r *Reconciler) Commit() error {
	entries := r.queue.drain()
	if len(entries) == 0 {
		return nil
	}

	start := time.Now()
	_, span := r.startSpan("reactor.Commit", attribute.Int("reactor.instances", len(entries)))

	p := &pass{}
	applied, stale := 0, 0
	r.locked(func() {
		r.epoch++
		dirty := make([]*record, 0, len(entries))
		for _, e := range entries {
			rec := r.arena.get(r.owners[e.store.ID()])
			if rec == nil || rec.store != e.store {
				stale += len(e.updates)
				continue
			}
			for _, u := range e.updates {
				if err := e.store.Apply(u.Slot, u.Apply); err != nil {
					p.fail(err)
					continue
				}
				applied++
			}
			dirty = append(dirty, rec)
		}

		r.ancestorsFirst(dirty)
		for _, rec := range dirty {
			if r.arena.get(rec.id) != rec || rec.rendered == r.epoch {
				continue
			}
			r.update(p, rec, rec.node)
		}
		r.emit(OpCommit, nil)
	})

	r.flushEffects(p)
	err := r.finish(p)
	endSpan(span, p, err)

	if stale > 0 {
		r.metrics.staleUpdates.Add(float64(stale))
		r.logger.Debug("stale updates dropped", "count", stale)
	}
	duration := time.Since(start)
	r.metrics.commits.Inc()
	r.metrics.commitDuration.Observe(duration.Seconds())
	r.logger.Debug("commit",
		"instances", len(entries),
		"applied", applied,
		"renders", p.updates,
		"effects", p.effects,
		"duration", duration)
	return err
}

// ancestorsFirst orders dirty so every composite comes after its dirty
// ancestors. The sort is stable, keeping enqueue order among equal depths.
func (r *Reconciler) ancestorsFirst(dirty []*record) {
	if len(dirty) < 2 {
		return
	}
	depth := make(map[*record]int, len(dirty))
	for _, rec := range dirty {
		d := 0
		for cur := r.arena.get(rec.parent); cur != nil; cur = r.arena.get(cur.parent) {
			d++
		}
		depth[rec] = d
	}
	slices.SortStableFunc(dirty, func(a, b *record) int {
		return depth[a] - depth[b]
	})
}

// flushEffects runs the effects a pass scheduled, parents before children.
func (r *Reconciler) flushEffects(p *pass) {
	for _, st := range p.scheduled {
		effects, cleanups := st.FlushEffects()
		p.effects += effects
		p.cleanups += cleanups
		r.metrics.effectsRun.Add(float64(effects))
		r.metrics.cleanupsRun.Add(float64(cleanups))
	}
	p.scheduled = nil
}

// Dispatch queues fn to run on the Run loop, followed by a commit. Use it to
// deliver platform events such as button presses to handlers.
func (r *Reconciler) Dispatch(fn func()) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	select {
	case r.dispatchCh <- fn:
		return nil
	case <-r.done:
		return ErrClosed
	default:
		r.logger.Warn("dispatch queue full, discarding callback")
		return ErrQueueFull
	}
}

// Run drives the reconciler until ctx is done: it runs dispatched functions
// and commits whenever mutations are queued. Commit errors are reported
// through the logger and error handler. Run returns ctx.Err(); after it
// returns Dispatch fails with ErrClosed.
func (r *Reconciler) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return errors.New("reconciler: Run called twice")
	}
	r.ctx.Store(&ctx)
	defer close(r.done)

	r.logger.Info("reconciler running")
	defer r.logger.Info("reconciler stopped")

	// Mutations queued before Run started
	if r.queue.len() > 0 {
		_ = r.Commit()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fn := <-r.dispatchCh:
			r.executeDispatch(fn)
			_ = r.Commit()

		case <-r.queue.wake:
			_ = r.Commit()
		}
	}
}

// executeDispatch runs a dispatched function, recovering panics so one
// failing handler does not stop the loop.
func (r *Reconciler) executeDispatch(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.Error("dispatch panic",
				"panic", v,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
