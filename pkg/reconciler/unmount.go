package reconciler

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/reactor/pkg/vdom"
)

// Unmount removes the mounted node id and its subtree. Every effect cleanup
// in the subtree runs before the renderer is asked to destroy the targets
// that contain it. Cleanups run with the tree locked and must not call back
// into the reconciler; setters are fine.
func (r *Reconciler) Unmount(id ID) error {
	_, span := r.startSpan("reactor.Unmount", attribute.String("reactor.id", id.String()))

	p := &pass{}
	r.locked(func() {
		rec := r.arena.get(id)
		if rec == nil {
			p.fail(unknownInstance(id))
			return
		}
		if parent := r.arena.get(rec.parent); parent != nil {
			parent.children = remove(parent.children, id)
		} else {
			r.roots = remove(r.roots, id)
		}
		r.unmount(p, id)
	})

	err := r.finish(p)
	endSpan(span, p, err)
	return err
}

// unmount tears down the subtree at id. A composite disposes its store
// first and then its children; a host unmounts its children and then its
// own target.
func (r *Reconciler) unmount(p *pass, id ID) {
	rec := r.arena.get(id)
	if rec == nil {
		return
	}

	switch rec.kind {
	case vdom.KindComposite:
		n := rec.store.Dispose()
		p.cleanups += n
		r.metrics.cleanupsRun.Add(float64(n))
		delete(r.owners, rec.store.ID())
		for _, c := range rec.children {
			r.unmount(p, c)
		}

	case vdom.KindHost:
		for _, c := range rec.children {
			r.unmount(p, c)
		}
		if rec.target != nil {
			if err := r.renderer.Unmount(rec.target, rec.node); err != nil {
				p.fail(r.rendererError(rec, "unmount", err))
			}
		}
	}

	r.emit(OpUnmount, rec)
	r.arena.release(id)
	p.unmounts++
	r.metrics.unmounts.WithLabelValues(kindLabel(rec.kind)).Inc()
}

func remove(ids []ID, id ID) []ID {
	for i, c := range ids {
		if c == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
