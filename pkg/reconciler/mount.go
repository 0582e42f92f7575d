package reconciler

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/hooks"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Mount mounts n as a new root under parent and runs the effects its
// components scheduled. The returned ID stays valid until Unmount.
//
// Errors from the renderer and from hook misuse do not abort the mount:
// the affected subtree is left unrealized and the errors are returned
// joined once the rest of the tree is mounted.
func (r *Reconciler) Mount(n *vdom.Node, parent Target) (ID, error) {
	_, span := r.startSpan("reactor.Mount", attribute.String("reactor.type", n.TypeName()))

	p := &pass{}
	var id ID
	r.locked(func() {
		rec := r.mount(p, n, ID{}, parent, nil)
		r.roots = append(r.roots, rec.id)
		id = rec.id
	})

	r.flushEffects(p)
	err := r.finish(p)
	endSpan(span, p, err)

	r.logger.Info("root mounted",
		"id", id.String(),
		"type", n.TypeName(),
		"mounts", p.mounts,
		"effects", p.effects)
	return id, err
}

// mount creates the record for n and realizes its subtree. Targets are
// inserted before the before target when it is non-nil.
func (r *Reconciler) mount(p *pass, n *vdom.Node, parent ID, parentTarget, before Target) *record {
	if n == nil {
		n = vdom.Null()
	}
	rec := r.arena.alloc()
	rec.parent = parent
	rec.node = n
	rec.kind = n.Kind()
	rec.parentTarget = parentTarget

	switch rec.kind {
	case vdom.KindHost:
		r.mountHost(p, rec, before)
	case vdom.KindComposite:
		r.mountComposite(p, rec, before)
	}

	p.mounts++
	r.metrics.mounts.WithLabelValues(kindLabel(rec.kind)).Inc()
	return rec
}

func (r *Reconciler) mountHost(p *pass, rec *record, before Target) {
	target, err := r.createTarget(rec.parentTarget, rec.node, before)
	if err != nil {
		rec.declined = true
		p.fail(r.rendererError(rec, "mount", err))
		r.emit(OpDeclined, rec)
		return
	}
	if target == nil {
		rec.declined = true
		r.metrics.declined.Inc()
		r.logger.Debug("host declined", "id", rec.id.String(), "type", rec.node.TypeName())
		r.emit(OpDeclined, rec)
		return
	}
	rec.target = target
	r.emit(OpMount, rec)

	rec.children = make([]ID, 0, len(rec.node.Children))
	for _, child := range rec.node.Children {
		c := r.mount(p, child, rec.id, target, nil)
		rec.children = append(rec.children, c.id)
	}
}

func (r *Reconciler) mountComposite(p *pass, rec *record, before Target) {
	rec.store = hooks.NewStore(rec.node.TypeName())
	r.owners[rec.store.ID()] = rec.id
	r.emit(OpMount, rec)

	kids, _ := r.render(p, rec)
	rec.children = make([]ID, 0, len(kids))
	for _, kid := range kids {
		c := r.mount(p, kid, rec.id, rec.parentTarget, before)
		rec.children = append(rec.children, c.id)
	}
}

// createTarget asks the renderer for a target, at a position when it can.
func (r *Reconciler) createTarget(parent Target, n *vdom.Node, before Target) (Target, error) {
	if before != nil {
		if ins, ok := r.renderer.(Inserter); ok {
			return ins.InsertTarget(parent, n, before)
		}
	}
	return r.renderer.MountTarget(parent, n)
}

// render expands a composite under its own store. ok is false when the
// render reported hook errors and StrictHooks asks to keep the previous
// children; the effects that render scheduled are then discarded too.
func (r *Reconciler) render(p *pass, rec *record) (kids []*vdom.Node, ok bool) {
	rec.rendered = r.epoch
	n := rec.node

	if exp, isExp := r.renderer.(PrimitiveExpander); isExp {
		if body, handled := exp.PrimitiveBody(n); handled {
			return []*vdom.Node{body}, true
		}
	}

	ct, _ := n.Type.(*vdom.CompositeType)
	if ct == nil || ct.Render == nil {
		p.fail(rerrors.New("RE006").
			WithPath(r.path(rec)).
			WithDetail(fmt.Sprintf("composite %q has no render function", n.TypeName())).
			Wrap(ErrInvalidNode))
		return nil, true
	}

	scope := hooks.Begin(rec.store, r.queue)
	out, err := func() ([]*vdom.Node, error) {
		defer scope.End()
		out := ct.Render(scope, n.Props, n.Children)
		return out, scope.End()
	}()

	if err != nil {
		p.fail(rerrors.New("RE001").WithPath(r.path(rec)).Wrap(err))
		if r.config.StrictHooks {
			// The rejected render schedules nothing
			scope.Discard()
			return nil, false
		}
	}
	if rec.store.HasPendingEffects() {
		p.scheduled = append(p.scheduled, rec.store)
	}

	kids = make([]*vdom.Node, len(out))
	for i, k := range out {
		if k == nil {
			k = vdom.Null()
		}
		kids[i] = k
	}
	return kids, true
}

func (r *Reconciler) rendererError(rec *record, op string, err error) error {
	return rerrors.New("RE003").
		WithPath(r.path(rec)).
		Wrap(&RendererError{Op: op, Type: rec.node.TypeName(), Err: err})
}
