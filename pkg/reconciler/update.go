package reconciler

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Update applies n to the mounted node id. n must have the same type as the
// mounted node; replacing a node with one of another type is done by the
// parent's reconciliation, or by Unmount followed by Mount for a root.
func (r *Reconciler) Update(id ID, n *vdom.Node) error {
	if n == nil {
		n = vdom.Null()
	}
	_, span := r.startSpan("reactor.Update",
		attribute.String("reactor.id", id.String()),
		attribute.String("reactor.type", n.TypeName()))

	p := &pass{}
	r.locked(func() {
		rec := r.arena.get(id)
		if rec == nil {
			p.fail(unknownInstance(id))
			return
		}
		if !vdom.SameType(rec.node, n) {
			p.fail(rerrors.New("RE006").
				WithPath(r.path(rec)).
				WithDetail(fmt.Sprintf("cannot update %s with %s", rec.node.TypeName(), n.TypeName())).
				Wrap(ErrInvalidNode))
			return
		}
		r.update(p, rec, n)
	})

	r.flushEffects(p)
	err := r.finish(p)
	endSpan(span, p, err)
	return err
}

func unknownInstance(id ID) error {
	return rerrors.New("RE005").
		WithDetail(fmt.Sprintf("no mounted node with ID %s", id)).
		Wrap(ErrUnknownInstance)
}

// update brings rec up to date with n, which has rec's type.
func (r *Reconciler) update(p *pass, rec *record, n *vdom.Node) {
	prev := rec.node
	rec.node = n
	p.updates++
	r.metrics.updates.WithLabelValues(kindLabel(rec.kind)).Inc()

	switch rec.kind {
	case vdom.KindHost:
		if rec.declined {
			r.retryHost(p, rec)
			return
		}
		if !r.config.SkipEqualHostUpdates || !vdom.PropsEqual(prev.Props, n.Props) {
			if err := r.renderer.Update(rec.target, prev, n); err != nil {
				p.fail(r.rendererError(rec, "update", err))
			}
			r.emit(OpUpdate, rec)
		}
		r.reconcileChildren(p, rec, n.Children)

	case vdom.KindComposite:
		kids, ok := r.render(p, rec)
		r.emit(OpUpdate, rec)
		if ok {
			r.reconcileChildren(p, rec, kids)
		}
	}
}

// retryHost mounts a host that was declined on an earlier pass.
func (r *Reconciler) retryHost(p *pass, rec *record) {
	target, err := r.createTarget(rec.parentTarget, rec.node, r.anchorAfter(rec))
	if err != nil {
		p.fail(r.rendererError(rec, "mount", err))
		return
	}
	if target == nil {
		return
	}
	rec.declined = false
	rec.target = target
	r.emit(OpMount, rec)

	for _, child := range rec.node.Children {
		c := r.mount(p, child, rec.id, target, nil)
		rec.children = append(rec.children, c.id)
	}
}

// childTarget is the target rec's children are realized in.
func (rec *record) childTarget() Target {
	if rec.kind == vdom.KindHost {
		return rec.target
	}
	return rec.parentTarget
}

// reconcileChildren matches rec's mounted children against next. Keyed
// matching is used as soon as either list carries a key; otherwise children
// are matched by position.
func (r *Reconciler) reconcileChildren(p *pass, rec *record, next []*vdom.Node) {
	if len(rec.children) == 0 && len(next) == 0 {
		return
	}
	next = withoutNil(next)
	if vdom.HasKeys(next) || r.hasKeys(rec.children) {
		r.reconcileKeyed(p, rec, next)
		return
	}
	r.reconcilePositional(p, rec, next)
}

// reconcilePositional walks both lists from the front. Same-type pairs are
// updated in place; any other pair is replaced. Leftovers are unmounted or
// mounted.
func (r *Reconciler) reconcilePositional(p *pass, rec *record, next []*vdom.Node) {
	old := rec.children
	out := make([]ID, 0, len(next))
	target := rec.childTarget()

	for i := 0; i < len(old) || i < len(next); i++ {
		switch {
		case i >= len(next):
			r.unmount(p, old[i])

		case i >= len(old):
			c := r.mount(p, next[i], rec.id, target, r.tailAnchor(rec))
			out = append(out, c.id)

		default:
			cur := r.arena.get(old[i])
			if cur != nil && vdom.SameType(cur.node, next[i]) {
				r.update(p, cur, next[i])
				out = append(out, old[i])
				continue
			}
			before := r.firstTarget(old[i+1:])
			if before == nil {
				before = r.tailAnchor(rec)
			}
			r.unmount(p, old[i])
			c := r.mount(p, next[i], rec.id, target, before)
			out = append(out, c.id)
		}
	}
	rec.children = out
}

type childKey struct {
	t   vdom.Type
	key string
}

// reconcileKeyed matches keyed children on (type, key) and unkeyed children
// by position among the unkeyed ones. Matched children keep their records
// and are moved when their relative order changed.
func (r *Reconciler) reconcileKeyed(p *pass, rec *record, next []*vdom.Node) {
	old := rec.children
	oldRecs := make([]*record, len(old))
	keyed := make(map[childKey]int)
	var unkeyed []int
	for i, id := range old {
		c := r.arena.get(id)
		oldRecs[i] = c
		if c == nil {
			continue
		}
		if c.node.Key == "" {
			unkeyed = append(unkeyed, i)
			continue
		}
		k := childKey{c.node.Type, c.node.Key}
		if _, dup := keyed[k]; !dup {
			keyed[k] = i
		}
	}

	match := make([]int, len(next))
	used := make([]bool, len(old))
	u := 0
	for j, n := range next {
		match[j] = -1
		if n.Key != "" {
			if i, ok := keyed[childKey{n.Type, n.Key}]; ok && !used[i] {
				match[j] = i
				used[i] = true
			}
			continue
		}
		if u < len(unkeyed) {
			i := unkeyed[u]
			u++
			if vdom.SameType(oldRecs[i].node, n) {
				match[j] = i
				used[i] = true
			}
		}
	}

	// Walking backwards, a match whose old index is not below the smallest
	// old index kept so far is out of order.
	mover, canMove := r.renderer.(Mover)
	move := make([]bool, len(next))
	last := len(old)
	for j := len(next) - 1; j >= 0; j-- {
		i := match[j]
		if i < 0 {
			continue
		}
		if i < last {
			last = i
			continue
		}
		if canMove {
			move[j] = true
		} else {
			match[j] = -1
			used[i] = false
		}
	}

	for i, id := range old {
		if !used[i] {
			r.unmount(p, id)
		}
	}

	out := make([]ID, len(next))
	for j, i := range match {
		if i >= 0 {
			out[j] = old[i]
		}
	}
	rec.children = out
	target := rec.childTarget()

	for j := len(next) - 1; j >= 0; j-- {
		if !move[j] {
			continue
		}
		before := r.firstTarget(out[j+1:])
		if before == nil {
			before = r.tailAnchor(rec)
		}
		moved := r.arena.get(out[j])
		for _, t := range r.topTargets(moved) {
			if err := mover.MoveTarget(target, t, before); err != nil {
				p.fail(r.rendererError(moved, "move", err))
			}
		}
		r.emit(OpMove, moved)
	}

	for j, n := range next {
		if match[j] >= 0 {
			r.update(p, r.arena.get(out[j]), n)
			continue
		}
		before := r.firstTarget(out[j+1:])
		if before == nil {
			before = r.tailAnchor(rec)
		}
		c := r.mount(p, n, rec.id, target, before)
		out[j] = c.id
	}
}

// withoutNil replaces nil entries with null nodes, copying the list only
// when it has to.
func withoutNil(nodes []*vdom.Node) []*vdom.Node {
	for i, n := range nodes {
		if n != nil {
			continue
		}
		out := make([]*vdom.Node, len(nodes))
		copy(out, nodes)
		for j := i; j < len(out); j++ {
			if out[j] == nil {
				out[j] = vdom.Null()
			}
		}
		return out
	}
	return nodes
}

func (r *Reconciler) hasKeys(ids []ID) bool {
	for _, id := range ids {
		if c := r.arena.get(id); c != nil && c.node.Key != "" {
			return true
		}
	}
	return false
}

// firstTarget returns the first realized target found in ids, descending
// into composites.
func (r *Reconciler) firstTarget(ids []ID) Target {
	for _, id := range ids {
		c := r.arena.get(id)
		if c == nil {
			continue
		}
		switch c.kind {
		case vdom.KindHost:
			if c.target != nil {
				return c.target
			}
		case vdom.KindComposite:
			if t := r.firstTarget(c.children); t != nil {
				return t
			}
		}
	}
	return nil
}

// topTargets returns the targets rec places directly in its parent target.
func (r *Reconciler) topTargets(rec *record) []Target {
	if rec == nil {
		return nil
	}
	switch rec.kind {
	case vdom.KindHost:
		if rec.target != nil {
			return []Target{rec.target}
		}
	case vdom.KindComposite:
		var out []Target
		for _, id := range rec.children {
			out = append(out, r.topTargets(r.arena.get(id))...)
		}
		return out
	}
	return nil
}

// tailAnchor is the target new trailing children of rec are inserted
// before: nil for a host, which appends to its own target, and the target
// following the composite's subtree otherwise.
func (r *Reconciler) tailAnchor(rec *record) Target {
	if rec.kind == vdom.KindHost {
		return nil
	}
	return r.anchorAfter(rec)
}

// anchorAfter returns the first target that follows rec's subtree within
// the target rec is realized in, or nil when nothing follows it.
func (r *Reconciler) anchorAfter(rec *record) Target {
	for cur := rec; ; {
		parent := r.arena.get(cur.parent)
		if parent == nil {
			return nil
		}
		if t := r.firstTarget(after(parent.children, cur.id)); t != nil {
			return t
		}
		if parent.kind == vdom.KindHost {
			return nil
		}
		cur = parent
	}
}

func after(ids []ID, id ID) []ID {
	for i, c := range ids {
		if c == id {
			return ids[i+1:]
		}
	}
	return nil
}
