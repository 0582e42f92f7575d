package vtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vango-dev/reactor/pkg/vdom"
)

// ErrNotView is returned when the renderer is handed a target it did not
// create.
var ErrNotView = errors.New("vtest: target is not a *View")

// OpKind names a recorded renderer call.
type OpKind string

const (
	OpMount   OpKind = "mount"
	OpInsert  OpKind = "insert"
	OpUpdate  OpKind = "update"
	OpUnmount OpKind = "unmount"
	OpMove    OpKind = "move"
)

// Op is one recorded renderer call.
type Op struct {
	Kind OpKind
	View string // "Type#serial" of the target
}

// String returns "kind Type#serial".
func (o Op) String() string {
	return string(o.Kind) + " " + o.View
}

// Renderer is an in-memory renderer that records every call. Targets are
// *View values hanging off Root. It implements the optional insert, move
// and primitive expansion extensions; use Basic to get a renderer without
// them.
type Renderer struct {
	// Root is the parent target of mounted roots.
	Root *View

	mu       sync.Mutex
	serial   int
	ops      []Op
	declined map[*vdom.HostType]bool
	failures map[OpKind]map[string]error
	prims    map[*vdom.CompositeType]func(*vdom.Node) *vdom.Node
}

// NewRenderer creates an empty recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		Root:     &View{Type: "Root"},
		declined: make(map[*vdom.HostType]bool),
		failures: make(map[OpKind]map[string]error),
		prims:    make(map[*vdom.CompositeType]func(*vdom.Node) *vdom.Node),
	}
}

// Decline makes MountTarget return no target for the given types.
func (r *Renderer) Decline(types ...*vdom.HostType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		r.declined[t] = true
	}
}

// Accept undoes Decline.
func (r *Renderer) Accept(types ...*vdom.HostType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		delete(r.declined, t)
	}
}

// FailOn makes calls of kind op on nodes of the named type return err.
// Insert failures are registered under OpMount.
func (r *Renderer) FailOn(op OpKind, typeName string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures[op] == nil {
		r.failures[op] = make(map[string]error)
	}
	r.failures[op][typeName] = err
}

// Expand registers a primitive expansion for a composite type.
func (r *Renderer) Expand(t *vdom.CompositeType, body func(*vdom.Node) *vdom.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prims[t] = body
}

// Ops returns a copy of the recorded calls.
func (r *Renderer) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Count returns how many calls of kind op were recorded.
func (r *Renderer) Count(op OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.ops {
		if o.Kind == op {
			n++
		}
	}
	return n
}

// Reset clears the recorded calls.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}

// Dump renders the tree below Root.
func (r *Renderer) Dump() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Root.Dump()
}

// MountTarget appends a new view to parent.
func (r *Renderer) MountTarget(parent any, n *vdom.Node) (any, error) {
	return r.create(OpMount, parent, n, nil)
}

// InsertTarget creates a new view in parent before the before view.
func (r *Renderer) InsertTarget(parent any, n *vdom.Node, before any) (any, error) {
	b, ok := before.(*View)
	if !ok {
		return nil, fmt.Errorf("insert before: %w", ErrNotView)
	}
	return r.create(OpInsert, parent, n, b)
}

func (r *Renderer) create(op OpKind, parent any, n *vdom.Node, before *View) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := parent.(*View)
	if !ok || p == nil {
		return nil, fmt.Errorf("mount %s: %w", n.TypeName(), ErrNotView)
	}
	if err := r.failure(OpMount, n); err != nil {
		return nil, err
	}
	if ht, ok := n.Type.(*vdom.HostType); ok && r.declined[ht] {
		return nil, nil
	}

	r.serial++
	v := &View{
		Serial: r.serial,
		Type:   n.TypeName(),
		Props:  n.Props.Clone(),
		Parent: p,
	}
	if !p.insert(v, before) {
		return nil, fmt.Errorf("insert %s: anchor %s is not a child of %s", v, before, p)
	}
	r.ops = append(r.ops, Op{Kind: op, View: v.String()})
	return v, nil
}

// Update replaces the view's props.
func (r *Renderer) Update(target any, prev, next *vdom.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := target.(*View)
	if !ok {
		return fmt.Errorf("update %s: %w", next.TypeName(), ErrNotView)
	}
	if v.Destroyed {
		return fmt.Errorf("update %s: view destroyed", v)
	}
	if err := r.failure(OpUpdate, next); err != nil {
		return err
	}
	v.Props = next.Props.Clone()
	r.ops = append(r.ops, Op{Kind: OpUpdate, View: v.String()})
	return nil
}

// Unmount detaches the view from its parent. Unmounting a view twice, or a
// view that still has children, is an error.
func (r *Renderer) Unmount(target any, n *vdom.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := target.(*View)
	if !ok {
		return fmt.Errorf("unmount %s: %w", n.TypeName(), ErrNotView)
	}
	if v.Destroyed {
		return fmt.Errorf("unmount %s: already destroyed", v)
	}
	if len(v.Children) > 0 {
		return fmt.Errorf("unmount %s: %d children still mounted", v, len(v.Children))
	}
	if err := r.failure(OpUnmount, n); err != nil {
		return err
	}
	if v.Parent != nil {
		v.Parent.detach(v)
	}
	v.Destroyed = true
	r.ops = append(r.ops, Op{Kind: OpUnmount, View: v.String()})
	return nil
}

// MoveTarget repositions target within parent, before the before view or at
// the end when before is nil.
func (r *Renderer) MoveTarget(parent, target, before any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := parent.(*View)
	if !ok {
		return fmt.Errorf("move parent: %w", ErrNotView)
	}
	v, ok := target.(*View)
	if !ok {
		return fmt.Errorf("move target: %w", ErrNotView)
	}
	var b *View
	if before != nil {
		if b, ok = before.(*View); !ok {
			return fmt.Errorf("move before: %w", ErrNotView)
		}
	}
	if !p.detach(v) {
		return fmt.Errorf("move %s: not a child of %s", v, p)
	}
	if !p.insert(v, b) {
		p.Children = append(p.Children, v)
		return fmt.Errorf("move %s: anchor %s is not a child of %s", v, b, p)
	}
	r.ops = append(r.ops, Op{Kind: OpMove, View: v.String()})
	return nil
}

// PrimitiveBody returns the registered expansion for n's composite type.
func (r *Renderer) PrimitiveBody(n *vdom.Node) (*vdom.Node, bool) {
	r.mu.Lock()
	ct, _ := n.Type.(*vdom.CompositeType)
	body, ok := r.prims[ct]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	return body(n), true
}

func (r *Renderer) failure(op OpKind, n *vdom.Node) error {
	if byType := r.failures[op]; byType != nil {
		return byType[n.TypeName()]
	}
	return nil
}

// Basic returns a view of r that only implements the three required
// renderer methods, so new targets are always appended and reordered keyed
// children are remounted.
func (r *Renderer) Basic() *BasicRenderer {
	return &BasicRenderer{r: r}
}

// BasicRenderer forwards the required renderer methods to a Renderer.
type BasicRenderer struct {
	r *Renderer
}

// MountTarget implements the renderer contract.
func (b *BasicRenderer) MountTarget(parent any, n *vdom.Node) (any, error) {
	return b.r.MountTarget(parent, n)
}

// Update implements the renderer contract.
func (b *BasicRenderer) Update(target any, prev, next *vdom.Node) error {
	return b.r.Update(target, prev, next)
}

// Unmount implements the renderer contract.
func (b *BasicRenderer) Unmount(target any, n *vdom.Node) error {
	return b.r.Unmount(target, n)
}
