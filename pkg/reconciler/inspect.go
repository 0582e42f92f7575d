package reconciler

import (
	"fmt"
	"reflect"
	"time"

	"github.com/vango-dev/reactor/pkg/hooks"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Mounted is a read-only copy of one mounted record.
type Mounted struct {
	ID     ID
	Parent ID // zero for roots
	Kind   vdom.Kind
	Node   *vdom.Node

	// Target is the host's realized target; nil for other kinds and for
	// declined hosts.
	Target       Target
	ParentTarget Target

	Children []ID
	Hooks    *hooks.Store // composite only
	Declined bool
}

// Lookup returns the mounted record for id.
func (r *Reconciler) Lookup(id ID) (Mounted, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec := r.arena.get(id)
	if rec == nil {
		return Mounted{}, false
	}
	return Mounted{
		ID:           rec.id,
		Parent:       rec.parent,
		Kind:         rec.kind,
		Node:         rec.node,
		Target:       rec.target,
		ParentTarget: rec.parentTarget,
		Children:     append([]ID(nil), rec.children...),
		Hooks:        rec.store,
		Declined:     rec.declined,
	}, true
}

// Roots returns the IDs of the mounted roots in mount order.
func (r *Reconciler) Roots() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ID(nil), r.roots...)
}

// Len returns the number of mounted records.
func (r *Reconciler) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.arena.len()
}

// TreeSnapshot is a serializable view of the mounted tree.
type TreeSnapshot struct {
	ReconcilerID string          `json:"reconcilerId"`
	Taken        time.Time       `json:"taken"`
	Roots        []*NodeSnapshot `json:"roots"`
}

// NodeSnapshot is one mounted record in a TreeSnapshot.
type NodeSnapshot struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	Type     string          `json:"type"`
	Key      string          `json:"key,omitempty"`
	Props    map[string]any  `json:"props,omitempty"`
	Declined bool            `json:"declined,omitempty"`
	Hooks    []HookSnapshot  `json:"hooks,omitempty"`
	Children []*NodeSnapshot `json:"children,omitempty"`
}

// HookSnapshot is one hook slot in a NodeSnapshot.
type HookSnapshot struct {
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
}

// Snapshot captures the mounted tree. Props and state values are converted
// to JSON-friendly forms; handlers show up as "func".
//
// Snapshot takes the tree lock and must not be called from a render
// function.
func (r *Reconciler) Snapshot() *TreeSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &TreeSnapshot{
		ReconcilerID: r.id,
		Taken:        time.Now().UTC(),
	}
	for _, id := range r.roots {
		if n := r.snapshotNode(id); n != nil {
			snap.Roots = append(snap.Roots, n)
		}
	}
	return snap
}

func (r *Reconciler) snapshotNode(id ID) *NodeSnapshot {
	rec := r.arena.get(id)
	if rec == nil {
		return nil
	}
	out := &NodeSnapshot{
		ID:       rec.id.String(),
		Kind:     rec.kind.String(),
		Type:     rec.node.TypeName(),
		Key:      rec.node.Key,
		Declined: rec.declined,
	}
	if len(rec.node.Props) > 0 {
		out.Props = make(map[string]any, len(rec.node.Props))
		for k, v := range rec.node.Props {
			out.Props[k] = plainValue(v)
		}
	}
	if rec.store != nil {
		for i := 0; i < rec.store.Len(); i++ {
			h := HookSnapshot{Kind: rec.store.Kind(i).String()}
			switch rec.store.Kind(i) {
			case hooks.HookState, hooks.HookReducer, hooks.HookMemo:
				h.Value = plainValue(rec.store.Value(i))
			}
			out.Hooks = append(out.Hooks, h)
		}
	}
	for _, c := range rec.children {
		if n := r.snapshotNode(c); n != nil {
			out.Children = append(out.Children, n)
		}
	}
	return out
}

// plainValue keeps scalars and formats everything else.
func plainValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case func():
		return "func"
	case fmt.Stringer:
		return v.String()
	default:
		if isFunc(v) {
			return "func"
		}
		return fmt.Sprintf("%v", v)
	}
}

func isFunc(v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.Func
}
