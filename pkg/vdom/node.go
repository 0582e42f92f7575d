package vdom

import "github.com/vango-dev/reactor/pkg/hooks"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindNull      Kind = iota // Empty render result
	KindHost                  // Platform primitive realized by a renderer
	KindComposite             // User component expanded by its render function
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindHost:
		return "Host"
	case KindComposite:
		return "Composite"
	default:
		return "Unknown"
	}
}

// Type describes what a Node is. The only implementations are *HostType and
// *CompositeType; a nil Type describes a null node.
type Type interface {
	// TypeName returns the descriptor name used in logs and snapshots.
	TypeName() string

	kind() Kind
}

// HostType describes a platform primitive (a view, widget or DOM element).
// Descriptors are compared by pointer identity, so declare them once as
// package-level variables.
type HostType struct {
	Name string

	// Base is the descriptor this one specializes, if any.
	Base *HostType
}

// TypeName implements Type.
func (t *HostType) TypeName() string { return t.Name }

func (t *HostType) kind() Kind { return KindHost }

// RenderFunc expands a composite node into the nodes it renders.
// Hooks must be called on s, unconditionally and in the same order on every
// render.
type RenderFunc func(s *hooks.Scope, props Props, children []*Node) []*Node

// CompositeType describes a user component.
type CompositeType struct {
	Name   string
	Render RenderFunc
}

// TypeName implements Type.
func (t *CompositeType) TypeName() string { return t.Name }

func (t *CompositeType) kind() Kind { return KindComposite }

// Component declares a composite type.
func Component(name string, render RenderFunc) *CompositeType {
	return &CompositeType{Name: name, Render: render}
}

// Host declares a host type. Pass a base to make it a subtype.
func Host(name string, base ...*HostType) *HostType {
	t := &HostType{Name: name}
	if len(base) > 0 {
		t.Base = base[0]
	}
	return t
}

// Node is an immutable description of one tree position for one render pass.
type Node struct {
	Type     Type    // nil for a null node
	Props    Props   // Attributes and handlers
	Children []*Node // Nested nodes
	Key      string  // Reconciliation key
}

// Kind returns the node's kind. A nil node is a null node.
func (n *Node) Kind() Kind {
	if n == nil || n.Type == nil {
		return KindNull
	}
	return n.Type.kind()
}

// TypeName returns the descriptor name, or "null".
func (n *Node) TypeName() string {
	if n == nil || n.Type == nil {
		return "null"
	}
	return n.Type.TypeName()
}

// IsSubtypeOf reports whether the node's type is t or, for host types,
// specializes t through its Base chain.
func (n *Node) IsSubtypeOf(t Type) bool {
	if n == nil || n.Type == nil || t == nil {
		return false
	}
	if n.Type == t {
		return true
	}
	host, ok := n.Type.(*HostType)
	if !ok {
		return false
	}
	target, ok := t.(*HostType)
	if !ok {
		return false
	}
	for base := host.Base; base != nil; base = base.Base {
		if base == target {
			return true
		}
	}
	return false
}

// SameType reports whether a and b have the same descriptor. Two null nodes
// have the same type.
func SameType(a, b *Node) bool {
	var at, bt Type
	if a != nil {
		at = a.Type
	}
	if b != nil {
		bt = b.Type
	}
	return at == bt
}

// HasKeys returns true if any node in the list carries a key.
func HasKeys(nodes []*Node) bool {
	for _, n := range nodes {
		if n != nil && n.Key != "" {
			return true
		}
	}
	return false
}
