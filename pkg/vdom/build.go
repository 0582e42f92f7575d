package vdom

// H creates a host node.
func H(t *HostType, props Props, children ...*Node) *Node {
	return &Node{Type: t, Props: props, Children: compact(children)}
}

// C creates a composite node. The children are handed to the component's
// render function untouched.
func C(t *CompositeType, props Props, children ...*Node) *Node {
	return &Node{Type: t, Props: props, Children: compact(children)}
}

// Null creates a null node.
func Null() *Node {
	return &Node{}
}

// Fragment groups nodes into the list a render function returns.
func Fragment(nodes ...*Node) []*Node {
	return nodes
}

// Keyed sets the reconciliation key on n and returns it.
func Keyed(key string, n *Node) *Node {
	if n != nil {
		n.Key = key
	}
	return n
}

// Map renders one keyed node per item.
func Map[T any](items []T, key func(T) string, render func(T) *Node) []*Node {
	out := make([]*Node, 0, len(items))
	for _, item := range items {
		out = append(out, Keyed(key(item), render(item)))
	}
	return out
}

// compact replaces nil entries with null nodes so positions stay stable.
// The input slice is left untouched.
func compact(children []*Node) []*Node {
	if len(children) == 0 {
		return nil
	}
	out := make([]*Node, len(children))
	for i, c := range children {
		if c == nil {
			c = Null()
		}
		out[i] = c
	}
	return out
}
