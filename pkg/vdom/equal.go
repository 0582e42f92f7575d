package vdom

import "github.com/vango-dev/reactor/internal/equal"

// Equal reports whether two nodes describe the same thing: same type, key,
// props and children. Handlers are closures and never compare equal, so a
// node carrying a non-nil handler is never equal to anything.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		// A nil node and an empty null node describe the same position
		return a.Kind() == KindNull && b.Kind() == KindNull
	}
	if a.Type != b.Type || a.Key != b.Key {
		return false
	}
	if !PropsEqual(a.Props, b.Props) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// PropsEqual compares two prop maps value by value. A missing key and an
// explicit nil are treated alike.
func PropsEqual(a, b Props) bool {
	for key, av := range a {
		if !equal.Values(av, b[key]) {
			return false
		}
	}
	for key, bv := range b {
		if _, ok := a[key]; !ok && bv != nil {
			return false
		}
	}
	return true
}
