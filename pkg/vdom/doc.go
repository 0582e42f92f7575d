// Package vdom provides the node model consumed by the reconciler.
//
// A Node is an immutable description of one tree position for one render
// pass. Its Type is a closed sum: a *HostType for platform primitives that a
// renderer realizes as targets, a *CompositeType for user components expanded
// by a render function, or nil for a null node.
//
// # Building Trees
//
//	Label := vdom.Host("Label")
//	Stack := vdom.Host("VStack")
//
//	Greeting := vdom.Component("Greeting", func(s *hooks.Scope, p vdom.Props, _ []*vdom.Node) []*vdom.Node {
//	    return vdom.Fragment(vdom.H(Label, vdom.Props{"text": "Hello " + p.String("name")}))
//	})
//
//	root := vdom.H(Stack, nil, vdom.C(Greeting, vdom.Props{"name": "Ada"}))
//
// # Identity
//
// Descriptors are compared by pointer identity. Children are matched by
// position and type unless they carry a Key, in which case the reconciler
// matches them by key first.
//
// # Equality
//
// Equal compares type, key, props and children deeply. Function-valued props
// never compare equal, so handlers always count as a change.
package vdom
