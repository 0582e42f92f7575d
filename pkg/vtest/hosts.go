package vtest

import "github.com/vango-dev/reactor/pkg/vdom"

// Host types understood by Renderer. Stacks specialize Container, so
// IsSubtypeOf(Container) matches both.
var (
	Container = vdom.Host("Container")
	VStack    = vdom.Host("VStack", Container)
	HStack    = vdom.Host("HStack", Container)
	Button    = vdom.Host("Button")
	Label     = vdom.Host("Label")
	Slider    = vdom.Host("Slider")
)
