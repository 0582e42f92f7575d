package reconciler

import (
	"fmt"

	"github.com/vango-dev/reactor/pkg/vdom"
)

// Target is an opaque, renderer-owned handle to a realized platform object.
// The reconciler never inspects it; it only hands it back to the renderer
// that created it.
type Target = any

// Renderer realizes host nodes on a platform.
//
// All methods are called from the goroutine that drives the reconciler.
type Renderer interface {
	// MountTarget creates a target for n under parent and appends it to
	// parent's targets. Returning a nil target and a nil error declines
	// the node: it and its subtree are not mounted, and no error is
	// reported.
	//
	// Platform order only follows child order when the renderer also
	// implements Inserter. Otherwise a child mounted in the middle of a
	// list, such as a replacement of a different type, ends up last.
	MountTarget(parent Target, n *vdom.Node) (Target, error)

	// Update applies next to a target previously created for prev.
	Update(target Target, prev, next *vdom.Node) error

	// Unmount destroys a target. Its children have already been unmounted.
	Unmount(target Target, n *vdom.Node) error
}

// Inserter is implemented by renderers that can create a target at a given
// position among its siblings. When a node is mounted in the middle of a
// child list the reconciler prefers InsertTarget, passing the target that
// must end up directly after the new one. Without it new targets are
// appended, so [A B C] updated to [X B C] leaves the platform with
// [B C X].
type Inserter interface {
	InsertTarget(parent Target, n *vdom.Node, before Target) (Target, error)
}

// Mover is implemented by renderers that can reposition an existing target.
// It is used when keyed children are reordered. A nil before means the end
// of the parent. Without a Mover, keyed children that change relative order
// are remounted.
type Mover interface {
	MoveTarget(parent, target, before Target) error
}

// PrimitiveExpander lets a renderer intercept composite nodes and supply its
// own expansion. When PrimitiveBody returns true the reconciler mounts the
// returned node in place of calling the component's render function.
type PrimitiveExpander interface {
	PrimitiveBody(n *vdom.Node) (*vdom.Node, bool)
}

// RendererError reports a failed renderer call.
type RendererError struct {
	Op   string // "mount", "update", "unmount" or "move"
	Type string // descriptor name of the node involved
	Err  error
}

// Error implements the error interface.
func (e *RendererError) Error() string {
	return fmt.Sprintf("renderer %s %s: %v", e.Op, e.Type, e.Err)
}

// Unwrap returns the renderer's own error.
func (e *RendererError) Unwrap() error {
	return e.Err
}
