// Package reconciler keeps a tree of mounted nodes in sync with the nodes
// components render, and drives a Renderer to realize host nodes as
// platform targets.
//
// # Lifecycle
//
// Every tree position goes through mount, any number of updates, and
// unmount. Mount realizes hosts through the Renderer and expands composites
// by calling their render function under a fresh hook store. Update
// re-renders composites under their existing store, so hook state survives,
// and reconciles children. Unmount runs every effect cleanup of the subtree
// and destroys its targets leaves first.
//
// # Child Matching
//
// Children are matched by position: a same-type pair is updated in place,
// anything else is unmounted and replaced. Reordering an unkeyed list
// therefore remounts. As soon as a child list carries keys, children are
// matched on (type, key) instead and moved through an optional Mover.
//
// # Scheduling
//
// Setters never mutate state inline. They queue the mutation, and the next
// Commit applies all queued mutations of a composite together and renders it
// once. Run commits automatically:
//
//	r := reconciler.New(renderer, reconciler.WithLogger(logger))
//	root, err := r.Mount(vdom.C(App, nil), window)
//	go r.Run(ctx)
//
//	// from a platform event handler
//	r.Dispatch(func() { onPress() })
//
// Effects run after the commit that scheduled them, parents before
// children, in hook declaration order within one component.
//
// # Observability
//
// Each reconciler logs with slog, exports Prometheus collectors when given
// a registry, opens OpenTelemetry spans per public operation, and reports
// every tree change to an optional Observer.
package reconciler
