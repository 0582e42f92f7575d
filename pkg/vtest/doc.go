// Package vtest provides an in-memory renderer for testing components and
// renderer-independent reconciler behavior.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    ren := vtest.NewRenderer()
//	    r := reconciler.New(ren)
//	    if _, err := r.Mount(vdom.C(Counter, vdom.Props{"value": 42}), ren.Root); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    ren.Root.Find("Button")[0].Press()
//	    r.Commit()
//
//	    if got := ren.Root.Find("Label")[0].Text(); got != "43" {
//	        t.Errorf("label = %q, want 43", got)
//	    }
//	}
//
// # Targets
//
// Every host node becomes a *View. Views keep their identity across
// updates, so tests can compare pointers to tell an update from a remount.
// Handlers are read from the "onPress" and "onChange" props by Press and
// Slide.
//
// # Recorded Calls
//
// Ops returns every renderer call in order, which makes ordering properties
// such as leaves-first unmounting directly assertable.
//
// # Failure Injection
//
// Decline makes the renderer refuse a host type, FailOn makes a call fail,
// and Basic hides the optional insert and move extensions.
package vtest
