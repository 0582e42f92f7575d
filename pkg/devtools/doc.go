// Package devtools serves a reconciler's state over HTTP for inspection
// tools.
//
// The server exposes the current tree as JSON, the reconciler's Prometheus
// metrics, a websocket stream of mount, update and unmount events, and
// optionally a snapshot store.
//
// # Usage
//
//	hub := devtools.NewHub(logger)
//	reg := prometheus.NewRegistry()
//	r := reconciler.New(renderer,
//	    reconciler.WithObserver(hub),
//	    reconciler.WithMetrics(reg))
//
//	srv := devtools.New(r,
//	    devtools.WithHub(hub),
//	    devtools.WithGatherer(reg))
//	http.ListenAndServe("localhost:7070", srv)
package devtools
