package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/reactor/pkg/devtools"
	"github.com/vango-dev/reactor/pkg/reconciler"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/vtest"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr string
		tick time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the counter demo with the devtools server",
		Long: `Run the counter demo on the reconciler's event loop and serve
devtools over HTTP. A ticker presses the counter's button so the event
stream has something to show.

Endpoints:
  GET    /healthz          liveness
  GET    /tree             current tree
  GET    /metrics          Prometheus metrics
  GET    /events           websocket event stream
  GET    /snapshots        stored snapshots
  POST   /snapshots        store the current tree
  GET    /snapshots/{id}   one stored snapshot
  DELETE /snapshots/{id}   delete a stored snapshot

Examples:
  reactor serve
  reactor serve --addr=0.0.0.0:7070 --tick=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags, addr, tick)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().DurationVar(&tick, "tick", time.Second, "Interval between simulated presses (0 disables)")

	return cmd
}

func runServe(flags *globalFlags, addr string, tick time.Duration) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Devtools.Addr = addr
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hub := devtools.NewHub(logger)
	ren := vtest.NewRenderer()
	r := reconciler.New(ren,
		reconciler.WithConfig(cfg.ReconcilerConfig()),
		reconciler.WithLogger(logger),
		reconciler.WithMetrics(reg),
		reconciler.WithObserver(hub))

	if _, err := r.Mount(vdom.C(counterApp, nil), ren.Root); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Devtools.Addr,
		Handler: devtools.New(r,
			devtools.WithHub(hub),
			devtools.WithGatherer(reg),
			devtools.WithSnapshotStore(store),
			devtools.WithLogger(logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printBanner()
	success("devtools listening on http://%s", cfg.Devtools.Addr)
	info("Press Ctrl+C to stop")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.Run(ctx)
	})

	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if tick > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(tick)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					err := r.Dispatch(func() {
						if buttons := ren.Root.Find("Button"); len(buttons) > 0 {
							buttons[0].Press()
						}
					})
					if errors.Is(err, reconciler.ErrClosed) {
						return nil
					}
					if err != nil {
						logger.Warn("simulated press dropped", "error", err)
					}
				}
			}
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	warn("stopped")
	return err
}
