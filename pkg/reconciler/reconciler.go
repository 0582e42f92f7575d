package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/hooks"
)

// Config holds reconciliation policy.
type Config struct {
	// SkipEqualHostUpdates skips the renderer's Update call for a host whose
	// props are equal to the previously applied props. Children are always
	// reconciled. Handlers never compare equal, so hosts that carry one are
	// always forwarded.
	// Default: true
	SkipEqualHostUpdates bool

	// StrictHooks keeps a composite's previous children when its render
	// reports a hook order violation, instead of applying the output of a
	// render that ran on fallback values. Effects scheduled by the rejected
	// render are discarded and their dependencies left as they were.
	// Default: false
	StrictHooks bool

	// DispatchBuffer is the capacity of the Dispatch queue.
	// Default: 256
	DispatchBuffer int
}

// DefaultConfig returns the default reconciliation policy.
func DefaultConfig() Config {
	return Config{
		SkipEqualHostUpdates: true,
		DispatchBuffer:       256,
	}
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConfig sets the reconciliation policy.
func WithConfig(config Config) Option {
	return func(r *Reconciler) {
		r.config = config
	}
}

// WithMetrics registers the reconciler's collectors with registry.
func WithMetrics(registry prometheus.Registerer) Option {
	return func(r *Reconciler) {
		r.metricsConfig.Registry = registry
	}
}

// WithMetricsConfig replaces the whole metrics configuration.
func WithMetricsConfig(config MetricsConfig) Option {
	return func(r *Reconciler) {
		r.metricsConfig = config
	}
}

// WithTracer sets the tracer used for commit and mount spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Reconciler) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithErrorHandler sets a function called with every error the reconciler
// reports, including errors raised outside a public call such as hooks
// misused after their render.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Reconciler) {
		r.onError = fn
	}
}

// WithObserver sets the observer notified of every tree change.
func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		r.observer = o
	}
}

// Reconciler owns a mounted tree, its hook stores and the queue of pending
// state mutations.
//
// Mount, Update, Unmount and Commit must be called from one goroutine at a
// time, normally the one running Run. Setters returned by hooks, Dispatch,
// Pending, Lookup and Snapshot are safe to call from any goroutine.
type Reconciler struct {
	id       string
	renderer Renderer
	config   Config

	logger        *slog.Logger
	metricsConfig MetricsConfig
	metrics       *metrics
	tracer        trace.Tracer
	observer      Observer
	onError       func(error)

	// mu guards the tree. Passes hold it for writing; effects run after
	// it is released.
	mu     sync.RWMutex
	arena  arena
	roots  []ID
	owners map[uint64]ID // hook store ID -> composite record
	epoch  uint64

	queue      *updateQueue
	dispatchCh chan func()
	done       chan struct{}
	running    atomic.Bool
	ctx        atomic.Pointer[context.Context]
}

// New creates a reconciler that realizes host nodes through renderer.
func New(renderer Renderer, opts ...Option) *Reconciler {
	r := &Reconciler{
		id:            uuid.NewString(),
		renderer:      renderer,
		config:        DefaultConfig(),
		logger:        slog.Default(),
		metricsConfig: defaultMetricsConfig(),
		tracer:        defaultTracer(),
		owners:        make(map[uint64]ID),
		queue:         newUpdateQueue(),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.config.DispatchBuffer <= 0 {
		r.config.DispatchBuffer = DefaultConfig().DispatchBuffer
	}
	r.logger = r.logger.With("reconciler_id", r.id)
	r.metrics = newMetrics(r.metricsConfig)
	r.dispatchCh = make(chan func(), r.config.DispatchBuffer)
	r.queue.report = r.reportAsync
	r.queue.depth = func(n int) { r.metrics.queueDepth.Set(float64(n)) }
	return r
}

// ID returns the reconciler's unique identifier.
func (r *Reconciler) ID() string {
	return r.id
}

// Logger returns the reconciler's logger.
func (r *Reconciler) Logger() *slog.Logger {
	return r.logger
}

// Queue returns the queue hooks enqueue state mutations on.
func (r *Reconciler) Queue() hooks.Queue {
	return r.queue
}

func (r *Reconciler) baseContext() context.Context {
	if p := r.ctx.Load(); p != nil {
		return *p
	}
	return context.Background()
}

// locked runs fn with the tree lock held. The lock is released even when a
// render function panics.
func (r *Reconciler) locked(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
	r.metrics.mounted.Set(float64(r.arena.len()))
}

// pass accumulates the outcome of one public operation.
type pass struct {
	errs      []error
	scheduled []*hooks.Store

	mounts, updates, unmounts int
	effects, cleanups         int
}

func (p *pass) fail(err error) {
	p.errs = append(p.errs, err)
}

// finish reports the pass's errors and returns them joined.
func (r *Reconciler) finish(p *pass) error {
	for _, err := range p.errs {
		r.report(err)
	}
	return errors.Join(p.errs...)
}

// report logs err, counts it and hands it to the error handler.
func (r *Reconciler) report(err error) {
	var (
		orderErr *hooks.HookOrderError
		rendErr  *RendererError
	)
	switch {
	case errors.As(err, &orderErr):
		r.metrics.hookErrors.Inc()
		r.logger.Error("hook order violation",
			"component", orderErr.Component,
			"index", orderErr.Index,
			"error", err)
	case errors.As(err, &rendErr):
		r.metrics.rendererErrors.WithLabelValues(rendErr.Op).Inc()
		r.logger.Error("renderer error",
			"op", rendErr.Op,
			"type", rendErr.Type,
			"error", err)
	default:
		r.logger.Error("reconciler error", "error", err)
	}
	if r.onError != nil {
		r.onError(err)
	}
}

// reportAsync handles errors raised outside any pass.
func (r *Reconciler) reportAsync(err error) {
	if errors.Is(err, hooks.ErrOutsideRender) {
		err = rerrors.New("RE002").Wrap(err)
	}
	r.report(err)
}

// path returns the type names from the root down to rec.
func (r *Reconciler) path(rec *record) []string {
	var out []string
	for cur := rec; cur != nil; cur = r.arena.get(cur.parent) {
		out = append(out, cur.node.TypeName())
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
