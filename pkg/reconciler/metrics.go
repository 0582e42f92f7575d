package reconciler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactor/pkg/vdom"
)

// MetricsConfig configures the Prometheus collectors of a reconciler.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reconciler").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for commit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use. A nil registry creates
	// the collectors without registering them.
	Registry prometheus.Registerer
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactor",
		Subsystem: "reconciler",
		Buckets:   prometheus.DefBuckets,
	}
}

// metrics holds the Prometheus collectors of one reconciler.
type metrics struct {
	mounts         *prometheus.CounterVec
	updates        *prometheus.CounterVec
	unmounts       *prometheus.CounterVec
	declined       prometheus.Counter
	commits        prometheus.Counter
	commitDuration prometheus.Histogram
	effectsRun     prometheus.Counter
	cleanupsRun    prometheus.Counter
	hookErrors     prometheus.Counter
	rendererErrors *prometheus.CounterVec
	staleUpdates   prometheus.Counter
	queueDepth     prometheus.Gauge
	mounted        prometheus.Gauge
}

// newMetrics creates the collectors.
func newMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	byKind := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, []string{"kind"})
	}

	return &metrics{
		mounts:   byKind("mounts_total", "Total number of nodes mounted"),
		updates:  byKind("updates_total", "Total number of nodes updated in place"),
		unmounts: byKind("unmounts_total", "Total number of nodes unmounted"),
		declined: counter("declined_total", "Total number of host nodes the renderer declined to mount"),
		commits:  counter("commits_total", "Total number of commit passes"),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Commit pass duration in seconds, effects included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		effectsRun:  counter("effects_total", "Total number of effects run"),
		cleanupsRun: counter("cleanups_total", "Total number of effect cleanups run"),
		hookErrors:  counter("hook_errors_total", "Total number of hook order violations"),

		rendererErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renderer_errors_total",
			Help:        "Total number of failed renderer calls",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		staleUpdates: counter("stale_updates_total", "Total number of queued updates dropped because their component unmounted"),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_depth",
			Help:        "Number of state mutations waiting for the next commit",
			ConstLabels: config.ConstLabels,
		}),
		mounted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_nodes",
			Help:        "Number of nodes currently mounted",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func kindLabel(k vdom.Kind) string {
	switch k {
	case vdom.KindHost:
		return "host"
	case vdom.KindComposite:
		return "composite"
	default:
		return "null"
	}
}
