package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type Registry struct {
	reg *prometheus.Registry

	Orders     prometheus.Counter
	Resolved   prometheus.Counter
	Downloaded prometheus.Counter
	Verified   prometheus.Counter
	Missing    prometheus.Counter
	Resumed    prometheus.Counter

	// resolver
	StoreQueries    prometheus.Counter
	Relaxations     prometheus.Counter
	CacheHits       prometheus.Counter
	ResolveLatency  prometheus.Histogram
	TransferFailed  prometheus.Counter
	ClassifyFailed  prometheus.Counter
	SkippedRows     prometheus.Counter
	LastRunDuration prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	orders := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_orders_total"})
	resolved := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_resolved_total"})
	downloaded := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_downloaded_total"})
	verified := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_verified_total"})
	missing := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_missing_total"})
	resumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_resumed_total"})

	queries := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_store_queries_total"})
	relaxations := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_relaxations_total"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_cache_hits_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "blorders_resolve_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	transferFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_transfer_failures_total"})
	classifyFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_classification_failures_total"})
	skippedRows := prometheus.NewCounter(prometheus.CounterOpts{Name: "blorders_skipped_rows_total"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{Name: "blorders_last_run_duration_seconds"})

	r.MustRegister(orders, resolved, downloaded, verified, missing, resumed,
		queries, relaxations, cacheHits, latency, transferFailed, classifyFailed, skippedRows, lastRun)
	return &Registry{
		reg:             r,
		Orders:          orders,
		Resolved:        resolved,
		Downloaded:      downloaded,
		Verified:        verified,
		Missing:         missing,
		Resumed:         resumed,
		StoreQueries:    queries,
		Relaxations:     relaxations,
		CacheHits:       cacheHits,
		ResolveLatency:  latency,
		TransferFailed:  transferFailed,
		ClassifyFailed:  classifyFailed,
		SkippedRows:     skippedRows,
		LastRunDuration: lastRun,
	}
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile dumps the registry in the text exposition format, for the
// node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
