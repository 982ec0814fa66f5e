// Package prometheus exposes the atlas metrics through a private registry.
// Callers depend on the MetricsCollector and AppMetrics types; client_golang
// stays inside this package.
package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// MetricsCollector registers labelled metrics and serves them.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	// RegisterHistogram uses prometheus.DefBuckets when buckets is nil.
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
	Gatherer() prometheus.Gatherer
}

type Counter interface {
	Inc()
	Add(delta float64)
}

type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

type Histogram interface {
	Observe(value float64)
}

type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// CollectorConfig names the metrics and selects the runtime collectors.
type CollectorConfig struct {
	Namespace            string
	Subsystem            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
}

type registry struct {
	reg    *prometheus.Registry
	cfg    CollectorConfig
	logger logging.Logger

	mu   sync.Mutex
	byFQ map[string]prometheus.Collector
}

// NewMetricsCollector builds a collector over a fresh registry. The
// namespace is required.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, errors.NewValidationError("namespace", "metrics namespace is required")
	}
	reg := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		reg.MustRegister(prometheus.NewGoCollector())
	}
	return &registry{reg: reg, cfg: cfg, logger: logger, byFQ: make(map[string]prometheus.Collector)}, nil
}

func (r *registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (r *registry) Gatherer() prometheus.Gatherer { return r.reg }

// adopt registers fresh under name, or returns the vector already registered
// there. ok is false when registration fails or the existing vector has a
// different type.
func adopt[V prometheus.Collector](r *registry, name string, fresh V) (vec V, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fq := prometheus.BuildFQName(r.cfg.Namespace, r.cfg.Subsystem, name)
	if existing, found := r.byFQ[fq]; found {
		vec, ok = existing.(V)
		if !ok {
			r.logger.Warn("metric type mismatch", logging.String("metric", fq))
		}
		return vec, ok
	}
	if err := r.reg.Register(fresh); err != nil {
		r.logger.Error("metric registration failed", logging.String("metric", fq), logging.Err(err))
		return vec, false
	}
	r.byFQ[fq] = fresh
	return fresh, true
}

func (r *registry) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec, ok := adopt(r, name, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.cfg.Namespace, Subsystem: r.cfg.Subsystem, Name: name, Help: help,
	}, labels))
	if !ok {
		return labelled[Counter]{}
	}
	return labelled[Counter]{with: func(lvs ...string) Counter { return vec.WithLabelValues(lvs...) }}
}

func (r *registry) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec, ok := adopt(r, name, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.cfg.Namespace, Subsystem: r.cfg.Subsystem, Name: name, Help: help,
	}, labels))
	if !ok {
		return labelled[Gauge]{}
	}
	return labelled[Gauge]{with: func(lvs ...string) Gauge { return vec.WithLabelValues(lvs...) }}
}

func (r *registry) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec, ok := adopt(r, name, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.cfg.Namespace, Subsystem: r.cfg.Subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels))
	if !ok {
		return labelled[Histogram]{}
	}
	return labelled[Histogram]{with: func(lvs ...string) Histogram { return vec.WithLabelValues(lvs...) }}
}

// labelled adapts a client_golang vector. The zero value discards, so a
// metric that failed to register never breaks a request path.
type labelled[M any] struct {
	with func(lvs ...string) M
}

func (l labelled[M]) WithLabelValues(lvs ...string) M {
	if l.with == nil {
		var m M
		if d, ok := any(discard{}).(M); ok {
			m = d
		}
		return m
	}
	return l.with(lvs...)
}

type discard struct{}

func (discard) Inc()            {}
func (discard) Dec()            {}
func (discard) Add(float64)     {}
func (discard) Set(float64)     {}
func (discard) Observe(float64) {}

//Personal.AI order the ending
