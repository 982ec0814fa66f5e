package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the atlas records. A nil *AppMetrics is
// valid and records nothing.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// gRPC
	GRPCRequestsTotal   CounterVec
	GRPCRequestDuration HistogramVec

	// Auth
	AuthAttemptsTotal CounterVec

	// Catalog
	CatalogFetchPages    CounterVec
	CatalogFetchDuration HistogramVec
	CatalogFetchFailures CounterVec

	// Storage and cache
	DBQueryDuration  HistogramVec
	DBQueryErrors    CounterVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Messaging and worker
	KafkaPublishTotal   CounterVec
	WorkerEventsTotal   CounterVec
	WorkerEventDuration HistogramVec
	SnapshotExports     CounterVec

	// Health
	HealthCheckStatus GaugeVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultDBDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultFetchDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.GRPCRequestsTotal = collector.RegisterCounter("grpc_requests_total", "Total gRPC requests", "service", "method", "code")
	m.GRPCRequestDuration = collector.RegisterHistogram("grpc_request_duration_seconds", "gRPC request duration", DefaultHTTPDurationBuckets, "service", "method")

	m.AuthAttemptsTotal = collector.RegisterCounter("auth_attempts_total", "Login attempts", "result", "reason")

	m.CatalogFetchPages = collector.RegisterCounter("catalog_fetch_pages_total", "Pages read from the catalog store", "table")
	m.CatalogFetchDuration = collector.RegisterHistogram("catalog_fetch_duration_seconds", "Full table fetch duration", DefaultFetchDurationBuckets, "table")
	m.CatalogFetchFailures = collector.RegisterCounter("catalog_fetch_failures_total", "Failed table fetches", "table")

	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.DBQueryErrors = collector.RegisterCounter("db_query_errors_total", "Database query errors", "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	m.KafkaPublishTotal = collector.RegisterCounter("kafka_publish_total", "Kafka publish attempts", "topic", "result")
	m.WorkerEventsTotal = collector.RegisterCounter("worker_events_total", "Events handled by the worker", "type", "result")
	m.WorkerEventDuration = collector.RegisterHistogram("worker_event_duration_seconds", "Worker event handling duration", DefaultFetchDurationBuckets, "type")
	m.SnapshotExports = collector.RegisterCounter("snapshot_exports_total", "Statistics snapshot exports", "result")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordHTTPRequest counts one finished request. route is the chi route
// pattern, not the raw path.
func (m *AppMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func (m *AppMetrics) TrackInFlight(method string) func() {
	if m == nil {
		return func() {}
	}
	g := m.HTTPActiveRequests.WithLabelValues(method)
	g.Inc()
	return g.Dec
}

// RecordGRPCRequest counts one finished gRPC call.
func (m *AppMetrics) RecordGRPCRequest(service, method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.GRPCRequestsTotal.WithLabelValues(service, method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(service, method).Observe(d.Seconds())
}

// RecordAuthAttempt counts a login. reason is empty on success.
func (m *AppMetrics) RecordAuthAttempt(success bool, reason string) {
	if m == nil {
		return
	}
	res := "success"
	if !success {
		res = "failure"
	}
	m.AuthAttemptsTotal.WithLabelValues(res, reason).Inc()
}

// ObserveCatalogFetch implements catalog.FetchObserver.
func (m *AppMetrics) ObserveCatalogFetch(table string, pages int, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.CatalogFetchPages.WithLabelValues(table).Add(float64(pages))
	m.CatalogFetchDuration.WithLabelValues(table).Observe(d.Seconds())
	if err != nil {
		m.CatalogFetchFailures.WithLabelValues(table).Inc()
	}
}

// RecordDBQuery observes one query against db.
func (m *AppMetrics) RecordDBQuery(db, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(db, operation).Observe(d.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(db, operation).Inc()
	}
}

// RecordCacheHit implements redis.CacheObserver.
func (m *AppMetrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss implements redis.CacheObserver.
func (m *AppMetrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// ObservePublish matches kafka.ProducerConfig.OnPublish.
func (m *AppMetrics) ObservePublish(topic string, err error) {
	if m == nil {
		return
	}
	m.KafkaPublishTotal.WithLabelValues(topic, result(err)).Inc()
}

// RecordWorkerEvent observes one consumed event.
func (m *AppMetrics) RecordWorkerEvent(eventType string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.WorkerEventsTotal.WithLabelValues(eventType, result(err)).Inc()
	m.WorkerEventDuration.WithLabelValues(eventType).Observe(d.Seconds())
}

// RecordSnapshotExport counts one MinIO snapshot write.
func (m *AppMetrics) RecordSnapshotExport(err error) {
	if m == nil {
		return
	}
	m.SnapshotExports.WithLabelValues(result(err)).Inc()
}

// SetHealth sets the component gauge to 1 when up.
func (m *AppMetrics) SetHealth(component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

//Personal.AI order the ending
