package prometheusmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smaato/prebid-smaato-adapter/config"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

// Metrics defines the Prometheus metrics backing the MetricsEngine implementation.
type Metrics struct {
	Registry *prometheus.Registry

	// General Metrics
	connectionsClosed prometheus.Counter
	connectionsError  *prometheus.CounterVec
	connectionsOpened prometheus.Counter
	requests          *prometheus.CounterVec
	requestsTimer     *prometheus.HistogramVec

	// Adapter Metrics
	adapterRequests *prometheus.CounterVec
	adapterBids     *prometheus.CounterVec
	adapterErrors   *prometheus.CounterVec
	adapterUserSync *prometheus.CounterVec
	adPodImps       prometheus.Histogram
}

const (
	adapterErrorLabel    = "adapter_error"
	bidTypeLabel         = "bid_type"
	connectionErrorLabel = "connection_error"
	requestStatusLabel   = "request_status"
	requestTypeLabel     = "request_type"
	syncTypeLabel        = "sync_type"
)

const (
	connectionAcceptError = "accept"
	connectionCloseError  = "close"
)

// NewMetrics initializes a new Prometheus metrics instance with preloaded label values.
func NewMetrics(cfg config.PrometheusMetrics) *Metrics {
	standardTimeBuckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5, 1}
	adPodImpBuckets := []float64{1, 2, 3, 4, 6, 8, 12, 16, 24, 32}

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()

	metrics.connectionsClosed = newCounterWithoutLabels(cfg, metrics.Registry,
		"connections_closed",
		"Count of successful connections closed to the adapter service.")

	metrics.connectionsError = newCounter(cfg, metrics.Registry,
		"connections_error",
		"Count of errors for connection open and close attempts to the adapter service labeled by type.",
		[]string{connectionErrorLabel})

	metrics.connectionsOpened = newCounterWithoutLabels(cfg, metrics.Registry,
		"connections_opened",
		"Count of successful connections opened to the adapter service.")

	metrics.requests = newCounter(cfg, metrics.Registry,
		"requests",
		"Count of total requests to the adapter service labeled by type and status.",
		[]string{requestTypeLabel, requestStatusLabel})

	metrics.requestsTimer = newHistogramVec(cfg, metrics.Registry,
		"request_time_seconds",
		"Seconds to resolve successful requests labeled by type.",
		[]string{requestTypeLabel},
		standardTimeBuckets)

	metrics.adapterRequests = newCounter(cfg, metrics.Registry,
		"adapter_requests",
		"Count of requests built for the exchange labeled by media type.",
		[]string{bidTypeLabel})

	metrics.adapterBids = newCounter(cfg, metrics.Registry,
		"adapter_bids",
		"Count of bids returned by the exchange labeled by media type.",
		[]string{bidTypeLabel})

	metrics.adapterErrors = newCounter(cfg, metrics.Registry,
		"adapter_errors",
		"Count of errors and warnings raised while building requests or reading bids labeled by error type.",
		[]string{adapterErrorLabel})

	metrics.adapterUserSync = newCounter(cfg, metrics.Registry,
		"adapter_user_sync",
		"Count of user syncs handed out labeled by sync type.",
		[]string{syncTypeLabel})

	metrics.adPodImps = newHistogram(cfg, metrics.Registry,
		"adpod_imps",
		"Number of impressions an ad pod was split into.",
		adPodImpBuckets)

	preloadLabelValues(&metrics)

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newCounterWithoutLabels(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string) prometheus.Counter {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounter(opts)
	registry.MustRegister(counter)
	return counter
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func newHistogram(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, buckets []float64) prometheus.Histogram {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogram(opts)
	registry.MustRegister(histogram)
	return histogram
}

func (m *Metrics) RecordConnectionAccept(success bool) {
	if success {
		m.connectionsOpened.Inc()
	} else {
		m.connectionsError.With(prometheus.Labels{
			connectionErrorLabel: connectionAcceptError,
		}).Inc()
	}
}

func (m *Metrics) RecordConnectionClose(success bool) {
	if success {
		m.connectionsClosed.Inc()
	} else {
		m.connectionsError.With(prometheus.Labels{
			connectionErrorLabel: connectionCloseError,
		}).Inc()
	}
}

func (m *Metrics) RecordRequest(labels metrics.Labels) {
	m.requests.With(prometheus.Labels{
		requestTypeLabel:   string(labels.Endpoint),
		requestStatusLabel: string(labels.RequestStatus),
	}).Inc()
}

func (m *Metrics) RecordRequestTime(labels metrics.Labels, length time.Duration) {
	if labels.RequestStatus == metrics.RequestStatusOK {
		m.requestsTimer.With(prometheus.Labels{
			requestTypeLabel: string(labels.Endpoint),
		}).Observe(length.Seconds())
	}
}

func (m *Metrics) RecordOutboundRequest(mediaType openrtb_ext.BidType) {
	m.adapterRequests.With(prometheus.Labels{
		bidTypeLabel: string(mediaType),
	}).Inc()
}

func (m *Metrics) RecordAdPodImps(count int) {
	m.adPodImps.Observe(float64(count))
}

func (m *Metrics) RecordBid(mediaType openrtb_ext.BidType) {
	m.adapterBids.With(prometheus.Labels{
		bidTypeLabel: string(mediaType),
	}).Inc()
}

func (m *Metrics) RecordAdapterError(adapterError metrics.AdapterError) {
	m.adapterErrors.With(prometheus.Labels{
		adapterErrorLabel: string(adapterError),
	}).Inc()
}

func (m *Metrics) RecordUserSync(syncType usersync.SyncType) {
	if syncType == usersync.SyncTypeUnknown {
		return
	}
	m.adapterUserSync.With(prometheus.Labels{
		syncTypeLabel: string(syncType),
	}).Inc()
}
