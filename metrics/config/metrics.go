package config

import (
	"time"

	gometrics "github.com/rcrowley/go-metrics"

	mainConfig "github.com/smaato/prebid-smaato-adapter/config"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	prometheusmetrics "github.com/smaato/prebid-smaato-adapter/metrics/prometheus"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine
// for this instance.
func NewMetricsEngine(cfg *mainConfig.Configuration) *DetailedMetricsEngine {
	// Create a list of metrics engines to use.
	// Capacity of 2, as unlikely to have more than 2 metrics backends, and in the case
	// of 1 we won't use the list so it will be garbage collected.
	engineList := make(MultiMetricsEngine, 0, 2)
	returnEngine := DetailedMetricsEngine{}

	// The go-metrics registry backs the admin /metrics/json dump and is always on.
	returnEngine.GoMetrics = metrics.NewMetrics(gometrics.NewPrefixedRegistry("smaato."))
	engineList = append(engineList, returnEngine.GoMetrics)

	if cfg.Metrics.Prometheus.Port != 0 {
		returnEngine.PrometheusMetrics = prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus)
		engineList = append(engineList, returnEngine.PrometheusMetrics)
	}

	// Now return the proper metrics engine
	if len(engineList) > 1 {
		returnEngine.MetricsEngine = &engineList
	} else {
		returnEngine.MetricsEngine = engineList[0]
	}

	return &returnEngine
}

// DetailedMetricsEngine is a MultiMetricsEngine that preserves links to underlying metrics engines.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	GoMetrics         *metrics.Metrics
	PrometheusMetrics *prometheusmetrics.Metrics
}

// MultiMetricsEngine logs metrics to multiple metrics databases. These can be useful in transitioning
// an instance from one engine to another, you can run both in parallel to verify stats match up.
type MultiMetricsEngine []metrics.MetricsEngine

// RecordConnectionAccept across all engines
func (me *MultiMetricsEngine) RecordConnectionAccept(success bool) {
	for _, thisME := range *me {
		thisME.RecordConnectionAccept(success)
	}
}

// RecordConnectionClose across all engines
func (me *MultiMetricsEngine) RecordConnectionClose(success bool) {
	for _, thisME := range *me {
		thisME.RecordConnectionClose(success)
	}
}

// RecordRequest across all engines
func (me *MultiMetricsEngine) RecordRequest(labels metrics.Labels) {
	for _, thisME := range *me {
		thisME.RecordRequest(labels)
	}
}

// RecordRequestTime across all engines
func (me *MultiMetricsEngine) RecordRequestTime(labels metrics.Labels, length time.Duration) {
	for _, thisME := range *me {
		thisME.RecordRequestTime(labels, length)
	}
}

// RecordOutboundRequest across all engines
func (me *MultiMetricsEngine) RecordOutboundRequest(mediaType openrtb_ext.BidType) {
	for _, thisME := range *me {
		thisME.RecordOutboundRequest(mediaType)
	}
}

// RecordAdPodImps across all engines
func (me *MultiMetricsEngine) RecordAdPodImps(count int) {
	for _, thisME := range *me {
		thisME.RecordAdPodImps(count)
	}
}

// RecordBid across all engines
func (me *MultiMetricsEngine) RecordBid(mediaType openrtb_ext.BidType) {
	for _, thisME := range *me {
		thisME.RecordBid(mediaType)
	}
}

// RecordAdapterError across all engines
func (me *MultiMetricsEngine) RecordAdapterError(adapterError metrics.AdapterError) {
	for _, thisME := range *me {
		thisME.RecordAdapterError(adapterError)
	}
}

// RecordUserSync across all engines
func (me *MultiMetricsEngine) RecordUserSync(syncType usersync.SyncType) {
	for _, thisME := range *me {
		thisME.RecordUserSync(syncType)
	}
}
