package prometheusmetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaato/prebid-smaato-adapter/config"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

func createMetricsForTesting() *Metrics {
	return NewMetrics(config.PrometheusMetrics{
		Port:      8080,
		Namespace: "smaato",
		Subsystem: "adapter",
	})
}

func TestMetricsArePreloaded(t *testing.T) {
	m := createMetricsForTesting()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}

	assert.Len(t, byName["smaato_adapter_requests"].GetMetric(), len(metrics.EndpointTypes())*len(metrics.RequestStatuses()))
	assert.Len(t, byName["smaato_adapter_adapter_requests"].GetMetric(), len(openrtb_ext.BidTypes()))
	assert.Len(t, byName["smaato_adapter_adapter_errors"].GetMetric(), len(metrics.AdapterErrors()))
	assert.Len(t, byName["smaato_adapter_adapter_user_sync"].GetMetric(), 2)
	assert.Len(t, byName["smaato_adapter_connections_error"].GetMetric(), 2)
}

func TestConnectionMetrics(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordConnectionAccept(true)
	m.RecordConnectionAccept(true)
	m.RecordConnectionAccept(false)
	m.RecordConnectionClose(true)
	m.RecordConnectionClose(false)
	m.RecordConnectionClose(false)

	assertCounterValue(t, "connections_opened", m.connectionsOpened, 2)
	assertCounterValue(t, "connections_closed", m.connectionsClosed, 1)
	assertCounterVecValue(t, "connections_error[accept]", m.connectionsError,
		prometheus.Labels{connectionErrorLabel: connectionAcceptError}, 1)
	assertCounterVecValue(t, "connections_error[close]", m.connectionsError,
		prometheus.Labels{connectionErrorLabel: connectionCloseError}, 2)
}

func TestRecordRequest(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordRequest(metrics.Labels{Endpoint: metrics.EndpointRequests, RequestStatus: metrics.RequestStatusOK})
	m.RecordRequest(metrics.Labels{Endpoint: metrics.EndpointRequests, RequestStatus: metrics.RequestStatusOK})
	m.RecordRequest(metrics.Labels{Endpoint: metrics.EndpointBids, RequestStatus: metrics.RequestStatusBadInput})

	assertCounterVecValue(t, "requests[requests,ok]", m.requests,
		prometheus.Labels{requestTypeLabel: "requests", requestStatusLabel: "ok"}, 2)
	assertCounterVecValue(t, "requests[bids,badinput]", m.requests,
		prometheus.Labels{requestTypeLabel: "bids", requestStatusLabel: "badinput"}, 1)
	assertCounterVecValue(t, "requests[usersyncs,ok]", m.requests,
		prometheus.Labels{requestTypeLabel: "usersyncs", requestStatusLabel: "ok"}, 0)
}

func TestRecordRequestTime(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordRequestTime(metrics.Labels{Endpoint: metrics.EndpointBids, RequestStatus: metrics.RequestStatusOK}, 30*time.Millisecond)
	m.RecordRequestTime(metrics.Labels{Endpoint: metrics.EndpointBids, RequestStatus: metrics.RequestStatusErr}, time.Second)

	result := getHistogramFromHistogramVec(m.requestsTimer, requestTypeLabel, "bids")
	assert.Equal(t, uint64(1), result.GetSampleCount())
	assert.InDelta(t, 0.03, result.GetSampleSum(), 0.0001)
}

func TestRecordAdapterActivity(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordOutboundRequest(openrtb_ext.BidTypeNative)
	m.RecordBid(openrtb_ext.BidTypeNative)
	m.RecordBid(openrtb_ext.BidTypeNative)
	m.RecordAdapterError(metrics.AdapterErrorWarning)
	m.RecordUserSync(usersync.SyncTypeIFrame)
	m.RecordUserSync(usersync.SyncTypeUnknown)
	m.RecordAdPodImps(3)
	m.RecordAdPodImps(5)

	assertCounterVecValue(t, "adapter_requests[native]", m.adapterRequests,
		prometheus.Labels{bidTypeLabel: "native"}, 1)
	assertCounterVecValue(t, "adapter_bids[native]", m.adapterBids,
		prometheus.Labels{bidTypeLabel: "native"}, 2)
	assertCounterVecValue(t, "adapter_errors[warning]", m.adapterErrors,
		prometheus.Labels{adapterErrorLabel: "warning"}, 1)
	assertCounterVecValue(t, "adapter_user_sync[iframe]", m.adapterUserSync,
		prometheus.Labels{syncTypeLabel: "iframe"}, 1)

	var metric dto.Metric
	require.NoError(t, m.adPodImps.Write(&metric))
	assert.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
	assert.Equal(t, float64(8), metric.GetHistogram().GetSampleSum())
}

func TestGenerateValuePermutations(t *testing.T) {
	result := generateValuePermutations([][]string{{"a", "b"}, {"1", "2", "3"}})

	assert.Equal(t, [][]string{
		{"a", "1"}, {"a", "2"}, {"a", "3"},
		{"b", "1"}, {"b", "2"}, {"b", "3"},
	}, result)
}

func assertCounterValue(t *testing.T, name string, counter prometheus.Counter, expected float64) {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	assert.Equal(t, expected, metric.GetCounter().GetValue(), name)
}

func assertCounterVecValue(t *testing.T, name string, counterVec *prometheus.CounterVec, labels prometheus.Labels, expected float64) {
	t.Helper()
	assertCounterValue(t, name, counterVec.With(labels), expected)
}

func getHistogramFromHistogramVec(histogram *prometheus.HistogramVec, labelKey, labelValue string) *dto.Histogram {
	var result *dto.Histogram
	processMetrics(histogram, func(m *dto.Metric) {
		for _, label := range m.GetLabel() {
			if label.GetName() == labelKey && label.GetValue() == labelValue {
				result = m.GetHistogram()
			}
		}
	})
	return result
}

func processMetrics(collector prometheus.Collector, handler func(m *dto.Metric)) {
	collectorChan := make(chan prometheus.Metric)
	go func() {
		collector.Collect(collectorChan)
		close(collectorChan)
	}()

	for metric := range collectorChan {
		dtoMetric := &dto.Metric{}
		metric.Write(dtoMetric)
		handler(dtoMetric)
	}
}
