package prometheusmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/smaato/prebid-smaato-adapter/metrics"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

// preloadLabelValues touches every known label combination so the series are exported at zero
// before the first event arrives.
func preloadLabelValues(m *Metrics) {
	var (
		adapterErrorValues    = adapterErrorsAsString()
		bidTypeValues         = bidTypesAsString()
		connectionErrorValues = []string{connectionAcceptError, connectionCloseError}
		requestStatusValues   = requestStatusesAsString()
		requestTypeValues     = endpointTypesAsString()
		syncTypeValues        = syncTypesAsString()
	)

	preloadLabelValuesForCounter(m.connectionsError, map[string][]string{
		connectionErrorLabel: connectionErrorValues,
	})

	preloadLabelValuesForCounter(m.requests, map[string][]string{
		requestTypeLabel:   requestTypeValues,
		requestStatusLabel: requestStatusValues,
	})

	preloadLabelValuesForHistogram(m.requestsTimer, map[string][]string{
		requestTypeLabel: requestTypeValues,
	})

	preloadLabelValuesForCounter(m.adapterRequests, map[string][]string{
		bidTypeLabel: bidTypeValues,
	})

	preloadLabelValuesForCounter(m.adapterBids, map[string][]string{
		bidTypeLabel: bidTypeValues,
	})

	preloadLabelValuesForCounter(m.adapterErrors, map[string][]string{
		adapterErrorLabel: adapterErrorValues,
	})

	preloadLabelValuesForCounter(m.adapterUserSync, map[string][]string{
		syncTypeLabel: syncTypeValues,
	})
}

func preloadLabelValuesForCounter(counter *prometheus.CounterVec, labelsWithValues map[string][]string) {
	registerLabelPermutations(labelsWithValues, func(labels prometheus.Labels) {
		counter.With(labels)
	})
}

func preloadLabelValuesForHistogram(histogram *prometheus.HistogramVec, labelsWithValues map[string][]string) {
	registerLabelPermutations(labelsWithValues, func(labels prometheus.Labels) {
		histogram.With(labels)
	})
}

func registerLabelPermutations(labelsWithValues map[string][]string, register func(prometheus.Labels)) {
	if len(labelsWithValues) == 0 {
		return
	}

	keys := make([]string, 0, len(labelsWithValues))
	values := make([][]string, 0, len(labelsWithValues))
	for k, v := range labelsWithValues {
		keys = append(keys, k)
		values = append(values, v)
	}

	labelValuePermutations := generateValuePermutations(values)

	for _, labelValues := range labelValuePermutations {
		labels := prometheus.Labels{}
		for i, value := range labelValues {
			labels[keys[i]] = value
		}
		register(labels)
	}
}

func generateValuePermutations(lists [][]string) [][]string {
	result := [][]string{{}}
	for _, list := range lists {
		next := make([][]string, 0, len(result)*len(list))
		for _, prefix := range result {
			for _, value := range list {
				permutation := make([]string, len(prefix), len(prefix)+1)
				copy(permutation, prefix)
				next = append(next, append(permutation, value))
			}
		}
		result = next
	}
	return result
}

func adapterErrorsAsString() []string {
	values := metrics.AdapterErrors()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func bidTypesAsString() []string {
	values := openrtb_ext.BidTypes()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func endpointTypesAsString() []string {
	values := metrics.EndpointTypes()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func requestStatusesAsString() []string {
	values := metrics.RequestStatuses()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func syncTypesAsString() []string {
	values := metrics.SyncTypes()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}
