package metrics

import (
	"fmt"
	"time"

	"github.com/rcrowley/go-metrics"

	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

// Metrics is the go-metrics backed MetricsEngine. Its registry is dumped as JSON on the admin port.
type Metrics struct {
	MetricsRegistry            metrics.Registry
	ConnectionCounter          metrics.Counter
	ConnectionAcceptErrorMeter metrics.Meter
	ConnectionCloseErrorMeter  metrics.Meter
	AdPodImpsHistogram         metrics.Histogram

	RequestStatuses  map[EndpointType]map[RequestStatus]metrics.Meter
	RequestTimers    map[EndpointType]metrics.Timer
	OutboundRequests map[openrtb_ext.BidType]metrics.Meter
	Bids             map[openrtb_ext.BidType]metrics.Meter
	AdapterErrors    map[AdapterError]metrics.Meter
	UserSyncs        map[usersync.SyncType]metrics.Meter
}

// NewMetrics creates a Metrics object with every metric registered up front, so that all series
// are reported from the start even when they stay at zero.
func NewMetrics(registry metrics.Registry) *Metrics {
	m := &Metrics{
		MetricsRegistry:            registry,
		ConnectionCounter:          metrics.GetOrRegisterCounter("active_connections", registry),
		ConnectionAcceptErrorMeter: metrics.GetOrRegisterMeter("connection_accept_errors", registry),
		ConnectionCloseErrorMeter:  metrics.GetOrRegisterMeter("connection_close_errors", registry),
		AdPodImpsHistogram:         metrics.GetOrRegisterHistogram("adpod_imps", registry, metrics.NewExpDecaySample(1028, 0.015)),

		RequestStatuses:  make(map[EndpointType]map[RequestStatus]metrics.Meter),
		RequestTimers:    make(map[EndpointType]metrics.Timer),
		OutboundRequests: make(map[openrtb_ext.BidType]metrics.Meter),
		Bids:             make(map[openrtb_ext.BidType]metrics.Meter),
		AdapterErrors:    make(map[AdapterError]metrics.Meter),
		UserSyncs:        make(map[usersync.SyncType]metrics.Meter),
	}

	for _, endpoint := range EndpointTypes() {
		m.RequestStatuses[endpoint] = make(map[RequestStatus]metrics.Meter)
		for _, status := range RequestStatuses() {
			m.RequestStatuses[endpoint][status] = metrics.GetOrRegisterMeter(fmt.Sprintf("requests.%s.%s", endpoint, status), registry)
		}
		m.RequestTimers[endpoint] = metrics.GetOrRegisterTimer(fmt.Sprintf("request_time.%s", endpoint), registry)
	}
	for _, mediaType := range openrtb_ext.BidTypes() {
		m.OutboundRequests[mediaType] = metrics.GetOrRegisterMeter(fmt.Sprintf("outbound_requests.%s", mediaType), registry)
		m.Bids[mediaType] = metrics.GetOrRegisterMeter(fmt.Sprintf("bids.%s", mediaType), registry)
	}
	for _, adapterError := range AdapterErrors() {
		m.AdapterErrors[adapterError] = metrics.GetOrRegisterMeter(fmt.Sprintf("adapter_errors.%s", adapterError), registry)
	}
	for _, syncType := range SyncTypes() {
		m.UserSyncs[syncType] = metrics.GetOrRegisterMeter(fmt.Sprintf("usersyncs.%s", syncType), registry)
	}

	return m
}

func (me *Metrics) RecordConnectionAccept(success bool) {
	if success {
		me.ConnectionCounter.Inc(1)
	} else {
		me.ConnectionAcceptErrorMeter.Mark(1)
	}
}

func (me *Metrics) RecordConnectionClose(success bool) {
	if success {
		me.ConnectionCounter.Dec(1)
	} else {
		me.ConnectionCloseErrorMeter.Mark(1)
	}
}

func (me *Metrics) RecordRequest(labels Labels) {
	if meter, ok := me.RequestStatuses[labels.Endpoint][labels.RequestStatus]; ok {
		meter.Mark(1)
	}
}

func (me *Metrics) RecordRequestTime(labels Labels, length time.Duration) {
	// Only successful requests are timed, so failures do not skew the latency.
	if labels.RequestStatus != RequestStatusOK {
		return
	}
	if timer, ok := me.RequestTimers[labels.Endpoint]; ok {
		timer.Update(length)
	}
}

func (me *Metrics) RecordOutboundRequest(mediaType openrtb_ext.BidType) {
	if meter, ok := me.OutboundRequests[mediaType]; ok {
		meter.Mark(1)
	}
}

func (me *Metrics) RecordAdPodImps(count int) {
	me.AdPodImpsHistogram.Update(int64(count))
}

func (me *Metrics) RecordBid(mediaType openrtb_ext.BidType) {
	if meter, ok := me.Bids[mediaType]; ok {
		meter.Mark(1)
	}
}

func (me *Metrics) RecordAdapterError(adapterError AdapterError) {
	if meter, ok := me.AdapterErrors[adapterError]; ok {
		meter.Mark(1)
	}
}

func (me *Metrics) RecordUserSync(syncType usersync.SyncType) {
	if meter, ok := me.UserSyncs[syncType]; ok {
		meter.Mark(1)
	}
}
