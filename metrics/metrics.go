package metrics

import (
	"time"

	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

// Labels defines the labels that can be attached to the endpoint metrics.
type Labels struct {
	Endpoint      EndpointType
	RequestStatus RequestStatus
}

// EndpointType names the HTTP endpoint a request was served by.
type EndpointType string

const (
	EndpointRequests  EndpointType = "requests"
	EndpointBids      EndpointType = "bids"
	EndpointUserSyncs EndpointType = "usersyncs"
)

func EndpointTypes() []EndpointType {
	return []EndpointType{
		EndpointRequests,
		EndpointBids,
		EndpointUserSyncs,
	}
}

// RequestStatus is the outcome of an endpoint request.
type RequestStatus string

const (
	RequestStatusOK       RequestStatus = "ok"
	RequestStatusBadInput RequestStatus = "badinput"
	RequestStatusErr      RequestStatus = "err"
)

func RequestStatuses() []RequestStatus {
	return []RequestStatus{
		RequestStatusOK,
		RequestStatusBadInput,
		RequestStatusErr,
	}
}

// AdapterError classifies the errors and warnings the adapter reports.
type AdapterError string

const (
	AdapterErrorBadInput          AdapterError = "badinput"
	AdapterErrorBadServerResponse AdapterError = "badserverresponse"
	AdapterErrorWarning           AdapterError = "warning"
	AdapterErrorUnknown           AdapterError = "unknown_error"
)

func AdapterErrors() []AdapterError {
	return []AdapterError{
		AdapterErrorBadInput,
		AdapterErrorBadServerResponse,
		AdapterErrorWarning,
		AdapterErrorUnknown,
	}
}

// AdapterErrorOf maps an adapter error onto its metric label.
func AdapterErrorOf(err error) AdapterError {
	if errortypes.IsWarning(err) {
		return AdapterErrorWarning
	}
	switch errortypes.ReadCode(err) {
	case errortypes.BadInputErrorCode:
		return AdapterErrorBadInput
	case errortypes.BadServerResponseErrorCode:
		return AdapterErrorBadServerResponse
	default:
		return AdapterErrorUnknown
	}
}

func SyncTypes() []usersync.SyncType {
	return []usersync.SyncType{
		usersync.SyncTypeIFrame,
		usersync.SyncTypeImage,
	}
}

// MetricsEngine is a generic interface to record metrics into the desired backend.
// The first three metrics function fire off once per incoming request, so total metrics
// will equal the total number of incoming requests. The remaining ones fire per outbound
// request, bid, error or sync.
type MetricsEngine interface {
	RecordConnectionAccept(success bool)
	RecordConnectionClose(success bool)
	RecordRequest(labels Labels)
	RecordRequestTime(labels Labels, length time.Duration)
	// RecordOutboundRequest counts one request built for the exchange.
	RecordOutboundRequest(mediaType openrtb_ext.BidType)
	// RecordAdPodImps records how many impressions one ad pod was split into.
	RecordAdPodImps(count int)
	RecordBid(mediaType openrtb_ext.BidType)
	RecordAdapterError(adapterError AdapterError)
	RecordUserSync(syncType usersync.SyncType)
}
