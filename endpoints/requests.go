package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/tidwall/gjson"
	"golang.org/x/text/currency"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/floors"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/util/jsonutil"
)

type requestsPayload struct {
	BidRequests   []*adUnitPayload        `json:"bidRequests"`
	BidderRequest *adapters.BidderRequest `json:"bidderRequest"`
}

// adUnitPayload is an ad unit together with the static floor rules that stand in for a floor module.
type adUnitPayload struct {
	adapters.AdUnitRequest
	Floors *floors.RuleSet `json:"floors,omitempty"`
}

type requestsResponse struct {
	Requests []*adapters.RequestData `json:"requests"`
	Errors   []responseError         `json:"errors"`
}

func NewRequestsEndpoint(bidder adapters.Bidder, metricsEngine metrics.MetricsEngine) httprouter.Handle {
	deps := &requestsDeps{
		bidder:        bidder,
		metricsEngine: metricsEngine,
	}
	return deps.Endpoint
}

type requestsDeps struct {
	bidder        adapters.Bidder
	metricsEngine metrics.MetricsEngine
}

func (deps *requestsDeps) Endpoint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start := time.Now()
	labels := metrics.Labels{
		Endpoint:      metrics.EndpointRequests,
		RequestStatus: metrics.RequestStatusOK,
	}
	defer func() {
		deps.metricsEngine.RecordRequest(labels)
		deps.metricsEngine.RecordRequestTime(labels, time.Since(start))
	}()

	payload, err := readRequestsPayload(r)
	if err != nil {
		labels.RequestStatus = metrics.RequestStatusBadInput
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bidderRequest := payload.BidderRequest
	if bidderRequest == nil {
		bidderRequest = &adapters.BidderRequest{}
	}
	if bidderRequest.ORTB2 == nil {
		bidderRequest.ORTB2 = &openrtb2.BidRequest{}
	}
	if bidderRequest.ORTB2.Device == nil {
		bidderRequest.ORTB2.Device = &openrtb2.Device{}
	}
	fillDevice(bidderRequest.ORTB2.Device, r)

	var errs []error
	for _, err := range bidderRequest.PrivacyPolicies().Validate() {
		errs = append(errs, &errortypes.Warning{
			Message:     err.Error(),
			WarningCode: errortypes.InvalidPrivacyConsentWarningCode,
		})
	}

	adUnits := make([]*adapters.AdUnitRequest, 0, len(payload.BidRequests))
	for _, unit := range payload.BidRequests {
		adUnit := &unit.AdUnitRequest
		if !deps.bidder.IsBidRequestValid(adUnit) {
			errs = append(errs, &errortypes.Warning{
				Message:     fmt.Sprintf("Ad unit %s skipped: invalid bidder params.", adUnit.BidID),
				WarningCode: errortypes.SkippedAdUnitWarningCode,
			})
			continue
		}
		if unit.Floors != nil {
			adUnit.Floors = unit.Floors
		}
		adUnits = append(adUnits, adUnit)
	}

	requests, requestErrs := deps.bidder.MakeRequests(adUnits, bidderRequest)
	errs = append(errs, requestErrs...)

	for _, request := range requests {
		deps.metricsEngine.RecordOutboundRequest(request.MediaType)
		if request.MediaType == openrtb_ext.BidTypeVideo && isAdPodRequest(request) {
			deps.metricsEngine.RecordAdPodImps(int(gjson.GetBytes(request.Body, "imp.#").Int()))
		}
	}
	recordAdapterErrors(deps.metricsEngine, errs)

	status := http.StatusOK
	if len(requests) == 0 && errortypes.ContainsFatalError(errs) {
		labels.RequestStatus = metrics.RequestStatusBadInput
		status = http.StatusBadRequest
	}
	if requests == nil {
		requests = []*adapters.RequestData{}
	}

	writeJSON(w, status, requestsResponse{
		Requests: requests,
		Errors:   toResponseErrors(errs),
	})
}

func readRequestsPayload(r *http.Request) (*requestsPayload, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("Failed to read request body: %v", err)
	}

	var payload requestsPayload
	if err := jsonutil.Unmarshal(body, &payload); err != nil {
		glog.V(2).Infof("Rejected malformed requests payload: %v", err)
		return nil, fmt.Errorf("Invalid request body: %v", err)
	}

	for i, unit := range payload.BidRequests {
		if unit == nil {
			return nil, fmt.Errorf("bidRequests[%d] must be an object", i)
		}
		if unit.Floors == nil || unit.Floors.Currency == "" {
			continue
		}
		if _, err := currency.ParseISO(unit.Floors.Currency); err != nil {
			return nil, fmt.Errorf("bidRequests[%d].floors.currency %q is not an ISO 4217 code", i, unit.Floors.Currency)
		}
	}

	return &payload, nil
}

func isAdPodRequest(request *adapters.RequestData) bool {
	return gjson.GetBytes(request.Body, "imp.0.video.ext.context").String() == openrtb_ext.AdPodContext
}
