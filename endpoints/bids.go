package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	"github.com/smaato/prebid-smaato-adapter/util/jsonutil"
)

type bidsPayload struct {
	Request  *adapters.RequestData  `json:"request"`
	Response *adapters.ResponseData `json:"response"`
}

type bidsResponse struct {
	Bids   []*adapters.BidResult `json:"bids"`
	Errors []responseError       `json:"errors"`
}

func NewBidsEndpoint(bidder adapters.Bidder, metricsEngine metrics.MetricsEngine) httprouter.Handle {
	deps := &bidsDeps{
		bidder:        bidder,
		metricsEngine: metricsEngine,
	}
	return deps.Endpoint
}

type bidsDeps struct {
	bidder        adapters.Bidder
	metricsEngine metrics.MetricsEngine
}

func (deps *bidsDeps) Endpoint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start := time.Now()
	labels := metrics.Labels{
		Endpoint:      metrics.EndpointBids,
		RequestStatus: metrics.RequestStatusOK,
	}
	defer func() {
		deps.metricsEngine.RecordRequest(labels)
		deps.metricsEngine.RecordRequestTime(labels, time.Since(start))
	}()

	payload, err := readBidsPayload(r)
	if err != nil {
		labels.RequestStatus = metrics.RequestStatusBadInput
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bids, errs := deps.bidder.MakeBids(payload.Request, payload.Response)
	for _, bid := range bids {
		deps.metricsEngine.RecordBid(bid.MediaType)
	}
	recordAdapterErrors(deps.metricsEngine, errs)

	// A failing exchange response is still a well formed answer for the caller.
	if len(bids) == 0 && errortypes.ContainsFatalError(errs) {
		labels.RequestStatus = metrics.RequestStatusErr
	}
	if bids == nil {
		bids = []*adapters.BidResult{}
	}

	writeJSON(w, http.StatusOK, bidsResponse{
		Bids:   bids,
		Errors: toResponseErrors(errs),
	})
}

func readBidsPayload(r *http.Request) (*bidsPayload, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("Failed to read request body: %v", err)
	}

	var payload bidsPayload
	if err := jsonutil.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("Invalid request body: %v", err)
	}
	if payload.Request == nil {
		return nil, errors.New("request is required")
	}
	return &payload, nil
}
