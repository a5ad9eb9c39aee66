package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	"github.com/smaato/prebid-smaato-adapter/privacy"
	"github.com/smaato/prebid-smaato-adapter/privacy/ccpa"
	"github.com/smaato/prebid-smaato-adapter/privacy/gdpr"
	"github.com/smaato/prebid-smaato-adapter/privacy/gpp"
	"github.com/smaato/prebid-smaato-adapter/usersync"
	"github.com/smaato/prebid-smaato-adapter/util/ptrutil"
)

// NewUserSyncsEndpoint serves the syncs allowed by the iframe, pixel and privacy query parameters.
func NewUserSyncsEndpoint(bidder adapters.Bidder, metricsEngine metrics.MetricsEngine) httprouter.Handle {
	deps := &userSyncsDeps{
		bidder:        bidder,
		metricsEngine: metricsEngine,
	}
	return deps.Endpoint
}

type userSyncsDeps struct {
	bidder        adapters.Bidder
	metricsEngine metrics.MetricsEngine
}

func (deps *userSyncsDeps) Endpoint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start := time.Now()
	labels := metrics.Labels{
		Endpoint:      metrics.EndpointUserSyncs,
		RequestStatus: metrics.RequestStatusOK,
	}
	defer func() {
		deps.metricsEngine.RecordRequest(labels)
		deps.metricsEngine.RecordRequestTime(labels, time.Since(start))
	}()

	query := r.URL.Query()
	options := usersync.Options{
		IFrameEnabled: query.Get("iframe") == "1",
		PixelEnabled:  query.Get("pixel") == "1",
	}

	policies, err := parsePolicies(query)
	if err != nil {
		labels.RequestStatus = metrics.RequestStatusBadInput
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	syncs := deps.bidder.GetUserSyncs(options, policies)
	for _, sync := range syncs {
		deps.metricsEngine.RecordUserSync(sync.Type)
	}
	if syncs == nil {
		syncs = []usersync.Sync{}
	}

	writeJSON(w, http.StatusOK, syncs)
}

func parsePolicies(query url.Values) (privacy.Policies, error) {
	policies := privacy.Policies{
		GDPR: gdpr.Policy{Consent: query.Get("gdpr_consent")},
		CCPA: ccpa.Policy{Consent: query.Get("us_privacy")},
		GPP:  gpp.Policy{Consent: query.Get("gpp")},
	}

	switch value := query.Get("gdpr"); value {
	case "":
	case "0":
		policies.GDPR.Applies = ptrutil.ToPtr(false)
	case "1":
		policies.GDPR.Applies = ptrutil.ToPtr(true)
	default:
		return policies, fmt.Errorf("gdpr must be 0 or 1, got %q", value)
	}

	if value := query.Get("gpp_sid"); value != "" {
		for _, field := range strings.Split(value, ",") {
			sid, err := strconv.ParseInt(strings.TrimSpace(field), 10, 8)
			if err != nil {
				return policies, fmt.Errorf("gpp_sid must be a comma separated list of section ids, got %q", value)
			}
			policies.GPP.SectionIDs = append(policies.GPP.SectionIDs, int8(sid))
		}
	}

	return policies, nil
}
