package endpoints

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/mock"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	"github.com/smaato/prebid-smaato-adapter/privacy"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

type mockBidder struct {
	mock.Mock
}

func (m *mockBidder) IsBidRequestValid(adUnit *adapters.AdUnitRequest) bool {
	args := m.Called(adUnit)
	return args.Bool(0)
}

func (m *mockBidder) MakeRequests(adUnits []*adapters.AdUnitRequest, bidderRequest *adapters.BidderRequest) ([]*adapters.RequestData, []error) {
	args := m.Called(adUnits, bidderRequest)
	requests, _ := args.Get(0).([]*adapters.RequestData)
	errs, _ := args.Get(1).([]error)
	return requests, errs
}

func (m *mockBidder) MakeBids(request *adapters.RequestData, response *adapters.ResponseData) ([]*adapters.BidResult, []error) {
	args := m.Called(request, response)
	bids, _ := args.Get(0).([]*adapters.BidResult)
	errs, _ := args.Get(1).([]error)
	return bids, errs
}

func (m *mockBidder) GetUserSyncs(options usersync.Options, policies privacy.Policies) []usersync.Sync {
	args := m.Called(options, policies)
	syncs, _ := args.Get(0).([]usersync.Sync)
	return syncs
}

// newMetricsMock accepts every call, so tests only assert on the ones they care about.
func newMetricsMock() *metrics.MetricsEngineMock {
	metricsEngine := &metrics.MetricsEngineMock{}
	metricsEngine.On("RecordRequest", mock.Anything).Return()
	metricsEngine.On("RecordRequestTime", mock.Anything, mock.Anything).Return()
	metricsEngine.On("RecordOutboundRequest", mock.Anything).Return()
	metricsEngine.On("RecordAdPodImps", mock.Anything).Return()
	metricsEngine.On("RecordBid", mock.Anything).Return()
	metricsEngine.On("RecordAdapterError", mock.Anything).Return()
	metricsEngine.On("RecordUserSync", mock.Anything).Return()
	return metricsEngine
}

func doRequest(handle httprouter.Handle, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	handle(recorder, req, nil)
	return recorder
}

func assertRequestLabel(t *testing.T, metricsEngine *metrics.MetricsEngineMock, endpoint metrics.EndpointType, status metrics.RequestStatus) {
	t.Helper()
	metricsEngine.AssertCalled(t, "RecordRequest", metrics.Labels{Endpoint: endpoint, RequestStatus: status})
}
