package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaato/prebid-smaato-adapter/config"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

const schemaDirectory = "../static/bidder-params"

type testValidator struct{}

func (validator *testValidator) Validate(name openrtb_ext.BidderName, ext json.RawMessage) error {
	return nil
}

func (validator *testValidator) Schema(name openrtb_ext.BidderName) string {
	if name == openrtb_ext.BidderSmaato {
		return "{\"smaato\":true}"
	}
	return "{\"smaato\":false}"
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		Port:            8000,
		AdminPort:       6060,
		StatusResponse:  "ok",
		BidderParamsDir: schemaDirectory,
		Adapter:         config.Adapter{Endpoint: "https://prebid.ad.smaato.net/oapi/prebid"},
		UserSync: config.UserSync{
			ImageURL:  "https://s.ad.smaato.net/c/?adExInit=p",
			IFrameURL: "https://s.ad.smaato.net/i/?adExInit=p",
		},
	}
}

func TestNewJsonDirectoryServer(t *testing.T) {
	handler := NewJsonDirectoryServer(schemaDirectory, &testValidator{})
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/whatever", nil)
	handler(recorder, request, nil)

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &data))

	for _, bidder := range openrtb_ext.CoreBidderNames() {
		assert.Contains(t, data, string(bidder), "every bidder needs a params schema")
	}
	assert.JSONEq(t, `{"smaato":true}`, string(data["smaato"]))
}

func TestNoCache(t *testing.T) {
	nc := NoCache{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	}
	rw := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "http://localhost/nocache", nil)
	nc.ServeHTTP(rw, req)
	h := rw.Header()
	assert.Equal(t, "no-cache, no-store, must-revalidate", h.Get("Cache-Control"))
	assert.Equal(t, "no-cache", h.Get("Pragma"))
	assert.Equal(t, "0", h.Get("Expires"))
}

func TestSupportCORS(t *testing.T) {
	handler := SupportCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodOptions, "/smaato/requests", nil)
	req.Header.Set("Origin", "https://publisher.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "https://publisher.example", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
}

func TestNewRouter(t *testing.T) {
	cfg := testConfig()
	r, err := New(cfg, config.NewStore(cfg), "1.0.0", "abc")
	require.NoError(t, err)
	require.NotNil(t, r.MetricsEngine)
	assert.Nil(t, r.MetricsEngine.PrometheusMetrics)

	testCases := []struct {
		method       string
		path         string
		body         string
		expectedCode int
		expectedBody string
	}{
		{method: http.MethodGet, path: "/status", expectedCode: http.StatusOK, expectedBody: "ok"},
		{method: http.MethodGet, path: "/version", expectedCode: http.StatusOK, expectedBody: `"version":"1.0.0"`},
		{method: http.MethodGet, path: "/bidders/params", expectedCode: http.StatusOK, expectedBody: `"smaato"`},
		{method: http.MethodGet, path: "/smaato/usersyncs?pixel=1", expectedCode: http.StatusOK, expectedBody: `"type":"image"`},
		{method: http.MethodPost, path: "/smaato/requests", body: `{"bidRequests":[]}`, expectedCode: http.StatusOK, expectedBody: `"requests":[]`},
		{method: http.MethodPost, path: "/smaato/bids", body: `{}`, expectedCode: http.StatusBadRequest, expectedBody: "request is required"},
		{method: http.MethodGet, path: "/smaato/requests", expectedCode: http.StatusMethodNotAllowed},
	}

	for _, test := range testCases {
		t.Run(test.method+" "+test.path, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			r.ServeHTTP(recorder, httptest.NewRequest(test.method, test.path, strings.NewReader(test.body)))

			assert.Equal(t, test.expectedCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), test.expectedBody)
		})
	}
}

func TestNewRouterErrors(t *testing.T) {
	cfg := testConfig()
	cfg.BidderParamsDir = "does-not-exist"
	_, err := New(cfg, config.NewStore(cfg), "", "")
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Adapter.Endpoint = ""
	_, err = New(cfg, config.NewStore(cfg), "", "")
	assert.Error(t, err)
}

func TestAdminServesMetrics(t *testing.T) {
	registry := gometrics.NewRegistry()
	gometrics.GetOrRegisterCounter("active_connections", registry).Inc(3)

	recorder := httptest.NewRecorder()
	Admin(registry).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics/json", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"active_connections":{"count":3}}`, recorder.Body.String())
}
