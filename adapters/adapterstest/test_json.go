// Package adapterstest runs adapters against JSON described auctions.
//
// A test directory holds an "exemplary" folder, whose files must produce no errors at all, and a
// "supplemental" folder for edge cases which declare the errors they expect.
package adapterstest

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/floors"
	"github.com/smaato/prebid-smaato-adapter/util/jsonutil"
)

// RunJSONBidderTest runs every JSON file found in the exemplary and supplemental folders of rootDir.
func RunJSONBidderTest(t *testing.T, rootDir string, bidder adapters.Bidder) {
	t.Helper()
	runTests(t, filepath.Join(rootDir, "exemplary"), bidder, false)
	runTests(t, filepath.Join(rootDir, "supplemental"), bidder, true)
}

func runTests(t *testing.T, directory string, bidder adapters.Bidder, allowErrors bool) {
	t.Helper()
	entries, err := os.ReadDir(directory)
	if os.IsNotExist(err) {
		return
	}
	require.NoError(t, err, "Failed to read folder %s", directory)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		filename := filepath.Join(directory, entry.Name())
		t.Run(filename, func(t *testing.T) {
			spec, err := loadFile(filename)
			require.NoError(t, err, "Failed to load contents of file %s", filename)

			if !allowErrors {
				assert.Empty(t, spec.MakeRequestErrors, "exemplary file %s must not expect errors", filename)
				assert.Empty(t, spec.MakeBidsErrors, "exemplary file %s must not expect errors", filename)
			}
			runSpec(t, spec, bidder)
		})
	}
}

func loadFile(filename string) (*testSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var spec testSpec
	if err := jsonutil.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func runSpec(t *testing.T, spec *testSpec, bidder adapters.Bidder) {
	adUnits := spec.Request.BidRequests
	for _, adUnit := range adUnits {
		if ruleSet, ok := spec.Request.Floors[adUnit.BidID]; ok {
			adUnit.Floors = ruleSet
		}
	}

	requests, errs := bidder.MakeRequests(adUnits, spec.Request.BidderRequest)
	assertErrorList(t, "MakeRequests", errs, spec.MakeRequestErrors)
	require.Len(t, requests, len(spec.HttpCalls), "Incorrect number of http requests")

	var bids []*adapters.BidResult
	var bidErrs []error
	for i, call := range spec.HttpCalls {
		assertRequest(t, i, requests[i], call.Request)

		response := &adapters.ResponseData{
			StatusCode: call.Response.Status,
			Body:       call.Response.Body,
			Headers:    call.Response.Headers,
		}
		callBids, callErrs := bidder.MakeBids(requests[i], response)
		bids = append(bids, callBids...)
		bidErrs = append(bidErrs, callErrs...)
	}

	assertErrorList(t, "MakeBids", bidErrs, spec.MakeBidsErrors)
	require.Len(t, bids, len(spec.ExpectedBids), "Incorrect number of bids")
	for i, bid := range bids {
		actual, err := jsonutil.Marshal(bid)
		require.NoError(t, err)
		assert.JSONEq(t, string(spec.ExpectedBids[i]), string(actual), "bid %d does not match", i)
	}
}

func assertRequest(t *testing.T, index int, actual *adapters.RequestData, expected httpRequest) {
	t.Helper()
	require.NotNil(t, actual, "request %d is nil", index)

	assert.Equal(t, expected.Uri, actual.Uri, "request %d uri", index)
	assert.JSONEq(t, string(expected.Body), string(actual.Body), "request %d body", index)
	if expected.ImpIDs != nil {
		assert.Equal(t, expected.ImpIDs, actual.ImpIDs, "request %d impIDs", index)
	}
	for key := range expected.Headers {
		assert.Equal(t, expected.Headers.Get(key), actual.Headers.Get(key), "request %d header %s", index, key)
	}
}

func assertErrorList(t *testing.T, description string, actual []error, expected []testSpecExpectedError) {
	t.Helper()
	require.Len(t, actual, len(expected), "%s returned an unexpected number of errors: %v", description, actual)

	for i, err := range actual {
		switch expected[i].Comparison {
		case "regex":
			matched, matchErr := regexp.MatchString(expected[i].Value, err.Error())
			require.NoError(t, matchErr, "%s: invalid regex %s", description, expected[i].Value)
			assert.True(t, matched, "%s: error %q does not match %s", description, err.Error(), expected[i].Value)
		default:
			assert.Equal(t, expected[i].Value, err.Error(), "%s: error %d", description, i)
		}
	}
}

type testSpec struct {
	Request           requestSpec             `json:"mockBidRequest"`
	HttpCalls         []httpCall              `json:"httpCalls"`
	ExpectedBids      []json.RawMessage       `json:"expectedBids"`
	MakeRequestErrors []testSpecExpectedError `json:"expectedMakeRequestsErrors"`
	MakeBidsErrors    []testSpecExpectedError `json:"expectedMakeBidsErrors"`
}

// requestSpec is the batch handed to MakeRequests. Floors are keyed by bidId.
type requestSpec struct {
	BidRequests   []*adapters.AdUnitRequest  `json:"bidRequests"`
	BidderRequest *adapters.BidderRequest    `json:"bidderRequest"`
	Floors        map[string]*floors.RuleSet `json:"floors"`
}

type httpCall struct {
	Request  httpRequest  `json:"expectedRequest"`
	Response httpResponse `json:"mockResponse"`
}

type httpRequest struct {
	Uri     string          `json:"uri"`
	Body    json.RawMessage `json:"body"`
	Headers http.Header     `json:"headers"`
	ImpIDs  []string        `json:"impIDs"`
}

type httpResponse struct {
	Status  int             `json:"status"`
	Body    json.RawMessage `json:"body"`
	Headers http.Header     `json:"headers"`
}

type testSpecExpectedError struct {
	Value      string `json:"value"`
	Comparison string `json:"comparison"`
}
