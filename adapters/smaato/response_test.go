package smaato

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

const (
	bannerOutbound = `{"id":"req","imp":[{"id":"bid-1","tagid":"space","banner":{"format":[{"w":320,"h":50},{"w":300,"h":50}]}}]}`
	adPodOutbound  = `{"id":"req","imp":[
		{"id":"pod-1","tagid":"break","video":{"mimes":["video/mp4"],"w":640,"h":480,"sequence":1,"ext":{"context":"adpod","brandcategoryexclusion":true}}},
		{"id":"pod-1","tagid":"break","video":{"mimes":["video/mp4"],"w":640,"h":480,"sequence":2,"ext":{"context":"adpod","brandcategoryexclusion":true}}}
	]}`
	dsaOutbound = `{"id":"req","imp":[{"id":"bid-1","banner":{"format":[{"w":320,"h":50}]}}],"regs":{"ext":{"dsa":{"dsarequired":2,"pubrender":0,"datatopub":1}}}}`
)

func responseWith(adType string, body string) *adapters.ResponseData {
	headers := http.Header{}
	if adType != "" {
		headers.Set(headerAdType, adType)
	}
	return &adapters.ResponseData{StatusCode: http.StatusOK, Headers: headers, Body: []byte(body)}
}

func TestMakeBidsBanner(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	response := responseWith("Img", `{"id":"resp","cur":"USD","seatbid":[{"seat":"CM6523","bid":[{
		"id":"b1","impid":"bid-1","price":0.01,"adm":"<div>ad</div>","crid":"cr-1","dealid":"deal-1",
		"adomain":["smaato.com"],"w":350,"h":50,"bidderName":"smaato-network",
		"ext":{"curls":["https://prebid.net/click?a=1&b=2 3","https://prebid.net/click2"]}
	}]}]}`)
	response.Headers.Set(headerExpires, "600000")

	bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(bannerOutbound)}, response)

	assert.Empty(t, errs)
	require.Len(t, bids, 1)
	assert.Equal(t, &adapters.BidResult{
		RequestID:  "bid-1",
		CPM:        0.01,
		Width:      350,
		Height:     50,
		Ad:         `<div style="cursor:pointer" onclick="fetch(decodeURIComponent('https%3A%2F%2Fprebid.net%2Fclick%3Fa%3D1%26b%3D2%203'), {cache: 'no-cache'});"><div>ad</div></div>`,
		TTL:        600,
		CreativeID: "cr-1",
		DealID:     "deal-1",
		NetRevenue: true,
		Currency:   "USD",
		MediaType:  openrtb_ext.BidTypeBanner,
		Meta: adapters.BidMeta{
			AdvertiserDomains: []string{"smaato.com"},
			AgencyID:          "CM6523",
			NetworkName:       "smaato-network",
			MediaType:         openrtb_ext.BidTypeBanner,
		},
	}, bids[0])
}

func TestMakeBidsRichmediaIsBanner(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	response := responseWith("Richmedia", `{"seatbid":[{"bid":[{"id":"b1","impid":"bid-1","price":1,"adm":"<script></script>","cid":"campaign"}]}]}`)

	bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(bannerOutbound)}, response)

	assert.Empty(t, errs)
	require.Len(t, bids, 1)
	assert.Equal(t, openrtb_ext.BidTypeBanner, bids[0].MediaType)
	assert.Equal(t, `<div style="cursor:pointer"><script></script></div>`, bids[0].Ad)
	assert.Equal(t, int64(320), bids[0].Width, "size falls back to the first banner format")
	assert.Equal(t, int64(50), bids[0].Height)
	assert.Equal(t, "campaign", bids[0].Meta.AgencyID)
	assert.Equal(t, "USD", bids[0].Currency)
	assert.Equal(t, int64(300), bids[0].TTL)
	assert.Equal(t, []string{}, bids[0].Meta.AdvertiserDomains)
}

func TestMakeBidsVideo(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	outbound := `{"id":"req","imp":[{"id":"bid-1","video":{"mimes":["video/mp4"],"w":640,"h":480}}]}`
	response := responseWith("Video", `{"cur":"EUR","seatbid":[{"bid":[{"id":"b1","impid":"bid-1","price":2,"adm":"<VAST version=\"2.0\"></VAST>","ext":{"net":false}}]}]}`)

	bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(outbound)}, response)

	assert.Empty(t, errs)
	require.Len(t, bids, 1)
	assert.Equal(t, openrtb_ext.BidTypeVideo, bids[0].MediaType)
	assert.Equal(t, `<VAST version="2.0"></VAST>`, bids[0].VastXML)
	assert.Empty(t, bids[0].Ad)
	assert.Equal(t, int64(640), bids[0].Width)
	assert.Equal(t, int64(480), bids[0].Height)
	assert.False(t, bids[0].NetRevenue)
	assert.Equal(t, "EUR", bids[0].Currency)
	assert.Nil(t, bids[0].Video)
}

func TestMakeBidsNative(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	response := responseWith("Native", `{"seatbid":[{"bid":[
		{"id":"b1","impid":"bid-1","price":1,"adm":"{\"native\":{\"assets\":[{\"id\":0,\"title\":{\"text\":\"Title\"}}]}}"},
		{"id":"b2","impid":"bid-1","price":1,"adm":"<div>not native</div>"}
	]}]}`)

	bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(bannerOutbound)}, response)

	require.Len(t, bids, 1)
	assert.Equal(t, openrtb_ext.BidTypeNative, bids[0].MediaType)
	require.NotNil(t, bids[0].Native)
	assert.JSONEq(t, `{"assets":[{"id":0,"title":{"text":"Title"}}]}`, string(bids[0].Native.Ortb))
	require.Len(t, errs, 1)
	assert.IsType(t, &errortypes.BadServerResponse{}, errs[0])
}

func TestMakeBidsAdPod(t *testing.T) {
	testCases := []struct {
		description            string
		brandCategoryExclusion bool
		expectedPrimaryCatID   string
	}{
		{description: "with-brand-category-exclusion", brandCategoryExclusion: true, expectedPrimaryCatID: "IAB1"},
		{description: "without-brand-category-exclusion"},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			bidder := newTestAdapter(t, fakeSettings{brandCategoryExclusion: test.brandCategoryExclusion})
			response := responseWith("", `{"seatbid":[{"bid":[
				{"id":"b1","impid":"pod-1","price":1,"adm":"<VAST></VAST>","cat":["IAB1","IAB2"],"ext":{"duration":42}},
				{"id":"b2","impid":"pod-1","price":2,"adm":"<VAST></VAST>","ext":{"duration":15}}
			]}]}`)

			bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(adPodOutbound)}, response)

			assert.Empty(t, errs)
			require.Len(t, bids, 2)
			assert.Equal(t, openrtb_ext.BidTypeVideo, bids[0].MediaType)
			assert.Equal(t, &openrtb_ext.ExtBidPrebidVideo{Context: "adpod", DurationSeconds: 42}, bids[0].Video)
			assert.Equal(t, test.expectedPrimaryCatID, bids[0].Meta.PrimaryCatID)
			assert.Equal(t, 15, bids[1].Video.DurationSeconds)
			assert.Empty(t, bids[1].Meta.PrimaryCatID)
		})
	}
}

func TestMakeBidsUnknownAdType(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	response := responseWith("Carousel", `{"seatbid":[{"bid":[{"id":"b1","impid":"bid-1","price":1,"adm":"<div></div>"}]}]}`)

	bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(bannerOutbound)}, response)

	assert.Empty(t, errs)
	assert.NotNil(t, bids)
	assert.Empty(t, bids)
}

func TestMakeBidsStatus(t *testing.T) {
	testCases := []struct {
		description   string
		response      *adapters.ResponseData
		expectedError bool
	}{
		{
			description: "no-content",
			response:    &adapters.ResponseData{StatusCode: http.StatusNoContent},
		},
		{
			description: "empty-body",
			response:    &adapters.ResponseData{StatusCode: http.StatusOK, Body: []byte("  ")},
		},
		{
			description: "no-seatbid",
			response:    responseWith("Img", `{"id":"resp"}`),
		},
		{
			description:   "bad-request",
			response:      &adapters.ResponseData{StatusCode: http.StatusBadRequest, Body: []byte(`{"error":"bad"}`)},
			expectedError: true,
		},
		{
			description:   "malformed-body",
			response:      responseWith("Img", `{"seatbid":`),
			expectedError: true,
		},
	}

	bidder := newTestAdapter(t, fakeSettings{})
	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(bannerOutbound)}, test.response)

			assert.NotNil(t, bids)
			assert.Empty(t, bids)
			if test.expectedError {
				require.Len(t, errs, 1)
				assert.IsType(t, &errortypes.BadServerResponse{}, errs[0])
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestMakeBidsDSA(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	response := responseWith("Img", `{"seatbid":[{"bid":[
		{"id":"b1","impid":"bid-1","price":1,"adm":"<div></div>","ext":{"dsa":{"behalf":"Advertiser","paid":"Advertiser","adrender":1}}},
		{"id":"b2","impid":"bid-1","price":1,"adm":"<div></div>"}
	]}]}`)

	bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(dsaOutbound)}, response)

	require.Len(t, bids, 2)
	assert.JSONEq(t, `{"behalf":"Advertiser","paid":"Advertiser","adrender":1}`, string(bids[0].Meta.DSA))
	assert.Nil(t, bids[1].Meta.DSA)
	require.Len(t, errs, 1)
	assert.Equal(t, errortypes.InvalidBidResponseDSAWarningCode, errortypes.ReadCode(errs[0]))
	assert.True(t, errortypes.IsWarning(errs[0]))
}

func TestMakeBidsMalformedExtFields(t *testing.T) {
	testCases := []struct {
		description      string
		adType           string
		outbound         string
		ext              string
		expectedAd       string
		expectedNet      bool
		expectedDuration int
	}{
		{
			description: "net-as-string",
			adType:      "Img",
			outbound:    bannerOutbound,
			ext:         `{"net":"false"}`,
			expectedAd:  `<div style="cursor:pointer"><div>ad</div></div>`,
			expectedNet: true,
		},
		{
			description: "curls-as-string",
			adType:      "Img",
			outbound:    bannerOutbound,
			ext:         `{"curls":"https://c","net":false}`,
			expectedAd:  `<div style="cursor:pointer"><div>ad</div></div>`,
			expectedNet: false,
		},
		{
			description: "curls-with-non-string-entries",
			adType:      "Img",
			outbound:    bannerOutbound,
			ext:         `{"curls":[1,"https://c"]}`,
			expectedAd:  `<div style="cursor:pointer" onclick="fetch(decodeURIComponent('https%3A%2F%2Fc'), {cache: 'no-cache'});"><div>ad</div></div>`,
			expectedNet: true,
		},
		{
			description:      "fractional-duration",
			outbound:         adPodOutbound,
			ext:              `{"duration":15.5}`,
			expectedNet:      true,
			expectedDuration: 0,
		},
		{
			description:      "duration-as-string",
			outbound:         adPodOutbound,
			ext:              `{"duration":"15","net":false}`,
			expectedNet:      false,
			expectedDuration: 0,
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			bidder := newTestAdapter(t, fakeSettings{})
			adm := "<div>ad</div>"
			if test.outbound == adPodOutbound {
				adm = "<VAST></VAST>"
			}
			response := responseWith(test.adType, `{"seatbid":[{"bid":[{"id":"b1","impid":"`+firstImpID(test.outbound)+
				`","price":1,"adm":"`+adm+`","ext":`+test.ext+`}]}]}`)

			bids, errs := bidder.MakeBids(&adapters.RequestData{Body: []byte(test.outbound)}, response)

			assert.Empty(t, errs)
			require.Len(t, bids, 1)
			assert.Equal(t, test.expectedNet, bids[0].NetRevenue)
			if test.outbound == adPodOutbound {
				require.NotNil(t, bids[0].Video)
				assert.Equal(t, test.expectedDuration, bids[0].Video.DurationSeconds)
			} else {
				assert.Equal(t, test.expectedAd, bids[0].Ad)
			}
		})
	}
}

func firstImpID(outbound string) string {
	if outbound == adPodOutbound {
		return "pod-1"
	}
	return "bid-1"
}

func TestReadBidExt(t *testing.T) {
	ext := readBidExt([]byte(`{"net":false,"duration":30,"curls":["https://a","https://b"],"dsa":{"behalf":"x"}}`))

	require.NotNil(t, ext.Net)
	assert.False(t, *ext.Net)
	assert.Equal(t, 30, ext.Duration)
	assert.Equal(t, []string{"https://a", "https://b"}, ext.Curls)
	assert.JSONEq(t, `{"behalf":"x"}`, string(ext.DSA))

	empty := readBidExt(nil)
	assert.Nil(t, empty.Net)
	assert.Zero(t, empty.Duration)
	assert.Nil(t, empty.Curls)
	assert.Nil(t, empty.DSA)
}

func TestGetTTLFromHeaderOrDefault(t *testing.T) {
	mock := clock.NewMock()
	mock.Add(time.Hour)
	bidder := newTestAdapter(t, fakeSettings{})
	bidder.clock = mock
	nowMillis := mock.Now().UnixNano() / int64(time.Millisecond)

	testCases := []struct {
		description string
		expires     string
		expectedTTL int64
	}{
		{description: "missing", expectedTTL: 300},
		{description: "not-a-number", expires: "tomorrow", expectedTTL: 300},
		{description: "future", expires: formatMillis(nowMillis + 90500), expectedTTL: 90},
		{description: "past", expires: formatMillis(nowMillis - 5000), expectedTTL: 0},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			headers := http.Header{}
			if test.expires != "" {
				headers.Set(headerExpires, test.expires)
			}

			assert.Equal(t, test.expectedTTL, bidder.getTTLFromHeaderOrDefault(&adapters.ResponseData{Headers: headers}))
		})
	}
}

func TestParseAdType(t *testing.T) {
	assert.Equal(t, adTypeBanner, parseAdType("Img"))
	assert.Equal(t, adTypeBanner, parseAdType("Richmedia"))
	assert.Equal(t, adTypeVideo, parseAdType("Video"))
	assert.Equal(t, adTypeNative, parseAdType("Native"))
	assert.Equal(t, adTypeUnknown, parseAdType(""))
	assert.Equal(t, adTypeUnknown, parseAdType("img"))
}

func TestRenderAdMarkupUnknown(t *testing.T) {
	_, err := renderAdMarkup(adTypeUnknown, "<div></div>", nil)

	assert.IsType(t, &errortypes.BadServerResponse{}, err)
}

func formatMillis(millis int64) string {
	return strconv.FormatInt(millis, 10)
}
