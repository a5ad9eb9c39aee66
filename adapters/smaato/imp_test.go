package smaato

import (
	"testing"

	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/floors"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/util/ptrutil"
)

func TestBuildBannerImp(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	adUnit := adUnitFromJSON(t, `{
		"bidId": "bid-1",
		"params": {"publisherId": "pub", "adspaceId": "space"},
		"mediaTypes": {"banner": {"sizes": [[300, 50], [320, 50]]}},
		"ortb2Imp": {"instl": 1}
	}`)
	adUnit.Floors = &floors.RuleSet{Values: map[string]float64{"banner|*": 0.8, "banner|300x50": 1.2}}

	imps, err := bidder.buildImps(adUnit, &bidderParams{placement: adspacePlacement{adspaceID: "space"}}, openrtb_ext.BidTypeBanner)

	require.NoError(t, err)
	require.Len(t, imps, 1)
	assert.Equal(t, openrtb2.Imp{
		ID:       "bid-1",
		TagID:    "space",
		Secure:   ptrutil.ToPtr[int8](1),
		Instl:    1,
		BidFloor: 0.8,
		Banner: &openrtb2.Banner{Format: []openrtb2.Format{
			{W: 300, H: 50},
			{W: 320, H: 50},
		}},
	}, imps[0])
}

func TestBuildBannerImpWithoutSizes(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	adUnit := adUnitFromJSON(t, `{"bidId":"bid-1","mediaTypes":{"banner":{"sizes":[]}}}`)

	_, err := bidder.buildImps(adUnit, &bidderParams{placement: adspacePlacement{adspaceID: "space"}}, openrtb_ext.BidTypeBanner)

	assert.IsType(t, &errortypes.BadInput{}, err)
}

func TestBuildVideoImp(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	adUnit := adUnitFromJSON(t, `{
		"bidId": "bid-1",
		"mediaTypes": {"video": {
			"context": "instream",
			"playerSize": [640, 480],
			"mimes": ["video/mp4", "video/3gpp"],
			"minduration": 5,
			"maxduration": 30,
			"protocols": [2, 3]
		}}
	}`)
	adUnit.Floors = &floors.RuleSet{Values: map[string]float64{"video|640x480": 3.1}}

	imps, err := bidder.buildImps(adUnit, &bidderParams{placement: adspacePlacement{adspaceID: "space"}}, openrtb_ext.BidTypeVideo)

	require.NoError(t, err)
	require.Len(t, imps, 1)
	video := imps[0].Video
	require.NotNil(t, video)
	assert.Equal(t, ptrutil.ToPtr[int64](640), video.W)
	assert.Equal(t, ptrutil.ToPtr[int64](480), video.H)
	assert.Equal(t, []string{"video/mp4", "video/3gpp"}, video.MIMEs)
	assert.Equal(t, int64(5), video.MinDuration)
	assert.Equal(t, int64(30), video.MaxDuration)
	assert.Equal(t, 3.1, imps[0].BidFloor)
	assert.Nil(t, imps[0].Banner)
}

func TestBuildNativeImp(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	adUnit := adUnitFromJSON(t, `{
		"bidId": "bid-1",
		"mediaTypes": {"native": {"ortb": {
			"ver": "1.2",
			"assets": [
				{"id": 1, "title": {"len": 80}},
				{"id": 2, "img": {"type": 3, "w": 150, "h": 50}}
			]
		}}}
	}`)
	adUnit.Floors = floors.QuerierFunc(func(query floors.Query) *floors.Answer {
		assert.Equal(t, floors.SizeFor(150, 50), query.Size)
		return &floors.Answer{Currency: floors.Currency, Floor: ptrutil.ToPtr(0.5)}
	})

	imps, err := bidder.buildImps(adUnit, &bidderParams{placement: adspacePlacement{adspaceID: "space"}}, openrtb_ext.BidTypeNative)

	require.NoError(t, err)
	require.Len(t, imps, 1)
	require.NotNil(t, imps[0].Native)
	assert.Equal(t, `{"ver":"1.2","assets":[{"id":1,"title":{"len":80}},{"id":2,"img":{"type":3,"w":150,"h":50}}]}`, imps[0].Native.Request)
	assert.Equal(t, "1.2", imps[0].Native.Ver)
	assert.Equal(t, 0.5, imps[0].BidFloor)
}

func TestBuildNativeImpRejectsNonObject(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	adUnit := adUnitFromJSON(t, `{"bidId":"bid-1","mediaTypes":{"native":{"ortb":[1,2]}}}`)

	_, err := bidder.buildImps(adUnit, &bidderParams{placement: adspacePlacement{adspaceID: "space"}}, openrtb_ext.BidTypeNative)

	assert.IsType(t, &errortypes.BadInput{}, err)
}

func TestBuildImpsAdBreakOnlyServesVideo(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	adUnit := adUnitFromJSON(t, `{"bidId":"bid-1","mediaTypes":{"banner":{"sizes":[300,250]}}}`)

	_, err := bidder.buildImps(adUnit, &bidderParams{placement: adbreakPlacement{adbreakID: "break"}}, openrtb_ext.BidTypeBanner)

	assert.IsType(t, &errortypes.BadInput{}, err)
}

func TestInvalidFloorIsNotSent(t *testing.T) {
	bidder := newTestAdapter(t, fakeSettings{})
	adUnit := adUnitFromJSON(t, `{"bidId":"bid-1","mediaTypes":{"banner":{"sizes":[300,250]}}}`)
	adUnit.Floors = floors.QuerierFunc(func(floors.Query) *floors.Answer {
		panic("provider failure")
	})

	imps, err := bidder.buildImps(adUnit, &bidderParams{placement: adspacePlacement{adspaceID: "space"}}, openrtb_ext.BidTypeBanner)

	require.NoError(t, err)
	assert.Equal(t, 0.0, imps[0].BidFloor)
}
