package adapters

import (
	"encoding/json"
	"net/http"

	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/privacy"
	"github.com/smaato/prebid-smaato-adapter/usersync"
)

// Bidder is the interface an exchange adapter implements.
//
// Its responsibilities are to validate ad units, to make HTTP request(s) from a batch of ad units,
// to turn the exchange's HTTP response(s) back into bids and to describe its user syncs.
type Bidder interface {
	// IsBidRequestValid reports whether an ad unit carries the bidder params required for its product.
	IsBidRequestValid(adUnit *AdUnitRequest) bool

	// MakeRequests makes the HTTP requests which should be made to fetch bids.
	//
	// The errors should contain a list of errors which explain why some ad units could not be requested.
	// One failing ad unit never prevents the others from being requested.
	MakeRequests(adUnits []*AdUnitRequest, bidderRequest *BidderRequest) ([]*RequestData, []error)

	// MakeBids unpacks the server's response into bids.
	//
	// The bids may be empty (for no bids), but never contain nil elements.
	MakeBids(request *RequestData, response *ResponseData) ([]*BidResult, []error)

	// GetUserSyncs returns at most one user sync allowed by the options and privacy policies.
	GetUserSyncs(options usersync.Options, policies privacy.Policies) []usersync.Sync
}

// RequestData packages together the fields needed to make an http.Request to the exchange.
type RequestData struct {
	Method    string              `json:"method"`
	Uri       string              `json:"url"`
	Body      json.RawMessage     `json:"data"`
	Headers   http.Header         `json:"headers,omitempty"`
	ImpIDs    []string            `json:"impIds,omitempty"`
	MediaType openrtb_ext.BidType `json:"mediaType,omitempty"`
}

// ResponseData packages together information from the exchange's http.Response.
type ResponseData struct {
	StatusCode int             `json:"status"`
	Body       json.RawMessage `json:"body,omitempty"`
	Headers    http.Header     `json:"headers,omitempty"`
}

// BidResult is one exchange bid in the shape the auction framework consumes.
type BidResult struct {
	RequestID  string                         `json:"requestId"`
	CPM        float64                        `json:"cpm"`
	Width      int64                          `json:"width"`
	Height     int64                          `json:"height"`
	Ad         string                         `json:"ad,omitempty"`
	VastXML    string                         `json:"vastXml,omitempty"`
	Native     *NativeCreative                `json:"native,omitempty"`
	TTL        int64                          `json:"ttl"`
	CreativeID string                         `json:"creativeId"`
	DealID     string                         `json:"dealId,omitempty"`
	NetRevenue bool                           `json:"netRevenue"`
	Currency   string                         `json:"currency"`
	MediaType  openrtb_ext.BidType            `json:"mediaType"`
	Video      *openrtb_ext.ExtBidPrebidVideo `json:"video,omitempty"`
	Meta       BidMeta                        `json:"meta"`
}

// NativeCreative wraps the parsed native response document.
type NativeCreative struct {
	Ortb json.RawMessage `json:"ortb"`
}

// BidMeta carries the descriptive bid metadata.
type BidMeta struct {
	AdvertiserDomains []string            `json:"advertiserDomains"`
	AgencyID          string              `json:"agencyId,omitempty"`
	NetworkName       string              `json:"networkName,omitempty"`
	MediaType         openrtb_ext.BidType `json:"mediaType"`
	PrimaryCatID      string              `json:"primaryCatId,omitempty"`
	DSA               json.RawMessage     `json:"dsa,omitempty"`
}
