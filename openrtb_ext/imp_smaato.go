package openrtb_ext

import (
	"encoding/json"

	"github.com/prebid/openrtb/v20/openrtb2"
)

// ExtImpSmaato defines the contract for the smaato bidder params.
// PublisherID and AdSpaceID are mandatory for non adpod (long-form video) ad units.
// PublisherID and AdBreakID are mandatory for adpod ad units. AdSpaceID and AdBreakID exclude each other.
// Endpoint overrides the configured exchange endpoint.
// App carries in-app fallbacks used when first party data does not provide them.
type ExtImpSmaato struct {
	PublisherID string           `json:"publisherId"`
	AdSpaceID   string           `json:"adspaceId,omitempty"`
	AdBreakID   string           `json:"adbreakId,omitempty"`
	Endpoint    string           `json:"endpoint,omitempty"`
	App         *ExtImpSmaatoApp `json:"app,omitempty"`
}

// ExtImpSmaatoApp defines the contract for the smaato bidder params app object.
type ExtImpSmaatoApp struct {
	IFA string        `json:"ifa,omitempty"`
	Geo *openrtb2.Geo `json:"geo,omitempty"`
}

// ExtImpVideoAdPod defines the contract for bidrequest.imp[i].video.ext of an adpod slice.
type ExtImpVideoAdPod struct {
	Context                string `json:"context"`
	BrandCategoryExclusion bool   `json:"brandcategoryexclusion"`
}

// AdPodContext tags video impressions that belong to an adpod.
const AdPodContext = "adpod"

// ExtBidSmaato defines the contract for bidresponse.seatbid.bid[i].ext
type ExtBidSmaato struct {
	Duration int             `json:"duration,omitempty"`
	Curls    []string        `json:"curls,omitempty"`
	Net      *bool           `json:"net,omitempty"`
	DSA      json.RawMessage `json:"dsa,omitempty"`
}
