package openrtb_ext

// BidType describes the media type of an outbound request and of the bids returned for it.
type BidType string

const (
	BidTypeBanner BidType = "banner"
	BidTypeVideo  BidType = "video"
	BidTypeNative BidType = "native"
)

// BidTypes returns the media types in the order ad units are fanned out.
func BidTypes() []BidType {
	return []BidType{
		BidTypeBanner,
		BidTypeVideo,
		BidTypeNative,
	}
}

// ExtBidPrebidVideo defines the contract for the video details of an adpod bid.
type ExtBidPrebidVideo struct {
	Context         string `json:"context,omitempty"`
	DurationSeconds int    `json:"durationSeconds"`
}
