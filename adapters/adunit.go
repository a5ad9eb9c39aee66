package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/smaato/prebid-smaato-adapter/floors"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/util/jsonutil"
)

// AdUnitRequest is one advertising placement as handed over by the auction framework.
type AdUnitRequest struct {
	BidID         string          `json:"bidId"`
	TransactionID string          `json:"transactionId,omitempty"`
	AdUnitCode    string          `json:"adUnitCode,omitempty"`
	Params        json.RawMessage `json:"params"`
	MediaTypes    MediaTypes      `json:"mediaTypes"`
	// ORTB2Imp is the ad unit level first party data.
	ORTB2Imp *openrtb2.Imp `json:"ortb2Imp,omitempty"`
	// ORTB2 is the request level first party data as copied onto the ad unit. Only its source is read,
	// as a fallback for the bidder request's.
	ORTB2        *openrtb2.BidRequest `json:"ortb2,omitempty"`
	UserIDAsEIDs []openrtb2.EID       `json:"userIdAsEids,omitempty"`
	// Floors is optional. A nil Querier means no floor module is installed.
	Floors floors.Querier `json:"-"`
}

// MediaTypes lists the media types an ad unit declares.
type MediaTypes struct {
	Banner *BannerMediaType `json:"banner,omitempty"`
	Video  *VideoMediaType  `json:"video,omitempty"`
	Native *NativeMediaType `json:"native,omitempty"`
}

// Declared returns the declared media types in fan out order.
func (m MediaTypes) Declared() []openrtb_ext.BidType {
	declared := make([]openrtb_ext.BidType, 0, 3)
	if m.Banner != nil {
		declared = append(declared, openrtb_ext.BidTypeBanner)
	}
	if m.Video != nil {
		declared = append(declared, openrtb_ext.BidTypeVideo)
	}
	if m.Native != nil {
		declared = append(declared, openrtb_ext.BidTypeNative)
	}
	return declared
}

// IsAdPod reports whether the ad unit is a long-form video ad pod.
func (m MediaTypes) IsAdPod() bool {
	return m.Video != nil && m.Video.Context == openrtb_ext.AdPodContext
}

type BannerMediaType struct {
	Sizes Sizes `json:"sizes"`
}

// VideoMediaType holds the framework's video media type. Every OpenRTB video parameter declared
// next to the framework fields (mimes, protocols, startdelay...) is captured in ORTB.
type VideoMediaType struct {
	Context              string  `json:"context,omitempty"`
	PlayerSize           Sizes   `json:"playerSize,omitempty"`
	AdPodDurationSec     int64   `json:"adPodDurationSec,omitempty"`
	DurationRangeSec     []int64 `json:"durationRangeSec,omitempty"`
	RequireExactDuration bool    `json:"requireExactDuration,omitempty"`

	TVSeriesName     string `json:"tvSeriesName,omitempty"`
	TVEpisodeName    string `json:"tvEpisodeName,omitempty"`
	TVSeasonNumber   *int64 `json:"tvSeasonNumber,omitempty"`
	TVEpisodeNumber  *int64 `json:"tvEpisodeNumber,omitempty"`
	ContentLengthSec *int64 `json:"contentLengthSec,omitempty"`
	ContentMode      string `json:"contentMode,omitempty"`

	ORTB openrtb2.Video `json:"-"`
}

func (v *VideoMediaType) UnmarshalJSON(data []byte) error {
	type videoMediaType VideoMediaType
	var decoded videoMediaType
	if err := jsonutil.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if err := jsonutil.Unmarshal(data, &decoded.ORTB); err != nil {
		return fmt.Errorf("invalid ortb video params: %v", err)
	}
	*v = VideoMediaType(decoded)
	return nil
}

// NativeMediaType carries the pre-built OpenRTB native request.
type NativeMediaType struct {
	Ortb json.RawMessage `json:"ortb"`
}

// Sizes is a list of [width, height] pairs. A single bare pair is accepted as well.
type Sizes [][2]int64

func (s *Sizes) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := jsonutil.Unmarshal(data, &elements); err != nil {
		return fmt.Errorf("sizes must be [w,h] or [[w,h],...]: %v", err)
	}
	if len(elements) == 0 {
		*s = Sizes{}
		return nil
	}

	if trimmed := bytes.TrimSpace(elements[0]); len(trimmed) > 0 && trimmed[0] != '[' {
		if len(elements) != 2 {
			return fmt.Errorf("size must be a [w,h] pair, got %d values", len(elements))
		}
		var single [2]int64
		if err := jsonutil.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("sizes must be [w,h] or [[w,h],...]: %v", err)
		}
		*s = Sizes{single}
		return nil
	}

	var list [][2]int64
	if err := jsonutil.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("sizes must be [w,h] or [[w,h],...]: %v", err)
	}
	*s = list
	return nil
}

// BidderRequest carries the auction wide context shared by every ad unit of one batch.
type BidderRequest struct {
	BidderRequestID string       `json:"bidderRequestId,omitempty"`
	AuctionID       string       `json:"auctionId,omitempty"`
	Timeout         int64        `json:"timeout,omitempty"`
	GDPRConsent     *GDPRConsent `json:"gdprConsent,omitempty"`
	USPConsent      string       `json:"uspConsent,omitempty"`
	RefererInfo     RefererInfo  `json:"refererInfo"`
	// ORTB2 is the global first party data.
	ORTB2 *openrtb2.BidRequest `json:"ortb2,omitempty"`
}

// GDPRConsent is what the consent management module supplied.
type GDPRConsent struct {
	GDPRApplies   *bool  `json:"gdprApplies,omitempty"`
	ConsentString string `json:"consentString,omitempty"`
}

// RefererInfo describes the page the auction runs on.
type RefererInfo struct {
	Ref    string `json:"ref,omitempty"`
	Page   string `json:"page,omitempty"`
	Domain string `json:"domain,omitempty"`
}
