package smaato

import (
	"fmt"
	"math"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/util/jsonutil"
)

// placement is either an adspace (display, video, native) or an adbreak (adpod).
type placement interface {
	tagID() string
	isAdPod() bool
}

type adspacePlacement struct {
	adspaceID string
}

func (p adspacePlacement) tagID() string { return p.adspaceID }
func (p adspacePlacement) isAdPod() bool { return false }

type adbreakPlacement struct {
	adbreakID string
}

func (p adbreakPlacement) tagID() string { return p.adbreakID }
func (p adbreakPlacement) isAdPod() bool { return true }

type bidderParams struct {
	publisherID string
	placement   placement
	endpoint    string
	app         *openrtb_ext.ExtImpSmaatoApp
}

// IsBidRequestValid reports whether the ad unit can be requested from the exchange.
func (a *adapter) IsBidRequestValid(adUnit *adapters.AdUnitRequest) bool {
	_, err := a.parseParams(adUnit)
	return err == nil
}

func (a *adapter) parseParams(adUnit *adapters.AdUnitRequest) (*bidderParams, error) {
	if adUnit == nil || jsonutil.IsEmpty(adUnit.Params) {
		return nil, &errortypes.BadInput{Message: "Missing bidder params"}
	}

	if a.paramsValidator != nil {
		if err := a.paramsValidator.Validate(openrtb_ext.BidderSmaato, adUnit.Params); err != nil {
			return nil, &errortypes.BadInput{Message: fmt.Sprintf("Invalid bidder params for bid %s: %v", adUnit.BidID, err)}
		}
	}

	var ext openrtb_ext.ExtImpSmaato
	if err := jsonutil.Unmarshal(adUnit.Params, &ext); err != nil {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("Invalid bidder params for bid %s: %v", adUnit.BidID, err)}
	}

	if ext.PublisherID == "" {
		return nil, &errortypes.BadInput{Message: "Missing publisherId parameter."}
	}

	params := &bidderParams{
		publisherID: ext.PublisherID,
		endpoint:    ext.Endpoint,
		app:         ext.App,
	}

	if adUnit.MediaTypes.IsAdPod() {
		if ext.AdBreakID == "" {
			return nil, &errortypes.BadInput{Message: "Missing adbreakId parameter."}
		}
		if ext.AdSpaceID != "" {
			return nil, &errortypes.BadInput{Message: "Parameter adspaceId is not allowed for adpod requests."}
		}
		if err := validateAdPod(adUnit.MediaTypes.Video); err != nil {
			return nil, err
		}
		params.placement = adbreakPlacement{adbreakID: ext.AdBreakID}
		return params, nil
	}

	if ext.AdSpaceID == "" {
		return nil, &errortypes.BadInput{Message: "Missing adspaceId parameter."}
	}
	if ext.AdBreakID != "" {
		return nil, &errortypes.BadInput{Message: "Parameter adbreakId is only allowed for adpod requests."}
	}
	params.placement = adspacePlacement{adspaceID: ext.AdSpaceID}
	return params, nil
}

// validateAdPod rejects pod parameters the splitting cannot handle.
func validateAdPod(video *adapters.VideoMediaType) error {
	if len(video.DurationRangeSec) == 0 {
		return &errortypes.BadInput{Message: "Missing durationRangeSec for adpod."}
	}
	if video.DurationRangeSec[0] <= 0 {
		return &errortypes.BadInput{Message: fmt.Sprintf("Invalid durationRangeSec for adpod: shortest duration %d must be positive.", video.DurationRangeSec[0])}
	}
	if !video.RequireExactDuration && video.AdPodDurationSec <= 0 {
		return &errortypes.BadInput{Message: "Missing adPodDurationSec for adpod."}
	}
	if count := podSliceCount(video.AdPodDurationSec, video.DurationRangeSec, video.RequireExactDuration); count > math.MaxInt8 {
		return &errortypes.BadInput{Message: fmt.Sprintf("Adpod would need %d impressions, at most %d are supported because imp.video.sequence is an int8.", count, math.MaxInt8)}
	}
	return nil
}
