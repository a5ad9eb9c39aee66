package smaato

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/floors"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/util/ptrutil"
)

const nativeVersion = "1.2"

// buildImps creates the impressions of one media type of an ad unit.
func (a *adapter) buildImps(adUnit *adapters.AdUnitRequest, params *bidderParams, mediaType openrtb_ext.BidType) ([]openrtb2.Imp, error) {
	if params.placement.isAdPod() && mediaType != openrtb_ext.BidTypeVideo {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("Ad unit %s: adbreakId only supports video, %s is not requested.", adUnit.BidID, mediaType)}
	}

	switch mediaType {
	case openrtb_ext.BidTypeBanner:
		imp, err := buildBannerImp(adUnit, params.placement)
		if err != nil {
			return nil, err
		}
		return []openrtb2.Imp{imp}, nil
	case openrtb_ext.BidTypeVideo:
		if params.placement.isAdPod() {
			return a.buildAdPodImps(adUnit, params.placement)
		}
		return []openrtb2.Imp{buildVideoImp(adUnit, params.placement)}, nil
	case openrtb_ext.BidTypeNative:
		imp, err := buildNativeImp(adUnit, params.placement)
		if err != nil {
			return nil, err
		}
		return []openrtb2.Imp{imp}, nil
	default:
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("Unsupported media type %s.", mediaType)}
	}
}

func newImp(adUnit *adapters.AdUnitRequest, placement placement) openrtb2.Imp {
	imp := openrtb2.Imp{
		ID:     adUnit.BidID,
		TagID:  placement.tagID(),
		Secure: ptrutil.ToPtr[int8](1),
	}
	if adUnit.ORTB2Imp != nil {
		imp.Instl = adUnit.ORTB2Imp.Instl
	}
	return imp
}

func applyFloor(imp *openrtb2.Imp, result floors.Result) {
	if floor, ok := result.Floor(); ok {
		imp.BidFloor = floor
	}
}

func buildBannerImp(adUnit *adapters.AdUnitRequest, placement placement) (openrtb2.Imp, error) {
	sizes := adUnit.MediaTypes.Banner.Sizes
	if len(sizes) == 0 {
		return openrtb2.Imp{}, &errortypes.BadInput{Message: fmt.Sprintf("Ad unit %s: banner has no sizes.", adUnit.BidID)}
	}

	format := make([]openrtb2.Format, 0, len(sizes))
	for _, size := range sizes {
		format = append(format, openrtb2.Format{W: size[0], H: size[1]})
	}

	imp := newImp(adUnit, placement)
	imp.Banner = &openrtb2.Banner{Format: format}
	applyFloor(&imp, floors.Resolve(adUnit.Floors, openrtb_ext.BidTypeBanner, floors.SelectSize(sizes)))
	return imp, nil
}

func buildVideoImp(adUnit *adapters.AdUnitRequest, placement placement) openrtb2.Imp {
	video := adUnit.MediaTypes.Video

	impVideo := video.ORTB
	if len(video.PlayerSize) > 0 {
		impVideo.W = ptrutil.ToPtr(video.PlayerSize[0][0])
		impVideo.H = ptrutil.ToPtr(video.PlayerSize[0][1])
	}

	imp := newImp(adUnit, placement)
	imp.Video = &impVideo
	applyFloor(&imp, floors.Resolve(adUnit.Floors, openrtb_ext.BidTypeVideo, floors.SelectSize(video.PlayerSize)))
	return imp
}

func buildNativeImp(adUnit *adapters.AdUnitRequest, placement placement) (openrtb2.Imp, error) {
	request := adUnit.MediaTypes.Native.Ortb
	if !json.Valid(request) || !bytes.HasPrefix(bytes.TrimSpace(request), []byte("{")) {
		return openrtb2.Imp{}, &errortypes.BadInput{Message: fmt.Sprintf("Ad unit %s: native request must be a JSON object.", adUnit.BidID)}
	}

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, request); err != nil {
		return openrtb2.Imp{}, &errortypes.BadInput{Message: fmt.Sprintf("Ad unit %s: %v", adUnit.BidID, err)}
	}

	imp := newImp(adUnit, placement)
	imp.Native = &openrtb2.Native{
		Request: compacted.String(),
		Ver:     nativeVersion,
	}
	applyFloor(&imp, floors.Resolve(adUnit.Floors, openrtb_ext.BidTypeNative, nativeMainImageSize(compacted.Bytes())))
	return imp, nil
}
