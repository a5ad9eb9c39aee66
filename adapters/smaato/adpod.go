package smaato

import (
	"encoding/json"
	"strconv"

	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/floors"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/util/ptrutil"
)

const (
	contentModeLive     = "live"
	contentModeOnDemand = "on-demand"
)

// podSlice is one impression of an adpod. A zero minDuration is not sent.
type podSlice struct {
	sequence    int8
	minDuration int64
	maxDuration int64
}

// podSliceCount returns how many impressions splitAdPod produces.
func podSliceCount(podDurationSec int64, durationRangeSec []int64, requireExactDuration bool) int64 {
	if requireExactDuration {
		return int64(len(durationRangeSec))
	}
	return podDurationSec / durationRangeSec[0]
}

// splitAdPod expands the pod into sequenced slices.
//
// With requireExactDuration every entry of durationRangeSec becomes one slice of exactly that duration.
// Otherwise the pod is filled with as many slices of the shortest duration as fit, each allowed to run
// up to the longest duration. durationRangeSec must be non-empty with a positive first entry, and the
// slice count must fit into int8; parseParams rejects ad units violating that.
func splitAdPod(podDurationSec int64, durationRangeSec []int64, requireExactDuration bool) []podSlice {
	count := podSliceCount(podDurationSec, durationRangeSec, requireExactDuration)
	slices := make([]podSlice, 0, count)

	if requireExactDuration {
		for i, duration := range durationRangeSec {
			slices = append(slices, podSlice{
				sequence:    int8(i + 1),
				minDuration: duration,
				maxDuration: duration,
			})
		}
		return slices
	}

	longest := durationRangeSec[len(durationRangeSec)-1]
	for i := int64(0); i < count; i++ {
		slices = append(slices, podSlice{
			sequence:    int8(i + 1),
			maxDuration: longest,
		})
	}
	return slices
}

// buildAdPodImps creates one video impression per pod slice. All slices share the impression id,
// the adbreak tag, the player size, the floor and the adpod extension.
func (a *adapter) buildAdPodImps(adUnit *adapters.AdUnitRequest, placement placement) ([]openrtb2.Imp, error) {
	video := adUnit.MediaTypes.Video

	videoExt, err := json.Marshal(openrtb_ext.ExtImpVideoAdPod{
		Context:                openrtb_ext.AdPodContext,
		BrandCategoryExclusion: a.settings.BrandCategoryExclusion(),
	})
	if err != nil {
		return nil, err
	}

	size := floors.AnySize
	if len(video.PlayerSize) > 0 {
		size = floors.SizeFor(video.PlayerSize[0][0], video.PlayerSize[0][1])
	}
	floor := floors.Resolve(adUnit.Floors, openrtb_ext.BidTypeVideo, size)

	slices := splitAdPod(video.AdPodDurationSec, video.DurationRangeSec, video.RequireExactDuration)
	imps := make([]openrtb2.Imp, 0, len(slices))
	for _, slice := range slices {
		impVideo := video.ORTB
		if !size.Any {
			impVideo.W = ptrutil.ToPtr(size.W)
			impVideo.H = ptrutil.ToPtr(size.H)
		}
		impVideo.MinDuration = slice.minDuration
		impVideo.MaxDuration = slice.maxDuration
		impVideo.Sequence = slice.sequence
		impVideo.Ext = videoExt

		imp := newImp(adUnit, placement)
		imp.Video = &impVideo
		applyFloor(&imp, floor)
		imps = append(imps, imp)
	}

	return imps, nil
}

// buildContent maps the long-form content fields of the video media type. The livestream flag is
// returned separately since 0 is a meaningful value and must be sent explicitly.
func buildContent(video *adapters.VideoMediaType) (*openrtb2.Content, *int8) {
	content := &openrtb2.Content{}
	hasContent := false

	if video.TVSeriesName != "" {
		content.Series = video.TVSeriesName
		hasContent = true
	}
	if video.TVEpisodeName != "" {
		content.Title = video.TVEpisodeName
		hasContent = true
	}
	if video.TVSeasonNumber != nil {
		content.Season = strconv.FormatInt(*video.TVSeasonNumber, 10)
		hasContent = true
	}
	if video.TVEpisodeNumber != nil {
		content.Episode = *video.TVEpisodeNumber
		hasContent = true
	}
	if video.ContentLengthSec != nil {
		content.Len = *video.ContentLengthSec
		hasContent = true
	}

	var livestream *int8
	switch video.ContentMode {
	case contentModeLive:
		livestream = ptrutil.ToPtr[int8](1)
	case contentModeOnDemand:
		livestream = ptrutil.ToPtr[int8](0)
	}

	if !hasContent && livestream == nil {
		return nil, nil
	}
	return content, livestream
}
