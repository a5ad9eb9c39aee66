package smaato

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/config"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/privacy"
	"github.com/smaato/prebid-smaato-adapter/usersync"
	"github.com/smaato/prebid-smaato-adapter/util/uuidutil"
)

const clientVersion = "prebid_go_1.0"

// Settings are the host options the adapter reads on every call. They may change while running.
type Settings interface {
	BrandCategoryExclusion() bool
	SyncsPerBidder() int
}

// adapter describes a Smaato prebid adapter.
type adapter struct {
	clock           clock.Clock
	endpoint        string
	uuidGenerator   uuidutil.UUIDGenerator
	paramsValidator openrtb_ext.BidderParamValidator
	settings        Settings
	syncer          *usersync.Syncer
}

// Builder builds a new instance of the Smaato adapter for the given bidder with the given config.
func Builder(cfg config.Adapter, syncCfg config.UserSync, settings Settings, paramsValidator openrtb_ext.BidderParamValidator) (adapters.Bidder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing endpoint for bidder %s", openrtb_ext.BidderSmaato)
	}
	if settings == nil {
		return nil, fmt.Errorf("missing settings for bidder %s", openrtb_ext.BidderSmaato)
	}

	syncer, err := usersync.NewSyncer(syncCfg.ImageURL, syncCfg.IFrameURL)
	if err != nil {
		return nil, err
	}

	return &adapter{
		clock:           clock.New(),
		endpoint:        cfg.Endpoint,
		uuidGenerator:   uuidutil.UUIDRandomGenerator{},
		paramsValidator: paramsValidator,
		settings:        settings,
		syncer:          syncer,
	}, nil
}

// MakeRequests builds one outbound request per ad unit and declared media type. A failing ad unit
// contributes an error and is skipped.
func (a *adapter) MakeRequests(adUnits []*adapters.AdUnitRequest, bidderRequest *adapters.BidderRequest) ([]*adapters.RequestData, []error) {
	if bidderRequest == nil {
		bidderRequest = &adapters.BidderRequest{}
	}

	requests := make([]*adapters.RequestData, 0, len(adUnits))
	var errs []error
	for _, adUnit := range adUnits {
		unitRequests, err := a.makeAdUnitRequests(adUnit, bidderRequest)
		if err != nil {
			glog.V(2).Infof("Skipping ad unit: %v", err)
			errs = append(errs, err)
			continue
		}
		requests = append(requests, unitRequests...)
	}

	return requests, errs
}

func (a *adapter) makeAdUnitRequests(adUnit *adapters.AdUnitRequest, bidderRequest *adapters.BidderRequest) ([]*adapters.RequestData, error) {
	params, err := a.parseParams(adUnit)
	if err != nil {
		return nil, err
	}

	mediaTypes := adUnit.MediaTypes.Declared()
	if len(mediaTypes) == 0 {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("Ad unit %s declares no media type.", adUnit.BidID)}
	}

	requests := make([]*adapters.RequestData, 0, len(mediaTypes))
	for _, mediaType := range mediaTypes {
		imps, err := a.buildImps(adUnit, params, mediaType)
		if err != nil {
			return nil, err
		}

		request, err := a.assembleRequest(adUnit, params, mediaType, imps, bidderRequest)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// GetUserSyncs returns the sync pixels the host page should fire.
func (a *adapter) GetUserSyncs(options usersync.Options, policies privacy.Policies) []usersync.Sync {
	return a.syncer.GetSync(options, policies, a.settings.SyncsPerBidder())
}
