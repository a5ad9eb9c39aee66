package smaato

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/buger/jsonparser"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/tidwall/sjson"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/dsa"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/util/jsonutil"
	"github.com/smaato/prebid-smaato-adapter/util/ptrutil"
)

// firstPriceAuction is the only auction type the exchange runs.
const firstPriceAuction = 1

// assembleRequest wraps the impressions of one ad unit and media type into an outbound request.
func (a *adapter) assembleRequest(adUnit *adapters.AdUnitRequest, params *bidderParams, mediaType openrtb_ext.BidType,
	imps []openrtb2.Imp, bidderRequest *adapters.BidderRequest) (*adapters.RequestData, error) {
	fpd := bidderRequest.ORTB2
	if fpd == nil {
		fpd = &openrtb2.BidRequest{}
	}

	id, err := a.uuidGenerator.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request id: %v", err)
	}

	request := openrtb2.BidRequest{
		ID:   id,
		Imp:  imps,
		AT:   firstPriceAuction,
		TMax: bidderRequest.Timeout,
	}

	channel := resolveChannel(fpd, bidderRequest.RefererInfo, params.publisherID)
	var contentPath string
	var livestream *int8
	if params.placement.isAdPod() {
		var content *openrtb2.Content
		if content, livestream = buildContent(adUnit.MediaTypes.Video); content != nil {
			contentPath = channel.setContent(content)
		}
	}
	channel.apply(&request)

	request.Device = buildDevice(fpd.Device, params.app)

	policies := bidderRequest.PrivacyPolicies()
	var regsExt openrtb_ext.ExtRegs
	var userExt openrtb_ext.ExtUser
	policies.Write(&regsExt, &userExt)

	if request.Regs, err = buildRegs(fpd.Regs, regsExt); err != nil {
		return nil, err
	}
	if request.User, err = buildUser(fpd.User, adUnit.UserIDAsEIDs, userExt); err != nil {
		return nil, err
	}
	if request.Source, err = buildSource(supplyChainSource(fpd, adUnit), adUnit.TransactionID); err != nil {
		return nil, err
	}
	if request.Ext, err = json.Marshal(openrtb_ext.ExtRequestSmaato{Client: clientVersion}); err != nil {
		return nil, err
	}

	body, err := jsonutil.Marshal(request)
	if err != nil {
		return nil, &errortypes.FailedToMarshal{Message: err.Error()}
	}
	if livestream != nil && contentPath != "" {
		if body, err = sjson.SetBytes(body, contentPath+".livestream", *livestream); err != nil {
			return nil, &errortypes.FailedToMarshal{Message: err.Error()}
		}
	}
	if body, err = setBannerTopFrame(body, imps); err != nil {
		return nil, &errortypes.FailedToMarshal{Message: err.Error()}
	}

	endpoint := a.endpoint
	if params.endpoint != "" {
		endpoint = params.endpoint
	}

	headers := http.Header{}
	headers.Add("Content-Type", "application/json;charset=utf-8")
	headers.Add("Accept", "application/json")

	return &adapters.RequestData{
		Method:    http.MethodPost,
		Uri:       endpoint,
		Body:      body,
		Headers:   headers,
		ImpIDs:    impIDs(imps),
		MediaType: mediaType,
	}, nil
}

// setBannerTopFrame writes banner.topframe explicitly, the exchange expects the field even when it is 0.
func setBannerTopFrame(body []byte, imps []openrtb2.Imp) ([]byte, error) {
	var err error
	for i, imp := range imps {
		if imp.Banner == nil || imp.Banner.TopFrame != 0 {
			continue
		}
		if body, err = sjson.SetBytes(body, fmt.Sprintf("imp.%d.banner.topframe", i), 0); err != nil {
			return nil, err
		}
	}
	return body, nil
}

func impIDs(imps []openrtb2.Imp) []string {
	ids := make([]string, 0, len(imps))
	seen := make(map[string]struct{}, len(imps))
	for _, imp := range imps {
		if _, ok := seen[imp.ID]; ok {
			continue
		}
		seen[imp.ID] = struct{}{}
		ids = append(ids, imp.ID)
	}
	return ids
}

func buildRegs(fpdRegs *openrtb2.Regs, regsExt openrtb_ext.ExtRegs) (*openrtb2.Regs, error) {
	regs := &openrtb2.Regs{}
	if fpdRegs != nil {
		regs.COPPA = fpdRegs.COPPA
		if dsaObject, ok := dsa.FromRegsExt(fpdRegs.Ext); ok {
			regsExt.DSA = dsaObject
		}
	}

	ext, err := json.Marshal(regsExt)
	if err != nil {
		return nil, err
	}
	if !jsonutil.IsEmpty(ext) {
		regs.Ext = ext
	}
	return regs, nil
}

// buildUser copies the first party user. Demographics found under user.ext.data are lifted to the
// top level, consent and eids are moved into user.ext, other ext keys are kept.
func buildUser(fpdUser *openrtb2.User, eids []openrtb2.EID, userExt openrtb_ext.ExtUser) (*openrtb2.User, error) {
	var user openrtb2.User
	if fpdUser != nil {
		user = *fpdUser
	}

	fpdExt := user.Ext
	if data, dataType, _, err := jsonparser.Get(fpdExt, "data"); err == nil && dataType == jsonparser.Object {
		var extData openrtb_ext.ExtUserData
		if err := jsonutil.Unmarshal(data, &extData); err == nil {
			if user.Keywords == "" {
				user.Keywords = extData.Keywords
			}
			if user.Gender == "" {
				user.Gender = extData.Gender
			}
			if user.Yob == 0 {
				user.Yob = extData.Yob
			}
		}
		fpdExt = jsonparser.Delete(append([]byte(nil), fpdExt...), "data")
	}

	userExt.Eids = eids
	if len(userExt.Eids) == 0 {
		userExt.Eids = user.EIDs
	}
	user.EIDs = nil
	user.Consent = ""

	ownExt, err := json.Marshal(userExt)
	if err != nil {
		return nil, err
	}

	ext := json.RawMessage(ownExt)
	if !jsonutil.IsEmpty(fpdExt) {
		// consent and eids are owned by the adapter; a stale first party copy must not survive the merge.
		base := jsonparser.Delete(jsonparser.Delete(append([]byte(nil), fpdExt...), "consent"), "eids")
		merged, err := jsonpatch.MergePatch(base, ownExt)
		if err != nil {
			return nil, &errortypes.BadInput{Message: fmt.Sprintf("Invalid user.ext: %v", err)}
		}
		ext = merged
	}

	if !jsonutil.IsEmpty(ext) {
		user.Ext = ext
	} else {
		user.Ext = nil
	}
	return &user, nil
}

func buildDevice(fpdDevice *openrtb2.Device, app *openrtb_ext.ExtImpSmaatoApp) *openrtb2.Device {
	var device openrtb2.Device
	if fpdDevice != nil {
		device = *fpdDevice
	}

	if app != nil {
		if device.IFA == "" {
			device.IFA = app.IFA
		}
		if device.Geo == nil && app.Geo != nil {
			device.Geo = ptrutil.Clone(app.Geo)
		}
	}
	return &device
}

// supplyChainSource returns the bidder request's source when it carries a supply chain, else the ad
// unit's own.
func supplyChainSource(fpd *openrtb2.BidRequest, adUnit *adapters.AdUnitRequest) *openrtb2.Source {
	if hasSupplyChain(fpd.Source) || adUnit.ORTB2 == nil || !hasSupplyChain(adUnit.ORTB2.Source) {
		return fpd.Source
	}
	return adUnit.ORTB2.Source
}

func hasSupplyChain(source *openrtb2.Source) bool {
	if source == nil {
		return false
	}
	if source.SChain != nil {
		return true
	}
	_, dataType, _, err := jsonparser.Get(source.Ext, "schain")
	return err == nil && dataType == jsonparser.Object
}

// buildSource forwards the supply chain found under source.schain or source.ext.schain verbatim.
func buildSource(fpdSource *openrtb2.Source, transactionID string) (*openrtb2.Source, error) {
	source := &openrtb2.Source{TID: transactionID}

	var schain json.RawMessage
	if fpdSource != nil {
		if fpdSource.SChain != nil {
			raw, err := json.Marshal(fpdSource.SChain)
			if err != nil {
				return nil, err
			}
			schain = raw
		} else if raw, dataType, _, err := jsonparser.Get(fpdSource.Ext, "schain"); err == nil && dataType == jsonparser.Object {
			schain = raw
		}
	}

	if schain != nil {
		ext, err := sjson.SetRawBytes([]byte(`{}`), "schain", schain)
		if err != nil {
			return nil, err
		}
		source.Ext = ext
	}

	if source.TID == "" && source.Ext == nil {
		return nil, nil
	}
	return source, nil
}
