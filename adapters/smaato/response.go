package smaato

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/golang/glog"
	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/dsa"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/util/jsonutil"
)

const (
	headerAdType  = "X-Smt-Adtype"
	headerExpires = "X-Smt-Expires"

	defaultTTL      = int64(300)
	defaultCurrency = "USD"
)

type adMarkupType string

const (
	smtAdTypeImg       adMarkupType = "Img"
	smtAdTypeRichmedia adMarkupType = "Richmedia"
	smtAdTypeVideo     adMarkupType = "Video"
	smtAdTypeNative    adMarkupType = "Native"
)

// adType is the creative shape announced by the exchange.
type adType int

const (
	adTypeUnknown adType = iota
	adTypeBanner
	adTypeVideo
	adTypeNative
)

func parseAdType(header string) adType {
	switch adMarkupType(header) {
	case smtAdTypeImg, smtAdTypeRichmedia:
		return adTypeBanner
	case smtAdTypeVideo:
		return adTypeVideo
	case smtAdTypeNative:
		return adTypeNative
	default:
		return adTypeUnknown
	}
}

func (t adType) String() string {
	switch t {
	case adTypeBanner:
		return string(openrtb_ext.BidTypeBanner)
	case adTypeVideo:
		return string(openrtb_ext.BidTypeVideo)
	case adTypeNative:
		return string(openrtb_ext.BidTypeNative)
	default:
		return "unknown"
	}
}

type bidResponse struct {
	Cur     string    `json:"cur"`
	SeatBid []seatBid `json:"seatbid"`
}

type seatBid struct {
	Bid  []smaatoBid `json:"bid"`
	Seat string      `json:"seat"`
}

// smaatoBid is an OpenRTB bid plus the exchange's network name.
type smaatoBid struct {
	openrtb2.Bid
	BidderName string `json:"bidderName,omitempty"`
}

type creative struct {
	mediaType openrtb_ext.BidType
	ad        string
	vastXML   string
	native    *adapters.NativeCreative
}

// outboundImp is what the interpreter needs to know about the impression a bid answers.
type outboundImp struct {
	id    string
	adPod bool
	w     int64
	h     int64
}

type outboundRequest struct {
	imps        []outboundImp
	dsaRequired bool
}

func readOutboundRequest(request *adapters.RequestData) outboundRequest {
	var outbound outboundRequest
	if request == nil || len(request.Body) == 0 {
		return outbound
	}

	jsonparser.ArrayEach(request.Body, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		imp := outboundImp{}
		imp.id, _ = jsonparser.GetString(value, "id")
		if context, err := jsonparser.GetString(value, "video", "ext", "context"); err == nil {
			imp.adPod = context == openrtb_ext.AdPodContext
		}

		if w, err := jsonparser.GetInt(value, "video", "w"); err == nil {
			imp.w = w
			imp.h, _ = jsonparser.GetInt(value, "video", "h")
		} else if w, err := jsonparser.GetInt(value, "banner", "format", "[0]", "w"); err == nil {
			imp.w = w
			imp.h, _ = jsonparser.GetInt(value, "banner", "format", "[0]", "h")
		}
		outbound.imps = append(outbound.imps, imp)
	}, "imp")

	if regsDSA, dataType, _, err := jsonparser.Get(request.Body, "regs", "ext", "dsa"); err == nil && dataType == jsonparser.Object {
		outbound.dsaRequired = dsa.ResponseRequired(regsDSA)
	}
	return outbound
}

// match returns the outbound impression with the bid's impid, falling back to the first one.
func (r outboundRequest) match(impID string) outboundImp {
	for _, imp := range r.imps {
		if imp.id == impID {
			return imp
		}
	}
	if len(r.imps) > 0 {
		return r.imps[0]
	}
	return outboundImp{}
}

// MakeBids unpacks the exchange response into bids. An empty body, no seatbid or an unknown ad type
// all result in an empty, non nil list.
func (a *adapter) MakeBids(request *adapters.RequestData, response *adapters.ResponseData) ([]*adapters.BidResult, []error) {
	bids := make([]*adapters.BidResult, 0)
	if response == nil || response.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(response.Body)) == 0 {
		return bids, nil
	}

	if response.StatusCode != http.StatusOK {
		return bids, []error{&errortypes.BadServerResponse{
			Message: fmt.Sprintf("Unexpected status code: %d. Run with request.debug = 1 for more info", response.StatusCode),
		}}
	}

	var bidResp bidResponse
	if err := jsonutil.Unmarshal(response.Body, &bidResp); err != nil {
		return bids, []error{&errortypes.BadServerResponse{Message: fmt.Sprintf("Invalid bid response: %v", err)}}
	}

	outbound := readOutboundRequest(request)
	markupType := parseAdType(response.Headers.Get(headerAdType))
	ttl := a.getTTLFromHeaderOrDefault(response)
	currency := bidResp.Cur
	if currency == "" {
		currency = defaultCurrency
	}
	brandCategoryExclusion := a.settings.BrandCategoryExclusion()

	var errs []error
	for _, seat := range bidResp.SeatBid {
		for i := range seat.Bid {
			bid := &seat.Bid[i]
			imp := outbound.match(bid.ImpID)

			if markupType == adTypeUnknown && !imp.adPod {
				glog.V(2).Infof("Skipping bid %s: response carries no known %s header", bid.ID, headerAdType)
				continue
			}

			result, err := interpretBid(bid, seat.Seat, imp, markupType, ttl, currency, brandCategoryExclusion)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			if outbound.dsaRequired && result.Meta.DSA == nil {
				errs = append(errs, &errortypes.Warning{
					Message:     fmt.Sprintf("Bid %s carries no dsa object although the request requires one", bid.ID),
					WarningCode: errortypes.InvalidBidResponseDSAWarningCode,
				})
			}
			bids = append(bids, result)
		}
	}

	return bids, errs
}

func interpretBid(bid *smaatoBid, seat string, imp outboundImp, markupType adType, ttl int64, currency string,
	brandCategoryExclusion bool) (*adapters.BidResult, error) {
	ext := readBidExt(bid.Ext)

	if imp.adPod {
		markupType = adTypeVideo
	}
	rendered, err := renderAdMarkup(markupType, bid.AdM, ext.Curls)
	if err != nil {
		return nil, err
	}

	width, height := bid.W, bid.H
	if width == 0 || height == 0 {
		width, height = imp.w, imp.h
	}

	netRevenue := true
	if ext.Net != nil {
		netRevenue = *ext.Net
	}

	agencyID := seat
	if agencyID == "" {
		agencyID = bid.CID
	}

	advertiserDomains := bid.ADomain
	if advertiserDomains == nil {
		advertiserDomains = []string{}
	}

	result := &adapters.BidResult{
		RequestID:  bid.ImpID,
		CPM:        bid.Price,
		Width:      width,
		Height:     height,
		Ad:         rendered.ad,
		VastXML:    rendered.vastXML,
		Native:     rendered.native,
		TTL:        ttl,
		CreativeID: bid.CrID,
		DealID:     bid.DealID,
		NetRevenue: netRevenue,
		Currency:   currency,
		MediaType:  rendered.mediaType,
		Meta: adapters.BidMeta{
			AdvertiserDomains: advertiserDomains,
			AgencyID:          agencyID,
			NetworkName:       bid.BidderName,
			MediaType:         rendered.mediaType,
			DSA:               ext.DSA,
		},
	}

	if imp.adPod {
		result.Video = &openrtb_ext.ExtBidPrebidVideo{
			Context:         openrtb_ext.AdPodContext,
			DurationSeconds: ext.Duration,
		}
		if brandCategoryExclusion && len(bid.Cat) > 0 {
			result.Meta.PrimaryCatID = bid.Cat[0]
		}
	}

	return result, nil
}

// readBidExt reads the optional fields of bid.ext one by one. A field of the wrong type is left at
// its zero value and never fails the bid.
func readBidExt(raw []byte) openrtb_ext.ExtBidSmaato {
	var ext openrtb_ext.ExtBidSmaato
	if len(raw) == 0 {
		return ext
	}

	if net, err := jsonparser.GetBoolean(raw, "net"); err == nil {
		ext.Net = &net
	}
	if duration, err := jsonparser.GetInt(raw, "duration"); err == nil {
		ext.Duration = int(duration)
	}
	jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.String {
			return
		}
		if curl, err := jsonparser.ParseString(value); err == nil {
			ext.Curls = append(ext.Curls, curl)
		}
	}, "curls")
	ext.DSA = dsa.FromBidExt(raw)
	return ext
}

// renderAdMarkup shapes the adm for its ad type. An unknown ad type means the response matches no
// supported creative shape and is reported as an error.
func renderAdMarkup(markupType adType, adMarkup string, curls []string) (creative, error) {
	switch markupType {
	case adTypeBanner:
		return creative{mediaType: openrtb_ext.BidTypeBanner, ad: extractAdmBanner(adMarkup, curls)}, nil
	case adTypeVideo:
		return creative{mediaType: openrtb_ext.BidTypeVideo, vastXML: adMarkup}, nil
	case adTypeNative:
		native, err := extractNative(adMarkup)
		if err != nil {
			return creative{}, err
		}
		return creative{mediaType: openrtb_ext.BidTypeNative, native: native}, nil
	default:
		return creative{}, &errortypes.BadServerResponse{Message: fmt.Sprintf("Unsupported ad type %s.", markupType)}
	}
}

func (a *adapter) getTTLFromHeaderOrDefault(response *adapters.ResponseData) int64 {
	ttl := defaultTTL

	if expiresAtMillis, err := strconv.ParseInt(response.Headers.Get(headerExpires), 10, 64); err == nil {
		nowMillis := a.clock.Now().UnixNano() / 1000000
		ttl = (expiresAtMillis - nowMillis) / 1000
		if ttl < 0 {
			ttl = 0
		}
	}

	return ttl
}
