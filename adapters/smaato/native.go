package smaato

import (
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/tidwall/gjson"

	"github.com/smaato/prebid-smaato-adapter/adapters"
	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/floors"
)

// nativeImageTypeMain is the OpenRTB native image asset type of the main image.
const nativeImageTypeMain = 3

// nativeMainImageSize returns the size of the main image asset, or AnySize when there is none.
func nativeMainImageSize(request []byte) floors.Size {
	size := floors.AnySize
	found := false

	jsonparser.ArrayEach(request, func(asset []byte, _ jsonparser.ValueType, _ int, _ error) {
		if found {
			return
		}
		imageType, err := jsonparser.GetInt(asset, "img", "type")
		if err != nil || imageType != nativeImageTypeMain {
			return
		}
		w, errW := jsonparser.GetInt(asset, "img", "w")
		h, errH := jsonparser.GetInt(asset, "img", "h")
		if errW == nil && errH == nil {
			size = floors.SizeFor(w, h)
			found = true
		}
	}, "assets")

	return size
}

// extractNative parses the native adm, which wraps the OpenRTB native response as {"native": {...}}.
func extractNative(adMarkup string) (*adapters.NativeCreative, error) {
	native := gjson.Get(adMarkup, "native")
	if !gjson.Valid(adMarkup) || !native.IsObject() {
		return nil, &errortypes.BadServerResponse{Message: fmt.Sprintf("Invalid native ad markup %s.", adMarkup)}
	}
	return &adapters.NativeCreative{Ortb: []byte(native.Raw)}, nil
}
