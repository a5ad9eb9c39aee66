package dsa

import (
	"encoding/json"

	"github.com/buger/jsonparser"
)

const (
	// Required - bid responses without DSA object will not be accepted
	Required = 2
	// RequiredOnlinePlatform - bid responses without DSA object will not be accepted, Publisher is an Online Platform
	RequiredOnlinePlatform = 3
)

var requiredFields = []string{"dsarequired", "pubrender", "datatopub"}

// FromRegsExt returns regs.ext.dsa of first party data verbatim when all of dsarequired, pubrender
// and datatopub are present. Partial objects are never forwarded.
func FromRegsExt(regsExt json.RawMessage) (json.RawMessage, bool) {
	if len(regsExt) == 0 {
		return nil, false
	}

	value, dataType, _, err := jsonparser.Get(regsExt, "dsa")
	if err != nil || dataType != jsonparser.Object {
		return nil, false
	}

	for _, field := range requiredFields {
		if _, fieldType, _, err := jsonparser.Get(value, field); err != nil || fieldType != jsonparser.Number {
			return nil, false
		}
	}

	return append(json.RawMessage(nil), value...), true
}

// FromBidExt returns bid.ext.dsa verbatim when it is an object.
func FromBidExt(bidExt json.RawMessage) json.RawMessage {
	if len(bidExt) == 0 {
		return nil
	}

	value, dataType, _, err := jsonparser.Get(bidExt, "dsa")
	if err != nil || dataType != jsonparser.Object {
		return nil
	}
	return append(json.RawMessage(nil), value...)
}

// ResponseRequired reports whether the forwarded dsa object obliges the exchange to attach a dsa
// object to its bids.
func ResponseRequired(regsDSA json.RawMessage) bool {
	required, err := jsonparser.GetInt(regsDSA, "dsarequired")
	if err != nil {
		return false
	}
	return required == Required || required == RequiredOnlinePlatform
}
