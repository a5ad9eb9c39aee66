package openrtb_ext

import "encoding/json"

// ExtRegs defines the contract for bidrequest.regs.ext
type ExtRegs struct {
	// GDPR should be "1" if the caller believes the user is subject to GDPR laws, "0" if not, and undefined
	// if it's unknown.
	GDPR *int8 `json:"gdpr,omitempty"`

	// USPrivacy should be a four character string, see: https://iabtechlab.com/wp-content/uploads/2019/11/OpenRTB-Extension-U.S.-Privacy-IAB-Tech-Lab.pdf
	USPrivacy string `json:"us_privacy,omitempty"`

	GPP    string `json:"gpp,omitempty"`
	GPPSID []int8 `json:"gpp_sid,omitempty"`

	// DSA is forwarded verbatim so unknown sub fields survive.
	DSA json.RawMessage `json:"dsa,omitempty"`
}
