package openrtb_ext

import (
	"github.com/prebid/openrtb/v20/openrtb2"
)

// ExtUser defines the contract for bidrequest.user.ext as sent to the exchange.
type ExtUser struct {
	// Consent is a GDPR consent string. See "Advised Extensions" of
	// https://iabtechlab.com/wp-content/uploads/2018/02/OpenRTB_Advisory_GDPR_2018-02.pdf
	Consent string `json:"consent,omitempty"`

	Eids []openrtb2.EID `json:"eids,omitempty"`
}

// ExtUserData defines the first party demographic fields that may arrive under user.ext.data.
type ExtUserData struct {
	Keywords string `json:"keywords"`
	Gender   string `json:"gender"`
	Yob      int64  `json:"yob"`
}

// ExtRequestSmaato defines the contract for bidrequest.ext sent to the exchange.
type ExtRequestSmaato struct {
	Client string `json:"client"`
}
