package privacy

import (
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
	"github.com/smaato/prebid-smaato-adapter/privacy/ccpa"
	"github.com/smaato/prebid-smaato-adapter/privacy/gdpr"
	"github.com/smaato/prebid-smaato-adapter/privacy/gpp"
)

// Policies represents the privacy signals sent along with a bid request.
type Policies struct {
	GDPR gdpr.Policy
	CCPA ccpa.Policy
	GPP  gpp.Policy
}

type policyWriter interface {
	Write(regs *openrtb_ext.ExtRegs, user *openrtb_ext.ExtUser)
}

// Write applies the policies to the regs and user extensions of an outbound request.
func (p Policies) Write(regs *openrtb_ext.ExtRegs, user *openrtb_ext.ExtUser) {
	for _, writer := range []policyWriter{p.GDPR, p.CCPA, p.GPP} {
		writer.Write(regs, user)
	}
}

// Validate reports every malformed consent signal. Malformed signals are still forwarded.
func (p Policies) Validate() []error {
	var errs []error
	if err := p.GDPR.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.CCPA.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errs
}
