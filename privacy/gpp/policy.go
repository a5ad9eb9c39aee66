package gpp

import (
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

// Policy represents the Global Privacy Platform signal of a bid request.
type Policy struct {
	Consent    string
	SectionIDs []int8
}

// Write sets regs.ext.gpp and regs.ext.gpp_sid.
func (p Policy) Write(regs *openrtb_ext.ExtRegs, _ *openrtb_ext.ExtUser) {
	if p.Consent != "" {
		regs.GPP = p.Consent
	}
	if len(p.SectionIDs) > 0 {
		regs.GPPSID = append([]int8(nil), p.SectionIDs...)
	}
}
