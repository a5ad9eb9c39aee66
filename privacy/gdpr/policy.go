package gdpr

import (
	"fmt"

	"github.com/prebid/go-gdpr/vendorconsent"

	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

// Policy represents the GDPR regulatory information handed over by the consent management module.
type Policy struct {
	// Applies is nil when it is unknown whether GDPR applies.
	Applies *bool
	Consent string
}

// Signal returns regs.ext.gdpr: 1 when GDPR applies, 0 when it does not, nil when unknown.
func (p Policy) Signal() *int8 {
	if p.Applies == nil {
		return nil
	}
	var signal int8
	if *p.Applies {
		signal = 1
	}
	return &signal
}

// Write sets regs.ext.gdpr and user.ext.consent.
func (p Policy) Write(regs *openrtb_ext.ExtRegs, user *openrtb_ext.ExtUser) {
	if signal := p.Signal(); signal != nil {
		regs.GDPR = signal
	}
	if p.Consent != "" {
		user.Consent = p.Consent
	}
}

// Validate checks the consent string is a parseable TCF consent string.
func (p Policy) Validate() error {
	if p.Consent == "" {
		return nil
	}
	if _, err := vendorconsent.ParseString(p.Consent); err != nil {
		return fmt.Errorf("gdpr consent string is invalid and will be forwarded as is: %v", err)
	}
	return nil
}
