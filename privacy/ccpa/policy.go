package ccpa

import (
	"errors"
	"fmt"

	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

const (
	ccpaVersion1      = '1'
	ccpaYes           = 'Y'
	ccpaNo            = 'N'
	ccpaNotApplicable = '-'
)

const (
	indexVersion                = 0
	indexExplicitNotice         = 1
	indexOptOutSale             = 2
	indexLSPACoveredTransaction = 3
)

// Policy represents the US privacy string of a bid request.
type Policy struct {
	Consent string
}

// Write sets regs.ext.us_privacy.
func (p Policy) Write(regs *openrtb_ext.ExtRegs, _ *openrtb_ext.ExtUser) {
	if p.Consent != "" {
		regs.USPrivacy = p.Consent
	}
}

// Validate checks the US privacy string has the IAB version 1 shape.
func (p Policy) Validate() error {
	if err := ValidateConsent(p.Consent); err != nil {
		return fmt.Errorf("us_privacy %s", err.Error())
	}
	return nil
}

// ValidateConsent returns an error if the US privacy string is not empty and does not adhere to the IAB spec.
func ValidateConsent(consent string) error {
	if consent == "" {
		return nil
	}

	if len(consent) != 4 {
		return errors.New("must contain 4 characters")
	}

	if consent[indexVersion] != ccpaVersion1 {
		return errors.New("must specify version 1")
	}

	fields := []struct {
		index int
		name  string
	}{
		{indexExplicitNotice, "explicit notice"},
		{indexOptOutSale, "opt-out sale"},
		{indexLSPACoveredTransaction, "limited service provider agreement"},
	}
	for _, field := range fields {
		if c := consent[field.index]; c != ccpaNo && c != ccpaYes && c != ccpaNotApplicable {
			return fmt.Errorf("must specify 'N', 'Y', or '-' for the %s", field.name)
		}
	}

	return nil
}
