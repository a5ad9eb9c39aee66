package adapters

import (
	"github.com/buger/jsonparser"

	"github.com/smaato/prebid-smaato-adapter/privacy"
	"github.com/smaato/prebid-smaato-adapter/privacy/ccpa"
	"github.com/smaato/prebid-smaato-adapter/privacy/gdpr"
	"github.com/smaato/prebid-smaato-adapter/privacy/gpp"
	"github.com/smaato/prebid-smaato-adapter/util/ptrutil"
)

// PrivacyPolicies takes gdpr and us_privacy from the consent modules and falls back to first party data
// only when a module supplied nothing. gpp comes from first party data alone.
func (r *BidderRequest) PrivacyPolicies() privacy.Policies {
	var policies privacy.Policies

	if consent := r.GDPRConsent; consent != nil {
		policies.GDPR = gdpr.Policy{Applies: consent.GDPRApplies, Consent: consent.ConsentString}
	}
	policies.CCPA = ccpa.Policy{Consent: r.USPConsent}

	fpd := r.ORTB2
	if fpd == nil {
		return policies
	}

	if regs := fpd.Regs; regs != nil {
		if policies.GDPR.Applies == nil {
			signal := regs.GDPR
			if signal == nil {
				if value, err := jsonparser.GetInt(regs.Ext, "gdpr"); err == nil {
					signal = ptrutil.ToPtr(int8(value))
				}
			}
			if signal != nil {
				policies.GDPR.Applies = ptrutil.ToPtr(*signal == 1)
			}
		}

		if policies.CCPA.Consent == "" {
			policies.CCPA.Consent = regs.USPrivacy
			if policies.CCPA.Consent == "" {
				policies.CCPA.Consent, _ = jsonparser.GetString(regs.Ext, "us_privacy")
			}
		}

		policies.GPP = gpp.Policy{Consent: regs.GPP, SectionIDs: regs.GPPSID}
		if policies.GPP.Consent == "" {
			policies.GPP.Consent, _ = jsonparser.GetString(regs.Ext, "gpp")
		}
		if len(policies.GPP.SectionIDs) == 0 {
			jsonparser.ArrayEach(regs.Ext, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
				if sid, err := jsonparser.ParseInt(value); err == nil && dataType == jsonparser.Number {
					policies.GPP.SectionIDs = append(policies.GPP.SectionIDs, int8(sid))
				}
			}, "gpp_sid")
		}
	}

	if policies.GDPR.Consent == "" && fpd.User != nil {
		policies.GDPR.Consent = fpd.User.Consent
		if policies.GDPR.Consent == "" {
			policies.GDPR.Consent, _ = jsonparser.GetString(fpd.User.Ext, "consent")
		}
	}

	return policies
}
