package floors

import (
	"strings"

	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

const ruleDelimiter = "|"

// RuleSet is a static floor table keyed by "mediaType|size", e.g. "banner|300x250".
// Either field may be the catch-all "*". Keys are matched case-insensitively,
// most specific first.
type RuleSet struct {
	Currency string             `json:"currency,omitempty"`
	Values   map[string]float64 `json:"values"`
	Default  *float64           `json:"default,omitempty"`
}

// GetFloor implements Querier. The answer is given in the rule set's own currency, which
// Resolve rejects when it is not the requested one.
func (rs *RuleSet) GetFloor(query Query) *Answer {
	currency := rs.Currency
	if currency == "" {
		currency = Currency
	}

	values := make(map[string]float64, len(rs.Values))
	for key, value := range rs.Values {
		values[strings.ToLower(key)] = value
	}

	for _, key := range ruleKeys(query.MediaType, query.Size) {
		if value, ok := values[key]; ok {
			return &Answer{Currency: currency, Floor: &value}
		}
	}

	if rs.Default != nil {
		value := *rs.Default
		return &Answer{Currency: currency, Floor: &value}
	}

	return &Answer{Currency: currency}
}

func ruleKeys(mediaType openrtb_ext.BidType, size Size) []string {
	mt := strings.ToLower(string(mediaType))
	if mt == "" {
		mt = CatchAll
	}
	sz := strings.ToLower(size.String())

	keys := []string{
		mt + ruleDelimiter + sz,
		mt + ruleDelimiter + CatchAll,
		CatchAll + ruleDelimiter + sz,
		CatchAll + ruleDelimiter + CatchAll,
	}

	deduped := keys[:0]
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, key)
	}
	return deduped
}
