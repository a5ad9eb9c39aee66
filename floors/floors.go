package floors

import (
	"fmt"
	"math"

	"github.com/golang/glog"

	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

// Currency is the only currency floors are requested and accepted in.
const Currency = "USD"

// CatchAll matches any value of a rule field, and stands for "any size" in queries.
const CatchAll = "*"

// Size is either a concrete width/height pair or AnySize.
type Size struct {
	W   int64
	H   int64
	Any bool
}

// AnySize is used when an ad unit declares more than one size for a media type.
var AnySize = Size{Any: true}

// SizeFor returns the concrete size w x h.
func SizeFor(w, h int64) Size {
	return Size{W: w, H: h}
}

// SelectSize returns the single declared size, or AnySize when there is not exactly one.
func SelectSize(sizes [][2]int64) Size {
	if len(sizes) != 1 {
		return AnySize
	}
	return SizeFor(sizes[0][0], sizes[0][1])
}

func (s Size) String() string {
	if s.Any {
		return CatchAll
	}
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Query is what a floor provider is asked for.
type Query struct {
	Currency  string
	MediaType openrtb_ext.BidType
	Size      Size
}

// Answer is what a floor provider returned. A nil Floor means the provider had no floor value.
type Answer struct {
	Currency string
	Floor    *float64
}

// Querier looks up the floor of one ad unit.
type Querier interface {
	GetFloor(query Query) *Answer
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(query Query) *Answer

func (f QuerierFunc) GetFloor(query Query) *Answer {
	return f(query)
}

// Status tags a Result.
type Status int

const (
	// Absent means no floor provider was available.
	Absent Status = iota
	// Resolved means a usable floor was returned.
	Resolved
	// Invalid means the provider answered with something that cannot be used as a USD floor.
	Invalid
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Invalid:
		return "invalid"
	default:
		return "absent"
	}
}

// Result is the outcome of Resolve.
type Result struct {
	Status   Status
	Amount   float64
	Currency string
}

// Floor returns the amount when the result is Resolved.
func (r Result) Floor() (float64, bool) {
	return r.Amount, r.Status == Resolved
}

// Resolve asks querier for the USD floor of mediaType at size. It never panics and never
// defaults to zero: anything other than a finite USD amount is reported as Invalid.
func Resolve(querier Querier, mediaType openrtb_ext.BidType, size Size) (result Result) {
	if isNil(querier) {
		return Result{Status: Absent}
	}

	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("floor provider panicked for %s %s: %v", mediaType, size, r)
			result = Result{Status: Invalid}
		}
	}()

	answer := querier.GetFloor(Query{Currency: Currency, MediaType: mediaType, Size: size})
	if answer == nil || answer.Currency != Currency || answer.Floor == nil {
		return Result{Status: Invalid}
	}

	floor := *answer.Floor
	if math.IsNaN(floor) || math.IsInf(floor, 0) {
		return Result{Status: Invalid}
	}

	return Result{Status: Resolved, Amount: floor, Currency: Currency}
}

func isNil(querier Querier) bool {
	if querier == nil {
		return true
	}
	if f, ok := querier.(QuerierFunc); ok && f == nil {
		return true
	}
	if rs, ok := querier.(*RuleSet); ok && rs == nil {
		return true
	}
	return false
}
