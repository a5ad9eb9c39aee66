package errortypes

import (
	"fmt"
	"strings"
)

// AggregateErrors collects every problem found by one validation pass.
type AggregateErrors struct {
	Message string
	Errors  []error
}

// NewAggregateErrors returns nil when errs is empty.
func NewAggregateErrors(msg string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateErrors{Message: msg, Errors: errs}
}

func (e *AggregateErrors) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Errors) == 1 {
		b.WriteString(" (1 error):\n")
	} else {
		fmt.Fprintf(&b, " (%d errors):\n", len(e.Errors))
	}

	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d: %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateErrors) Unwrap() []error {
	return e.Errors
}
