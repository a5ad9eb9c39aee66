package endpoints

import (
	"net/http"

	"github.com/golang/glog"

	"github.com/smaato/prebid-smaato-adapter/errortypes"
	"github.com/smaato/prebid-smaato-adapter/metrics"
	"github.com/smaato/prebid-smaato-adapter/util/jsonutil"
)

// responseError is the wire shape of an adapter error or warning.
type responseError struct {
	Code     int    `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func toResponseErrors(errs []error) []responseError {
	out := make([]responseError, 0, len(errs))
	for _, err := range errs {
		out = append(out, responseError{
			Code:     errortypes.ReadCode(err),
			Severity: severityName(err),
			Message:  err.Error(),
		})
	}
	return out
}

func severityName(err error) string {
	coder, ok := err.(errortypes.Coder)
	if !ok {
		return "fatal"
	}
	switch coder.Severity() {
	case errortypes.SeverityWarning:
		return "warning"
	case errortypes.SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

func recordAdapterErrors(metricsEngine metrics.MetricsEngine, errs []error) {
	for _, err := range errs {
		metricsEngine.RecordAdapterError(metrics.AdapterErrorOf(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	body, err := jsonutil.Marshal(value)
	if err != nil {
		glog.Errorf("Failed to marshal endpoint response: %v", err)
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
