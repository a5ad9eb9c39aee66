package router

import (
	"net/http"
	"net/http/pprof"

	gometrics "github.com/rcrowley/go-metrics"
)

// Admin serves the go-metrics registry as JSON and the pprof endpoints.
func Admin(registry gometrics.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/metrics/json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		gometrics.WriteJSONOnce(registry, w)
	})

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}
