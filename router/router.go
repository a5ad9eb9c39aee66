package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/smaato/prebid-smaato-adapter/adapters/smaato"
	"github.com/smaato/prebid-smaato-adapter/config"
	"github.com/smaato/prebid-smaato-adapter/endpoints"
	metricsConf "github.com/smaato/prebid-smaato-adapter/metrics/config"
	"github.com/smaato/prebid-smaato-adapter/openrtb_ext"
)

// NewJsonDirectoryServer is used to serve .json files from a directory as a single blob. For example,
// given a directory containing the files "a.json" and "b.json", this returns a Handle which serves JSON like:
//
//	{
//	  "a": { ... content from the file a.json ... },
//	  "b": { ... content from the file b.json ... }
//	}
//
// This function stores the file contents in memory, and should not be used on large directories.
// If the root directory, or any of the files in it, cannot be read, then the program will exit.
func NewJsonDirectoryServer(schemaDirectory string, validator openrtb_ext.BidderParamValidator) httprouter.Handle {
	// Slurp the files into memory first, since they're small and it minimizes request latency.
	files, err := os.ReadDir(schemaDirectory)
	if err != nil {
		glog.Fatalf("Failed to read directory %s: %v", schemaDirectory, err)
	}

	data := make(map[string]json.RawMessage, len(files))
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		bidder := strings.TrimSuffix(file.Name(), ".json")
		bidderName, isValid := openrtb_ext.GetBidderName(bidder)
		if !isValid {
			glog.Fatalf("Schema exists for an unknown bidder: %s", bidder)
		}
		data[bidder] = json.RawMessage(validator.Schema(bidderName))
	}

	response, err := json.Marshal(data)
	if err != nil {
		glog.Fatalf("Failed to marshal bidder param JSON-schema: %v", err)
	}

	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Add("Content-Type", "application/json")
		w.Write(response)
	}
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

// Router is the main http handler. Its metrics engine is shared with the server listeners.
type Router struct {
	*httprouter.Router
	MetricsEngine *metricsConf.DetailedMetricsEngine
}

// New builds the adapter from the static configuration and mounts its endpoints. Options held by
// the store are read on every call, so reloads take effect without rebuilding the router.
func New(cfg *config.Configuration, store *config.Store, version, revision string) (r *Router, err error) {
	r = &Router{
		Router: httprouter.New(),
	}

	paramsValidator, err := openrtb_ext.NewBidderParamsValidator(cfg.BidderParamsDir)
	if err != nil {
		return nil, fmt.Errorf("Failed to create the bidder params validator. %v", err)
	}

	bidder, err := smaato.Builder(cfg.Adapter, cfg.UserSync, store, paramsValidator)
	if err != nil {
		return nil, fmt.Errorf("Failed to build the smaato adapter. %v", err)
	}

	r.MetricsEngine = metricsConf.NewMetricsEngine(cfg)

	r.POST("/smaato/requests", endpoints.NewRequestsEndpoint(bidder, r.MetricsEngine))
	r.POST("/smaato/bids", endpoints.NewBidsEndpoint(bidder, r.MetricsEngine))
	r.GET("/smaato/usersyncs", endpoints.NewUserSyncsEndpoint(bidder, r.MetricsEngine))
	r.GET("/bidders/params", NewJsonDirectoryServer(cfg.BidderParamsDir, paramsValidator))
	r.GET("/status", endpoints.NewStatusEndpoint(cfg.StatusResponse))
	r.GET("/version", endpoints.NewVersionEndpoint(version, revision))

	return r, nil
}

// SupportCORS allows the auction framework to call the endpoints from any page.
//
// Credentials are allowed because the usersyncs endpoint is fetched from the page with withCredentials
// set. Nothing here uses cookies for authorization.
func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}})
	return c.Handler(handler)
}
