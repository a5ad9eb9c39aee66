package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/smaato/prebid-smaato-adapter/config"
	"github.com/smaato/prebid-smaato-adapter/router"
	"github.com/smaato/prebid-smaato-adapter/server"
)

// Rev holds binary revision string
// Set manually at build time using:
//
//	go build -ldflags "-X main.Rev=`git rev-parse --short HEAD` -X main.Version=`git describe --tags`"
var (
	Rev     string
	Version string
)

func main() {
	flag.Parse() // required for glog flags and testing package flags

	v := viper.New()
	cfg, err := loadConfig(v)
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	store := config.NewStore(cfg)
	if v.ConfigFileUsed() != "" {
		store.Watch(v)
	}

	err = serve(cfg, store)
	if err != nil {
		glog.Exitf("smaato adapter failed: %v", err)
	}
}

const configFileName = "smaato"

func loadConfig(v *viper.Viper) (*config.Configuration, error) {
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func serve(cfg *config.Configuration, store *config.Store) error {
	r, err := router.New(cfg, store, Version, Rev)
	if err != nil {
		return err
	}

	corsRouter := router.SupportCORS(r)
	return server.Listen(cfg, router.NoCache{Handler: corsRouter}, router.Admin(r.MetricsEngine.GoMetrics.MetricsRegistry), r.MetricsEngine)
}
