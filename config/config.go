package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/smaato/prebid-smaato-adapter/errortypes"
)

// Configuration specifies the static application config.
type Configuration struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	AdminPort  int    `mapstructure:"admin_port"`
	EnableGzip bool   `mapstructure:"enable_gzip"`
	// StatusResponse is the string which will be returned by the /status endpoint when things are OK.
	// If empty, it will return a 204 with no content.
	StatusResponse  string   `mapstructure:"status_response"`
	BidderParamsDir string   `mapstructure:"bidder_params_dir"`
	Adapter         Adapter  `mapstructure:"adapter"`
	AdPod           AdPod    `mapstructure:"adpod"`
	UserSync        UserSync `mapstructure:"user_sync"`
	Metrics         Metrics  `mapstructure:"metrics"`
}

// AdPod holds the long-form video options. They are reloaded while running.
type AdPod struct {
	BrandCategoryExclusion bool `mapstructure:"brand_category_exclusion"`
}

type Metrics struct {
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

type PrometheusMetrics struct {
	Port             int    `mapstructure:"port"`
	Namespace        string `mapstructure:"namespace"`
	Subsystem        string `mapstructure:"subsystem"`
	TimeoutMillisRaw int    `mapstructure:"timeout_ms"`
}

func (cfg *PrometheusMetrics) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMillisRaw) * time.Millisecond
}

func (cfg *Configuration) validate() []error {
	var errs []error
	if cfg.Port <= 0 {
		errs = append(errs, fmt.Errorf("port must be positive, got %d", cfg.Port))
	}
	if cfg.AdminPort <= 0 {
		errs = append(errs, fmt.Errorf("admin_port must be positive, got %d", cfg.AdminPort))
	}
	if cfg.AdminPort == cfg.Port {
		errs = append(errs, fmt.Errorf("port and admin_port must differ, both are %d", cfg.Port))
	}
	errs = cfg.Adapter.validate(errs)
	errs = cfg.UserSync.validate(errs)
	errs = cfg.Metrics.Prometheus.validate(errs)
	return errs
}

func (cfg *PrometheusMetrics) validate(errs []error) []error {
	if cfg.Port < 0 {
		errs = append(errs, fmt.Errorf("metrics.prometheus.port must not be negative, got %d", cfg.Port))
	}
	if cfg.Port > 0 && cfg.TimeoutMillisRaw <= 0 {
		errs = append(errs, fmt.Errorf("metrics.prometheus.timeout_ms must be positive, got %d", cfg.TimeoutMillisRaw))
	}
	return errs
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	glog.Info("Logging the resolved configuration:")
	logGeneral(v, "  \t")

	if err := errortypes.NewAggregateErrors("validation errors", c.validate()); err != nil {
		return &c, err
	}
	return &c, nil
}

// SetupViper registers the defaults and tells viper where to look for the config file. Every key can
// be overridden by an SMT_ prefixed environment variable, e.g. SMT_ADAPTER_ENDPOINT.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 8000)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)
	v.SetDefault("status_response", "")
	v.SetDefault("bidder_params_dir", "./static/bidder-params")
	v.SetDefault("adapter.endpoint", "https://prebid.ad.smaato.net/oapi/prebid")
	v.SetDefault("adpod.brand_category_exclusion", false)
	v.SetDefault("user_sync.image_url", "https://s.ad.smaato.net/c/?adExInit=p")
	v.SetDefault("user_sync.iframe_url", "https://s.ad.smaato.net/i/?adExInit=p")
	v.SetDefault("user_sync.syncs_per_bidder", 0)
	v.SetDefault("metrics.prometheus.port", 0)
	v.SetDefault("metrics.prometheus.namespace", "")
	v.SetDefault("metrics.prometheus.subsystem", "")
	v.SetDefault("metrics.prometheus.timeout_ms", 10000)

	v.SetEnvPrefix("SMT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		if err := v.ReadInConfig(); err != nil {
			glog.Warningf("Configuration file not detected. Initializing with default values and environment variable overrides. %v", err)
		}
	}
}

func logGeneral(v *viper.Viper, prefix string) {
	for _, key := range v.AllKeys() {
		glog.Infof("%s%s: %v", prefix, key, v.Get(key))
	}
}
