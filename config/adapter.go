package config

import (
	"fmt"

	validator "github.com/asaskevich/govalidator"
)

// Adapter configures the exchange the adapter talks to.
type Adapter struct {
	Endpoint string `mapstructure:"endpoint"` // Required
}

// validate makes sure the adapter has a valid endpoint associated with it.
func (cfg *Adapter) validate(errs []error) []error {
	if cfg.Endpoint == "" {
		return append(errs, fmt.Errorf("There's no endpoint available for the exchange. Please set adapter.endpoint in your app config"))
	}
	if !validator.IsURL(cfg.Endpoint) {
		return append(errs, fmt.Errorf("The endpoint %q is not a valid URL. Please fix adapter.endpoint in your app config", cfg.Endpoint))
	}
	return errs
}
