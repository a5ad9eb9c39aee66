package config

import (
	"fmt"

	validator "github.com/asaskevich/govalidator"
)

// UserSync configures the sync pixels handed to the page.
type UserSync struct {
	ImageURL  string `mapstructure:"image_url"`
	IFrameURL string `mapstructure:"iframe_url"`
	// SyncsPerBidder is sent as maxUrls. 0 leaves the limit to the exchange. Reloaded while running.
	SyncsPerBidder int `mapstructure:"syncs_per_bidder"`
}

func (cfg *UserSync) validate(errs []error) []error {
	if !validator.IsURL(cfg.ImageURL) {
		errs = append(errs, fmt.Errorf("user_sync.image_url %q is not a valid URL", cfg.ImageURL))
	}
	if !validator.IsURL(cfg.IFrameURL) {
		errs = append(errs, fmt.Errorf("user_sync.iframe_url %q is not a valid URL", cfg.IFrameURL))
	}
	if cfg.SyncsPerBidder < 0 {
		errs = append(errs, fmt.Errorf("user_sync.syncs_per_bidder must not be negative, got %d", cfg.SyncsPerBidder))
	}
	return errs
}
