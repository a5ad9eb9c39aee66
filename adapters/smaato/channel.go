package smaato

import (
	"net/url"

	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/smaato/prebid-smaato-adapter/adapters"
)

// channel is exactly one of site, app or dooh.
type channel interface {
	apply(request *openrtb2.BidRequest)
	// setContent attaches content metadata and returns the JSON path of the content object,
	// or "" when the channel carries no content.
	setContent(content *openrtb2.Content) string
}

type siteChannel struct {
	site *openrtb2.Site
}

func (c siteChannel) apply(request *openrtb2.BidRequest) {
	request.Site = c.site
}

func (c siteChannel) setContent(content *openrtb2.Content) string {
	c.site.Content = content
	return "site.content"
}

type appChannel struct {
	app *openrtb2.App
}

func (c appChannel) apply(request *openrtb2.BidRequest) {
	request.App = c.app
}

func (c appChannel) setContent(content *openrtb2.Content) string {
	c.app.Content = content
	return "app.content"
}

type doohChannel struct {
	dooh *openrtb2.DOOH
}

func (c doohChannel) apply(request *openrtb2.BidRequest) {
	request.DOOH = c.dooh
}

func (c doohChannel) setContent(*openrtb2.Content) string {
	return ""
}

// resolveChannel picks dooh over app over site. Without any first party channel the site is derived
// from the referer. Site and dooh always carry an id, falling back to their domain and then to the
// publisher id. The first party objects are copied, never modified.
func resolveChannel(fpd *openrtb2.BidRequest, referer adapters.RefererInfo, publisherID string) channel {
	switch {
	case fpd.DOOH != nil:
		dooh := *fpd.DOOH
		dooh.ID = firstNonEmpty(dooh.ID, dooh.Domain, publisherID)
		dooh.Publisher = withPublisherID(dooh.Publisher, publisherID)
		return doohChannel{dooh: &dooh}
	case fpd.App != nil:
		app := *fpd.App
		app.Publisher = withPublisherID(app.Publisher, publisherID)
		return appChannel{app: &app}
	default:
		return siteChannel{site: buildSite(fpd.Site, referer, publisherID)}
	}
}

func buildSite(fpdSite *openrtb2.Site, referer adapters.RefererInfo, publisherID string) *openrtb2.Site {
	var site openrtb2.Site
	if fpdSite != nil {
		site = *fpdSite
	}

	if site.Page == "" {
		site.Page = referer.Page
	}
	if site.Ref == "" {
		site.Ref = referer.Ref
	}
	if site.Domain == "" {
		site.Domain = referer.Domain
	}
	if site.Domain == "" {
		site.Domain = firstNonEmpty(hostOf(site.Page), hostOf(site.Ref))
	}
	site.ID = firstNonEmpty(site.ID, site.Domain, publisherID)

	site.Publisher = withPublisherID(site.Publisher, publisherID)
	return &site
}

// firstNonEmpty returns the first non empty value, or "" when all are empty.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func withPublisherID(publisher *openrtb2.Publisher, publisherID string) *openrtb2.Publisher {
	var updated openrtb2.Publisher
	if publisher != nil {
		updated = *publisher
	}
	updated.ID = publisherID
	return &updated
}

func hostOf(page string) string {
	if page == "" {
		return ""
	}
	parsed, err := url.Parse(page)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
