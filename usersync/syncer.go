package usersync

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	validator "github.com/asaskevich/govalidator"

	"github.com/smaato/prebid-smaato-adapter/privacy"
)

// Sync describes one cookie sync the page should perform.
type Sync struct {
	Type SyncType `json:"type"`
	URL  string   `json:"url"`
}

// Syncer builds the exchange's user sync URLs. It performs no network I/O.
type Syncer struct {
	imageURL  string
	iframeURL string
}

// NewSyncer validates the two base URLs.
func NewSyncer(imageURL, iframeURL string) (*Syncer, error) {
	var errs []string
	if !validator.IsURL(imageURL) {
		errs = append(errs, fmt.Sprintf("image sync url %q is not a valid url", imageURL))
	}
	if !validator.IsURL(iframeURL) {
		errs = append(errs, fmt.Sprintf("iframe sync url %q is not a valid url", iframeURL))
	}
	if len(errs) > 0 {
		return nil, errors.New(strings.Join(errs, "; "))
	}

	return &Syncer{imageURL: imageURL, iframeURL: iframeURL}, nil
}

// GetSync returns zero or one sync. Iframe wins when both mechanisms are allowed. Query parameters
// are only appended for the signals that are present; maxSyncs <= 0 means unlimited.
func (s *Syncer) GetSync(options Options, policies privacy.Policies, maxSyncs int) []Sync {
	syncType := options.Preferred()

	var base string
	switch syncType {
	case SyncTypeIFrame:
		base = s.iframeURL
	case SyncTypeImage:
		base = s.imageURL
	default:
		return []Sync{}
	}

	syncURL := newQueryAppender(base)
	if signal := policies.GDPR.Signal(); signal != nil {
		syncURL.add("gdpr", strconv.Itoa(int(*signal)))
	}
	if policies.GDPR.Consent != "" {
		syncURL.add("gdpr_consent", policies.GDPR.Consent)
	}
	if policies.CCPA.Consent != "" {
		syncURL.add("us_privacy", policies.CCPA.Consent)
	}
	if maxSyncs > 0 {
		syncURL.add("maxUrls", strconv.Itoa(maxSyncs))
	}

	return []Sync{{Type: syncType, URL: syncURL.String()}}
}

type queryAppender struct {
	builder  strings.Builder
	hasQuery bool
}

func newQueryAppender(base string) *queryAppender {
	q := &queryAppender{hasQuery: strings.Contains(base, "?")}
	q.builder.WriteString(base)
	return q
}

func (q *queryAppender) add(key, value string) {
	if q.hasQuery {
		q.builder.WriteByte('&')
	} else {
		q.builder.WriteByte('?')
		q.hasQuery = true
	}
	q.builder.WriteString(key)
	q.builder.WriteByte('=')
	q.builder.WriteString(url.QueryEscape(value))
}

func (q *queryAppender) String() string {
	return q.builder.String()
}
