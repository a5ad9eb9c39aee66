package endpoints

import (
	"net/http"
	"strings"

	"github.com/prebid/openrtb/v20/openrtb2"
	"golang.org/x/text/language"

	"github.com/smaato/prebid-smaato-adapter/util/httputil"
)

// fillDevice completes the first party device with what the HTTP request reveals about the caller.
// Fields the caller already supplied are never overwritten.
func fillDevice(device *openrtb2.Device, r *http.Request) {
	if device.UA == "" {
		device.UA = r.UserAgent()
	}

	if device.IP == "" && device.IPv6 == "" {
		if ip := httputil.ClientIP(r); ip != "" {
			if strings.Contains(ip, ":") {
				device.IPv6 = ip
			} else {
				device.IP = ip
			}
		}
	}

	if device.Language == "" {
		device.Language = preferredLanguage(r.Header.Get("Accept-Language"))
	}
}

// preferredLanguage returns the ISO-639-1 code of the highest weighted Accept-Language entry.
func preferredLanguage(header string) string {
	if header == "" {
		return ""
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}

	base, confidence := tags[0].Base()
	if confidence == language.No || base.String() == "und" {
		return ""
	}
	return base.String()
}
