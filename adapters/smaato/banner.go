package smaato

import (
	"fmt"
	"net/url"
	"strings"
)

// extractAdmBanner wraps the markup in a clickable container which fires the first click tracker.
func extractAdmBanner(adMarkup string, curls []string) string {
	var clickEvent string
	if len(curls) > 0 && curls[0] != "" {
		clickEvent = fmt.Sprintf(` onclick="fetch(decodeURIComponent('%s'), {cache: 'no-cache'});"`, encodeURIComponent(curls[0]))
	}
	return fmt.Sprintf(`<div style="cursor:pointer"%s>%s</div>`, clickEvent, adMarkup)
}

// encodeURIComponent escapes s so that decodeURIComponent restores it.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
