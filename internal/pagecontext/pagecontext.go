// Package pagecontext builds the static per-session query context that accompanies every transport
// attempt.
package pagecontext

import (
	"net/url"
	"strings"

	"github.com/pagebeacon/go-client/interfaces"
)

const (
	// URLParam is the query parameter carrying the page location.
	URLParam = "url"
	// ReferrerParam is the query parameter carrying the referrer. The spelling matches the HTTP header.
	ReferrerParam = "referer"
)

// Build computes the page context once. The query string always lists the location first and the
// referrer second, both percent-escaped, so that both transports carry byte-identical context.
func Build(location, referrer string) interfaces.PageContext {
	return interfaces.PageContext{
		LocationURL: location,
		Referrer:    referrer,
		RawQuery:    URLParam + "=" + url.QueryEscape(location) + "&" + ReferrerParam + "=" + url.QueryEscape(referrer),
	}
}

// Origin returns the scheme and host of the page location, which are the default destination of
// both transports. It returns ok=false if the location is not an absolute http or https URL.
func Origin(page interfaces.PageContext) (scheme, host string, ok bool) {
	u, err := url.Parse(page.LocationURL)
	if err != nil || u.Host == "" {
		return "", "", false
	}
	scheme = strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", "", false
	}
	return scheme, u.Host, true
}

// IsSecure returns true if the page was loaded over https.
func IsSecure(page interfaces.PageContext) bool {
	scheme, _, ok := Origin(page)
	return ok && scheme == "https"
}
