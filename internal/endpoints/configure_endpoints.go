package endpoints

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/pagecontext"
)

// ServiceType is used internally to denote which endpoint a URI is for.
type ServiceType int

const (
	StreamingService ServiceType = iota //nolint:revive // internal constant
	SubmitService    ServiceType = iota //nolint:revive // internal constant
)

var errNoPageOrigin = errors.New("page location is not an absolute http(s) URL and no custom endpoint was configured")

func (s ServiceType) String() string {
	switch s {
	case StreamingService:
		return "Streaming"
	case SubmitService:
		return "Submit"
	default:
		return "???"
	}
}

func anyCustom(serviceEndpoints interfaces.ServiceEndpoints) bool {
	return serviceEndpoints.Streaming != "" || serviceEndpoints.Submit != ""
}

func getCustom(serviceEndpoints interfaces.ServiceEndpoints, serviceType ServiceType) string {
	switch serviceType {
	case StreamingService:
		return serviceEndpoints.Streaming
	case SubmitService:
		return serviceEndpoints.Submit
	default:
		return ""
	}
}

// DefaultBaseURI returns the base URI that a script served by the page's own host would use: the
// page's scheme and host.
func DefaultBaseURI(page interfaces.PageContext) (string, error) {
	scheme, host, ok := pagecontext.Origin(page)
	if !ok {
		return "", errNoPageOrigin
	}
	return scheme + "://" + host, nil
}

// SelectBaseURI is a helper for getting either a custom or a default URI for the given kind of
// endpoint. A component-level override takes precedence over ServiceEndpoints, which takes
// precedence over the page origin.
func SelectBaseURI(
	serviceEndpoints interfaces.ServiceEndpoints,
	serviceType ServiceType,
	overrideValue string,
	page interfaces.PageContext,
	loggers ldlog.Loggers,
) (string, error) {
	configuredBaseURI := overrideValue
	if configuredBaseURI == "" {
		configuredBaseURI = getCustom(serviceEndpoints, serviceType)
		if configuredBaseURI == "" {
			if anyCustom(serviceEndpoints) {
				loggers.Errorf(
					"You have set custom ServiceEndpoints without specifying the %s base URI; using the page origin",
					serviceType,
				)
			}
			var err error
			if configuredBaseURI, err = DefaultBaseURI(page); err != nil {
				return "", err
			}
		}
	}
	return strings.TrimRight(configuredBaseURI, "/"), nil
}

// StreamingBaseURI converts a base URI to the WebSocket scheme. http becomes ws and https becomes
// wss, unless secure is defined, in which case it decides between wss and ws regardless of the
// original scheme.
func StreamingBaseURI(baseURI string, secure ldvalue.OptionalBool) (string, error) {
	u, err := url.Parse(baseURI)
	if err != nil {
		return "", err
	}
	var isSecure bool
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		isSecure = true
	case "http", "ws":
		isSecure = false
	default:
		return "", fmt.Errorf("unsupported scheme for streaming endpoint: %q", baseURI)
	}
	if secure.IsDefined() {
		isSecure = secure.BoolValue()
	}
	if isSecure {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	return u.String(), nil
}

// AddPath concatenates a subpath to a URL in a way that will not cause a double slash.
func AddPath(baseURI string, path string) string {
	return strings.TrimSuffix(baseURI, "/") + "/" + strings.TrimPrefix(path, "/")
}

// AddQuery appends the page context query string to a URI.
func AddQuery(uri string, page interfaces.PageContext) string {
	if page.RawQuery == "" {
		return uri
	}
	return uri + "?" + page.RawQuery
}
