package pbntlm

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	ntlm "github.com/launchdarkly/go-ntlm-proxy-auth"

	"github.com/pagebeacon/go-client/pbhttp"
)

// NewNTLMProxyHTTPClientFactory returns a factory function for creating an HTTP client that will
// connect through an NTLM-authenticated proxy server.
//
// To use this with the client, pass the factory function to HTTPConfigurationBuilder.HTTPClientFactory.
// You may also specify any of the options from the pbhttp package, such as a CA certificate.
func NewNTLMProxyHTTPClientFactory(
	proxyURL, username, password, domain string,
	options ...pbhttp.TransportOption,
) (func() *http.Client, error) {
	if proxyURL == "" || username == "" || password == "" {
		return nil, errors.New("ProxyURL, username, and password are required")
	}
	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %s: %w", proxyURL, err)
	}
	// Try creating a transport with these options just to make sure it's valid before we get any farther
	if _, _, err := pbhttp.NewHTTPTransport(options...); err != nil {
		return nil, err
	}
	return func() *http.Client {
		client := *http.DefaultClient
		if transport, dialer, err := pbhttp.NewHTTPTransport(options...); err == nil {
			transport.DialContext = ntlm.NewNTLMProxyDialContext(dialer, *parsedProxyURL, username, password, domain,
				transport.TLSClientConfig)
			transport.Proxy = nil
			client.Transport = transport
		}
		return &client
	}, nil
}
