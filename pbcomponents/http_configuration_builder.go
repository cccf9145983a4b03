package pbcomponents

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal"
	"github.com/pagebeacon/go-client/pbhttp"
)

// DefaultConnectTimeout is the HTTP connection timeout that is used if HTTPConfigurationBuilder.ConnectTimeout
// is not set.
const DefaultConnectTimeout = 3 * time.Second

// HTTPConfigurationBuilder contains methods for configuring the client's networking behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// pbcomponents.HTTPConfiguration(), change its properties with the HTTPConfigurationBuilder methods,
// and store it in Config.HTTP:
//
//	config := pagebeacon.Config{
//	    HTTP: pbcomponents.HTTPConfiguration().
//	        ConnectTimeout(3 * time.Second).
//	        ProxyURL(proxyURL),
//	}
type HTTPConfigurationBuilder struct {
	inited            bool
	connectTimeout    time.Duration
	httpClientFactory func() *http.Client
	httpOptions       []pbhttp.TransportOption
	proxyURL          string
	userAgent         string
	headers           http.Header
	caCertErr         error
}

// HTTPConfiguration returns a configuration builder for the client's HTTP configuration.
//
//	config := pagebeacon.Config{
//	    HTTP: pbcomponents.HTTPConfiguration().
//	        ConnectTimeout(3 * time.Second).
//	        ProxyURL(proxyURL),
//	}
func HTTPConfiguration() *HTTPConfigurationBuilder {
	return &HTTPConfigurationBuilder{}
}

func (b *HTTPConfigurationBuilder) checkValid() bool {
	if b == nil {
		internal.LogErrorNilPointerMethod("HTTPConfigurationBuilder")
		return false
	}
	if !b.inited {
		b.connectTimeout = DefaultConnectTimeout
		b.inited = true
	}
	return true
}

// CACert specifies a CA certificate to be added to the trusted root CA list for HTTPS requests.
//
// If the certificate data is invalid, the client will not be created.
func (b *HTTPConfigurationBuilder) CACert(certData []byte) *HTTPConfigurationBuilder {
	if b.checkValid() && b.caCertErr == nil {
		b.httpOptions = append(b.httpOptions, pbhttp.CACertOption(certData))
		if _, _, err := pbhttp.NewHTTPTransport(pbhttp.CACertOption(certData)); err != nil {
			b.caCertErr = err
		}
	}
	return b
}

// CACertFile specifies a CA certificate to be added to the trusted root CA list for HTTPS requests,
// reading the certificate data from a file in PEM format.
//
// If the file cannot be read or the certificate data is invalid, the client will not be created.
func (b *HTTPConfigurationBuilder) CACertFile(filePath string) *HTTPConfigurationBuilder {
	if b.checkValid() && b.caCertErr == nil {
		b.httpOptions = append(b.httpOptions, pbhttp.CACertFileOption(filePath))
		if _, _, err := pbhttp.NewHTTPTransport(pbhttp.CACertFileOption(filePath)); err != nil {
			b.caCertErr = err
		}
	}
	return b
}

// ConnectTimeout sets the connection timeout.
//
// This is the maximum amount of time to wait for each individual connection attempt to a remote service
// before determining that that attempt has failed. It is not the same as the delivery ConnectTimeout,
// which is how long the client waits for the stream before it uses the fallback transport.
//
// The default value is DefaultConnectTimeout.
func (b *HTTPConfigurationBuilder) ConnectTimeout(connectTimeout time.Duration) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if connectTimeout <= 0 {
			b.connectTimeout = DefaultConnectTimeout
		} else {
			b.connectTimeout = connectTimeout
		}
	}
	return b
}

// Header specifies a custom HTTP header that should be added to the WebSocket handshake and to
// every submit request.
//
// If you use this method to set the User-Agent header, it will override the default one.
func (b *HTTPConfigurationBuilder) Header(name string, value string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if b.headers == nil {
			b.headers = make(http.Header)
		}
		b.headers.Set(name, value)
	}
	return b
}

// HTTPClientFactory specifies a function for creating each HTTP client instance that is used by the client.
//
// If you use this option, it overrides any other settings that you may have specified with ConnectTimeout,
// ProxyURL, CACert, or CACertFile; the client will use exactly the HTTP client returned by this function.
// One use for it is an NTLM-authenticating proxy; see pbntlm.
func (b *HTTPConfigurationBuilder) HTTPClientFactory(httpClientFactory func() *http.Client) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.httpClientFactory = httpClientFactory
	}
	return b
}

// ProxyURL specifies a proxy URL to be used for all requests. This overrides any setting of the
// HTTP_PROXY, HTTPS_PROXY, or NO_PROXY environment variables.
func (b *HTTPConfigurationBuilder) ProxyURL(proxyURL string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.proxyURL = proxyURL
	}
	return b
}

// UserAgent specifies an additional User-Agent header value to send with requests.
func (b *HTTPConfigurationBuilder) UserAgent(userAgent string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.userAgent = userAgent
	}
	return b
}

// CreateHTTPConfiguration is called internally by the client.
func (b *HTTPConfigurationBuilder) CreateHTTPConfiguration() (interfaces.HTTPConfiguration, error) {
	if !b.checkValid() {
		defaults := HTTPConfigurationBuilder{}
		return defaults.CreateHTTPConfiguration()
	}
	if b.caCertErr != nil {
		return interfaces.HTTPConfiguration{}, b.caCertErr
	}

	headers := make(http.Header)
	headers.Set("User-Agent", "PagebeaconGoClient/"+internal.ClientVersion)
	if b.userAgent != "" {
		headers.Set("User-Agent", headers.Get("User-Agent")+" "+b.userAgent)
	}
	for name, values := range b.headers {
		headers[name] = values
	}

	transportOpts := b.httpOptions
	if b.proxyURL != "" {
		u, err := url.Parse(b.proxyURL)
		if err != nil {
			return interfaces.HTTPConfiguration{}, err
		}
		if u.Scheme == "" || u.Host == "" {
			return interfaces.HTTPConfiguration{}, errors.New("proxy URL must be absolute")
		}
		transportOpts = append(transportOpts, pbhttp.ProxyOption(*u))
	}
	connectTimeout := b.connectTimeout
	transportOpts = append(transportOpts, pbhttp.ConnectTimeoutOption(connectTimeout))

	clientFactory := b.httpClientFactory
	if clientFactory == nil {
		clientFactory = func() *http.Client {
			client := *http.DefaultClient
			client.Timeout = connectTimeout
			if transport, _, err := pbhttp.NewHTTPTransport(transportOpts...); err == nil {
				client.Transport = transport
			}
			return &client
		}
	}

	return interfaces.HTTPConfiguration{
		DefaultHeaders:   headers,
		CreateHTTPClient: clientFactory,
	}, nil
}
