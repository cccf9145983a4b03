package pbntlm

import (
	"crypto/x509"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	th "github.com/launchdarkly/go-test-helpers/v3"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	pagebeacon "github.com/pagebeacon/go-client"
	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/pbcomponents"
	"github.com/pagebeacon/go-client/pbevents"
	"github.com/pagebeacon/go-client/pbhttp"
	"github.com/pagebeacon/go-client/testhelpers/pbservices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	username      = "username"
	password      = "password"
	domain        = "domain"
	collectorURL  = "http://collector.example.com"
	collectorHost = "collector.example.com:80"

	// These NTLM messages only have to be well-formed and arrive in the right order; their exact
	// content depends on the clock and on the server implementation.
	negotiateMessage    = "NTLM TlRMTVNTUAABAAAAAZKIoAYABgAoAAAAAAAAAC4AAAAGAbEdAAAAD0RPTUFJTg=="
	challengeMessage    = "NTLM TlRMTVNTUAACAAAADAAMADAAAAA1gomgZ38cVXpe6WwAAAAAAAAAAEYARgA8AAAAVABFAFMAVABOAFQAAgAMAFQARQBTAFQATgBUAAEADABNAEUATQBCAEUAUgADAB4AbQBlAG0AYgBlAHIALgB0AGUAcwB0AC4AYwBvAG0AAAAAAA=="
	authenticatePattern = "NTLM TlRMTVNTUAADAAAAAAAAAEAAAAB2AHYAQAAAAAwADAC2AAAAEAAQAMIAAAAUABQA0gAAAAAAAAAAAAAANYK.*AAAAAAgAMAFQARQBTAFQATgBUAAEADABNAEUATQBCAEUAUgADAB4AbQBlAG0AYgBlAHIALgB0AGUAcwB0AC4AYwBvAG0AAAAAAAAAAABUAEUAUwBUAE4AVAB1AHMAZQByAG4AYQBtAGUAZwBvAC0AbgB0AGwAbQBzAHMAcAA="
)

var authenticateRegex = regexp.MustCompile(authenticatePattern)

// fakeNTLMProxy performs a minimal NTLM handshake on CONNECT and then serves the tunnelled
// requests with the target handler, as if the tunnel led to it:
//  1. CONNECT with a negotiate message gets a 407 with the challenge.
//  2. CONNECT with an authenticate message gets a 200.
//  3. Everything after that is handed to the target.
type fakeNTLMProxy struct {
	target        http.Handler
	authenticated bool
	failures      []string
	lock          sync.Mutex
}

func (p *fakeNTLMProxy) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	p.lock.Lock()
	authenticated := p.authenticated
	if !authenticated && req.Method == http.MethodConnect && req.RequestURI == collectorHost {
		proxyAuth := req.Header.Get("Proxy-Authorization")
		switch {
		case proxyAuth == negotiateMessage:
			w.Header().Set("Proxy-Authenticate", challengeMessage)
			w.WriteHeader(http.StatusProxyAuthRequired)
		case authenticateRegex.MatchString(proxyAuth):
			p.authenticated = true
			w.WriteHeader(http.StatusOK)
		default:
			p.failures = append(p.failures, "unexpected Proxy-Authorization: "+proxyAuth)
			w.WriteHeader(http.StatusUnauthorized)
		}
		p.lock.Unlock()
		return
	}
	p.lock.Unlock()
	if !authenticated {
		p.lock.Lock()
		p.failures = append(p.failures, "unexpected "+req.Method+" "+req.RequestURI+" before authentication")
		p.lock.Unlock()
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p.target.ServeHTTP(w, req)
}

func (p *fakeNTLMProxy) getFailures() []string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]string(nil), p.failures...)
}

func TestClientSubmitsEventsThroughNTLMProxy(t *testing.T) {
	collector := pbservices.NewCollector()
	defer collector.Close()
	proxy := &fakeNTLMProxy{target: collector}
	mockLog := ldlogtest.NewMockLog()
	defer mockLog.DumpIfTestFailed(t)

	httphelpers.WithServer(proxy, func(server *httptest.Server) {
		factory, err := NewNTLMProxyHTTPClientFactory(server.URL, username, password, domain)
		require.NoError(t, err)

		config := pagebeacon.Config{
			HTTP:      pbcomponents.HTTPConfiguration().HTTPClientFactory(factory),
			Fallback:  pbcomponents.FallbackTransport().Workers(1),
			Streaming: pbcomponents.NoStreaming(),
			Delivery:  pbcomponents.Delivery().PulseMode(interfaces.PulseFallbackOnly).PulseInterval(time.Hour),
			Logging:   pbcomponents.Logging().Loggers(mockLog.Loggers),
		}
		client, err := pagebeacon.MakeCustomClient(collectorURL+"/articles/1", "", config, time.Second)
		require.NoError(t, err)
		defer client.Close()

		var actions []string
		for i := 0; i < 2; i++ {
			e := th.RequireValue(t, collector.Events, 2*time.Second)
			assert.Equal(t, pbservices.TransportSubmit, e.Transport)
			assert.Equal(t, collectorURL+"/articles/1", e.PageURL)
			actions = append(actions, e.Event.Action)
		}
		assert.ElementsMatch(t, []string{pbevents.ViewAction, pbevents.PingAction}, actions)
		assert.Empty(t, proxy.getFailures())
	})
}

func TestNTLMProxyWithSelfSignedCert(t *testing.T) {
	proxy := &fakeNTLMProxy{target: httphelpers.HandlerWithResponse(http.StatusAccepted, nil, []byte("ok"))}
	httphelpers.WithSelfSignedServer(proxy, func(server *httptest.Server, certData []byte, certs *x509.CertPool) {
		factory, err := NewNTLMProxyHTTPClientFactory(server.URL, username, password, domain,
			pbhttp.CACertOption(certData))
		require.NoError(t, err)

		resp, err := factory().Post(collectorURL+pbservices.SubmitPath, "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Empty(t, proxy.getFailures())
	})
}

func TestNTLMProxyHTTPClientFactoryRejectsInvalidParameters(t *testing.T) {
	for _, params := range []struct {
		name                string
		proxyURL, user, pwd string
		options             []pbhttp.TransportOption
	}{
		{"no proxy URL", "", "user", "pass", nil},
		{"no username", "http://proxy", "", "pass", nil},
		{"no password", "http://proxy", "user", "", nil},
		{"malformed proxy URL", "://bad", "user", "pass", nil},
		{"bad CA cert", "http://proxy", "user", "pass", []pbhttp.TransportOption{pbhttp.CACertOption([]byte("not a cert"))}},
	} {
		t.Run(params.name, func(t *testing.T) {
			factory, err := NewNTLMProxyHTTPClientFactory(params.proxyURL, params.user, params.pwd, domain,
				params.options...)
			assert.Error(t, err)
			assert.Nil(t, factory)
		})
	}
}
