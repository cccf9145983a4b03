package sharedtest

import (
	"net/http"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/pagecontext"
)

// TestPageURL is the page location used by NewSimpleTestContext.
const TestPageURL = "http://test-page.example/index.html"

// TestContext is a basic implementation of interfaces.ClientContext for use in test code.
// We can't use internal.ClientContextImpl for this because of circular references.
type TestContext struct {
	Page             interfaces.PageContext
	ServiceEndpoints interfaces.ServiceEndpoints
	HTTP             interfaces.HTTPConfiguration
	Logging          interfaces.LoggingConfiguration
}

func (c TestContext) GetPage() interfaces.PageContext                 { return c.Page }             //nolint:revive
func (c TestContext) GetServiceEndpoints() interfaces.ServiceEndpoints { return c.ServiceEndpoints } //nolint:revive
func (c TestContext) GetHTTP() interfaces.HTTPConfiguration            { return c.HTTP }             //nolint:revive
func (c TestContext) GetLogging() interfaces.LoggingConfiguration      { return c.Logging }          //nolint:revive

// NewSimpleTestContext returns a TestContext for TestPageURL whose transports point at baseURI.
func NewSimpleTestContext(baseURI string) TestContext {
	return NewTestContext(
		pagecontext.Build(TestPageURL, ""),
		interfaces.ServiceEndpoints{Streaming: baseURI, Submit: baseURI},
		nil,
		nil,
	)
}

// NewTestContext returns a TestContext with the specified properties. If the HTTP configuration is
// omitted, the default http.Client is used; if logging is omitted, NewTestLoggers is used.
func NewTestContext(
	page interfaces.PageContext,
	endpoints interfaces.ServiceEndpoints,
	optHTTPConfig *interfaces.HTTPConfiguration,
	optLoggingConfig *interfaces.LoggingConfiguration,
) TestContext {
	ret := TestContext{Page: page, ServiceEndpoints: endpoints}
	if optHTTPConfig != nil {
		ret.HTTP = *optHTTPConfig
	} else {
		ret.HTTP = interfaces.HTTPConfiguration{
			DefaultHeaders:   make(http.Header),
			CreateHTTPClient: func() *http.Client { return &http.Client{} },
		}
	}
	if optLoggingConfig != nil {
		ret.Logging = *optLoggingConfig
	} else {
		ret.Logging = TestLoggingConfig()
	}
	return ret
}

// TestLoggingConfig returns a LoggingConfiguration corresponding to NewTestLoggers().
func TestLoggingConfig() interfaces.LoggingConfiguration {
	return interfaces.LoggingConfiguration{Loggers: NewTestLoggers()}
}
