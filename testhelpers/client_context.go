package testhelpers

import (
	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/pagecontext"
	"github.com/pagebeacon/go-client/pbcomponents"
)

// SimpleClientContext is a reference implementation of interfaces.ClientContext for test code.
//
// The client uses the ClientContext interface to pass its configuration to transports. SimpleClientContext
// may be useful for external code to test a custom transport factory.
type SimpleClientContext struct {
	page             interfaces.PageContext
	serviceEndpoints interfaces.ServiceEndpoints
	http             *interfaces.HTTPConfiguration
	logging          *interfaces.LoggingConfiguration
}

// NewSimpleClientContext creates a SimpleClientContext instance for the given page, with a standard
// HTTP configuration and a standard logging configuration.
func NewSimpleClientContext(location, referrer string) SimpleClientContext {
	return SimpleClientContext{page: pagecontext.Build(location, referrer)}
}

func (s SimpleClientContext) GetPage() interfaces.PageContext { //nolint:revive // standard method
	return s.page
}

func (s SimpleClientContext) GetServiceEndpoints() interfaces.ServiceEndpoints { //nolint:revive // standard method
	return s.serviceEndpoints
}

func (s SimpleClientContext) GetHTTP() interfaces.HTTPConfiguration { //nolint:revive // standard method
	if s.http != nil {
		return *s.http
	}
	c, _ := pbcomponents.HTTPConfiguration().CreateHTTPConfiguration()
	return c
}

func (s SimpleClientContext) GetLogging() interfaces.LoggingConfiguration { //nolint:revive // standard method
	if s.logging != nil {
		return *s.logging
	}
	return pbcomponents.Logging().CreateLoggingConfiguration()
}

// WithServiceEndpoints returns a new SimpleClientContext based on the original one, but with custom
// collector endpoints.
func (s SimpleClientContext) WithServiceEndpoints(serviceEndpoints interfaces.ServiceEndpoints) SimpleClientContext {
	ret := s
	ret.serviceEndpoints = serviceEndpoints
	return ret
}

// WithHTTP returns a new SimpleClientContext based on the original one, but adding the specified
// HTTP configuration. An invalid configuration is ignored.
func (s SimpleClientContext) WithHTTP(httpConfig interfaces.HTTPConfigurationFactory) SimpleClientContext {
	ret := s
	if c, err := httpConfig.CreateHTTPConfiguration(); err == nil {
		ret.http = &c
	}
	return ret
}

// WithLogging returns a new SimpleClientContext based on the original one, but adding the specified
// logging configuration.
func (s SimpleClientContext) WithLogging(loggingConfig interfaces.LoggingConfigurationFactory) SimpleClientContext {
	ret := s
	c := loggingConfig.CreateLoggingConfiguration()
	ret.logging = &c
	return ret
}
