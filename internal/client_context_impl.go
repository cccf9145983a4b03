package internal

import (
	"github.com/pagebeacon/go-client/interfaces"
)

// ClientContextImpl is the client's standard implementation of interfaces.ClientContext.
type ClientContextImpl struct {
	Page             interfaces.PageContext
	ServiceEndpoints interfaces.ServiceEndpoints
	HTTP             interfaces.HTTPConfiguration
	Logging          interfaces.LoggingConfiguration
}

var _ interfaces.ClientContext = (*ClientContextImpl)(nil)

func (c *ClientContextImpl) GetPage() interfaces.PageContext { //nolint:revive // standard method
	return c.Page
}

func (c *ClientContextImpl) GetServiceEndpoints() interfaces.ServiceEndpoints { //nolint:revive // standard method
	return c.ServiceEndpoints
}

func (c *ClientContextImpl) GetHTTP() interfaces.HTTPConfiguration { //nolint:revive // standard method
	return c.HTTP
}

func (c *ClientContextImpl) GetLogging() interfaces.LoggingConfiguration { //nolint:revive // standard method
	return c.Logging
}
