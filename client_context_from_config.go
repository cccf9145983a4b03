package pagebeacon

import (
	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal"
	"github.com/pagebeacon/go-client/pbcomponents"
)

func newClientContextFromConfig(
	page interfaces.PageContext,
	config Config,
) (*internal.ClientContextImpl, error) {
	httpFactory := config.HTTP
	if httpFactory == nil {
		httpFactory = pbcomponents.HTTPConfiguration()
	}
	http, err := httpFactory.CreateHTTPConfiguration()
	if err != nil {
		return nil, err
	}

	loggingFactory := config.Logging
	if loggingFactory == nil {
		loggingFactory = pbcomponents.Logging()
	}
	logging := loggingFactory.CreateLoggingConfiguration()

	return &internal.ClientContextImpl{
		Page:             page,
		ServiceEndpoints: config.ServiceEndpoints,
		HTTP:             http,
		Logging:          logging,
	}, nil
}
