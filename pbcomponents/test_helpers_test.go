package pbcomponents

import (
	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/pagecontext"
	"github.com/pagebeacon/go-client/internal/sharedtest"
)

const testPageURL = "https://www.example.com/articles/1?x=y"

func basicClientContext() sharedtest.TestContext {
	return sharedtest.NewTestContext(pagecontext.Build(testPageURL, "https://search.example/"),
		interfaces.ServiceEndpoints{}, nil, nil)
}

func makeTestContextWithBaseURIs(uri string) sharedtest.TestContext {
	return sharedtest.NewTestContext(pagecontext.Build(testPageURL, "https://search.example/"),
		CollectorEndpoints(uri), nil, nil)
}
