package endpoints

import (
	"fmt"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/pagecontext"
)

var testPage = pagecontext.Build("https://www.example.com/products/1", "")

func TestPageOriginSelectedIfNoCustomURISpecified(t *testing.T) {
	logger := ldlogtest.NewMockLog()
	endpoints := interfaces.ServiceEndpoints{}
	for _, service := range []ServiceType{StreamingService, SubmitService} {
		uri, err := SelectBaseURI(endpoints, service, "", testPage, logger.Loggers)
		require.NoError(t, err)
		assert.Equal(t, "https://www.example.com", uri)
	}
	assert.Empty(t, logger.GetOutput(ldlog.Error))
}

func TestSelectCustomURIs(t *testing.T) {
	logger := ldlogtest.NewMockLog()
	const customURI = "http://custom_uri"

	cases := []struct {
		endpoints interfaces.ServiceEndpoints
		service   ServiceType
	}{
		{interfaces.ServiceEndpoints{Streaming: customURI}, StreamingService},
		{interfaces.ServiceEndpoints{Submit: customURI + "/"}, SubmitService},
	}

	for _, c := range cases {
		uri, err := SelectBaseURI(c.endpoints, c.service, "", testPage, logger.Loggers)
		require.NoError(t, err)
		assert.Equal(t, customURI, uri)
	}

	assert.Empty(t, logger.GetOutput(ldlog.Error))
}

func TestOverrideValueTakesPrecedence(t *testing.T) {
	logger := ldlogtest.NewMockLog()
	endpoints := interfaces.ServiceEndpoints{Streaming: "http://a", Submit: "http://b"}
	uri, err := SelectBaseURI(endpoints, SubmitService, "http://override/", testPage, logger.Loggers)
	require.NoError(t, err)
	assert.Equal(t, "http://override", uri)
}

func TestLogErrorIfOneButNotAllCustomURISpecified(t *testing.T) {
	cases := []struct {
		endpoints interfaces.ServiceEndpoints
		service   ServiceType
	}{
		{interfaces.ServiceEndpoints{Streaming: "http://custom"}, SubmitService},
		{interfaces.ServiceEndpoints{Submit: "http://custom"}, StreamingService},
	}
	for _, c := range cases {
		logger := ldlogtest.NewMockLog()
		uri, err := SelectBaseURI(c.endpoints, c.service, "", testPage, logger.Loggers)
		require.NoError(t, err)
		assert.Equal(t, "https://www.example.com", uri)
		logger.AssertMessageMatch(t, true, ldlog.Error,
			fmt.Sprintf("You have set custom ServiceEndpoints without specifying the %s base URI", c.service))
	}
}

func TestNoBaseURIWithoutPageOriginOrCustomURI(t *testing.T) {
	logger := ldlogtest.NewMockLog()
	_, err := SelectBaseURI(interfaces.ServiceEndpoints{}, SubmitService, "", pagecontext.Build("about:blank", ""),
		logger.Loggers)
	assert.Error(t, err)
}

func TestStreamingBaseURI(t *testing.T) {
	cases := []struct {
		base     string
		secure   ldvalue.OptionalBool
		expected string
	}{
		{"https://example.com", ldvalue.OptionalBool{}, "wss://example.com"},
		{"http://localhost:5050", ldvalue.OptionalBool{}, "ws://localhost:5050"},
		{"ws://example.com/base", ldvalue.OptionalBool{}, "ws://example.com/base"},
		{"http://example.com", ldvalue.NewOptionalBool(true), "wss://example.com"},
		{"wss://example.com", ldvalue.NewOptionalBool(false), "ws://example.com"},
	}
	for _, c := range cases {
		t.Run(c.base, func(t *testing.T) {
			uri, err := StreamingBaseURI(c.base, c.secure)
			require.NoError(t, err)
			assert.Equal(t, c.expected, uri)
		})
	}

	_, err := StreamingBaseURI("ftp://example.com", ldvalue.OptionalBool{})
	assert.Error(t, err)
}

func TestAddPathAndQuery(t *testing.T) {
	assert.Equal(t, "http://a/events/submit", AddPath("http://a/", SubmitRequestPath))
	assert.Equal(t, "http://a/events/stream", AddPath("http://a", "events/stream"))
	assert.Equal(t, "http://a/events/submit?url=x&referer=", AddQuery("http://a/events/submit",
		interfaces.PageContext{RawQuery: "url=x&referer="}))
	assert.Equal(t, "http://a", AddQuery("http://a", interfaces.PageContext{}))
}
