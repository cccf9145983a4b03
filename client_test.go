package pagebeacon

import (
	"errors"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	th "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/sharedtest"
	"github.com/pagebeacon/go-client/pbcomponents"
	"github.com/pagebeacon/go-client/testhelpers/pbservices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeCustomClientReturnsTimeoutErrorIfNoTransportIsChosen(t *testing.T) {
	withCollector(t, func(p clientTestParams) {
		config := p.config()
		config.Delivery = pbcomponents.Delivery().ConnectTimeout(time.Hour).PulseInterval(time.Hour)
		client, err := MakeCustomClient(testPageURL, testReferrer, config, 50*time.Millisecond)
		require.NotNil(t, client)
		defer client.Close()
		assert.Equal(t, ErrInitializationTimeout, err)
		assert.Equal(t, interfaces.TransportStateBuffering, client.GetTransportStatusProvider().GetStatus().State)

		client.Report("click")
		th.AssertNoMoreValues(t, p.collector.Events, 50*time.Millisecond)
	}, pbservices.StallStreaming())
}

func TestMakeCustomClientWithoutWaitingReturnsImmediately(t *testing.T) {
	withCollector(t, func(p clientTestParams) {
		config := p.config()
		config.Delivery = pbcomponents.Delivery().ConnectTimeout(time.Hour).PulseInterval(time.Hour)
		client, err := MakeCustomClient(testPageURL, testReferrer, config, 0)
		require.NoError(t, err)
		defer client.Close()
		assert.Equal(t, interfaces.TransportStateBuffering, client.GetTransportStatusProvider().GetStatus().State)
	}, pbservices.StallStreaming())
}

func TestMakeCustomClientFailsWithInvalidHTTPConfiguration(t *testing.T) {
	config := Config{
		HTTP:    pbcomponents.HTTPConfiguration().CACertFile("/does/not/exist"),
		Logging: pbcomponents.NoLogging(),
	}
	client, err := MakeCustomClient(testPageURL, "", config, 0)
	assert.Nil(t, client)
	assert.True(t, errors.Is(err, ErrInitializationFailed))
}

func TestMakeCustomClientFailsWithoutUsableCollectorURI(t *testing.T) {
	config := Config{Logging: pbcomponents.NoLogging()}
	client, err := MakeCustomClient("about:blank", "", config, 0)
	assert.Nil(t, client)
	assert.True(t, errors.Is(err, ErrInitializationFailed))
}

func TestOfflineClientDropsEvents(t *testing.T) {
	withCollector(t, func(p clientTestParams) {
		config := p.config()
		config.Offline = true
		client := p.makeClient(config, testWaitFor)

		assert.True(t, client.IsOffline())
		assert.Equal(t, interfaces.TransportStateClosed, client.GetTransportStatusProvider().GetStatus().State)

		client.Report("click")
		th.AssertNoMoreValues(t, p.collector.Events, 100*time.Millisecond)
		assert.Equal(t, 0, p.collector.OpenStreams())
	})
}

func TestMakeClientUsesPageOrigin(t *testing.T) {
	withCollector(t, func(p clientTestParams) {
		pageURL := p.server.URL + "/index.html"
		client, err := MakeClient(pageURL, "", testWaitFor)
		require.NoError(t, err)
		defer client.Close()

		e := th.RequireValue(t, p.collector.Events, time.Second)
		assert.Equal(t, pageURL, e.PageURL)
		assert.Equal(t, pbservices.TransportStream, e.Transport)
	})
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	client.Report("click")
	client.ReportWithVars("click", ldvalue.ValueMap{})
	assert.False(t, client.IsOffline())
	assert.NotNil(t, client.GetTransportStatusProvider())
	assert.NoError(t, client.Close())
}

func TestCloseIsIdempotent(t *testing.T) {
	client, err := MakeCustomClient(testPageURL, "", Config{
		Logging:   pbcomponents.Logging().Loggers(sharedtest.NewTestLoggers()),
		Streaming: pbcomponents.NoStreaming(),
		Fallback:  pbcomponents.FallbackTransport().BaseURI("http://localhost:1"),
		Delivery:  pbcomponents.Delivery().PulseInterval(time.Hour),
	}, 0)
	require.NoError(t, err)
	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close())
}
