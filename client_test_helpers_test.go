package pagebeacon

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/pagebeacon/go-client/pbcomponents"
	"github.com/pagebeacon/go-client/testhelpers/pbservices"

	"github.com/stretchr/testify/require"
)

const (
	testPageURL  = "https://www.example.com/articles/1"
	testReferrer = "https://search.example/"
	testWaitFor  = 5 * time.Second
)

type clientTestParams struct {
	t         *testing.T
	collector *pbservices.Collector
	server    *httptest.Server
	mockLog   *ldlogtest.MockLog
}

func (p clientTestParams) config() Config {
	return Config{
		ServiceEndpoints: pbcomponents.CollectorEndpoints(p.server.URL),
		Logging:          pbcomponents.Logging().Loggers(p.mockLog.Loggers),
		Delivery:         pbcomponents.Delivery().PulseInterval(time.Hour),
	}
}

func (p clientTestParams) makeClient(config Config, waitFor time.Duration) *Client {
	client, err := MakeCustomClient(testPageURL, testReferrer, config, waitFor)
	require.NoError(p.t, err)
	p.t.Cleanup(func() { _ = client.Close() })
	return client
}

func (p clientTestParams) requireEvents(count int) []pbservices.ReceivedEvent {
	ret := make([]pbservices.ReceivedEvent, 0, count)
	for i := 0; i < count; i++ {
		select {
		case e := <-p.collector.Events:
			ret = append(ret, e)
		case <-time.After(2 * time.Second):
			require.Failf(p.t, "timed out", "received %d of %d events", i, count)
		}
	}
	return ret
}

func withCollector(t *testing.T, action func(clientTestParams), options ...pbservices.CollectorOption) {
	collector := pbservices.NewCollector(options...)
	mockLog := ldlogtest.NewMockLog()
	defer mockLog.DumpIfTestFailed(t)
	httphelpers.WithServer(collector, func(server *httptest.Server) {
		defer collector.Close()
		action(clientTestParams{t: t, collector: collector, server: server, mockLog: mockLog})
	})
}

func actionsOf(events []pbservices.ReceivedEvent) []string {
	ret := make([]string, 0, len(events))
	for _, e := range events {
		ret = append(ret, e.Event.Action)
	}
	return ret
}
