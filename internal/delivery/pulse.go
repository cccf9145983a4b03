package delivery

import (
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/pagebeacon/go-client/pbevents"
)

// pulse reports a "ping" event when it starts and then once per interval until it is stopped.
type pulse struct {
	interval  time.Duration
	report    func(pbevents.Event)
	halt      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func newPulse(interval time.Duration, report func(pbevents.Event)) *pulse {
	return &pulse{interval: interval, report: report, halt: make(chan struct{})}
}

// start is idempotent, and has no effect after stop.
func (p *pulse) start() {
	p.startOnce.Do(func() {
		select {
		case <-p.halt:
			return
		default:
		}
		go p.run()
	})
}

func (p *pulse) stop() {
	p.stopOnce.Do(func() {
		close(p.halt)
	})
}

func (p *pulse) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	p.ping()
	for {
		select {
		case <-ticker.C:
			p.ping()
		case <-p.halt:
			return
		}
	}
}

func (p *pulse) ping() {
	p.report(pbevents.NewEvent(pbevents.PingAction, ldvalue.ValueMap{}))
}
