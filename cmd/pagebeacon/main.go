// Command pagebeacon exercises a collector deployment from the command line.
//
// The report command acts as a page: it opens a client session, reports the given actions, and keeps
// the session alive (sending pings) for a while. The collect command runs a local collector that prints
// every event it receives.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"gopkg.in/alecthomas/kingpin.v2"

	pagebeacon "github.com/pagebeacon/go-client"
	"github.com/pagebeacon/go-client/pbcomponents"
	"github.com/pagebeacon/go-client/pbfileconfig"
	"github.com/pagebeacon/go-client/testhelpers/pbservices"
)

var (
	app     = kingpin.New("pagebeacon", "Reports page events to a collector, or runs a local collector.")
	verbose = app.Flag("verbose", "Enable debug logging.").Short('v').Bool()

	reportCmd      = app.Command("report", "Report events as a page would.")
	reportLocation = reportCmd.Flag("location", "URL of the reporting page.").Required().String()
	reportReferrer = reportCmd.Flag("referrer", "URL of the referring page.").String()
	reportConfig   = reportCmd.Flag("config", "YAML or JSON settings file.").Envar("PAGEBEACON_CONFIG").ExistingFile()
	reportCollect  = reportCmd.Flag("collector", "Base URI of the collector.").Envar("PAGEBEACON_COLLECTOR").String()
	reportWait     = reportCmd.Flag("wait", "How long to wait for a transport before reporting.").Default("5s").Duration()
	reportDuration = reportCmd.Flag("duration", "How long to keep the session open.").Default("0s").Duration()
	reportVars     = reportCmd.Flag("var", "Variable to attach to each action, as key=value.").StringMap()
	reportActions  = reportCmd.Arg("actions", "Actions to report after the initial view.").Strings()

	collectCmd      = app.Command("collect", "Run a collector that prints the events it receives.")
	collectAddr     = collectCmd.Flag("addr", "Address to listen on.").Envar("ADDR").Default(":5050").String()
	collectLiveness = collectCmd.Flag("liveness", "How long a page is live after its last event.").
			Default(pbservices.DefaultLivenessTTL.String()).Duration()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggers := ldlog.NewDefaultLoggers()
	if *verbose {
		loggers.SetMinLevel(ldlog.Debug)
	}

	var err error
	switch command {
	case reportCmd.FullCommand():
		err = report(loggers)
	case collectCmd.FullCommand():
		err = collect(loggers)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagebeacon: %s\n", err)
		os.Exit(1)
	}
}

func report(loggers ldlog.Loggers) error {
	var config pagebeacon.Config
	if *reportConfig != "" {
		var err error
		if config, err = pbfileconfig.LoadConfig(*reportConfig); err != nil {
			return err
		}
	}
	if *reportCollect != "" {
		config.ServiceEndpoints = pbcomponents.CollectorEndpoints(*reportCollect)
	}
	if config.Logging == nil || *verbose {
		config.Logging = pbcomponents.Logging().Loggers(loggers).LogEventPayloads(*verbose)
	}

	client, err := pagebeacon.MakeCustomClient(*reportLocation, *reportReferrer, config, *reportWait)
	if client == nil {
		return err
	}
	defer client.Close()
	if err != nil {
		loggers.Warnf("Continuing without a transport: %s", err)
	}

	vars := ldvalue.ValueMapBuild()
	for k, v := range *reportVars {
		vars.Set(k, ldvalue.String(v))
	}
	for _, action := range *reportActions {
		client.ReportWithVars(action, vars.Build())
	}

	if *reportDuration > 0 {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		select {
		case <-time.After(*reportDuration):
		case <-sigCh:
		}
	}

	status := client.GetTransportStatusProvider().GetStatus()
	fmt.Printf("# transport: %s\n", status.State)
	if status.LastError.Kind != "" {
		fmt.Printf("# last error: %s\n", status.LastError)
	}
	return nil
}

func collect(loggers ldlog.Loggers) error {
	collector := pbservices.NewCollector(pbservices.LivenessTTL(*collectLiveness))
	defer collector.Close()

	go func() {
		for e := range collector.Events {
			fmt.Printf("%s %-6s %s %s active=[%s]\n", time.Now().Format(time.RFC3339), e.Transport, e.PageURL,
				e.Event, strings.Join(collector.ActivePages(), " "))
		}
	}()

	loggers.Infof("Listening on %s", *collectAddr)
	return http.ListenAndServe(*collectAddr, collector) //nolint:gosec // local test collector
}
