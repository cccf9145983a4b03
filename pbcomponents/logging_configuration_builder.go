package pbcomponents

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/pagebeacon/go-client/interfaces"
)

// LoggingConfigurationBuilder contains methods for configuring the client's logging behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// pbcomponents.Logging(), change its properties with the LoggingConfigurationBuilder methods, and
// store it in Config.Logging:
//
//	config := pagebeacon.Config{
//	    Logging: pbcomponents.Logging().MinLevel(ldlog.Warn),
//	}
type LoggingConfigurationBuilder struct {
	config interfaces.LoggingConfiguration
}

// Logging returns a configuration builder for the client's logging configuration.
//
// The default configuration has logging enabled with default settings.
func Logging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{
		config: interfaces.LoggingConfiguration{Loggers: ldlog.NewDefaultLoggers()},
	}
}

// LogEventPayloads sets whether the client should log every serialized event at Debug level just
// before handing it to a transport. The default is false.
func (b *LoggingConfigurationBuilder) LogEventPayloads(logEventPayloads bool) *LoggingConfigurationBuilder {
	b.config.LogEventPayloads = logEventPayloads
	return b
}

// Loggers specifies an instance of ldlog.Loggers to use for client logging. The ldlog package contains
// methods for customizing the destination and level filtering of log output.
func (b *LoggingConfigurationBuilder) Loggers(loggers ldlog.Loggers) *LoggingConfigurationBuilder {
	b.config.Loggers = loggers
	return b
}

// MinLevel specifies the minimum level for log output, where ldlog.Debug is the lowest and ldlog.Error
// is the highest. Log messages at a level lower than this will be suppressed. The default is
// ldlog.Info.
//
// This is equivalent to creating an ldlog.Loggers instance, calling SetMinLevel() on it, and then
// passing it to LoggingConfigurationBuilder.Loggers().
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	b.config.Loggers.SetMinLevel(level)
	return b
}

// CreateLoggingConfiguration is called internally by the client.
func (b *LoggingConfigurationBuilder) CreateLoggingConfiguration() interfaces.LoggingConfiguration {
	return b.config
}

// NoLogging returns a configuration object that disables logging.
//
//	config := pagebeacon.Config{
//	    Logging: pbcomponents.NoLogging(),
//	}
func NoLogging() interfaces.LoggingConfigurationFactory {
	return noLoggingConfigurationFactory{}
}

type noLoggingConfigurationFactory struct{}

func (f noLoggingConfigurationFactory) CreateLoggingConfiguration() interfaces.LoggingConfiguration {
	return interfaces.LoggingConfiguration{Loggers: ldlog.NewDisabledLoggers()}
}
