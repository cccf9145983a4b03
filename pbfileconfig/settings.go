package pbfileconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"gopkg.in/ghodss/yaml.v1"

	pagebeacon "github.com/pagebeacon/go-client"
	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/pbcomponents"
)

// Profile is a named set of defaults for a kind of deployment.
type Profile string

const (
	// ProfileProduction uses the secure stream and pings for the whole session.
	ProfileProduction Profile = "production"
	// ProfileDevelopment uses the plain stream and only pings once the fallback transport is in use.
	ProfileDevelopment Profile = "development"
)

// Settings is the content of a settings file.
type Settings struct {
	// Profile selects defaults for Secure and Delivery.PulseMode. Explicit values take precedence.
	Profile Profile `json:"profile"`
	// Offline turns off all delivery.
	Offline bool `json:"offline"`
	// Collector is the base URI of a collector serving both transports.
	Collector string `json:"collector"`
	// Secure forces wss or ws for the stream.
	Secure *bool `json:"secure"`

	Streaming StreamingSettings `json:"streaming"`
	Fallback  FallbackSettings  `json:"fallback"`
	Delivery  DeliverySettings  `json:"delivery"`
	HTTP      HTTPSettings      `json:"http"`
	Logging   LoggingSettings   `json:"logging"`
}

// StreamingSettings configures the WebSocket transport.
type StreamingSettings struct {
	Disabled     bool   `json:"disabled"`
	BaseURI      string `json:"baseURI"`
	WriteTimeout string `json:"writeTimeout"`
	Capacity     int    `json:"capacity"`
}

// FallbackSettings configures the submit transport.
type FallbackSettings struct {
	BaseURI  string `json:"baseURI"`
	Workers  int    `json:"workers"`
	Capacity int    `json:"capacity"`
}

// DeliverySettings configures transport negotiation and the liveness pulse. Durations use the syntax of
// time.ParseDuration, such as "5s".
type DeliverySettings struct {
	ConnectTimeout string `json:"connectTimeout"`
	PulseInterval  string `json:"pulseInterval"`
	PulseMode      string `json:"pulseMode"`
	Capacity       int    `json:"capacity"`
}

// HTTPSettings configures network connections.
type HTTPSettings struct {
	ConnectTimeout string            `json:"connectTimeout"`
	UserAgent      string            `json:"userAgent"`
	ProxyURL       string            `json:"proxyURL"`
	CACertFile     string            `json:"caCertFile"`
	Headers        map[string]string `json:"headers"`
}

// LoggingSettings configures log output.
type LoggingSettings struct {
	Level            string `json:"level"`
	LogEventPayloads bool   `json:"logEventPayloads"`
}

// LoadConfig reads a settings file and converts it into a client configuration.
func LoadConfig(path string) (pagebeacon.Config, error) {
	settings, err := LoadSettings(path)
	if err != nil {
		return pagebeacon.Config{}, err
	}
	return settings.Config()
}

// LoadSettings reads a settings file.
func LoadSettings(path string) (Settings, error) {
	rawData, err := os.ReadFile(path) // nolint:gosec // G304: ok to read file into variable
	if err != nil {
		return Settings{}, fmt.Errorf("unable to read file: %s", err)
	}
	return ParseSettings(rawData)
}

// ParseSettings parses the content of a settings file, which may be YAML or JSON.
func ParseSettings(rawData []byte) (Settings, error) {
	var settings Settings
	var err error
	if detectJSON(rawData) {
		err = json.Unmarshal(rawData, &settings)
	} else {
		err = yaml.Unmarshal(rawData, &settings)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("error parsing file: %s", err)
	}
	return settings, nil
}

func detectJSON(rawData []byte) bool {
	// A valid JSON file for our purposes must be an object, i.e. it must start with '{'
	return strings.HasPrefix(strings.TrimLeftFunc(string(rawData), unicode.IsSpace), "{")
}

// Config converts the settings into a client configuration.
func (s Settings) Config() (pagebeacon.Config, error) {
	config := pagebeacon.Config{Offline: s.Offline}

	var secure *bool
	pulseMode := interfaces.PulseAlways
	switch s.Profile {
	case "":
	case ProfileProduction:
		secure = boolPtr(true)
	case ProfileDevelopment:
		secure = boolPtr(false)
		pulseMode = interfaces.PulseFallbackOnly
	default:
		return config, fmt.Errorf("unknown profile %q", s.Profile)
	}
	if s.Secure != nil {
		secure = s.Secure
	}

	if s.Collector != "" {
		config.ServiceEndpoints = pbcomponents.CollectorEndpoints(s.Collector)
	}

	if s.Streaming.Disabled {
		config.Streaming = pbcomponents.NoStreaming()
	} else {
		streaming := pbcomponents.StreamingTransport().
			BaseURI(s.Streaming.BaseURI).
			Capacity(s.Streaming.Capacity)
		if secure != nil {
			streaming.Secure(*secure)
		}
		writeTimeout, err := parseDuration("streaming.writeTimeout", s.Streaming.WriteTimeout)
		if err != nil {
			return config, err
		}
		streaming.WriteTimeout(writeTimeout)
		config.Streaming = streaming
	}

	config.Fallback = pbcomponents.FallbackTransport().
		BaseURI(s.Fallback.BaseURI).
		Workers(s.Fallback.Workers).
		Capacity(s.Fallback.Capacity)

	delivery := pbcomponents.Delivery().Capacity(s.Delivery.Capacity)
	if s.Delivery.PulseMode != "" {
		mode, err := parsePulseMode(s.Delivery.PulseMode)
		if err != nil {
			return config, err
		}
		pulseMode = mode
	}
	delivery.PulseMode(pulseMode)
	connectTimeout, err := parseDuration("delivery.connectTimeout", s.Delivery.ConnectTimeout)
	if err != nil {
		return config, err
	}
	delivery.ConnectTimeout(connectTimeout)
	pulseInterval, err := parseDuration("delivery.pulseInterval", s.Delivery.PulseInterval)
	if err != nil {
		return config, err
	}
	delivery.PulseInterval(pulseInterval)
	config.Delivery = delivery

	http := pbcomponents.HTTPConfiguration()
	httpConnectTimeout, err := parseDuration("http.connectTimeout", s.HTTP.ConnectTimeout)
	if err != nil {
		return config, err
	}
	http.ConnectTimeout(httpConnectTimeout)
	if s.HTTP.UserAgent != "" {
		http.UserAgent(s.HTTP.UserAgent)
	}
	if s.HTTP.ProxyURL != "" {
		http.ProxyURL(s.HTTP.ProxyURL)
	}
	if s.HTTP.CACertFile != "" {
		http.CACertFile(s.HTTP.CACertFile)
	}
	for name, value := range s.HTTP.Headers {
		http.Header(name, value)
	}
	config.HTTP = http

	logging := pbcomponents.Logging().LogEventPayloads(s.Logging.LogEventPayloads)
	if s.Logging.Level != "" {
		level, err := parseLogLevel(s.Logging.Level)
		if err != nil {
			return config, err
		}
		logging.MinLevel(level)
	}
	config.Logging = logging

	return config, nil
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", name)
	}
	return d, nil
}

func parsePulseMode(value string) (interfaces.PulseMode, error) {
	for _, mode := range []interfaces.PulseMode{interfaces.PulseAlways, interfaces.PulseFallbackOnly} {
		if strings.EqualFold(value, mode.String()) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown pulse mode %q", value)
}

var errUnknownLogLevel = errors.New("unknown log level")

func parseLogLevel(value string) (ldlog.LogLevel, error) {
	switch strings.ToLower(value) {
	case "debug":
		return ldlog.Debug, nil
	case "info":
		return ldlog.Info, nil
	case "warn":
		return ldlog.Warn, nil
	case "error":
		return ldlog.Error, nil
	case "none":
		return ldlog.None, nil
	default:
		return 0, fmt.Errorf("%w %q", errUnknownLogLevel, value)
	}
}

func boolPtr(b bool) *bool { return &b }
