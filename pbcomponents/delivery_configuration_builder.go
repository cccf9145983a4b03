package pbcomponents

import (
	"time"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/delivery"
)

const (
	// DefaultDeliveryConnectTimeout is the default value for DeliveryConfigurationBuilder.ConnectTimeout.
	DefaultDeliveryConnectTimeout = delivery.DefaultConnectTimeout
	// DefaultPulseInterval is the default value for DeliveryConfigurationBuilder.PulseInterval.
	DefaultPulseInterval = delivery.DefaultPulseInterval
	// DefaultDeliveryCapacity is the default value for DeliveryConfigurationBuilder.Capacity.
	DefaultDeliveryCapacity = delivery.DefaultCapacity
)

// DeliveryConfigurationBuilder contains methods for configuring how the client chooses a transport
// and when it sends liveness pings.
//
// If you want to set non-default values for any of these properties, create a builder with
// pbcomponents.Delivery(), change its properties with the DeliveryConfigurationBuilder methods, and
// store it in Config.Delivery:
//
//	config := pagebeacon.Config{
//	    Delivery: pbcomponents.Delivery().ConnectTimeout(2 * time.Second),
//	}
type DeliveryConfigurationBuilder struct {
	config interfaces.DeliveryConfiguration
}

// Delivery returns a configuration builder for transport negotiation and the liveness pulse.
func Delivery() *DeliveryConfigurationBuilder {
	return &DeliveryConfigurationBuilder{
		config: interfaces.DeliveryConfiguration{
			ConnectTimeout: DefaultDeliveryConnectTimeout,
			PulseInterval:  DefaultPulseInterval,
			PulseMode:      interfaces.PulseAlways,
			Capacity:       DefaultDeliveryCapacity,
		},
	}
}

// ConnectTimeout sets how long the client waits for the stream to open before it commits to the
// fallback transport. If the connection attempt fails outright, the client does not wait.
//
// The default value is DefaultDeliveryConnectTimeout.
func (b *DeliveryConfigurationBuilder) ConnectTimeout(connectTimeout time.Duration) *DeliveryConfigurationBuilder {
	if connectTimeout <= 0 {
		b.config.ConnectTimeout = DefaultDeliveryConnectTimeout
	} else {
		b.config.ConnectTimeout = connectTimeout
	}
	return b
}

// PulseInterval sets the time between "ping" events.
//
// The default value is DefaultPulseInterval.
func (b *DeliveryConfigurationBuilder) PulseInterval(pulseInterval time.Duration) *DeliveryConfigurationBuilder {
	if pulseInterval <= 0 {
		b.config.PulseInterval = DefaultPulseInterval
	} else {
		b.config.PulseInterval = pulseInterval
	}
	return b
}

// PulseMode sets whether pings are sent for the whole lifetime of the client (interfaces.PulseAlways,
// the default) or only once the fallback transport is in use (interfaces.PulseFallbackOnly).
func (b *DeliveryConfigurationBuilder) PulseMode(pulseMode interfaces.PulseMode) *DeliveryConfigurationBuilder {
	b.config.PulseMode = pulseMode
	return b
}

// Capacity sets the number of reported events that can be waiting to be dispatched. If Report is
// called faster than events can be dispatched, events beyond this limit are dropped.
//
// The default value is DefaultDeliveryCapacity.
func (b *DeliveryConfigurationBuilder) Capacity(capacity int) *DeliveryConfigurationBuilder {
	if capacity <= 0 {
		b.config.Capacity = DefaultDeliveryCapacity
	} else {
		b.config.Capacity = capacity
	}
	return b
}

// CreateDeliveryConfiguration is called internally by the client.
func (b *DeliveryConfigurationBuilder) CreateDeliveryConfiguration() interfaces.DeliveryConfiguration {
	return b.config
}
