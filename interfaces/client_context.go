package interfaces

// ClientContext provides configuration information from the Client when creating other components.
//
// This is passed as a parameter to the factory methods for transports. All of its values are
// computed once when the client starts and never change afterward.
type ClientContext interface {
	// GetPage returns the static per-session page context.
	GetPage() PageContext
	// GetServiceEndpoints returns any custom endpoint URIs from the client configuration.
	GetServiceEndpoints() ServiceEndpoints
	// GetHTTP returns the configured HTTPConfiguration.
	GetHTTP() HTTPConfiguration
	// GetLogging returns the configured LoggingConfiguration.
	GetLogging() LoggingConfiguration
}
