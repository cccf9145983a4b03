// Package internal contains client implementation details that are shared between packages,
// but are not exposed to application code. The delivery and transport subpackages contain
// the transport negotiation and the transports themselves.
package internal
