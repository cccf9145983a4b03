// Package transport contains the internal implementations of the two event transports: the
// WebSocket stream and the request-per-event submit fallback.
package transport
