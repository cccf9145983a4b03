// Package delivery decides which transport carries the client's events and routes every reported
// event to it.
//
// Events reported before a transport is chosen are buffered. The Negotiator races one streaming
// connection attempt against a timeout; whichever outcome comes first commits the client to
// streaming or to the fallback transport, and the buffer is drained through the winner in order.
package delivery
