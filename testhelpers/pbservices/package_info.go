// Package pbservices provides a fake collector that accepts events over both pagebeacon transports.
//
// This is mainly intended for use in the client's own tests, but could be useful in testing other
// applications that use the client if it is desirable to use real HTTP and a real WebSocket rather than
// other kinds of test fixtures.
package pbservices
