// Package testhelpers contains types and functions that may be useful in testing pagebeacon
// functionality or custom transports.
//
// It contains one subpackage: pbservices, which provides a fake collector that accepts both the
// streaming and the fallback transport over real HTTP.
//
// The APIs in this package and its subpackages are supported as part of the client.
package testhelpers

// Implementation note: the types and functions in this package are mainly meant for external use, but may
// be useful in client tests. Anything that is *only* for client tests should be in internal/sharedtest
// instead. Avoid putting anything here that depends on any packages other than interfaces and
// pbcomponents, since then it might not be possible to use it in other areas of the client without
// causing a cyclic reference.
