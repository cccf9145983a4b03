// Package pbhttp provides helpers for making custom HTTP transports for the client.
//
// Applications will not normally need to use this package, since pbcomponents.HTTPConfiguration()
// already covers the common options. It is exported for cases such as pbntlm, which builds on the
// same transport settings.
package pbhttp
