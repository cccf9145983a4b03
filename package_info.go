// Package pagebeacon is the main package for the pagebeacon event-reporting client.
//
// This package contains the client type ([Client]) and its overall configuration ([Config]). A client
// represents one reporting session for one page: it reports a "view" event when it starts, a "ping"
// event at a regular interval, and any actions the application reports with [Client.Report].
//
// Events are delivered over a WebSocket stream if one can be opened within a short timeout, and
// otherwise with one HTTP POST request per event. Events reported before either transport is ready
// are kept in order and sent as soon as the client has chosen one.
//
// Most applications that need to change any configuration settings will use the package
// [github.com/pagebeacon/go-client/pbcomponents].
package pagebeacon

import "github.com/pagebeacon/go-client/internal"

// Version is the client version.
const Version = internal.ClientVersion
