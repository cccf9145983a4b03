// Package pbevents defines the event model reported by the pagebeacon client, its wire encoding,
// and the ordered buffer that holds events produced before a transport has been committed.
//
// Application code normally only needs NewEvent (or none of this package at all, since
// Client.Report builds events itself). Custom transport implementations use SerializeEvent to
// produce the standard payload:
//
//	{"action":"click","vars":{"x":1}}
package pbevents
