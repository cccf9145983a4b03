package interfaces

// PageContext is the static, per-session description of the page that is reporting events.
//
// It is computed once at startup and attached, as query parameters, to every transport attempt.
type PageContext struct {
	// LocationURL is the full URL of the reporting page.
	LocationURL string
	// Referrer is the URL of the page that linked to LocationURL, or "" if there was none.
	Referrer string
	// RawQuery is the encoded query string "url=...&referer=..." derived from the two fields above.
	RawQuery string
}
