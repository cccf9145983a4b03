package pagecontext

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryListsURLThenReferrer(t *testing.T) {
	pc := Build("https://example.com/a", "https://search.example/")
	assert.Equal(t, "url=https%3A%2F%2Fexample.com%2Fa&referer=https%3A%2F%2Fsearch.example%2F", pc.RawQuery)
	assert.Equal(t, "https://example.com/a", pc.LocationURL)
	assert.Equal(t, "https://search.example/", pc.Referrer)
}

func TestQueryEscapesReservedCharacters(t *testing.T) {
	location := "https://example.com/search?q=a b&page=2#top"
	pc := Build(location, "")

	values, err := url.ParseQuery(pc.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, location, values.Get(URLParam))
	assert.Equal(t, "", values.Get(ReferrerParam))
	assert.Len(t, values, 2)
}

func TestEmptyReferrerIsStillPresent(t *testing.T) {
	pc := Build("http://localhost:8080/", "")
	assert.Equal(t, "url=http%3A%2F%2Flocalhost%3A8080%2F&referer=", pc.RawQuery)
}

func TestOrigin(t *testing.T) {
	scheme, host, ok := Origin(Build("https://Example.com:8443/path?x=1", ""))
	assert.True(t, ok)
	assert.Equal(t, "https", scheme)
	assert.Equal(t, "Example.com:8443", host)

	for _, location := range []string{"", "/relative/path", "file:///tmp/page.html", "::bad"} {
		_, _, ok := Origin(Build(location, ""))
		assert.False(t, ok, location)
	}
}

func TestIsSecure(t *testing.T) {
	assert.True(t, IsSecure(Build("https://example.com/", "")))
	assert.False(t, IsSecure(Build("http://example.com/", "")))
	assert.False(t, IsSecure(Build("", "")))
}
