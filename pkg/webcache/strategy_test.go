package webcache

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func classify(t *testing.T, url string, header http.Header) Strategy {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, url, nil)
	for k, v := range header {
		r.Header[k] = v
	}
	c := NewClassifier("supabase")
	return c.Classify(r)
}

func TestStaticAssetsAreCacheFirst(t *testing.T) {
	for _, url := range []string{
		"https://shop.example/app.js",
		"https://shop.example/styles/main.css",
		"https://shop.example/icon.PNG",
		"https://shop.example/hero.webp",
		"https://shop.example/favicon.ico",
	} {
		assert.Equal(t, CacheFirst, classify(t, url, nil), url)
	}
}

func TestAPIHostIsNetworkFirst(t *testing.T) {
	assert.Equal(t, NetworkFirst, classify(t, "https://xyz.supabase.co/rest/v1/fabric_items", nil))
	assert.Equal(t, NetworkFirst, classify(t, "https://shop.example/api/items", nil))
}

func TestStorageUnderAPIHostIsStaleWhileRevalidate(t *testing.T) {
	// Object storage on the API domain is deliberately treated as
	// cacheable media even though the general API rule also matches.
	got := classify(t, "https://xyz.supabase.co/storage/v1/object/fabric-images/a", nil)
	assert.Equal(t, StaleWhileRevalidate, got)
}

func TestHTMLAndFallbackAreNetworkFirst(t *testing.T) {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml")
	assert.Equal(t, NetworkFirst, classify(t, "https://shop.example/collection", h))
	assert.Equal(t, NetworkFirst, classify(t, "https://shop.example/anything", nil))
}

func TestStaticExtensionBeatsAPIHost(t *testing.T) {
	// rule 1 wins over everything that follows
	assert.Equal(t, CacheFirst, classify(t, "https://xyz.supabase.co/storage/v1/object/fabric-images/a.jpg", nil))
}
