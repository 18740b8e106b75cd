package webcache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboundRequestTargetsOrigin(t *testing.T) {
	origin := &url.URL{Scheme: "https", Host: "xyz.supabase.co"}
	in := httptest.NewRequest(http.MethodGet, "/rest/v1/fabric_items?page=1", nil)
	require.NotEmpty(t, in.RequestURI, "server requests carry RequestURI")

	out := OutboundRequest(in, origin)
	assert.Empty(t, out.RequestURI)
	assert.Equal(t, "https://xyz.supabase.co/rest/v1/fabric_items?page=1", out.URL.String())
	assert.Equal(t, "xyz.supabase.co", out.Host)

	// the inbound request stays in server form
	assert.NotEmpty(t, in.RequestURI)
	assert.Empty(t, in.URL.Host)
}

func TestOutboundRequestFallsBackToRequestHost(t *testing.T) {
	in := httptest.NewRequest(http.MethodGet, "/styles.css", nil)
	in.Host = "gallery.local:8080"

	out := OutboundRequest(in, nil)
	assert.Empty(t, out.RequestURI)
	assert.Equal(t, "http://gallery.local:8080/styles.css", out.URL.String())
}

func TestOutboundRequestRestoresHostClassification(t *testing.T) {
	c := NewClassifier("supabase")
	media := httptest.NewRequest(http.MethodGet, "/storage/v1/object/fabric-images/saree", nil)

	// a path-only inbound URL has no hostname, so the host rules only
	// engage after the rewrite
	out := OutboundRequest(media, &url.URL{Scheme: "https", Host: "xyz.supabase.co"})
	assert.Equal(t, StaleWhileRevalidate, c.Classify(out))

	out = OutboundRequest(media, &url.URL{Scheme: "https", Host: "cdn.example"})
	assert.Equal(t, NetworkFirst, c.Classify(out))
}

// The worker behind a real client transport: server-form requests must
// be rewritten before HandleFetch or net/http rejects them outright.
func TestWorkerProxiesServerRequestsOverRealClient(t *testing.T) {
	var hits atomic.Int32
	originSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("asset for " + r.URL.Path))
	}))
	defer originSrv.Close()
	origin, err := url.Parse(originSrv.URL)
	require.NoError(t, err)

	w := &Worker{
		Version: "fabric-gallery-v2",
		Store:   NewMemoryStore(),
		Client:  http.DefaultClient,
		Rules:   NewClassifier(""),
	}

	fetch := func(path string) string {
		in := httptest.NewRequest(http.MethodGet, path, nil)
		res, err := w.HandleFetch(OutboundRequest(in, origin))
		require.NoError(t, err)
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		return string(body)
	}

	assert.Equal(t, "asset for /api/items", fetch("/api/items"))

	// absolute rewritten keys make the second static fetch a cache hit
	assert.Equal(t, "asset for /app.js", fetch("/app.js"))
	static := hits.Load()
	assert.Equal(t, "asset for /app.js", fetch("/app.js"))
	assert.Equal(t, static, hits.Load())
}
