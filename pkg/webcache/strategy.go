package webcache

import (
	"net/http"
	"path"
	"strings"
)

// Strategy selects how one intercepted GET request is served and
// cached.
type Strategy int

const (
	NetworkFirst Strategy = iota
	CacheFirst
	StaleWhileRevalidate
)

func (s Strategy) String() string {
	switch s {
	case CacheFirst:
		return "cache-first"
	case StaleWhileRevalidate:
		return "stale-while-revalidate"
	default:
		return "network-first"
	}
}

// staticExtensions are the asset suffixes served cache-first.
var staticExtensions = map[string]struct{}{
	".js":   {},
	".css":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".svg":  {},
	".webp": {},
	".avif": {},
	".ico":  {},
}

// Classifier maps a request to a caching strategy. APIHost is a
// substring of the backing data API's hostname, StoragePathPart marks
// binary object storage paths under that host.
type Classifier struct {
	APIHost         string
	StoragePathPart string
}

func NewClassifier(apiHost string) *Classifier {
	return &Classifier{APIHost: apiHost, StoragePathPart: "storage"}
}

// Classify picks the strategy for a request. Object storage under the
// API host is checked before the general API rule on purpose: media
// served from the API domain is treated as cacheable, not as volatile
// API data.
func (c *Classifier) Classify(r *http.Request) Strategy {
	ext := strings.ToLower(path.Ext(r.URL.Path))
	if _, ok := staticExtensions[ext]; ok {
		return CacheFirst
	}
	onAPIHost := c.APIHost != "" && strings.Contains(r.URL.Hostname(), c.APIHost)
	if onAPIHost && c.StoragePathPart != "" && strings.Contains(r.URL.Path, c.StoragePathPart) {
		return StaleWhileRevalidate
	}
	if onAPIHost || strings.HasPrefix(r.URL.Path, "/api/") {
		return NetworkFirst
	}
	if acceptsHTML(r) {
		return NetworkFirst
	}
	return NetworkFirst
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
