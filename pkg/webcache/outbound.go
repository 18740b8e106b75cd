package webcache

import (
	"net/http"
	"net/url"
)

// OutboundRequest turns a server-form inbound request into one a client
// transport accepts. net/http refuses to send a request that still
// carries RequestURI, and an inbound URL is path-only, which would also
// defeat host classification and produce relative cache keys. The
// scheme and host come from the origin when configured, otherwise from
// the request's own Host header. The inbound request is not modified.
func OutboundRequest(r *http.Request, origin *url.URL) *http.Request {
	out := r.Clone(r.Context())
	out.RequestURI = ""
	if origin != nil {
		out.URL.Scheme = origin.Scheme
		out.URL.Host = origin.Host
	}
	if out.URL.Scheme == "" {
		out.URL.Scheme = "http"
	}
	if out.URL.Host == "" {
		out.URL.Host = r.Host
	}
	out.Host = out.URL.Host
	return out
}
