package webcache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
)

// Partition is one of the four named cache buckets. The concrete
// bucket name carries the deploy version so a version bump retires the
// whole generation at activation.
type Partition string

const (
	PartitionStatic  Partition = "static"
	PartitionDynamic Partition = "dynamic"
	PartitionImages  Partition = "images"
	PartitionAPI     Partition = "api"
)

// AllPartitions in lookup order for the cross-partition fallback match.
var AllPartitions = []Partition{PartitionDynamic, PartitionStatic, PartitionImages, PartitionAPI}

// Name is the versioned bucket name, "<version>-<partition>".
func (p Partition) Name(version string) string {
	return version + "-" + string(p)
}

// ErrNotFound is returned by Store.Get on a cache miss.
var ErrNotFound = errors.New("webcache: entry not found")

// Entry is a stored response: status, headers and the full body.
type Entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Store holds cache entries grouped by versioned partition name. Get
// and Put must be safe for concurrent use per key.
type Store interface {
	Get(ctx context.Context, partition, key string) (*Entry, error)
	Put(ctx context.Context, partition, key string, e *Entry) error
	Partitions(ctx context.Context) ([]string, error)
	Drop(ctx context.Context, partition string) error
}

// Key is the request cache key. Only GET requests are ever cached so
// the URL alone identifies an entry.
func Key(r *http.Request) string {
	return r.URL.String()
}

// NewEntry drains a response body into a cache entry and replaces the
// body so the response stays usable by the caller.
func NewEntry(res *http.Response) (*Entry, error) {
	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		return nil, err
	}
	res.Body = io.NopCloser(bytes.NewReader(body))
	return &Entry{
		Status: res.StatusCode,
		Header: res.Header.Clone(),
		Body:   body,
	}, nil
}

// Response materializes the entry as an *http.Response for the given
// request, indistinguishable in shape from a live network response.
func (e *Entry) Response(r *http.Request) *http.Response {
	return &http.Response{
		StatusCode:    e.Status,
		Status:        http.StatusText(e.Status),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       r,
	}
}
