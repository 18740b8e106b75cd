package webcache

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webcache_hits_total",
		Help: "Cache hits by strategy",
	}, []string{"strategy"})
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webcache_misses_total",
		Help: "Cache misses by strategy",
	}, []string{"strategy"})
	networkFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webcache_network_fallbacks_total",
		Help: "Network failures served from cache",
	})
	offlineResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webcache_offline_responses_total",
		Help: "HTML requests answered with the offline fallback",
	})
)

// Fetcher issues the actual network request. *http.Client satisfies it.
type Fetcher interface {
	Do(r *http.Request) (*http.Response, error)
}

// Worker intercepts GET traffic and serves it through one of the
// caching strategies. Each request is an independent task, in-flight
// fetches for different URLs proceed concurrently; the store is the
// only shared state.
type Worker struct {
	// Version prefixes every partition name. Bumping it on deploy
	// retires the previous generation during OnActivate.
	Version string
	Store   Store
	Client  Fetcher
	Rules   *Classifier
	// Precache lists critical asset URLs loaded into the static
	// partition during OnInstall.
	Precache []string
	// RootDocument is the URL served to HTML requests when both
	// network and cache fail. Usually the first precache entry.
	RootDocument string
}

func (w *Worker) partition(p Partition) string {
	return p.Name(w.Version)
}

// OnInstall loads the critical asset manifest into the static
// partition. A failed precache fetch fails the install, the previous
// generation keeps serving.
func (w *Worker) OnInstall(ctx context.Context) error {
	for _, rawURL := range w.Precache {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("precache %s: %w", rawURL, err)
		}
		res, err := w.Client.Do(req)
		if err != nil {
			return fmt.Errorf("precache %s: %w", rawURL, err)
		}
		e, err := NewEntry(res)
		if err != nil {
			return fmt.Errorf("precache %s: %w", rawURL, err)
		}
		if e.Status >= 400 {
			return fmt.Errorf("precache %s: status %d", rawURL, e.Status)
		}
		if err := w.Store.Put(ctx, w.partition(PartitionStatic), rawURL, e); err != nil {
			return fmt.Errorf("precache %s: %w", rawURL, err)
		}
	}
	log.Printf("webcache installed, %d assets precached", len(w.Precache))
	return nil
}

// OnActivate sweeps every partition that does not carry the current
// version prefix, then the worker owns all traffic.
func (w *Worker) OnActivate(ctx context.Context) error {
	names, err := w.Store.Partitions(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if strings.HasPrefix(name, w.Version+"-") {
			continue
		}
		log.Printf("webcache dropping old partition %s", name)
		if err := w.Store.Drop(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// HandleFetch serves one intercepted request. Non-GET requests pass
// through untouched. When the classified strategy ultimately fails and
// the request accepts HTML, a cached root document (or a synthetic 503)
// is returned instead of the raw error.
func (w *Worker) HandleFetch(r *http.Request) (*http.Response, error) {
	if r.Method != http.MethodGet {
		return w.Client.Do(r)
	}

	var res *http.Response
	var err error
	strategy := w.Rules.Classify(r)
	switch strategy {
	case CacheFirst:
		res, err = w.cacheFirst(r)
	case StaleWhileRevalidate:
		res, err = w.staleWhileRevalidate(r)
	default:
		res, err = w.networkFirst(r)
	}
	if err != nil && acceptsHTML(r) {
		return w.offlineFallback(r), nil
	}
	return res, err
}

// cacheFirst never revalidates a hit, staleness is bounded only by the
// partition version lifecycle.
func (w *Worker) cacheFirst(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if e, err := w.Store.Get(ctx, w.partition(PartitionStatic), Key(r)); err == nil {
		cacheHits.WithLabelValues(CacheFirst.String()).Inc()
		return e.Response(r), nil
	}
	cacheMisses.WithLabelValues(CacheFirst.String()).Inc()
	res, err := w.Client.Do(r)
	if err != nil {
		return nil, err
	}
	w.storeResponse(ctx, PartitionStatic, r, res)
	return res, nil
}

// networkFirst prefers the live response, caching it for the offline
// fallback. Only a transport error falls back to cache, a non-2xx
// status is returned as-is.
func (w *Worker) networkFirst(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	res, err := w.Client.Do(r)
	if err == nil {
		w.storeResponse(ctx, PartitionDynamic, r, res)
		return res, nil
	}
	if e, ok := w.matchAny(ctx, Key(r)); ok {
		networkFallbacks.Inc()
		return e.Response(r), nil
	}
	cacheMisses.WithLabelValues(NetworkFirst.String()).Inc()
	return nil, err
}

// staleWhileRevalidate answers from the images partition immediately
// and refreshes in the background without blocking the caller. A cold
// cache degrades to waiting for the network.
func (w *Worker) staleWhileRevalidate(r *http.Request) (*http.Response, error) {
	partition := w.partition(PartitionImages)
	cached, cacheErr := w.Store.Get(r.Context(), partition, Key(r))

	fetched := make(chan fetchResult, 1)
	refresh := r.Clone(context.Background())
	go func() {
		res, err := w.Client.Do(refresh)
		if err != nil {
			fetched <- fetchResult{err: err}
			return
		}
		e, err := NewEntry(res)
		if err != nil {
			fetched <- fetchResult{err: err}
			return
		}
		if e.Status < 400 {
			if err := w.Store.Put(context.Background(), partition, Key(r), e); err != nil {
				log.Printf("webcache revalidate store failed for %s: %v", Key(r), err)
			}
		}
		fetched <- fetchResult{res: res}
	}()

	if cacheErr == nil {
		cacheHits.WithLabelValues(StaleWhileRevalidate.String()).Inc()
		return cached.Response(r), nil
	}
	cacheMisses.WithLabelValues(StaleWhileRevalidate.String()).Inc()
	result := <-fetched
	return result.res, result.err
}

type fetchResult struct {
	res *http.Response
	err error
}

// storeResponse writes a successful response into the partition,
// best-effort: a store failure never hides an already fetched
// response.
func (w *Worker) storeResponse(ctx context.Context, p Partition, r *http.Request, res *http.Response) {
	if res.StatusCode >= 400 {
		return
	}
	e, err := NewEntry(res)
	if err != nil {
		log.Printf("webcache read body failed for %s: %v", Key(r), err)
		return
	}
	if err := w.Store.Put(ctx, w.partition(p), Key(r), e); err != nil {
		log.Printf("webcache store failed for %s: %v", Key(r), err)
	}
}

// matchAny looks the key up across every current-generation partition.
func (w *Worker) matchAny(ctx context.Context, key string) (*Entry, bool) {
	for _, p := range AllPartitions {
		if e, err := w.Store.Get(ctx, w.partition(p), key); err == nil {
			return e, true
		}
	}
	return nil, false
}

// offlineFallback keeps navigation alive when fully offline: the
// cached root document if present, a synthetic 503 otherwise.
func (w *Worker) offlineFallback(r *http.Request) *http.Response {
	offlineResponses.Inc()
	if w.RootDocument != "" {
		if e, err := w.Store.Get(r.Context(), w.partition(PartitionStatic), w.RootDocument); err == nil {
			return e.Response(r)
		}
	}
	header := http.Header{}
	header.Set("Content-Type", "text/plain; charset=utf-8")
	return &http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Status:     http.StatusText(http.StatusServiceUnavailable),
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader("offline")),
		Request:    r,
	}
}
