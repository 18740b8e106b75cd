package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/viv124/Fabric-tata-matching/pkg/common"
	"github.com/viv124/Fabric-tata-matching/pkg/webcache"
)

var listenAddress = ":8090"
var debugAddress = ":8091"

func env(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func cacheStore() webcache.Store {
	if redisUrl := os.Getenv("REDIS_URL"); redisUrl != "" {
		log.Printf("gateway cache backed by redis at %s", redisUrl)
		return webcache.NewRedisStore(redisUrl, os.Getenv("REDIS_PASSWORD"), 1)
	}
	log.Println("gateway cache held in memory")
	return webcache.NewMemoryStore()
}

// upstream parses UPSTREAM_URL, the origin all proxied requests are
// rewritten to. Unset means transparent mode: requests keep their own
// Host header over plain http.
func upstream() *url.URL {
	raw := os.Getenv("UPSTREAM_URL")
	if raw == "" {
		log.Println("no UPSTREAM_URL, proxying to each request's host")
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		log.Fatalf("invalid UPSTREAM_URL %q: %v", raw, err)
	}
	return u
}

func precacheList() []string {
	raw := os.Getenv("PRECACHE_URLS")
	if raw == "" {
		return nil
	}
	urls := make([]string, 0)
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// gatewayHandler forwards every request through the worker and copies
// the resulting response to the client. The inbound request is
// rewritten into client form first; a server request handed straight
// to the transport is rejected over its RequestURI.
func gatewayHandler(worker *webcache.Worker, origin *url.URL) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := worker.HandleFetch(webcache.OutboundRequest(r, origin))
		if err != nil {
			log.Printf("fetch failed for %s: %v", r.URL, err)
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		defer res.Body.Close()
		for name, values := range res.Header {
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		w.WriteHeader(res.StatusCode)
		if _, err := io.Copy(w, res.Body); err != nil {
			log.Printf("copy failed for %s: %v", r.URL, err)
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	worker := &webcache.Worker{
		Version:      env("CACHE_VERSION", "fabric-gallery-v2"),
		Store:        cacheStore(),
		Client:       http.DefaultClient,
		Rules:        webcache.NewClassifier(os.Getenv("API_HOST")),
		Precache:     precacheList(),
		RootDocument: os.Getenv("ROOT_DOCUMENT"),
	}

	ctx := context.Background()
	if err := worker.OnInstall(ctx); err != nil {
		log.Fatalf("install failed: %v", err)
	}
	if err := worker.OnActivate(ctx); err != nil {
		log.Fatalf("activate failed: %v", err)
	}
	log.Printf("cache generation %s active", worker.Version)

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       60 * time.Second,
		Write:      60 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   10 * time.Second,
		Hook:       5 * time.Second,
	})
	srv := common.NewServerWithTimeouts(&http.Server{
		Addr:    listenAddress,
		Handler: gatewayHandler(worker, upstream()),
	}, timeouts)

	common.RunServerWithShutdown(srv, "caching gateway", timeouts.Shutdown, timeouts.Hook)
}
