package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
	"github.com/viv124/Fabric-tata-matching/pkg/common"
	"github.com/viv124/Fabric-tata-matching/pkg/server"
	"github.com/viv124/Fabric-tata-matching/pkg/storage"
	ftSync "github.com/viv124/Fabric-tata-matching/pkg/sync"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")

var listenAddress = ":8080"
var debugAddress = ":8081"

func env(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

type app struct {
	store *catalog.Store
	db    *storage.DiskStorage
	ready bool
}

func (a *app) loadCatalog() {
	if err := a.db.LoadCatalog(a.store); err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	log.Printf("catalog loaded, %d items", a.store.ItemCount())
	a.ready = true
}

// connectTransport wires the rabbit change feed. A node with RABBIT_URL
// and no NODE_NAME is the master and publishes every mutation; a node
// with both is a read replica that applies the feed. Without RABBIT_URL
// the node runs standalone.
func (a *app) connectTransport(rabbitUrl, rabbitVHost, clientName string) {
	if rabbitUrl == "" {
		log.Println("starting as standalone")
		return
	}
	cfg := ftSync.DefaultRabbitConfig(rabbitUrl, rabbitVHost)
	if clientName == "" {
		log.Println("starting as master")
		master := &ftSync.RabbitTransportMaster{RabbitConfig: cfg}
		if err := master.Connect(); err != nil {
			log.Printf("failed to connect to RabbitMQ as master: %v", err)
			return
		}
		a.store.ChangeHandler = &ftSync.RabbitChangeHandler{Master: master}
		return
	}
	log.Printf("starting as client: %s", clientName)
	client := &ftSync.RabbitTransportClient{ClientName: clientName, RabbitConfig: cfg}
	if err := client.Connect(a.store); err != nil {
		log.Fatalf("failed to connect to RabbitMQ as client: %v", err)
	}
}

func authHandler() server.AuthHandler {
	if os.Getenv("GOOGLE_CLIENT_ID") == "" {
		log.Println("no google client configured, admin auth is mocked")
		return &server.MockAuth{}
	}
	auth, err := server.NewGoogleAuth()
	if err != nil {
		log.Fatalf("failed to configure auth: %v", err)
	}
	return auth
}

func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	a := &app{
		store: catalog.NewStore(),
		db:    storage.NewDiskStorage(env("DATA_PATH", "data")),
	}
	a.loadCatalog()
	a.connectTransport(os.Getenv("RABBIT_URL"), os.Getenv("RABBIT_HOST"), os.Getenv("NODE_NAME"))

	var cache *server.Cache
	if redisUrl := os.Getenv("REDIS_URL"); redisUrl != "" {
		cache = server.NewCache(redisUrl, os.Getenv("REDIS_PASSWORD"), 0)
		log.Printf("collection cache enabled, url: %s", redisUrl)
	}

	clientSrv := server.NewClientWebServer(a.store, cache)
	adminSrv := &server.AdminWebServer{
		Store: a.store,
		Db:    a.db,
		Cache: cache,
		Auth:  authHandler(),
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", clientSrv.ClientHandler()))
	mux.Handle("/admin/", http.StripPrefix("/admin", adminSrv.AdminHandler()))

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !a.ready {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       10 * time.Second,
	})
	srv := common.NewServerWithTimeouts(&http.Server{Addr: listenAddress, Handler: mux}, timeouts)

	common.RunServerWithShutdown(srv, "storefront api", timeouts.Shutdown, timeouts.Hook,
		func(ctx context.Context) error {
			log.Println("saving catalog before shutdown")
			return a.db.SaveCatalog(a.store)
		},
		func(ctx context.Context) error {
			if cache != nil {
				cache.Close()
			}
			return nil
		},
	)
}
