package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
	"github.com/viv124/Fabric-tata-matching/pkg/common"
)

var (
	noQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_item_queries_total",
		Help: "The total number of catalog item queries",
	})
	noSearchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_search_queries_total",
		Help: "The total number of free-text catalog searches",
	})
)

const (
	categoriesCacheKey = "storefront:categories"
	bannersCacheKey    = "storefront:banners"
	tracksCacheKey     = "storefront:tracks"
)

// ClientWebServer serves the public storefront API: the filtered,
// sorted, scored catalog plus the small supporting collections.
type ClientWebServer struct {
	Store *catalog.Store
	Cache *Cache

	categoryCache *CacheHelper[[]*catalog.Category]
	bannerCache   *CacheHelper[[]*catalog.Banner]
	trackCache    *CacheHelper[[]*catalog.Track]
}

func NewClientWebServer(store *catalog.Store, cache *Cache) *ClientWebServer {
	return &ClientWebServer{
		Store:         store,
		Cache:         cache,
		categoryCache: NewCacheHelper[[]*catalog.Category](cache),
		bannerCache:   NewCacheHelper[[]*catalog.Banner](cache),
		trackCache:    NewCacheHelper[[]*catalog.Track](cache),
	}
}

// ListResponse is one page of query results.
type ListResponse struct {
	Items     []*catalog.Item `json:"items"`
	Page      int             `json:"page"`
	PageSize  int             `json:"pageSize"`
	TotalHits int             `json:"totalHits"`
}

// Items runs the query engine over the current catalog snapshot.
func (ws *ClientWebServer) Items(w http.ResponseWriter, r *http.Request) {
	lr, err := ListRequestFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	go noQueries.Inc()
	if lr.HasSearch() {
		go noSearchQueries.Inc()
	}

	items := ws.Store.Items()
	lr.ResolvePrices(catalog.BoundsOf(items))
	matching := catalog.Query(items, &lr.Filter)

	common.JsonHeaders(w, r, "120")
	w.WriteHeader(http.StatusOK)
	// sonic keeps encoding off the allocation hot path for the biggest
	// payload the storefront serves
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(ListResponse{
		Items:     Paginate(matching, lr.Page, lr.PageSize),
		Page:      lr.Page,
		PageSize:  lr.PageSize,
		TotalHits: len(matching),
	}); err != nil {
		log.Printf("error encoding items response: %v", err)
	}
}

func (ws *ClientWebServer) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := ws.Store.Item(r.PathValue("id"))
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	common.JsonHeaders(w, r, "120")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(item); err != nil {
		log.Printf("error encoding item response: %v", err)
	}
}

func (ws *ClientWebServer) Categories(w http.ResponseWriter, r *http.Request) {
	var categories []*catalog.Category
	err := ws.categoryCache.Handle(r.Context(), categoriesCacheKey, &categories, func() []*catalog.Category {
		return ws.Store.Categories()
	}, time.Minute*10)
	if err != nil {
		log.Printf("category cache error: %v", err)
	}
	common.JsonHeaders(w, r, "600")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(categories); err != nil {
		log.Printf("error encoding categories response: %v", err)
	}
}

func (ws *ClientWebServer) Banners(w http.ResponseWriter, r *http.Request) {
	var banners []*catalog.Banner
	err := ws.bannerCache.Handle(r.Context(), bannersCacheKey, &banners, func() []*catalog.Banner {
		return ws.Store.Banners(time.Now())
	}, time.Minute)
	if err != nil {
		log.Printf("banner cache error: %v", err)
	}
	common.JsonHeaders(w, r, "60")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(banners); err != nil {
		log.Printf("error encoding banners response: %v", err)
	}
}

func (ws *ClientWebServer) Music(w http.ResponseWriter, r *http.Request) {
	var tracks []*catalog.Track
	err := ws.trackCache.Handle(r.Context(), tracksCacheKey, &tracks, func() []*catalog.Track {
		return ws.Store.Tracks()
	}, time.Minute*10)
	if err != nil {
		log.Printf("track cache error: %v", err)
	}
	common.JsonHeaders(w, r, "600")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tracks); err != nil {
		log.Printf("error encoding music response: %v", err)
	}
}

func (ws *ClientWebServer) ClientHandler() http.Handler {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv.HandleFunc("GET /items", ws.Items)
	srv.HandleFunc("GET /items/{id}", ws.GetItem)
	srv.HandleFunc("GET /categories", ws.Categories)
	srv.HandleFunc("GET /banners", ws.Banners)
	srv.HandleFunc("GET /music", ws.Music)
	srv.HandleFunc("OPTIONS /", func(w http.ResponseWriter, r *http.Request) {
		common.RespondToOptions(w, r)
	})
	return srv
}
