package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
	"github.com/viv124/Fabric-tata-matching/pkg/common"
	"github.com/viv124/Fabric-tata-matching/pkg/storage"
)

// AdminWebServer owns the write side of the catalog. Every mutation
// goes through Auth.Middleware and is persisted on demand via /save.
type AdminWebServer struct {
	Store *catalog.Store
	Db    *storage.DiskStorage
	Cache *Cache
	Auth  AuthHandler
}

func (ws *AdminWebServer) invalidateCollections(r *http.Request) {
	if ws.Cache == nil {
		return
	}
	ws.Cache.Invalidate(r.Context(), categoriesCacheKey, bannersCacheKey, tracksCacheKey)
}

func (ws *AdminWebServer) UpsertItem(w http.ResponseWriter, r *http.Request) {
	item := &catalog.Item{}
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if item.Id == "" {
		item.Id = uuid.NewString()
	}
	ws.Store.UpsertItems(item)
	common.PrivateJsonHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(item); err != nil {
		log.Printf("error encoding item: %v", err)
	}
}

func (ws *AdminWebServer) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := ws.Store.DeleteItem(r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ws *AdminWebServer) ListItems(w http.ResponseWriter, r *http.Request) {
	common.PrivateJsonHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ws.Store.Items()); err != nil {
		log.Printf("error encoding items: %v", err)
	}
}

func (ws *AdminWebServer) UpsertBanner(w http.ResponseWriter, r *http.Request) {
	banner := &catalog.Banner{}
	if err := json.NewDecoder(r.Body).Decode(banner); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if banner.Id == "" {
		banner.Id = uuid.NewString()
	}
	ws.Store.UpsertBanner(banner)
	ws.invalidateCollections(r)
	common.PrivateJsonHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(banner); err != nil {
		log.Printf("error encoding banner: %v", err)
	}
}

func (ws *AdminWebServer) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	ws.Store.DeleteBanner(r.PathValue("id"))
	ws.invalidateCollections(r)
	w.WriteHeader(http.StatusNoContent)
}

func (ws *AdminWebServer) ListBanners(w http.ResponseWriter, r *http.Request) {
	common.PrivateJsonHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ws.Store.AllBanners()); err != nil {
		log.Printf("error encoding banners: %v", err)
	}
}

func (ws *AdminWebServer) UpsertCategory(w http.ResponseWriter, r *http.Request) {
	category := &catalog.Category{}
	if err := json.NewDecoder(r.Body).Decode(category); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if category.Id == "" {
		category.Id = uuid.NewString()
	}
	ws.Store.UpsertCategory(category)
	ws.invalidateCollections(r)
	common.PrivateJsonHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(category); err != nil {
		log.Printf("error encoding category: %v", err)
	}
}

func (ws *AdminWebServer) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ws.Store.DeleteCategory(r.PathValue("id"))
	ws.invalidateCollections(r)
	w.WriteHeader(http.StatusNoContent)
}

func (ws *AdminWebServer) ListCategories(w http.ResponseWriter, r *http.Request) {
	common.PrivateJsonHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ws.Store.AllCategories()); err != nil {
		log.Printf("error encoding categories: %v", err)
	}
}

func (ws *AdminWebServer) UpsertTrack(w http.ResponseWriter, r *http.Request) {
	track := &catalog.Track{}
	if err := json.NewDecoder(r.Body).Decode(track); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if track.Id == "" {
		track.Id = uuid.NewString()
	}
	ws.Store.UpsertTrack(track)
	ws.invalidateCollections(r)
	common.PrivateJsonHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(track); err != nil {
		log.Printf("error encoding track: %v", err)
	}
}

func (ws *AdminWebServer) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	ws.Store.DeleteTrack(r.PathValue("id"))
	ws.invalidateCollections(r)
	w.WriteHeader(http.StatusNoContent)
}

func (ws *AdminWebServer) ListTracks(w http.ResponseWriter, r *http.Request) {
	common.PrivateJsonHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ws.Store.AllTracks()); err != nil {
		log.Printf("error encoding tracks: %v", err)
	}
}

func (ws *AdminWebServer) Save(w http.ResponseWriter, r *http.Request) {
	if err := ws.Db.SaveCatalog(ws.Store); err != nil {
		log.Printf("error saving catalog: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("saved"))
}

func (ws *AdminWebServer) AdminHandler() http.Handler {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv.HandleFunc("GET /login", ws.Auth.Login)
	srv.HandleFunc("GET /logout", ws.Auth.Logout)
	srv.HandleFunc("GET /auth_callback", ws.Auth.AuthCallback)
	srv.HandleFunc("GET /user", ws.Auth.User)

	srv.HandleFunc("GET /items", ws.Auth.Middleware(ws.ListItems))
	srv.HandleFunc("POST /items", ws.Auth.Middleware(ws.UpsertItem))
	srv.HandleFunc("DELETE /items/{id}", ws.Auth.Middleware(ws.DeleteItem))

	srv.HandleFunc("GET /banners", ws.Auth.Middleware(ws.ListBanners))
	srv.HandleFunc("POST /banners", ws.Auth.Middleware(ws.UpsertBanner))
	srv.HandleFunc("DELETE /banners/{id}", ws.Auth.Middleware(ws.DeleteBanner))

	srv.HandleFunc("GET /categories", ws.Auth.Middleware(ws.ListCategories))
	srv.HandleFunc("POST /categories", ws.Auth.Middleware(ws.UpsertCategory))
	srv.HandleFunc("DELETE /categories/{id}", ws.Auth.Middleware(ws.DeleteCategory))

	srv.HandleFunc("GET /music", ws.Auth.Middleware(ws.ListTracks))
	srv.HandleFunc("POST /music", ws.Auth.Middleware(ws.UpsertTrack))
	srv.HandleFunc("DELETE /music/{id}", ws.Auth.Middleware(ws.DeleteTrack))

	srv.HandleFunc("POST /save", ws.Auth.Middleware(ws.Save))

	srv.HandleFunc("OPTIONS /", func(w http.ResponseWriter, r *http.Request) {
		common.RespondToOptions(w, r)
	})
	return srv
}
