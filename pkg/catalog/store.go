package catalog

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// ChangeHandler is notified after the store mutates, typically to fan
// the change out to other nodes. Handlers run on the mutating
// goroutine.
type ChangeHandler interface {
	ItemsUpserted(items []*Item)
	ItemDeleted(id string)
	BannersChanged(banners []*Banner)
}

// Store is the in-memory catalog. Item snapshots preserve insertion
// order so repeated queries see a stable base order, which the stable
// sorts in the query engine rely on for tie handling.
type Store struct {
	mu         sync.RWMutex
	items      []*Item
	itemIndex  map[string]int
	categories map[string]*Category
	banners    map[string]*Banner
	tracks     map[string]*Track

	ChangeHandler ChangeHandler
}

func NewStore() *Store {
	return &Store{
		items:      make([]*Item, 0, 256),
		itemIndex:  make(map[string]int),
		categories: make(map[string]*Category),
		banners:    make(map[string]*Banner),
		tracks:     make(map[string]*Track),
	}
}

// Items returns a snapshot in insertion order. Callers may filter and
// sort the snapshot freely, the store keeps ownership of the items.
func (s *Store) Items() []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Item(id string) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.itemIndex[id]
	if !ok {
		return nil, false
	}
	return s.items[n], true
}

func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// UpsertItems inserts or replaces items and notifies the change
// handler once for the whole batch. New items without a timestamp get
// one here so "newest" ordering works for locally created entries.
func (s *Store) UpsertItems(items ...*Item) {
	if len(items) == 0 {
		return
	}
	now := time.Now()
	s.mu.Lock()
	for _, it := range items {
		if it.Created.IsZero() {
			it.Created = now
		}
		it.Updated = now
		if n, ok := s.itemIndex[it.Id]; ok {
			it.Created = s.items[n].Created
			s.items[n] = it
		} else {
			s.itemIndex[it.Id] = len(s.items)
			s.items = append(s.items, it)
		}
	}
	s.mu.Unlock()
	if s.ChangeHandler != nil {
		s.ChangeHandler.ItemsUpserted(items)
	}
}

// ApplyItems is UpsertItems without the change notification, used when
// the mutation itself arrived over the change feed.
func (s *Store) ApplyItems(items ...*Item) {
	s.mu.Lock()
	for _, it := range items {
		if n, ok := s.itemIndex[it.Id]; ok {
			s.items[n] = it
		} else {
			s.itemIndex[it.Id] = len(s.items)
			s.items = append(s.items, it)
		}
	}
	s.mu.Unlock()
}

func (s *Store) DeleteItem(id string) error {
	if err := s.removeItem(id); err != nil {
		return err
	}
	if s.ChangeHandler != nil {
		s.ChangeHandler.ItemDeleted(id)
	}
	return nil
}

// ApplyItemDelete removes an item without notifying the change handler.
func (s *Store) ApplyItemDelete(id string) {
	_ = s.removeItem(id)
}

func (s *Store) removeItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.itemIndex[id]
	if !ok {
		return fmt.Errorf("item %s not found", id)
	}
	s.items = append(s.items[:n], s.items[n+1:]...)
	delete(s.itemIndex, id)
	for i := n; i < len(s.items); i++ {
		s.itemIndex[s.items[i].Id] = i
	}
	return nil
}

func (s *Store) UpsertCategory(c *Category) {
	s.mu.Lock()
	s.categories[c.Id] = c
	s.mu.Unlock()
}

func (s *Store) DeleteCategory(id string) {
	s.mu.Lock()
	delete(s.categories, id)
	s.mu.Unlock()
}

// Categories lists active categories ordered by sort order, name as
// tiebreaker.
func (s *Store) Categories() []*Category {
	s.mu.RLock()
	out := make([]*Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Store) UpsertBanner(b *Banner) {
	s.mu.Lock()
	s.banners[b.Id] = b
	s.mu.Unlock()
	s.notifyBanners()
}

func (s *Store) DeleteBanner(id string) {
	s.mu.Lock()
	delete(s.banners, id)
	s.mu.Unlock()
	s.notifyBanners()
}

// ApplyBanners replaces the whole banner set, used by the change feed.
func (s *Store) ApplyBanners(banners []*Banner) {
	s.mu.Lock()
	s.banners = make(map[string]*Banner, len(banners))
	for _, b := range banners {
		s.banners[b.Id] = b
	}
	s.mu.Unlock()
}

func (s *Store) notifyBanners() {
	if s.ChangeHandler == nil {
		return
	}
	s.ChangeHandler.BannersChanged(s.AllBanners())
}

// Banners lists banners live at the given instant, by sort order.
func (s *Store) Banners(now time.Time) []*Banner {
	s.mu.RLock()
	out := make([]*Banner, 0, len(s.banners))
	for _, b := range s.banners {
		if b.Live(now) {
			out = append(out, b)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// AllBanners lists every banner regardless of display window, for admin views
// and the change feed.
func (s *Store) AllBanners() []*Banner {
	s.mu.RLock()
	out := make([]*Banner, 0, len(s.banners))
	for _, b := range s.banners {
		out = append(out, b)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (s *Store) UpsertTrack(t *Track) {
	s.mu.Lock()
	s.tracks[t.Id] = t
	s.mu.Unlock()
}

func (s *Store) DeleteTrack(id string) {
	s.mu.Lock()
	delete(s.tracks, id)
	s.mu.Unlock()
}

// Tracks lists active background music entries by title.
func (s *Store) Tracks() []*Track {
	s.mu.RLock()
	out := make([]*Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		if t.IsActive {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// AllTracks lists every track for admin views and persistence.
func (s *Store) AllTracks() []*Track {
	s.mu.RLock()
	out := make([]*Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		out = append(out, t)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// AllCategories lists every category for admin views and persistence.
func (s *Store) AllCategories() []*Category {
	s.mu.RLock()
	out := make([]*Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}
