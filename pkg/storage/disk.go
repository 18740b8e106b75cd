package storage

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
)

const (
	itemsFile      = "items.jz"
	categoriesFile = "categories.json"
	bannersFile    = "banners.json"
	tracksFile     = "tracks.json"
)

// DiskStorage persists the catalog under a directory. Items stream as
// gzipped JSON lines, the small collections are plain JSON files.
// Saves go through a temp file and rename so a crash never leaves a
// half-written catalog behind.
type DiskStorage struct {
	Path string
}

func NewDiskStorage(dataPath string) *DiskStorage {
	return &DiskStorage{Path: dataPath}
}

func (d *DiskStorage) filename(name string) string {
	return path.Join(d.Path, name)
}

// LoadCatalog fills the store from disk. Missing files mean a fresh
// install and are not errors.
func (d *DiskStorage) LoadCatalog(store *catalog.Store) error {
	if err := d.loadItems(store); err != nil {
		return err
	}
	var categories []*catalog.Category
	if err := d.loadJson(categoriesFile, &categories); err != nil {
		return err
	}
	for _, c := range categories {
		store.UpsertCategory(c)
	}
	var banners []*catalog.Banner
	if err := d.loadJson(bannersFile, &banners); err != nil {
		return err
	}
	store.ApplyBanners(banners)
	var tracks []*catalog.Track
	if err := d.loadJson(tracksFile, &tracks); err != nil {
		return err
	}
	for _, tr := range tracks {
		store.UpsertTrack(tr)
	}
	return nil
}

func (d *DiskStorage) loadItems(store *catalog.Store) error {
	file, err := os.Open(d.filename(itemsFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	dec := json.NewDecoder(zipReader)
	for {
		item := &catalog.Item{}
		if err := dec.Decode(item); err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("decode %s: %w", itemsFile, err)
		}
		store.ApplyItems(item)
	}
	return nil
}

func (d *DiskStorage) loadJson(name string, out any) error {
	file, err := os.Open(d.filename(name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(out)
}

// SaveCatalog writes the whole catalog back to disk.
func (d *DiskStorage) SaveCatalog(store *catalog.Store) error {
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return err
	}
	if err := d.saveItems(store); err != nil {
		return err
	}
	if err := d.saveJson(categoriesFile, store.AllCategories()); err != nil {
		return err
	}
	if err := d.saveJson(bannersFile, store.AllBanners()); err != nil {
		return err
	}
	return d.saveJson(tracksFile, store.AllTracks())
}

func (d *DiskStorage) saveItems(store *catalog.Store) error {
	return d.atomicWrite(itemsFile, func(w io.Writer) error {
		zipWriter := gzip.NewWriter(w)
		enc := json.NewEncoder(zipWriter)
		for _, item := range store.Items() {
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
		return zipWriter.Close()
	})
}

func (d *DiskStorage) saveJson(name string, data any) error {
	return d.atomicWrite(name, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(data)
	})
}

func (d *DiskStorage) atomicWrite(name string, write func(io.Writer) error) error {
	target := d.filename(name)
	tmp := target + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}
