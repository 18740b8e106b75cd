package storage

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
)

func TestCatalogRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := NewDiskStorage(dir)

	src := catalog.NewStore()
	src.UpsertItems(
		&catalog.Item{Id: "1", Name: "Red Silk Saree", Price: 1000, Discount: 10, Featured: true, Color: "Red"},
		&catalog.Item{Id: "2", Name: "Blue Cotton", Price: 500},
	)
	src.UpsertCategory(&catalog.Category{Id: "c1", Name: "Saree", IsActive: true})
	src.UpsertBanner(&catalog.Banner{Id: "b1", Title: "Diwali Sale", IsActive: true})
	src.UpsertTrack(&catalog.Track{Id: "t1", Title: "Sitar", IsActive: true})

	require.NoError(t, d.SaveCatalog(src))

	dst := catalog.NewStore()
	require.NoError(t, d.LoadCatalog(dst))

	assert.Equal(t, 2, dst.ItemCount())
	item, ok := dst.Item("1")
	require.True(t, ok)
	assert.Equal(t, "Red Silk Saree", item.Name)
	assert.Equal(t, 900.0, item.EffectivePrice())

	require.Len(t, dst.Categories(), 1)
	require.Len(t, dst.Banners(time.Now()), 1)
	require.Len(t, dst.Tracks(), 1)
}

func TestLoadMissingFilesIsFreshStart(t *testing.T) {
	d := NewDiskStorage(t.TempDir())
	store := catalog.NewStore()
	require.NoError(t, d.LoadCatalog(store))
	assert.Zero(t, store.ItemCount())
}

func TestLoadLeavesBootLoggingToCaller(t *testing.T) {
	dir := t.TempDir()
	d := NewDiskStorage(dir)

	store := catalog.NewStore()
	store.UpsertItems(&catalog.Item{Id: "1", Name: "Red Silk Saree"})
	require.NoError(t, d.SaveCatalog(store))

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	require.NoError(t, d.LoadCatalog(catalog.NewStore()))
	assert.Empty(t, buf.String(), "the loaded-item count is reported once, by main")
}

func TestSaveOverwritesPrevious(t *testing.T) {
	dir := t.TempDir()
	d := NewDiskStorage(dir)

	store := catalog.NewStore()
	store.UpsertItems(&catalog.Item{Id: "1", Name: "one"})
	require.NoError(t, d.SaveCatalog(store))

	store.ApplyItemDelete("1")
	store.UpsertItems(&catalog.Item{Id: "2", Name: "two"})
	require.NoError(t, d.SaveCatalog(store))

	fresh := catalog.NewStore()
	require.NoError(t, d.LoadCatalog(fresh))
	assert.Equal(t, 1, fresh.ItemCount())
	_, ok := fresh.Item("2")
	assert.True(t, ok)
}
