package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
)

type fakeTransport struct {
	upserted [][]*catalog.Item
	deleted  []string
	banners  [][]*catalog.Banner
	fail     bool
}

func (f *fakeTransport) Connect() error { return nil }

func (f *fakeTransport) SendItemsUpserted(items []*catalog.Item) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.upserted = append(f.upserted, items)
	return nil
}

func (f *fakeTransport) SendItemDeleted(id string) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTransport) SendBannersChanged(banners []*catalog.Banner) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.banners = append(f.banners, banners)
	return nil
}

func TestChangeHandlerPublishesStoreMutations(t *testing.T) {
	transport := &fakeTransport{}
	store := catalog.NewStore()
	store.ChangeHandler = &RabbitChangeHandler{Master: transport}

	store.UpsertItems(&catalog.Item{Id: "1", Name: "Red Silk Saree"})
	_ = store.DeleteItem("1")
	store.UpsertBanner(&catalog.Banner{Id: "b", Title: "Diwali"})

	assert.Len(t, transport.upserted, 1)
	assert.Equal(t, []string{"1"}, transport.deleted)
	assert.Len(t, transport.banners, 1)
}

func TestChangeHandlerSkipsEmptyBatch(t *testing.T) {
	transport := &fakeTransport{}
	h := &RabbitChangeHandler{Master: transport}
	h.ItemsUpserted(nil)
	assert.Empty(t, transport.upserted)
}

func TestChangeHandlerSwallowsPublishErrors(t *testing.T) {
	transport := &fakeTransport{fail: true}
	store := catalog.NewStore()
	store.ChangeHandler = &RabbitChangeHandler{Master: transport}

	// mutations must survive a dead broker
	store.UpsertItems(&catalog.Item{Id: "1"})
	assert.Equal(t, 1, store.ItemCount())
}
