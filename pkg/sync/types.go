package sync

import "github.com/viv124/Fabric-tata-matching/pkg/catalog"

// RabbitConfig names the change topics shared by master and clients.
type RabbitConfig struct {
	ItemsUpsertedTopic string
	ItemDeletedTopic   string
	BannersTopic       string
	Url                string
	VHost              string
}

func DefaultRabbitConfig(url, vhost string) RabbitConfig {
	return RabbitConfig{
		ItemsUpsertedTopic: "items_upserted",
		ItemDeletedTopic:   "item_deleted",
		BannersTopic:       "banners_changed",
		Url:                url,
		VHost:              vhost,
	}
}

// TransportMaster publishes catalog changes to the fleet.
type TransportMaster interface {
	Connect() error
	SendItemsUpserted(items []*catalog.Item) error
	SendItemDeleted(id string) error
	SendBannersChanged(banners []*catalog.Banner) error
}

// TransportClient subscribes to catalog changes and applies them to a
// local store.
type TransportClient interface {
	Connect(store *catalog.Store) error
}
