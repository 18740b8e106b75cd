package sync

import (
	"log"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
)

// RabbitChangeHandler adapts the store's change hook to the master
// transport. Publish failures are logged, not propagated: the local
// mutation already happened and must not be rolled back by a broker
// hiccup.
type RabbitChangeHandler struct {
	Master TransportMaster
}

func (r *RabbitChangeHandler) ItemsUpserted(items []*catalog.Item) {
	if len(items) == 0 {
		return
	}
	if err := r.Master.SendItemsUpserted(items); err != nil {
		log.Printf("failed to publish %d upserted items: %v", len(items), err)
	}
}

func (r *RabbitChangeHandler) ItemDeleted(id string) {
	if err := r.Master.SendItemDeleted(id); err != nil {
		log.Printf("failed to publish delete of %s: %v", id, err)
	}
}

func (r *RabbitChangeHandler) BannersChanged(banners []*catalog.Banner) {
	if err := r.Master.SendBannersChanged(banners); err != nil {
		log.Printf("failed to publish banner change: %v", err)
	}
}
