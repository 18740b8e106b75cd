package sync

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
)

// RabbitTransportMaster publishes catalog changes on durable queues.
// The admin node runs one of these; storefront nodes subscribe with
// RabbitTransportClient.
type RabbitTransportMaster struct {
	RabbitConfig
	channel *amqp.Channel
}

func (t *RabbitTransportMaster) Connect() error {
	conn, err := amqp.DialConfig(t.Url, amqp.Config{Vhost: t.VHost})
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	t.channel = ch
	for _, topic := range []string{t.ItemsUpsertedTopic, t.ItemDeletedTopic, t.BannersTopic} {
		if _, err := ch.QueueDeclare(
			topic,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return err
		}
	}
	return nil
}

func (t *RabbitTransportMaster) send(topic string, data any) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return t.channel.Publish(
		"",
		topic,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}

func (t *RabbitTransportMaster) SendItemsUpserted(items []*catalog.Item) error {
	return t.send(t.ItemsUpsertedTopic, items)
}

func (t *RabbitTransportMaster) SendItemDeleted(id string) error {
	return t.send(t.ItemDeletedTopic, id)
}

func (t *RabbitTransportMaster) SendBannersChanged(banners []*catalog.Banner) error {
	return t.send(t.BannersTopic, banners)
}

// RabbitTransportClient applies published catalog changes to the local
// store. Apply* methods are used so the client never re-publishes what
// it just consumed.
type RabbitTransportClient struct {
	RabbitConfig
	ClientName string
	channel    *amqp.Channel
}

func (t *RabbitTransportClient) Connect(store *catalog.Store) error {
	conn, err := amqp.DialConfig(t.Url, amqp.Config{Vhost: t.VHost})
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	t.channel = ch

	if err := t.consume(t.ItemsUpsertedTopic, func(body []byte) error {
		var items []*catalog.Item
		if err := json.Unmarshal(body, &items); err != nil {
			return err
		}
		store.ApplyItems(items...)
		return nil
	}); err != nil {
		return err
	}
	if err := t.consume(t.ItemDeletedTopic, func(body []byte) error {
		var id string
		if err := json.Unmarshal(body, &id); err != nil {
			return err
		}
		store.ApplyItemDelete(id)
		return nil
	}); err != nil {
		return err
	}
	return t.consume(t.BannersTopic, func(body []byte) error {
		var banners []*catalog.Banner
		if err := json.Unmarshal(body, &banners); err != nil {
			return err
		}
		store.ApplyBanners(banners)
		return nil
	})
}

func (t *RabbitTransportClient) consume(topic string, apply func([]byte) error) error {
	msgs, err := t.channel.Consume(
		topic,
		t.ClientName,
		false, // manual ack, a failed apply leaves the message queued
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			if err := apply(d.Body); err != nil {
				log.Printf("failed to apply %s change: %v", topic, err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}()
	return nil
}
