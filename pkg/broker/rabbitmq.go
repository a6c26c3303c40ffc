package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RefreshPublisher sends one "<resource>.refresh" message per changed
// resource to a topic exchange.
type RefreshPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      logrus.FieldLogger
}

func NewRefreshPublisher(url, exchange string, log logrus.FieldLogger) (*RefreshPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	p := newRefreshPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

func newRefreshPublisher(ch channel, exchange string, log logrus.FieldLogger) *RefreshPublisher {
	return &RefreshPublisher{ch: ch, exchange: exchange, log: log}
}

func RoutingKey(resource string) string {
	return resource + ".refresh"
}

func (p *RefreshPublisher) PublishRefresh(ctx context.Context, event entities.RefreshEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, resource := range event.Resources {
		key := RoutingKey(resource)
		err := p.ch.PublishWithContext(
			ctx,
			p.exchange,
			key,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    event.OccurredAt,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to publish %s: %w", key, err)
		}
		p.log.WithFields(logrus.Fields{"exchange": p.exchange, "key": key, "booking_id": event.BookingID}).Debug("refresh event published")
	}
	return nil
}

func (p *RefreshPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
