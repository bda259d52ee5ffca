// Package service holds the adapters that connect the booking core to
// external infrastructure.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
)

// amqpChannel is the part of *amqp.Channel used for publishing.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueuePublisher publishes booking events to RabbitMQ. Each publish opens
// its own connection, which keeps the publisher free of shared state at
// the cost of a dial per booking change.
type QueuePublisher struct {
	url  string
	log  logrus.FieldLogger
	now  func() time.Time
	open func(url string) (amqpChannel, func(), error)
}

func NewQueuePublisher(url string, log logrus.FieldLogger) *QueuePublisher {
	return &QueuePublisher{url: url, log: log, now: time.Now, open: dialChannel}
}

func dialChannel(url string) (amqpChannel, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("channel open: %w", err)
	}
	return ch, func() {
		_ = ch.Close()
		_ = conn.Close()
	}, nil
}

func (p *QueuePublisher) BookingCreated(ctx context.Context, b *model.Booking) error {
	return p.Publish(ctx, queue.NewBookingEvent(queue.BookingCreated, b, p.now()))
}

func (p *QueuePublisher) BookingCancelled(ctx context.Context, b *model.Booking) error {
	return p.Publish(ctx, queue.NewBookingEvent(queue.BookingCancelled, b, p.now()))
}

// Publish sends ev as a persistent JSON message to queue.BookingQueue.
// Failures are returned, not logged; the caller owns the warning and has
// the booking context for it.
func (p *QueuePublisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	ch, closeFn, err := p.open(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer closeFn()

	if _, err := ch.QueueDeclare(queue.BookingQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Type:         string(ev.Type),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.log.WithFields(logrus.Fields{"event_id": ev.ID, "type": ev.Type, "booking_id": ev.BookingID}).
		Debug("rabbitmq: event published")
	return nil
}
