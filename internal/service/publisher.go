// Package service publishes booking activity to RabbitMQ.  Failures are
// logged and returned so callers can ignore them without interrupting the
// request.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-booking-web/internal/queue"
)

// Publisher sends BookingEvents to the activity queue.  A Publisher with an
// empty URL is disabled and drops every event.
type Publisher struct {
	url    string
	queue  string
	logger *slog.Logger
}

// NewPublisher returns a Publisher; an empty url disables publishing.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{url: url, queue: queue.ActivityQueue, logger: logger.With("component", "publisher")}
}

// Enabled reports whether a broker URL was configured.
func (p *Publisher) Enabled() bool { return p.url != "" }

// Publish dials the broker, declares the queue and sends ev as a persistent
// message.
func (p *Publisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	if !p.Enabled() {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.logger.Warn("queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.logger.Warn("publish failed", "err", err, "type", ev.Type)
		return err
	}
	return nil
}
