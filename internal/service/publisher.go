// Package service contains outbound integrations; currently the
// best-effort publisher for booking lifecycle events.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hostelpad/hostel-booking/internal/queue"
)

// Publisher pushes booking events to the booking.events queue.  Publishing
// is best effort: a booking transition that already committed must not be
// failed because the broker is down, so callers log and ignore errors.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the given AMQP URL.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// Publish sends one event, marked persistent, to the durable queue.  Each
// call dials a fresh connection; transition volume is low enough that
// connection reuse is not worth the reconnect bookkeeping.
func (p *Publisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare("booking.events", true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", "booking.events", false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
