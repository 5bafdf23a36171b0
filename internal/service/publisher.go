// Package service publishes change events to RabbitMQ.  Publication is
// best effort: errors are logged and returned so callers can ignore them
// without interrupting the request that caused the change.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking-api/internal/queue"
)

// ErrBrokerCooldown is returned without dialing while a recent connection
// attempt has failed.
var ErrBrokerCooldown = errors.New("broker unavailable, waiting before redial")

// redialCooldown bounds how often a down broker is dialed.
const redialCooldown = 5 * time.Second

// Publisher sends change events somewhere.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ChangeEvent) error
}

// Nop discards every event.  It is used when events are disabled.
type Nop struct{}

func (Nop) Publish(context.Context, queue.ChangeEvent) error { return nil }

// AMQPPublisher keeps one connection and channel open and re-dials lazily
// after a failure.  Messages are persistent and routed through the default
// exchange to a durable queue.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time // no dial before this
}

// NewAMQPPublisher returns a publisher for queue on the broker at url.  No
// connection is made until the first Publish.
func NewAMQPPublisher(url, queue string, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, log: log.Named("publisher")}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event failed", zap.Error(err))
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		p.log.Warn("broker unavailable, event dropped",
			zap.String("resource", ev.Resource), zap.String("action", ev.Action), zap.Error(err))
		return err
	}
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.reset()
		p.log.Warn("publish failed", zap.String("resource", ev.Resource), zap.Error(err))
		return err
	}
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// channel returns the open channel, dialing and declaring the queue first
// when needed.  Callers hold p.mu.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	if time.Now().Before(p.retryAt) {
		return nil, ErrBrokerCooldown
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		p.retryAt = time.Now().Add(redialCooldown)
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
