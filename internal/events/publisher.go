package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

// MovementRecordedEvent is published after a movement has been committed.
type MovementRecordedEvent struct {
	MovementID           string              `json:"movementID"`
	Kind                 domain.MovementKind `json:"kind"`
	SourceAccountID      string              `json:"sourceAccountID"`
	DestinationAccountID *string             `json:"destinationAccountID,omitempty"`
	Amount               decimal.Decimal     `json:"amount"`
	Category             string              `json:"category"`
	Timestamp            time.Time           `json:"timestamp"`
}

// NewMovementRecordedEvent builds the event payload for m.
func NewMovementRecordedEvent(m domain.Movement) MovementRecordedEvent {
	return MovementRecordedEvent{
		MovementID:           m.MovementID,
		Kind:                 m.Kind,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Amount:               m.Amount,
		Category:             m.Category,
		Timestamp:            m.Timestamp,
	}
}

// RoutingKey returns the topic routing key for a movement kind, e.g. movement.income.
func RoutingKey(kind domain.MovementKind) string {
	return "movement." + strings.ToLower(string(kind))
}

// Publisher is implemented by types that can publish ledger events.
type Publisher interface {
	PublishMovementRecorded(ctx context.Context, event MovementRecordedEvent) error
	Close()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishMovementRecorded(ctx context.Context, event MovementRecordedEvent) error {
	slog.DebugContext(ctx, "Event publish skipped, no broker configured",
		slog.String("movement_id", event.MovementID),
		slog.String("routing_key", RoutingKey(event.Kind)))
	return nil
}

func (NoopPublisher) Close() {}

// AMQPPublisher publishes JSON events to a durable topic exchange.
type AMQPPublisher struct {
	exchange string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

var (
	_ Publisher = (*AMQPPublisher)(nil)
	_ Publisher = NoopPublisher{}
)

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	// Bounded dial timeout so startup does not hang.
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	p := &AMQPPublisher{exchange: exchange, conn: conn}
	if err := p.openChannel(); err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// NewPublisher returns an AMQP publisher, or a NoopPublisher when amqpURL is
// empty or the broker cannot be reached.
func NewPublisher(amqpURL, exchange string, logger *slog.Logger) Publisher {
	if strings.TrimSpace(amqpURL) == "" {
		logger.Info("AMQP_URL not set, movement events disabled")
		return NoopPublisher{}
	}
	p, err := NewAMQPPublisher(amqpURL, exchange)
	if err != nil {
		logger.Warn("Failed to connect to RabbitMQ, movement events disabled", slog.String("error", err.Error()))
		return NoopPublisher{}
	}
	logger.Info("Publishing movement events", slog.String("exchange", exchange))
	return p
}

// openChannel must be called with mu held (or before the publisher is shared).
func (p *AMQPPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		ch.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	p.channel = ch
	return nil
}

// PublishMovementRecorded publishes event with routing key movement.<kind>.
// A failed publish reopens the channel and retries once.
func (p *AMQPPublisher) PublishMovementRecorded(ctx context.Context, event MovementRecordedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal movement event: %w", err)
	}

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.MovementID,
		Timestamp:    time.Now(),
		Body:         body,
	}
	routingKey := RoutingKey(event.Kind)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		if err := p.openChannel(); err != nil {
			return err
		}
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	slog.WarnContext(ctx, "Publish failed, reopening channel",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", routingKey),
		slog.String("error", err.Error()))
	if chErr := p.openChannel(); chErr != nil {
		return errors.Join(err, chErr)
	}
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

// Close gracefully closes the channel and connection.
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
