package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"exercise_tracker/internal/observability"

	amqp "github.com/rabbitmq/amqp091-go"
)

const EventExerciseLogged = "exercise.logged"

// Event is the envelope published for every domain event.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// ExerciseLogged is published after an exercise has been stored.
type ExerciseLogged struct {
	ExerciseID  string    `json:"exercise_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Date        time.Time `json:"date"`
}

// NewEvent wraps payload in an Event envelope.
func NewEvent(eventType string, payload interface{}, now time.Time) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Event{Type: eventType, OccurredAt: now.UTC(), Payload: raw}, nil
}

type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
}

// RabbitPublisher publishes events to a durable queue through the default
// exchange. A channel is opened per publish; amqp channels are not safe for
// concurrent use.
type RabbitPublisher struct {
	conn      *amqp.Connection
	queueName string
	metrics   *observability.Metrics
}

func NewRabbitPublisher(conn *amqp.Connection, queueName string, metrics *observability.Metrics) (*RabbitPublisher, error) {
	ch, err := CreateChannel(conn)
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	if _, err := DeclareQueue(ch, queueName); err != nil {
		return nil, err
	}

	return &RabbitPublisher{conn: conn, queueName: queueName, metrics: metrics}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := CreateChannel(p.conn)
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.PublishWithContext(
		ctx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.metrics.MessagePublished(p.queueName)
	return nil
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }
