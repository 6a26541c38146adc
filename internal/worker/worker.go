package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"exercise_tracker/internal/observability"
	"exercise_tracker/internal/queue"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const maxRetries = 3

// republisher is the subset of *amqp.Channel used to requeue a failed message.
type republisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func republishWithRetry(ch republisher, msg *amqp.Delivery, retryCount int32) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers["x-retry-count"] = retryCount

	return ch.PublishWithContext(
		ctx,
		"",             // exchange
		msg.RoutingKey, // routing key (queue name)
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			Type:         msg.Type,
			Body:         msg.Body,
			Headers:      headers,
		},
	)
}

// retryCountOf reads x-retry-count, which may arrive as any integer width.
func retryCountOf(headers amqp.Table) int32 {
	switch v := headers["x-retry-count"].(type) {
	case int32:
		return v
	case int64:
		return int32(v)
	case int:
		return int32(v)
	case int16:
		return int32(v)
	case int8:
		return int32(v)
	default:
		return 0
	}
}

// Worker consumes events from one queue.
type Worker struct {
	id        int
	queueName string
	proc      *Processor
	metrics   *observability.Metrics
}

func New(id int, queueName string, proc *Processor, metrics *observability.Metrics) *Worker {
	return &Worker{id: id, queueName: queueName, proc: proc, metrics: metrics}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (w *Worker) Run(ctx context.Context, conn *amqp.Connection) error {
	ch, err := queue.CreateChannel(conn)
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	msgs, err := ch.ConsumeWithContext(
		ctx,
		w.queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	logrus.Infof("Worker %d started", w.id)

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("Worker %d stopping", w.id)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				logrus.Warnf("Worker %d delivery channel closed", w.id)
				return nil
			}
			w.handleDelivery(ctx, ch, msg)
		}
	}
}

// handleDelivery processes one message and settles it: ack on success or
// after a successful requeue, nack without requeue otherwise.
func (w *Worker) handleDelivery(ctx context.Context, ch republisher, msg amqp.Delivery) {
	w.metrics.MessageConsumed(w.queueName)

	var event queue.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logrus.WithError(err).Error("invalid event payload")
		w.metrics.EventFailed("unknown", "decode_error")
		_ = msg.Nack(false, false)
		return
	}

	retryCount := retryCountOf(msg.Headers)
	logrus.Debugf("Worker %d processing event=%s (retry: %d)", w.id, event.Type, retryCount)

	err := w.proc.HandleEvent(ctx, &event, w.id)
	if err == nil {
		w.metrics.EventProcessed(event.Type, "success")
		_ = msg.Ack(false)
		return
	}

	logrus.WithError(err).WithField("event_type", event.Type).Error("event failed")
	w.metrics.EventProcessed(event.Type, "failed")

	if errors.Is(err, ErrUnknownEvent) {
		w.metrics.EventFailed(event.Type, "unprocessable")
		_ = msg.Nack(false, false)
		return
	}

	if retryCount >= maxRetries {
		w.metrics.EventFailed(event.Type, "max_retries")
		_ = msg.Nack(false, false)
		return
	}

	logrus.Infof("Worker %d: event failed, requeuing (retry %d/%d)", w.id, retryCount+1, maxRetries)

	if err := republishWithRetry(ch, &msg, retryCount+1); err != nil {
		logrus.WithError(err).Error("Failed to republish message")
		w.metrics.EventFailed(event.Type, "republish_error")
		_ = msg.Nack(false, false)
		return
	}

	w.metrics.MessagePublished(w.queueName)
	_ = msg.Ack(false)
}
