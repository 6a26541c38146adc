package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"exercise_tracker/internal/queue"

	"github.com/sirupsen/logrus"
)

// ErrUnknownEvent marks events no handler exists for. They are dropped
// without retry.
var ErrUnknownEvent = errors.New("unknown event type")

// StatsRecorder accumulates per-user activity totals. Record must ignore an
// exercise id it has already counted and report whether it applied it.
type StatsRecorder interface {
	Record(ctx context.Context, userID, exerciseID string, minutes float64, date time.Time) (bool, error)
}

// Processor applies decoded events to the activity totals.
type Processor struct {
	stats StatsRecorder
}

func NewProcessor(stats StatsRecorder) *Processor {
	return &Processor{stats: stats}
}

func (p *Processor) HandleEvent(ctx context.Context, event *queue.Event, workerID int) error {
	switch event.Type {
	case queue.EventExerciseLogged:
		return p.processExerciseLogged(ctx, event, workerID)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event.Type)
	}
}

func (p *Processor) processExerciseLogged(ctx context.Context, event *queue.Event, workerID int) error {
	var payload queue.ExerciseLogged
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("%w: decode %s payload: %v", ErrUnknownEvent, event.Type, err)
	}

	logrus.Debugf("Worker %d recording exercise=%s for user=%s", workerID, payload.ExerciseID, payload.UserID)

	applied, err := p.stats.Record(ctx, payload.UserID, payload.ExerciseID, payload.Duration, payload.Date)
	if err != nil {
		return fmt.Errorf("record stats for user %s: %w", payload.UserID, err)
	}
	if !applied {
		logrus.Debugf("Worker %d skipped exercise=%s, already recorded", workerID, payload.ExerciseID)
	}
	return nil
}
